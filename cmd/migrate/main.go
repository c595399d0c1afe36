package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/migrate"
)

type options struct {
	dir     string
	name    string
	version string
}

// offline commands operate on the migrations directory only.
var offline = map[string]func(opts options) (string, error){
	"create": func(opts options) (string, error) {
		if opts.name == "" {
			return "", fmt.Errorf("missing -name for create")
		}
		path, err := migrate.CreateSQLMigration(opts.dir, opts.name)
		if err != nil {
			return "", err
		}
		return "created migration: " + path, nil
	},
	"validate": func(opts options) (string, error) {
		if err := migrate.ValidateFS(migrate.Source(opts.dir)); err != nil {
			return "", err
		}
		return "migration validation passed", nil
	},
}

var online = map[string]func(ctx context.Context, sqlDB *sql.DB, opts options, logg *logger.Logger) error{
	"up": func(ctx context.Context, sqlDB *sql.DB, opts options, logg *logger.Logger) error {
		return migrate.Run(ctx, sqlDB, migrate.Source(opts.dir), "up", logg)
	},
	"down": func(ctx context.Context, sqlDB *sql.DB, opts options, logg *logger.Logger) error {
		return migrate.Run(ctx, sqlDB, migrate.Source(opts.dir), "down", logg)
	},
	"status": func(ctx context.Context, sqlDB *sql.DB, opts options, logg *logger.Logger) error {
		return migrate.Run(ctx, sqlDB, migrate.Source(opts.dir), "status", logg)
	},
	"version": func(ctx context.Context, sqlDB *sql.DB, opts options, logg *logger.Logger) error {
		if opts.version == "" {
			return fmt.Errorf("missing -version for version command")
		}
		return migrate.MigrateToVersion(ctx, sqlDB, migrate.Source(opts.dir), opts.version, logg)
	},
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "migration command: up|down|status|version|create|validate")
	var opts options
	flag.StringVar(&opts.dir, "dir", migrate.DefaultDir, "goose migrations directory (empty uses the embedded set)")
	flag.StringVar(&opts.name, "name", "", "migration name (for create)")
	flag.StringVar(&opts.version, "version", "", "target version (YYYYMMDDHHMMSS) for -cmd=version")
	flag.Parse()

	if run, ok := offline[*cmd]; ok {
		msg, err := run(opts)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s failed: %v\n", *cmd, err)
			os.Exit(1)
		}
		fmt.Println(msg)
		return
	}

	run, ok := online[*cmd]
	if !ok {
		fmt.Fprintln(os.Stderr, "unknown -cmd value:", *cmd)
		os.Exit(1)
	}

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       cfg.App.LogLevel,
		WarnStack:   cfg.App.LogWarnStack,
		Format:      cfg.App.LogFormat,
	})
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env": cfg.App.Env,
		"cmd": *cmd,
		"dir": opts.dir,
	})

	dbClient, err := db.New(ctx, cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer dbClient.Close()

	sqlDB, err := dbClient.SQL()
	requireResource(ctx, logg, "sql database", err)

	logg.Info(ctx, "migrate ready")
	if err := run(ctx, sqlDB, opts, logg); err != nil {
		logg.Error(ctx, "goose "+*cmd+" failed", err)
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
