package db

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type testModel struct {
	ID   int
	Name string
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, conn.AutoMigrate(&testModel{}))
	return conn
}

func countRows(t *testing.T, conn *gorm.DB) int64 {
	t.Helper()
	var count int64
	require.NoError(t, conn.Model(&testModel{}).Count(&count).Error)
	return count
}

func TestWithTxCommitsAndRollsBack(t *testing.T) {
	conn := newTestDB(t)
	client := Wrap(conn)
	ctx := context.Background()

	require.NoError(t, client.WithTx(ctx, func(tx *gorm.DB) error {
		return tx.Create(&testModel{Name: "committed"}).Error
	}))
	require.EqualValues(t, 1, countRows(t, conn))

	err := client.WithTx(ctx, func(tx *gorm.DB) error {
		if err := tx.Create(&testModel{Name: "rolled"}).Error; err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.EqualError(t, err, "boom")
	require.EqualValues(t, 1, countRows(t, conn))
}

func TestWithTxRollsBackOnPanic(t *testing.T) {
	conn := newTestDB(t)
	client := Wrap(conn)

	require.Panics(t, func() {
		_ = client.WithTx(context.Background(), func(tx *gorm.DB) error {
			if err := tx.Create(&testModel{Name: "lost"}).Error; err != nil {
				return err
			}
			panic("kaboom")
		})
	})
	require.EqualValues(t, 0, countRows(t, conn))
}

func TestPingAndSQLHandle(t *testing.T) {
	client := Wrap(newTestDB(t))
	require.NoError(t, client.Ping(context.Background()))

	sqlDB, err := client.SQL()
	require.NoError(t, err)
	require.NotNil(t, sqlDB)
}

func TestNewRequiresDSN(t *testing.T) {
	_, err := New(context.Background(), config.DBConfig{}, nil)
	require.Error(t, err)
}

func TestQueryLoggerReportsSlowAndFailingStatements(t *testing.T) {
	buf := &bytes.Buffer{}
	logg := logger.New(logger.Options{ServiceName: "test", Output: buf})
	ql := newQueryLogger(logg, time.Millisecond)
	ctx := context.Background()

	ql.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT 1", 1 }, nil)
	require.Empty(t, buf.String(), "fast statements are not logged")

	ql.Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) { return "SELECT pg_sleep(1)", 1 }, nil)
	require.Contains(t, buf.String(), "slow sql statement")
	require.Contains(t, buf.String(), "pg_sleep")

	buf.Reset()
	ql.Trace(ctx, time.Now(), func() (string, int64) { return "SELECT * FROM orders", 0 }, gorm.ErrRecordNotFound)
	require.Empty(t, buf.String(), "not found is not a failure")

	ql.Trace(ctx, time.Now(), func() (string, int64) { return "INSERT INTO orders", 0 }, errors.New("duplicate key"))
	require.True(t, strings.Contains(buf.String(), "sql statement failed"))

	buf.Reset()
	ql.LogMode(gormlogger.Silent).Trace(ctx, time.Now().Add(-time.Second), func() (string, int64) { return "SELECT 1", 1 }, errors.New("x"))
	require.Empty(t, buf.String())
}
