package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/logger"
)

type fakeExpirer struct {
	cutoff time.Time
	count  int
	err    error
	calls  int
}

func (f *fakeExpirer) ExpirePendingCheckouts(_ context.Context, cutoff time.Time) (int, error) {
	f.calls++
	f.cutoff = cutoff
	return f.count, f.err
}

func TestPendingCheckoutJobUsesTTLCutoff(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	expirer := &fakeExpirer{count: 2}
	job, err := NewPendingCheckoutJob(PendingCheckoutJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "cron-test"}),
		Expirer: expirer,
		TTL:     48 * time.Hour,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	job.(*pendingCheckoutJob).now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if expirer.calls != 1 {
		t.Fatalf("expected 1 call, got %d", expirer.calls)
	}
	if want := now.Add(-48 * time.Hour); !expirer.cutoff.Equal(want) {
		t.Fatalf("cutoff = %s, want %s", expirer.cutoff, want)
	}
	if job.Name() != "pending-checkout-expiry" {
		t.Fatalf("unexpected job name %q", job.Name())
	}
}

func TestPendingCheckoutJobDefaultsTTL(t *testing.T) {
	job, err := NewPendingCheckoutJob(PendingCheckoutJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "cron-test"}),
		Expirer: &fakeExpirer{},
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	if got := job.(*pendingCheckoutJob).ttl; got != defaultPendingCheckoutTTL {
		t.Fatalf("ttl = %s, want %s", got, defaultPendingCheckoutTTL)
	}
}

func TestPendingCheckoutJobPropagatesErrors(t *testing.T) {
	expirer := &fakeExpirer{count: 1, err: errors.New("db down")}
	job, err := NewPendingCheckoutJob(PendingCheckoutJobParams{
		Logger:  logger.New(logger.Options{ServiceName: "cron-test"}),
		Expirer: expirer,
	})
	if err != nil {
		t.Fatalf("construct job: %v", err)
	}
	err = job.Run(context.Background())
	if err == nil || !errors.Is(err, expirer.err) {
		t.Fatalf("expected wrapped expirer error, got %v", err)
	}
}

func TestNewPendingCheckoutJobRequiresDependencies(t *testing.T) {
	if _, err := NewPendingCheckoutJob(PendingCheckoutJobParams{Expirer: &fakeExpirer{}}); err == nil {
		t.Fatal("expected logger error")
	}
	if _, err := NewPendingCheckoutJob(PendingCheckoutJobParams{Logger: logger.New(logger.Options{ServiceName: "cron-test"})}); err == nil {
		t.Fatal("expected expirer error")
	}
}
