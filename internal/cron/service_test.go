package cron

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
)

type fakeLock struct {
	held     bool
	releases int
}

func (f *fakeLock) Acquire(context.Context) (bool, error) {
	if f.held {
		return false, nil
	}
	f.held = true
	return true, nil
}

func (f *fakeLock) Release(context.Context) error {
	f.held = false
	f.releases++
	return nil
}

type testJob struct {
	name        string
	err         error
	panics      bool
	runs        int
	hadDeadline bool
}

func (t *testJob) Name() string { return t.name }

func (t *testJob) Run(ctx context.Context) error {
	t.runs++
	_, t.hadDeadline = ctx.Deadline()
	if t.panics {
		panic("nil map write")
	}
	return t.err
}

func newTestService(t *testing.T, lock Lock, jobs ...Job) *Service {
	t.Helper()
	registry, err := NewRegistry(jobs...)
	if err != nil {
		t.Fatalf("registry: %v", err)
	}
	service, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test"}),
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.NewRegistry()),
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	return service
}

func TestServiceRunOnceRunsAllJobsEvenOnFailure(t *testing.T) {
	failing := &testJob{name: "fail", err: errors.New("boom")}
	succeeding := &testJob{name: "success"}
	lock := &fakeLock{}
	service := newTestService(t, lock, failing, succeeding)

	err := service.RunOnce(context.Background())
	if err == nil || !strings.Contains(err.Error(), "fail: boom") {
		t.Fatalf("expected the failing job error, got %v", err)
	}
	if failing.runs != 1 || succeeding.runs != 1 {
		t.Fatalf("expected each job to run once, got fail=%d success=%d", failing.runs, succeeding.runs)
	}
	if lock.held || lock.releases != 1 {
		t.Fatalf("expected lock released once, held=%v releases=%d", lock.held, lock.releases)
	}
}

func TestServiceRunOnceRecoversPanickingJob(t *testing.T) {
	panicking := &testJob{name: "explode", panics: true}
	after := &testJob{name: "after"}
	lock := &fakeLock{}
	service := newTestService(t, lock, panicking, after)

	err := service.RunOnce(context.Background())
	if err == nil || !strings.Contains(err.Error(), "job panicked: nil map write") {
		t.Fatalf("expected panic to surface as error, got %v", err)
	}
	if after.runs != 1 {
		t.Fatalf("expected later job to run after a panic")
	}
	if !after.hadDeadline {
		t.Fatalf("expected jobs to run with a deadline")
	}
	if lock.held {
		t.Fatalf("lock still held after panic")
	}
}

func TestServiceRunOnceSkipsWhenLockHeld(t *testing.T) {
	job := &testJob{name: "sweep"}
	lock := &fakeLock{held: true}
	service := newTestService(t, lock, job)

	if err := service.RunOnce(context.Background()); err != nil {
		t.Fatalf("run once: %v", err)
	}
	if job.runs != 0 {
		t.Fatalf("expected job to be skipped, ran %d times", job.runs)
	}
	if lock.releases != 0 {
		t.Fatalf("lock released without being acquired")
	}
}

func TestNewServiceValidatesParams(t *testing.T) {
	if _, err := NewService(ServiceParams{Lock: &fakeLock{}}); err == nil {
		t.Fatal("expected logger error")
	}
	service, err := NewService(ServiceParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
		Lock:   &fakeLock{},
	})
	if err != nil {
		t.Fatalf("construct service: %v", err)
	}
	if service.interval != time.Hour {
		t.Fatalf("expected default interval, got %s", service.interval)
	}
}

type memoryLockStore struct {
	values map[string]string
}

func (m *memoryLockStore) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	if _, ok := m.values[key]; ok {
		return false, nil
	}
	m.values[key] = value.(string)
	return true, nil
}

func (m *memoryLockStore) CompareAndDelete(_ context.Context, key, expected string) (bool, error) {
	if m.values[key] != expected {
		return false, nil
	}
	delete(m.values, key)
	return true, nil
}

func (m *memoryLockStore) LockKey(name string) string { return "storefront:lock:" + name }

func TestRedisLockExcludesSecondWorker(t *testing.T) {
	store := &memoryLockStore{values: map[string]string{}}
	first, err := NewRedisLock(store, time.Minute)
	if err != nil {
		t.Fatalf("new lock: %v", err)
	}
	second, _ := NewRedisLock(store, time.Minute)
	ctx := context.Background()

	if ok, err := first.Acquire(ctx); err != nil || !ok {
		t.Fatalf("first acquire: ok=%v err=%v", ok, err)
	}
	if ok, _ := second.Acquire(ctx); ok {
		t.Fatal("second worker acquired a held lock")
	}
	if err := second.Release(ctx); err != nil {
		t.Fatalf("second release: %v", err)
	}
	if _, ok := store.values["storefront:lock:cron-worker"]; !ok {
		t.Fatal("non-owner release removed the lock")
	}
	if err := first.Release(ctx); err != nil {
		t.Fatalf("first release: %v", err)
	}
	if ok, _ := second.Acquire(ctx); !ok {
		t.Fatal("expected lock to be free after owner release")
	}
}

func TestRedisLockLeavesForeignOwner(t *testing.T) {
	store := &memoryLockStore{values: map[string]string{}}
	lock, _ := NewRedisLock(store, time.Minute)
	ctx := context.Background()
	if ok, _ := lock.Acquire(ctx); !ok {
		t.Fatal("acquire failed")
	}
	store.values["storefront:lock:cron-worker"] = "someone-else"
	if err := lock.Release(ctx); err != nil {
		t.Fatalf("release: %v", err)
	}
	if store.values["storefront:lock:cron-worker"] != "someone-else" {
		t.Fatal("release removed a lock owned by another worker")
	}
}
