package visitors

import (
	"context"
	"fmt"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
)

const counterName = "visitors"

type counterStore interface {
	Incr(ctx context.Context, key string) (int64, error)
	Counter(ctx context.Context, key string) (int64, error)
	CounterKey(name string) string
}

// Count is the visitor counter payload.
type Count struct {
	Count int64 `json:"count"`
}

// Service counts unique visitors. Uniqueness is decided by the caller's cookie.
type Service interface {
	Track(ctx context.Context) (Count, error)
	Current(ctx context.Context) (Count, error)
}

type service struct {
	store counterStore
}

// NewService builds the visitor counter on top of a redis store.
func NewService(store counterStore) (Service, error) {
	if store == nil {
		return nil, fmt.Errorf("counter store required")
	}
	return &service{store: store}, nil
}

func (s *service) Track(ctx context.Context) (Count, error) {
	n, err := s.store.Incr(ctx, s.store.CounterKey(counterName))
	if err != nil {
		return Count{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment visitor counter")
	}
	return Count{Count: n}, nil
}

func (s *service) Current(ctx context.Context) (Count, error) {
	n, err := s.store.Counter(ctx, s.store.CounterKey(counterName))
	if err != nil {
		return Count{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read visitor counter")
	}
	return Count{Count: n}, nil
}
