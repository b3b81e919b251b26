package kv

import (
	"context"

	"github.com/abhisek/sensei/internal/store"
)

// SQL adapts the store's progress_kv table.
type SQL struct {
	repo store.KVRepo
}

// NewSQL wraps repo.
func NewSQL(repo store.KVRepo) *SQL {
	return &SQL{repo: repo}
}

func (s *SQL) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok, err := s.repo.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return v, nil
}

func (s *SQL) Set(ctx context.Context, key string, value []byte) error {
	return s.repo.Set(ctx, key, value)
}

func (s *SQL) Delete(ctx context.Context, key string) error {
	return s.repo.Delete(ctx, key)
}
