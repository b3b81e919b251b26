package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
)

// kvRepo implements KVRepo on the progress_kv table.
type kvRepo struct {
	s *Store
}

func (r *kvRepo) Get(ctx context.Context, key string) ([]byte, bool, error) {
	query, args, err := r.s.builder.
		Select("payload").
		From("progress_kv").
		Where(squirrel.Eq{"key_name": key}).
		ToSql()
	if err != nil {
		return nil, false, fmt.Errorf("build kv get: %w", err)
	}

	var payload string
	if err := r.s.db.GetContext(ctx, &payload, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get %s: %w", key, err)
	}
	return []byte(payload), true, nil
}

func (r *kvRepo) Set(ctx context.Context, key string, value []byte) error {
	query, args, err := r.s.builder.
		Insert("progress_kv").
		Columns("key_name", "payload", "updated_ms").
		Values(key, string(value), r.s.now().UnixMilli()).
		Suffix("ON CONFLICT (key_name) DO UPDATE SET payload = excluded.payload, updated_ms = excluded.updated_ms").
		ToSql()
	if err != nil {
		return fmt.Errorf("build kv set: %w", err)
	}
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func (r *kvRepo) Delete(ctx context.Context, key string) error {
	query, args, err := r.s.builder.
		Delete("progress_kv").
		Where(squirrel.Eq{"key_name": key}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build kv delete: %w", err)
	}
	if _, err := r.s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}
