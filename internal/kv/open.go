package kv

import (
	"context"
	"fmt"

	"github.com/abhisek/sensei/internal/store"
	"github.com/spf13/afero"
)

// Options selects and configures a backend.
type Options struct {
	Backend   string // "sql", "redis", "file", "memory"
	RedisAddr string
	FileDir   string
	SQL       store.KVRepo
}

// Open builds the Store named by opts.Backend.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", "sql":
		if opts.SQL == nil {
			return nil, fmt.Errorf("sql backend requires a store")
		}
		return NewSQL(opts.SQL), nil
	case "memory":
		return NewMemory(), nil
	case "file":
		if opts.FileDir == "" {
			return nil, fmt.Errorf("file backend requires a directory")
		}
		return NewFile(afero.NewOsFs(), opts.FileDir), nil
	case "redis":
		return NewRedis(ctx, opts.RedisAddr)
	default:
		return nil, fmt.Errorf("unknown kv backend: %q", opts.Backend)
	}
}
