package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/abhisek/sensei/internal/config"
	"github.com/abhisek/sensei/internal/identity"
	"github.com/abhisek/sensei/internal/kv"
	"github.com/abhisek/sensei/internal/llm"
	"github.com/abhisek/sensei/internal/logger"
	"github.com/abhisek/sensei/internal/progress"
	"github.com/abhisek/sensei/internal/store"
)

// env is what every command opens: settings, a logger, the SQL store and
// the progress backend.
type env struct {
	cfg   config.Config
	log   *logger.Logger
	store *store.Store
	kv    kv.Store
	loc   *time.Location
}

// openEnv loads configuration and opens storage. Callers must Close it.
func openEnv(cmd *cobra.Command, logMode string) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if logMode == "" {
		logMode = cfg.LogMode
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	dsn, err := resolveDSN(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database: %w", err)
	}
	st, err := store.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	backend, err := kv.Open(cmd.Context(), kv.Options{
		Backend:   cfg.KV,
		RedisAddr: cfg.RedisAddr,
		FileDir:   cfg.FileDir,
		SQL:       st.KVRepo(),
	})
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("open progress backend: %w", err)
	}

	return &env{cfg: cfg, log: log, store: st, kv: backend, loc: loc}, nil
}

// resolveDSN returns the --db flag (highest priority), then the configured
// path, then the default XDG path. Only sqlite paths get a parent directory.
func resolveDSN(cmd *cobra.Command, cfg config.Config) (string, error) {
	dsn, _ := cmd.Flags().GetString("db")
	if dsn == "" {
		dsn = cfg.DBPath
	}
	if cfg.DBDriver != "sqlite" {
		if dsn == "" {
			return "", fmt.Errorf("%s driver needs a DSN", cfg.DBDriver)
		}
		return dsn, nil
	}
	if dsn == "" {
		return config.DefaultDBPath()
	}
	return dsn, config.EnsureDir(dsn)
}

func (e *env) Close() {
	if c, ok := e.kv.(io.Closer); ok {
		if err := c.Close(); err != nil {
			e.log.Warn("close progress backend", "error", err)
		}
	}
	if err := e.store.Close(); err != nil {
		e.log.Warn("close store", "error", err)
	}
	e.log.Sync()
}

// userID returns --user, or the local learner id stored in the backend.
func (e *env) userID(cmd *cobra.Command) (string, error) {
	if id, _ := cmd.Flags().GetString("user"); id != "" {
		return id, nil
	}
	return identity.Local(cmd.Context(), e.kv, e.cfg.Namespace)
}

// progressFor opens userID's progress document.
func (e *env) progressFor(userID string) (*progress.Store, error) {
	return progress.New(userID, e.kv,
		progress.WithLocation(e.loc),
		progress.WithNamespace(e.cfg.Namespace),
		progress.WithLogger(e.log),
	)
}

// errNoProvider is returned when neither the environment nor a discovered
// API key selects a usable LLM provider.
var errNoProvider = errors.New("no LLM provider configured")

// provider builds the LLM provider, wrapped with event logging and retry.
// An explicit SENSEI_LLM_PROVIDER wins; otherwise the first provider with an
// API key in the environment is used.
func (e *env) provider(ctx context.Context) (llm.Provider, llm.Config, error) {
	cfg := llm.ConfigFromEnv()
	if err := cfg.Validate(); err != nil {
		found, ok := llm.DiscoverConfig()
		if !ok {
			return nil, cfg, fmt.Errorf("%w: %v", errNoProvider, err)
		}
		cfg = found
	}
	p, err := llm.NewProvider(ctx, cfg, e.store.EventRepo(), e.log)
	if err != nil {
		return nil, cfg, err
	}
	return p, cfg, nil
}
