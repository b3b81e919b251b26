package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/abhisek/sensei/internal/identity"
	"github.com/abhisek/sensei/internal/jobs"
	"github.com/abhisek/sensei/internal/lessons"
	"github.com/abhisek/sensei/internal/server"
	"github.com/abhisek/sensei/internal/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API for the web client",
	RunE: func(cmd *cobra.Command, args []string) error {
		addr, _ := cmd.Flags().GetString("addr")

		e, err := openEnv(cmd, "")
		if err != nil {
			return err
		}
		defer e.Close()
		if addr == "" {
			addr = e.cfg.Addr
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		svc, err := e.services(ctx)
		if errors.Is(err, errNoProvider) {
			e.log.Warn("chat disabled", "error", err)
		} else if err != nil {
			return err
		}

		catalog, err := lessons.DefaultCatalog()
		if err != nil {
			return err
		}
		issuer, err := identity.NewIssuer(e.cfg.JWTSecret, e.cfg.TokenTTL.Duration)
		if err != nil {
			return err
		}
		registry := session.NewRegistry(svc.machine)

		srv, err := server.New(server.Deps{
			Sessions:    registry,
			Issuer:      issuer,
			Enricher:    svc.enricher,
			Lessons:     svc.lessons,
			Catalog:     catalog,
			ParentPIN:   e.cfg.ParentPIN,
			CORSOrigins: e.cfg.CORSOrigins,
			Log:         e.log,
		})
		if err != nil {
			return err
		}

		jobCfg := jobs.DefaultConfig()
		jobCfg.Retention = time.Duration(e.cfg.EventRetentionDays) * 24 * time.Hour
		jobCfg.SessionIdle = e.cfg.SessionIdle.Duration
		runner := jobs.New(jobCfg, e.store.EventRepo(), registry, e.log)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return srv.Run(gctx, addr)
		})
		g.Go(func() error {
			if err := runner.Start(); err != nil {
				return err
			}
			<-gctx.Done()
			runner.Stop()
			return nil
		})
		g.Go(func() error {
			// Catch up on pruning missed while the server was down.
			pctx, cancel := context.WithTimeout(gctx, time.Minute)
			defer cancel()
			if n, err := runner.PruneNow(pctx); err != nil {
				e.log.Warn("startup prune failed", "error", err)
			} else if n > 0 {
				e.log.Info("pruned llm events", "count", n)
			}
			return nil
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides SENSEI_ADDR)")
}
