package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/sensei/internal/app"
	"github.com/abhisek/sensei/internal/lessons"
	"github.com/abhisek/sensei/internal/llm"
	"github.com/abhisek/sensei/internal/session"
	"github.com/abhisek/sensei/internal/tutor"
	"github.com/abhisek/sensei/internal/vocab"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Start a practice session in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd)
	},
}

// runPlay opens storage, builds the learner's machine and launches the TUI.
// Log output would corrupt the terminal UI, so the logger is silenced;
// LLM calls are still recorded in the event store.
func runPlay(cmd *cobra.Command) error {
	e, err := openEnv(cmd, "nop")
	if err != nil {
		return err
	}
	defer e.Close()

	userID, err := e.userID(cmd)
	if err != nil {
		return err
	}

	svc, err := e.services(cmd.Context())
	offline := errors.Is(err, errNoProvider)
	switch {
	case offline:
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Chat is unavailable; review and kana still work.")
	case err != nil:
		return err
	}

	machine, err := svc.machine(userID)
	if err != nil {
		return err
	}
	return app.Run(app.Options{Machine: machine, Offline: offline})
}

// services are the LLM-backed collaborators shared by every session.
type services struct {
	env      *env
	tutor    session.Replier
	enricher vocab.Enricher
	lessons  *lessons.Service
}

// services builds the tutor, vocabulary and lesson services. Without a
// provider the returned services are still usable for non-chat modes,
// alongside an error wrapping errNoProvider.
func (e *env) services(ctx context.Context) (*services, error) {
	provider, cfg, err := e.provider(ctx)
	if err != nil {
		return &services{env: e, tutor: offlineTutor{}, enricher: vocab.Nop{}}, err
	}

	tutorCfg := tutor.DefaultConfig()
	tutorCfg.Timeout = cfg.Timeout
	return &services{
		env:      e,
		tutor:    tutor.NewDriver(provider, tutorCfg),
		enricher: vocab.NewService(provider, vocab.WithLogger(e.log), vocab.WithTimeout(cfg.Timeout)),
		lessons:  lessons.NewService(provider, lessons.DefaultConfig()),
	}, nil
}

// machine builds a session machine for userID. It is also the session
// registry's factory.
func (s *services) machine(userID string) (*session.Machine, error) {
	p, err := s.env.progressFor(userID)
	if err != nil {
		return nil, err
	}
	return session.NewMachine(session.Deps{
		Progress: p,
		Tutor:    s.tutor,
		Enricher: s.enricher,
		Events:   s.env.store.EventRepo(),
		Log:      s.env.log,
	}), nil
}

// offlineTutor stands in for the tutor when no provider is configured.
type offlineTutor struct{}

func (offlineTutor) Reply(context.Context, lessons.Mode, []llm.Message, string) (string, error) {
	return "", errNoProvider
}
