package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errWrongPIN = errors.New("parent PIN does not match")

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset a learner's progress (parents only)",
	RunE: func(cmd *cobra.Command, args []string) error {
		pin, _ := cmd.Flags().GetString("pin")

		e, err := openEnv(cmd, "nop")
		if err != nil {
			return err
		}
		defer e.Close()

		if pin == "" || pin != e.cfg.ParentPIN {
			return errWrongPIN
		}

		userID, err := e.userID(cmd)
		if err != nil {
			return err
		}
		p, err := e.progressFor(userID)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		if _, err := p.Reset(ctx); err != nil {
			return fmt.Errorf("reset progress: %w", err)
		}
		if err := e.store.EventRepo().DeleteXPEvents(ctx, userID); err != nil {
			return fmt.Errorf("delete xp history: %w", err)
		}

		fmt.Printf("Progress for %s has been reset.\n", userID)
		return nil
	},
}

func init() {
	resetCmd.Flags().String("pin", "", "Parent PIN")
}
