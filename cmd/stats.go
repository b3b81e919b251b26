package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/sensei/internal/spacedrep"
	"github.com/abhisek/sensei/internal/xp"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show learning statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, "nop")
		if err != nil {
			return err
		}
		defer e.Close()

		userID, err := e.userID(cmd)
		if err != nil {
			return err
		}
		p, err := e.progressFor(userID)
		if err != nil {
			return err
		}

		ctx := cmd.Context()
		st, err := p.Load(ctx)
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}
		now := p.Now()
		level := xp.LevelOf(st.XP)

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Learner:   %s\n", userID)
		fmt.Fprintf(out, "Level:     %d (%d%% to level %d)\n", level.Number, level.Percent, level.Number+1)
		fmt.Fprintf(out, "XP:        %d total, %d today\n", st.XP, st.DailyXP)
		fmt.Fprintf(out, "Sessions:  %d total, %d today\n", st.TotalSessions, st.DailySessions)
		fmt.Fprintf(out, "Words:     %d tracked, %d due for review\n", len(st.Words), spacedrep.DueCount(st.Words, now))

		totals, err := e.store.EventRepo().XPTotalsByReason(ctx, userID)
		if err != nil {
			return fmt.Errorf("query xp totals: %w", err)
		}
		if len(totals) == 0 {
			return nil
		}
		r := report{title: "XP by activity", headers: []string{"Activity", "Awards", "XP"}, numericFrom: 1}
		var awards, sum int
		for _, t := range totals {
			r.add(t.Reason, itoa(t.Count), itoa(t.Amount))
			awards += t.Count
			sum += t.Amount
		}
		r.footer = []string{"Total", itoa(awards), itoa(sum)}
		fmt.Fprintln(out)
		r.render(out)
		return nil
	},
}
