package cmd

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/sensei/internal/llm"
	"github.com/abhisek/sensei/internal/store"
)

const stamp = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect the LLM calls made by the tutor, vocabulary and lessons",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM calls, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		purpose, _ := cmd.Flags().GetString("purpose")

		e, err := openEnv(cmd, "nop")
		if err != nil {
			return err
		}
		defer e.Close()

		events, err := e.store.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit, Purpose: purpose})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(events) == 0 {
			fmt.Fprintln(out, "No LLM calls recorded yet.")
			return nil
		}

		r := report{headers: []string{"ID", "Time", "Purpose", "Model", "In", "Out", "ms", ""}, numericFrom: 4}
		for _, ev := range events {
			mark := "✓"
			if !ev.Success {
				mark = "✗"
			}
			r.add(strconv.FormatInt(ev.ID, 10), ev.Timestamp.Local().Format(stamp), ev.Purpose,
				clip(ev.Model, 28), itoa(ev.InputTokens), itoa(ev.OutputTokens), strconv.FormatInt(ev.LatencyMs, 10), mark)
		}
		r.render(out)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the full request and response of one LLM call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}

		e, err := openEnv(cmd, "nop")
		if err != nil {
			return err
		}
		defer e.Close()

		ev, err := e.store.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if ev == nil {
			return fmt.Errorf("no LLM call with ID %d", id)
		}
		printLLMEvent(cmd.OutOrStdout(), ev)
		return nil
	},
}

func printLLMEvent(w io.Writer, ev *store.LLMEventRecord) {
	status := "ok"
	if !ev.Success {
		status = "failed: " + ev.ErrorMessage
	}
	fields := [][2]string{
		{"ID", strconv.FormatInt(ev.ID, 10)},
		{"Time", ev.Timestamp.Local().Format(stamp)},
		{"Provider", ev.Provider},
		{"Model", ev.Model},
		{"Purpose", ev.Purpose},
		{"Tokens", fmt.Sprintf("%d in / %d out", ev.InputTokens, ev.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", ev.LatencyMs)},
		{"Status", status},
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-9s %s\n", f[0]+":", f[1])
	}

	rule := strings.Repeat("─", 60)
	for _, part := range [][2]string{{"REQUEST", ev.RequestBody}, {"RESPONSE", ev.ResponseBody}} {
		body := part[1]
		if body == "" {
			body = "(not captured)"
		}
		fmt.Fprintf(w, "\n%s\n%s\n%s\n%s\n", rule, part[0], rule, body)
	}
}

var llmUsageCmd = &cobra.Command{
	Use:     "usage",
	Aliases: []string{"stats"},
	Short:   "Show token usage per purpose and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd, "nop")
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		repo := e.store.EventRepo()
		byPurpose, err := repo.LLMUsageByPurpose(ctx)
		if err != nil {
			return fmt.Errorf("query usage: %w", err)
		}
		out := cmd.OutOrStdout()
		if len(byPurpose) == 0 {
			fmt.Fprintln(out, "No LLM calls recorded yet.")
			return nil
		}
		usageReport(byPurpose).render(out)

		byModel, err := repo.LLMUsageByModel(ctx)
		if err != nil {
			return fmt.Errorf("query model usage: %w", err)
		}
		if len(byModel) > 0 {
			fmt.Fprintln(out)
			r, unpriced := costReport(byModel)
			r.render(out)
			if len(unpriced) > 0 {
				fmt.Fprintf(out, "No pricing for: %s\n", strings.Join(unpriced, ", "))
			}
		}
		return nil
	},
}

func usageReport(rows []store.LLMUsage) *report {
	r := &report{title: "Usage by purpose", headers: []string{"Purpose", "Calls", "Input", "Output", "Total", "Avg ms"}, numericFrom: 1}
	var calls, in, out int
	for _, u := range rows {
		r.add(u.Purpose, itoa(u.Calls), itoa(u.InputTokens), itoa(u.OutputTokens),
			itoa(u.InputTokens+u.OutputTokens), strconv.FormatInt(u.AvgLatencyMs, 10))
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	r.footer = []string{"Total", itoa(calls), itoa(in), itoa(out), itoa(in + out), ""}
	return r
}

// costReport prices each model's tokens. Models without a known price
// are listed separately and left out of the total.
func costReport(rows []store.LLMUsage) (*report, []string) {
	r := &report{title: "Estimated cost (USD)", headers: []string{"Model", "Calls", "Input", "Output", "Cost"}, numericFrom: 1}
	var total float64
	var unpriced []string
	for _, u := range rows {
		cost := "?"
		if price := llm.LookupCost(u.Model); price != nil {
			c := price.Cost(u.InputTokens, u.OutputTokens)
			total += c
			cost = dollars(c)
		} else {
			unpriced = append(unpriced, u.Model)
		}
		r.add(clip(u.Model, 32), itoa(u.Calls), itoa(u.InputTokens), itoa(u.OutputTokens), cost)
	}
	label := "Total"
	if len(unpriced) > 0 {
		label = "Total (partial)"
	}
	r.footer = []string{label, "", "", "", dollars(total)}
	return r, unpriced
}

func clip(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n-1]) + "…"
	}
	return s
}

// dollars keeps four decimals for sub-cent amounts so tiny test runs do
// not show as $0.00.
func dollars(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of calls to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Only show one purpose: tutor, vocab or lesson")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmUsageCmd)
}
