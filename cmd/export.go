package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/abhisek/sensei/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a learner's progress as JSON or a spreadsheet",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

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
		st, err := p.Load(cmd.Context())
		if err != nil {
			return fmt.Errorf("load progress: %w", err)
		}

		var w io.Writer = os.Stdout
		if out == "" && format == export.FormatXLSX {
			out = export.Filename(format)
		}
		if out != "" && out != "-" {
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			defer f.Close()
			w = f
		}

		if err := export.Write(w, format, st, p.Now()); err != nil {
			return err
		}
		if out != "" && out != "-" {
			fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringP("format", "f", export.FormatJSON, "Output format: json or xlsx")
	exportCmd.Flags().StringP("out", "o", "", "Output file (json defaults to stdout)")
}
