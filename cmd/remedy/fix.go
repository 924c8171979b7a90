package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"remedy/internal/observ"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file>",
	Short: "Apply all available remediations to a file",
	Long:  "Query every attached server for whole-document fixes, apply them, then sweep the remaining diagnostics with quickfixes.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("write", true, "write the fixed buffer back to disk")
}

func runFix(cmd *cobra.Command, args []string) error {
	write, err := cmd.Flags().GetBool("write")
	if err != nil {
		return err
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	s, err := newSession(ctx, cmd, args[0])
	if err != nil {
		return err
	}
	defer s.close(ctx)

	var timer *observ.Timer
	if showTimings {
		timer = observ.NewTimer()
	}

	s.engine(timer).FixAll(ctx)

	if write && s.doc.Dirty() {
		if err := s.doc.WriteFile(); err != nil {
			return err
		}
	}
	if timer != nil {
		fmt.Fprint(cmd.OutOrStdout(), timer.Summary())
	}
	return nil
}
