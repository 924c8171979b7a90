package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"remedy/internal/observ"
	"remedy/internal/ui"
)

var pickCmd = &cobra.Command{
	Use:   "pick [flags] <file>",
	Short: "Browse quickfixes interactively and apply a selection",
	Args:  cobra.ExactArgs(1),
	RunE:  runPick,
}

func init() {
	pickCmd.Flags().Bool("write", true, "write the fixed buffer back to disk")
}

func runPick(cmd *cobra.Command, args []string) error {
	if !isTerminal(os.Stdin) || !isTerminal(os.Stderr) {
		return fmt.Errorf("pick needs an interactive terminal; use `remedy fix` in scripts")
	}
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

	engine := s.engine(timer)
	engine.Select = ui.Picker{}
	engine.Browse(ctx)

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
