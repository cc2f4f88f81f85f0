package main

import (
	"fmt"
	"strconv"
	"time"

	"fondspod/internal/archive"

	"github.com/spf13/cobra"
)

var sequenceCmd = &cobra.Command{
	Use:   "sequence",
	Short: "Inspect identifier counters",
}

var sequenceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List identifier counters",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "ListSequences")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		seqs, err := a.Query().Sequences(cmd.Context())
		if err != nil {
			return err
		}
		if len(seqs) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No sequences.")
			return nil
		}

		t := newTable(cmd, "Prefix", "Next", "Digits", "Updated")
		for _, s := range seqs {
			t.AppendRow([]any{s.Prefix, s.NextValue, s.Digits, formatTime(s.UpdatedAt)})
		}
		t.Render()
		return nil
	},
}

var sequenceResetCmd = &cobra.Command{
	Use:   "reset PREFIX NEXT",
	Short: "Set the next value handed out for a prefix",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		next, err := strconv.ParseInt(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid next value %q: %w", args[1], err)
		}

		a, err := newApp(cmd, "ResetSequence", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		err = a.Mutate(ctx, func(s *archive.ArchiveService) error {
			return s.ResetSequence(ctx, args[0], next)
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sequence %s continues at %d\n", args[0], next)
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View the operation journal of the library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp(cmd, "History")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ops, err := a.History(cmd.Context(), limit)
		if err != nil {
			return err
		}
		if len(ops) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No operations recorded.")
			return nil
		}

		t := newTable(cmd, "#", "Operation", "Parameters", "Started", "Status", "Duration")
		for _, op := range ops {
			duration := ""
			if op.FinishedAt != nil {
				duration = op.FinishedAt.Sub(op.StartedAt).Truncate(time.Millisecond).String()
			}
			t.AppendRow([]any{op.ID, op.Operation, op.Parameters, formatTime(op.StartedAt), op.Status, duration})
		}
		t.Render()
		return nil
	},
}

func init() {
	sequenceCmd.AddCommand(sequenceListCmd)
	sequenceCmd.AddCommand(sequenceResetCmd)

	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of operations to show")
}
