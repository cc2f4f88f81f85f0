package main

import (
	"fmt"
	"strings"

	"fondspod/internal/archive"

	"github.com/spf13/cobra"
)

var fondCmd = &cobra.Command{
	Use:   "fond",
	Short: "Manage fonds and their series",
}

func printGeneration(cmd *cobra.Command, g *archive.GenerationResult) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Series: %d candidate(s), %d existing, %d created\n", g.Candidates, g.Existing, len(g.Created))
	for _, s := range g.Created {
		fmt.Fprintf(out, "  + %s %s\n", s.SeriesNo, s.Name)
	}
	if len(g.EmptySchemas) > 0 {
		fmt.Fprintf(out, "Schemas without items: %s\n", strings.Join(g.EmptySchemas, ", "))
	}
}

var fondAddCmd = &cobra.Command{
	Use:   "add CLASSIFICATION_CODE NAME",
	Short: "Create a fond and generate its series",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		schemas, _ := cmd.Flags().GetStringSlice("schema")

		a, err := newApp(cmd, "CreateFond", args[0], args[1], strings.Join(schemas, ","))
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		var res *archive.FondResult
		err = a.Mutate(ctx, func(s *archive.ArchiveService) (err error) {
			res, err = s.CreateFond(ctx, archive.CreateFondInput{
				ClassificationCode: args[0],
				Name:               args[1],
				SchemaNos:          schemas,
			})
			return err
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created fond %s %s\n", res.Fond.FondNo, res.Fond.Name)
		printGeneration(cmd, res.Generation)
		return nil
	},
}

var fondListCmd = &cobra.Command{
	Use:   "list",
	Short: "List fonds",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "ListFonds")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		fonds, err := a.Query().ListFonds(cmd.Context())
		if err != nil {
			return err
		}
		if len(fonds) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No fonds.")
			return nil
		}

		t := newTable(cmd, "Fond", "Name", "Classification", "Created", "By")
		for _, f := range fonds {
			t.AppendRow([]any{f.FondNo, f.Name, f.ClassificationCode, formatTime(f.CreatedAt), f.CreatedBy})
		}
		t.Render()
		return nil
	},
}

var fondRenameCmd = &cobra.Command{
	Use:   "rename FOND_NO NAME",
	Short: "Rename a fond",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "RenameFond", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		err = a.Mutate(ctx, func(s *archive.ArchiveService) error {
			return s.RenameFond(ctx, args[0], args[1])
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed fond %s\n", args[0])
		return nil
	},
}

var fondDeleteCmd = &cobra.Command{
	Use:   "delete FOND_NO",
	Short: "Delete a fond without files",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "DeleteFond", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		err = a.Mutate(ctx, func(s *archive.ArchiveService) error {
			return s.DeleteFond(ctx, args[0])
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted fond %s\n", args[0])
		return nil
	},
}

var fondAssignCmd = &cobra.Command{
	Use:   "assign FOND_NO SCHEMA_NO",
	Short: "Append a schema to a fond and generate the new series",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "AssignSchema", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		var g *archive.GenerationResult
		err = a.Mutate(ctx, func(s *archive.ArchiveService) (err error) {
			g, err = s.AssignSchema(ctx, args[0], args[1])
			return err
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Assigned schema %s to fond %s\n", args[1], args[0])
		printGeneration(cmd, g)
		return nil
	},
}

var fondGenerateCmd = &cobra.Command{
	Use:   "generate FOND_NO",
	Short: "Create the series that are missing for a fond",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "GenerateSeries", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		var g *archive.GenerationResult
		err = a.Mutate(ctx, func(s *archive.ArchiveService) (err error) {
			g, err = s.GenerateSeries(ctx, args[0])
			return err
		})
		if err != nil {
			return err
		}
		printGeneration(cmd, g)
		return nil
	},
}

var fondSeriesCmd = &cobra.Command{
	Use:   "series FOND_NO",
	Short: "List the series of a fond",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		del, _ := cmd.Flags().GetString("delete")

		op := "ListSeries"
		if del != "" {
			op = "DeleteSeries"
		}
		a, err := newApp(cmd, op, args[0], del)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		if del != "" {
			err = a.Mutate(ctx, func(s *archive.ArchiveService) error {
				return s.DeleteSeries(ctx, args[0], del)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted series %s of fond %s\n", del, args[0])
			return nil
		}

		series, err := a.Query().ListSeries(ctx, args[0])
		if err != nil {
			return err
		}
		if len(series) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No series.")
			return nil
		}

		t := newTable(cmd, "Series", "Name", "Created")
		for _, s := range series {
			t.AppendRow([]any{s.SeriesNo, s.Name, formatTime(s.CreatedAt)})
		}
		t.Render()
		return nil
	},
}

func init() {
	fondCmd.AddCommand(fondAddCmd)
	fondAddCmd.Flags().StringSliceP("schema", "s", nil, "Schema to assign, in axis order (repeatable)")
	fondCmd.AddCommand(fondListCmd)
	fondCmd.AddCommand(fondRenameCmd)
	fondCmd.AddCommand(fondDeleteCmd)
	fondCmd.AddCommand(fondAssignCmd)
	fondCmd.AddCommand(fondGenerateCmd)
	fondCmd.AddCommand(fondSeriesCmd)
	fondSeriesCmd.Flags().String("delete", "", "Delete this series instead of listing (it must have no files)")
}
