package main

import (
	"fmt"
	"strings"

	"fondspod/internal/archive"

	"github.com/spf13/cobra"
)

var classificationCmd = &cobra.Command{
	Use:     "classification",
	Aliases: []string{"class"},
	Short:   "Manage the classification tree",
}

var classificationAddCmd = &cobra.Command{
	Use:   "add CODE NAME",
	Short: "Add a classification",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		parent, _ := cmd.Flags().GetString("parent")

		a, err := newApp(cmd, "CreateClassification", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		var c *archive.FondClassification
		err = a.Mutate(ctx, func(s *archive.ArchiveService) (err error) {
			c, err = s.CreateClassification(ctx, args[0], args[1], parent)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added classification %s %s\n", c.Code, c.Name)
		return nil
	},
}

var classificationListCmd = &cobra.Command{
	Use:   "list",
	Short: "List classifications as a tree",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "ListClassifications")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		all, err := a.Query().ListClassifications(cmd.Context())
		if err != nil {
			return err
		}
		if len(all) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No classifications.")
			return nil
		}

		depth := make(map[string]int, len(all))
		t := newTable(cmd, "Code", "Name", "Active")
		for _, c := range all {
			if c.ParentCode != "" {
				depth[c.Code] = depth[c.ParentCode] + 1
			}
			t.AppendRow([]any{strings.Repeat("  ", depth[c.Code]) + c.Code, c.Name, yesNo(c.Active)})
		}
		t.Render()
		return nil
	},
}

func newClassificationActiveCmd(use, short string, active bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " CODE",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			a, err := newApp(cmd, "SetClassificationActive", args[0], yesNo(active))
			if err != nil {
				return err
			}
			defer closeApp(a, &err)

			ctx := cmd.Context()
			err = a.Mutate(ctx, func(s *archive.ArchiveService) error {
				return s.SetClassificationActive(ctx, args[0], active)
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Classification %s active: %s\n", args[0], yesNo(active))
			return nil
		},
	}
}

var classificationDeleteCmd = &cobra.Command{
	Use:   "delete CODE",
	Short: "Delete a classification without children or fonds",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "DeleteClassification", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		err = a.Mutate(ctx, func(s *archive.ArchiveService) error {
			return s.DeleteClassification(ctx, args[0])
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted classification %s\n", args[0])
		return nil
	},
}

var classificationExportCmd = &cobra.Command{
	Use:   "export PATH",
	Short: "Export the classification tree (.json or .yaml)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "ExportClassifications")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		n, err := a.ExportClassifications(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d classification(s) to %s\n", n, args[0])
		return nil
	},
}

var classificationImportCmd = &cobra.Command{
	Use:   "import PATH",
	Short: "Import a classification tree (.json or .yaml)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "ImportClassifications", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		n, err := a.ImportClassifications(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d new classification(s)\n", n)
		return nil
	},
}

func init() {
	classificationCmd.AddCommand(classificationAddCmd)
	classificationAddCmd.Flags().StringP("parent", "p", "", "Parent classification code")
	classificationCmd.AddCommand(classificationListCmd)
	classificationCmd.AddCommand(newClassificationActiveCmd("activate", "Activate a classification", true))
	classificationCmd.AddCommand(newClassificationActiveCmd("deactivate", "Deactivate a classification", false))
	classificationCmd.AddCommand(classificationDeleteCmd)
	classificationCmd.AddCommand(classificationExportCmd)
	classificationCmd.AddCommand(classificationImportCmd)
}
