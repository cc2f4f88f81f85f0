package main

import (
	"fmt"

	"fondspod/internal/archive"

	"github.com/spf13/cobra"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Manage schemas and their items",
}

var schemaAddCmd = &cobra.Command{
	Use:   "add SCHEMA_NO NAME",
	Short: "Add a schema",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "CreateSchema", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		var sc *archive.Schema
		err = a.Mutate(ctx, func(s *archive.ArchiveService) (err error) {
			sc, err = s.CreateSchema(ctx, args[0], args[1])
			return err
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added schema %s %s\n", sc.SchemaNo, sc.Name)
		return nil
	},
}

var schemaListCmd = &cobra.Command{
	Use:   "list",
	Short: "List schemas",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "ListSchemas")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		schemas, err := a.Query().ListSchemas(cmd.Context())
		if err != nil {
			return err
		}

		t := newTable(cmd, "Schema", "Name", "Protected")
		for _, sc := range schemas {
			t.AppendRow([]any{sc.SchemaNo, sc.Name, yesNo(!archive.CanModifySchema(sc.SchemaNo))})
		}
		t.Render()
		return nil
	},
}

var schemaRenameCmd = &cobra.Command{
	Use:   "rename SCHEMA_NO NEW_SCHEMA_NO",
	Short: "Change the number and optionally the name of a schema",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		name, _ := cmd.Flags().GetString("name")

		a, err := newApp(cmd, "RenameSchema", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		var sc *archive.Schema
		err = a.Mutate(ctx, func(s *archive.ArchiveService) (err error) {
			sc, err = s.RenameSchema(ctx, args[0], args[1], name)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Schema %s is now %s %s\n", args[0], sc.SchemaNo, sc.Name)
		return nil
	},
}

var schemaDeleteCmd = &cobra.Command{
	Use:   "delete SCHEMA_NO",
	Short: "Delete a schema no fond uses",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "DeleteSchema", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		err = a.Mutate(ctx, func(s *archive.ArchiveService) error {
			return s.DeleteSchema(ctx, args[0])
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted schema %s\n", args[0])
		return nil
	},
}

var schemaItemsCmd = &cobra.Command{
	Use:   "items SCHEMA_NO",
	Short: "List the items of a schema",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "ListSchemaItems")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		items, err := a.Query().ListSchemaItems(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No items.")
			return nil
		}

		t := newTable(cmd, "Item", "Name")
		for _, it := range items {
			t.AppendRow([]any{it.ItemNo, it.ItemName})
		}
		t.Render()
		return nil
	},
}

var schemaItemAddCmd = &cobra.Command{
	Use:   "item-add SCHEMA_NO ITEM_NO NAME",
	Short: "Add an item to a schema",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "AddSchemaItem", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		err = a.Mutate(ctx, func(s *archive.ArchiveService) error {
			_, err := s.AddSchemaItem(ctx, args[0], args[1], args[2])
			return err
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added item %s to schema %s\n", args[1], args[0])
		return nil
	},
}

var schemaItemDeleteCmd = &cobra.Command{
	Use:   "item-delete SCHEMA_NO ITEM_NO",
	Short: "Delete an item from a schema",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "DeleteSchemaItem", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		err = a.Mutate(ctx, func(s *archive.ArchiveService) error {
			return s.DeleteSchemaItem(ctx, args[0], args[1])
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %s from schema %s\n", args[1], args[0])
		return nil
	},
}

func init() {
	schemaCmd.AddCommand(schemaAddCmd)
	schemaCmd.AddCommand(schemaListCmd)
	schemaCmd.AddCommand(schemaRenameCmd)
	schemaRenameCmd.Flags().String("name", "", "New schema name (default: the new schema number)")
	schemaCmd.AddCommand(schemaDeleteCmd)
	schemaCmd.AddCommand(schemaItemsCmd)
	schemaCmd.AddCommand(schemaItemAddCmd)
	schemaCmd.AddCommand(schemaItemDeleteCmd)
}
