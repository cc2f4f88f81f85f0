package main

import (
	"fmt"

	"fondspod/internal/archive"

	"github.com/spf13/cobra"
)

var fileCmd = &cobra.Command{
	Use:   "file",
	Short: "Manage files inside series",
}

var fileAddCmd = &cobra.Command{
	Use:   "add FOND_NO SERIES_NO NAME",
	Short: "Add a file to a series",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		path, _ := cmd.Flags().GetString("path")

		a, err := newApp(cmd, "CreateFile", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		var f *archive.File
		err = a.Mutate(ctx, func(s *archive.ArchiveService) (err error) {
			f, err = s.CreateFile(ctx, archive.CreateFileInput{
				FondNo:   args[0],
				SeriesNo: args[1],
				Name:     args[2],
				Path:     path,
			})
			return err
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added file %s %s at %s\n", f.FileNo, f.Name, f.Path)
		return nil
	},
}

var fileListCmd = &cobra.Command{
	Use:   "list FOND_NO SERIES_NO",
	Short: "List the files of a series",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "ListFiles")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		files, err := a.Query().ListFiles(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		if len(files) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No files.")
			return nil
		}

		t := newTable(cmd, "File", "Name", "Path", "Created")
		for _, f := range files {
			t.AppendRow([]any{f.FileNo, f.Name, f.Path, formatTime(f.CreatedAt)})
		}
		t.Render()
		return nil
	},
}

var fileRenameCmd = &cobra.Command{
	Use:   "rename FILE_NO NAME",
	Short: "Rename a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "RenameFile", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		err = a.Mutate(ctx, func(s *archive.ArchiveService) error {
			return s.RenameFile(ctx, args[0], args[1])
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed file %s\n", args[0])
		return nil
	},
}

var fileDeleteCmd = &cobra.Command{
	Use:   "delete FILE_NO",
	Short: "Delete a file without items",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "DeleteFile", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		err = a.Mutate(ctx, func(s *archive.ArchiveService) error {
			return s.DeleteFile(ctx, args[0])
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted file %s\n", args[0])
		return nil
	},
}

var itemCmd = &cobra.Command{
	Use:   "item",
	Short: "Manage items inside files",
}

var itemAddCmd = &cobra.Command{
	Use:   "add FILE_NO NAME",
	Short: "Add an item to a file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		path, _ := cmd.Flags().GetString("path")

		a, err := newApp(cmd, "CreateItem", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		var it *archive.Item
		err = a.Mutate(ctx, func(s *archive.ArchiveService) (err error) {
			it, err = s.CreateItem(ctx, args[0], args[1], path)
			return err
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added item %s %s\n", it.ItemNo, it.Name)
		return nil
	},
}

var itemImportCmd = &cobra.Command{
	Use:   "import FILE_NO DIR",
	Short: "Create one item per file found in a directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		recursive, _ := cmd.Flags().GetBool("recursive")

		a, err := newApp(cmd, "ImportItems", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		items, err := a.ImportItems(cmd.Context(), args[0], args[1], recursive)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %d item(s)\n", len(items))
		return nil
	},
}

var itemListCmd = &cobra.Command{
	Use:   "list FILE_NO",
	Short: "List the items of a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "ListItems")
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		items, err := a.Query().ListItems(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if len(items) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No items.")
			return nil
		}

		t := newTable(cmd, "Item", "Name", "Path")
		for _, it := range items {
			t.AppendRow([]any{it.ItemNo, it.Name, it.Path})
		}
		t.Render()
		return nil
	},
}

var itemRenameCmd = &cobra.Command{
	Use:   "rename ITEM_NO NAME",
	Short: "Rename an item",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "RenameItem", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		err = a.Mutate(ctx, func(s *archive.ArchiveService) error {
			return s.RenameItem(ctx, args[0], args[1])
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed item %s\n", args[0])
		return nil
	},
}

var itemDeleteCmd = &cobra.Command{
	Use:   "delete ITEM_NO",
	Short: "Delete an item",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		a, err := newApp(cmd, "DeleteItem", args...)
		if err != nil {
			return err
		}
		defer closeApp(a, &err)

		ctx := cmd.Context()
		err = a.Mutate(ctx, func(s *archive.ArchiveService) error {
			return s.DeleteItem(ctx, args[0])
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted item %s\n", args[0])
		return nil
	},
}

func init() {
	fileCmd.AddCommand(fileAddCmd)
	fileAddCmd.Flags().String("path", "", "Existing directory for the file (default: a new directory in the fond)")
	fileCmd.AddCommand(fileListCmd)
	fileCmd.AddCommand(fileRenameCmd)
	fileCmd.AddCommand(fileDeleteCmd)

	itemCmd.AddCommand(itemAddCmd)
	itemAddCmd.Flags().String("path", "", "Path of the document")
	itemCmd.AddCommand(itemImportCmd)
	itemImportCmd.Flags().BoolP("recursive", "r", false, "Recurse into subdirectories")
	itemCmd.AddCommand(itemListCmd)
	itemCmd.AddCommand(itemRenameCmd)
	itemCmd.AddCommand(itemDeleteCmd)
}
