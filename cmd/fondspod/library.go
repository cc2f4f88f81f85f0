package main

import (
	"fmt"

	"fondspod/internal/app"
	"fondspod/internal/config"
	"fondspod/internal/encryption"

	"github.com/spf13/cobra"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage archive libraries",
}

var libraryAddCmd = &cobra.Command{
	Use:   "add NAME PATH",
	Short: "Create and register a library",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}

		lib, err := app.AddLibrary(cfg, args[0], args[1])
		if err != nil {
			return fmt.Errorf("adding library: %w", err)
		}
		if cfg.LastOpenedLibrary == "" {
			cfg.LastOpenedLibrary = lib.Name
		}
		if err := config.Save(path, cfg); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Library %s created at %s\n", lib.Name, lib.Path)
		fmt.Fprintf(cmd.OutOrStdout(), "Library ID: %s\n", lib.ID)
		return nil
	},
}

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered libraries",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		if len(cfg.Libraries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No libraries registered.")
			return nil
		}

		t := newTable(cmd, "", "Name", "Path", "ID")
		for _, lib := range cfg.Libraries {
			marker := ""
			if lib.Name == cfg.LastOpenedLibrary {
				marker = "*"
			}
			t.AppendRow([]any{marker, lib.Name, lib.Path, lib.ID})
		}
		t.Render()
		return nil
	},
}

var libraryOpenCmd = &cobra.Command{
	Use:   "open NAME",
	Short: "Make a library the default for later commands",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		if err := app.OpenLibrary(cfg, args[0]); err != nil {
			return err
		}
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Opened library %s\n", args[0])
		return nil
	},
}

var libraryRenameCmd = &cobra.Command{
	Use:   "rename NAME NEW_NAME",
	Short: "Rename a library",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.RenameLibrary(args[0], args[1]); err != nil {
			return err
		}
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed library %s to %s\n", args[0], args[1])
		return nil
	},
}

var libraryRemoveCmd = &cobra.Command{
	Use:   "remove NAME",
	Short: "Unregister a library (its directory is kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, path, err := loadConfig()
		if err != nil {
			return err
		}
		if err := cfg.RemoveLibrary(args[0]); err != nil {
			return err
		}
		if err := config.Save(path, cfg); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Removed library %s\n", args[0])
		return nil
	},
}

var libraryRestoreCmd = &cobra.Command{
	Use:   "restore [NAME]",
	Short: "Restore the library database from the vault",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")

		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		name := libraryName
		if len(args) > 0 {
			name = args[0]
		}

		var passphrase string
		if encryption.NeedsPassphrase(cfg.Encryption) {
			if passphrase, err = readPassphrase(cmd, "Passphrase: "); err != nil {
				return err
			}
		}

		version, err := app.RestoreLibrary(cfg, name, passphrase, force)
		if err != nil {
			return fmt.Errorf("restore failed: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Restored snapshot version %d\n", version)
		return nil
	},
}

var libraryCheckCmd = &cobra.Command{
	Use:   "check [NAME]",
	Short: "Check the library database and its vault snapshot",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		name := libraryName
		if len(args) > 0 {
			name = args[0]
		}

		st, err := app.CheckLibrary(cmd.Context(), cfg, name)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Library:  %s (%s)\n", st.Library.Name, st.Library.Path)
		if st.Missing {
			fmt.Fprintln(out, "Status:   directory missing")
			return nil
		}
		schema := "up to date"
		switch {
		case st.Schema.Dirty:
			schema = "dirty"
		case st.Schema.Current < st.Schema.Latest:
			schema = "migrations pending"
		}
		fmt.Fprintf(out, "Schema:   version %d of %d, %s\n", st.Schema.Current, st.Schema.Latest, schema)
		fmt.Fprintf(out, "Journal:  %d\n", st.LocalVersion)
		switch {
		case st.VaultErr != nil:
			fmt.Fprintf(out, "Vault:    error: %v\n", st.VaultErr)
		case st.VaultVersion < 0:
			fmt.Fprintln(out, "Vault:    not configured")
		case st.VaultVersion > st.LocalVersion:
			fmt.Fprintf(out, "Vault:    %d (ahead of local, restore needed)\n", st.VaultVersion)
		default:
			fmt.Fprintf(out, "Vault:    %d\n", st.VaultVersion)
		}
		return nil
	},
}

var librarySchemaCmd = &cobra.Command{
	Use:   "schema [NAME]",
	Short: "Print the SQL schema of the library database",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}
		name := libraryName
		if len(args) > 0 {
			name = args[0]
		}

		schema, err := app.DumpLibrarySchema(cfg, name)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), schema)
		return nil
	},
}

var encryptionCmd = &cobra.Command{
	Use:   "encryption",
	Short: "Manage snapshot encryption",
}

var encryptionInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate the snapshot encryption key pair",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, _, err := loadConfig()
		if err != nil {
			return err
		}

		passphrase, err := readPassphrase(cmd, "New passphrase: ")
		if err != nil {
			return err
		}
		confirm, err := readPassphrase(cmd, "Repeat passphrase: ")
		if err != nil {
			return err
		}
		if passphrase != confirm {
			return fmt.Errorf("passphrases do not match")
		}

		if err := app.InitEncryption(cfg, passphrase); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Keys written to %s and %s\n", cfg.Encryption.PublicKeyPath, cfg.Encryption.PrivateKeyPath)
		return nil
	},
}

func init() {
	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryOpenCmd)
	libraryCmd.AddCommand(libraryRenameCmd)
	libraryCmd.AddCommand(libraryRemoveCmd)
	libraryCmd.AddCommand(libraryRestoreCmd)
	libraryRestoreCmd.Flags().BoolP("force", "f", false, "Replace an existing library database")
	libraryCmd.AddCommand(libraryCheckCmd)
	libraryCmd.AddCommand(librarySchemaCmd)

	encryptionCmd.AddCommand(encryptionInitCmd)
}
