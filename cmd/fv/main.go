package main

import (
	"fmt"
	"os"

	"fv-go/internal/app"
	"fv-go/internal/config"
	"fv-go/internal/fv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an FVApp. The caller must defer app.Close().
func newApp(cmd *cobra.Command) (*app.FVApp, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	a, err := app.NewFVApp(cmd.Context(), cfg)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

var rootCmd = &cobra.Command{
	Use:   "fv",
	Short: "Project file versioning tool",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get application defaults
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Generate a new user ID
		userID := uuid.New().String()

		// Create config with defaults
		cfg := config.NewConfig(userID, defaults["base_dir"])

		// Initialize config file
		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("User ID: %s\n", userID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Get application defaults
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Read config
		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		// Display config
		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("User ID:  %s\n", cfg.UserID)
		fmt.Printf("Base Dir: %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:  %s\n", cfg.LogDir)
		fmt.Printf("Blob:     %s\n", cfg.Blob.Type)
		fmt.Printf("Database: %s\n", cfg.Database.Type)
		return nil
	},
}

// snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot PROJECT PATH",
	Short: "Create a labeled snapshot of a directory or zip archive",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		label, _ := cmd.Flags().GetString("label")
		notes, _ := cmd.Flags().GetString("notes")
		fromZip, _ := cmd.Flags().GetBool("zip")

		if label == "" {
			return fmt.Errorf("--label is required")
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		projectID, source := args[0], args[1]

		var r *fv.SnapshotResult
		if fromZip {
			r, err = a.SnapshotArchive(cmd.Context(), projectID, source, label, notes)
		} else {
			r, err = a.SnapshotDirectory(cmd.Context(), projectID, source, label, notes)
		}
		if err != nil {
			return fmt.Errorf("snapshot failed: %w", err)
		}

		fmt.Printf("Version %q created (%s)\n", r.Version.Label, r.Version.ID)
		fmt.Printf("Uploaded %d of %d file(s)\n", r.FilesUploaded, r.FilesAttempted)
		for _, f := range r.Failures {
			fmt.Printf("  failed: %s: %v\n", f.Path, f.Err)
		}
		return nil
	},
}

// upload command
var uploadCmd = &cobra.Command{
	Use:   "upload PROJECT FOLDER FILE",
	Short: "Upload a single file into a project folder",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		node, err := a.UploadFile(cmd.Context(), args[0], args[1], args[2])
		if err != nil {
			return fmt.Errorf("upload failed: %w", err)
		}

		fmt.Printf("Uploaded %s (%d bytes, %s)\n", node.Path, node.FileMeta.Size, node.FileMeta.Checksum)
		return nil
	},
}

// ls command
var lsCmd = &cobra.Command{
	Use:   "ls PROJECT [FOLDER]",
	Short: "List a project folder",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		folder := "/"
		if len(args) > 1 {
			folder = args[1]
		}

		nodes, err := a.ListChildren(args[0], folder)
		if err != nil {
			return err
		}

		if len(nodes) == 0 {
			fmt.Println("Empty folder.")
			return nil
		}

		for _, n := range nodes {
			if n.IsFolder() {
				fmt.Printf("d  %s/\n", n.Name)
				continue
			}
			fmt.Printf("f  %-30s  %8d  %s\n", n.Name, n.FileMeta.Size,
				n.FileMeta.UploadedAt.Format("2006-01-02 15:04:05"))
		}
		return nil
	},
}

// log command
var logCmd = &cobra.Command{
	Use:   "log PROJECT PATH",
	Short: "View upload history at a path",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		entries, err := a.History(args[0], args[1])
		if err != nil {
			return err
		}

		if len(entries) == 0 {
			fmt.Println("No upload history.")
			return nil
		}

		for _, e := range entries {
			current := ""
			if e.IsLatest {
				current = "  [latest]"
			}
			fmt.Printf("%s  %s  %d  %s%s\n",
				e.FileMeta.Checksum,
				e.FileMeta.UploadedAt.Format("2006-01-02 15:04:05"),
				e.FileMeta.Size,
				e.FileMeta.VersionTag,
				current,
			)
		}
		return nil
	},
}

// versions command
var versionsCmd = &cobra.Command{
	Use:   "versions PROJECT",
	Short: "List project snapshot versions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		versions, err := a.Versions(args[0])
		if err != nil {
			return err
		}

		if len(versions) == 0 {
			fmt.Println("No versions recorded.")
			return nil
		}

		for _, v := range versions {
			fmt.Printf("%-20s  %s  %8d  %s\n",
				v.Label,
				v.CreatedAt.Format("2006-01-02 15:04:05"),
				v.Bundle.Size,
				v.Notes,
			)
		}
		return nil
	},
}

// download command
var downloadCmd = &cobra.Command{
	Use:   "download BLOBREF [OUT]",
	Short: "Download a stored blob",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		out := os.Stdout
		if len(args) > 1 {
			f, err := os.Create(args[1])
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		return a.DownloadBlob(cmd.Context(), args[0], out)
	},
}

// project command
var projectCmd = &cobra.Command{
	Use:   "project",
	Short: "Manage projects",
}

var projectDeleteCmd = &cobra.Command{
	Use:   "delete PROJECT",
	Short: "Delete all metadata for a project",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.DeleteProject(args[0]); err != nil {
			return fmt.Errorf("deleting project: %w", err)
		}

		fmt.Printf("Deleted project %s\n", args[0])
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// project subcommands
	projectCmd.AddCommand(projectDeleteCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(snapshotCmd)
	snapshotCmd.Flags().StringP("label", "l", "", "Version label (required)")
	snapshotCmd.Flags().StringP("notes", "m", "", "Version notes")
	snapshotCmd.Flags().Bool("zip", false, "Treat PATH as a zip archive")
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(logCmd)
	rootCmd.AddCommand(versionsCmd)
	rootCmd.AddCommand(downloadCmd)
	rootCmd.AddCommand(projectCmd)
}
