package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	lerrors "github.com/linealens/linealens/pkg/errors"
	"github.com/linealens/linealens/pkg/project"
)

// projectsCommand creates the projects command group for managing saved
// project snapshots.
func (c *CLI) projectsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "projects",
		Short: "Manage saved lineage projects",
	}

	cmd.AddCommand(c.projectsListCommand())
	cmd.AddCommand(c.projectsShowCommand())
	cmd.AddCommand(c.projectsDeleteCommand())
	cmd.AddCommand(c.projectsBackupCommand())
	cmd.AddCommand(c.projectsRestoreCommand())

	return cmd
}

func (c *CLI) projectsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List saved projects, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			entries, err := st.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				printInfo("No saved projects")
				printNextStep("Import a manifest", "linealens import target/manifest.json --save")
				return nil
			}

			fmt.Println(StyleTitle.Render("Projects"))
			printNewline()
			for _, e := range entries {
				fmt.Println("  " + StyleValue.Render(e.Name) + "  " + StyleDim.Render(e.ID))
				printDetail("%d nodes · updated %s", e.NodeCount, formatRelativeTime(e.UpdatedAt))
			}
			return nil
		},
	}
}

func (c *CLI) projectsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show <project-id>",
		Short: "Show a saved project's metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			p, err := st.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if p == nil {
				return lerrors.New(lerrors.ErrCodeProjectNotFound, "project %s not found", args[0])
			}

			fmt.Println(StyleTitle.Render(p.Metadata.Name))
			printNewline()
			printKeyValue("id", p.Metadata.ID)
			printKeyValue("source", p.Metadata.SourceProjectName)
			printKeyValue("nodes", fmt.Sprintf("%d", len(p.Nodes)))
			printKeyValue("edges", fmt.Sprintf("%d", len(p.Edges)))
			printKeyValue("created", p.Metadata.CreatedAt.Local().Format(time.RFC822))
			printKeyValue("updated", p.Metadata.UpdatedAt.Local().Format(time.RFC822))
			return nil
		},
	}
}

func (c *CLI) projectsDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <project-id>",
		Short: "Delete a saved project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			printSuccess("Deleted project %s", args[0])
			return nil
		},
	}
}

func (c *CLI) projectsBackupCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Export all projects to a backup file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			backup, err := st.ExportAll(cmd.Context())
			if err != nil {
				return err
			}

			out, err := openOutput(output)
			if err != nil {
				return err
			}
			defer out.Close()
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(backup); err != nil {
				return err
			}

			if output != "" {
				printSuccess("Exported %d projects", len(backup.Projects))
				printFile(output)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}

func (c *CLI) projectsRestoreCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "restore <backup.json>",
		Short: "Replace all projects with a backup file's contents",
		Long: `Restore wholly replaces the project store with the backup's contents.
The backup is validated before anything is cleared; invalid entries inside
an otherwise valid backup are skipped with a warning.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			var backup project.DatabaseBackup
			if err := json.Unmarshal(data, &backup); err != nil {
				return lerrors.Wrap(lerrors.ErrCodeInvalidBackup, err, "parse backup %s", args[0])
			}

			st, err := c.newStore(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			imported, err := st.ImportAll(cmd.Context(), &backup)
			if err != nil {
				return err
			}
			printSuccess("Restored %d projects", imported)
			if skipped := len(backup.Projects) - imported; skipped > 0 {
				printWarning("%d invalid entries skipped", skipped)
			}
			return nil
		},
	}
}

// formatRelativeTime renders t relative to now for list output.
func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
