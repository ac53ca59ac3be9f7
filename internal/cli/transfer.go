package cli

import (
	"fmt"

	"github.com/claude/trainload/internal/client"
	"github.com/spf13/cobra"
)

// ClearConfirmation must be passed to clear --confirm.
const ClearConfirmation = "DELETE"

func newExportCmd(a *app) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all data to a JSON file",
		Long: `Export every player and session to trainload_export_<date>.json.
The file can be loaded back with 'trainload-cli import'.

Examples:
  trainload-cli export
  trainload-cli export -o ~/backups`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := a.mirror.Snapshot()
			if err != nil {
				return err
			}
			path, err := client.WriteExport(dir, ds, a.now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d player(s), %d session(s) to %s\n",
				len(ds.Players), ds.SessionCount(), path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "output", "o", ".", "Directory to write the export to")
	return cmd
}

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Merge players and sessions from a JSON file",
		Long: `Merge a previously exported file into the server's data. Players are
matched by name ignoring case; sessions are appended and invalid ones are
skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := client.ReadImportFile(args[0])
			if err != nil {
				return err
			}
			added, err := a.mirror.Import(cmd.Context(), payload)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Import complete: %d new player(s)\n", added)
			return nil
		},
	}
}

func newClearCmd(a *app) *cobra.Command {
	var confirm string
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete all players and sessions",
		Long: `Delete every player and session on the server. This cannot be undone;
export first if you may need the data again.

  trainload-cli clear --confirm DELETE`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if confirm != ClearConfirmation {
				return fmt.Errorf("refusing to clear: pass --confirm %s", ClearConfirmation)
			}
			if err := a.mirror.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All data deleted")
			return nil
		},
	}
	cmd.Flags().StringVar(&confirm, "confirm", "", "Type "+ClearConfirmation+" to confirm")
	return cmd
}
