package cli

import (
	"fmt"

	"github.com/claude/trainload/internal/dashboard"
	"github.com/spf13/cobra"
)

func newPlayersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "players",
		Aliases: []string{"player"},
		Short:   "List, add and remove players",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.listPlayers(cmd)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List players with their session counts",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.listPlayers(cmd)
			},
		},
		&cobra.Command{
			Use:   "add <name>",
			Short: "Add a player",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				p, err := a.mirror.AddPlayer(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added player %s (%s)\n", p.Name, p.ID)
				return nil
			},
		},
		&cobra.Command{
			Use:     "rm <name-or-id>",
			Aliases: []string{"remove", "delete"},
			Short:   "Remove a player and all of their sessions",
			Args:    cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.selectPlayer(args[0]); err != nil {
					return err
				}
				p, _ := a.mirror.Selected()
				if err := a.mirror.DeletePlayer(cmd.Context(), p.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %s and %d session(s)\n", p.Name, len(p.Sessions))
				return nil
			},
		},
	)
	return cmd
}

func (a *app) listPlayers(cmd *cobra.Command) error {
	ds, err := a.mirror.Snapshot()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	players := dashboard.Players(ds)
	if len(players) == 0 {
		fmt.Fprintln(out, "No players yet. Add one with 'trainload-cli players add <name>'.")
		return nil
	}
	for _, p := range players {
		fmt.Fprintf(out, "%-24s %3d session(s)  %s\n", p.Name, p.Sessions, labelStyle.Render(p.ID))
	}
	return nil
}
