// Package cli implements trainload-cli, the terminal front end. Both the
// desktop and the tablet views run over the same client.Mirror and differ
// only in their dashboard.Profile.
package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/claude/trainload/internal/client"
	"github.com/claude/trainload/internal/dashboard"
	"github.com/spf13/cobra"
)

// app is the state shared by every command of one invocation.
type app struct {
	configPath string
	server     string
	profile    string

	now    func() time.Time
	cfg    Config
	prof   dashboard.Profile
	api    *client.Client
	mirror *client.Mirror
}

// Execute runs the CLI and exits non-zero on any error.
func Execute(version string) {
	root := NewRootCmd()
	root.Version = version
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	return newRootCmd(&app{now: time.Now})
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "trainload-cli",
		Short: "Training-load tracker",
		Long: `trainload-cli - record training sessions and follow players' training load

Training load is session duration in minutes times the rating of perceived
exertion (RPE, 1-10). All data lives on a trainload server.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.connect,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDashboard(cmd, dashboardOptions{})
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", DefaultConfigPath(), "Client config file")
	root.PersistentFlags().StringVar(&a.server, "server", "", "API base URL (overrides config)")
	root.PersistentFlags().StringVar(&a.profile, "profile", "", "View profile: desktop or tablet (overrides config)")

	root.AddCommand(
		newDashboardCmd(a),
		newPlayersCmd(a),
		newSessionCmd(a),
		newQuickCmd(a),
		newExportCmd(a),
		newImportCmd(a),
		newClearCmd(a),
	)
	return root
}

// connect resolves configuration and loads the mirror before any command runs.
func (a *app) connect(cmd *cobra.Command, args []string) error {
	cfg, err := LoadConfig(a.configPath)
	if err != nil {
		return err
	}
	if a.server != "" {
		cfg.Server = a.server
	}
	if a.profile != "" {
		cfg.Profile = a.profile
	}
	a.cfg = cfg

	a.prof, err = dashboard.ProfileByName(cfg.Profile)
	if err != nil {
		return err
	}

	a.api = client.New(cfg.Server)
	a.mirror = client.NewMirror(a.api)
	if err := a.mirror.Load(cmd.Context()); err != nil {
		return fmt.Errorf("loading data from %s: %w", cfg.Server, err)
	}
	return nil
}
