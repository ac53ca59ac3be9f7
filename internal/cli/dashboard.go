package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/claude/trainload/internal/dashboard"
	"github.com/claude/trainload/internal/models"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

type dashboardOptions struct {
	player string
	sort   string
	asc    bool
}

func newDashboardCmd(a *app) *cobra.Command {
	var opts dashboardOptions
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show team overview, recent sessions and a player's trend",
		Long: `Show the team overview, the most recent sessions and, with --player, the
selected player's statistics and training-load trend.

The desktop profile lists 20 recent sessions, the tablet profile 10.

Examples:
  trainload-cli dashboard
  trainload-cli dashboard --player anna
  trainload-cli dashboard --sort load
  trainload-cli --profile tablet dashboard --sort player --asc`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDashboard(cmd, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.player, "player", "p", "", "Player name or id to show details for")
	cmd.Flags().StringVar(&opts.sort, "sort", "", "Sort recent sessions by date, player, duration, rpe, load or notes")
	cmd.Flags().BoolVar(&opts.asc, "asc", false, "Sort ascending (default descending)")
	return cmd
}

func (a *app) runDashboard(cmd *cobra.Command, opts dashboardOptions) error {
	if opts.player != "" {
		if err := a.selectPlayer(opts.player); err != nil {
			return err
		}
	}

	ds, err := a.mirror.Snapshot()
	if err != nil {
		return err
	}
	selected, _ := a.mirror.Selected()
	view := a.prof.Build(ds, selected)

	if opts.sort != "" {
		col, err := dashboard.ParseColumn(opts.sort)
		if err != nil {
			return err
		}
		dashboard.SortRecent(view.Recent, col, opts.asc)
	}

	out := cmd.OutOrStdout()
	renderOverview(out, view.Overview, ds)
	if view.Selected != nil {
		renderPlayer(out, view.Selected)
	}
	renderRecent(out, view.Recent)
	return nil
}

// selectPlayer accepts either a player id or a name.
func (a *app) selectPlayer(ref string) error {
	if err := a.mirror.Select(ref); err == nil {
		return nil
	}
	if _, err := a.mirror.SelectByName(ref); err != nil {
		return fmt.Errorf("player %q: %w", ref, err)
	}
	return nil
}

func renderOverview(w io.Writer, st dashboard.Stats, ds *models.Dataset) {
	fmt.Fprintln(w, titleStyle.Render("Team overview"))
	fmt.Fprintf(w, "%s %d   %s %d   %s %.1f   %s %s\n",
		labelStyle.Render("Players"), st.Players,
		labelStyle.Render("Sessions"), st.Sessions,
		labelStyle.Render("Avg RPE"), st.AvgRPE,
		labelStyle.Render("Avg load"), humanize.Comma(int64(st.AvgLoad)),
	)
	if !ds.UpdatedAt.IsZero() {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render("Updated"), humanize.Time(ds.UpdatedAt))
	}
	fmt.Fprintln(w)
}

func renderPlayer(w io.Writer, p *dashboard.PlayerView) {
	fmt.Fprintln(w, titleStyle.Render(p.Name))
	fmt.Fprintf(w, "%s %d   %s %.1f   %s %s   %s %s min\n",
		labelStyle.Render("Sessions"), p.Stats.Sessions,
		labelStyle.Render("Avg RPE"), p.Stats.AvgRPE,
		labelStyle.Render("Avg load"), humanize.Comma(int64(p.Stats.AvgLoad)),
		labelStyle.Render("Total"), humanize.Comma(int64(p.Stats.TotalMinutes)),
	)
	if len(p.Trend) == 0 {
		fmt.Fprintln(w, "No sessions recorded yet.")
		fmt.Fprintln(w)
		return
	}

	peak := 0
	for _, pt := range p.Trend {
		peak = max(peak, pt.Load)
	}
	fmt.Fprintln(w, labelStyle.Render("Training load trend"))
	for _, pt := range p.Trend {
		fmt.Fprintf(w, "  %s %-30s %s\n", pt.Label, bar(pt.Load, peak, 30), humanize.Comma(int64(pt.Load)))
	}
	fmt.Fprintln(w)
}

// bar scales load against peak into a bar of at most width cells.
func bar(load, peak, width int) string {
	if peak <= 0 || load <= 0 {
		return ""
	}
	n := max(1, load*width/peak)
	return strings.Repeat("█", n)
}

func renderRecent(w io.Writer, recent []dashboard.RecentSession) {
	fmt.Fprintln(w, titleStyle.Render("Recent sessions"))
	if len(recent) == 0 {
		fmt.Fprintln(w, "No sessions recorded yet.")
		return
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Date", "Player", "Minutes", "RPE", "Load", "Notes").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 3 && row >= 0 && row < len(recent) {
				return bandStyle(recent[row].RPE).Padding(0, 1)
			}
			return cellStyle
		})
	for _, s := range recent {
		t.Row(
			dashboard.FormatDate(s.Date),
			s.PlayerName,
			strconv.Itoa(s.Duration),
			strconv.Itoa(s.RPE),
			humanize.Comma(int64(s.TrainingLoad)),
			s.Notes,
		)
	}
	fmt.Fprintln(w, t.String())
}
