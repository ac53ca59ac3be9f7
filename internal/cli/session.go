package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/claude/trainload/internal/dashboard"
	"github.com/claude/trainload/internal/models"
	"github.com/spf13/cobra"
)

func newSessionCmd(a *app) *cobra.Command {
	var (
		date     string
		duration string
		rpe      string
		notes    string
	)

	add := &cobra.Command{
		Use:   "add <player>",
		Short: "Record a session for a player",
		Long: `Record a training session. Training load is computed as duration x RPE.

Examples:
  trainload-cli session add anna --duration 60 --rpe 7
  trainload-cli session add anna -d 45 -r 5 --date 2024-01-10 --notes "Intervals"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if date == "" {
				date = dashboard.Today(a.now())
			}
			sess, err := models.SessionInput{
				Date:     date,
				Duration: json.Number(duration),
				RPE:      json.Number(rpe),
				Notes:    notes,
			}.Session()
			if err != nil {
				return err
			}
			if err := a.selectPlayer(args[0]); err != nil {
				return err
			}
			p, _ := a.mirror.Selected()

			saved, err := a.mirror.AddSession(cmd.Context(), p.ID, sess)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %s min x RPE %s = load %s\n",
				p.Name, dashboard.FormatDate(saved.Date),
				strconv.Itoa(saved.Duration), rpeLabel(saved.RPE), strconv.Itoa(saved.TrainingLoad))
			return nil
		},
	}
	add.Flags().StringVar(&date, "date", "", "Session date YYYY-MM-DD (default today)")
	add.Flags().StringVarP(&duration, "duration", "d", "", "Duration in minutes")
	add.Flags().StringVarP(&rpe, "rpe", "r", "", "Rating of perceived exertion, 1-10")
	add.Flags().StringVar(&notes, "notes", "", "Free-text notes")
	_ = add.MarkFlagRequired("duration")
	_ = add.MarkFlagRequired("rpe")

	cmd := &cobra.Command{
		Use:     "session",
		Aliases: []string{"sessions"},
		Short:   "Record sessions",
	}
	cmd.AddCommand(add)
	return cmd
}
