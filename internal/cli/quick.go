package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/claude/trainload/internal/dashboard"
	"github.com/spf13/cobra"
)

const quickHelp = `Keys (one per line):
  0-9        type a duration digit        del   remove the last digit
  p<min>     preset duration, e.g. p60    c     clear the duration
  r<1-10>    select RPE, e.g. r7          ok    save the session for today
  q          quit`

func newQuickCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "quick <player>",
		Short: "Tablet-style quick entry of today's sessions",
		Long: `Enter sessions for today with the tablet keypad: type the duration digit
by digit (at most 3 digits) or pick a preset, select an RPE, and confirm.
The player stays selected so several sessions can be entered in a row.

` + quickHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.selectPlayer(args[0]); err != nil {
				return err
			}
			p, _ := a.mirror.Selected()
			return a.runQuick(cmd, p.ID, p.Name)
		},
	}
}

func (a *app) runQuick(cmd *cobra.Command, playerID, playerName string) error {
	out := cmd.OutOrStdout()
	in := bufio.NewScanner(cmd.InOrStdin())

	entry := dashboard.QuickEntry{PlayerID: playerID}
	fmt.Fprintln(out, titleStyle.Render("Quick entry: "+playerName))
	fmt.Fprintln(out, labelStyle.Render(quickHelp))
	fmt.Fprintf(out, "Presets: %s\n", presetList())

	saved := 0
	for {
		printEntry(out, &entry)
		if !in.Scan() {
			break
		}
		key := strings.ToLower(strings.TrimSpace(in.Text()))

		switch {
		case key == "":
			continue
		case key == "q" || key == "quit":
			fmt.Fprintf(out, "Saved %d session(s)\n", saved)
			return nil
		case key == "del":
			entry.Backspace()
		case key == "c":
			_ = entry.SetDuration(0)
		case key == "ok":
			sess, err := entry.Session(a.now())
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			stored, err := a.mirror.AddSession(cmd.Context(), playerID, sess)
			if err != nil {
				return err
			}
			saved++
			fmt.Fprintf(out, "Saved: %d min x RPE %s = load %d\n", stored.Duration, rpeLabel(stored.RPE), stored.TrainingLoad)
			entry.Reset()
		case len(key) == 1 && key[0] >= '0' && key[0] <= '9':
			entry.PressDigit(int(key[0] - '0'))
		case strings.HasPrefix(key, "p"):
			n, err := strconv.Atoi(key[1:])
			if err != nil {
				fmt.Fprintf(out, "unknown preset %q\n", key)
				continue
			}
			if err := entry.SetDuration(n); err != nil {
				fmt.Fprintln(out, err)
			}
		case strings.HasPrefix(key, "r"):
			n, err := strconv.Atoi(key[1:])
			if err != nil || n < 1 || n > 10 {
				fmt.Fprintf(out, "RPE must be r1 to r10, got %q\n", key)
				continue
			}
			entry.SelectRPE(n)
		default:
			fmt.Fprintf(out, "unknown key %q\n", key)
		}
	}
	if err := in.Err(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved %d session(s)\n", saved)
	return nil
}

func printEntry(w io.Writer, e *dashboard.QuickEntry) {
	duration := "--"
	if d := e.Duration(); d > 0 {
		duration = strconv.Itoa(d)
	}
	rpe := "--"
	if e.RPE != 0 {
		rpe = rpeLabel(e.RPE)
	}
	state := "incomplete"
	if e.Ready() {
		state = "ready"
	}
	fmt.Fprintf(w, "[%s min | RPE %s | load %d | %s] > ", duration, rpe, e.PreviewLoad(), state)
}

func presetList() string {
	parts := make([]string, len(dashboard.DurationPresets))
	for i, p := range dashboard.DurationPresets {
		parts[i] = "p" + strconv.Itoa(p)
	}
	return strings.Join(parts, " ")
}
