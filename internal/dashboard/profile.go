package dashboard

import (
	"fmt"
	"strings"

	"github.com/claude/trainload/internal/models"
)

// Profile is a front-end configuration over the same data.
type Profile struct {
	Name        string
	RecentLimit int
	TrendLimit  int
}

var (
	Desktop = Profile{Name: "desktop", RecentLimit: 20, TrendLimit: 15}
	Tablet  = Profile{Name: "tablet", RecentLimit: 10, TrendLimit: 15}
)

// ProfileByName looks up a profile case-insensitively.
func ProfileByName(name string) (Profile, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Desktop.Name:
		return Desktop, nil
	case Tablet.Name:
		return Tablet, nil
	default:
		return Profile{}, fmt.Errorf("unknown profile %q (want desktop or tablet)", name)
	}
}

// View is everything a dashboard screen renders for one profile.
type View struct {
	Profile  string          `json:"profile"`
	Overview Stats           `json:"overview"`
	Players  []PlayerSummary `json:"players"`
	Recent   []RecentSession `json:"recent"`
	Selected *PlayerView     `json:"selected,omitempty"`
}

// PlayerView is the detail panel for the selected player.
type PlayerView struct {
	ID    string       `json:"id"`
	Name  string       `json:"name"`
	Stats Stats        `json:"stats"`
	Trend []TrendPoint `json:"trend"`
}

// Build assembles the view for ds. selected may be nil.
func (p Profile) Build(ds *models.Dataset, selected *models.Player) View {
	v := View{
		Profile:  p.Name,
		Overview: Overview(ds),
		Players:  Players(ds),
		Recent:   RecentSessions(ds, p.RecentLimit),
	}
	if selected != nil {
		v.Selected = &PlayerView{
			ID:    selected.ID,
			Name:  selected.Name,
			Stats: PlayerStats(*selected),
			Trend: Trend(*selected, p.TrendLimit),
		}
	}
	return v
}
