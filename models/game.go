package models

import (
	"time"

	"gorm.io/datatypes"
)

type GameStatus string

const (
	GameUpcoming  GameStatus = "upcoming"
	GameCompleted GameStatus = "completed"
)

func (s GameStatus) Valid() bool {
	return s == GameUpcoming || s == GameCompleted
}

type Game struct {
	ID                string                      `json:"id" gorm:"primaryKey;size:64"`
	Title             string                      `json:"title" gorm:"not null"`
	ScheduledAt       time.Time                   `json:"scheduled_at"`
	FieldName         string                      `json:"field_name"`
	Address           string                      `json:"address"`
	MapsLink          string                      `json:"maps_link"`
	Description       string                      `json:"description"`
	PricePerPlayer    int64                       `json:"price_per_player" gorm:"not null;default:0"`
	MaxPlayersPerTeam int                         `json:"max_players_per_team" gorm:"not null"`
	Status            GameStatus                  `json:"status" gorm:"size:16;not null;default:'upcoming'"`
	GalleryLinks      datatypes.JSONSlice[string] `json:"gallery_links"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`

	// Children are stored in their own tables and assembled by the store.
	Teams   []Team  `json:"teams" gorm:"-"`
	Matches []Match `json:"matches,omitempty" gorm:"-"`
}

// FindTeam returns a pointer into g.Teams, or nil.
func (g *Game) FindTeam(id string) *Team {
	for i := range g.Teams {
		if g.Teams[i].ID == id {
			return &g.Teams[i]
		}
	}
	return nil
}

// FindPlayer scans every team of the game.
func (g *Game) FindPlayer(id string) *Player {
	for i := range g.Teams {
		for j := range g.Teams[i].Players {
			if g.Teams[i].Players[j].ID == id {
				return &g.Teams[i].Players[j]
			}
		}
	}
	return nil
}

func (g *Game) FindMatch(id string) *Match {
	for i := range g.Matches {
		if g.Matches[i].ID == id {
			return &g.Matches[i]
		}
	}
	return nil
}

// HasActiveContact reports whether a non-rejected player of any team
// registered with contact.
func (g *Game) HasActiveContact(contact string) bool {
	for _, team := range g.Teams {
		for _, p := range team.Players {
			if p.Contact == contact && p.Status != PlayerRejected {
				return true
			}
		}
	}
	return false
}

// HasResults reports whether any match already carries a score.
func (g *Game) HasResults() bool {
	for _, m := range g.Matches {
		if m.HasResult() {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the aggregate.
func (g *Game) Clone() *Game {
	out := *g
	if g.GalleryLinks != nil {
		out.GalleryLinks = append(datatypes.JSONSlice[string]{}, g.GalleryLinks...)
	}
	if g.Teams != nil {
		out.Teams = make([]Team, len(g.Teams))
		for i, t := range g.Teams {
			out.Teams[i] = t
			if t.Players != nil {
				out.Teams[i].Players = append([]Player{}, t.Players...)
			}
		}
	}
	if g.Matches != nil {
		out.Matches = make([]Match, len(g.Matches))
		for i, m := range g.Matches {
			out.Matches[i] = m.clone()
		}
	}
	return &out
}

// Redacted returns a copy without player contacts and payment proofs.
func (g *Game) Redacted() *Game {
	out := g.Clone()
	for i := range out.Teams {
		for j := range out.Teams[i].Players {
			out.Teams[i].Players[j].Contact = ""
			out.Teams[i].Players[j].ProofFile = ProofFile{}
		}
	}
	return out
}
