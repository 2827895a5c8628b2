package models

import (
	"gorm.io/datatypes"
)

// Scorer attributes goals to a player on one side of a match. PlayerName is
// captured when the result is entered and is not re-synced.
type Scorer struct {
	PlayerID   string `json:"player_id"`
	PlayerName string `json:"player_name"`
	Goals      int    `json:"goals"`
}

// Match is one round-robin pairing. Team names are snapshots taken at
// generation time.
type Match struct {
	ID        string                      `json:"id" gorm:"primaryKey;size:64"`
	GameID    string                      `json:"game_id" gorm:"size:64;not null;index"`
	TeamAID   string                      `json:"team_a_id" gorm:"size:64;not null"`
	TeamAName string                      `json:"team_a_name"`
	TeamBID   string                      `json:"team_b_id" gorm:"size:64;not null"`
	TeamBName string                      `json:"team_b_name"`
	ScoreA    *int                        `json:"score_a,omitempty"`
	ScoreB    *int                        `json:"score_b,omitempty"`
	ScorersA  datatypes.JSONSlice[Scorer] `json:"scorers_a,omitempty"`
	ScorersB  datatypes.JSONSlice[Scorer] `json:"scorers_b,omitempty"`
	Position  int                         `json:"-" gorm:"not null;default:0"`
}

func (m *Match) HasResult() bool {
	return m.ScoreA != nil && m.ScoreB != nil
}

func (m Match) clone() Match {
	out := m
	if m.ScoreA != nil {
		a := *m.ScoreA
		out.ScoreA = &a
	}
	if m.ScoreB != nil {
		b := *m.ScoreB
		out.ScoreB = &b
	}
	if m.ScorersA != nil {
		out.ScorersA = append(datatypes.JSONSlice[Scorer]{}, m.ScorersA...)
	}
	if m.ScorersB != nil {
		out.ScorersB = append(datatypes.JSONSlice[Scorer]{}, m.ScorersB...)
	}
	return out
}
