package models

// Team ids are only unique within their game, hence the composite key.
type Team struct {
	GameID   string   `json:"game_id" gorm:"primaryKey;size:64"`
	ID       string   `json:"id" gorm:"primaryKey;size:64"`
	Name     string   `json:"name" gorm:"not null"`
	Position int      `json:"-" gorm:"not null;default:0"`
	Players  []Player `json:"players" gorm:"-"`
}

// ActivePlayers counts the players that take up a slot on the team.
func (t *Team) ActivePlayers() int {
	n := 0
	for _, p := range t.Players {
		if p.Status != PlayerRejected {
			n++
		}
	}
	return n
}
