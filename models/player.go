package models

import (
	"time"
)

type PlayerStatus string

const (
	PlayerPending   PlayerStatus = "pending"
	PlayerConfirmed PlayerStatus = "confirmed"
	PlayerRejected  PlayerStatus = "rejected"
)

// IsTerminal is true for confirmed and rejected.
func (s PlayerStatus) IsTerminal() bool {
	return s == PlayerConfirmed || s == PlayerRejected
}

// ProofFile references the payment proof uploaded to object storage.
type ProofFile struct {
	Name string `json:"name,omitempty"`
	Type string `json:"type,omitempty"`
	URL  string `json:"url,omitempty"`
}

type Player struct {
	ID           string       `json:"id" gorm:"primaryKey;size:64"`
	GameID       string       `json:"game_id" gorm:"size:64;not null;index"`
	TeamID       string       `json:"team_id" gorm:"size:64;not null"`
	Name         string       `json:"name" gorm:"not null"`
	Contact      string       `json:"contact,omitempty" gorm:"not null;index"`
	ProofFile    ProofFile    `json:"proof_file" gorm:"embedded;embeddedPrefix:proof_"`
	Status       PlayerStatus `json:"status" gorm:"size:16;not null;default:'pending'"`
	RegisteredAt time.Time    `json:"registered_at"`
	Position     int          `json:"-" gorm:"not null;default:0"`
}
