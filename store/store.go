// Package store persists Game aggregates. Every backend stores the whole
// aggregate (teams, players and matches) and hands back copies, so callers
// never share memory with the store.
package store

import (
	"context"
	"errors"

	"github.com/harjunatn/fun-soccer/models"
)

var (
	ErrNotFound = errors.New("game not found")
	ErrConflict = errors.New("conflicting concurrent write")
)

type Store interface {
	LoadGame(ctx context.Context, id string) (*models.Game, error)
	// LoadAllGames returns games in creation order.
	LoadAllGames(ctx context.Context) ([]models.Game, error)
	// SaveGame inserts or fully replaces the aggregate.
	SaveGame(ctx context.Context, game *models.Game) error
	// UpdateGame loads the game, applies fn and writes the result as one unit.
	// Nothing is written when fn returns an error; that error is returned as is.
	UpdateGame(ctx context.Context, id string, fn func(game *models.Game) error) error
	Ping(ctx context.Context) error
}
