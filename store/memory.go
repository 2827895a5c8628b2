package store

import (
	"context"
	"sync"

	"github.com/harjunatn/fun-soccer/models"
)

type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]*models.Game
	order []string
}

func NewMemoryStore(seed ...models.Game) *MemoryStore {
	s := &MemoryStore{games: make(map[string]*models.Game)}
	for i := range seed {
		s.put(&seed[i])
	}
	return s
}

func (s *MemoryStore) put(game *models.Game) {
	if _, ok := s.games[game.ID]; !ok {
		s.order = append(s.order, game.ID)
	}
	s.games[game.ID] = game.Clone()
}

func (s *MemoryStore) LoadGame(ctx context.Context, id string) (*models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	game, ok := s.games[id]
	if !ok {
		return nil, ErrNotFound
	}
	return game.Clone(), nil
}

func (s *MemoryStore) LoadAllGames(ctx context.Context) ([]models.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	games := make([]models.Game, 0, len(s.order))
	for _, id := range s.order {
		games = append(games, *s.games[id].Clone())
	}
	return games, nil
}

func (s *MemoryStore) SaveGame(ctx context.Context, game *models.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(game)
	return nil
}

func (s *MemoryStore) UpdateGame(ctx context.Context, id string, fn func(game *models.Game) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.games[id]
	if !ok {
		return ErrNotFound
	}
	game := current.Clone()
	if err := fn(game); err != nil {
		return err
	}
	s.games[id] = game.Clone()
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error {
	return nil
}
