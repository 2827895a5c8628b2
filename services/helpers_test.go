package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/harjunatn/fun-soccer/models"
	"github.com/harjunatn/fun-soccer/store"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

// newTestGame builds a game whose team ids are the given names.
func newTestGame(id string, maxPlayers int, teams ...string) models.Game {
	game := models.Game{
		ID:                id,
		Title:             "Friday futsal",
		ScheduledAt:       time.Date(2024, 5, 3, 19, 0, 0, 0, time.UTC),
		MaxPlayersPerTeam: maxPlayers,
		Status:            models.GameUpcoming,
		GalleryLinks:      datatypes.JSONSlice[string]{},
		CreatedAt:         time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, name := range teams {
		game.Teams = append(game.Teams, models.Team{GameID: id, ID: name, Name: "Team " + name, Players: []models.Player{}})
	}
	return game
}

func registration(name, contact string) *RegisterPlayerRequest {
	return &RegisterPlayerRequest{
		Name:    name,
		Contact: contact,
		ProofFile: models.ProofFile{
			Name: name + ".png",
			Type: "image/png",
			URL:  "https://files.example.com/" + name + ".png",
		},
	}
}

func sequentialIDs(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}

func mustLoad(t *testing.T, st store.Store, id string) *models.Game {
	t.Helper()
	game, err := st.LoadGame(context.Background(), id)
	require.NoError(t, err)
	return game
}

// mockStore lets tests inject persistence failures.
type mockStore struct {
	mock.Mock
}

func (m *mockStore) LoadGame(ctx context.Context, id string) (*models.Game, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Game), args.Error(1)
}

func (m *mockStore) LoadAllGames(ctx context.Context) ([]models.Game, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Game), args.Error(1)
}

func (m *mockStore) SaveGame(ctx context.Context, game *models.Game) error {
	return m.Called(ctx, game).Error(0)
}

func (m *mockStore) UpdateGame(ctx context.Context, id string, fn func(game *models.Game) error) error {
	return m.Called(ctx, id, fn).Error(0)
}

func (m *mockStore) Ping(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}
