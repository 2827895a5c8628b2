package services

import (
	"context"
	"errors"
	"testing"

	"github.com/harjunatn/fun-soccer/models"
	"github.com/harjunatn/fun-soccer/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRegisterPlayer_Success(t *testing.T) {
	st := store.NewMemoryStore(newTestGame("g1", 2, "A", "B"))
	svc := NewRegistrationService(st)
	svc.newID = sequentialIDs("p")

	result := svc.RegisterPlayer(context.Background(), "g1", "A", registration("X", " +1 "))

	require.True(t, result.Success, result.Error)
	assert.Empty(t, result.Error)

	game := mustLoad(t, st, "g1")
	require.Len(t, game.Teams[0].Players, 1)
	p := game.Teams[0].Players[0]
	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, "+1", p.Contact)
	assert.Equal(t, models.PlayerPending, p.Status)
	assert.False(t, p.RegisteredAt.IsZero())
	assert.Empty(t, game.Teams[1].Players)
}

func TestRegisterPlayer_Scenario(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(newTestGame("g1", 2, "A", "B", "C"))
	registrations := NewRegistrationService(st)
	matches := NewMatchService(st, false)

	assert.True(t, registrations.RegisterPlayer(ctx, "g1", "A", registration("X", "+1")).Success)

	dup := registrations.RegisterPlayer(ctx, "g1", "B", registration("Y", "+1"))
	assert.False(t, dup.Success)
	assert.ErrorIs(t, dup.Err, ErrDuplicateRegistration)
	assert.Equal(t, "You have already registered for this game", dup.Error)

	assert.True(t, registrations.RegisterPlayer(ctx, "g1", "A", registration("Z", "+2")).Success)
	full := registrations.RegisterPlayer(ctx, "g1", "A", registration("W", "+3"))
	assert.False(t, full.Success)
	assert.ErrorIs(t, full.Err, ErrCapacityExceeded)
	assert.Equal(t, "Team is full", full.Error)

	generated, err := matches.GenerateMatches(ctx, "g1", GenerateOptions{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A-B", "A-C", "B-C"}, pairKeys(generated))
}

func TestRegisterPlayer_FailureOrder(t *testing.T) {
	ctx := context.Background()
	game := newTestGame("g1", 1, "A", "B")
	game.Teams[0].Players = []models.Player{{ID: "p1", GameID: "g1", TeamID: "A", Contact: "+1", Status: models.PlayerConfirmed}}
	svc := NewRegistrationService(store.NewMemoryStore(game))

	tests := []struct {
		name   string
		gameID string
		teamID string
		req    *RegisterPlayerRequest
		want   error
		reason string
	}{
		{"unknown game", "nope", "A", registration("X", "+1"), ErrNotFound, "Game not found"},
		{"unknown team", "g1", "Z", registration("X", "+1"), ErrNotFound, "Team not found"},
		// capacity is checked before the duplicate contact
		{"full team", "g1", "A", registration("X", "+1"), ErrCapacityExceeded, "Team is full"},
		{"duplicate in other team", "g1", "B", registration("X", "+1"), ErrDuplicateRegistration, "You have already registered for this game"},
		{"missing proof", "g1", "B", &RegisterPlayerRequest{Name: "X", Contact: "+9"}, ErrInvalidRegistration, ""},
		// lookups come before the request fields, which come before capacity
		{"missing proof for unknown game", "nope", "A", &RegisterPlayerRequest{Name: "X"}, ErrNotFound, "Game not found"},
		{"missing proof for unknown team", "g1", "Z", &RegisterPlayerRequest{Name: "X"}, ErrNotFound, "Team not found"},
		{"missing proof on full team", "g1", "A", &RegisterPlayerRequest{Name: "X", Contact: "+1"}, ErrInvalidRegistration, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := svc.RegisterPlayer(ctx, tt.gameID, tt.teamID, tt.req)
			assert.False(t, result.Success)
			assert.ErrorIs(t, result.Err, tt.want)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, result.Error)
			}
		})
	}
}

func TestRegisterPlayer_UpToCapacity(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(newTestGame("g1", 3, "A", "B"))
	svc := NewRegistrationService(st)

	for _, contact := range []string{"+1", "+2", "+3"} {
		require.True(t, svc.RegisterPlayer(ctx, "g1", "A", registration("P"+contact, contact)).Success)
	}
	result := svc.RegisterPlayer(ctx, "g1", "A", registration("late", "+4"))
	assert.ErrorIs(t, result.Err, ErrCapacityExceeded)

	assert.Len(t, mustLoad(t, st, "g1").Teams[0].Players, 3)
}

func TestRegisterPlayer_RejectedFreesSlotAndContact(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore(newTestGame("g1", 1, "A", "B"))
	svc := NewRegistrationService(st)
	svc.newID = sequentialIDs("p")

	require.True(t, svc.RegisterPlayer(ctx, "g1", "A", registration("X", "+1")).Success)
	assert.ErrorIs(t, svc.RegisterPlayer(ctx, "g1", "B", registration("X", "+1")).Err, ErrDuplicateRegistration)

	_, err := svc.UpdatePlayerStatus(ctx, "g1", "p-1", models.PlayerRejected)
	require.NoError(t, err)

	assert.True(t, svc.RegisterPlayer(ctx, "g1", "A", registration("X", "+1")).Success)
	game := mustLoad(t, st, "g1")
	assert.Len(t, game.Teams[0].Players, 2)
	assert.Equal(t, 1, game.Teams[0].ActivePlayers())
}

func TestRegisterPlayer_PersistenceFailure(t *testing.T) {
	st := new(mockStore)
	st.On("UpdateGame", mock.Anything, "g1", mock.Anything).Return(errors.New("connection reset"))
	svc := NewRegistrationService(st)

	result := svc.RegisterPlayer(context.Background(), "g1", "A", registration("X", "+1"))

	assert.False(t, result.Success)
	assert.ErrorIs(t, result.Err, ErrPersistence)
	assert.Equal(t, "Failed to save registration. Please try again.", result.Error)
	st.AssertExpectations(t)
}

func TestUpdatePlayerStatus(t *testing.T) {
	ctx := context.Background()
	game := newTestGame("g1", 5, "A", "B")
	game.Teams[1].Players = []models.Player{
		{ID: "p1", GameID: "g1", TeamID: "B", Name: "X", Contact: "+1", Status: models.PlayerPending},
		{ID: "p2", GameID: "g1", TeamID: "B", Name: "Y", Contact: "+2", Status: models.PlayerPending},
	}
	st := store.NewMemoryStore(game)
	svc := NewRegistrationService(st)

	player, err := svc.UpdatePlayerStatus(ctx, "g1", "p1", models.PlayerConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.PlayerConfirmed, player.Status)

	before := mustLoad(t, st, "g1")
	again, err := svc.UpdatePlayerStatus(ctx, "g1", "p1", models.PlayerConfirmed)
	require.NoError(t, err)
	assert.Equal(t, models.PlayerConfirmed, again.Status)
	assert.Equal(t, before, mustLoad(t, st, "g1"))

	_, err = svc.UpdatePlayerStatus(ctx, "g1", "p1", models.PlayerRejected)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.UpdatePlayerStatus(ctx, "g1", "p2", models.PlayerPending)
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = svc.UpdatePlayerStatus(ctx, "g1", "ghost", models.PlayerConfirmed)
	assert.True(t, IsNotFound(err, "player"))

	_, err = svc.UpdatePlayerStatus(ctx, "nope", "p2", models.PlayerConfirmed)
	assert.True(t, IsNotFound(err, "game"))

	assert.Equal(t, models.PlayerPending, mustLoad(t, st, "g1").FindPlayer("p2").Status)
}

func TestGetPendingRegistrations(t *testing.T) {
	ctx := context.Background()
	g1 := newTestGame("g1", 5, "A", "B")
	g1.Teams[0].Players = []models.Player{
		{ID: "p1", TeamID: "A", Contact: "+1", Status: models.PlayerConfirmed},
		{ID: "p2", TeamID: "A", Contact: "+2", Status: models.PlayerPending},
	}
	g1.Teams[1].Players = []models.Player{
		{ID: "p3", TeamID: "B", Contact: "+3", Status: models.PlayerRejected},
		{ID: "p4", TeamID: "B", Contact: "+4", Status: models.PlayerPending},
	}
	g2 := newTestGame("g2", 5, "C")
	g2.Teams[0].Players = []models.Player{{ID: "p5", TeamID: "C", Contact: "+5", Status: models.PlayerPending}}

	st := store.NewMemoryStore(g1, g2)
	svc := NewRegistrationService(st)

	pending, err := svc.GetPendingRegistrations(ctx)
	require.NoError(t, err)

	var ids []string
	for _, p := range pending {
		assert.Equal(t, models.PlayerPending, p.Player.Status)
		ids = append(ids, p.Player.ID)
	}
	assert.Equal(t, []string{"p2", "p4", "p5"}, ids)
	assert.Equal(t, "g2", pending[2].Game.ID)
	assert.Equal(t, "Team B", pending[1].TeamName)

	_, err = svc.UpdatePlayerStatus(ctx, "g1", "p2", models.PlayerConfirmed)
	require.NoError(t, err)

	pending, err = svc.GetPendingRegistrations(ctx)
	require.NoError(t, err)
	assert.Len(t, pending, 2)
}

func TestGetPendingRegistrations_PersistenceFailure(t *testing.T) {
	st := new(mockStore)
	st.On("LoadAllGames", mock.Anything).Return(nil, errors.New("timeout"))

	_, err := NewRegistrationService(st).GetPendingRegistrations(context.Background())

	var perr *PersistenceError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, "load games", perr.Op)
}
