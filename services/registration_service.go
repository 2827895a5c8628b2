package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/harjunatn/fun-soccer/logger"
	"github.com/harjunatn/fun-soccer/models"
	"github.com/harjunatn/fun-soccer/store"

	"github.com/google/uuid"
)

type RegistrationService struct {
	store store.Store
	now   func() time.Time
	newID func() string
}

func NewRegistrationService(st store.Store) *RegistrationService {
	return &RegistrationService{
		store: st,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

type RegisterPlayerRequest struct {
	Name      string           `json:"name" binding:"required"`
	Contact   string           `json:"contact" binding:"required"`
	ProofFile models.ProofFile `json:"proof_file"`
}

func (r *RegisterPlayerRequest) validate() error {
	switch {
	case strings.TrimSpace(r.Name) == "":
		return fmt.Errorf("%w: name is required", ErrInvalidRegistration)
	case strings.TrimSpace(r.Contact) == "":
		return fmt.Errorf("%w: contact is required", ErrInvalidRegistration)
	case r.ProofFile.Name == "" || r.ProofFile.URL == "":
		return fmt.Errorf("%w: please upload payment proof", ErrInvalidRegistration)
	}
	return nil
}

// RegistrationResult is returned for every registration attempt. Failures
// carry a reason the UI can show inline; Err keeps the typed error.
type RegistrationResult struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Err     error  `json:"-"`
}

func registrationFailed(err error) RegistrationResult {
	return RegistrationResult{Error: registrationReason(err), Err: err}
}

func registrationReason(err error) string {
	switch {
	case IsNotFound(err, "game"):
		return "Game not found"
	case IsNotFound(err, "team"):
		return "Team not found"
	case errors.Is(err, ErrCapacityExceeded):
		return "Team is full"
	case errors.Is(err, ErrDuplicateRegistration):
		return "You have already registered for this game"
	case errors.Is(err, ErrPersistence):
		return "Failed to save registration. Please try again."
	default:
		return err.Error()
	}
}

// RegisterPlayer appends a pending player to a team. Checks run in order and
// the first failure wins: game, team, request fields, capacity, duplicate contact.
func (s *RegistrationService) RegisterPlayer(ctx context.Context, gameID, teamID string, req *RegisterPlayerRequest) RegistrationResult {
	contact := strings.TrimSpace(req.Contact)

	var playerID string
	err := updateGame(ctx, s.store, "register player", gameID, func(game *models.Game) error {
		team := game.FindTeam(teamID)
		if team == nil {
			return notFound("team")
		}
		if err := req.validate(); err != nil {
			return err
		}
		if team.ActivePlayers() >= game.MaxPlayersPerTeam {
			return ErrCapacityExceeded
		}
		if game.HasActiveContact(contact) {
			return ErrDuplicateRegistration
		}

		playerID = s.newID()
		team.Players = append(team.Players, models.Player{
			ID:           playerID,
			GameID:       game.ID,
			TeamID:       team.ID,
			Name:         strings.TrimSpace(req.Name),
			Contact:      contact,
			ProofFile:    req.ProofFile,
			Status:       models.PlayerPending,
			RegisteredAt: s.now().UTC(),
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrPersistence) {
			logger.Errorf("Failed to register player for game %s team %s: %v", gameID, teamID, err)
		} else {
			logger.Infof("Registration rejected for game %s team %s: %v", gameID, teamID, err)
		}
		return registrationFailed(err)
	}

	logger.Infow("Player registered", "game_id", gameID, "team_id", teamID, "player_id", playerID)
	return RegistrationResult{Success: true}
}

// UpdatePlayerStatus moves a pending player to confirmed or rejected. Repeating
// the current status is a no-op; leaving a final status is refused.
func (s *RegistrationService) UpdatePlayerStatus(ctx context.Context, gameID, playerID string, status models.PlayerStatus) (*models.Player, error) {
	if !status.IsTerminal() {
		return nil, ErrInvalidStatus
	}

	var updated models.Player
	err := updateGame(ctx, s.store, "update player status", gameID, func(game *models.Game) error {
		player := game.FindPlayer(playerID)
		if player == nil {
			return notFound("player")
		}
		updated = *player
		if player.Status == status {
			return errUnchanged
		}
		if player.Status.IsTerminal() {
			return fmt.Errorf("%w: player is %s", ErrInvalidTransition, player.Status)
		}
		player.Status = status
		updated = *player
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("Player status updated", "game_id", gameID, "player_id", playerID, "status", status)
	return &updated, nil
}

type PendingRegistration struct {
	Game     *models.Game  `json:"game"`
	TeamName string        `json:"team_name"`
	Player   models.Player `json:"player"`
}

// GetPendingRegistrations lists pending players of every game in game, team
// and player order. It always reads the store.
func (s *RegistrationService) GetPendingRegistrations(ctx context.Context) ([]PendingRegistration, error) {
	games, err := s.store.LoadAllGames(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load games", Err: err}
	}

	pending := []PendingRegistration{}
	for i := range games {
		game := &games[i]
		for _, team := range game.Teams {
			for _, player := range team.Players {
				if player.Status == models.PlayerPending {
					pending = append(pending, PendingRegistration{
						Game:     game,
						TeamName: team.Name,
						Player:   player,
					})
				}
			}
		}
	}
	return pending, nil
}
