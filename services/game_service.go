package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/harjunatn/fun-soccer/logger"
	"github.com/harjunatn/fun-soccer/models"
	"github.com/harjunatn/fun-soccer/store"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type GameService struct {
	store store.Store
	now   func() time.Time
	newID func() string
}

func NewGameService(st store.Store) *GameService {
	return &GameService{
		store: st,
		now:   time.Now,
		newID: uuid.NewString,
	}
}

// GameRequest is used both to create a game and to edit it. Teams are given
// by name; on edit they are matched to existing teams by position.
type GameRequest struct {
	Title             string            `json:"title" binding:"required"`
	ScheduledAt       time.Time         `json:"scheduled_at" binding:"required"`
	FieldName         string            `json:"field_name"`
	Address           string            `json:"address"`
	MapsLink          string            `json:"maps_link"`
	Description       string            `json:"description"`
	PricePerPlayer    int64             `json:"price_per_player" binding:"min=0"`
	MaxPlayersPerTeam int               `json:"max_players_per_team" binding:"required,min=1"`
	Status            models.GameStatus `json:"status"`
	TeamNames         []string          `json:"team_names" binding:"required,min=1"`
}

func (r *GameRequest) validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return fmt.Errorf("%w: title is required", ErrInvalidGame)
	}
	if r.MaxPlayersPerTeam < 1 {
		return fmt.Errorf("%w: max players per team must be at least 1", ErrInvalidGame)
	}
	if r.PricePerPlayer < 0 {
		return fmt.Errorf("%w: price must not be negative", ErrInvalidGame)
	}
	if r.Status == "" {
		r.Status = models.GameUpcoming
	}
	if !r.Status.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidGame, r.Status)
	}
	if len(r.TeamNames) == 0 {
		return fmt.Errorf("%w: at least one team is required", ErrInvalidGame)
	}
	for i, name := range r.TeamNames {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("%w: team %d has no name", ErrInvalidGame, i+1)
		}
	}
	return nil
}

func (r *GameRequest) apply(game *models.Game) {
	game.Title = strings.TrimSpace(r.Title)
	game.ScheduledAt = r.ScheduledAt
	game.FieldName = r.FieldName
	game.Address = r.Address
	game.MapsLink = r.MapsLink
	game.Description = r.Description
	game.PricePerPlayer = r.PricePerPlayer
	game.MaxPlayersPerTeam = r.MaxPlayersPerTeam
	game.Status = r.Status
}

func (s *GameService) CreateGame(ctx context.Context, req *GameRequest) (*models.Game, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	game := &models.Game{
		ID:           s.newID(),
		GalleryLinks: datatypes.JSONSlice[string]{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	req.apply(game)
	game.Teams = make([]models.Team, len(req.TeamNames))
	for i, name := range req.TeamNames {
		game.Teams[i] = models.Team{
			GameID:  game.ID,
			ID:      "team-" + strconv.Itoa(i+1),
			Name:    strings.TrimSpace(name),
			Players: []models.Player{},
		}
	}

	if err := s.store.SaveGame(ctx, game); err != nil {
		return nil, &PersistenceError{Op: "create game", Err: err}
	}

	logger.Infow("Game created", "game_id", game.ID, "teams", len(game.Teams))
	return game, nil
}

// UpdateGame edits the game details. Teams keep their id and players by
// position; extra names add teams and missing names drop the trailing teams.
// Existing matches keep their team name snapshots.
func (s *GameService) UpdateGame(ctx context.Context, id string, req *GameRequest) (*models.Game, error) {
	if err := req.validate(); err != nil {
		return nil, err
	}

	var updated *models.Game
	err := updateGame(ctx, s.store, "update game", id, func(game *models.Game) error {
		req.apply(game)
		game.UpdatedAt = s.now().UTC()

		teams := make([]models.Team, len(req.TeamNames))
		used := make(map[string]bool)
		for i := range req.TeamNames {
			if i < len(game.Teams) {
				used[game.Teams[i].ID] = true
			}
		}
		next := 1
		for i, name := range req.TeamNames {
			if i < len(game.Teams) {
				teams[i] = game.Teams[i]
			} else {
				for used["team-"+strconv.Itoa(next)] {
					next++
				}
				teamID := "team-" + strconv.Itoa(next)
				used[teamID] = true
				teams[i] = models.Team{GameID: game.ID, ID: teamID, Players: []models.Player{}}
			}
			teams[i].Name = strings.TrimSpace(name)
		}
		game.Teams = teams
		updated = game.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("Game updated", "game_id", id)
	return updated, nil
}

func (s *GameService) GetGame(ctx context.Context, id string) (*models.Game, error) {
	return loadGame(ctx, s.store, "load game", id)
}

// ListGames returns all games in creation order, optionally filtered by status.
func (s *GameService) ListGames(ctx context.Context, status models.GameStatus) ([]models.Game, error) {
	games, err := s.store.LoadAllGames(ctx)
	if err != nil {
		return nil, &PersistenceError{Op: "load games", Err: err}
	}
	if status == "" {
		return games, nil
	}

	filtered := []models.Game{}
	for _, g := range games {
		if g.Status == status {
			filtered = append(filtered, g)
		}
	}
	return filtered, nil
}

func validGalleryLink(link string) bool {
	u, err := url.ParseRequestURI(link)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s *GameService) AddGalleryLink(ctx context.Context, gameID, link string) (*models.Game, error) {
	link = strings.TrimSpace(link)
	if !validGalleryLink(link) {
		return nil, ErrInvalidGalleryLink
	}

	var updated *models.Game
	err := updateGame(ctx, s.store, "add gallery link", gameID, func(game *models.Game) error {
		game.GalleryLinks = append(game.GalleryLinks, link)
		updated = game.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *GameService) RemoveGalleryLink(ctx context.Context, gameID string, index int) (*models.Game, error) {
	var updated *models.Game
	err := updateGame(ctx, s.store, "remove gallery link", gameID, func(game *models.Game) error {
		if index < 0 || index >= len(game.GalleryLinks) {
			return notFound("gallery link")
		}
		links := make(datatypes.JSONSlice[string], 0, len(game.GalleryLinks)-1)
		links = append(links, game.GalleryLinks[:index]...)
		game.GalleryLinks = append(links, game.GalleryLinks[index+1:]...)
		updated = game.Clone()
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
