package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/harjunatn/fun-soccer/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const pgUniqueViolation = "23505"

// SQLStore maps the aggregate onto games, teams, players and matches tables.
type SQLStore struct {
	db *gorm.DB
}

func NewSQLStore(db *gorm.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) AutoMigrate() error {
	return s.db.AutoMigrate(
		&models.Game{},
		&models.Team{},
		&models.Player{},
		&models.Match{},
	)
}

func (s *SQLStore) LoadGame(ctx context.Context, id string) (*models.Game, error) {
	return loadGame(s.db.WithContext(ctx), id, false)
}

func (s *SQLStore) LoadAllGames(ctx context.Context) ([]models.Game, error) {
	db := s.db.WithContext(ctx)

	var games []models.Game
	if err := db.Order("created_at").Order("id").Find(&games).Error; err != nil {
		return nil, err
	}
	if err := loadChildren(db, games); err != nil {
		return nil, err
	}
	return games, nil
}

func (s *SQLStore) SaveGame(ctx context.Context, game *models.Game) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return writeGame(tx, game)
	})
	return translateError(err)
}

func (s *SQLStore) UpdateGame(ctx context.Context, id string, fn func(game *models.Game) error) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		game, err := loadGame(tx, id, true)
		if err != nil {
			return err
		}
		if err := fn(game); err != nil {
			return err
		}
		return writeGame(tx, game)
	})
	return translateError(err)
}

func (s *SQLStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func loadGame(tx *gorm.DB, id string, lock bool) (*models.Game, error) {
	q := tx
	if lock && tx.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var game models.Game
	if err := q.Where("id = ?", id).First(&game).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	games := []models.Game{game}
	if err := loadChildren(tx, games); err != nil {
		return nil, err
	}
	return &games[0], nil
}

func loadChildren(tx *gorm.DB, games []models.Game) error {
	if len(games) == 0 {
		return nil
	}

	ids := make([]string, len(games))
	index := make(map[string]int, len(games))
	for i := range games {
		ids[i] = games[i].ID
		index[games[i].ID] = i
		games[i].Teams = []models.Team{}
	}

	var teams []models.Team
	if err := tx.Where("game_id IN ?", ids).Order("position").Find(&teams).Error; err != nil {
		return err
	}
	var players []models.Player
	if err := tx.Where("game_id IN ?", ids).Order("position").Find(&players).Error; err != nil {
		return err
	}
	var matches []models.Match
	if err := tx.Where("game_id IN ?", ids).Order("position").Find(&matches).Error; err != nil {
		return err
	}

	type teamKey struct{ gameID, teamID string }
	byTeam := make(map[teamKey][]models.Player)
	for _, p := range players {
		k := teamKey{p.GameID, p.TeamID}
		byTeam[k] = append(byTeam[k], p)
	}

	for _, t := range teams {
		t.Players = byTeam[teamKey{t.GameID, t.ID}]
		if t.Players == nil {
			t.Players = []models.Player{}
		}
		g := &games[index[t.GameID]]
		g.Teams = append(g.Teams, t)
	}
	for _, m := range matches {
		g := &games[index[m.GameID]]
		g.Matches = append(g.Matches, m)
	}
	return nil
}

// writeGame upserts the game row and replaces every child row.
func writeGame(tx *gorm.DB, game *models.Game) error {
	if err := tx.Save(game).Error; err != nil {
		return err
	}

	for _, model := range []interface{}{&models.Player{}, &models.Team{}, &models.Match{}} {
		if err := tx.Where("game_id = ?", game.ID).Delete(model).Error; err != nil {
			return err
		}
	}

	var teams []models.Team
	var players []models.Player
	for i, t := range game.Teams {
		row := t
		row.GameID = game.ID
		row.Position = i
		row.Players = nil
		teams = append(teams, row)

		for j, p := range t.Players {
			p.GameID = game.ID
			p.TeamID = t.ID
			p.Position = j
			players = append(players, p)
		}
	}

	matches := make([]models.Match, 0, len(game.Matches))
	for i, m := range game.Matches {
		m.GameID = game.ID
		m.Position = i
		matches = append(matches, m)
	}

	if len(teams) > 0 {
		if err := tx.Create(&teams).Error; err != nil {
			return err
		}
	}
	if len(players) > 0 {
		if err := tx.Create(&players).Error; err != nil {
			return err
		}
	}
	if len(matches) > 0 {
		if err := tx.Create(&matches).Error; err != nil {
			return err
		}
	}
	return nil
}

func translateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
	}
	return err
}
