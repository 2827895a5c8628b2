package services

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/harjunatn/fun-soccer/logger"
	"github.com/harjunatn/fun-soccer/models"
	"github.com/harjunatn/fun-soccer/store"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type MatchService struct {
	store        store.Store
	strictScores bool
	intn         func(n int) int
	newID        func() string
}

// NewMatchService builds the service. With strictScores the goals of each
// side's scorers must add up to that side's score.
func NewMatchService(st store.Store, strictScores bool) *MatchService {
	return &MatchService{
		store:        st,
		strictScores: strictScores,
		intn:         rand.Intn,
		newID:        uuid.NewString,
	}
}

type GenerateOptions struct {
	// Force regenerates even when results were already recorded.
	Force bool
}

// GenerateMatches replaces the game's match list with every pairing of its
// teams in random order.
func (s *MatchService) GenerateMatches(ctx context.Context, gameID string, opts GenerateOptions) ([]models.Match, error) {
	var generated []models.Match
	err := updateGame(ctx, s.store, "generate matches", gameID, func(game *models.Game) error {
		if len(game.Teams) < 2 {
			return ErrInsufficientTeams
		}
		if !opts.Force && game.HasResults() {
			return ErrResultsRecorded
		}

		generated = RoundRobin(game.ID, game.Teams, s.newID)
		shuffleMatches(generated, s.intn)
		game.Matches = append([]models.Match(nil), generated...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infof("Generated %d matches for game %s", len(generated), gameID)
	return generated, nil
}

// RoundRobin pairs every team with every later team in stored order,
// producing n*(n-1)/2 matches.
func RoundRobin(gameID string, teams []models.Team, newID func() string) []models.Match {
	n := len(teams)
	if n < 2 {
		return nil
	}

	matches := make([]models.Match, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			matches = append(matches, models.Match{
				ID:        newID(),
				GameID:    gameID,
				TeamAID:   teams[i].ID,
				TeamAName: teams[i].Name,
				TeamBID:   teams[j].ID,
				TeamBName: teams[j].Name,
			})
		}
	}
	return matches
}

// shuffleMatches is a Fisher-Yates shuffle; intn(n) must return a value in [0, n).
func shuffleMatches(matches []models.Match, intn func(n int) int) {
	for i := len(matches) - 1; i > 0; i-- {
		j := intn(i + 1)
		matches[i], matches[j] = matches[j], matches[i]
	}
}

type MatchResultRequest struct {
	ScoreA   *int            `json:"score_a" binding:"required"`
	ScoreB   *int            `json:"score_b" binding:"required"`
	ScorersA []models.Scorer `json:"scorers_a"`
	ScorersB []models.Scorer `json:"scorers_b"`
}

func (s *MatchService) validateSide(side string, score int, scorers []models.Scorer) error {
	if score < 0 {
		return fmt.Errorf("%w: score %s is negative", ErrInvalidScore, side)
	}
	total := 0
	for _, sc := range scorers {
		if sc.PlayerID == "" {
			return fmt.Errorf("%w: scorer on side %s has no player", ErrInvalidScore, side)
		}
		if sc.Goals < 1 {
			return fmt.Errorf("%w: scorer %s must have at least one goal", ErrInvalidScore, sc.PlayerID)
		}
		total += sc.Goals
	}
	if s.strictScores && total != score {
		return fmt.Errorf("%w: side %s scored %d but scorers have %d", ErrScoreMismatch, side, score, total)
	}
	return nil
}

// UpdateMatchResult overwrites the score and scorers of one match. Empty
// scorer names are filled from the player record as it is now.
func (s *MatchService) UpdateMatchResult(ctx context.Context, gameID, matchID string, scoreA, scoreB int, scorersA, scorersB []models.Scorer) (*models.Match, error) {
	if err := s.validateSide("A", scoreA, scorersA); err != nil {
		return nil, err
	}
	if err := s.validateSide("B", scoreB, scorersB); err != nil {
		return nil, err
	}

	var updated models.Match
	err := updateGame(ctx, s.store, "update match result", gameID, func(game *models.Game) error {
		match := game.FindMatch(matchID)
		if match == nil {
			return notFound("match")
		}

		a, b := scoreA, scoreB
		match.ScoreA = &a
		match.ScoreB = &b
		match.ScorersA = snapshotScorers(game, scorersA)
		match.ScorersB = snapshotScorers(game, scorersB)
		updated = *match
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Infow("Match result recorded", "game_id", gameID, "match_id", matchID, "score_a", scoreA, "score_b", scoreB)
	return &updated, nil
}

func snapshotScorers(game *models.Game, scorers []models.Scorer) datatypes.JSONSlice[models.Scorer] {
	out := make(datatypes.JSONSlice[models.Scorer], len(scorers))
	for i, sc := range scorers {
		if sc.PlayerName == "" {
			if p := game.FindPlayer(sc.PlayerID); p != nil {
				sc.PlayerName = p.Name
			}
		}
		out[i] = sc
	}
	return out
}

func (s *MatchService) GetMatch(ctx context.Context, gameID, matchID string) (*models.Match, error) {
	game, err := loadGame(ctx, s.store, "load game", gameID)
	if err != nil {
		return nil, err
	}
	match := game.FindMatch(matchID)
	if match == nil {
		return nil, notFound("match")
	}
	return match, nil
}

type Standing struct {
	TeamID         string `json:"team_id"`
	TeamName       string `json:"team_name"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
	Points         int    `json:"points"`
}

// Standings tallies matches with a recorded result: three points for a win,
// one for a draw. Ties keep the stored team order.
func (s *MatchService) Standings(ctx context.Context, gameID string) ([]Standing, error) {
	game, err := loadGame(ctx, s.store, "load game", gameID)
	if err != nil {
		return nil, err
	}
	return computeStandings(game), nil
}

func computeStandings(game *models.Game) []Standing {
	table := make([]Standing, len(game.Teams))
	index := make(map[string]int, len(game.Teams))
	for i, t := range game.Teams {
		table[i] = Standing{TeamID: t.ID, TeamName: t.Name}
		index[t.ID] = i
	}

	for _, m := range game.Matches {
		if !m.HasResult() {
			continue
		}
		ia, okA := index[m.TeamAID]
		ib, okB := index[m.TeamBID]
		if !okA || !okB {
			continue
		}
		home, away := &table[ia], &table[ib]
		goalsA, goalsB := *m.ScoreA, *m.ScoreB

		home.Played++
		away.Played++
		home.GoalsFor += goalsA
		home.GoalsAgainst += goalsB
		away.GoalsFor += goalsB
		away.GoalsAgainst += goalsA

		switch {
		case goalsA > goalsB:
			home.Won++
			away.Lost++
			home.Points += 3
		case goalsB > goalsA:
			away.Won++
			home.Lost++
			away.Points += 3
		default:
			home.Drawn++
			away.Drawn++
			home.Points++
			away.Points++
		}
	}

	for i := range table {
		table[i].GoalDifference = table[i].GoalsFor - table[i].GoalsAgainst
	}
	sort.SliceStable(table, func(i, j int) bool {
		if table[i].Points != table[j].Points {
			return table[i].Points > table[j].Points
		}
		if table[i].GoalDifference != table[j].GoalDifference {
			return table[i].GoalDifference > table[j].GoalDifference
		}
		return table[i].GoalsFor > table[j].GoalsFor
	})
	return table
}
