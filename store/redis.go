package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/harjunatn/fun-soccer/models"

	"github.com/redis/go-redis/v9"
)

const (
	gameKeyPrefix = "game:"
	// gameIndexKey is a sorted set of game ids scored by creation time.
	gameIndexKey = "games"
	maxTxRetries = 5
)

// RedisStore keeps each aggregate as one JSON document.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func gameKey(id string) string {
	return gameKeyPrefix + id
}

func (s *RedisStore) LoadGame(ctx context.Context, id string) (*models.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var game models.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, fmt.Errorf("decode game %s: %w", id, err)
	}
	return &game, nil
}

func (s *RedisStore) LoadAllGames(ctx context.Context) ([]models.Game, error) {
	ids, err := s.client.ZRange(ctx, gameIndexKey, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	games := make([]models.Game, 0, len(ids))
	if len(ids) == 0 {
		return games, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = gameKey(id)
	}
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			// indexed but the document is gone
			continue
		}
		var game models.Game
		if err := json.Unmarshal([]byte(raw), &game); err != nil {
			return nil, fmt.Errorf("decode game %s: %w", ids[i], err)
		}
		games = append(games, game)
	}
	return games, nil
}

func (s *RedisStore) SaveGame(ctx context.Context, game *models.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return fmt.Errorf("encode game %s: %w", game.ID, err)
	}

	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, gameKey(game.ID), data, 0)
		pipe.ZAddNX(ctx, gameIndexKey, redis.Z{
			Score:  float64(game.CreatedAt.UnixMicro()),
			Member: game.ID,
		})
		return nil
	})
	return err
}

func (s *RedisStore) UpdateGame(ctx context.Context, id string, fn func(game *models.Game) error) error {
	key := gameKey(id)

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return err
		}

		var game models.Game
		if err := json.Unmarshal(data, &game); err != nil {
			return fmt.Errorf("decode game %s: %w", id, err)
		}
		if err := fn(&game); err != nil {
			return err
		}

		out, err := json.Marshal(&game)
		if err != nil {
			return fmt.Errorf("encode game %s: %w", id, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, out, 0)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := s.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return err
	}
	return ErrConflict
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
