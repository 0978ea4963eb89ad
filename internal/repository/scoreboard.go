package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rocketscienceinc/xo-engine/internal/entity"
)

var ErrScoreboardNotFound = errors.New("scoreboard not found")

// scoreboardTTL bounds how long an abandoned session keeps its scores.
const scoreboardTTL = 24 * time.Hour

type ScoreboardRepository interface {
	CreateOrUpdate(ctx context.Context, scoreboard *entity.Scoreboard) error
	GetByID(ctx context.Context, sessionID string) (*entity.Scoreboard, error)
	DeleteByID(ctx context.Context, sessionID string) error
}

type dbScoreboard struct {
	client *redis.Client
}

func NewScoreboardRepository(client *redis.Client) ScoreboardRepository {
	return &dbScoreboard{
		client: client,
	}
}

func scoreboardKey(sessionID string) string {
	return "scoreboard:" + sessionID
}

func (that *dbScoreboard) CreateOrUpdate(ctx context.Context, scoreboard *entity.Scoreboard) error {
	scoreboardJSON, err := json.Marshal(scoreboard)
	if err != nil {
		return fmt.Errorf("could not marshal scoreboard: %w", err)
	}

	err = that.client.Set(ctx, scoreboardKey(scoreboard.SessionID), scoreboardJSON, scoreboardTTL).Err()
	if err != nil {
		return fmt.Errorf("failed to set scoreboard: %w", err)
	}

	return nil
}

func (that *dbScoreboard) GetByID(ctx context.Context, sessionID string) (*entity.Scoreboard, error) {
	response, err := that.client.Get(ctx, scoreboardKey(sessionID)).Result()

	if errors.Is(err, redis.Nil) {
		return nil, ErrScoreboardNotFound
	}

	if err != nil {
		return nil, fmt.Errorf("failed to get scoreboard by id: %w", err)
	}

	var scoreboard entity.Scoreboard
	if err = json.Unmarshal([]byte(response), &scoreboard); err != nil {
		return nil, fmt.Errorf("failed to unmarshal scoreboard: %w", err)
	}

	return &scoreboard, nil
}

func (that *dbScoreboard) DeleteByID(ctx context.Context, sessionID string) error {
	deleted, err := that.client.Del(ctx, scoreboardKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete scoreboard by id: %w", err)
	}

	if deleted == 0 {
		return ErrScoreboardNotFound
	}

	return nil
}
