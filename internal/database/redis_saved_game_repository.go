package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"adventure-server/internal/interfaces"
	"adventure-server/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Compile-time check
var _ interfaces.SavedGameRepository = (*redisSavedGameRepository)(nil)

type redisSavedGameRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisSavedGameRepository creates a Redis-backed save slot store. Each
// (user, game) pair owns exactly one slot, stored as a JSON blob without a
// TTL.
func NewRedisSavedGameRepository(client *redis.Client, logger *zap.Logger) interfaces.SavedGameRepository {
	return &redisSavedGameRepository{
		client: client,
		logger: logger.Named("RedisSavedGameRepo"),
	}
}

func savedGameKey(userID, gameID uuid.UUID) string {
	return fmt.Sprintf("saved_game:%s:%s", userID, gameID)
}

func (r *redisSavedGameRepository) Save(ctx context.Context, saved *models.SavedGame) error {
	key := savedGameKey(saved.UserID, saved.GameID)
	log := r.logger.With(zap.String("key", key))

	payload, err := json.Marshal(saved)
	if err != nil {
		log.Error("Failed to marshal saved game", zap.Error(err))
		return fmt.Errorf("failed to marshal saved game: %w", err)
	}

	if err := r.client.Set(ctx, key, payload, 0).Err(); err != nil {
		log.Error("Failed to store saved game", zap.Error(err))
		return fmt.Errorf("failed to store saved game: %w", err)
	}
	log.Debug("Saved game stored")
	return nil
}

func (r *redisSavedGameRepository) Get(ctx context.Context, userID, gameID uuid.UUID) (*models.SavedGame, error) {
	key := savedGameKey(userID, gameID)
	log := r.logger.With(zap.String("key", key))

	payload, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			log.Debug("No saved game found")
			return nil, models.ErrNoSavedGame
		}
		log.Error("Failed to read saved game", zap.Error(err))
		return nil, fmt.Errorf("failed to read saved game: %w", err)
	}

	var saved models.SavedGame
	if err := json.Unmarshal(payload, &saved); err != nil {
		log.Error("Failed to unmarshal saved game", zap.Error(err))
		return nil, fmt.Errorf("failed to unmarshal saved game: %w", err)
	}
	return &saved, nil
}

func (r *redisSavedGameRepository) Delete(ctx context.Context, userID, gameID uuid.UUID) error {
	key := savedGameKey(userID, gameID)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		r.logger.Error("Failed to delete saved game", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete saved game: %w", err)
	}
	return nil
}
