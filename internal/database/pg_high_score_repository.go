package database

import (
	"context"
	"errors"
	"fmt"

	"adventure-server/internal/interfaces"
	"adventure-server/internal/models"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

const (
	// Keep-the-maximum upsert: a lower score never overwrites the record.
	upsertHighScoreQuery = `
        INSERT INTO high_scores (user_id, game_id, score, achieved_at)
        VALUES ($1, $2, $3, now())
        ON CONFLICT (user_id, game_id) DO UPDATE SET
            score = GREATEST(high_scores.score, EXCLUDED.score),
            achieved_at = CASE
                WHEN EXCLUDED.score > high_scores.score THEN EXCLUDED.achieved_at
                ELSE high_scores.achieved_at
            END
    `
	getHighScoreQuery = `
        SELECT user_id, game_id, score, achieved_at
        FROM high_scores
        WHERE user_id = $1 AND game_id = $2
    `
)

// Compile-time check
var _ interfaces.HighScoreRepository = (*pgHighScoreRepository)(nil)

type pgHighScoreRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgHighScoreRepository creates the PostgreSQL-backed high score store.
func NewPgHighScoreRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.HighScoreRepository {
	return &pgHighScoreRepository{
		db:     db,
		logger: logger.Named("PgHighScoreRepo"),
	}
}

func (r *pgHighScoreRepository) Upsert(ctx context.Context, userID, gameID uuid.UUID, score int) error {
	log := r.logger.With(
		zap.String("userID", userID.String()),
		zap.String("gameID", gameID.String()),
		zap.Int("score", score))

	_, err := r.db.Exec(ctx, upsertHighScoreQuery, userID, gameID, score)
	if err != nil {
		log.Error("Failed to upsert high score", zap.Error(err))
		return fmt.Errorf("failed to upsert high score: %w", err)
	}
	log.Debug("High score upserted")
	return nil
}

func (r *pgHighScoreRepository) Get(ctx context.Context, userID, gameID uuid.UUID) (*models.HighScore, error) {
	var hs models.HighScore
	err := pgxscan.Get(ctx, r.db, &hs, getHighScoreQuery, userID, gameID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get high score",
			zap.String("userID", userID.String()),
			zap.String("gameID", gameID.String()),
			zap.Error(err))
		return nil, fmt.Errorf("failed to get high score: %w", err)
	}
	return &hs, nil
}
