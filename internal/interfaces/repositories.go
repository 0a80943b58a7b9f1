package interfaces

import (
	"context"

	"adventure-server/internal/models"

	"github.com/google/uuid"
)

// HighScoreRepository persists the best score per (user, game).
type HighScoreRepository interface {
	// Upsert records score for the pair if it exceeds the stored maximum,
	// or inserts it when no record exists yet. The write commits atomically
	// per call.
	Upsert(ctx context.Context, userID, gameID uuid.UUID, score int) error

	// Get returns the stored high score.
	// Returns models.ErrNotFound if no record exists.
	Get(ctx context.Context, userID, gameID uuid.UUID) (*models.HighScore, error)
}

// SavedGameRepository persists one opaque save slot per (user, game).
type SavedGameRepository interface {
	// Save stores or replaces the save slot.
	Save(ctx context.Context, saved *models.SavedGame) error

	// Get returns the save slot.
	// Returns models.ErrNoSavedGame if the pair has no saved game.
	Get(ctx context.Context, userID, gameID uuid.UUID) (*models.SavedGame, error)

	// Delete removes the save slot. Deleting a missing slot is not an error.
	Delete(ctx context.Context, userID, gameID uuid.UUID) error
}
