package models

import (
	"time"

	"github.com/google/uuid"
)

// Well-known session variable keys. Scripts write these through SET_STATE
// and ADD_SCORE; the interpreter reads them after every dispatch.
const (
	VarPlayerScore = "player_score"
	VarGameWon     = "game_won"
	VarGameLoss    = "game_loss"
	VarLossReason  = "loss_reason"
	VarLossImage   = "loss_image"

	// Per-direction unlock flags are keyed "unlocked_<direction>".
	UnlockedVarPrefix = "unlocked_"
)

// UnlockedVar returns the session variable name that marks a direction as
// unlocked for the rest of the session.
func UnlockedVar(direction string) string {
	return UnlockedVarPrefix + direction
}

// SessionSnapshot is the serializable form of one play session, produced by
// export-for-save and consumed by import-from-save. Entity ids are strings
// on the wire; value types in GameVariables are preserved as JSON
// primitives.
type SessionSnapshot struct {
	Inventory       []string            `json:"inventory"`
	GameVariables   map[string]any      `json:"game_variables"`
	EntityLocations map[string]Location `json:"entity_locations"`
}

// SavedGame is one persisted save slot for a (user, game) pair.
type SavedGame struct {
	UserID        uuid.UUID       `json:"user_id" db:"user_id"`
	GameID        uuid.UUID       `json:"game_id" db:"game_id"`
	CurrentRoomID uuid.UUID       `json:"current_room_id" db:"current_room_id"`
	Snapshot      SessionSnapshot `json:"snapshot" db:"snapshot"`
	SavedAt       time.Time       `json:"saved_at" db:"saved_at"`
}

// HighScore is the best score a user achieved on a game.
type HighScore struct {
	UserID     uuid.UUID `json:"user_id" db:"user_id"`
	GameID     uuid.UUID `json:"game_id" db:"game_id"`
	Score      int       `json:"score" db:"score"`
	AchievedAt time.Time `json:"achieved_at" db:"achieved_at"`
}
