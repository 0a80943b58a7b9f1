package models

import "github.com/google/uuid"

// CommandResult is the full outcome of one player turn: the narrative
// message plus everything the client needs to render the new state. The
// JSON keys match the play API of the original builder, so existing clients
// keep working.
type CommandResult struct {
	Message         string    `json:"message"`
	InConversation  bool      `json:"in_conversation"`
	NodeType        *string   `json:"node_type,omitempty"`
	RoomImagePath   *string   `json:"image_path,omitempty"`
	EntityImagePath *string   `json:"entity_image_path,omitempty"`
	CurrentScore    int       `json:"current_score"`
	PointsAwarded   int       `json:"points_awarded"`
	NextRoomID      uuid.UUID `json:"current_room_id"`
	GameWon         bool      `json:"game_won"`
	WinImagePath    *string   `json:"win_image_path,omitempty"`
	GameLoss        bool      `json:"game_loss"`
	LossReason      *string   `json:"loss_reason,omitempty"`
	LossImagePath   *string   `json:"loss_image_path,omitempty"`
}
