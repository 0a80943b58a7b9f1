package models

import (
	"github.com/google/uuid"
)

// Game is the static design-time record for one adventure. The engine only
// reads it for the win/loss image lookup; editing lives elsewhere.
type Game struct {
	ID             uuid.UUID `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Description    string    `json:"description" db:"description"`
	StartImagePath *string   `json:"start_image_path,omitempty" db:"start_image_path"`
	WinImagePath   *string   `json:"win_image_path,omitempty" db:"win_image_path"`
	LossImagePath  *string   `json:"loss_image_path,omitempty" db:"loss_image_path"`
	Version        string    `json:"version" db:"version"`
}

// Room is a location in the world graph.
type Room struct {
	ID          uuid.UUID `json:"id" db:"id"`
	GameID      uuid.UUID `json:"game_id" db:"game_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	SortIndex   int       `json:"sort_index" db:"sort_index"`
	ImagePath   *string   `json:"image_path,omitempty" db:"image_path"`
}

// Connection is a directed edge between two rooms. At most one connection
// exists per (FromRoomID, Direction); the schema enforces this.
type Connection struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	FromRoomID    uuid.UUID  `json:"from_room_id" db:"from_room_id"`
	ToRoomID      uuid.UUID  `json:"to_room_id" db:"to_room_id"`
	Direction     string     `json:"direction" db:"direction"`
	IsLocked      bool       `json:"is_locked" db:"is_locked"`
	RequiredKeyID *uuid.UUID `json:"required_key_id,omitempty" db:"required_key_id"`
}

// EntityType distinguishes items from characters.
type EntityType string

const (
	EntityTypeItem EntityType = "ITEM"
	EntityTypeNPC  EntityType = "NPC"
)

// Entity is an item or NPC. Its persisted location is either a room or a
// container, never both; with neither set the entity starts unplaced.
// Session state can override the persisted location at play time.
type Entity struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	GameID         uuid.UUID  `json:"game_id" db:"game_id"`
	RoomID         *uuid.UUID `json:"room_id,omitempty" db:"room_id"`
	ContainerID    *uuid.UUID `json:"container_id,omitempty" db:"container_id"`
	Type           EntityType `json:"type" db:"type"`
	Name           string     `json:"name" db:"name"`
	Description    string     `json:"description" db:"description"`
	IsTakable      bool       `json:"is_takable" db:"is_takable"`
	IsContainer    bool       `json:"is_container" db:"is_container"`
	IsMobile       bool       `json:"is_mobile" db:"is_mobile"`
	ConversationID *uuid.UUID `json:"conversation_id,omitempty" db:"conversation_id"`
	ImagePath      *string    `json:"image_path,omitempty" db:"image_path"`
	PickupMessage  *string    `json:"pickup_message,omitempty" db:"pickup_message"`
}

// PersistedLocation derives the design-time location of the entity, before
// any session override is applied.
func (e *Entity) PersistedLocation() Location {
	switch {
	case e.RoomID != nil:
		return InRoom(*e.RoomID)
	case e.ContainerID != nil:
		return InContainer(*e.ContainerID)
	default:
		return Unplaced()
	}
}

// Script attaches an action (guarded by an optional condition) to a named
// trigger such as ON_ENTER, ON_LOOK, ON_TAKE(name) or ON_COMMAND(text).
// Trigger matching is case-insensitive exact-string.
type Script struct {
	ID        uuid.UUID `json:"id" db:"id"`
	GameID    uuid.UUID `json:"game_id" db:"game_id"`
	Trigger   string    `json:"trigger" db:"trigger"`
	Condition *string   `json:"condition,omitempty" db:"condition"`
	Action    string    `json:"action" db:"action"`
}
