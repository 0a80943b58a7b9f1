package interfaces

import (
	"context"

	"adventure-server/internal/models"

	"github.com/google/uuid"
)

// WorldReader exposes read-only queries over the static world of one game:
// rooms, connections, entities, scripts and conversations. The engine never
// mutates world data; editing is a different service's concern.
type WorldReader interface {
	// GetGame returns the game record, used for win/loss image lookup.
	// Returns models.ErrGameNotFound if the game does not exist.
	GetGame(ctx context.Context, gameID uuid.UUID) (*models.Game, error)

	// GetRoom returns a room by id. Returns models.ErrRoomNotFound on miss.
	GetRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error)

	// GetStartRoom returns the game's starting room: the one with the lowest
	// sort index. Returns models.ErrRoomNotFound if the game has no rooms.
	GetStartRoom(ctx context.Context, gameID uuid.UUID) (*models.Room, error)

	// GetConnectionsFrom returns all outgoing connections of a room.
	// An empty slice is a normal outcome, not an error.
	GetConnectionsFrom(ctx context.Context, roomID uuid.UUID) ([]models.Connection, error)

	// GetEntitiesByGame returns every entity belonging to the game.
	GetEntitiesByGame(ctx context.Context, gameID uuid.UUID) ([]models.Entity, error)

	// GetEntityByName finds an entity by case-insensitive name, optionally
	// filtered by type. Returns models.ErrEntityNotFound on miss.
	GetEntityByName(ctx context.Context, gameID uuid.UUID, name string, entityType *models.EntityType) (*models.Entity, error)

	// GetConversation returns a conversation by id.
	// Returns models.ErrConversationNotFound on miss.
	GetConversation(ctx context.Context, conversationID uuid.UUID) (*models.Conversation, error)

	// GetScriptsByGame returns the game's scripts in a stable order.
	GetScriptsByGame(ctx context.Context, gameID uuid.UUID) ([]models.Script, error)
}
