// Package database contains the PostgreSQL and Redis adapters behind the
// engine's collaborator interfaces.
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
	getGameQuery = `
        SELECT id, name, description, start_image_path, win_image_path, loss_image_path, version
        FROM games
        WHERE id = $1
    `
	getRoomQuery = `
        SELECT id, game_id, title, description, sort_index, image_path
        FROM rooms
        WHERE id = $1
    `
	getStartRoomQuery = `
        SELECT id, game_id, title, description, sort_index, image_path
        FROM rooms
        WHERE game_id = $1
        ORDER BY sort_index, id
        LIMIT 1
    `
	getConnectionsFromQuery = `
        SELECT id, from_room_id, to_room_id, direction, is_locked, required_key_id
        FROM connections
        WHERE from_room_id = $1
        ORDER BY direction
    `
	getEntitiesByGameQuery = `
        SELECT id, game_id, room_id, container_id, type, name, description,
               is_takable, is_container, is_mobile, conversation_id, image_path, pickup_message
        FROM entities
        WHERE game_id = $1
        ORDER BY name
    `
	getEntityByNameQuery = `
        SELECT id, game_id, room_id, container_id, type, name, description,
               is_takable, is_container, is_mobile, conversation_id, image_path, pickup_message
        FROM entities
        WHERE game_id = $1 AND lower(name) = lower($2)
    `
	getConversationQuery = `
        SELECT id, game_id, name, structure
        FROM conversations
        WHERE id = $1
    `
	// Scripts run in insertion order; ties between scripts on the same
	// trigger are broken by id so replays stay deterministic.
	getScriptsByGameQuery = `
        SELECT id, game_id, trigger, condition, action
        FROM scripts
        WHERE game_id = $1
        ORDER BY id
    `
)

// Compile-time check
var _ interfaces.WorldReader = (*pgWorldRepository)(nil)

type pgWorldRepository struct {
	db     interfaces.DBTX
	logger *zap.Logger
}

// NewPgWorldRepository creates the PostgreSQL-backed world reader.
func NewPgWorldRepository(db interfaces.DBTX, logger *zap.Logger) interfaces.WorldReader {
	return &pgWorldRepository{
		db:     db,
		logger: logger.Named("PgWorldRepo"),
	}
}

func (r *pgWorldRepository) GetGame(ctx context.Context, gameID uuid.UUID) (*models.Game, error) {
	log := r.logger.With(zap.String("gameID", gameID.String()))

	var game models.Game
	err := pgxscan.Get(ctx, r.db, &game, getGameQuery, gameID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Warn("Game not found")
			return nil, models.ErrGameNotFound
		}
		log.Error("Failed to get game", zap.Error(err))
		return nil, fmt.Errorf("failed to get game %s: %w", gameID, err)
	}
	return &game, nil
}

func (r *pgWorldRepository) GetRoom(ctx context.Context, roomID uuid.UUID) (*models.Room, error) {
	log := r.logger.With(zap.String("roomID", roomID.String()))

	var room models.Room
	err := pgxscan.Get(ctx, r.db, &room, getRoomQuery, roomID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Warn("Room not found")
			return nil, models.ErrRoomNotFound
		}
		log.Error("Failed to get room", zap.Error(err))
		return nil, fmt.Errorf("failed to get room %s: %w", roomID, err)
	}
	return &room, nil
}

func (r *pgWorldRepository) GetStartRoom(ctx context.Context, gameID uuid.UUID) (*models.Room, error) {
	log := r.logger.With(zap.String("gameID", gameID.String()))

	var room models.Room
	err := pgxscan.Get(ctx, r.db, &room, getStartRoomQuery, gameID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Warn("Game has no rooms")
			return nil, models.ErrRoomNotFound
		}
		log.Error("Failed to get start room", zap.Error(err))
		return nil, fmt.Errorf("failed to get start room for game %s: %w", gameID, err)
	}
	return &room, nil
}

func (r *pgWorldRepository) GetConnectionsFrom(ctx context.Context, roomID uuid.UUID) ([]models.Connection, error) {
	var connections []models.Connection
	err := pgxscan.Select(ctx, r.db, &connections, getConnectionsFromQuery, roomID)
	if err != nil {
		r.logger.Error("Failed to get connections",
			zap.String("roomID", roomID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get connections from room %s: %w", roomID, err)
	}
	return connections, nil
}

func (r *pgWorldRepository) GetEntitiesByGame(ctx context.Context, gameID uuid.UUID) ([]models.Entity, error) {
	var entities []models.Entity
	err := pgxscan.Select(ctx, r.db, &entities, getEntitiesByGameQuery, gameID)
	if err != nil {
		r.logger.Error("Failed to get entities",
			zap.String("gameID", gameID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get entities for game %s: %w", gameID, err)
	}
	return entities, nil
}

func (r *pgWorldRepository) GetEntityByName(ctx context.Context, gameID uuid.UUID, name string, entityType *models.EntityType) (*models.Entity, error) {
	log := r.logger.With(zap.String("gameID", gameID.String()), zap.String("name", name))

	query := getEntityByNameQuery
	args := []any{gameID, name}
	if entityType != nil {
		query += ` AND type = $3`
		args = append(args, *entityType)
	}
	query += ` LIMIT 1`

	var entity models.Entity
	err := pgxscan.Get(ctx, r.db, &entity, query, args...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Debug("Entity not found by name")
			return nil, models.ErrEntityNotFound
		}
		log.Error("Failed to get entity by name", zap.Error(err))
		return nil, fmt.Errorf("failed to get entity %q for game %s: %w", name, gameID, err)
	}
	return &entity, nil
}

func (r *pgWorldRepository) GetConversation(ctx context.Context, conversationID uuid.UUID) (*models.Conversation, error) {
	log := r.logger.With(zap.String("conversationID", conversationID.String()))

	var conv models.Conversation
	var rawStructure []byte
	err := r.db.QueryRow(ctx, getConversationQuery, conversationID).
		Scan(&conv.ID, &conv.GameID, &conv.Name, &rawStructure)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			log.Warn("Conversation not found")
			return nil, models.ErrConversationNotFound
		}
		log.Error("Failed to get conversation", zap.Error(err))
		return nil, fmt.Errorf("failed to get conversation %s: %w", conversationID, err)
	}

	conv.Structure, err = models.ParseConversationStructure(rawStructure)
	if err != nil {
		log.Error("Conversation structure is invalid", zap.Error(err))
		return nil, fmt.Errorf("conversation %s: %w", conversationID, err)
	}
	return &conv, nil
}

func (r *pgWorldRepository) GetScriptsByGame(ctx context.Context, gameID uuid.UUID) ([]models.Script, error) {
	var scripts []models.Script
	err := pgxscan.Select(ctx, r.db, &scripts, getScriptsByGameQuery, gameID)
	if err != nil {
		r.logger.Error("Failed to get scripts",
			zap.String("gameID", gameID.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to get scripts for game %s: %w", gameID, err)
	}
	return scripts, nil
}
