package engine

import (
	"adventure-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Lookup helpers combining world data with the session's location
// overrides. Effective locations differ from persisted ones once the player
// (or a script, or a wandering NPC) has moved things around.

// entitiesInRoom returns the entities whose effective location is the given
// room.
func (e *Engine) entitiesInRoom(rc *runContext, roomID uuid.UUID) []models.Entity {
	entities, err := e.world.GetEntitiesByGame(rc.ctx, rc.gameID)
	if err != nil {
		e.logger.Warn("Failed to load game entities", zap.Error(err))
		return nil
	}

	var inRoom []models.Entity
	for i := range entities {
		if rc.state.EffectiveLocation(&entities[i]).IsInRoom(roomID) {
			inRoom = append(inRoom, entities[i])
		}
	}
	return inRoom
}

// findTargetInRoom searches the room for an entity matching the name
// (case-insensitive), optionally restricted by type. When no entity matches
// and no type filter was given, the room's connections are searched by
// direction instead; either the entity or the connection is returned.
func (e *Engine) findTargetInRoom(rc *runContext, roomID uuid.UUID, name string, entityType *models.EntityType) (*models.Entity, *models.Connection) {
	for _, entity := range e.entitiesInRoom(rc, roomID) {
		if entityType != nil && entity.Type != *entityType {
			continue
		}
		if foldEq(entity.Name, name) {
			found := entity
			return &found, nil
		}
	}

	if entityType != nil {
		return nil, nil
	}

	connections, err := e.world.GetConnectionsFrom(rc.ctx, roomID)
	if err != nil {
		e.logger.Warn("Failed to load room connections", zap.Error(err))
		return nil, nil
	}
	wanted := resolveDirection(name)
	for i := range connections {
		if foldEq(connections[i].Direction, name) ||
			(wanted != "" && foldEq(connections[i].Direction, wanted)) {
			found := connections[i]
			return nil, &found
		}
	}
	return nil, nil
}

// findItemInInventory resolves a held item by exact case-insensitive name.
// Returns models.ErrAmbiguousItem when several held items share the name,
// models.ErrEntityNotFound when none matches.
func (e *Engine) findItemInInventory(rc *runContext, name string) (*models.Entity, error) {
	if len(rc.state.Inventory) == 0 {
		return nil, models.ErrEntityNotFound
	}

	entities, err := e.world.GetEntitiesByGame(rc.ctx, rc.gameID)
	if err != nil {
		e.logger.Warn("Failed to load game entities for inventory lookup", zap.Error(err))
		return nil, models.ErrEntityNotFound
	}

	var matches []models.Entity
	for i := range entities {
		if rc.state.Holds(entities[i].ID) && foldEq(entities[i].Name, name) {
			matches = append(matches, entities[i])
		}
	}
	switch len(matches) {
	case 0:
		return nil, models.ErrEntityNotFound
	case 1:
		found := matches[0]
		return &found, nil
	default:
		return nil, models.ErrAmbiguousItem
	}
}

// isPassable reports whether the connection can be walked through: not
// locked, or unlocked earlier in this session.
func (rc *runContext) isPassable(conn *models.Connection) bool {
	if !conn.IsLocked {
		return true
	}
	return rc.state.BoolVar(models.UnlockedVar(fold(conn.Direction)))
}

// passableExits returns the connections leading out of a room that are
// currently passable.
func (e *Engine) passableExits(rc *runContext, roomID uuid.UUID) []models.Connection {
	connections, err := e.world.GetConnectionsFrom(rc.ctx, roomID)
	if err != nil {
		e.logger.Warn("Failed to load connections for exits", zap.Error(err))
		return nil
	}
	var exits []models.Connection
	for i := range connections {
		if rc.isPassable(&connections[i]) {
			exits = append(exits, connections[i])
		}
	}
	return exits
}
