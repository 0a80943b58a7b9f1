package session

import (
	"adventure-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ExportSnapshot converts the pair's session into its serializable form.
// Entity ids become strings; variable values keep their primitive types.
func (st *Store) ExportSnapshot(userID, gameID uuid.UUID) models.SessionSnapshot {
	s := st.Get(userID, gameID)

	inventory := make([]string, 0, len(s.Inventory))
	for id := range s.Inventory {
		inventory = append(inventory, id.String())
	}

	variables := make(map[string]any, len(s.Variables))
	for k, v := range s.Variables {
		variables[k] = v
	}
	if _, ok := variables[models.VarPlayerScore]; !ok {
		variables[models.VarPlayerScore] = 0
	}

	locations := make(map[string]models.Location, len(s.EntityLocations))
	for id, loc := range s.EntityLocations {
		locations[id.String()] = loc
	}

	return models.SessionSnapshot{
		Inventory:       inventory,
		GameVariables:   variables,
		EntityLocations: locations,
	}
}

// ImportSnapshot replaces the pair's session with the snapshot contents.
// Loading is defined to exit any in-progress dialogue, so the active
// conversation is always cleared. Keys that fail to parse as UUIDs are
// logged and skipped rather than failing the whole load.
func (st *Store) ImportSnapshot(userID, gameID uuid.UUID, snapshot models.SessionSnapshot, logger *zap.Logger) {
	s := st.Get(userID, gameID)

	s.Inventory = make(map[uuid.UUID]struct{}, len(snapshot.Inventory))
	for _, idStr := range snapshot.Inventory {
		id, err := uuid.Parse(idStr)
		if err != nil {
			logger.Warn("Skipping unparsable inventory id in saved game",
				zap.String("value", idStr), zap.Error(err))
			continue
		}
		s.Inventory[id] = struct{}{}
	}

	s.Variables = make(map[string]any, len(snapshot.GameVariables)+1)
	for k, v := range snapshot.GameVariables {
		s.Variables[k] = v
	}
	if _, ok := s.Variables[models.VarPlayerScore]; !ok {
		s.Variables[models.VarPlayerScore] = 0
	}

	s.EntityLocations = make(map[uuid.UUID]models.Location, len(snapshot.EntityLocations))
	for idStr, loc := range snapshot.EntityLocations {
		id, err := uuid.Parse(idStr)
		if err != nil {
			logger.Warn("Skipping unparsable entity id in saved locations",
				zap.String("value", idStr), zap.Error(err))
			continue
		}
		s.EntityLocations[id] = loc
	}

	s.ActiveConversation = nil
}
