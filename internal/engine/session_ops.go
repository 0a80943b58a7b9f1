package engine

import (
	"context"
	"fmt"
	"strings"
	"time"

	"adventure-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Session lifecycle operations: save, load and reset. These sit next to
// ProcessCommand as boundary methods; the console host maps the opslaan,
// laden and reset commands onto them.

// SaveSession snapshots the pair's session together with the player's
// current room into the save slot.
func (e *Engine) SaveSession(ctx context.Context, userID, gameID, currentRoomID uuid.UUID) (*models.CommandResult, error) {
	room, err := e.world.GetRoom(ctx, currentRoomID)
	if err != nil || room.GameID != gameID {
		e.logger.Warn("Refusing to save with an invalid current room",
			zap.String("roomID", currentRoomID.String()), zap.Error(err))
		return nil, fmt.Errorf("save: room %s: %w", currentRoomID, models.ErrRoomNotFound)
	}

	saved := &models.SavedGame{
		UserID:        userID,
		GameID:        gameID,
		CurrentRoomID: currentRoomID,
		Snapshot:      e.sessions.ExportSnapshot(userID, gameID),
		SavedAt:       time.Now().UTC(),
	}
	if err := e.saves.Save(ctx, saved); err != nil {
		e.logger.Error("Failed to persist saved game", zap.Error(err))
		return nil, fmt.Errorf("save: %w", err)
	}

	state := e.sessions.Get(userID, gameID)
	return &models.CommandResult{
		Message:       "Spel opgeslagen!",
		RoomImagePath: room.ImagePath,
		CurrentScore:  state.Score(),
		NextRoomID:    currentRoomID,
	}, nil
}

// LoadSession restores the pair's session from the save slot and re-enters
// the saved room. Returns models.ErrNoSavedGame when no slot exists. Points
// granted by the room's entry scripts during the reload are not reported as
// awarded for this turn.
func (e *Engine) LoadSession(ctx context.Context, userID, gameID uuid.UUID) (*models.CommandResult, error) {
	saved, err := e.saves.Get(ctx, userID, gameID)
	if err != nil {
		return nil, err
	}

	e.sessions.ImportSnapshot(userID, gameID, saved.Snapshot, e.logger)

	room, err := e.world.GetRoom(ctx, saved.CurrentRoomID)
	if err != nil {
		e.logger.Error("Saved game points at a missing room",
			zap.String("roomID", saved.CurrentRoomID.String()), zap.Error(err))
		return nil, fmt.Errorf("load: room %s: %w", saved.CurrentRoomID, models.ErrRoomNotFound)
	}

	rc := e.newRunContext(ctx, userID, gameID, &room.ID)

	var b strings.Builder
	b.WriteString("Spel geladen!\n\n")
	b.WriteString(e.describeRoom(rc, room))
	if scriptResult := e.runScripts(rc, "ON_ENTER"); scriptResult.Messages != "" {
		b.WriteString("\n")
		b.WriteString(scriptResult.Messages)
	}

	return &models.CommandResult{
		Message:       strings.TrimSpace(b.String()),
		RoomImagePath: room.ImagePath,
		CurrentScore:  rc.state.Score(),
		NextRoomID:    room.ID,
	}, nil
}

// ResetSession wipes the pair's session, discards its save slot and places
// the player back in the game's start room.
func (e *Engine) ResetSession(ctx context.Context, userID, gameID uuid.UUID) (*models.CommandResult, error) {
	e.sessions.Reset(userID, gameID)
	if err := e.saves.Delete(ctx, userID, gameID); err != nil {
		e.logger.Warn("Failed to clear save slot on reset", zap.Error(err))
	}

	room, err := e.world.GetStartRoom(ctx, gameID)
	if err != nil {
		e.logger.Warn("Game has no start room", zap.String("gameID", gameID.String()), zap.Error(err))
		return &models.CommandResult{
			Message: "Sessie gereset.\n\nKon startlocatie niet vinden.",
		}, nil
	}

	rc := e.newRunContext(ctx, userID, gameID, &room.ID)

	var b strings.Builder
	b.WriteString("Sessie gereset.\n\n")
	b.WriteString(e.describeRoom(rc, room))
	if scriptResult := e.runScripts(rc, "ON_ENTER"); scriptResult.Messages != "" {
		b.WriteString("\n")
		b.WriteString(scriptResult.Messages)
	}

	return &models.CommandResult{
		Message:       strings.TrimSpace(b.String()),
		RoomImagePath: room.ImagePath,
		CurrentScore:  rc.state.Score(),
		NextRoomID:    room.ID,
	}, nil
}
