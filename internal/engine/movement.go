package engine

import (
	"fmt"
	"strings"

	"adventure-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Chance per turn that a mobile NPC relocates.
const npcMoveChance = 0.25

// handlePlayerMovement attempts to walk the player in the given direction
// from the current room. On success the destination is described and its
// ON_ENTER scripts run against the new room.
func (e *Engine) handlePlayerMovement(rc *runContext, currentRoom *models.Room, direction string) verbResult {
	res := verbResult{
		nextRoomID:    currentRoom.ID,
		roomImagePath: currentRoom.ImagePath,
	}

	directionFull := resolveDirection(direction)
	if directionFull == "" {
		res.message = "Dat is geen geldige richting."
		return res
	}

	connections, err := e.world.GetConnectionsFrom(rc.ctx, currentRoom.ID)
	if err != nil {
		e.logger.Warn("Failed to load connections for movement", zap.Error(err))
		res.message = "Je kunt niet die kant op."
		return res
	}
	var connection *models.Connection
	for i := range connections {
		if foldEq(connections[i].Direction, directionFull) {
			connection = &connections[i]
			break
		}
	}
	if connection == nil {
		res.message = "Je kunt niet die kant op."
		return res
	}

	if !rc.isPassable(connection) {
		res.message = fmt.Sprintf("De weg naar %s is op slot.", capitalize(directionFull))
		return res
	}

	destination, err := e.world.GetRoom(rc.ctx, connection.ToRoomID)
	if err != nil {
		e.logger.Error("Connection points at a missing room",
			zap.String("connectionID", connection.ID.String()),
			zap.String("toRoomID", connection.ToRoomID.String()),
			zap.Error(err))
		res.message = "Je kunt niet die kant op."
		return res
	}

	// Conditions of ON_ENTER scripts evaluate against the destination.
	destRC := *rc
	destRC.roomID = &destination.ID

	var b strings.Builder
	fmt.Fprintf(&b, "Je gaat %s.\n\n", capitalize(connection.Direction))
	b.WriteString(e.describeRoom(&destRC, destination))

	scriptResult := e.runScripts(&destRC, "ON_ENTER")
	if scriptResult.Messages != "" {
		b.WriteString("\n")
		b.WriteString(scriptResult.Messages)
	}

	res.nextRoomID = destination.ID
	res.roomImagePath = destination.ImagePath
	res.message = b.String()
	res.points = scriptResult.PointsAwarded
	mergeScriptOutcome(&res, scriptResult)
	return res
}

// npcMove records one NPC relocation during a turn.
type npcMove struct {
	npcID      uuid.UUID
	npcName    string
	fromRoomID uuid.UUID
	toRoomID   uuid.UUID
	direction  string
}

// moveNPCs gives every mobile NPC that currently stands in a room a chance
// to wander through one of the passable exits. Location overrides are
// updated; the returned moves feed the arrival/departure notices.
func (e *Engine) moveNPCs(rc *runContext) []npcMove {
	entities, err := e.world.GetEntitiesByGame(rc.ctx, rc.gameID)
	if err != nil {
		e.logger.Warn("Failed to load entities for NPC movement", zap.Error(err))
		return nil
	}

	var moves []npcMove
	for i := range entities {
		npc := &entities[i]
		if npc.Type != models.EntityTypeNPC || !npc.IsMobile {
			continue
		}
		loc := rc.state.EffectiveLocation(npc)
		if loc.Kind != models.LocationInRoom {
			continue
		}
		if e.rng.Float64() > npcMoveChance {
			continue
		}

		exits := e.passableExits(rc, loc.RoomID)
		if len(exits) == 0 {
			continue
		}
		chosen := exits[e.rng.Intn(len(exits))]

		rc.state.EntityLocations[npc.ID] = models.InRoom(chosen.ToRoomID)
		moves = append(moves, npcMove{
			npcID:      npc.ID,
			npcName:    npc.Name,
			fromRoomID: loc.RoomID,
			toRoomID:   chosen.ToRoomID,
			direction:  chosen.Direction,
		})
		e.logger.Debug("NPC moved",
			zap.String("npc", npc.Name),
			zap.String("from", loc.RoomID.String()),
			zap.String("to", chosen.ToRoomID.String()),
			zap.String("direction", chosen.Direction))
	}
	return moves
}

// npcNotices renders the arrival notices for NPCs entering the player's
// final room and the departure notices for NPCs leaving the starting room,
// to be prefixed before the turn's main message.
func npcNotices(moves []npcMove, startRoomID, finalRoomID uuid.UUID) string {
	var arrivals, departures []string
	for _, move := range moves {
		switch {
		case move.toRoomID == finalRoomID:
			arrivals = append(arrivals,
				fmt.Sprintf("%s komt binnenwandelen vanuit %s.", move.npcName, arrivalDirection(move.direction)))
		case move.fromRoomID == startRoomID:
			departures = append(departures,
				fmt.Sprintf("%s gaat richting %s.", move.npcName, capitalize(move.direction)))
		}
	}

	var prefix string
	if len(departures) > 0 {
		prefix = strings.Join(departures, "\n") + "\n\n" + prefix
	}
	if len(arrivals) > 0 {
		prefix = strings.Join(arrivals, "\n") + "\n\n" + prefix
	}
	return prefix
}
