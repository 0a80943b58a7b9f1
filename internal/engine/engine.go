// Package engine implements the command interpreter of the adventure
// runtime: it parses a player's typed command, runs the matching scripts,
// mutates the session state and assembles the narrative response for the
// turn. World data is reached through the injected collaborator interfaces
// and never mutated.
package engine

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"
	"unicode"

	"adventure-server/internal/interfaces"
	"adventure-server/internal/metrics"
	"adventure-server/internal/models"
	"adventure-server/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Default image shown on a loss when neither the script nor the game
// configured one.
const defaultLossImage = "standaard_verloren.jpg"

// Rand is the random source used for NPC movement. Injected so tests can
// seed it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Engine is the single boundary of the play runtime. One instance serves
// all sessions; commands for the same (user, game) pair must be serialized
// by the caller.
type Engine struct {
	world    interfaces.WorldReader
	scores   interfaces.HighScoreRepository
	saves    interfaces.SavedGameRepository
	sessions *session.Store
	scripts  *scriptCache
	logger   *zap.Logger
	rng      Rand
}

// New creates an engine. A nil rng falls back to a time-seeded source.
func New(
	world interfaces.WorldReader,
	scores interfaces.HighScoreRepository,
	saves interfaces.SavedGameRepository,
	sessions *session.Store,
	logger *zap.Logger,
	rng Rand,
) *Engine {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Engine{
		world:    world,
		scores:   scores,
		saves:    saves,
		sessions: sessions,
		scripts:  newScriptCache(),
		logger:   logger.Named("Engine"),
		rng:      rng,
	}
}

// HighScore returns the player's stored best score for the game.
// Returns models.ErrNotFound when no score has been recorded yet.
func (e *Engine) HighScore(ctx context.Context, userID, gameID uuid.UUID) (*models.HighScore, error) {
	return e.scores.Get(ctx, userID, gameID)
}

// runContext carries the per-turn evaluation context through scripts and
// handlers. roomID is the room conditions evaluate against; not every
// evaluation site has one.
type runContext struct {
	ctx    context.Context
	engine *Engine
	userID uuid.UUID
	gameID uuid.UUID
	roomID *uuid.UUID
	state  *session.State
}

func (e *Engine) newRunContext(ctx context.Context, userID, gameID uuid.UUID, roomID *uuid.UUID) *runContext {
	return &runContext{
		ctx:    ctx,
		engine: e,
		userID: userID,
		gameID: gameID,
		roomID: roomID,
		state:  e.sessions.Get(userID, gameID),
	}
}

// verbResult is the uniform outcome of one verb handler.
type verbResult struct {
	message         string
	nextRoomID      uuid.UUID
	roomImagePath   *string
	entityImagePath *string
	points          int
	gameWon         bool
	winImagePath    *string
	gameLoss        bool
	lossReason      *string
	lossImagePath   *string
	inConversation  bool
	nodeType        *string
}

// ProcessCommand runs one player turn. When a conversation is active the
// input is routed to the dialogue machine; otherwise the command-level
// scripts get the first chance to handle the input, and only then the verb
// handlers run.
func (e *Engine) ProcessCommand(ctx context.Context, userID, gameID, currentRoomID uuid.UUID, commandText string) (*models.CommandResult, error) {
	commandText = strings.TrimSpace(commandText)
	log := e.logger.With(
		zap.String("userID", userID.String()),
		zap.String("gameID", gameID.String()),
		zap.String("command", commandText))

	state := e.sessions.Get(userID, gameID)
	if state.ActiveConversation != nil {
		result, err := e.HandleConversationInput(ctx, userID, gameID, commandText)
		if err != nil {
			return nil, err
		}
		result.NextRoomID = currentRoomID
		return result, nil
	}

	currentRoom, err := e.world.GetRoom(ctx, currentRoomID)
	if err != nil {
		log.Warn("Current room not found", zap.Error(err))
		return nil, fmt.Errorf("current room %s: %w", currentRoomID, models.ErrRoomNotFound)
	}

	rc := e.newRunContext(ctx, userID, gameID, &currentRoomID)
	startRoomID := currentRoomID

	// Mobile NPCs get their chance to wander before the player's verb is
	// even parsed.
	npcMoves := e.moveNPCs(rc)

	verb, argument := splitCommand(commandText)

	res := verbResult{
		nextRoomID:    currentRoomID,
		roomImagePath: currentRoom.ImagePath,
	}

	// Command-level scripts first: a script that produces output claims the
	// whole turn.
	commandTrigger := fmt.Sprintf("ON_COMMAND(%s)", commandText)
	scriptResult := e.runScripts(rc, commandTrigger)
	handledByScript := scriptResult.Messages != ""
	if handledByScript {
		metrics.CommandsProcessed.WithLabelValues("script").Inc()
		res.message = scriptResult.Messages + "\n\n"
		res.points += scriptResult.PointsAwarded
		mergeScriptOutcome(&res, scriptResult)
	} else {
		handled := e.dispatchVerb(rc, currentRoom, verb, argument, commandText, &res)
		metrics.CommandsProcessed.WithLabelValues(handled).Inc()
	}

	// NPC arrival and departure notices, relative to where the player ended
	// up and where they started.
	res.message = npcNotices(npcMoves, startRoomID, res.nextRoomID) + res.message

	// Loss beats win, and the loss image resolves through a fixed fallback
	// chain: script image, then the game's configured image, then the
	// default file.
	if res.gameLoss {
		res.gameWon = false
		if res.lossImagePath == nil {
			if game, err := e.world.GetGame(ctx, gameID); err == nil && game.LossImagePath != nil {
				res.lossImagePath = game.LossImagePath
			} else {
				img := defaultLossImage
				res.lossImagePath = &img
			}
		}
	}

	finalMessage := strings.TrimSpace(res.message)
	if finalMessage == "" {
		if handledByScript {
			finalMessage = "Oké."
		} else {
			finalMessage = "Er gebeurt niets bijzonders."
		}
	}

	return &models.CommandResult{
		Message:         finalMessage,
		InConversation:  res.inConversation,
		NodeType:        res.nodeType,
		RoomImagePath:   res.roomImagePath,
		EntityImagePath: res.entityImagePath,
		CurrentScore:    rc.state.Score(),
		PointsAwarded:   res.points,
		NextRoomID:      res.nextRoomID,
		GameWon:         res.gameWon,
		WinImagePath:    res.winImagePath,
		GameLoss:        res.gameLoss,
		LossReason:      res.lossReason,
		LossImagePath:   res.lossImagePath,
	}, nil
}

// dispatchVerb routes the parsed verb to its handler and merges the
// outcome into res. It returns the verb family for metrics.
func (e *Engine) dispatchVerb(rc *runContext, currentRoom *models.Room, verb, argument, commandText string, res *verbResult) string {
	switch {
	case verb == "kijk" || verb == "look" || verb == "l":
		r := e.handleLook(rc, currentRoom, argument)
		mergeVerbResult(res, r, true)
		return "look"

	case verb == "gebruik" || verb == "use":
		r := e.handleUse(rc, argument)
		res.message += r.message
		return "use"

	case verb == "praat" || verb == "talk" || verb == "spreek":
		r := e.handleTalk(rc, argument)
		res.message += r.message
		res.inConversation = r.inConversation
		res.nodeType = r.nodeType
		res.entityImagePath = r.entityImagePath
		return "talk"

	case verb == "help" || verb == "h" || verb == "?" || verb == "info":
		res.message += helpText
		return "help"

	case verb == "ga" || verb == "loop" || verb == "go" || verb == "walk":
		if argument == "" {
			res.message += "Waar wil je heen gaan?"
			return "move"
		}
		r := e.handlePlayerMovement(rc, currentRoom, argument)
		mergeVerbResult(res, r, false)
		res.nextRoomID = r.nextRoomID
		res.roomImagePath = r.roomImagePath
		return "move"

	case resolveDirection(verb) != "":
		r := e.handlePlayerMovement(rc, currentRoom, verb)
		mergeVerbResult(res, r, false)
		res.nextRoomID = r.nextRoomID
		res.roomImagePath = r.roomImagePath
		return "move"

	case verb == "inventaris" || verb == "inv" || verb == "i":
		res.message += e.handleInventory(rc)
		return "inventory"

	case verb == "pak" || verb == "neem" || verb == "take":
		r := e.handleTake(rc, argument)
		mergeVerbResult(res, r, false)
		return "take"

	case verb == "stop" || verb == "leg" || verb == "put":
		var r verbResult
		if argument != "" && strings.Contains(fold(argument), " in ") {
			r = e.handlePutIn(rc, argument)
		} else {
			r = e.handleDrop(rc, argument)
		}
		res.message += r.message
		return "put"

	default:
		res.message += fmt.Sprintf("Ik begrijp '%s' niet.", commandText)
		return "unknown"
	}
}

// splitCommand tokenizes the raw input into a lower-cased verb and the
// trimmed remainder. The verb ends at the first whitespace of any kind.
func splitCommand(text string) (verb, argument string) {
	if i := strings.IndexFunc(text, unicode.IsSpace); i >= 0 {
		verb, argument = text[:i], strings.TrimSpace(text[i:])
	} else {
		verb = text
	}
	return strings.ToLower(verb), argument
}

// mergeScriptOutcome folds a dispatch result's win/loss flags into res.
func mergeScriptOutcome(res *verbResult, sr ScriptResult) {
	if sr.GameWon {
		res.gameWon = true
		res.winImagePath = sr.WinImagePath
	}
	if sr.GameLoss {
		res.gameLoss = true
		res.lossReason = sr.LossReason
		res.lossImagePath = sr.LossImagePath
	}
}

// mergeVerbResult appends a handler's message and merges points and
// win/loss state. Image paths are taken over only for handlers that own
// them (look).
func mergeVerbResult(res *verbResult, r verbResult, takeImages bool) {
	res.message += r.message
	res.points += r.points
	if r.gameWon {
		res.gameWon = true
		res.winImagePath = r.winImagePath
	}
	if r.gameLoss {
		res.gameLoss = true
		res.lossReason = r.lossReason
		res.lossImagePath = r.lossImagePath
	}
	if takeImages {
		res.roomImagePath = r.roomImagePath
		res.entityImagePath = r.entityImagePath
	}
}
