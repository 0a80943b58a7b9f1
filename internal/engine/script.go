package engine

import (
	"strings"
	"sync"

	"adventure-server/internal/metrics"
	"adventure-server/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// compiledScript is a script with its condition and action parsed into
// ASTs. Scripts are compiled at most once per process and reused on every
// dispatch.
type compiledScript struct {
	trigger   string
	condition condition
	action    action
}

type scriptCache struct {
	mu       sync.Mutex
	compiled map[uuid.UUID]*compiledScript
}

func newScriptCache() *scriptCache {
	return &scriptCache{compiled: make(map[uuid.UUID]*compiledScript)}
}

func (c *scriptCache) get(script *models.Script) *compiledScript {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cs, ok := c.compiled[script.ID]; ok {
		return cs
	}
	cs := &compiledScript{
		trigger:   script.Trigger,
		condition: parseCondition(script.Condition),
		action:    parseAction(script.Action),
	}
	c.compiled[script.ID] = cs
	return cs
}

// ScriptResult aggregates everything a trigger dispatch produced.
type ScriptResult struct {
	Messages      string
	PointsAwarded int
	GameWon       bool
	WinImagePath  *string
	GameLoss      bool
	LossReason    *string
	LossImagePath *string
}

// runScripts finds every script of the game whose trigger matches the given
// trigger string (case-insensitive exact match), evaluates its condition
// against the supplied room context and executes the action when it passes.
// Messages are joined with newlines and points summed; afterwards the win
// and loss markers in the session variables are resolved into the result.
func (e *Engine) runScripts(rc *runContext, trigger string) ScriptResult {
	var result ScriptResult

	scripts, err := e.world.GetScriptsByGame(rc.ctx, rc.gameID)
	if err != nil {
		e.logger.Error("Failed to load scripts for trigger dispatch",
			zap.String("gameID", rc.gameID.String()),
			zap.String("trigger", trigger),
			zap.Error(err))
		return result
	}

	var messages []string
	for i := range scripts {
		if !foldEq(scripts[i].Trigger, trigger) {
			continue
		}
		cs := e.scripts.get(&scripts[i])
		if !cs.condition.evaluate(rc) {
			continue
		}
		msg, points := cs.action.execute(rc)
		metrics.ScriptsExecuted.Inc()
		result.PointsAwarded += points
		if msg != "" {
			messages = append(messages, msg)
		}
	}
	result.Messages = strings.Join(messages, "\n")

	if rc.state.BoolVar(models.VarGameWon) {
		result.GameWon = true
		if game, err := e.world.GetGame(rc.ctx, rc.gameID); err == nil {
			result.WinImagePath = game.WinImagePath
		} else {
			e.logger.Warn("Could not resolve win image", zap.Error(err))
		}
	}

	if rc.state.BoolVar(models.VarGameLoss) {
		result.GameLoss = true
		if reason := rc.state.StringVar(models.VarLossReason); reason != "" {
			result.LossReason = &reason
		}
		if image := rc.state.StringVar(models.VarLossImage); image != "" {
			result.LossImagePath = &image
		}
	}

	return result
}
