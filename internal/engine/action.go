package engine

import (
	"fmt"
	"strconv"
	"strings"

	"adventure-server/internal/metrics"
	"adventure-server/internal/models"

	"go.uber.org/zap"
)

// Actions are the imperative half of the script DSL: one command per line,
// case-insensitive keyword with a free-text argument in parentheses. Like
// conditions they are parsed once into an AST and cached; unknown commands
// are logged and skipped so author mistakes never break a turn.

type actionCommand interface {
	execute(rc *runContext, out *actionOutput)
}

type action []actionCommand

// actionOutput accumulates the visible messages and score delta of one
// action execution.
type actionOutput struct {
	messages []string
	points   int
}

func (a action) execute(rc *runContext) (string, int) {
	var out actionOutput
	for _, cmd := range a {
		cmd.execute(rc, &out)
	}
	return strings.Join(out.messages, "\n"), out.points
}

// parseAction builds the command list for an action string.
func parseAction(raw string) action {
	var commands action
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		upper := strings.ToUpper(line)
		switch {
		case strings.HasPrefix(upper, "SHOW_MESSAGE(") && strings.HasSuffix(line, ")"):
			text := strings.TrimSpace(line[len("SHOW_MESSAGE(") : len(line)-1])
			text = strings.Trim(text, `"'`)
			commands = append(commands, showMessageCommand{text: text})
		case strings.HasPrefix(upper, "GIVE_ITEM(") && strings.HasSuffix(line, ")"):
			name := fold(line[len("GIVE_ITEM(") : len(line)-1])
			commands = append(commands, giveItemCommand{itemName: name})
		case strings.HasPrefix(upper, "SET_STATE(") && strings.HasSuffix(line, ")"):
			content := line[len("SET_STATE(") : len(line)-1]
			variable, value, ok := strings.Cut(content, ",")
			if !ok {
				commands = append(commands, invalidCommand{raw: line})
				continue
			}
			commands = append(commands, parseSetState(variable, value))
		case strings.HasPrefix(upper, "ADD_SCORE(") && strings.HasSuffix(line, ")"):
			points, err := strconv.Atoi(strings.TrimSpace(line[len("ADD_SCORE(") : len(line)-1]))
			if err != nil {
				commands = append(commands, invalidCommand{raw: line})
				continue
			}
			commands = append(commands, addScoreCommand{points: points})
		default:
			commands = append(commands, invalidCommand{raw: line})
		}
	}
	return commands
}

func parseSetState(variable, value string) setStateCommand {
	cmd := setStateCommand{variable: strings.TrimSpace(variable)}
	valueStr := strings.Trim(strings.TrimSpace(value), `"'`)
	switch strings.ToLower(valueStr) {
	case "true":
		cmd.value = true
	case "false":
		cmd.value = false
	default:
		cmd.value = valueStr
	}
	return cmd
}

// showMessageCommand: SHOW_MESSAGE("text") — appends text to the output.
type showMessageCommand struct {
	text string
}

func (c showMessageCommand) execute(rc *runContext, out *actionOutput) {
	out.messages = append(out.messages, c.text)
}

// giveItemCommand: GIVE_ITEM(name) — puts the named ITEM in the inventory
// if it exists and is not already held.
type giveItemCommand struct {
	itemName string
}

func (c giveItemCommand) execute(rc *runContext, out *actionOutput) {
	itemType := models.EntityTypeItem
	item, err := rc.engine.world.GetEntityByName(rc.ctx, rc.gameID, c.itemName, &itemType)
	if err != nil {
		rc.engine.logger.Warn("GIVE_ITEM failed, item not found",
			zap.String("item", c.itemName), zap.Error(err))
		out.messages = append(out.messages,
			fmt.Sprintf("[Debug: Item '%s' not found for GIVE_ITEM]", c.itemName))
		return
	}

	if rc.state.Holds(item.ID) {
		out.messages = append(out.messages, fmt.Sprintf("Je hebt de %s al.", item.Name))
		return
	}

	rc.state.AddToInventory(item.ID)
	out.messages = append(out.messages, fmt.Sprintf("Je ontvangt: %s.", item.Name))
	rc.engine.logger.Debug("GIVE_ITEM added item to inventory",
		zap.String("item", item.Name), zap.String("entityID", item.ID.String()))
}

// setStateCommand: SET_STATE(var, value) — writes a session variable.
// Deliberately silent: no message is appended.
type setStateCommand struct {
	variable string
	value    any
}

func (c setStateCommand) execute(rc *runContext, out *actionOutput) {
	rc.state.Variables[c.variable] = c.value
	rc.engine.logger.Debug("SET_STATE updated session variable",
		zap.String("variable", c.variable), zap.Any("value", c.value))
}

// addScoreCommand: ADD_SCORE(n) — adds points to the player score and
// upserts the high score immediately. A failed high-score write is logged
// and the turn continues without it.
type addScoreCommand struct {
	points int
}

func (c addScoreCommand) execute(rc *runContext, out *actionOutput) {
	total := rc.state.AddScore(c.points)
	out.points += c.points
	rc.engine.logger.Debug("ADD_SCORE applied",
		zap.Int("points", c.points), zap.Int("newScore", total))

	if err := rc.engine.scores.Upsert(rc.ctx, rc.userID, rc.gameID, total); err != nil {
		rc.engine.logger.Error("Failed to upsert high score",
			zap.String("userID", rc.userID.String()),
			zap.String("gameID", rc.gameID.String()),
			zap.Int("score", total),
			zap.Error(err))
	}
}

// invalidCommand preserves unparsable lines: logged, never executed.
type invalidCommand struct {
	raw string
}

func (c invalidCommand) execute(rc *runContext, out *actionOutput) {
	rc.engine.logger.Warn("Unknown action format", zap.String("command", c.raw))
	metrics.ScriptParseFailures.Inc()
}
