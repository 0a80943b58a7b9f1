package engine

import (
	"fmt"
	"regexp"
	"strings"

	"adventure-server/internal/metrics"

	"go.uber.org/zap"
)

// Conditions are a line-oriented mini-DSL authored in the game editor:
// every line is one clause, the whole condition is the AND of its clauses
// and an empty condition is true. Condition text is parsed once into an AST
// and cached per script; bad clauses evaluate to false instead of failing
// the turn.

type conditionClause interface {
	evaluate(rc *runContext) bool
}

type condition []conditionClause

func (c condition) evaluate(rc *runContext) bool {
	for _, clause := range c {
		if !clause.evaluate(rc) {
			return false
		}
	}
	return true
}

var (
	stateClauseRe       = regexp.MustCompile(`(?i)^state\((.+?)\)\s*==\s*['"]?(.+?)['"]?$`)
	currentRoomClauseRe = regexp.MustCompile(`(?i)^current_room\("(.+?)"\)$`)
)

// parseCondition builds the clause list for a condition string. A nil or
// blank condition parses to the empty (always true) condition.
func parseCondition(raw *string) condition {
	if raw == nil {
		return nil
	}

	var clauses condition
	for _, line := range strings.Split(strings.TrimSpace(*raw), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "has_item(") && strings.HasSuffix(lower, ")"):
			name := fold(line[len("has_item(") : len(line)-1])
			clauses = append(clauses, hasItemClause{itemName: name})
		case stateClauseRe.MatchString(line):
			m := stateClauseRe.FindStringSubmatch(line)
			clauses = append(clauses, stateClause{
				variable: fold(m[1]),
				expected: strings.TrimSpace(m[2]),
			})
		case currentRoomClauseRe.MatchString(line):
			m := currentRoomClauseRe.FindStringSubmatch(line)
			clauses = append(clauses, currentRoomClause{roomTitle: strings.TrimSpace(m[1])})
		default:
			clauses = append(clauses, invalidClause{raw: line})
		}
	}
	return clauses
}

// hasItemClause: HAS_ITEM(<name>) — true when an inventory entity carries
// the name.
type hasItemClause struct {
	itemName string
}

func (c hasItemClause) evaluate(rc *runContext) bool {
	if len(rc.state.Inventory) == 0 {
		return false
	}
	entities, err := rc.engine.world.GetEntitiesByGame(rc.ctx, rc.gameID)
	if err != nil {
		rc.engine.logger.Warn("has_item lookup failed", zap.Error(err))
		return false
	}
	for i := range entities {
		if rc.state.Holds(entities[i].ID) && foldEq(entities[i].Name, c.itemName) {
			return true
		}
	}
	return false
}

// stateClause: STATE(<var>) == <value> — boolean variables compare against
// the true/false literal, everything else compares string forms
// case-insensitively.
type stateClause struct {
	variable string
	expected string
}

func (c stateClause) evaluate(rc *runContext) bool {
	current, ok := rc.state.Variables[c.variable]
	if b, isBool := current.(bool); isBool {
		return b == foldEq(c.expected, "true")
	}
	if !ok {
		return false
	}
	return foldEq(fmt.Sprint(current), c.expected)
}

// currentRoomClause: CURRENT_ROOM("<title>") — requires a room in the
// evaluation context; without one the clause is false.
type currentRoomClause struct {
	roomTitle string
}

func (c currentRoomClause) evaluate(rc *runContext) bool {
	if rc.roomID == nil {
		rc.engine.logger.Warn("current_room condition evaluated without a room context",
			zap.String("expectedTitle", c.roomTitle))
		return false
	}
	room, err := rc.engine.world.GetRoom(rc.ctx, *rc.roomID)
	if err != nil {
		rc.engine.logger.Warn("current_room lookup failed", zap.Error(err))
		return false
	}
	return foldEq(room.Title, c.roomTitle)
}

// invalidClause preserves unparsable lines; it always evaluates false so
// the enclosing condition fails, and the bad content is logged for the
// game author.
type invalidClause struct {
	raw string
}

func (c invalidClause) evaluate(rc *runContext) bool {
	rc.engine.logger.Warn("Unknown condition format", zap.String("clause", c.raw))
	metrics.ScriptParseFailures.Inc()
	return false
}
