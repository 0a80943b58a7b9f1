package engine

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"adventure-server/internal/models"

	"go.uber.org/zap"
)

// handleInventory lists the held items, sorted by name.
func (e *Engine) handleInventory(rc *runContext) string {
	if len(rc.state.Inventory) == 0 {
		return "Je draagt niets bij je."
	}

	entities, err := e.world.GetEntitiesByGame(rc.ctx, rc.gameID)
	if err != nil {
		e.logger.Warn("Failed to load entities for inventory listing", zap.Error(err))
		return "Je draagt niets bij je."
	}

	var names []string
	for i := range entities {
		if rc.state.Holds(entities[i].ID) {
			names = append(names, entities[i].Name)
		}
	}
	if len(names) == 0 {
		return "Je draagt niets bij je."
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("Je draagt bij je:\n")
	for i, name := range names {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "- %s", name)
	}
	return b.String()
}

// handleTake picks up a named item from the current room. An ON_TAKE script
// that produces output claims the call and replaces the default handling
// entirely; otherwise the usual precedence applies: already held, not seen,
// not an item, not takable, taken.
func (e *Engine) handleTake(rc *runContext, argument string) verbResult {
	var res verbResult
	if argument == "" {
		res.message = "Wat wil je pakken?"
		return res
	}

	target, _ := e.findTargetInRoom(rc, *rc.roomID, argument, nil)

	if target != nil {
		takeTrigger := fmt.Sprintf("ON_TAKE(%s)", target.Name)
		scriptResult := e.runScripts(rc, takeTrigger)
		if scriptResult.Messages != "" {
			res.message = scriptResult.Messages + "\n"
			res.points = scriptResult.PointsAwarded
			mergeScriptOutcome(&res, scriptResult)
			return res
		}
	}

	switch {
	case target != nil && rc.state.Holds(target.ID):
		res.message = fmt.Sprintf("Je hebt de %s al.", argument)
	case target == nil:
		res.message = fmt.Sprintf("Je ziet hier geen '%s'.", argument)
	case target.Type != models.EntityTypeItem:
		res.message = fmt.Sprintf("Je kunt '%s' niet pakken.", argument)
	case !target.IsTakable:
		res.message = fmt.Sprintf("Je kunt de %s niet oppakken.", argument)
	default:
		rc.state.AddToInventory(target.ID)
		if target.PickupMessage != nil && *target.PickupMessage != "" {
			res.message = *target.PickupMessage
		} else {
			res.message = fmt.Sprintf("Je pakt de %s.", argument)
		}
	}
	return res
}

// handleDrop puts a held item down in the current room.
func (e *Engine) handleDrop(rc *runContext, argument string) verbResult {
	var res verbResult
	if argument == "" {
		res.message = "Wat wil je neerleggen?"
		return res
	}

	item, err := e.findItemInInventory(rc, argument)
	switch {
	case errors.Is(err, models.ErrAmbiguousItem):
		res.message = fmt.Sprintf("Je hebt meerdere voorwerpen genaamd '%s'. Wees specifieker.", argument)
	case err != nil:
		res.message = fmt.Sprintf("Je hebt geen '%s' bij je.", argument)
	default:
		rc.state.RemoveFromInventory(item.ID, models.InRoom(*rc.roomID))
		res.message = fmt.Sprintf("Je legt de %s neer.", item.Name)
	}
	return res
}

var putInSplitRe = regexp.MustCompile(`(?i)\s+in\s+`)

// handlePutIn moves a held item into a container standing in the room.
// The argument is split on the first " in ".
func (e *Engine) handlePutIn(rc *runContext, argument string) verbResult {
	var res verbResult

	parts := putInSplitRe.Split(argument, 2)
	if len(parts) != 2 {
		res.message = "Wat wil je waar in stoppen? Gebruik: 'stop [voorwerp] in [container]'."
		return res
	}
	itemName := strings.TrimSpace(parts[0])
	containerName := strings.TrimSpace(parts[1])

	item, err := e.findItemInInventory(rc, itemName)
	switch {
	case errors.Is(err, models.ErrAmbiguousItem):
		res.message = fmt.Sprintf("Je hebt meerdere voorwerpen genaamd '%s'. Wees specifieker.", parts[0])
		return res
	case err != nil:
		res.message = fmt.Sprintf("Je hebt geen '%s' bij je.", parts[0])
		return res
	}

	container, _ := e.findTargetInRoom(rc, *rc.roomID, containerName, nil)
	switch {
	case container == nil:
		res.message = fmt.Sprintf("Je ziet hier geen '%s'.", parts[1])
	case !container.IsContainer:
		res.message = fmt.Sprintf("Je kunt niets in de %s stoppen.", container.Name)
	default:
		rc.state.RemoveFromInventory(item.ID, models.InContainer(container.ID))
		res.message = fmt.Sprintf("Je stopt de %s in de %s.", item.Name, container.Name)
	}
	return res
}
