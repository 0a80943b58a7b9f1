package engine

import (
	"fmt"
	"sort"
	"strings"

	"adventure-server/internal/models"

	"go.uber.org/zap"
)

// describeRoom renders the full room description: title, description text,
// entities currently in the room (direct items listed individually,
// containers by name) and the outgoing exits with their lock state. The
// markup matches what the play client renders.
//
// Container contents are not enumerated yet.
func (e *Engine) describeRoom(rc *runContext, room *models.Room) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<strong class=\"room-title\">%s</strong>\n", room.Title)
	b.WriteString(room.Description)
	b.WriteString("\n\n")

	var items, containers []models.Entity
	for _, entity := range e.entitiesInRoom(rc, room.ID) {
		if entity.IsContainer {
			containers = append(containers, entity)
		} else {
			items = append(items, entity)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
	sort.Slice(containers, func(i, j int) bool { return containers[i].Name < containers[j].Name })

	if len(items) > 0 {
		b.WriteString("Je ziet hier:\n")
		for _, item := range items {
			fmt.Fprintf(&b, "- %s\n", item.Name)
		}
		b.WriteString("\n")
	}
	for _, container := range containers {
		fmt.Fprintf(&b, "Je ziet hier ook: %s.\n", container.Name)
	}

	connections, err := e.world.GetConnectionsFrom(rc.ctx, room.ID)
	if err != nil {
		e.logger.Warn("Failed to load connections for room description", zap.Error(err))
	}
	if len(connections) == 0 {
		b.WriteString("Er zijn geen duidelijke uitgangen.\n")
		return b.String()
	}

	sort.Slice(connections, func(i, j int) bool {
		return connections[i].Direction < connections[j].Direction
	})
	exitParts := make([]string, 0, len(connections))
	for i := range connections {
		exit := strings.ToUpper(connections[i].Direction)
		if !rc.isPassable(&connections[i]) {
			exit += " (op slot)"
		}
		exitParts = append(exitParts, exit)
	}
	fmt.Fprintf(&b, "<strong>Uitgangen:</strong> %s\n", strings.Join(exitParts, ", "))

	return b.String()
}
