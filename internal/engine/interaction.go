package engine

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"adventure-server/internal/models"
)

// handleLook describes the room (and runs its ON_LOOK scripts), or examines
// a specific target: an entity in the room, a connection by direction, or
// failing those a held item. Room search takes priority over the inventory.
func (e *Engine) handleLook(rc *runContext, currentRoom *models.Room, argument string) verbResult {
	res := verbResult{roomImagePath: currentRoom.ImagePath}

	if argument == "" {
		res.message = e.describeRoom(rc, currentRoom)
		scriptResult := e.runScripts(rc, "ON_LOOK")
		if scriptResult.Messages != "" {
			res.message += "\n\n" + scriptResult.Messages
		}
		res.points = scriptResult.PointsAwarded
		mergeScriptOutcome(&res, scriptResult)
		return res
	}

	entity, connection := e.findTargetInRoom(rc, currentRoom.ID, argument, nil)
	switch {
	case entity != nil:
		if entity.Description != "" {
			res.message = entity.Description
		} else {
			res.message = fmt.Sprintf("Je bekijkt de %s. Er is niets bijzonders aan te zien.", entity.Name)
		}
		res.entityImagePath = entity.ImagePath

	case connection != nil:
		if rc.isPassable(connection) {
			res.message = fmt.Sprintf("De doorgang naar %s is open.", capitalize(fold(argument)))
		} else {
			res.message = fmt.Sprintf("In de richting %s is een doorgang, maar deze zit op slot.", capitalize(fold(argument)))
		}

	default:
		item, err := e.findItemInInventory(rc, argument)
		switch {
		case errors.Is(err, models.ErrAmbiguousItem):
			res.message = fmt.Sprintf("Je hebt meerdere dingen genaamd '%s' in je inventaris. Wees specifieker.", argument)
		case err != nil:
			res.message = fmt.Sprintf("Je ziet hier geen '%s' en je hebt het ook niet bij je.", argument)
		default:
			if item.Description != "" {
				res.message = item.Description
			} else {
				res.message = fmt.Sprintf("Je bekijkt de %s in je inventaris. Er is niets bijzonders aan te zien.", item.Name)
			}
			res.entityImagePath = item.ImagePath
			// Looking at carried items shows no room image.
			res.roomImagePath = nil
		}
	}
	return res
}

// handleUse is a fallback only: real use-behavior comes from ON_COMMAND
// scripts, which get their chance before verb dispatch.
func (e *Engine) handleUse(rc *runContext, argument string) verbResult {
	var res verbResult
	switch {
	case argument == "":
		res.message = "Wat wil je gebruiken?"
	case !strings.Contains(fold(argument), " op "):
		res.message = "Waar wil je dat op gebruiken?"
	default:
		parts := useSplitRe.Split(argument, 2)
		res.message = fmt.Sprintf("Je kunt de %s niet op %s gebruiken.",
			fold(parts[0]), fold(parts[1]))
	}
	return res
}

var useSplitRe = regexp.MustCompile(`(?i)\s+op\s+`)

// handleTalk starts a conversation with a named NPC in the room.
func (e *Engine) handleTalk(rc *runContext, argument string) verbResult {
	var res verbResult
	if argument == "" {
		res.message = "Met wie wil je praten?"
		return res
	}

	npcType := models.EntityTypeNPC
	npc, _ := e.findTargetInRoom(rc, *rc.roomID, argument, &npcType)
	switch {
	case npc == nil:
		res.message = fmt.Sprintf("Je ziet hier niemand genaamd '%s'.", argument)
	case npc.ConversationID == nil:
		res.message = fmt.Sprintf("%s heeft niets te zeggen.", npc.Name)
	default:
		conv, err := e.startConversation(rc, npc.ID, *npc.ConversationID)
		if err != nil {
			res.message = fmt.Sprintf("Fout bij starten gesprek: %s", err)
			return res
		}
		res.message = conv.message
		res.inConversation = conv.inConversation
		res.nodeType = conv.nodeType
		res.entityImagePath = npc.ImagePath
	}
	return res
}

const helpText = `Basis Commando's:
  kijk (l)             : Beschrijf de huidige locatie, objecten en uitgangen.
  kijk [object/richting]: Bekijk een specifiek object of een uitgang.
  ga [richting]        : Verplaats naar een andere locatie (bv. 'ga noord', 'ga n', 'ga omhoog', 'ga omlaag').
                         Richtingen: noord (n), oost (o), zuid (z), west (w), omhoog (h), omlaag (l).
  pak [voorwerp]       : Probeer een voorwerp op te pakken.
  gebruik [item] op [target]: Gebruik een item op iets anders.
  stop [voorwerp] in [container]: Stop een voorwerp uit je inventaris in een container.
  inventaris (inv/i)   : Toon de voorwerpen die je bij je draagt.
  praat [NPC]          : Begin een gesprek met een personage (NPC).
  help (h/?)           : Toon deze help tekst.
  opslaan              : Sla de huidige spelvoortgang op.
  laden                : Laad de opgeslagen spelvoortgang.
  reset                : Reset de huidige speelsessie (inventaris, voortgang).

Probeer dingen uit!`
