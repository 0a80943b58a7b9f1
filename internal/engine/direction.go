package engine

import "strings"

// fold normalizes a name, trigger or direction for comparison. Every lookup
// in the engine goes through fold/foldEq so matching stays consistently
// case-insensitive.
func fold(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func foldEq(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// directionMap resolves abbreviations and full words to canonical direction
// names. Directions are Dutch, as authored in the world editor.
var directionMap = map[string]string{
	"n": "noord", "noord": "noord",
	"o": "oost", "oost": "oost",
	"z": "zuid", "zuid": "zuid",
	"w": "west", "west": "west",
	"h": "omhoog", "omhoog": "omhoog",
	"l": "omlaag", "omlaag": "omlaag",
	"in":  "in",
	"uit": "uit",
}

// resolveDirection returns the canonical direction for the token, or "".
func resolveDirection(token string) string {
	return directionMap[fold(token)]
}

// arrivalDirections maps the exit direction an NPC used to the phrase
// describing where it arrives from, seen from the destination room.
var arrivalDirections = map[string]string{
	"noord":  "het Zuiden",
	"zuid":   "het Noorden",
	"oost":   "het Westen",
	"west":   "het Oosten",
	"omhoog": "Beneden",
	"omlaag": "Boven",
	"in":     "Buiten",
	"uit":    "Binnen",
}

// arrivalDirection describes where an NPC walks in from, given the exit
// direction it took. Unknown directions fall back to the capitalized
// direction itself.
func arrivalDirection(exitDirection string) string {
	if from, ok := arrivalDirections[fold(exitDirection)]; ok {
		return from
	}
	return capitalize(exitDirection)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
