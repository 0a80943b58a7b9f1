package models

import "errors"

// Sentinel errors shared across repository and engine layers. Repositories
// wrap driver errors into these so callers can branch with errors.Is.
var (
	ErrNotFound             = errors.New("resource not found")
	ErrGameNotFound         = errors.New("game not found")
	ErrRoomNotFound         = errors.New("room not found")
	ErrEntityNotFound       = errors.New("entity not found")
	ErrConversationNotFound = errors.New("conversation not found")

	ErrNotInConversation = errors.New("not currently in a conversation")
	ErrAmbiguousItem     = errors.New("multiple items share that name")

	ErrNoSavedGame = errors.New("no saved game found")

	ErrInternal = errors.New("internal error")
)
