// Package session holds the mutable play state of one (user, game) pair:
// inventory, script variables, entity location overrides and the active
// conversation pointer. World data stays read-only; everything that changes
// during play lives here.
package session

import (
	"sync"

	"adventure-server/internal/models"

	"github.com/google/uuid"
)

// ActiveConversation points at the dialogue a player is currently in.
type ActiveConversation struct {
	NPCID          uuid.UUID `json:"npc_id"`
	ConversationID uuid.UUID `json:"conversation_id"`
	CurrentNodeID  string    `json:"current_node_id"`
}

// State is the mutable session of one (user, game) pair. The Store hands out
// the same *State for the same pair, so mutations are visible to subsequent
// commands. Concurrent commands for the same session must be serialized by
// the caller; the engine assumes at most one in-flight command per session.
type State struct {
	Inventory          map[uuid.UUID]struct{}
	Variables          map[string]any
	EntityLocations    map[uuid.UUID]models.Location
	ActiveConversation *ActiveConversation
}

func newState() *State {
	return &State{
		Inventory:       make(map[uuid.UUID]struct{}),
		Variables:       map[string]any{models.VarPlayerScore: 0},
		EntityLocations: make(map[uuid.UUID]models.Location),
	}
}

// Score returns the current player score. Variables loaded from a JSON save
// may hold the score as float64; both forms are accepted.
func (s *State) Score() int {
	switch v := s.Variables[models.VarPlayerScore].(type) {
	case int:
		return v
	case float64:
		return int(v)
	default:
		return 0
	}
}

// AddScore adds delta to the player score and returns the new total.
func (s *State) AddScore(delta int) int {
	total := s.Score() + delta
	s.Variables[models.VarPlayerScore] = total
	return total
}

// BoolVar reports whether the named variable is set to boolean true.
func (s *State) BoolVar(name string) bool {
	v, ok := s.Variables[name]
	return ok && v == true
}

// StringVar returns the named variable as a string, or "" when absent or of
// another type.
func (s *State) StringVar(name string) string {
	if v, ok := s.Variables[name].(string); ok {
		return v
	}
	return ""
}

// AddToInventory puts the entity in the inventory and records the matching
// location override. Both structures must stay consistent; this is the only
// sanctioned way to add.
func (s *State) AddToInventory(entityID uuid.UUID) {
	s.Inventory[entityID] = struct{}{}
	s.EntityLocations[entityID] = models.InInventory()
}

// RemoveFromInventory takes the entity out of the inventory and moves it to
// the given location.
func (s *State) RemoveFromInventory(entityID uuid.UUID, to models.Location) {
	delete(s.Inventory, entityID)
	s.EntityLocations[entityID] = to
}

// Holds reports whether the entity is in the inventory.
func (s *State) Holds(entityID uuid.UUID) bool {
	_, ok := s.Inventory[entityID]
	return ok
}

// EffectiveLocation resolves where an entity currently is: the session
// override when present, otherwise the persisted room/container, otherwise
// unplaced.
func (s *State) EffectiveLocation(entity *models.Entity) models.Location {
	if loc, ok := s.EntityLocations[entity.ID]; ok {
		return loc
	}
	return entity.PersistedLocation()
}

type sessionKey struct {
	userID uuid.UUID
	gameID uuid.UUID
}

// Store owns all in-memory sessions, keyed by (user, game). It replaces the
// original's module-level state maps with an injectable object. The map is
// guarded so that distinct sessions can be served from parallel requests;
// individual *State values are not internally synchronized.
type Store struct {
	mu       sync.RWMutex
	sessions map[sessionKey]*State
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[sessionKey]*State)}
}

// Get returns the session for the pair, creating an empty one on first
// access. It never fails.
func (st *Store) Get(userID, gameID uuid.UUID) *State {
	key := sessionKey{userID: userID, gameID: gameID}

	st.mu.RLock()
	s, ok := st.sessions[key]
	st.mu.RUnlock()
	if ok {
		return s
	}

	st.mu.Lock()
	defer st.mu.Unlock()
	if s, ok := st.sessions[key]; ok {
		return s
	}
	s = newState()
	st.sessions[key] = s
	return s
}

// Reset discards all session state for the pair.
func (st *Store) Reset(userID, gameID uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, sessionKey{userID: userID, gameID: gameID})
}
