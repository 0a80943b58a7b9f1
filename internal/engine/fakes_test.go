package engine

import (
	"context"
	"sort"

	"adventure-server/internal/interfaces"
	"adventure-server/internal/models"
	"adventure-server/internal/session"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// In-memory collaborators for engine tests. The world fake serves static
// slices; the score fake records every upsert; the save fake is a plain
// map.

type fakeWorld struct {
	games         map[uuid.UUID]*models.Game
	rooms         map[uuid.UUID]*models.Room
	connections   map[uuid.UUID][]models.Connection
	entities      []models.Entity
	conversations map[uuid.UUID]*models.Conversation
	scripts       []models.Script
}

var _ interfaces.WorldReader = (*fakeWorld)(nil)

func newFakeWorld() *fakeWorld {
	return &fakeWorld{
		games:         make(map[uuid.UUID]*models.Game),
		rooms:         make(map[uuid.UUID]*models.Room),
		connections:   make(map[uuid.UUID][]models.Connection),
		conversations: make(map[uuid.UUID]*models.Conversation),
	}
}

func (w *fakeWorld) GetGame(_ context.Context, gameID uuid.UUID) (*models.Game, error) {
	if game, ok := w.games[gameID]; ok {
		return game, nil
	}
	return nil, models.ErrGameNotFound
}

func (w *fakeWorld) GetRoom(_ context.Context, roomID uuid.UUID) (*models.Room, error) {
	if room, ok := w.rooms[roomID]; ok {
		return room, nil
	}
	return nil, models.ErrRoomNotFound
}

func (w *fakeWorld) GetStartRoom(_ context.Context, gameID uuid.UUID) (*models.Room, error) {
	var rooms []*models.Room
	for _, room := range w.rooms {
		if room.GameID == gameID {
			rooms = append(rooms, room)
		}
	}
	if len(rooms) == 0 {
		return nil, models.ErrRoomNotFound
	}
	sort.Slice(rooms, func(i, j int) bool { return rooms[i].SortIndex < rooms[j].SortIndex })
	return rooms[0], nil
}

func (w *fakeWorld) GetConnectionsFrom(_ context.Context, roomID uuid.UUID) ([]models.Connection, error) {
	return w.connections[roomID], nil
}

func (w *fakeWorld) GetEntitiesByGame(_ context.Context, gameID uuid.UUID) ([]models.Entity, error) {
	var entities []models.Entity
	for _, entity := range w.entities {
		if entity.GameID == gameID {
			entities = append(entities, entity)
		}
	}
	return entities, nil
}

func (w *fakeWorld) GetEntityByName(_ context.Context, gameID uuid.UUID, name string, entityType *models.EntityType) (*models.Entity, error) {
	for i := range w.entities {
		entity := w.entities[i]
		if entity.GameID != gameID || !foldEq(entity.Name, name) {
			continue
		}
		if entityType != nil && entity.Type != *entityType {
			continue
		}
		return &entity, nil
	}
	return nil, models.ErrEntityNotFound
}

func (w *fakeWorld) GetConversation(_ context.Context, conversationID uuid.UUID) (*models.Conversation, error) {
	if conv, ok := w.conversations[conversationID]; ok {
		return conv, nil
	}
	return nil, models.ErrConversationNotFound
}

func (w *fakeWorld) GetScriptsByGame(_ context.Context, gameID uuid.UUID) ([]models.Script, error) {
	var scripts []models.Script
	for _, script := range w.scripts {
		if script.GameID == gameID {
			scripts = append(scripts, script)
		}
	}
	return scripts, nil
}

type fakeScores struct {
	upserts []int
}

var _ interfaces.HighScoreRepository = (*fakeScores)(nil)

func (s *fakeScores) Upsert(_ context.Context, _, _ uuid.UUID, score int) error {
	s.upserts = append(s.upserts, score)
	return nil
}

func (s *fakeScores) Get(_ context.Context, _, _ uuid.UUID) (*models.HighScore, error) {
	if len(s.upserts) == 0 {
		return nil, models.ErrNotFound
	}
	best := 0
	for _, score := range s.upserts {
		if score > best {
			best = score
		}
	}
	return &models.HighScore{Score: best}, nil
}

type fakeSaves struct {
	slots map[string]*models.SavedGame
}

var _ interfaces.SavedGameRepository = (*fakeSaves)(nil)

func newFakeSaves() *fakeSaves {
	return &fakeSaves{slots: make(map[string]*models.SavedGame)}
}

func saveSlotKey(userID, gameID uuid.UUID) string {
	return userID.String() + ":" + gameID.String()
}

func (s *fakeSaves) Save(_ context.Context, saved *models.SavedGame) error {
	copied := *saved
	s.slots[saveSlotKey(saved.UserID, saved.GameID)] = &copied
	return nil
}

func (s *fakeSaves) Get(_ context.Context, userID, gameID uuid.UUID) (*models.SavedGame, error) {
	if saved, ok := s.slots[saveSlotKey(userID, gameID)]; ok {
		return saved, nil
	}
	return nil, models.ErrNoSavedGame
}

func (s *fakeSaves) Delete(_ context.Context, userID, gameID uuid.UUID) error {
	delete(s.slots, saveSlotKey(userID, gameID))
	return nil
}

// stubRand replays scripted values. An exhausted Float64 queue returns 1.0
// so NPCs stop moving; an exhausted Intn queue returns 0.
type stubRand struct {
	floats []float64
	ints   []int
}

func (r *stubRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 1.0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *stubRand) Intn(int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v
}

// testBench bundles one engine with its fakes and a fixed identity.
type testBench struct {
	engine   *Engine
	world    *fakeWorld
	scores   *fakeScores
	saves    *fakeSaves
	sessions *session.Store
	rng      *stubRand
	userID   uuid.UUID
	gameID   uuid.UUID
}

func newTestBench(world *fakeWorld, gameID uuid.UUID) *testBench {
	scores := &fakeScores{}
	saves := newFakeSaves()
	sessions := session.NewStore()
	rng := &stubRand{}
	return &testBench{
		engine:   New(world, scores, saves, sessions, zap.NewNop(), rng),
		world:    world,
		scores:   scores,
		saves:    saves,
		sessions: sessions,
		rng:      rng,
		userID:   uuid.New(),
		gameID:   gameID,
	}
}

func (b *testBench) state() *session.State {
	return b.sessions.Get(b.userID, b.gameID)
}

func (b *testBench) process(roomID uuid.UUID, command string) (*models.CommandResult, error) {
	return b.engine.ProcessCommand(context.Background(), b.userID, b.gameID, roomID, command)
}

// twoRoomWorld builds the standard fixture: Hal and Bibliotheek connected
// east/west, a takable sword in the library.
func twoRoomWorld() (*fakeWorld, uuid.UUID, *models.Room, *models.Room, *models.Entity) {
	world := newFakeWorld()
	gameID := uuid.New()
	world.games[gameID] = &models.Game{ID: gameID, Name: "Testavontuur"}

	hal := &models.Room{ID: uuid.New(), GameID: gameID, Title: "Hal", Description: "Een kale hal.", SortIndex: 0}
	bieb := &models.Room{ID: uuid.New(), GameID: gameID, Title: "Bibliotheek", Description: "Stoffige boeken.", SortIndex: 1}
	world.rooms[hal.ID] = hal
	world.rooms[bieb.ID] = bieb

	world.connections[hal.ID] = []models.Connection{
		{ID: uuid.New(), FromRoomID: hal.ID, ToRoomID: bieb.ID, Direction: "oost"},
	}
	world.connections[bieb.ID] = []models.Connection{
		{ID: uuid.New(), FromRoomID: bieb.ID, ToRoomID: hal.ID, Direction: "west"},
	}

	sword := models.Entity{
		ID:        uuid.New(),
		GameID:    gameID,
		RoomID:    &bieb.ID,
		Type:      models.EntityTypeItem,
		Name:      "Sword",
		IsTakable: true,
	}
	world.entities = append(world.entities, sword)

	return world, gameID, hal, bieb, &world.entities[0]
}
