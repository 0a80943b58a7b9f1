package engine

import (
	"strings"
	"testing"

	"adventure-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withCat(world *fakeWorld, gameID uuid.UUID, roomID uuid.UUID) *models.Entity {
	cat := models.Entity{
		ID: uuid.New(), GameID: gameID, RoomID: &roomID,
		Type: models.EntityTypeNPC, Name: "Kat", IsMobile: true,
	}
	world.entities = append(world.entities, cat)
	return &world.entities[len(world.entities)-1]
}

func TestNPCDeparts(t *testing.T) {
	world, gameID, hal, bieb, _ := twoRoomWorld()
	cat := withCat(world, gameID, hal.ID)
	bench := newTestBench(world, gameID)
	bench.rng.floats = []float64{0.1}

	result, err := bench.process(hal.ID, "kijk")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(result.Message, "Kat gaat richting Oost."),
		"departure notice comes before the room description, got: %s", result.Message)
	assert.Equal(t, models.InRoom(bieb.ID), bench.state().EntityLocations[cat.ID])
}

func TestNPCArrivesWithPlayer(t *testing.T) {
	world, gameID, hal, _, _ := twoRoomWorld()
	withCat(world, gameID, hal.ID)
	bench := newTestBench(world, gameID)
	bench.rng.floats = []float64{0.1}

	// Cat and player both move east; seen from the library the cat walks
	// in from the west.
	result, err := bench.process(hal.ID, "ga oost")
	require.NoError(t, err)
	assert.Contains(t, result.Message, "Kat komt binnenwandelen vanuit het Westen.")
}

func TestNPCStaysPut(t *testing.T) {
	world, gameID, hal, _, _ := twoRoomWorld()
	cat := withCat(world, gameID, hal.ID)
	bench := newTestBench(world, gameID)
	bench.rng.floats = []float64{0.9}

	result, err := bench.process(hal.ID, "kijk")
	require.NoError(t, err)
	assert.NotContains(t, result.Message, "Kat gaat")
	_, moved := bench.state().EntityLocations[cat.ID]
	assert.False(t, moved)

	// The cat is part of the room description either way.
	assert.Contains(t, result.Message, "- Kat")
}

func TestNPCRespectsLockedExits(t *testing.T) {
	world, gameID, hal, bieb, _ := twoRoomWorld()
	world.connections[hal.ID] = []models.Connection{
		{ID: uuid.New(), FromRoomID: hal.ID, ToRoomID: bieb.ID, Direction: "oost", IsLocked: true},
	}
	cat := withCat(world, gameID, hal.ID)
	bench := newTestBench(world, gameID)
	bench.rng.floats = []float64{0.1}

	result, err := bench.process(hal.ID, "kijk")
	require.NoError(t, err)
	assert.NotContains(t, result.Message, "Kat gaat")
	_, moved := bench.state().EntityLocations[cat.ID]
	assert.False(t, moved, "locked exits are not wandered through")
}
