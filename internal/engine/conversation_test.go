package engine

import (
	"testing"

	"adventure-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// talkFixture extends the two-room world with a guard NPC in the hall whose
// dialogue has an options node, a question node and a farewell.
func talkFixture() (*fakeWorld, uuid.UUID, *models.Room) {
	world, gameID, hal, _, _ := twoRoomWorld()

	convID := uuid.New()
	world.conversations[convID] = &models.Conversation{
		ID:     convID,
		GameID: gameID,
		Name:   "Wachter",
		Structure: models.ConversationStructure{
			StartNode: "start",
			Nodes: map[string]models.ConversationNode{
				"start": {
					NPCText: "Halt! Wie daar?",
					Options: []models.ConversationOption{
						{Text: "Een vriend.", NPCResponse: "Hmm, dat zeggen ze allemaal.", NextNode: "raadsel"},
						{Text: "Gaat je niets aan.", NPCResponse: "Brutaal!", NextNode: ""},
					},
				},
				"raadsel": {
					Type:               models.NodeTypeQuestion,
					NPCText:            "Wat is het wachtwoord?",
					Action:             "ADD_SCORE(2)",
					ExpectedAnswer:     "zwaardvis",
					CorrectNPCResponse: "Juist, loop maar door.",
					NextNodeCorrect:    "einde",
					NextNodeIncorrect:  "raadsel",
					ActionOnCorrect:    "ADD_SCORE(10)",
				},
				"einde": {
					NPCText: "Welkom in de burcht.",
					Options: []models.ConversationOption{},
				},
			},
		},
	}

	guard := models.Entity{
		ID:             uuid.New(),
		GameID:         gameID,
		RoomID:         &hal.ID,
		Type:           models.EntityTypeNPC,
		Name:           "Wachter",
		ConversationID: &convID,
	}
	world.entities = append(world.entities, guard)
	return world, gameID, hal
}

func TestTalkStartsConversation(t *testing.T) {
	world, gameID, hal := talkFixture()
	bench := newTestBench(world, gameID)

	result, err := bench.process(hal.ID, "praat wachter")
	require.NoError(t, err)
	assert.True(t, result.InConversation)
	require.NotNil(t, result.NodeType)
	assert.Equal(t, models.NodeTypeOptions, *result.NodeType)
	assert.Contains(t, result.Message, "Halt! Wie daar?")
	assert.Contains(t, result.Message, "1. Een vriend.")
	assert.Contains(t, result.Message, "2. Gaat je niets aan.")
	require.NotNil(t, bench.state().ActiveConversation)
	assert.Equal(t, "start", bench.state().ActiveConversation.CurrentNodeID)
}

func TestTalkRejections(t *testing.T) {
	world, gameID, hal := talkFixture()
	mute := models.Entity{
		ID: uuid.New(), GameID: gameID, RoomID: &hal.ID,
		Type: models.EntityTypeNPC, Name: "Standbeeld",
	}
	world.entities = append(world.entities, mute)
	bench := newTestBench(world, gameID)

	result, err := bench.process(hal.ID, "praat")
	require.NoError(t, err)
	assert.Equal(t, "Met wie wil je praten?", result.Message)

	result, err = bench.process(hal.ID, "praat koning")
	require.NoError(t, err)
	assert.Equal(t, "Je ziet hier niemand genaamd 'koning'.", result.Message)

	result, err = bench.process(hal.ID, "praat standbeeld")
	require.NoError(t, err)
	assert.Equal(t, "Standbeeld heeft niets te zeggen.", result.Message)
	assert.False(t, result.InConversation)
}

func TestConversationOptionFlow(t *testing.T) {
	world, gameID, hal := talkFixture()
	bench := newTestBench(world, gameID)

	_, err := bench.process(hal.ID, "praat wachter")
	require.NoError(t, err)

	// Option 1 advances to the question node and runs its entry action.
	result, err := bench.process(hal.ID, "1")
	require.NoError(t, err)
	assert.True(t, result.InConversation)
	require.NotNil(t, result.NodeType)
	assert.Equal(t, models.NodeTypeQuestion, *result.NodeType)
	assert.Contains(t, result.Message, "Hmm, dat zeggen ze allemaal.")
	assert.Contains(t, result.Message, "Wat is het wachtwoord?")
	assert.Equal(t, 2, result.PointsAwarded)
	assert.Equal(t, 2, result.CurrentScore)

	// A wrong answer loops back onto the same question, re-running its
	// entry action.
	result, err = bench.process(hal.ID, "makreel")
	require.NoError(t, err)
	assert.True(t, result.InConversation)
	assert.Contains(t, result.Message, "Dat is niet juist.")
	assert.Contains(t, result.Message, "Wat is het wachtwoord?")
	assert.Equal(t, 4, result.CurrentScore)

	// The correct answer pays out and lands on the terminal node, which
	// ends the conversation.
	result, err = bench.process(hal.ID, "Zwaardvis")
	require.NoError(t, err)
	assert.False(t, result.InConversation)
	assert.Contains(t, result.Message, "Juist, loop maar door.")
	assert.Contains(t, result.Message, "Welkom in de burcht.")
	assert.Equal(t, 10, result.PointsAwarded)
	assert.Equal(t, 14, result.CurrentScore)
	assert.Nil(t, bench.state().ActiveConversation)

	// The next command is a normal turn again.
	result, err = bench.process(hal.ID, "kijk")
	require.NoError(t, err)
	assert.Contains(t, result.Message, "Uitgangen")
}

func TestConversationEndsOnOptionWithoutNext(t *testing.T) {
	world, gameID, hal := talkFixture()
	bench := newTestBench(world, gameID)

	_, err := bench.process(hal.ID, "praat wachter")
	require.NoError(t, err)

	result, err := bench.process(hal.ID, "2")
	require.NoError(t, err)
	assert.False(t, result.InConversation)
	assert.Contains(t, result.Message, "Brutaal!")
	assert.Contains(t, result.Message, "Gesprek beëindigd.")
	assert.Nil(t, bench.state().ActiveConversation)
}

func TestConversationInvalidInputReprompts(t *testing.T) {
	world, gameID, hal := talkFixture()
	bench := newTestBench(world, gameID)

	_, err := bench.process(hal.ID, "praat wachter")
	require.NoError(t, err)

	result, err := bench.process(hal.ID, "misschien")
	require.NoError(t, err)
	assert.True(t, result.InConversation)
	assert.Contains(t, result.Message, "Voer alsjeblieft een nummer in.")
	assert.Contains(t, result.Message, "Halt! Wie daar?")
	assert.Contains(t, result.Message, "1. Een vriend.")

	result, err = bench.process(hal.ID, "7")
	require.NoError(t, err)
	assert.True(t, result.InConversation)
	assert.Contains(t, result.Message, "Ongeldige keuze.")
	assert.Equal(t, "start", bench.state().ActiveConversation.CurrentNodeID)
	assert.Zero(t, result.CurrentScore, "re-prompting never runs node actions")
}

func TestTerminalStartNodeEndsImmediately(t *testing.T) {
	world, gameID, hal := talkFixture()
	convID := uuid.New()
	world.conversations[convID] = &models.Conversation{
		ID: convID, GameID: gameID, Name: "Kluizenaar",
		Structure: models.ConversationStructure{
			StartNode: "zwijg",
			Nodes: map[string]models.ConversationNode{
				"zwijg": {NPCText: "De kluizenaar knikt en zwijgt."},
			},
		},
	}
	hermit := models.Entity{
		ID: uuid.New(), GameID: gameID, RoomID: &hal.ID,
		Type: models.EntityTypeNPC, Name: "Kluizenaar", ConversationID: &convID,
	}
	world.entities = append(world.entities, hermit)
	bench := newTestBench(world, gameID)

	result, err := bench.process(hal.ID, "praat kluizenaar")
	require.NoError(t, err)
	assert.Contains(t, result.Message, "De kluizenaar knikt en zwijgt.")
	assert.False(t, result.InConversation)
	assert.Nil(t, bench.state().ActiveConversation)
}
