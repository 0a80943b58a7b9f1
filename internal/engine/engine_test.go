package engine

import (
	"context"
	"testing"

	"adventure-server/internal/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCommand(t *testing.T) {
	verb, argument := splitCommand("Pak  Roestige Sleutel")
	assert.Equal(t, "pak", verb)
	assert.Equal(t, "Roestige Sleutel", argument)

	verb, argument = splitCommand("kijk")
	assert.Equal(t, "kijk", verb)
	assert.Empty(t, argument)

	// Any whitespace separates the verb from its argument.
	verb, argument = splitCommand("pak\tRoestige Sleutel")
	assert.Equal(t, "pak", verb)
	assert.Equal(t, "Roestige Sleutel", argument)

	verb, argument = splitCommand("ga\t oost")
	assert.Equal(t, "ga", verb)
	assert.Equal(t, "oost", argument)
}

func TestMovementAndTake(t *testing.T) {
	world, gameID, hal, bieb, sword := twoRoomWorld()
	bench := newTestBench(world, gameID)

	result, err := bench.process(hal.ID, "ga oost")
	require.NoError(t, err)
	assert.Equal(t, bieb.ID, result.NextRoomID)
	assert.Contains(t, result.Message, "Je gaat Oost.")
	assert.Contains(t, result.Message, "Bibliotheek")
	assert.Contains(t, result.Message, "Je ziet hier:\n- Sword")

	result, err = bench.process(bieb.ID, "pak sword")
	require.NoError(t, err)
	assert.Equal(t, "Je pakt de sword.", result.Message)
	assert.True(t, bench.state().Holds(sword.ID))

	result, err = bench.process(bieb.ID, "inv")
	require.NoError(t, err)
	assert.Equal(t, "Je draagt bij je:\n- Sword", result.Message)

	// Taken items no longer show up in the room.
	result, err = bench.process(bieb.ID, "kijk")
	require.NoError(t, err)
	assert.NotContains(t, result.Message, "Je ziet hier:\n- Sword")

	// The connection is reversible.
	result, err = bench.process(bieb.ID, "ga west")
	require.NoError(t, err)
	assert.Equal(t, hal.ID, result.NextRoomID)
	result, err = bench.process(hal.ID, "oost")
	require.NoError(t, err)
	assert.Equal(t, bieb.ID, result.NextRoomID, "a bare direction works as a movement command")
}

func TestMovementRejections(t *testing.T) {
	world, gameID, hal, _, _ := twoRoomWorld()
	bench := newTestBench(world, gameID)

	result, err := bench.process(hal.ID, "ga rondje")
	require.NoError(t, err)
	assert.Equal(t, "Dat is geen geldige richting.", result.Message)
	assert.Equal(t, hal.ID, result.NextRoomID)

	result, err = bench.process(hal.ID, "ga zuid")
	require.NoError(t, err)
	assert.Equal(t, "Je kunt niet die kant op.", result.Message)

	result, err = bench.process(hal.ID, "ga")
	require.NoError(t, err)
	assert.Equal(t, "Waar wil je heen gaan?", result.Message)
}

func TestLockedConnection(t *testing.T) {
	world, gameID, hal, bieb, _ := twoRoomWorld()
	world.connections[hal.ID] = append(world.connections[hal.ID], models.Connection{
		ID: uuid.New(), FromRoomID: hal.ID, ToRoomID: bieb.ID, Direction: "noord", IsLocked: true,
	})
	bench := newTestBench(world, gameID)

	result, err := bench.process(hal.ID, "ga noord")
	require.NoError(t, err)
	assert.Equal(t, "De weg naar Noord is op slot.", result.Message)
	assert.Equal(t, hal.ID, result.NextRoomID)

	// The session unlock flag opens the way.
	bench.state().Variables[models.UnlockedVar("noord")] = true
	result, err = bench.process(hal.ID, "ga noord")
	require.NoError(t, err)
	assert.Equal(t, bieb.ID, result.NextRoomID)
}

func TestShortVerbsBeatDirections(t *testing.T) {
	world, gameID, hal, _, _ := twoRoomWorld()
	bench := newTestBench(world, gameID)

	// "h" and "l" double as omhoog/omlaag abbreviations; as bare commands
	// they mean help and look.
	result, err := bench.process(hal.ID, "h")
	require.NoError(t, err)
	assert.Contains(t, result.Message, "Basis Commando's")
	assert.Equal(t, hal.ID, result.NextRoomID)

	result, err = bench.process(hal.ID, "l")
	require.NoError(t, err)
	assert.Contains(t, result.Message, "Hal")
	assert.Contains(t, result.Message, "Uitgangen")
}

func TestTakeMissingItem(t *testing.T) {
	world, gameID, hal, _, _ := twoRoomWorld()
	bench := newTestBench(world, gameID)

	result, err := bench.process(hal.ID, "pak foobar")
	require.NoError(t, err)
	assert.Equal(t, "Je ziet hier geen 'foobar'.", result.Message)
	assert.Empty(t, bench.state().Inventory)
	assert.Zero(t, result.CurrentScore)
}

func TestUnknownCommand(t *testing.T) {
	world, gameID, hal, _, _ := twoRoomWorld()
	bench := newTestBench(world, gameID)

	result, err := bench.process(hal.ID, "dans de polka")
	require.NoError(t, err)
	assert.Equal(t, "Ik begrijp 'dans de polka' niet.", result.Message)
}

func TestCommandScriptClaimsTurn(t *testing.T) {
	world, gameID, hal, _, _ := twoRoomWorld()
	world.scripts = append(world.scripts, models.Script{
		ID: uuid.New(), GameID: gameID,
		Trigger: "ON_COMMAND(zeg toverspreuk)",
		Action:  "SHOW_MESSAGE(\"Er flitst een blauw licht!\")\nADD_SCORE(5)",
	})
	bench := newTestBench(world, gameID)

	result, err := bench.process(hal.ID, "zeg toverspreuk")
	require.NoError(t, err)
	assert.Equal(t, "Er flitst een blauw licht!", result.Message)
	assert.Equal(t, 5, result.PointsAwarded)
	assert.Equal(t, 5, result.CurrentScore)

	// The command matches case-insensitively and is never treated as an
	// unknown verb.
	result, err = bench.process(hal.ID, "ZEG Toverspreuk")
	require.NoError(t, err)
	assert.Equal(t, "Er flitst een blauw licht!", result.Message)
	assert.Equal(t, 10, result.CurrentScore)
}

func TestConditionalEnterScript(t *testing.T) {
	world, gameID, hal, bieb, sword := twoRoomWorld()
	world.scripts = append(world.scripts, models.Script{
		ID: uuid.New(), GameID: gameID,
		Trigger:   "ON_ENTER",
		Condition: strPtr("HAS_ITEM(Sword)\nCURRENT_ROOM(\"Bibliotheek\")"),
		Action:    `SHOW_MESSAGE("Het zwaard gloeit tussen de boeken.")`,
	})
	bench := newTestBench(world, gameID)

	result, err := bench.process(hal.ID, "ga oost")
	require.NoError(t, err)
	assert.NotContains(t, result.Message, "gloeit", "condition fails without the item")

	bench.state().AddToInventory(sword.ID)
	result, err = bench.process(bieb.ID, "ga west")
	require.NoError(t, err)
	assert.NotContains(t, result.Message, "gloeit", "condition checks the destination room")

	result, err = bench.process(hal.ID, "ga oost")
	require.NoError(t, err)
	assert.Contains(t, result.Message, "Het zwaard gloeit tussen de boeken.")
}

func TestTakeScriptReplacesDefault(t *testing.T) {
	world, gameID, _, bieb, sword := twoRoomWorld()
	world.scripts = append(world.scripts, models.Script{
		ID: uuid.New(), GameID: gameID,
		Trigger: "ON_TAKE(Sword)",
		Action:  `SHOW_MESSAGE("Het zwaard zit muurvast.")`,
	})
	bench := newTestBench(world, gameID)

	result, err := bench.process(bieb.ID, "pak sword")
	require.NoError(t, err)
	assert.Equal(t, "Het zwaard zit muurvast.", result.Message)
	assert.False(t, bench.state().Holds(sword.ID), "script output replaces the default pickup")
}

func TestWinFlow(t *testing.T) {
	world, gameID, hal, _, _ := twoRoomWorld()
	winImage := "zege.jpg"
	world.games[gameID].WinImagePath = &winImage
	world.scripts = append(world.scripts, models.Script{
		ID: uuid.New(), GameID: gameID,
		Trigger: "ON_COMMAND(open schatkist)",
		Action:  "SHOW_MESSAGE(\"De schat is van jou!\")\nSET_STATE(game_won, true)",
	})
	bench := newTestBench(world, gameID)

	result, err := bench.process(hal.ID, "open schatkist")
	require.NoError(t, err)
	assert.True(t, result.GameWon)
	require.NotNil(t, result.WinImagePath)
	assert.Equal(t, "zege.jpg", *result.WinImagePath)
}

func TestLossFlow(t *testing.T) {
	world, gameID, hal, _, _ := twoRoomWorld()
	world.scripts = append(world.scripts, models.Script{
		ID: uuid.New(), GameID: gameID,
		Trigger: "ON_COMMAND(trek hendel)",
		Action: "SHOW_MESSAGE(\"De vloer klapt open.\")\n" +
			"SET_STATE(game_won, true)\n" +
			"SET_STATE(game_loss, true)\n" +
			"SET_STATE(loss_reason, \"Je viel in de put\")",
	})
	bench := newTestBench(world, gameID)

	result, err := bench.process(hal.ID, "trek hendel")
	require.NoError(t, err)
	assert.True(t, result.GameLoss)
	assert.False(t, result.GameWon, "a loss always beats a win")
	require.NotNil(t, result.LossReason)
	assert.Equal(t, "Je viel in de put", *result.LossReason)
	require.NotNil(t, result.LossImagePath)
	assert.Equal(t, "standaard_verloren.jpg", *result.LossImagePath, "no configured image falls back to the default")
}

func TestLookAtTargets(t *testing.T) {
	world, gameID, _, bieb, sword := twoRoomWorld()
	entityImage := "zwaard.png"
	world.entities[0].Description = "Een gekarteld zwaard."
	world.entities[0].ImagePath = &entityImage
	bench := newTestBench(world, gameID)

	result, err := bench.process(bieb.ID, "kijk sword")
	require.NoError(t, err)
	assert.Equal(t, "Een gekarteld zwaard.", result.Message)
	require.NotNil(t, result.EntityImagePath)
	assert.Equal(t, "zwaard.png", *result.EntityImagePath)

	result, err = bench.process(bieb.ID, "kijk west")
	require.NoError(t, err)
	assert.Equal(t, "De doorgang naar West is open.", result.Message)

	// Held items are inspectable; the room image is suppressed then.
	bench.state().AddToInventory(sword.ID)
	result, err = bench.process(bieb.ID, "kijk sword")
	require.NoError(t, err)
	assert.Equal(t, "Een gekarteld zwaard.", result.Message)
	assert.Nil(t, result.RoomImagePath)

	result, err = bench.process(bieb.ID, "kijk spook")
	require.NoError(t, err)
	assert.Equal(t, "Je ziet hier geen 'spook' en je hebt het ook niet bij je.", result.Message)
}

func TestDropAndPutIn(t *testing.T) {
	world, gameID, _, bieb, sword := twoRoomWorld()
	chest := models.Entity{
		ID: uuid.New(), GameID: gameID, RoomID: &bieb.ID,
		Type: models.EntityTypeItem, Name: "Kist", IsContainer: true,
	}
	world.entities = append(world.entities, chest)
	bench := newTestBench(world, gameID)

	result, err := bench.process(bieb.ID, "stop sword in kist")
	require.NoError(t, err)
	assert.Equal(t, "Je hebt geen 'sword' bij je.", result.Message)

	bench.state().AddToInventory(sword.ID)
	result, err = bench.process(bieb.ID, "stop sword in kist")
	require.NoError(t, err)
	assert.Equal(t, "Je stopt de Sword in de Kist.", result.Message)
	assert.False(t, bench.state().Holds(sword.ID))
	assert.Equal(t, models.InContainer(chest.ID), bench.state().EntityLocations[sword.ID])

	bench.state().AddToInventory(sword.ID)
	result, err = bench.process(bieb.ID, "leg sword")
	require.NoError(t, err)
	assert.Equal(t, "Je legt de Sword neer.", result.Message)
	assert.Equal(t, models.InRoom(bieb.ID), bench.state().EntityLocations[sword.ID])

	// Dropped items are visible and takable again.
	result, err = bench.process(bieb.ID, "kijk")
	require.NoError(t, err)
	assert.Contains(t, result.Message, "- Sword")
}

func TestAmbiguousHeldItems(t *testing.T) {
	world, gameID, hal, _, _ := twoRoomWorld()
	keyA := models.Entity{ID: uuid.New(), GameID: gameID, Type: models.EntityTypeItem, Name: "Sleutel", IsTakable: true}
	keyB := models.Entity{ID: uuid.New(), GameID: gameID, Type: models.EntityTypeItem, Name: "Sleutel", IsTakable: true}
	world.entities = append(world.entities, keyA, keyB)
	chest := models.Entity{
		ID: uuid.New(), GameID: gameID, RoomID: &hal.ID,
		Type: models.EntityTypeItem, Name: "Kist", IsContainer: true,
	}
	world.entities = append(world.entities, chest)
	bench := newTestBench(world, gameID)
	bench.state().AddToInventory(keyA.ID)
	bench.state().AddToInventory(keyB.ID)

	result, err := bench.process(hal.ID, "leg sleutel")
	require.NoError(t, err)
	assert.Equal(t, "Je hebt meerdere voorwerpen genaamd 'sleutel'. Wees specifieker.", result.Message)

	result, err = bench.process(hal.ID, "stop sleutel in kist")
	require.NoError(t, err)
	assert.Equal(t, "Je hebt meerdere voorwerpen genaamd 'sleutel'. Wees specifieker.", result.Message)

	result, err = bench.process(hal.ID, "kijk sleutel")
	require.NoError(t, err)
	assert.Equal(t, "Je hebt meerdere dingen genaamd 'sleutel' in je inventaris. Wees specifieker.", result.Message)

	// Nothing moved: both keys are still held.
	assert.True(t, bench.state().Holds(keyA.ID))
	assert.True(t, bench.state().Holds(keyB.ID))
	assert.Equal(t, models.InInventory(), bench.state().EntityLocations[keyA.ID])
	assert.Equal(t, models.InInventory(), bench.state().EntityLocations[keyB.ID])
}

func TestHighScoreReflectsUpserts(t *testing.T) {
	ctx := context.Background()
	world, gameID, hal, _, _ := twoRoomWorld()
	world.scripts = append(world.scripts, models.Script{
		ID: uuid.New(), GameID: gameID,
		Trigger: "ON_COMMAND(zeg toverwoord)",
		Action:  "SHOW_MESSAGE(\"Flits!\")\nADD_SCORE(12)",
	})
	bench := newTestBench(world, gameID)

	_, err := bench.engine.HighScore(ctx, bench.userID, bench.gameID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = bench.process(hal.ID, "zeg toverwoord")
	require.NoError(t, err)

	best, err := bench.engine.HighScore(ctx, bench.userID, bench.gameID)
	require.NoError(t, err)
	assert.Equal(t, 12, best.Score)
}
