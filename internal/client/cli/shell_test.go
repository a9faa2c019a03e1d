package cli

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymate-app/studymate/internal/client/models"
)

func shellFake() *fakeClient {
	return &fakeClient{
		identity: &models.Identity{ID: "u1", Email: "abhi@example.com"},
		fetchFn: func(_ context.Context, userID string) (*models.ProfileRow, error) {
			return completeRow(userID), nil
		},
	}
}

func TestShellSignOut(t *testing.T) {
	app, _ := newTestApp(t, shellFake(), "signout\n")

	assert.True(t, app.shell(context.Background()))
	assert.Nil(t, app.store.Snapshot().Profile)
}

func TestShellSignOutFailureKeepsSession(t *testing.T) {
	fake := shellFake()
	fake.signOutFn = func(context.Context) error { return assert.AnError }

	app, out := newTestApp(t, fake, "signout\nexit\n")

	assert.False(t, app.shell(context.Background()))
	assert.NotNil(t, app.store.Snapshot().Profile)
	assert.Contains(t, out.String(), "still signed in")
}

func TestShellGenerateAndSaveDeck(t *testing.T) {
	fake := shellFake()
	fake.invokeFn = func(_ context.Context, name string, payload, result any) error {
		require.Equal(t, "generate-study-content", name)
		raw, _ := json.Marshal(map[string]any{
			"cards": []models.Flashcard{{Front: "V = ?", Back: "IR"}},
		})
		return json.Unmarshal(raw, result)
	}

	input := "generate Electricity\n" + // command
		"Physics\n" + // subject prompt
		"y\n" + // save
		"exit\n"
	app, out := newTestApp(t, fake, input)

	assert.False(t, app.shell(context.Background()))
	assert.Contains(t, out.String(), "V = ?")
	assert.Contains(t, out.String(), "Saved.")

	fake.mu.Lock()
	insert := fake.lastInsert
	fake.mu.Unlock()
	require.NotNil(t, insert)
	assert.Equal(t, "u1", insert["user_id"])
	assert.Equal(t, "Electricity", insert["title"])
}

func TestShellDashboard(t *testing.T) {
	app, out := newTestApp(t, shellFake(), "dashboard\nexit\n")

	assert.False(t, app.shell(context.Background()))
	assert.Contains(t, out.String(), "Abhi (exam)")
	assert.Contains(t, out.String(), "preparing for JEE")
}

func TestShellListDecks(t *testing.T) {
	fake := shellFake()
	fake.listFn = func(_ context.Context, table, userID string, result any) error {
		require.Equal(t, "decks", table)
		raw, _ := json.Marshal([]models.Deck{
			{Title: "Electricity", Subject: "Physics", Cards: []models.Flashcard{{}}},
		})
		return json.Unmarshal(raw, result)
	}

	app, out := newTestApp(t, fake, "decks\nexit\n")

	assert.False(t, app.shell(context.Background()))
	assert.Contains(t, out.String(), "Electricity [Physics] (1 cards)")
}

func TestShellUnknownCommand(t *testing.T) {
	app, out := newTestApp(t, shellFake(), "frobnicate\nexit\n")

	assert.False(t, app.shell(context.Background()))
	assert.Contains(t, out.String(), "Unknown command: frobnicate")
}
