package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/studymate-app/studymate/internal/client/models"
	"github.com/studymate-app/studymate/internal/client/session"
)

// wizardFake returns a fake whose profile flips to complete once an update
// has been written, the way the real backend behaves after onboarding.
func wizardFake() *fakeClient {
	fake := &fakeClient{
		identity: &models.Identity{ID: "u1", Email: "abhi@example.com"},
	}
	fake.fetchFn = func(_ context.Context, userID string) (*models.ProfileRow, error) {
		fake.mu.Lock()
		updated := fake.lastUpdate
		fake.mu.Unlock()
		row := &models.ProfileRow{UserID: userID, Name: "Abhi", Email: "abhi@example.com"}
		if updated != nil {
			row.UserType, _ = updated["user_type"].(string)
			row.ExamType, _ = updated["exam_type"].(string)
			row.College, _ = updated["college"].(string)
		}
		return row, nil
	}
	return fake
}

func TestRunWizardExamFlow(t *testing.T) {
	fake := wizardFake()

	input := strings.Join([]string{
		"Abhi",                 // name
		"17",                   // age
		"",                     // avatar: skip
		"exam",                 // mode
		"Physics, Chemistry",   // subjects
		"JEE",                  // exam type
		"2027",                 // target year
		"flashcards, quizzes",  // preferences
		"3",                    // hours per day
		"18:00",                // reminder
		"y",                    // submit
	}, "\n") + "\n"

	app, _ := newTestApp(t, fake, input)
	require.Equal(t, session.GateOnboarding, session.Gate(app.store.Snapshot()))

	require.True(t, app.runWizard(context.Background()))

	fake.mu.Lock()
	update := fake.lastUpdate
	fake.mu.Unlock()
	require.NotNil(t, update)
	assert.Equal(t, "exam", update["user_type"])
	assert.Equal(t, "JEE", update["exam_type"])
	assert.Equal(t, "2027", update["target_year"])
	assert.Equal(t, "Abhi", update["name"])
	assert.Equal(t, 17, update["age"])
	assert.JSONEq(t, `["Physics","Chemistry"]`, update["subjects"].(string))
	assert.Equal(t, 3.0, update["daily_study_hours"])

	// The refetched profile is complete, so the gate leaves onboarding.
	assert.Equal(t, session.GateReady, session.Gate(app.store.Snapshot()))
}

func TestRunWizardCollegeFlow(t *testing.T) {
	fake := wizardFake()

	input := strings.Join([]string{
		"Priya",       // name
		"",            // age: skip
		"",            // avatar: skip
		"college",     // mode
		"Algorithms",  // subjects
		"IIT Delhi",   // college
		"B.Tech CSE",  // course
		"4",           // semester
		"mind maps",   // preferences
		"2.5",         // hours per day
		"",            // reminder: skip
		"y",           // submit
	}, "\n") + "\n"

	app, _ := newTestApp(t, fake, input)
	require.True(t, app.runWizard(context.Background()))

	fake.mu.Lock()
	update := fake.lastUpdate
	fake.mu.Unlock()
	require.NotNil(t, update)
	assert.Equal(t, "college", update["user_type"])
	assert.Equal(t, "IIT Delhi", update["college"])
	assert.Equal(t, "4", update["semester"])
	assert.Equal(t, "B.Tech CSE", update["course"])
}

func TestRunWizardExitQuits(t *testing.T) {
	app, _ := newTestApp(t, wizardFake(), "exit\n")

	assert.False(t, app.runWizard(context.Background()))
}

// A failed submission keeps the wizard on review with the draft intact, so
// answering again retries without re-entering anything.
func TestRunWizardSubmitFailureRetries(t *testing.T) {
	fake := wizardFake()
	failures := 1
	fake.updateFn = func(context.Context, string, map[string]any) error {
		if failures > 0 {
			failures--
			return assert.AnError
		}
		return nil
	}

	input := strings.Join([]string{
		"Abhi", "", "", "exam", "Physics", "JEE", "2027", "quizzes", "1", "",
		"y", // submit: fails
		"y", // submit again: succeeds
	}, "\n") + "\n"

	app, out := newTestApp(t, fake, input)
	require.True(t, app.runWizard(context.Background()))

	assert.Contains(t, out.String(), "Could not save your profile")
}
