package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestGetProfile_OwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	userID, tr := env.signUpAndSignIn(t, "abhi@example.com", "hunter2secret", "Abhi")

	resp, body := env.do(t, http.MethodGet, "/v1/profiles/"+userID, tr.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	var p map[string]any
	if err := json.Unmarshal(body, &p); err != nil || p["name"] != "Abhi" {
		t.Fatalf("unexpected profile: %s (%v)", body, err)
	}

	resp, body = env.do(t, http.MethodGet, "/v1/profiles/someone-else", tr.AccessToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	if errCode(t, body) != "forbidden" {
		t.Fatalf("unexpected code: %s", body)
	}
}

func TestPatchProfile_UpdatesAndReturnsProfile(t *testing.T) {
	env := newTestEnv(t)
	userID, tr := env.signUpAndSignIn(t, "abhi@example.com", "hunter2secret", "Abhi")

	resp, body := env.do(t, http.MethodPatch, "/v1/profiles/"+userID, tr.AccessToken, map[string]any{
		"user_type": "exam",
		"exam_type": "JEE",
		"subjects":  []string{"Physics", "Chemistry"},
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	var p map[string]any
	if err := json.Unmarshal(body, &p); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if p["user_type"] != "exam" || p["exam_type"] != "JEE" {
		t.Fatalf("update not applied: %s", body)
	}
	if p["subjects"] != `["Physics","Chemistry"]` {
		t.Fatalf("subjects not JSON-encoded: %v", p["subjects"])
	}
}

func TestPatchProfile_RejectsServerOwnedColumns(t *testing.T) {
	env := newTestEnv(t)
	userID, tr := env.signUpAndSignIn(t, "abhi@example.com", "hunter2secret", "Abhi")

	resp, body := env.do(t, http.MethodPatch, "/v1/profiles/"+userID, tr.AccessToken, map[string]any{
		"experience_points": 99999,
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	if errCode(t, body) != "validation_failed" {
		t.Fatalf("unexpected code: %s", body)
	}
}

func TestRows_InsertAndList(t *testing.T) {
	env := newTestEnv(t)
	userID, tr := env.signUpAndSignIn(t, "abhi@example.com", "hunter2secret", "Abhi")

	resp, body := env.do(t, http.MethodPost, "/v1/tables/decks", tr.AccessToken, map[string]any{
		"title":   "Electricity",
		"subject": "Physics",
		"user_id": userID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	var inserted map[string]any
	if err := json.Unmarshal(body, &inserted); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if inserted["user_id"] != userID || inserted["title"] != "Electricity" || inserted["id"] == "" {
		t.Fatalf("unexpected row: %s", body)
	}

	resp, body = env.do(t, http.MethodGet, "/v1/tables/decks?user_id="+userID, tr.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	var rows []map[string]any
	if err := json.Unmarshal(body, &rows); err != nil || len(rows) != 1 {
		t.Fatalf("unexpected rows: %s (%v)", body, err)
	}
	if rows[0]["subject"] != "Physics" {
		t.Fatalf("row not flattened: %v", rows[0])
	}
}

func TestRows_ListEmptyIsArray(t *testing.T) {
	env := newTestEnv(t)
	_, tr := env.signUpAndSignIn(t, "abhi@example.com", "hunter2secret", "Abhi")

	resp, body := env.do(t, http.MethodGet, "/v1/tables/notifications", tr.AccessToken, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	if string(body) != "[]\n" {
		t.Fatalf("expected empty array, got %q", body)
	}
}

func TestRows_ForeignUserFilterForbidden(t *testing.T) {
	env := newTestEnv(t)
	_, tr := env.signUpAndSignIn(t, "abhi@example.com", "hunter2secret", "Abhi")

	resp, body := env.do(t, http.MethodGet, "/v1/tables/decks?user_id=other", tr.AccessToken, nil)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
}

func TestRows_UnknownTable(t *testing.T) {
	env := newTestEnv(t)
	_, tr := env.signUpAndSignIn(t, "abhi@example.com", "hunter2secret", "Abhi")

	resp, body := env.do(t, http.MethodGet, "/v1/tables/users", tr.AccessToken, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
}

func TestInvokeFunction_ProxiesGenerate(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"cards":[{"front":"Q1","back":"A1"}]}`))
	}))
	defer upstream.Close()

	env := newTestEnv(t)
	env.cfg.GenerateEndpoint = upstream.URL
	_, tr := env.signUpAndSignIn(t, "abhi@example.com", "hunter2secret", "Abhi")

	resp, body := env.do(t, http.MethodPost, "/v1/functions/generate-study-content", tr.AccessToken, map[string]any{
		"kind": "flashcards", "subject": "Physics", "topic": "Optics", "count": 10,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	var out struct {
		Cards []map[string]string `json:"cards"`
	}
	if err := json.Unmarshal(body, &out); err != nil || len(out.Cards) != 1 {
		t.Fatalf("unexpected body: %s (%v)", body, err)
	}
}

func TestInvokeFunction_UnknownName(t *testing.T) {
	env := newTestEnv(t)
	_, tr := env.signUpAndSignIn(t, "abhi@example.com", "hunter2secret", "Abhi")

	resp, body := env.do(t, http.MethodPost, "/v1/functions/nope", tr.AccessToken, map[string]any{})
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
}

func TestPresign_ReturnsKeyAndURL(t *testing.T) {
	env := newTestEnv(t)
	_, tr := env.signUpAndSignIn(t, "abhi@example.com", "hunter2secret", "Abhi")

	resp, body := env.do(t, http.MethodPost, "/v1/storage/presign", tr.AccessToken, map[string]string{
		"content_type": "image/png",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status %d: %s", resp.StatusCode, body)
	}
	var out struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &out); err != nil || out.Key == "" || out.URL == "" {
		t.Fatalf("unexpected body: %s (%v)", body, err)
	}
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.do(t, http.MethodGet, "/healthz", "", nil)
	if resp.StatusCode != http.StatusOK || string(body) != "ok" {
		t.Fatalf("status %d body %q", resp.StatusCode, body)
	}
}
