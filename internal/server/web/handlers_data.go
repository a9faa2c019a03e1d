package web

import (
	"encoding/json"
	"io"
	"net/http"
)

func (rt *Router) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	if r.PathValue("id") != userID {
		WriteErrorCode(w, http.StatusForbidden, "forbidden", "profiles are owner-only")
		return
	}
	profile, err := rt.profiles.Get(r.Context(), userID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, profile)
}

func (rt *Router) handlePatchProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	if r.PathValue("id") != userID {
		WriteErrorCode(w, http.StatusForbidden, "forbidden", "profiles are owner-only")
		return
	}
	var fields map[string]any
	if err := decodeJSON(r, &fields); err != nil {
		WriteError(w, err)
		return
	}
	profile, err := rt.profiles.Update(r.Context(), userID, fields)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, profile)
}

func (rt *Router) handleListRows(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	// Rows are always owner-scoped; a user_id filter for someone else is a
	// permission error, not an empty result.
	if q := r.URL.Query().Get("user_id"); q != "" && q != userID {
		WriteErrorCode(w, http.StatusForbidden, "forbidden", "rows are owner-only")
		return
	}
	rows, err := rt.rows.List(r.Context(), r.PathValue("table"), userID)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, rows)
}

func (rt *Router) handleInsertRow(w http.ResponseWriter, r *http.Request) {
	userID, _ := UserIDFromContext(r.Context())
	var fields map[string]any
	if err := decodeJSON(r, &fields); err != nil {
		WriteError(w, err)
		return
	}
	row, err := rt.rows.Insert(r.Context(), r.PathValue("table"), userID, fields)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, row)
}

func (rt *Router) handleInvokeFunction(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		WriteError(w, err)
		return
	}
	out, err := rt.functions.Invoke(r.Context(), r.PathValue("name"), json.RawMessage(body))
	if err != nil {
		WriteError(w, err)
		return
	}
	NoCache(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(out)
}

func (rt *Router) handlePresign(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ContentType string `json:"content_type"`
	}
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, err)
		return
	}
	key, url, err := rt.storage.GetPresignedPutUrl(r.Context(), req.ContentType)
	if err != nil {
		WriteError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"key": key, "url": url})
}
