package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
)

type requestInput struct {
	Title        string    `json:"title"`
	URLTitle     string    `json:"url_title"`
	PublicBodyID uuid.UUID `json:"public_body_id"`
	UserID       uuid.UUID `json:"user_id"`
}

type eventInput struct {
	EventType string `json:"event_type"`
}

type classificationInput struct {
	UserID uuid.UUID `json:"user_id"`
}

// RequestCreate records a request sent by a user to a public body. The
// response carries the initial "sent" event.
func (a *Admin) RequestCreate(w http.ResponseWriter, r *http.Request) {
	var in requestInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	fields := make(map[string]string)
	if in.PublicBodyID == uuid.Nil {
		fields["public_body_id"] = "Public body can't be blank"
	}
	if in.UserID == uuid.Nil {
		fields["user_id"] = "User can't be blank"
	}
	if verr := fieldErrors(fields, in); verr != nil {
		writeStoreError(w, r, "create request", verr)
		return
	}

	e, err := a.events.CreateRequest(r.Context(), in.Title, in.URLTitle, in.PublicBodyID, in.UserID)
	if err != nil {
		writeStoreError(w, r, "create request", err)
		return
	}

	slog.Info("info request created", "request_id", e.InfoRequest.ID, "body_id", in.PublicBodyID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"event":  e,
		"path":   e.InfoRequest.Path(),
		"notice": "Request was successfully created.",
	})
}

// RequestAddEvent appends an event to a request. A "response" event puts
// the request in the request game until someone classifies it.
func (a *Admin) RequestAddEvent(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in eventInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	e, err := a.events.AddEvent(r.Context(), id, in.EventType)
	if err != nil {
		writeStoreError(w, r, "add request event", err)
		return
	}

	slog.Info("info request event added", "request_id", id, "event_type", e.EventType)
	writeJSON(w, http.StatusCreated, map[string]any{
		"event":           e,
		"categorise_path": e.InfoRequest.CategorisePath(),
	})
}

// EventClassify records that a user classified an event, which counts
// towards the league table and clears the request from the request game.
func (a *Admin) EventClassify(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in classificationInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if in.UserID == uuid.Nil {
		writeStoreError(w, r, "classify event", fieldErrors(map[string]string{"user_id": "User can't be blank"}, in))
		return
	}

	if err := a.classifications.Record(r.Context(), in.UserID, id); err != nil {
		writeStoreError(w, r, "classify event", err)
		return
	}

	slog.Info("event classified", "event_id", id, "user_id", in.UserID)
	writeJSON(w, http.StatusCreated, map[string]string{"notice": "Thank you for classifying this request."})
}
