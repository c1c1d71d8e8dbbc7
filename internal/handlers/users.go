package handlers

import (
	"log/slog"
	"net/http"
	"strings"
)

type userInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type bounceInput struct {
	Message string `json:"message"`
}

// UserCreate registers a user from {"name", "email"}.
func (a *Admin) UserCreate(w http.ResponseWriter, r *http.Request) {
	var in userInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	u, err := a.users.Create(r.Context(), in.Name, in.Email)
	if err != nil {
		writeStoreError(w, r, "create user", err)
		return
	}

	slog.Info("user created", "user_id", u.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"user":   u,
		"notice": "User was successfully created.",
	})
}

// UserShow returns a user with its email bounce state.
func (a *Admin) UserShow(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	u, err := a.users.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, "find user", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"user":          u,
		"email_bounced": u.EmailBounced(),
	})
}

// UserClearBounce resets the email bounce state of a user.
func (a *Admin) UserClearBounce(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.users.ClearBounce(r.Context(), id); err != nil {
		writeStoreError(w, r, "clear bounce", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"notice": "Bounce status cleared."})
}

// UserRecordBounce marks the user's email as bounced with the delivery
// failure message, as reported by the mail handler.
func (a *Admin) UserRecordBounce(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in bounceInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	msg := strings.TrimSpace(in.Message)
	if msg == "" {
		writeStoreError(w, r, "record bounce", fieldErrors(map[string]string{"message": "Message can't be blank"}, in))
		return
	}
	if err := a.users.RecordBounce(r.Context(), id, msg); err != nil {
		writeStoreError(w, r, "record bounce", err)
		return
	}

	slog.Info("email bounce recorded", "user_id", id)
	writeJSON(w, http.StatusOK, map[string]string{"notice": "Bounce recorded."})
}
