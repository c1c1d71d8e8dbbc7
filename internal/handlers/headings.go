package handlers

import (
	"log/slog"
	"net/http"

	"foidesk/internal/models"
)

// HeadingsList returns every heading with its localized names.
func (a *Admin) HeadingsList(w http.ResponseWriter, r *http.Request) {
	headings, err := a.headings.List(r.Context())
	if err != nil {
		writeStoreError(w, r, "list headings", err)
		return
	}
	if headings == nil {
		headings = []models.Heading{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"headings": headings})
}

// HeadingCreate creates a heading from a JSON HeadingInput.
func (a *Admin) HeadingCreate(w http.ResponseWriter, r *http.Request) {
	var in models.HeadingInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if verr := validateHeadingInput(in); verr != nil {
		writeStoreError(w, r, "create heading", verr)
		return
	}

	h, err := a.headings.Create(r.Context(), in)
	if err != nil {
		writeStoreError(w, r, "create heading", err)
		return
	}
	a.invalidateListing(r.Context())

	slog.Info("heading created", "heading_id", h.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"heading": h,
		"notice":  "Heading was successfully created.",
	})
}

// HeadingDelete removes a heading and its links. Linked categories survive
// and show up as unheaded if they have no other heading.
func (a *Admin) HeadingDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.headings.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, "delete heading", err)
		return
	}
	a.invalidateListing(r.Context())

	slog.Info("heading deleted", "heading_id", id)
	writeJSON(w, http.StatusOK, map[string]string{"notice": "Heading was successfully destroyed."})
}
