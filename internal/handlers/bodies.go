package handlers

import (
	"log/slog"
	"net/http"
)

type bodyInput struct {
	Name      string `json:"name"`
	TagString string `json:"tag_string"`
}

type bodyTagsInput struct {
	TagString string `json:"tag_string"`
}

// BodyCreate creates a public body from {"name", "tag_string"}.
func (a *Admin) BodyCreate(w http.ResponseWriter, r *http.Request) {
	var in bodyInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	b, err := a.bodies.Create(r.Context(), in.Name, in.TagString)
	if err != nil {
		writeStoreError(w, r, "create public body", err)
		return
	}

	slog.Info("public body created", "body_id", b.ID)
	writeJSON(w, http.StatusCreated, map[string]any{
		"public_body": b,
		"notice":      "Public body was successfully created.",
	})
}

// BodyShow returns a public body.
func (a *Admin) BodyShow(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	b, err := a.bodies.FindByID(r.Context(), id)
	if err != nil {
		writeStoreError(w, r, "find public body", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"public_body": b, "tags": b.Tags()})
}

// BodySetTags replaces the tag string of a body. Adding a category tag here
// locks that category's tag against renames.
func (a *Admin) BodySetTags(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var in bodyTagsInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	b, err := a.bodies.FindByID(ctx, id)
	if err != nil {
		writeStoreError(w, r, "find public body", err)
		return
	}
	if err := a.bodies.SetTags(ctx, b, in.TagString); err != nil {
		writeStoreError(w, r, "set public body tags", err)
		return
	}

	slog.Info("public body tags updated", "body_id", b.ID, "tags", b.TagString)
	writeJSON(w, http.StatusOK, map[string]any{
		"public_body": b,
		"tags":        b.Tags(),
		"notice":      "Public body was successfully updated.",
	})
}
