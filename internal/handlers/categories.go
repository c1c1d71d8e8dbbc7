// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"foidesk/internal/cache"
	"foidesk/internal/markdown"
	"foidesk/internal/models"
)

// Notices returned alongside successful category mutations.
const (
	noticeCreated   = "Category was successfully created."
	noticeUpdated   = "Category was successfully updated."
	noticeDestroyed = "Category was successfully destroyed."
)

// listedCategory is a category rendered for one locale in the index.
type listedCategory struct {
	ID              uuid.UUID `json:"id"`
	Tag             string    `json:"category_tag"`
	Title           string    `json:"title"`
	Description     string    `json:"description"`
	DescriptionHTML string    `json:"description_html"`
	DisplayOrder    int       `json:"display_order"`
}

type listedHeading struct {
	ID           uuid.UUID        `json:"id"`
	Name         string           `json:"name"`
	DisplayOrder int              `json:"display_order"`
	Categories   []listedCategory `json:"categories"`
}

type categoryIndex struct {
	Locale   string           `json:"locale"`
	Headings []listedHeading  `json:"headings"`
	Unheaded []listedCategory `json:"unheaded"`
}

func listCategory(c models.Category, loc string) listedCategory {
	desc := c.Description(loc)
	html, err := markdown.ToHTML(desc)
	if err != nil {
		slog.Warn("render category description failed", "category_id", c.ID, "error", err)
	}
	return listedCategory{
		ID:              c.ID,
		Tag:             c.Tag,
		Title:           c.Title(loc),
		Description:     desc,
		DescriptionHTML: html,
		DisplayOrder:    c.DisplayOrder,
	}
}

// CategoriesIndex lists headings with their categories plus the categories
// that belong to no heading, rendered in the request locale.
func (a *Admin) CategoriesIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	loc := a.locales.Current(ctx)
	key := cache.LocaleKey(loc)

	if a.listingCache != nil {
		if body, ok := a.listingCache.Get(ctx, key); ok {
			w.Header().Set("X-Cache", "HIT")
			writeRaw(w, http.StatusOK, body)
			return
		}
	}

	headings, err := a.categories.ListHeadingsWithCategories(ctx)
	if err != nil {
		writeStoreError(w, r, "list headings", err)
		return
	}
	unheaded, err := a.categories.ListUnheadedCategories(ctx)
	if err != nil {
		writeStoreError(w, r, "list unheaded categories", err)
		return
	}

	idx := categoryIndex{
		Locale:   loc,
		Headings: make([]listedHeading, 0, len(headings)),
		Unheaded: make([]listedCategory, 0, len(unheaded)),
	}
	for _, h := range headings {
		lh := listedHeading{
			ID:           h.ID,
			Name:         h.Name(loc),
			DisplayOrder: h.DisplayOrder,
			Categories:   make([]listedCategory, 0, len(h.Categories)),
		}
		for _, c := range h.Categories {
			lh.Categories = append(lh.Categories, listCategory(c, loc))
		}
		idx.Headings = append(idx.Headings, lh)
	}
	for _, c := range unheaded {
		idx.Unheaded = append(idx.Unheaded, listCategory(c, loc))
	}

	body, err := json.Marshal(idx)
	if err != nil {
		writeStoreError(w, r, "encode category index", err)
		return
	}
	if a.listingCache != nil {
		a.listingCache.Set(ctx, key, body)
		w.Header().Set("X-Cache", "MISS")
	}
	writeRaw(w, http.StatusOK, body)
}

// CategoryNew returns a blank category with an empty translation for
// every configured locale, plus the headings it can be linked to.
func (a *Admin) CategoryNew(w http.ResponseWriter, r *http.Request) {
	headings, err := a.headings.List(r.Context())
	if err != nil {
		writeStoreError(w, r, "list headings", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"category": a.categories.New(),
		"headings": headings,
	})
}

// CategoryCreate creates a category from a JSON CategoryInput.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	var in models.CategoryInput
	if err := decodeJSON(w, r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if verr := validateCategoryInput(in); verr != nil {
		c := models.NewCategory(in)
		c.SynthesizeLocales(a.locales.Available())
		verr.Entity = c
		writeStoreError(w, r, "create category", verr)
		return
	}

	c, err := a.categories.Create(r.Context(), in)
	if err != nil {
		writeStoreError(w, r, "create category", err)
		return
	}
	a.invalidateListing(r.Context())

	slog.Info("category created", "category_id", c.ID, "tag", c.Tag)
	writeJSON(w, http.StatusCreated, map[string]any{
		"category": c,
		"notice":   noticeCreated,
	})
}

// categoryEdit is the edit view: the category with every configured locale
// present, and the bodies that currently carry its tag.
type categoryEdit struct {
	Category     *models.Category    `json:"category"`
	TaggedBodies []models.PublicBody `json:"tagged_bodies"`
	TagEditable  bool                `json:"tag_editable"`
}

func (a *Admin) loadEdit(r *http.Request, id uuid.UUID) (*categoryEdit, error) {
	c, err := a.categories.FindForEdit(r.Context(), id)
	if err != nil {
		return nil, err
	}
	bodies, err := a.categories.TaggedBodies(r.Context(), c.Tag)
	if err != nil {
		return nil, err
	}
	if bodies == nil {
		bodies = []models.PublicBody{}
	}
	return &categoryEdit{Category: c, TaggedBodies: bodies, TagEditable: len(bodies) == 0}, nil
}

// CategoryEdit returns the edit view of a category.
func (a *Admin) CategoryEdit(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	edit, err := a.loadEdit(r, id)
	if err != nil {
		writeStoreError(w, r, "load category", err)
		return
	}
	writeJSON(w, http.StatusOK, edit)
}

// CategoryUpdate applies a partial update. A refused tag rename is not an
// error: the rest of the update is saved and tag_locked is reported.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	var upd models.CategoryUpdate
	if err := decodeJSON(w, r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if verr := validateCategoryUpdate(upd); verr != nil {
		merged, err := a.mergedForForm(r, id, upd)
		if err != nil {
			writeStoreError(w, r, "update category", err)
			return
		}
		verr.Entity = merged
		writeStoreError(w, r, "update category", verr)
		return
	}

	res, err := a.categories.Update(r.Context(), id, upd)
	if err != nil {
		writeStoreError(w, r, "update category", err)
		return
	}
	a.invalidateListing(r.Context())

	resp := map[string]any{
		"category":   res.Category,
		"tag_locked": res.TagLocked,
	}
	if res.TagLocked {
		slog.Info("category tag rename refused", "category_id", id, "tag", res.Category.Tag)
		resp["error"] = models.TagLockedMessage
	} else {
		resp["notice"] = noticeUpdated
	}
	writeJSON(w, http.StatusOK, resp)
}

// mergedForForm returns the stored category with upd applied and a slot for
// every configured locale, the same shape the store rejects with.
func (a *Admin) mergedForForm(r *http.Request, id uuid.UUID, upd models.CategoryUpdate) (*models.Category, error) {
	current, err := a.categories.FindForEdit(r.Context(), id)
	if err != nil {
		return nil, err
	}
	merged := current.Apply(upd)
	merged.SynthesizeLocales(a.locales.Available())
	return merged, nil
}

// CategoryDelete removes a category. Bodies carrying its tag are left alone.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := a.categories.Delete(r.Context(), id); err != nil {
		writeStoreError(w, r, "delete category", err)
		return
	}
	a.invalidateListing(r.Context())

	slog.Info("category deleted", "category_id", id)
	writeJSON(w, http.StatusOK, map[string]string{"notice": noticeDestroyed})
}
