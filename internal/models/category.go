// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CategoryTranslation holds the localized fields of a category for one locale.
// Persisted is false for entries that exist only in memory: translations
// synthesized for an edit form, or submitted but not yet saved.
type CategoryTranslation struct {
	ID          uuid.UUID `json:"id"`
	Locale      string    `json:"locale"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Persisted   bool      `json:"persisted"`
}

// Blank reports whether neither title nor description carries content.
func (t CategoryTranslation) Blank() bool {
	return strings.TrimSpace(t.Title) == "" && strings.TrimSpace(t.Description) == ""
}

// CategoryHeadingLink places a category inside a heading's listing.
type CategoryHeadingLink struct {
	ID           uuid.UUID `json:"id"`
	CategoryID   uuid.UUID `json:"category_id"`
	HeadingID    uuid.UUID `json:"heading_id"`
	DisplayOrder int       `json:"display_order"`
}

// Category is a public body category. Bodies opt into a category by
// carrying its tag in their tag string.
type Category struct {
	ID           uuid.UUID                      `json:"id"`
	Tag          string                         `json:"category_tag"`
	Translations map[string]CategoryTranslation `json:"translations"`
	Headings     []CategoryHeadingLink          `json:"headings"`
	CreatedAt    time.Time                      `json:"created_at"`
	UpdatedAt    time.Time                      `json:"updated_at"`

	// DisplayOrder is set when the category is listed under a heading.
	DisplayOrder int `json:"display_order,omitempty"`
}

// Translation returns the translation for locale, if one is present.
func (c *Category) Translation(locale string) (CategoryTranslation, bool) {
	t, ok := c.Translations[locale]
	return t, ok
}

// Title returns the title in the given locale, or "" when untranslated.
func (c *Category) Title(locale string) string {
	return c.Translations[locale].Title
}

// Description returns the description in the given locale, or "".
func (c *Category) Description(locale string) string {
	return c.Translations[locale].Description
}

// Locales returns the locales that have a translation entry, sorted.
func (c *Category) Locales() []string {
	locales := make([]string, 0, len(c.Translations))
	for l := range c.Translations {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}

// HeadingIDs returns the ids of the linked headings in display order.
func (c *Category) HeadingIDs() []uuid.UUID {
	links := make([]CategoryHeadingLink, len(c.Headings))
	copy(links, c.Headings)
	sort.SliceStable(links, func(i, j int) bool {
		return links[i].DisplayOrder < links[j].DisplayOrder
	})
	ids := make([]uuid.UUID, len(links))
	for i, l := range links {
		ids[i] = l.HeadingID
	}
	return ids
}

// Clone returns a deep copy of the category.
func (c *Category) Clone() *Category {
	out := *c
	out.Translations = make(map[string]CategoryTranslation, len(c.Translations))
	for l, t := range c.Translations {
		out.Translations[l] = t
	}
	out.Headings = append([]CategoryHeadingLink(nil), c.Headings...)
	return &out
}

// SynthesizeLocales adds an empty, unpersisted translation for every
// locale in available that has no entry yet.
func (c *Category) SynthesizeLocales(available []string) {
	if c.Translations == nil {
		c.Translations = make(map[string]CategoryTranslation)
	}
	for _, l := range available {
		if _, ok := c.Translations[l]; !ok {
			c.Translations[l] = CategoryTranslation{Locale: l}
		}
	}
}

// Validate checks the category against the configured locales. The tag
// must be present and the default locale must carry a title and a
// description. Only unsaved translations are checked against available:
// rows stored under a locale that was later unconfigured stay valid.
func (c *Category) Validate(defaultLocale string, available []string) *ValidationError {
	fields := make(map[string]string)

	if strings.TrimSpace(c.Tag) == "" {
		fields["category_tag"] = "Tag can't be blank"
	}
	if strings.TrimSpace(c.Title(defaultLocale)) == "" {
		fields["title"] = "Title can't be blank"
	}
	if strings.TrimSpace(c.Description(defaultLocale)) == "" {
		fields["description"] = "Description can't be blank"
	}

	configured := make(map[string]bool, len(available))
	for _, l := range available {
		configured[l] = true
	}
	for _, l := range c.Locales() {
		if !configured[l] && !c.Translations[l].Persisted {
			fields["translations."+l] = "Locale is not configured"
		}
	}

	if len(fields) == 0 {
		return nil
	}
	return &ValidationError{Fields: fields, Entity: c}
}

// PersistableLocales returns the locales whose translation should be written:
// the default locale always, others only when they carry content.
func (c *Category) PersistableLocales(defaultLocale string) []string {
	var out []string
	for _, l := range c.Locales() {
		if l == defaultLocale || !c.Translations[l].Blank() {
			out = append(out, l)
		}
	}
	return out
}

// TranslationInput is the submitted content of a translation on create.
type TranslationInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// CategoryInput carries everything needed to create a category.
type CategoryInput struct {
	Tag          string                      `json:"category_tag"`
	Translations map[string]TranslationInput `json:"translations"`
	HeadingIDs   []uuid.UUID                 `json:"heading_ids"`
}

// NewCategory builds an unsaved category from create input.
func NewCategory(in CategoryInput) *Category {
	c := &Category{
		Tag:          strings.TrimSpace(in.Tag),
		Translations: make(map[string]CategoryTranslation, len(in.Translations)),
	}
	for l, t := range in.Translations {
		c.Translations[l] = CategoryTranslation{
			Locale:      l,
			Title:       t.Title,
			Description: t.Description,
		}
	}
	for i, id := range UniqueIDs(in.HeadingIDs) {
		c.Headings = append(c.Headings, CategoryHeadingLink{HeadingID: id, DisplayOrder: i})
	}
	return c
}

// TranslationPatch is a partial translation update. Nil fields are left
// untouched.
type TranslationPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// CategoryUpdate is a partial update of a category. Translations only
// touches the locales it names. A non-nil HeadingIDs replaces the whole
// heading set, even when it points at an empty slice.
type CategoryUpdate struct {
	Tag          *string                     `json:"category_tag"`
	Translations map[string]TranslationPatch `json:"translations"`
	HeadingIDs   *[]uuid.UUID                `json:"heading_ids"`
}

// UpdateResult is returned by a committed update. TagLocked reports that
// a requested tag change was dropped because bodies still use the tag.
type UpdateResult struct {
	Category  *Category `json:"category"`
	TagLocked bool      `json:"tag_locked"`
}

// TagLockedMessage is shown when a tag rename was refused.
const TagLockedMessage = "There are authorities associated with this category, so the tag can't be renamed"

// GuardTag strips a tag change from upd when the current tag is still
// referenced. The returned flag is true when a change was stripped.
func GuardTag(current *Category, upd CategoryUpdate, referenced bool) (CategoryUpdate, bool) {
	if upd.Tag == nil {
		return upd, false
	}
	if strings.TrimSpace(*upd.Tag) == current.Tag {
		upd.Tag = nil
		return upd, false
	}
	if referenced {
		upd.Tag = nil
		return upd, true
	}
	return upd, false
}

// Apply returns a copy of c with upd merged in. Existing translations keep
// their id and Persisted flag; new locales are added unpersisted.
func (c *Category) Apply(upd CategoryUpdate) *Category {
	out := c.Clone()

	if upd.Tag != nil {
		out.Tag = strings.TrimSpace(*upd.Tag)
	}

	for l, p := range upd.Translations {
		t, ok := out.Translations[l]
		if !ok {
			t = CategoryTranslation{Locale: l}
		}
		if p.Title != nil {
			t.Title = *p.Title
		}
		if p.Description != nil {
			t.Description = *p.Description
		}
		out.Translations[l] = t
	}

	if upd.HeadingIDs != nil {
		out.Headings = nil
		for i, id := range UniqueIDs(*upd.HeadingIDs) {
			out.Headings = append(out.Headings, CategoryHeadingLink{
				CategoryID:   c.ID,
				HeadingID:    id,
				DisplayOrder: i,
			})
		}
	}

	return out
}

// UniqueIDs drops duplicate ids, keeping first occurrences in order.
func UniqueIDs(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]bool, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
