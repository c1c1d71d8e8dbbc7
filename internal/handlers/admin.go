// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers of the foidesk admin.
// Handlers are grouped by concern (categories, headings, bodies, requests,
// reports) and receive their dependencies through the Admin struct.
package handlers

import (
	"context"
	"time"

	"github.com/google/uuid"

	"foidesk/internal/locale"
	"foidesk/internal/models"
)

// CategoryRepository is the category aggregate as seen by the handlers.
type CategoryRepository interface {
	New() *models.Category
	Create(ctx context.Context, in models.CategoryInput) (*models.Category, error)
	FindForEdit(ctx context.Context, id uuid.UUID) (*models.Category, error)
	Update(ctx context.Context, id uuid.UUID, upd models.CategoryUpdate) (*models.UpdateResult, error)
	Delete(ctx context.Context, id uuid.UUID) error
	TaggedBodies(ctx context.Context, tag string) ([]models.PublicBody, error)
	ListHeadingsWithCategories(ctx context.Context) ([]models.Heading, error)
	ListUnheadedCategories(ctx context.Context) ([]models.Category, error)
}

// HeadingRepository manages headings.
type HeadingRepository interface {
	List(ctx context.Context) ([]models.Heading, error)
	Create(ctx context.Context, in models.HeadingInput) (*models.Heading, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BodyRepository manages public bodies and their tag strings.
type BodyRepository interface {
	Create(ctx context.Context, name, tagString string) (*models.PublicBody, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.PublicBody, error)
	SetTags(ctx context.Context, b *models.PublicBody, tagString string) error
}

// UserRepository manages users and their bounce state.
type UserRepository interface {
	Create(ctx context.Context, name, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	RecordBounce(ctx context.Context, id uuid.UUID, message string) error
	ClearBounce(ctx context.Context, id uuid.UUID) error
}

// EventRepository writes requests and their events and loads them for
// activity feeds and the request game.
type EventRepository interface {
	ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Event, error)
	CreateRequest(ctx context.Context, title, urlTitle string, bodyID, userID uuid.UUID) (*models.Event, error)
	AddEvent(ctx context.Context, requestID uuid.UUID, eventType string) (*models.Event, error)
	ListAwaitingClassification(ctx context.Context, limit int) ([]models.InfoRequest, error)
}

// ClassificationRepository records request classifications and ranks the
// users who made them.
type ClassificationRepository interface {
	Record(ctx context.Context, userID, eventID uuid.UUID) error
	LeagueTable(ctx context.Context, limit int, since *time.Time) ([]models.LeagueEntry, error)
}

// ListingCache stores the rendered category index per locale.
type ListingCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, body []byte)
	InvalidateAll(ctx context.Context)
}

// Admin groups all admin HTTP handlers and their dependencies.
type Admin struct {
	categories      CategoryRepository
	headings        HeadingRepository
	bodies          BodyRepository
	users           UserRepository
	events          EventRepository
	classifications ClassificationRepository
	listingCache    ListingCache
	locales         *locale.Provider
	now             func() time.Time
}

// NewAdmin creates the admin handler group. listingCache may be nil, in
// which case the index is built on every request.
func NewAdmin(categories CategoryRepository, headings HeadingRepository, bodies BodyRepository, users UserRepository, events EventRepository, classifications ClassificationRepository, listingCache ListingCache, locales *locale.Provider) *Admin {
	return &Admin{
		categories:      categories,
		headings:        headings,
		bodies:          bodies,
		users:           users,
		events:          events,
		classifications: classifications,
		listingCache:    listingCache,
		locales:         locales,
		now:             time.Now,
	}
}

// invalidateListing drops every cached index after a mutation.
func (a *Admin) invalidateListing(ctx context.Context) {
	if a.listingCache != nil {
		a.listingCache.InvalidateAll(ctx)
	}
}
