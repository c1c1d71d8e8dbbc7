// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides in-memory fakes of the repositories the admin
// handlers depend on, plus request helpers.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"foidesk/internal/locale"
	"foidesk/internal/models"
)

var errBoom = errors.New("connection reset")

// fakeCategories keeps categories in memory and applies the same model
// rules as the real store.
type fakeCategories struct {
	locales    *locale.Provider
	categories map[uuid.UUID]*models.Category
	bodies     []models.PublicBody
	headings   []models.Heading
	unheaded   []models.Category
	listCalls  int
	err        error
}

func newFakeCategories(p *locale.Provider) *fakeCategories {
	return &fakeCategories{locales: p, categories: make(map[uuid.UUID]*models.Category)}
}

func (f *fakeCategories) add(tag string, titles map[string]string) *models.Category {
	c := &models.Category{ID: uuid.New(), Tag: tag, Translations: map[string]models.CategoryTranslation{}}
	for l, title := range titles {
		c.Translations[l] = models.CategoryTranslation{
			ID: uuid.New(), Locale: l, Title: title, Description: title + " bodies", Persisted: true,
		}
	}
	f.categories[c.ID] = c
	return c
}

func (f *fakeCategories) referenced(tag string) bool {
	for _, b := range f.bodies {
		if b.HasTag(tag) {
			return true
		}
	}
	return false
}

func (f *fakeCategories) New() *models.Category {
	c := &models.Category{}
	c.SynthesizeLocales(f.locales.Available())
	return c
}

func (f *fakeCategories) Create(_ context.Context, in models.CategoryInput) (*models.Category, error) {
	if f.err != nil {
		return nil, f.err
	}
	c := models.NewCategory(in)
	if verr := c.Validate(f.locales.Default(), f.locales.Available()); verr != nil {
		c.SynthesizeLocales(f.locales.Available())
		return nil, verr
	}
	c.ID = uuid.New()
	f.categories[c.ID] = c
	return c.Clone(), nil
}

func (f *fakeCategories) FindForEdit(_ context.Context, id uuid.UUID) (*models.Category, error) {
	c, ok := f.categories[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	out := c.Clone()
	out.SynthesizeLocales(f.locales.Available())
	return out, nil
}

func (f *fakeCategories) Update(_ context.Context, id uuid.UUID, upd models.CategoryUpdate) (*models.UpdateResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	c, ok := f.categories[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	upd, locked := models.GuardTag(c, upd, f.referenced(c.Tag))
	merged := c.Apply(upd)
	if verr := merged.Validate(f.locales.Default(), f.locales.Available()); verr != nil {
		return nil, verr
	}
	f.categories[id] = merged
	return &models.UpdateResult{Category: merged.Clone(), TagLocked: locked}, nil
}

func (f *fakeCategories) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.categories[id]; !ok {
		return models.ErrNotFound
	}
	delete(f.categories, id)
	return nil
}

func (f *fakeCategories) TaggedBodies(_ context.Context, tag string) ([]models.PublicBody, error) {
	var out []models.PublicBody
	for _, b := range f.bodies {
		if b.HasTag(tag) {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *fakeCategories) ListHeadingsWithCategories(context.Context) ([]models.Heading, error) {
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.headings, nil
}

func (f *fakeCategories) ListUnheadedCategories(context.Context) ([]models.Category, error) {
	return f.unheaded, nil
}

type fakeHeadings struct {
	headings []models.Heading
	deleted  []uuid.UUID
}

func (f *fakeHeadings) List(context.Context) ([]models.Heading, error) {
	return f.headings, nil
}

func (f *fakeHeadings) Create(_ context.Context, in models.HeadingInput) (*models.Heading, error) {
	if verr := models.ValidateHeading(in, "en"); verr != nil {
		return nil, verr
	}
	h := models.Heading{ID: uuid.New(), Names: in.Names, DisplayOrder: in.DisplayOrder}
	f.headings = append(f.headings, h)
	return &h, nil
}

func (f *fakeHeadings) Delete(_ context.Context, id uuid.UUID) error {
	for i, h := range f.headings {
		if h.ID == id {
			f.headings = append(f.headings[:i], f.headings[i+1:]...)
			f.deleted = append(f.deleted, id)
			return nil
		}
	}
	return models.ErrNotFound
}

type fakeBodies struct {
	bodies map[uuid.UUID]*models.PublicBody
}

func (f *fakeBodies) Create(_ context.Context, name, tagString string) (*models.PublicBody, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &models.ValidationError{
			Fields: map[string]string{"name": "Name can't be blank"},
			Entity: &models.PublicBody{TagString: tagString},
		}
	}
	b := &models.PublicBody{ID: uuid.New(), Name: name, URLName: strings.ToLower(name), TagString: strings.Join(strings.Fields(tagString), " ")}
	f.bodies[b.ID] = b
	return b, nil
}

func (f *fakeBodies) FindByID(_ context.Context, id uuid.UUID) (*models.PublicBody, error) {
	if b, ok := f.bodies[id]; ok {
		out := *b
		return &out, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeBodies) SetTags(_ context.Context, b *models.PublicBody, tagString string) error {
	stored, ok := f.bodies[b.ID]
	if !ok {
		return models.ErrNotFound
	}
	stored.TagString = strings.Join(strings.Fields(tagString), " ")
	b.TagString = stored.TagString
	return nil
}

type fakeUsers struct {
	users map[uuid.UUID]*models.User
}

func (f *fakeUsers) Create(_ context.Context, name, email string) (*models.User, error) {
	if strings.TrimSpace(name) == "" || !strings.Contains(email, "@") {
		return nil, &models.ValidationError{Fields: map[string]string{"email": "Email doesn't look like a valid address"}}
	}
	u := &models.User{ID: uuid.New(), Name: strings.TrimSpace(name), URLName: strings.ToLower(name), Email: strings.ToLower(email)}
	f.users[u.ID] = u
	return u, nil
}

func (f *fakeUsers) FindByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeUsers) RecordBounce(_ context.Context, id uuid.UUID, message string) error {
	u, ok := f.users[id]
	if !ok {
		return models.ErrNotFound
	}
	now := time.Now()
	u.EmailBouncedAt = &now
	u.EmailBounceMessage = message
	return nil
}

func (f *fakeUsers) ClearBounce(_ context.Context, id uuid.UUID) error {
	u, ok := f.users[id]
	if !ok {
		return models.ErrNotFound
	}
	u.EmailBouncedAt = nil
	u.EmailBounceMessage = ""
	return nil
}

// fakeEvents keeps requests in memory and accepts any body or user id.
type fakeEvents struct {
	events    []models.Event
	lastLimit int
	requests  map[uuid.UUID]*models.InfoRequest
	awaiting  []models.InfoRequest
	err       error
}

func (f *fakeEvents) ListForUser(_ context.Context, _ uuid.UUID, limit int) ([]models.Event, error) {
	f.lastLimit = limit
	if len(f.events) > limit {
		return f.events[:limit], nil
	}
	return f.events, nil
}

func (f *fakeEvents) CreateRequest(_ context.Context, title, urlTitle string, bodyID, userID uuid.UUID) (*models.Event, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &models.ValidationError{Fields: map[string]string{"title": "Title can't be blank"}}
	}
	if urlTitle == "" {
		urlTitle = strings.ReplaceAll(strings.ToLower(title), " ", "_")
	}
	for _, r := range f.requests {
		if r.URLTitle == urlTitle {
			return nil, &models.ValidationError{Fields: map[string]string{"url_title": "URL title has already been taken"}}
		}
	}
	r := &models.InfoRequest{
		ID: uuid.New(), Title: title, URLTitle: urlTitle,
		PublicBody: &models.PublicBody{ID: bodyID}, User: &models.User{ID: userID},
	}
	f.requests[r.ID] = r
	return &models.Event{ID: uuid.New(), EventType: models.EventSent, InfoRequest: r}, nil
}

func (f *fakeEvents) AddEvent(_ context.Context, requestID uuid.UUID, eventType string) (*models.Event, error) {
	if !models.ValidEventType(eventType) {
		return nil, &models.ValidationError{Fields: map[string]string{"event_type": "Event type is not recognised"}}
	}
	r, ok := f.requests[requestID]
	if !ok {
		return nil, models.ErrNotFound
	}
	if eventType == models.EventResponse {
		r.AwaitingDescription = true
		f.awaiting = append(f.awaiting, *r)
	}
	return &models.Event{ID: uuid.New(), EventType: eventType, InfoRequest: r}, nil
}

func (f *fakeEvents) ListAwaitingClassification(_ context.Context, limit int) ([]models.InfoRequest, error) {
	f.lastLimit = limit
	if f.err != nil {
		return nil, f.err
	}
	return f.awaiting, nil
}

type classification struct {
	userID, eventID uuid.UUID
}

type fakeLeague struct {
	allTime  []models.LeagueEntry
	recent   []models.LeagueEntry
	since    *time.Time
	events   map[uuid.UUID]bool
	recorded []classification
}

func (f *fakeLeague) Record(_ context.Context, userID, eventID uuid.UUID) error {
	if !f.events[eventID] {
		return models.ErrNotFound
	}
	f.recorded = append(f.recorded, classification{userID: userID, eventID: eventID})
	return nil
}

func (f *fakeLeague) LeagueTable(_ context.Context, _ int, since *time.Time) ([]models.LeagueEntry, error) {
	if since == nil {
		return f.allTime, nil
	}
	f.since = since
	return f.recent, nil
}

type fakeCache struct {
	entries     map[string][]byte
	invalidated int
}

func (f *fakeCache) Get(_ context.Context, key string) ([]byte, bool) {
	b, ok := f.entries[key]
	return b, ok
}

func (f *fakeCache) Set(_ context.Context, key string, body []byte) {
	f.entries[key] = body
}

func (f *fakeCache) InvalidateAll(context.Context) {
	f.entries = make(map[string][]byte)
	f.invalidated++
}

// testEnv bundles an Admin with its fakes.
type testEnv struct {
	admin      *Admin
	categories *fakeCategories
	headings   *fakeHeadings
	bodies     *fakeBodies
	users      *fakeUsers
	events     *fakeEvents
	league     *fakeLeague
	cache      *fakeCache
	locales    *locale.Provider
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	p, err := locale.New([]string{"en", "es", "fr"}, "en")
	if err != nil {
		t.Fatalf("locale.New: %v", err)
	}
	env := &testEnv{
		categories: newFakeCategories(p),
		headings:   &fakeHeadings{},
		bodies:     &fakeBodies{bodies: make(map[uuid.UUID]*models.PublicBody)},
		users:      &fakeUsers{users: make(map[uuid.UUID]*models.User)},
		events:     &fakeEvents{requests: make(map[uuid.UUID]*models.InfoRequest)},
		league:     &fakeLeague{events: make(map[uuid.UUID]bool)},
		cache:      &fakeCache{entries: make(map[string][]byte)},
		locales:    p,
	}
	env.admin = NewAdmin(env.categories, env.headings, env.bodies, env.users, env.events, env.league, env.cache, p)
	return env
}

// withChiURLParam injects a chi URL parameter into the request context.
func withChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// newRequest builds a request with an optional JSON body, an {id} param and
// a request locale.
func newRequest(method, target, id, body, loc string) *http.Request {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if id != "" {
		req = withChiURLParam(req, "id", id)
	}
	if loc != "" {
		req = req.WithContext(locale.WithLocale(req.Context(), loc))
	}
	return req
}

func serve(h http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rr.Body.String(), err)
	}
	return out
}
