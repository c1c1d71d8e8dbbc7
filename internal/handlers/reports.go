package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"foidesk/internal/activity"
	"foidesk/internal/models"
)

const (
	leagueTableSize   = 10
	leagueRecentDays  = 28
	requestGameSize   = 20
	activityFeedLimit = 20
	maxActivityLimit  = 100
)

// leagueTables loads the all time and last 28 days league tables.
func (a *Admin) leagueTables(r *http.Request) (allTime, recent []models.LeagueEntry, err error) {
	ctx := r.Context()
	allTime, err = a.classifications.LeagueTable(ctx, leagueTableSize, nil)
	if err != nil {
		return nil, nil, err
	}
	since := a.now().AddDate(0, 0, -leagueRecentDays)
	recent, err = a.classifications.LeagueTable(ctx, leagueTableSize, &since)
	if err != nil {
		return nil, nil, err
	}
	if allTime == nil {
		allTime = []models.LeagueEntry{}
	}
	if recent == nil {
		recent = []models.LeagueEntry{}
	}
	return allTime, recent, nil
}

// LeagueTable returns the request classification league tables for all
// time and for the last 28 days.
func (a *Admin) LeagueTable(w http.ResponseWriter, r *http.Request) {
	allTime, recent, err := a.leagueTables(r)
	if err != nil {
		writeStoreError(w, r, "league table", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"league_table_all_time": allTime,
		"league_table_28_days":  recent,
	})
}

// gameRequest is a request waiting for a volunteer to classify it.
type gameRequest struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Path           string    `json:"path"`
	CategorisePath string    `json:"categorise_path"`
	BodyName       string    `json:"public_body_name"`
	BodyPath       string    `json:"public_body_path"`
	UserName       string    `json:"user_name"`
	CreatedAt      time.Time `json:"created_at"`
}

func newGameRequest(r models.InfoRequest) gameRequest {
	g := gameRequest{
		ID:             r.ID,
		Title:          r.Title,
		Path:           r.Path(),
		CategorisePath: r.CategorisePath(),
		CreatedAt:      r.CreatedAt,
	}
	if r.PublicBody != nil {
		g.BodyName = r.PublicBody.Name
		g.BodyPath = r.PublicBody.Path()
	}
	if r.User != nil {
		g.UserName = r.User.Name
	}
	return g
}

// RequestGame returns the requests awaiting classification, each with the
// path where it can be classified, next to both league tables.
func (a *Admin) RequestGame(w http.ResponseWriter, r *http.Request) {
	pending, err := a.events.ListAwaitingClassification(r.Context(), requestGameSize)
	if err != nil {
		writeStoreError(w, r, "list requests awaiting classification", err)
		return
	}
	allTime, recent, err := a.leagueTables(r)
	if err != nil {
		writeStoreError(w, r, "league table", err)
		return
	}

	requests := make([]gameRequest, 0, len(pending))
	for _, req := range pending {
		requests = append(requests, newGameRequest(req))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"requests":              requests,
		"league_table_all_time": allTime,
		"league_table_28_days":  recent,
	})
}

// UserActivity returns the activity feed of a user, localized to the
// request locale. ?limit= caps the number of items.
func (a *Admin) UserActivity(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	limit := activityFeedLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = min(n, maxActivityLimit)
	}

	ctx := r.Context()
	if _, err := a.users.FindByID(ctx, id); err != nil {
		writeStoreError(w, r, "find user", err)
		return
	}
	events, err := a.events.ListForUser(ctx, id, limit)
	if err != nil {
		writeStoreError(w, r, "list activity", err)
		return
	}

	loc := a.locales.Current(ctx)
	items := make([]activity.View, 0, len(events))
	for _, it := range activity.Items(events) {
		items = append(items, it.View(loc))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items})
}
