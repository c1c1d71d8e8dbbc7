package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"foidesk/internal/models"
	"foidesk/internal/slug"
)

// EventStore writes info requests and their events, and reads them back
// for activity feeds and the request game.
type EventStore struct {
	db *sql.DB
}

// NewEventStore returns a new EventStore.
func NewEventStore(db *sql.DB) *EventStore {
	return &EventStore{db: db}
}

// ListForUser returns the most recent events on requests made by userID,
// newest first, with request, body and user attached.
func (s *EventStore) ListForUser(ctx context.Context, userID uuid.UUID, limit int) ([]models.Event, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.id, e.event_type, e.created_at,
		       r.id, r.title, r.url_title, r.awaiting_description, r.created_at,
		       b.id, b.name, b.url_name, b.tag_string, b.created_at,
		       u.id, u.name, u.url_name
		FROM info_request_events e
		JOIN info_requests r ON r.id = e.info_request_id
		JOIN public_bodies b ON b.id = r.public_body_id
		JOIN users u ON u.id = r.user_id
		WHERE r.user_id = $1
		ORDER BY e.created_at DESC, e.id
		LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list events for user: %w", err)
	}
	defer rows.Close()

	var items []models.Event
	for rows.Next() {
		var (
			e models.Event
			r models.InfoRequest
			b models.PublicBody
			u models.User
		)
		if err := rows.Scan(
			&e.ID, &e.EventType, &e.CreatedAt,
			&r.ID, &r.Title, &r.URLTitle, &r.AwaitingDescription, &r.CreatedAt,
			&b.ID, &b.Name, &b.URLName, &b.TagString, &b.CreatedAt,
			&u.ID, &u.Name, &u.URLName,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		r.PublicBody = &b
		r.User = &u
		e.InfoRequest = &r
		items = append(items, e)
	}
	return items, rows.Err()
}

// CreateRequest inserts an info request with an initial "sent" event. A
// blank urlTitle is derived from the title.
func (s *EventStore) CreateRequest(ctx context.Context, title, urlTitle string, bodyID, userID uuid.UUID) (*models.Event, error) {
	title = strings.TrimSpace(title)
	urlTitle = strings.TrimSpace(urlTitle)
	if urlTitle == "" {
		urlTitle = slug.URLName(title)
	}
	r := models.InfoRequest{Title: title, URLTitle: urlTitle}
	if title == "" {
		return nil, &models.ValidationError{
			Fields: map[string]string{"title": "Title can't be blank"},
			Entity: &r,
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := tx.QueryRowContext(ctx, `
		INSERT INTO info_requests (title, url_title, public_body_id, user_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`, title, urlTitle, bodyID, userID).Scan(&r.ID, &r.CreatedAt); err != nil {
		if verr := requestConstraintError(err, &r); verr != nil {
			return nil, verr
		}
		return nil, fmt.Errorf("create info request: %w", err)
	}

	e := models.Event{EventType: models.EventSent, InfoRequest: &r}
	if err := insertEvent(ctx, tx, &e); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit info request: %w", err)
	}
	return &e, nil
}

// requestConstraintError turns constraint violations on info_requests into
// field errors. It returns nil for any other error.
func requestConstraintError(err error, r *models.InfoRequest) *models.ValidationError {
	pgErr, ok := pgError(err)
	if !ok {
		return nil
	}
	fields := make(map[string]string)
	switch {
	case pgErr.Code == pgUniqueViolation:
		fields["url_title"] = "URL title has already been taken"
	case pgErr.Code == pgForeignKeyViolation && strings.Contains(pgErr.ConstraintName, "public_body"):
		fields["public_body_id"] = "Public body does not exist"
	case pgErr.Code == pgForeignKeyViolation && strings.Contains(pgErr.ConstraintName, "user"):
		fields["user_id"] = "User does not exist"
	default:
		return nil
	}
	return &models.ValidationError{Fields: fields, Entity: r}
}

func insertEvent(ctx context.Context, q querier, e *models.Event) error {
	if err := q.QueryRowContext(ctx, `
		INSERT INTO info_request_events (info_request_id, event_type)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, e.InfoRequest.ID, e.EventType).Scan(&e.ID, &e.CreatedAt); err != nil {
		return fmt.Errorf("create info request event: %w", err)
	}
	return nil
}

// AddEvent appends an event to a request. A response marks the request as
// awaiting classification. Returns models.ErrNotFound for an unknown
// request.
func (s *EventStore) AddEvent(ctx context.Context, requestID uuid.UUID, eventType string) (*models.Event, error) {
	if !models.ValidEventType(eventType) {
		return nil, &models.ValidationError{
			Fields: map[string]string{"event_type": "Event type is not recognised"},
			Entity: &models.Event{EventType: eventType},
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var r models.InfoRequest
	err = tx.QueryRowContext(ctx, `
		UPDATE info_requests
		SET awaiting_description = awaiting_description OR $2
		WHERE id = $1
		RETURNING id, title, url_title, awaiting_description, created_at
	`, requestID, eventType == models.EventResponse).Scan(
		&r.ID, &r.Title, &r.URLTitle, &r.AwaitingDescription, &r.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("mark info request: %w", err)
	}

	e := models.Event{EventType: eventType, InfoRequest: &r}
	if err := insertEvent(ctx, tx, &e); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit event: %w", err)
	}
	return &e, nil
}

// ListAwaitingClassification returns up to limit requests whose latest
// response has not been classified yet, oldest first, with body and user
// attached.
func (s *EventStore) ListAwaitingClassification(ctx context.Context, limit int) ([]models.InfoRequest, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.id, r.title, r.url_title, r.awaiting_description, r.created_at,
		       b.id, b.name, b.url_name, b.tag_string, b.created_at,
		       u.id, u.name, u.url_name
		FROM info_requests r
		JOIN public_bodies b ON b.id = r.public_body_id
		JOIN users u ON u.id = r.user_id
		WHERE r.awaiting_description
		ORDER BY r.created_at, r.id
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list requests awaiting classification: %w", err)
	}
	defer rows.Close()

	var items []models.InfoRequest
	for rows.Next() {
		var (
			r models.InfoRequest
			b models.PublicBody
			u models.User
		)
		if err := rows.Scan(
			&r.ID, &r.Title, &r.URLTitle, &r.AwaitingDescription, &r.CreatedAt,
			&b.ID, &b.Name, &b.URLName, &b.TagString, &b.CreatedAt,
			&u.ID, &u.Name, &u.URLName,
		); err != nil {
			return nil, fmt.Errorf("scan info request: %w", err)
		}
		r.PublicBody = &b
		r.User = &u
		items = append(items, r)
	}
	return items, rows.Err()
}
