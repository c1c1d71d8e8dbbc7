package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"foidesk/internal/models"
)

// ClassificationStore records which users classified request events and
// ranks them.
type ClassificationStore struct {
	db *sql.DB
}

// NewClassificationStore returns a new ClassificationStore.
func NewClassificationStore(db *sql.DB) *ClassificationStore {
	return &ClassificationStore{db: db}
}

// Record stores that userID classified the given event and takes the
// event's request off the awaiting classification list. Returns
// models.ErrNotFound for an unknown event.
func (s *ClassificationStore) Record(ctx context.Context, userID, eventID uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE info_requests SET awaiting_description = FALSE
		WHERE id = (SELECT info_request_id FROM info_request_events WHERE id = $1)
	`, eventID)
	if err != nil {
		return fmt.Errorf("clear awaiting description: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO request_classifications (user_id, info_request_event_id)
		VALUES ($1, $2)
	`, userID, eventID); err != nil {
		if pgErr, ok := pgError(err); ok && pgErr.Code == pgForeignKeyViolation {
			return &models.ValidationError{Fields: map[string]string{"user_id": "User does not exist"}}
		}
		return fmt.Errorf("record classification: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit classification: %w", err)
	}
	return nil
}

// LeagueTable returns up to limit users ranked by classification count,
// highest first, ties broken by user id. A non-nil since restricts the
// count to classifications made at or after that time.
func (s *ClassificationStore) LeagueTable(ctx context.Context, limit int, since *time.Time) ([]models.LeagueEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.name, u.url_name, COUNT(*) AS cnt
		FROM request_classifications rc
		JOIN users u ON u.id = rc.user_id
		WHERE $1::timestamptz IS NULL OR rc.created_at >= $1::timestamptz
		GROUP BY u.id, u.name, u.url_name
		ORDER BY cnt DESC, u.id
		LIMIT $2
	`, since, limit)
	if err != nil {
		return nil, fmt.Errorf("league table: %w", err)
	}
	defer rows.Close()

	var items []models.LeagueEntry
	for rows.Next() {
		var e models.LeagueEntry
		if err := rows.Scan(&e.UserID, &e.Name, &e.URLName, &e.Count); err != nil {
			return nil, fmt.Errorf("scan league entry: %w", err)
		}
		items = append(items, e)
	}
	return items, rows.Err()
}
