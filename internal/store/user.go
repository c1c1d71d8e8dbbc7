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

// UserStore handles user lookups and email bounce bookkeeping.
type UserStore struct {
	db *sql.DB
}

// NewUserStore creates a new UserStore with the given database connection.
func NewUserStore(db *sql.DB) *UserStore {
	return &UserStore{db: db}
}

const userColumns = `id, name, url_name, email, email_bounced_at, email_bounce_message, created_at, updated_at`

func scanUser(scanner interface{ Scan(...any) error }) (*models.User, error) {
	u := &models.User{}
	err := scanner.Scan(
		&u.ID, &u.Name, &u.URLName, &u.Email,
		&u.EmailBouncedAt, &u.EmailBounceMessage, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// Create inserts a user. The url_name is derived from the name and the
// email is stored lowercased.
func (s *UserStore) Create(ctx context.Context, name, email string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))
	fields := make(map[string]string)
	if name == "" {
		fields["name"] = "Name can't be blank"
	}
	if !strings.Contains(email, "@") {
		fields["email"] = "Email doesn't look like a valid address"
	}
	if len(fields) > 0 {
		return nil, &models.ValidationError{Fields: fields, Entity: &models.User{Name: name}}
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (name, url_name, email)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns,
		name, slug.URLName(name), email,
	)
	u, err := scanUser(row)
	if pgErr, ok := pgError(err); ok && pgErr.Code == pgUniqueViolation {
		field, msg := "email", "Email has already been taken"
		if strings.Contains(pgErr.ConstraintName, "url_name") {
			field, msg = "name", "Name has already been taken"
		}
		return nil, &models.ValidationError{
			Fields: map[string]string{field: msg},
			Entity: &models.User{Name: name},
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	return u, nil
}

// FindByID retrieves a user. Returns models.ErrNotFound if not found.
func (s *UserStore) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user by id: %w", err)
	}
	return u, nil
}

// RecordBounce marks the user's email as bounced now with the given message.
func (s *UserStore) RecordBounce(ctx context.Context, id uuid.UUID, message string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET email_bounced_at = NOW(), email_bounce_message = $1, updated_at = NOW()
		WHERE id = $2
	`, message, id)
	if err != nil {
		return fmt.Errorf("record email bounce: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}

// ClearBounce resets the bounce columns, e.g. after the address changed.
func (s *UserStore) ClearBounce(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE users SET email_bounced_at = NULL, email_bounce_message = '', updated_at = NOW()
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("clear email bounce: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	return nil
}
