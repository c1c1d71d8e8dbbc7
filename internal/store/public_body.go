// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

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

// PublicBodyStore reads and writes public bodies. Categories use it to
// find the bodies that carry a category tag.
type PublicBodyStore struct {
	db *sql.DB
}

// NewPublicBodyStore returns a new PublicBodyStore.
func NewPublicBodyStore(db *sql.DB) *PublicBodyStore {
	return &PublicBodyStore{db: db}
}

const publicBodyColumns = `id, name, url_name, tag_string, created_at`

// tagMatch matches bodies whose space separated tag_string contains $1.
const tagMatch = `$1 = ANY(regexp_split_to_array(trim(tag_string), '\s+'))`

func scanPublicBody(scanner interface{ Scan(...any) error }) (*models.PublicBody, error) {
	var b models.PublicBody
	if err := scanner.Scan(&b.ID, &b.Name, &b.URLName, &b.TagString, &b.CreatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// Create inserts a public body. The url_name is derived from the name.
func (s *PublicBodyStore) Create(ctx context.Context, name, tagString string) (*models.PublicBody, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &models.ValidationError{
			Fields: map[string]string{"name": "Name can't be blank"},
			Entity: &models.PublicBody{Name: name, TagString: tagString},
		}
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO public_bodies (name, url_name, tag_string)
		VALUES ($1, $2, $3)
		RETURNING `+publicBodyColumns,
		name, slug.URLName(name), strings.Join(strings.Fields(tagString), " "),
	)
	b, err := scanPublicBody(row)
	if pgErr, ok := pgError(err); ok && pgErr.Code == pgUniqueViolation {
		return nil, &models.ValidationError{
			Fields: map[string]string{"name": "Name has already been taken"},
			Entity: &models.PublicBody{Name: name, TagString: tagString},
		}
	}
	if err != nil {
		return nil, fmt.Errorf("create public body: %w", err)
	}
	return b, nil
}

// FindByID retrieves a body. Returns models.ErrNotFound if not found.
func (s *PublicBodyStore) FindByID(ctx context.Context, id uuid.UUID) (*models.PublicBody, error) {
	b, err := scanPublicBody(s.db.QueryRowContext(ctx, `SELECT `+publicBodyColumns+` FROM public_bodies WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find public body by id: %w", err)
	}
	return b, nil
}

// CountReferencing returns how many bodies carry tag.
func (s *PublicBodyStore) CountReferencing(ctx context.Context, tag string) (int, error) {
	return countReferencing(ctx, s.db, tag)
}

func countReferencing(ctx context.Context, q querier, tag string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM public_bodies WHERE `+tagMatch, tag).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count bodies tagged %q: %w", tag, err)
	}
	return n, nil
}

// ListReferencing returns the bodies carrying tag, ordered by name.
func (s *PublicBodyStore) ListReferencing(ctx context.Context, tag string) ([]models.PublicBody, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+publicBodyColumns+`
		FROM public_bodies
		WHERE `+tagMatch+`
		ORDER BY name, id
	`, tag)
	if err != nil {
		return nil, fmt.Errorf("list bodies tagged %q: %w", tag, err)
	}
	defer rows.Close()

	var items []models.PublicBody
	for rows.Next() {
		b, err := scanPublicBody(rows)
		if err != nil {
			return nil, fmt.Errorf("scan public body: %w", err)
		}
		items = append(items, *b)
	}
	return items, rows.Err()
}

// SetTags replaces the tag string of a body. Tags are normalized to single
// spaces. Returns models.ErrNotFound if the body no longer exists.
func (s *PublicBodyStore) SetTags(ctx context.Context, b *models.PublicBody, tagString string) error {
	tagString = strings.Join(strings.Fields(tagString), " ")
	res, err := s.db.ExecContext(ctx, `UPDATE public_bodies SET tag_string = $1 WHERE id = $2`, tagString, b.ID)
	if err != nil {
		return fmt.Errorf("set public body tags: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}
	b.TagString = tagString
	return nil
}
