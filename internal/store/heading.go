// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"foidesk/internal/locale"
	"foidesk/internal/models"
)

// HeadingStore manages the headings that group categories.
type HeadingStore struct {
	db      *sql.DB
	locales *locale.Provider
}

// NewHeadingStore returns a new HeadingStore.
func NewHeadingStore(db *sql.DB, locales *locale.Provider) *HeadingStore {
	return &HeadingStore{db: db, locales: locales}
}

const headingColumns = `id, display_order, created_at, updated_at`

func scanHeading(scanner interface{ Scan(...any) error }) (*models.Heading, error) {
	h := models.Heading{Names: make(map[string]string)}
	if err := scanner.Scan(&h.ID, &h.DisplayOrder, &h.CreatedAt, &h.UpdatedAt); err != nil {
		return nil, err
	}
	return &h, nil
}

// List returns all headings ordered by display_order, with their names.
func (s *HeadingStore) List(ctx context.Context) ([]models.Heading, error) {
	return listHeadings(ctx, s.db)
}

func listHeadings(ctx context.Context, q querier) ([]models.Heading, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT `+headingColumns+`
		FROM public_body_headings
		ORDER BY display_order, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list headings: %w", err)
	}
	defer rows.Close()

	var items []models.Heading
	for rows.Next() {
		h, err := scanHeading(rows)
		if err != nil {
			return nil, fmt.Errorf("scan heading: %w", err)
		}
		items = append(items, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := loadHeadingNames(ctx, q, items); err != nil {
		return nil, err
	}
	return items, nil
}

// loadHeadingNames fills Names for every heading in items.
func loadHeadingNames(ctx context.Context, q querier, items []models.Heading) error {
	if len(items) == 0 {
		return nil
	}
	index := make(map[uuid.UUID]int, len(items))
	ids := make([]uuid.UUID, len(items))
	for i, h := range items {
		index[h.ID] = i
		ids[i] = h.ID
	}

	rows, err := q.QueryContext(ctx, `
		SELECT public_body_heading_id, locale, name
		FROM public_body_heading_translations
		WHERE public_body_heading_id = ANY($1::uuid[])
	`, idStrings(ids))
	if err != nil {
		return fmt.Errorf("load heading names: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        uuid.UUID
			loc, name string
		)
		if err := rows.Scan(&id, &loc, &name); err != nil {
			return fmt.Errorf("scan heading name: %w", err)
		}
		if i, ok := index[id]; ok {
			items[i].Names[loc] = name
		}
	}
	return rows.Err()
}

// FindByID retrieves a heading. Returns models.ErrNotFound on a miss.
func (s *HeadingStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Heading, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+headingColumns+` FROM public_body_headings WHERE id = $1`, id)
	h, err := scanHeading(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find heading by id: %w", err)
	}
	items := []models.Heading{*h}
	if err := loadHeadingNames(ctx, s.db, items); err != nil {
		return nil, err
	}
	return &items[0], nil
}

// FindByIDs returns the headings among ids that exist.
func (s *HeadingStore) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]models.Heading, error) {
	return findHeadingsByIDs(ctx, s.db, ids)
}

func findHeadingsByIDs(ctx context.Context, q querier, ids []uuid.UUID) ([]models.Heading, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	rows, err := q.QueryContext(ctx, `
		SELECT `+headingColumns+`
		FROM public_body_headings
		WHERE id = ANY($1::uuid[])
		ORDER BY display_order, id
	`, idStrings(ids))
	if err != nil {
		return nil, fmt.Errorf("find headings by ids: %w", err)
	}
	defer rows.Close()

	var items []models.Heading
	for rows.Next() {
		h, err := scanHeading(rows)
		if err != nil {
			return nil, fmt.Errorf("scan heading: %w", err)
		}
		items = append(items, *h)
	}
	return items, rows.Err()
}

// requireHeadings fails with ErrUnknownHeading unless every id exists.
func requireHeadings(ctx context.Context, q querier, ids []uuid.UUID) error {
	ids = models.UniqueIDs(ids)
	found, err := findHeadingsByIDs(ctx, q, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return fmt.Errorf("%w: %d of %d headings exist", models.ErrUnknownHeading, len(found), len(ids))
	}
	return nil
}

// Create inserts a heading with its localized names.
func (s *HeadingStore) Create(ctx context.Context, in models.HeadingInput) (*models.Heading, error) {
	if verr := models.ValidateHeading(in, s.locales.Default()); verr != nil {
		return nil, verr
	}
	for loc := range in.Names {
		if !s.locales.IsAvailable(loc) {
			return nil, &models.ValidationError{
				Fields: map[string]string{"names." + loc: "Locale is not configured"},
				Entity: in,
			}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		INSERT INTO public_body_headings (display_order)
		VALUES ($1)
		RETURNING `+headingColumns, in.DisplayOrder)
	h, err := scanHeading(row)
	if err != nil {
		return nil, fmt.Errorf("create heading: %w", err)
	}

	for loc, name := range in.Names {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO public_body_heading_translations (public_body_heading_id, locale, name)
			VALUES ($1, $2, $3)
		`, h.ID, loc, name); err != nil {
			return nil, fmt.Errorf("create heading name %s: %w", loc, err)
		}
		h.Names[loc] = name
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit heading: %w", err)
	}
	return h, nil
}

// Delete removes a heading and its category links. The categories stay.
func (s *HeadingStore) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM public_body_category_links WHERE public_body_heading_id = $1`, id); err != nil {
		return fmt.Errorf("delete heading links: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM public_body_headings WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete heading: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.ErrNotFound
	}

	return tx.Commit()
}
