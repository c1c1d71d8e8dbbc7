// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"foidesk/internal/locale"
	"foidesk/internal/models"
)

// CategoryStore manages public body categories together with their
// translations and heading links. Every mutation runs in one transaction.
type CategoryStore struct {
	db      *sql.DB
	locales *locale.Provider
	bodies  *PublicBodyStore
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB, locales *locale.Provider) *CategoryStore {
	return &CategoryStore{db: db, locales: locales, bodies: NewPublicBodyStore(db)}
}

const categoryColumns = `id, category_tag, created_at, updated_at`

// scanCategory scans a row into a Category with an empty translation map.
func scanCategory(scanner interface{ Scan(...any) error }) (*models.Category, error) {
	c := models.Category{Translations: make(map[string]models.CategoryTranslation)}
	if err := scanner.Scan(&c.ID, &c.Tag, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}

// loadCategory reads one category with its translations and links. With
// lock set the category row is held FOR UPDATE until the transaction ends.
func loadCategory(ctx context.Context, q querier, id uuid.UUID, lock bool) (*models.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM public_body_categories WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}
	c, err := scanCategory(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}

	rows, err := q.QueryContext(ctx, `
		SELECT id, locale, title, description
		FROM public_body_category_translations
		WHERE public_body_category_id = $1
		ORDER BY locale
	`, id)
	if err != nil {
		return nil, fmt.Errorf("load category translations: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		t := models.CategoryTranslation{Persisted: true}
		if err := rows.Scan(&t.ID, &t.Locale, &t.Title, &t.Description); err != nil {
			return nil, fmt.Errorf("scan category translation: %w", err)
		}
		c.Translations[t.Locale] = t
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	links, err := q.QueryContext(ctx, `
		SELECT id, public_body_heading_id, category_display_order
		FROM public_body_category_links
		WHERE public_body_category_id = $1
		ORDER BY category_display_order, public_body_heading_id
	`, id)
	if err != nil {
		return nil, fmt.Errorf("load category links: %w", err)
	}
	defer links.Close()
	for links.Next() {
		l := models.CategoryHeadingLink{CategoryID: id}
		if err := links.Scan(&l.ID, &l.HeadingID, &l.DisplayOrder); err != nil {
			return nil, fmt.Errorf("scan category link: %w", err)
		}
		c.Headings = append(c.Headings, l)
	}
	return c, links.Err()
}

// FindByID retrieves the persisted state of a category. Returns
// models.ErrNotFound if there is no such category.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return loadCategory(ctx, s.db, id, false)
}

// FindForEdit loads a category and adds blank, unpersisted translations for
// every configured locale it lacks. Nothing is written.
func (s *CategoryStore) FindForEdit(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.SynthesizeLocales(s.locales.Available())
	return c, nil
}

// New returns a blank category with a translation slot for every locale.
func (s *CategoryStore) New() *models.Category {
	c := &models.Category{}
	c.SynthesizeLocales(s.locales.Available())
	return c
}

// Create validates and inserts a category with its translations and
// heading links. On a validation failure nothing is written and the
// returned *models.ValidationError carries the submitted category.
func (s *CategoryStore) Create(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	c := models.NewCategory(in)
	if verr := c.Validate(s.locales.Default(), s.locales.Available()); verr != nil {
		c.SynthesizeLocales(s.locales.Available())
		return nil, verr
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := requireHeadings(ctx, tx, c.HeadingIDs()); err != nil {
		return nil, err
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO public_body_categories (category_tag)
		VALUES ($1)
		RETURNING `+categoryColumns, c.Tag)
	created, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	for _, loc := range c.PersistableLocales(s.locales.Default()) {
		if err := insertTranslation(ctx, tx, created.ID, c.Translations[loc]); err != nil {
			return nil, err
		}
	}
	if err := replaceLinks(ctx, tx, created.ID, c.HeadingIDs()); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit category: %w", err)
	}
	return s.FindByID(ctx, created.ID)
}

// Update applies a partial update in one repeatable-read transaction.
//
// The category row is locked and the tag reference count is read inside
// the transaction. A tag change is dropped when bodies still carry the
// current tag; the rest of the update is still committed and the result
// reports TagLocked. A validation failure rolls everything back and
// returns a *models.ValidationError holding the merged state.
func (s *CategoryStore) Update(ctx context.Context, id uuid.UUID, upd models.CategoryUpdate) (*models.UpdateResult, error) {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead})
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	current, err := loadCategory(ctx, tx, id, true)
	if err != nil {
		return nil, err
	}

	refs, err := countReferencing(ctx, tx, current.Tag)
	if err != nil {
		return nil, err
	}

	upd, locked := models.GuardTag(current, upd, refs > 0)
	merged := current.Apply(upd)

	if verr := merged.Validate(s.locales.Default(), s.locales.Available()); verr != nil {
		merged.SynthesizeLocales(s.locales.Available())
		return nil, verr
	}
	if upd.HeadingIDs != nil {
		if err := requireHeadings(ctx, tx, *upd.HeadingIDs); err != nil {
			return nil, err
		}
	}

	if _, err := tx.ExecContext(ctx, `
		UPDATE public_body_categories SET category_tag = $1, updated_at = NOW()
		WHERE id = $2
	`, merged.Tag, id); err != nil {
		return nil, fmt.Errorf("update category: %w", err)
	}

	locales := make([]string, 0, len(upd.Translations))
	for loc := range upd.Translations {
		locales = append(locales, loc)
	}
	sort.Strings(locales)

	for _, loc := range locales {
		t := merged.Translations[loc]
		switch {
		case t.Persisted:
			if err := updateTranslation(ctx, tx, t); err != nil {
				return nil, err
			}
		case loc == s.locales.Default() || !t.Blank():
			if err := insertTranslation(ctx, tx, id, t); err != nil {
				return nil, err
			}
		}
	}

	if upd.HeadingIDs != nil {
		if err := replaceLinks(ctx, tx, id, merged.HeadingIDs()); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit category update: %w", err)
	}

	reloaded, err := s.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &models.UpdateResult{Category: reloaded, TagLocked: locked}, nil
}

// Delete removes a category, its heading links and its translations.
// Bodies carrying the tag are left untouched.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var found uuid.UUID
	err = tx.QueryRowContext(ctx, `SELECT id FROM public_body_categories WHERE id = $1 FOR UPDATE`, id).Scan(&found)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("find category by id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM public_body_category_links WHERE public_body_category_id = $1`, id); err != nil {
		return fmt.Errorf("delete category links: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM public_body_category_translations WHERE public_body_category_id = $1`, id); err != nil {
		return fmt.Errorf("delete category translations: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM public_body_categories WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	return tx.Commit()
}

// TaggedBodies returns the public bodies currently carrying tag.
func (s *CategoryStore) TaggedBodies(ctx context.Context, tag string) ([]models.PublicBody, error) {
	return s.bodies.ListReferencing(ctx, tag)
}

// ListHeadingsWithCategories returns every heading with its categories,
// ordered by display order and then category id.
func (s *CategoryStore) ListHeadingsWithCategories(ctx context.Context) ([]models.Heading, error) {
	headings, err := listHeadings(ctx, s.db)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT l.public_body_heading_id, l.category_display_order,
		       c.id, c.category_tag, c.created_at, c.updated_at
		FROM public_body_category_links l
		JOIN public_body_categories c ON c.id = l.public_body_category_id
		ORDER BY l.public_body_heading_id, l.category_display_order, c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list heading categories: %w", err)
	}
	defer rows.Close()

	byHeading := make(map[uuid.UUID][]models.Category)
	var ids []uuid.UUID
	for rows.Next() {
		var headingID uuid.UUID
		c := models.Category{}
		if err := rows.Scan(&headingID, &c.DisplayOrder, &c.ID, &c.Tag, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan heading category: %w", err)
		}
		byHeading[headingID] = append(byHeading[headingID], c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	translations, err := translationsFor(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	for i := range headings {
		cats := byHeading[headings[i].ID]
		for j := range cats {
			cats[j].Translations = translations[cats[j].ID]
		}
		sortByDisplayOrder(cats)
		headings[i].Categories = cats
	}
	return headings, nil
}

// ListUnheadedCategories returns the categories not linked to any heading.
func (s *CategoryStore) ListUnheadedCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.category_tag, c.created_at, c.updated_at
		FROM public_body_categories c
		WHERE NOT EXISTS (
			SELECT 1 FROM public_body_category_links l
			WHERE l.public_body_category_id = c.id
		)
		ORDER BY c.category_tag, c.id
	`)
	if err != nil {
		return nil, fmt.Errorf("list unheaded categories: %w", err)
	}
	defer rows.Close()

	var (
		items []models.Category
		ids   []uuid.UUID
	)
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
		ids = append(ids, c.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	translations, err := translationsFor(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Translations = translations[items[i].ID]
	}
	return items, nil
}

// translationsFor loads the persisted translations of many categories,
// keyed by category id. Every requested id gets a non-nil map.
func translationsFor(ctx context.Context, q querier, ids []uuid.UUID) (map[uuid.UUID]map[string]models.CategoryTranslation, error) {
	out := make(map[uuid.UUID]map[string]models.CategoryTranslation, len(ids))
	for _, id := range ids {
		out[id] = make(map[string]models.CategoryTranslation)
	}
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := q.QueryContext(ctx, `
		SELECT public_body_category_id, id, locale, title, description
		FROM public_body_category_translations
		WHERE public_body_category_id = ANY($1::uuid[])
	`, idStrings(models.UniqueIDs(ids)))
	if err != nil {
		return nil, fmt.Errorf("load category translations: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var categoryID uuid.UUID
		t := models.CategoryTranslation{Persisted: true}
		if err := rows.Scan(&categoryID, &t.ID, &t.Locale, &t.Title, &t.Description); err != nil {
			return nil, fmt.Errorf("scan category translation: %w", err)
		}
		if m, ok := out[categoryID]; ok {
			m[t.Locale] = t
		}
	}
	return out, rows.Err()
}

// sortByDisplayOrder orders categories by display order, ties by id.
func sortByDisplayOrder(cats []models.Category) {
	sort.SliceStable(cats, func(i, j int) bool {
		if cats[i].DisplayOrder != cats[j].DisplayOrder {
			return cats[i].DisplayOrder < cats[j].DisplayOrder
		}
		return cats[i].ID.String() < cats[j].ID.String()
	})
}

func insertTranslation(ctx context.Context, q querier, categoryID uuid.UUID, t models.CategoryTranslation) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO public_body_category_translations (public_body_category_id, locale, title, description)
		VALUES ($1, $2, $3, $4)
	`, categoryID, t.Locale, t.Title, t.Description)
	if err != nil {
		return fmt.Errorf("insert category translation %s: %w", t.Locale, err)
	}
	return nil
}

func updateTranslation(ctx context.Context, q querier, t models.CategoryTranslation) error {
	_, err := q.ExecContext(ctx, `
		UPDATE public_body_category_translations
		SET title = $1, description = $2, updated_at = NOW()
		WHERE id = $3
	`, t.Title, t.Description, t.ID)
	if err != nil {
		return fmt.Errorf("update category translation %s: %w", t.Locale, err)
	}
	return nil
}

// replaceLinks makes headingIDs the exact heading set of a category, with
// display order following slice position.
func replaceLinks(ctx context.Context, q querier, categoryID uuid.UUID, headingIDs []uuid.UUID) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM public_body_category_links WHERE public_body_category_id = $1`, categoryID); err != nil {
		return fmt.Errorf("clear category links: %w", err)
	}
	for i, hid := range headingIDs {
		if _, err := q.ExecContext(ctx, `
			INSERT INTO public_body_category_links (public_body_category_id, public_body_heading_id, category_display_order)
			VALUES ($1, $2, $3)
		`, categoryID, hid, i); err != nil {
			return fmt.Errorf("insert category link: %w", err)
		}
	}
	return nil
}
