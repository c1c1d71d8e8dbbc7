package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// seedHeading is a heading with the categories listed under it.
type seedHeading struct {
	name       string
	categories []seedCategory
}

type seedCategory struct {
	tag         string
	title       string
	description string
}

var seedData = []seedHeading{
	{
		name: "Local and regional",
		categories: []seedCategory{
			{tag: "local_council", title: "Local councils", description: "Councils responsible for local services."},
			{tag: "police", title: "Police forces", description: "Regional police forces and commissioners."},
		},
	},
	{
		name: "Infrastructure",
		categories: []seedCategory{
			{tag: "transport", title: "Transport", description: "Transport bodies."},
		},
	},
}

// Seed populates the database with initial development data: a couple of
// headings with categories in the given default locale. It is a no-op when
// any heading already exists.
func Seed(db *sql.DB, defaultLocale string) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM public_body_headings").Scan(&count); err != nil {
		return fmt.Errorf("seed check headings: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin: %w", err)
	}
	defer tx.Rollback()

	for i, h := range seedData {
		var headingID string
		if err := tx.QueryRow(
			`INSERT INTO public_body_headings (display_order) VALUES ($1) RETURNING id`, i,
		).Scan(&headingID); err != nil {
			return fmt.Errorf("seed heading: %w", err)
		}
		if _, err := tx.Exec(`
			INSERT INTO public_body_heading_translations (public_body_heading_id, locale, name)
			VALUES ($1, $2, $3)
		`, headingID, defaultLocale, h.name); err != nil {
			return fmt.Errorf("seed heading translation: %w", err)
		}

		for j, c := range h.categories {
			var categoryID string
			if err := tx.QueryRow(
				`INSERT INTO public_body_categories (category_tag) VALUES ($1) RETURNING id`, c.tag,
			).Scan(&categoryID); err != nil {
				return fmt.Errorf("seed category %s: %w", c.tag, err)
			}
			if _, err := tx.Exec(`
				INSERT INTO public_body_category_translations (public_body_category_id, locale, title, description)
				VALUES ($1, $2, $3, $4)
			`, categoryID, defaultLocale, c.title, c.description); err != nil {
				return fmt.Errorf("seed category translation %s: %w", c.tag, err)
			}
			if _, err := tx.Exec(`
				INSERT INTO public_body_category_links (public_body_category_id, public_body_heading_id, category_display_order)
				VALUES ($1, $2, $3)
			`, categoryID, headingID, j); err != nil {
				return fmt.Errorf("seed category link %s: %w", c.tag, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with default headings and categories", "headings", len(seedData))
	return nil
}
