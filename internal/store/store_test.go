// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"context"
	"database/sql"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"foidesk/internal/database"
	"foidesk/internal/locale"
	"foidesk/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "foidesk")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "foidesk")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// testLocales is the locale set used by store tests: en (default), es, fr.
func testLocales(t *testing.T) *locale.Provider {
	t.Helper()
	p, err := locale.New([]string{"en", "es", "fr"}, "en")
	if err != nil {
		t.Fatalf("locale.New: %v", err)
	}
	return p
}

// uniqueTag returns a tag no other test run uses, so tests sharing a
// database do not see each other's bodies.
func uniqueTag(prefix string) string {
	return prefix + "_" + strings.ReplaceAll(uuid.NewString()[:8], "-", "")
}

// cleanCategories removes test categories and everything hanging off them.
func cleanCategories(t *testing.T, db *sql.DB, ids ...uuid.UUID) {
	t.Helper()
	for _, id := range ids {
		db.Exec("DELETE FROM public_body_category_links WHERE public_body_category_id = $1", id)
		db.Exec("DELETE FROM public_body_category_translations WHERE public_body_category_id = $1", id)
		db.Exec("DELETE FROM public_body_categories WHERE id = $1", id)
	}
}

// cleanBodies removes test public bodies. Call in t.Cleanup().
func cleanBodies(t *testing.T, db *sql.DB, ids ...uuid.UUID) {
	t.Helper()
	for _, id := range ids {
		db.Exec("DELETE FROM info_requests WHERE public_body_id = $1", id)
		db.Exec("DELETE FROM public_bodies WHERE id = $1", id)
	}
}

// cleanUsers removes test users by id. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, ids ...uuid.UUID) {
	t.Helper()
	for _, id := range ids {
		db.Exec("DELETE FROM request_classifications WHERE user_id = $1", id)
		db.Exec("DELETE FROM info_requests WHERE user_id = $1", id)
		db.Exec("DELETE FROM users WHERE id = $1", id)
	}
}

// createTestHeading inserts a heading named name in en and removes it when
// the test finishes.
func createTestHeading(t *testing.T, db *sql.DB, name string, order int) *models.Heading {
	t.Helper()
	s := NewHeadingStore(db, testLocales(t))
	h, err := s.Create(context.Background(), models.HeadingInput{
		Names:        map[string]string{"en": name},
		DisplayOrder: order,
	})
	if err != nil {
		t.Fatalf("create heading: %v", err)
	}
	t.Cleanup(func() { s.Delete(context.Background(), h.ID) })
	return h
}

// createTestBody inserts a public body with the given tags and removes it
// when the test finishes.
func createTestBody(t *testing.T, db *sql.DB, name, tags string) *models.PublicBody {
	t.Helper()
	b, err := NewPublicBodyStore(db).Create(context.Background(), name+" "+uuid.NewString()[:8], tags)
	if err != nil {
		t.Fatalf("create public body: %v", err)
	}
	t.Cleanup(func() { cleanBodies(t, db, b.ID) })
	return b
}

// createTestUser inserts a user with a unique email and removes it, with
// its requests and classifications, when the test finishes.
func createTestUser(t *testing.T, db *sql.DB, name string) *models.User {
	t.Helper()
	suffix := uuid.NewString()[:8]
	u, err := NewUserStore(db).Create(context.Background(), name+" "+suffix, "user-"+suffix+"@store-test.local")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	t.Cleanup(func() { cleanUsers(t, db, u.ID) })
	return u
}

// countRows runs a COUNT(*) query with args.
func countRows(t *testing.T, db *sql.DB, query string, args ...any) int {
	t.Helper()
	var n int
	if err := db.QueryRow(query, args...).Scan(&n); err != nil {
		t.Fatalf("count rows: %v", err)
	}
	return n
}

func strPtr(s string) *string { return &s }
