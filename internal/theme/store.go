package theme

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/podabio/podabio/internal/store"
)

// legacyColumns exist in every schema version.
var legacyColumns = []string{
	"colors",
	"fonts",
	"page_background",
	"widget_background",
	"widget_border_color",
	"page_primary_font",
	"page_secondary_font",
	"widget_primary_font",
	"widget_secondary_font",
	"widget_styles",
	"spatial_effect",
}

// optionalColumns may be missing from databases that have not applied
// migration 2. They are skipped on write and read back empty.
var optionalColumns = []string{
	"color_tokens",
	"typography_tokens",
	"spacing_tokens",
	"shape_tokens",
	"motion_tokens",
	"layout_density",
	"visual_effects",
}

const baseSelect = "id, user_id, name, is_active, created_at, updated_at"

// Store provides database access for themes.
type Store struct {
	db *sql.DB

	mu      sync.Mutex
	columns []string // styling columns present in the schema, loaded lazily
}

// NewStore creates a Store backed by db. The schema is introspected on first
// use, once per Store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// HasColumn reports whether the themes table has the named styling column.
func (s *Store) HasColumn(ctx context.Context, name string) (bool, error) {
	cols, err := s.styleColumns(ctx)
	if err != nil {
		return false, err
	}
	for _, c := range cols {
		if c == name {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) styleColumns(ctx context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.columns != nil {
		return s.columns, nil
	}

	have, err := store.Columns(ctx, s.db, "themes")
	if err != nil {
		return nil, fmt.Errorf("introspect themes: %w", err)
	}
	cols := append([]string(nil), legacyColumns...)
	for _, c := range optionalColumns {
		if have[c] {
			cols = append(cols, c)
		}
	}
	s.columns = cols
	return cols, nil
}

// Insert writes a new theme row.
func (s *Store) Insert(ctx context.Context, t *Theme) error {
	cols, err := s.styleColumns(ctx)
	if err != nil {
		return err
	}
	return insertRow(ctx, s.db, t, cols)
}

// InsertLimited writes t only while its owner has fewer than limit themes.
// The count and the insert share one transaction. It reports whether the row
// was written.
func (s *Store) InsertLimited(ctx context.Context, t *Theme, limit int) (bool, error) {
	if t.UserID == nil {
		return false, fmt.Errorf("insert theme: owner required")
	}
	cols, err := s.styleColumns(ctx)
	if err != nil {
		return false, err
	}

	inserted := false
	err = store.InTx(ctx, s.db, func(tx *sql.Tx) error {
		var n int
		if err := tx.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM themes WHERE user_id = ?", *t.UserID).Scan(&n); err != nil {
			return fmt.Errorf("count themes: %w", err)
		}
		if n >= limit {
			return nil
		}
		if err := insertRow(ctx, tx, t, cols); err != nil {
			return err
		}
		inserted = true
		return nil
	})
	return inserted, err
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insertRow(ctx context.Context, db execer, t *Theme, cols []string) error {
	names := append([]string{"id", "user_id", "name", "is_active", "created_at", "updated_at"}, cols...)
	args := []any{t.ID, nullString(t.UserID), t.Name, t.IsActive, t.CreatedAt, t.UpdatedAt}
	for _, c := range cols {
		args = append(args, *t.column(c))
	}

	//nolint:gosec // column names come from a fixed whitelist
	query := "INSERT INTO themes (" + strings.Join(names, ", ") + ") VALUES (" +
		strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ") + ")"
	if _, err := db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert theme: %w", err)
	}
	return nil
}

// Get returns a theme by ID. Returns nil, nil if not found.
func (s *Store) Get(ctx context.Context, id string) (*Theme, error) {
	cols, err := s.styleColumns(ctx)
	if err != nil {
		return nil, err
	}
	//nolint:gosec // column names come from a fixed whitelist
	row := s.db.QueryRowContext(ctx, "SELECT "+selectList(cols)+" FROM themes WHERE id = ?", id)
	t, err := scanTheme(row, cols)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get theme: %w", err)
	}
	return t, nil
}

// ListByUser returns the themes owned by userID, oldest first.
func (s *Store) ListByUser(ctx context.Context, userID string) ([]Theme, error) {
	return s.list(ctx, "WHERE user_id = ? ORDER BY created_at ASC, id ASC", userID)
}

// ListSystem returns the active system themes ordered by name.
func (s *Store) ListSystem(ctx context.Context) ([]Theme, error) {
	return s.list(ctx, "WHERE user_id IS NULL AND is_active = 1 ORDER BY name ASC")
}

func (s *Store) list(ctx context.Context, where string, args ...any) ([]Theme, error) {
	cols, err := s.styleColumns(ctx)
	if err != nil {
		return nil, err
	}
	//nolint:gosec // column names and clauses are constants
	rows, err := s.db.QueryContext(ctx, "SELECT "+selectList(cols)+" FROM themes "+where, args...)
	if err != nil {
		return nil, fmt.Errorf("list themes: %w", err)
	}
	defer rows.Close()

	var themes []Theme
	for rows.Next() {
		t, err := scanTheme(rows, cols)
		if err != nil {
			return nil, fmt.Errorf("scan theme: %w", err)
		}
		themes = append(themes, *t)
	}
	return themes, rows.Err()
}

// CountByUser returns how many themes userID owns.
func (s *Store) CountByUser(ctx context.Context, userID string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM themes WHERE user_id = ?", userID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count themes: %w", err)
	}
	return n, nil
}

// Update writes changes (column name to value) to the theme id owned by
// userID. Columns the schema lacks are skipped. It reports whether a row
// matched.
func (s *Store) Update(ctx context.Context, id, userID string, changes map[string]string, now time.Time) (bool, error) {
	cols, err := s.styleColumns(ctx)
	if err != nil {
		return false, err
	}
	writable := map[string]bool{"name": true}
	for _, c := range cols {
		writable[c] = true
	}

	keys := make([]string, 0, len(changes))
	for k := range changes {
		if writable[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	set := make([]string, 0, len(keys)+1)
	args := make([]any, 0, len(keys)+3)
	for _, k := range keys {
		set = append(set, k+" = ?")
		args = append(args, changes[k])
	}
	set = append(set, "updated_at = ?")
	args = append(args, now, id, userID)

	//nolint:gosec // column names come from a fixed whitelist
	res, err := s.db.ExecContext(ctx,
		"UPDATE themes SET "+strings.Join(set, ", ")+" WHERE id = ? AND user_id = ?", args...)
	if err != nil {
		return false, fmt.Errorf("update theme: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update theme rows: %w", err)
	}
	return n > 0, nil
}

// Delete removes the theme id owned by userID and reports whether it existed.
func (s *Store) Delete(ctx context.Context, id, userID string) (bool, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM themes WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return false, fmt.Errorf("delete theme: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete theme rows: %w", err)
	}
	return n > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func selectList(cols []string) string {
	return baseSelect + ", " + strings.Join(cols, ", ")
}

func scanTheme(row rowScanner, cols []string) (*Theme, error) {
	var (
		t      Theme
		userID sql.NullString
	)
	dest := []any{&t.ID, &userID, &t.Name, &t.IsActive, &t.CreatedAt, &t.UpdatedAt}
	for _, c := range cols {
		dest = append(dest, t.column(c))
	}
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}
	if userID.Valid {
		t.UserID = &userID.String
	}
	return &t, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
