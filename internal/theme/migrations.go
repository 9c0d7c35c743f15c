package theme

import (
	"database/sql"

	"github.com/podabio/podabio/internal/store"
)

// ModuleName keys this package's rows in the shared migrations table.
const ModuleName = "theme"

// Migrations returns the theme schema history. Version 1 is the original
// legacy-column table; version 2 adds the token and visual-effects columns.
func Migrations() []store.Migration {
	return []store.Migration{
		{
			Version:     1,
			Description: "create themes table",
			Up: func(tx *sql.Tx) error {
				stmts := []string{
					`CREATE TABLE IF NOT EXISTS themes (
						id                    TEXT PRIMARY KEY,
						user_id               TEXT,
						name                  TEXT NOT NULL,
						colors                TEXT NOT NULL DEFAULT '',
						fonts                 TEXT NOT NULL DEFAULT '',
						page_background       TEXT NOT NULL DEFAULT '',
						widget_background     TEXT NOT NULL DEFAULT '',
						widget_border_color   TEXT NOT NULL DEFAULT '',
						page_primary_font     TEXT NOT NULL DEFAULT '',
						page_secondary_font   TEXT NOT NULL DEFAULT '',
						widget_primary_font   TEXT NOT NULL DEFAULT '',
						widget_secondary_font TEXT NOT NULL DEFAULT '',
						widget_styles         TEXT NOT NULL DEFAULT '',
						spatial_effect        TEXT NOT NULL DEFAULT '',
						is_active             INTEGER NOT NULL DEFAULT 1,
						created_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
						updated_at            DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
					)`,
					`CREATE INDEX IF NOT EXISTS idx_themes_user ON themes(user_id)`,
				}
				for _, stmt := range stmts {
					if _, err := tx.Exec(stmt); err != nil {
						return err
					}
				}
				return nil
			},
		},
		{
			Version:     2,
			Description: "add token and visual effects columns",
			Up: func(tx *sql.Tx) error {
				for _, col := range optionalColumns {
					if _, err := tx.Exec("ALTER TABLE themes ADD COLUMN " + col + " TEXT NOT NULL DEFAULT ''"); err != nil {
						return err
					}
				}
				return nil
			},
		},
	}
}
