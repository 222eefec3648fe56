// Package database provides schema instantiation
package database

import (
	"database/sql"
	"fmt"
)

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the database tables and indexes.
func (tc *TableCreator) CreateSchema(db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.Exec(tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.Exec(indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedInitialContent adds the default content roots a fresh site needs to
// render. Idempotent; existing values are never overwritten.
func (tc *TableCreator) SeedInitialContent(db *sql.DB, defaultLang string) error {
	seeds := map[string]string{
		"site_name": "SiteDeck",
		"hero":      `{"title":"Welcome","subtitle":"","ctas":[]}`,
		"about":     `{"title":"About","description":"","team":[]}`,
		"contact":   `{"title":"Contact","email":"","phone":""}`,
		"global":    `{"logo":{"image":"","image_key":""}}`,
	}

	for key, value := range seeds {
		var exists bool
		err := db.QueryRow("SELECT EXISTS(SELECT 1 FROM content WHERE key = ? AND lang = ?)", key, defaultLang).Scan(&exists)
		if err != nil {
			return fmt.Errorf("failed to check for content root %s: %w", key, err)
		}
		if exists {
			continue
		}
		if _, err := db.Exec(`INSERT INTO content (key, lang, value) VALUES (?, ?, ?)`, key, defaultLang, value); err != nil {
			return fmt.Errorf("failed to seed content root %s: %w", key, err)
		}
	}
	return nil
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS content (key TEXT NOT NULL, lang TEXT NOT NULL, value TEXT NOT NULL, updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP, PRIMARY KEY (key, lang))`,
	`CREATE TABLE IF NOT EXISTS assets (key TEXT PRIMARY KEY, url TEXT NOT NULL, folder TEXT NOT NULL, filename TEXT NOT NULL, size INTEGER NOT NULL DEFAULT 0, created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS courses (id TEXT PRIMARY KEY, title TEXT NOT NULL, slug TEXT NOT NULL UNIQUE, description TEXT NOT NULL, price REAL NOT NULL DEFAULT 0, image TEXT, image_key TEXT, published BOOLEAN NOT NULL DEFAULT 0, created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP, changed TIMESTAMP)`,
	`CREATE TABLE IF NOT EXISTS leads (id TEXT PRIMARY KEY, name TEXT NOT NULL, email TEXT NOT NULL, message TEXT, source TEXT, created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_content_lang ON content(lang)`,
	`CREATE INDEX IF NOT EXISTS idx_assets_folder ON assets(folder)`,
	`CREATE INDEX IF NOT EXISTS idx_courses_slug ON courses(slug)`,
	`CREATE INDEX IF NOT EXISTS idx_courses_published ON courses(published)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_email ON leads(email)`,
	`CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at)`,
}
