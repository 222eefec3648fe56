// Package content provides content repositories
package content

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/sitedeck/sitedeck-go/internal/domain/entities/content"
)

type ContentRepository struct {
	db *sql.DB
}

func NewContentRepository(db *sql.DB) *ContentRepository {
	return &ContentRepository{db: db}
}

// FindAll loads the full content map for one locale.
func (r *ContentRepository) FindAll(lang string) (content.Map, error) {
	query := `SELECT key, value FROM content WHERE lang = ?`

	rows, err := r.db.Query(query, lang)
	if err != nil {
		return nil, fmt.Errorf("failed to query content: %w", err)
	}
	defer rows.Close()

	contentMap := content.Map{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan content row: %w", err)
		}
		contentMap[key] = value
	}
	return contentMap, rows.Err()
}

// FindByKey loads one content root, nil when absent.
func (r *ContentRepository) FindByKey(key, lang string) (*content.Entry, error) {
	query := `SELECT key, lang, value, updated_at FROM content WHERE key = ? AND lang = ?`

	entry := &content.Entry{}
	err := r.db.QueryRow(query, key, lang).Scan(&entry.Key, &entry.Lang, &entry.Value, &entry.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load content root %s: %w", key, err)
	}
	return entry, nil
}

// Upsert replaces the entire stored value of one content root.
func (r *ContentRepository) Upsert(key, lang, value string) error {
	query := `INSERT INTO content (key, lang, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key, lang) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`

	if _, err := r.db.Exec(query, key, lang, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to upsert content root %s: %w", key, err)
	}
	return nil
}

// Delete removes one content root for one locale.
func (r *ContentRepository) Delete(key, lang string) error {
	query := `DELETE FROM content WHERE key = ? AND lang = ?`

	if _, err := r.db.Exec(query, key, lang); err != nil {
		return fmt.Errorf("failed to delete content root %s: %w", key, err)
	}
	return nil
}

// FindAllLangs lists the values of one root across every stored locale.
func (r *ContentRepository) FindAllLangs(key string) (map[string]string, error) {
	query := `SELECT lang, value FROM content WHERE key = ?`

	rows, err := r.db.Query(query, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query content root %s: %w", key, err)
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var lang, value string
		if err := rows.Scan(&lang, &value); err != nil {
			return nil, fmt.Errorf("failed to scan content row: %w", err)
		}
		values[lang] = value
	}
	return values, rows.Err()
}

// FindAllValues returns every stored value across all keys and locales, for
// reference scanning.
func (r *ContentRepository) FindAllValues() ([]string, error) {
	query := `SELECT value FROM content`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query content values: %w", err)
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, fmt.Errorf("failed to scan content value: %w", err)
		}
		values = append(values, value)
	}
	return values, rows.Err()
}
