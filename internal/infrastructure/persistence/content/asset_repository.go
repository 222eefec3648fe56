// Package content provides content repositories
package content

import (
	"database/sql"
	"fmt"

	"github.com/sitedeck/sitedeck-go/internal/domain/entities/content"
)

type AssetRepository struct {
	db *sql.DB
}

func NewAssetRepository(db *sql.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

func (r *AssetRepository) Store(asset *content.Asset) error {
	query := `INSERT INTO assets (key, url, folder, filename, size, created_at) VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.Exec(query, asset.Key, asset.URL, asset.Folder,
		asset.Filename, asset.Size, asset.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert asset: %w", err)
	}
	return nil
}

func (r *AssetRepository) FindByKey(key string) (*content.Asset, error) {
	query := `SELECT key, url, folder, filename, size, created_at FROM assets WHERE key = ?`

	asset := &content.Asset{}
	err := r.db.QueryRow(query, key).Scan(&asset.Key, &asset.URL, &asset.Folder,
		&asset.Filename, &asset.Size, &asset.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load asset %s: %w", key, err)
	}
	return asset, nil
}

func (r *AssetRepository) FindAll() ([]*content.Asset, error) {
	query := `SELECT key, url, folder, filename, size, created_at FROM assets ORDER BY created_at`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer rows.Close()

	var assets []*content.Asset
	for rows.Next() {
		asset := &content.Asset{}
		if err := rows.Scan(&asset.Key, &asset.URL, &asset.Folder,
			&asset.Filename, &asset.Size, &asset.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

func (r *AssetRepository) FindByFolder(folder string) ([]*content.Asset, error) {
	query := `SELECT key, url, folder, filename, size, created_at FROM assets WHERE folder = ? ORDER BY created_at`

	rows, err := r.db.Query(query, folder)
	if err != nil {
		return nil, fmt.Errorf("failed to query assets for folder %s: %w", folder, err)
	}
	defer rows.Close()

	var assets []*content.Asset
	for rows.Next() {
		asset := &content.Asset{}
		if err := rows.Scan(&asset.Key, &asset.URL, &asset.Folder,
			&asset.Filename, &asset.Size, &asset.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan asset row: %w", err)
		}
		assets = append(assets, asset)
	}
	return assets, rows.Err()
}

func (r *AssetRepository) Delete(key string) error {
	query := `DELETE FROM assets WHERE key = ?`

	if _, err := r.db.Exec(query, key); err != nil {
		return fmt.Errorf("failed to delete asset %s: %w", key, err)
	}
	return nil
}
