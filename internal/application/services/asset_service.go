// Package services provides the application service layer
package services

import (
	"context"
	"fmt"
	"io"
	"regexp"
	"time"

	"github.com/sitedeck/sitedeck-go/internal/domain/editor"
	"github.com/sitedeck/sitedeck-go/internal/domain/entities/content"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/media"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/logging"
	persistence "github.com/sitedeck/sitedeck-go/internal/infrastructure/persistence/content"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/security"
)

var folderPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9_-]*$`)

// AssetService is the server side of the asset gateway: multipart uploads
// land on disk with a ULID storage key and an assets row; deletes remove
// file, thumbnails, and row by key.
type AssetService struct {
	repo   *persistence.AssetRepository
	store  *media.AssetStore
	logger *logging.ChanneledLogger
}

func NewAssetService(repo *persistence.AssetRepository, store *media.AssetStore, logger *logging.ChanneledLogger) *AssetService {
	return &AssetService{
		repo:   repo,
		store:  store,
		logger: logger,
	}
}

// Upload stores the file and records the asset. No row is recorded unless
// the file write succeeded; a failed row insert rolls the file back.
func (s *AssetService) Upload(folder, filename string, data []byte) (*content.Asset, error) {
	if !folderPattern.MatchString(folder) {
		return nil, fmt.Errorf("invalid upload folder %q", folder)
	}

	key := security.GenerateStorageKey(folder)
	stored, err := s.store.SaveUpload(folder, key, filename, data)
	if err != nil {
		return nil, err
	}

	asset := &content.Asset{
		Key:       key,
		URL:       stored.URL,
		Folder:    folder,
		Filename:  stored.Filename,
		Size:      stored.Size,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.repo.Store(asset); err != nil {
		if removeErr := s.store.Delete(folder, stored.Filename); removeErr != nil {
			s.logger.Assets().Error("Failed to roll back stored file", "key", key, "error", removeErr.Error())
		}
		return nil, err
	}

	s.logger.Assets().Info("Asset uploaded", "key", key, "folder", folder, "size", stored.Size)
	return asset, nil
}

// Delete removes an asset by storage key. Unknown keys succeed silently and
// a missing file never blocks removal of the record; callers treat deletion
// as best-effort cleanup.
func (s *AssetService) Delete(key string) error {
	asset, err := s.repo.FindByKey(key)
	if err != nil {
		return err
	}
	if asset == nil {
		s.logger.Assets().Debug("Delete requested for unknown asset", "key", key)
		return nil
	}

	if err := s.store.Delete(asset.Folder, asset.Filename); err != nil {
		s.logger.Assets().Warn("Failed to remove asset file", "key", key, "error", err.Error())
	}
	if err := s.repo.Delete(key); err != nil {
		return err
	}

	s.logger.Assets().Info("Asset deleted", "key", key, "folder", asset.Folder)
	return nil
}

// RemoveAsset satisfies the editor's cleanup contract.
func (s *AssetService) RemoveAsset(ctx context.Context, key string) error {
	return s.Delete(key)
}

// UploadAsset satisfies the editor's upload contract.
func (s *AssetService) UploadAsset(ctx context.Context, folder, filename string, data io.Reader) (string, string, error) {
	payload, err := io.ReadAll(data)
	if err != nil {
		return "", "", fmt.Errorf("failed to read upload: %w", err)
	}
	asset, err := s.Upload(folder, filename, payload)
	if err != nil {
		return "", "", err
	}
	return asset.URL, asset.Key, nil
}

var (
	_ editor.AssetRemover  = (*AssetService)(nil)
	_ editor.AssetUploader = (*AssetService)(nil)
)

// List returns all recorded assets.
func (s *AssetService) List() ([]*content.Asset, error) {
	return s.repo.FindAll()
}
