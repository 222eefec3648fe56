// Package media provides filesystem storage for uploaded assets
package media

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
)

// Thumbnail widths generated for raster uploads.
var thumbnailSizes = []int{600, 300}

// AssetStore persists uploaded files under a base directory, grouped by
// folder, and generates WebP thumbnails for raster images.
type AssetStore struct {
	basePath string
	baseURL  string
}

// StoredFile describes a successfully stored upload.
type StoredFile struct {
	URL        string
	Path       string
	Filename   string
	Size       int64
	Thumbnails []string
}

func NewAssetStore(basePath, baseURL string) *AssetStore {
	return &AssetStore{
		basePath: basePath,
		baseURL:  strings.TrimSuffix(baseURL, "/"),
	}
}

// SaveUpload writes the uploaded bytes to {basePath}/{folder}/ using the last
// key segment as the on-disk base name. Thumbnails are generated for raster
// formats; SVG and ICO files are stored as-is.
func (s *AssetStore) SaveUpload(folder, key, originalFilename string, data []byte) (*StoredFile, error) {
	ext := normalizeExtension(originalFilename)
	if ext == "" {
		return nil, fmt.Errorf("unsupported image format: %s", filepath.Ext(originalFilename))
	}

	targetDir := filepath.Join(s.basePath, folder)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	filename := baseNameFromKey(key) + ext
	fullPath := filepath.Join(targetDir, filename)
	if err := os.WriteFile(fullPath, data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write file: %w", err)
	}

	stored := &StoredFile{
		URL:      fmt.Sprintf("%s/%s/%s", s.baseURL, folder, filename),
		Path:     fullPath,
		Filename: filename,
		Size:     int64(len(data)),
	}

	if isRasterExtension(ext) {
		thumbs, err := s.generateWebPThumbnails(fullPath, folder, baseNameFromKey(key))
		if err != nil {
			os.Remove(fullPath)
			return nil, fmt.Errorf("failed to generate thumbnails: %w", err)
		}
		stored.Thumbnails = thumbs
	}

	return stored, nil
}

// Delete removes a stored file and its thumbnails. Missing files are not an
// error; delete is best-effort by contract.
func (s *AssetStore) Delete(folder, filename string) error {
	fullPath := filepath.Join(s.basePath, folder, filename)
	if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove file: %w", err)
	}

	basename := strings.TrimSuffix(filename, filepath.Ext(filename))
	thumbsDir := filepath.Join(s.basePath, folder, "thumbs")
	for _, width := range thumbnailSizes {
		thumbPath := filepath.Join(thumbsDir, fmt.Sprintf("%s_%dpx.webp", basename, width))
		if err := os.Remove(thumbPath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove thumbnail: %w", err)
		}
	}
	return nil
}

// generateWebPThumbnails creates the configured WebP thumbnail sizes,
// cleaning up partial output on failure.
func (s *AssetStore) generateWebPThumbnails(originalPath, folder, basename string) ([]string, error) {
	originalFile, err := os.Open(originalPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open original file: %w", err)
	}
	defer originalFile.Close()

	img, err := imaging.Decode(originalFile)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	thumbsDir := filepath.Join(s.basePath, folder, "thumbs")
	if err := os.MkdirAll(thumbsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create thumbs directory: %w", err)
	}

	thumbnails := make([]string, 0, len(thumbnailSizes))
	for _, width := range thumbnailSizes {
		resized := imaging.Resize(img, width, 0, imaging.Lanczos)
		thumbFilename := fmt.Sprintf("%s_%dpx.webp", basename, width)
		thumbPath := filepath.Join(thumbsDir, thumbFilename)

		if err := webp.Save(thumbPath, resized, &webp.Options{Quality: 85}); err != nil {
			for _, created := range thumbnails {
				os.Remove(filepath.Join(s.basePath, strings.TrimPrefix(created, s.baseURL+"/")))
			}
			return nil, fmt.Errorf("failed to save WebP thumbnail %s: %w", thumbFilename, err)
		}
		thumbnails = append(thumbnails, fmt.Sprintf("%s/%s/thumbs/%s", s.baseURL, folder, thumbFilename))
	}
	return thumbnails, nil
}

// baseNameFromKey uses the segment after the folder as the on-disk name.
func baseNameFromKey(key string) string {
	if i := strings.LastIndex(key, "/"); i >= 0 {
		return key[i+1:]
	}
	return key
}

func normalizeExtension(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png":
		return ".png"
	case ".jpg", ".jpeg":
		return ".jpg"
	case ".webp":
		return ".webp"
	case ".gif":
		return ".gif"
	case ".svg":
		return ".svg"
	case ".ico":
		return ".ico"
	}
	return ""
}

func isRasterExtension(ext string) bool {
	switch ext {
	case ".png", ".jpg", ".webp", ".gif":
		return true
	}
	return false
}
