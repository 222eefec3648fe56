// Package services provides the application service layer
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sitedeck/sitedeck-go/internal/domain/editor"
	"github.com/sitedeck/sitedeck-go/internal/domain/entities/content"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/messaging"
	"github.com/sitedeck/sitedeck-go/internal/infrastructure/observability/logging"
	persistence "github.com/sitedeck/sitedeck-go/internal/infrastructure/persistence/content"
	"github.com/sitedeck/sitedeck-go/pkg/config"
)

// ContentService owns the content map: locale-aware reads with malformed
// JSON degraded to empty structures, and root-granular writes broadcast to
// connected admin panels.
type ContentService struct {
	repo        *persistence.ContentRepository
	broadcaster *messaging.UpdateBroadcaster
	logger      *logging.ChanneledLogger
}

func NewContentService(repo *persistence.ContentRepository, broadcaster *messaging.UpdateBroadcaster, logger *logging.ChanneledLogger) *ContentService {
	return &ContentService{
		repo:        repo,
		broadcaster: broadcaster,
		logger:      logger,
	}
}

// GetContentMap loads the full content map for a locale, falling back to the
// default locale when lang is empty.
func (s *ContentService) GetContentMap(lang string) (content.Map, error) {
	start := time.Now()
	lang = s.normalizeLang(lang)

	contentMap, err := s.repo.FindAll(lang)
	if err != nil {
		return nil, fmt.Errorf("failed to load content map: %w", err)
	}
	for key, value := range contentMap {
		contentMap[key] = sanitizeStoredValue(value)
	}

	s.logger.Content().Debug("Loaded content map", "lang", lang, "roots", len(contentMap), "duration", time.Since(start))
	return contentMap, nil
}

// GetRoot loads one content root, nil when absent.
func (s *ContentService) GetRoot(key, lang string) (*content.Entry, error) {
	entry, err := s.repo.FindByKey(key, s.normalizeLang(lang))
	if err != nil {
		return nil, err
	}
	if entry != nil {
		entry.Value = sanitizeStoredValue(entry.Value)
	}
	return entry, nil
}

// UpdateRoot replaces the entire stored value of a root. Strings are stored
// raw; objects and arrays are stored JSON-serialized. Connected admin
// clients receive an update event.
func (s *ContentService) UpdateRoot(key, lang string, value any) (string, error) {
	lang = s.normalizeLang(lang)

	serialized, err := serializeRootValue(value)
	if err != nil {
		return "", err
	}
	if err := s.repo.Upsert(key, lang, serialized); err != nil {
		return "", err
	}

	s.logger.Content().Info("Content root updated", "key", key, "lang", lang, "bytes", len(serialized))
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(content.UpdateEvent{Key: key, Lang: lang, UpdatedAt: time.Now().UTC()})
	}
	return serialized, nil
}

// UpdateField writes one dotted field through the content field router: the
// root is re-read, the field set, and the whole root persisted.
func (s *ContentService) UpdateField(ctx context.Context, dottedKey, lang string, value any) error {
	lang = s.normalizeLang(lang)
	contentMap, err := s.repo.FindAll(lang)
	if err != nil {
		return fmt.Errorf("failed to load content map: %w", err)
	}

	router := editor.NewRouter(s.writerForLang(lang))
	return router.Save(ctx, contentMap, dottedKey, value)
}

// QuickToggle flips one boolean field and persists the root immediately.
func (s *ContentService) QuickToggle(ctx context.Context, dottedKey, lang string) (bool, error) {
	lang = s.normalizeLang(lang)
	contentMap, err := s.repo.FindAll(lang)
	if err != nil {
		return false, fmt.Errorf("failed to load content map: %w", err)
	}

	router := editor.NewRouter(s.writerForLang(lang))
	return router.QuickToggle(ctx, contentMap, dottedKey)
}

// AllStoredValues returns every stored value across keys and locales, for
// orphan reference scanning.
func (s *ContentService) AllStoredValues() ([]string, error) {
	return s.repo.FindAllValues()
}

func (s *ContentService) normalizeLang(lang string) string {
	if lang == "" {
		return config.DefaultLang
	}
	return lang
}

// writerForLang adapts the service to the router's persistence contract.
func (s *ContentService) writerForLang(lang string) editor.ContentWriter {
	return contentWriterFunc(func(ctx context.Context, rootKey string, value any) error {
		_, err := s.UpdateRoot(rootKey, lang, value)
		return err
	})
}

type contentWriterFunc func(ctx context.Context, rootKey string, value any) error

func (f contentWriterFunc) WriteContent(ctx context.Context, rootKey string, value any) error {
	return f(ctx, rootKey, value)
}

func serializeRootValue(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("failed to serialize content value: %w", err)
	}
	return string(data), nil
}

// sanitizeStoredValue degrades malformed structured values to an empty
// object or array instead of handing broken JSON to clients.
func sanitizeStoredValue(value string) string {
	trimmed := strings.TrimSpace(value)
	if strings.HasPrefix(trimmed, "{") {
		if !json.Valid([]byte(trimmed)) {
			return "{}"
		}
	} else if strings.HasPrefix(trimmed, "[") {
		if !json.Valid([]byte(trimmed)) {
			return "[]"
		}
	}
	return value
}
