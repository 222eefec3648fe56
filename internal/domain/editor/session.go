package editor

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// AssetRemover deletes a stored asset by storage key.
type AssetRemover interface {
	RemoveAsset(ctx context.Context, key string) error
}

// AssetUploader stores a file and returns its public URL and storage key.
type AssetUploader interface {
	UploadAsset(ctx context.Context, folder, filename string, data io.Reader) (url, key string, err error)
}

// SessionState is the lifecycle state of an edit session.
type SessionState int

const (
	StateClosed SessionState = iota
	StateEditing
)

// SessionConfig carries the collaborators a Session needs. Pending, Remover,
// Uploader, and Logger may be nil; the corresponding behavior degrades to a
// no-op.
type SessionConfig struct {
	Template Item
	Folder   string
	Pending  *PendingDeleteSet
	Remover  AssetRemover
	Uploader AssetUploader
	Logger   *slog.Logger
}

// Session manages the add/edit/save/cancel lifecycle of a single list item.
// Edits accumulate in a buffered copy and reach the parent list only on Save;
// the original snapshot taken at edit start is the sole basis for orphan
// diffing, never the live list.
type Session struct {
	state    SessionState
	index    int
	buffered Item
	original Item // nil for new items

	template Item
	folder   string
	pending  *PendingDeleteSet
	remover  AssetRemover
	uploader AssetUploader
	logger   *slog.Logger

	// storage keys this session queued into the pending set, rolled back
	// on cancel since the edits that orphaned them are being discarded
	queued []string
}

func NewSession(cfg SessionConfig) *Session {
	return &Session{
		template: cfg.Template,
		folder:   cfg.Folder,
		pending:  cfg.Pending,
		remover:  cfg.Remover,
		uploader: cfg.Uploader,
		logger:   cfg.Logger,
	}
}

func (s *Session) State() SessionState { return s.state }

// Index is the position the buffered item will be committed to. An index
// equal to the parent list length means append.
func (s *Session) Index() int { return s.index }

// Buffered returns a copy of the in-progress item.
func (s *Session) Buffered() Item { return cloneItem(s.buffered) }

// Original returns a copy of the snapshot taken at edit start, nil for adds.
func (s *Session) Original() Item { return cloneItem(s.original) }

// BeginEdit opens an edit session for an existing item. The template is
// merged under the item so fields added to the template after the item was
// created still appear in the form.
func (s *Session) BeginEdit(items []Item, index int) error {
	if s.state == StateEditing {
		return ErrEditInProgress
	}
	if index < 0 || index >= len(items) {
		return ErrIndexOutOfRange
	}
	buffered := make(Item, len(s.template)+len(items[index]))
	for name, value := range s.template {
		buffered[name] = cloneValue(value)
	}
	for name, value := range items[index] {
		buffered[name] = cloneValue(value)
	}
	s.buffered = buffered
	s.original = cloneItem(buffered)
	s.index = index
	s.state = StateEditing
	return nil
}

// BeginAdd opens an edit session for a new item seeded by template inference.
func (s *Session) BeginAdd(items []Item) error {
	if s.state == StateEditing {
		return ErrEditInProgress
	}
	s.buffered = InferItem(s.template, items)
	s.original = nil
	s.index = len(items)
	s.state = StateEditing
	return nil
}

// SetField updates one buffered field. Clearing an asset field queues the
// sibling "_key" reference for deferred deletion; the user may still cancel,
// so nothing is deleted yet.
func (s *Session) SetField(name string, value any) error {
	if s.state != StateEditing {
		return ErrNoActiveEdit
	}
	if cleared, ok := value.(string); ok && cleared == "" {
		if old, ok := s.buffered[name].(string); ok && old != "" {
			if assetKey, ok := s.buffered[name+storageKeySuffix].(string); ok && assetKey != "" {
				s.queuePendingDelete(assetKey)
				s.buffered[name+storageKeySuffix] = ""
			}
		}
	}
	s.buffered[name] = value
	return nil
}

// UploadAsset stores a file for an asset field and records its URL and
// storage key in the buffer. A prior upload from this same session is deleted
// immediately since it was never committed anywhere; a previously-committed
// asset is only queued, its deletion deferred until the surrounding save
// commits. Upload failure leaves the buffer untouched.
func (s *Session) UploadAsset(ctx context.Context, field, filename string, data io.Reader) error {
	if s.state != StateEditing {
		return ErrNoActiveEdit
	}
	if s.uploader == nil {
		return ErrNoUploader
	}

	prior, _ := s.buffered[field+storageKeySuffix].(string)
	committed := ""
	if s.original != nil {
		committed, _ = s.original[field+storageKeySuffix].(string)
	}
	if prior != "" && prior != committed {
		s.removeAsset(ctx, prior)
	}

	url, key, err := s.uploader.UploadAsset(ctx, s.folder, filename, data)
	if err != nil {
		return err
	}
	if prior != "" && prior == committed {
		s.queuePendingDelete(prior)
	}
	s.buffered[field] = url
	s.buffered[field+storageKeySuffix] = key
	return nil
}

// Save commits the buffered item into the parent list, replacing at index or
// appending when index equals the list length, and returns the updated list.
// Original assets superseded or cleared during the session are released:
// immediately when nothing else tracks them, otherwise left to the pending
// set the clearing already queued them into.
func (s *Session) Save(ctx context.Context, items []Item) ([]Item, error) {
	if s.state != StateEditing {
		return items, ErrNoActiveEdit
	}

	for _, key := range s.orphanedOriginalKeys() {
		if s.pending != nil && s.pending.Contains(key) {
			continue
		}
		s.removeAsset(ctx, key)
	}

	committed := cloneItem(s.buffered)
	if s.index >= len(items) {
		items = append(items, committed)
	} else {
		items[s.index] = committed
	}
	s.reset()
	return items, nil
}

// Cancel discards the buffered item. Storage keys present in the buffer but
// absent from the original are same-session uploads that were never
// committed; they are deleted immediately. Deferred deletions queued during
// this session are rolled back.
func (s *Session) Cancel(ctx context.Context) error {
	if s.state != StateEditing {
		return ErrNoActiveEdit
	}

	originalKeys := make(map[string]struct{})
	for _, key := range ExtractStorageKeys(s.original) {
		originalKeys[key] = struct{}{}
	}
	for _, key := range ExtractStorageKeys(s.buffered) {
		if _, ok := originalKeys[key]; !ok {
			s.removeAsset(ctx, key)
		}
	}

	if s.pending != nil {
		for _, key := range s.queued {
			s.pending.Remove(key)
		}
	}
	s.reset()
	return nil
}

// orphanedOriginalKeys lists the original's storage references that the
// buffered state no longer uses: the key changed, or the display field it
// backed is now empty.
func (s *Session) orphanedOriginalKeys() []string {
	if s.original == nil {
		return nil
	}
	var orphaned []string
	for name, value := range s.original {
		if !IsStorageKeyField(name) {
			continue
		}
		origKey, _ := value.(string)
		if origKey == "" {
			continue
		}
		currentKey, _ := s.buffered[name].(string)
		display, _ := s.buffered[strings.TrimSuffix(name, storageKeySuffix)].(string)
		if currentKey != origKey || display == "" {
			orphaned = append(orphaned, origKey)
		}
	}
	return orphaned
}

func (s *Session) queuePendingDelete(key string) {
	if s.pending == nil {
		s.pending = NewPendingDeleteSet()
	}
	if s.pending.Contains(key) {
		return
	}
	s.pending.Add(key)
	s.queued = append(s.queued, key)
}

// removeAsset issues a fire-and-forget delete. Cleanup failures are logged
// and never block the action that triggered them.
func (s *Session) removeAsset(ctx context.Context, key string) {
	if s.remover == nil {
		return
	}
	go func() {
		if err := s.remover.RemoveAsset(ctx, key); err != nil && s.logger != nil {
			s.logger.Warn("Asset cleanup failed", "storageKey", key, "error", err)
		}
	}()
}

func (s *Session) reset() {
	s.state = StateClosed
	s.index = 0
	s.buffered = nil
	s.original = nil
	s.queued = nil
}
