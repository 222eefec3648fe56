package editor

import (
	"context"
	"log/slog"
)

// PendingDeleteSet accumulates storage keys whose deletion is deferred until
// the enclosing page-level save commits. Keys are kept in insertion order and
// deduplicated.
type PendingDeleteSet struct {
	keys []string
	seen map[string]struct{}
}

func NewPendingDeleteSet() *PendingDeleteSet {
	return &PendingDeleteSet{seen: make(map[string]struct{})}
}

func (p *PendingDeleteSet) Add(key string) {
	if key == "" {
		return
	}
	if _, ok := p.seen[key]; ok {
		return
	}
	p.seen[key] = struct{}{}
	p.keys = append(p.keys, key)
}

func (p *PendingDeleteSet) Remove(key string) {
	if _, ok := p.seen[key]; !ok {
		return
	}
	delete(p.seen, key)
	for i, k := range p.keys {
		if k == key {
			p.keys = append(p.keys[:i], p.keys[i+1:]...)
			break
		}
	}
}

func (p *PendingDeleteSet) Contains(key string) bool {
	_, ok := p.seen[key]
	return ok
}

func (p *PendingDeleteSet) Keys() []string {
	return append([]string(nil), p.keys...)
}

func (p *PendingDeleteSet) Len() int {
	return len(p.keys)
}

func (p *PendingDeleteSet) Clear() {
	p.keys = nil
	p.seen = make(map[string]struct{})
}

// FlushPendingDeletes issues a best-effort delete for every queued key and
// clears the set. Individual failures are logged and do not interrupt the
// remaining keys; cleanup must never block the save that triggered it.
func FlushPendingDeletes(ctx context.Context, pending *PendingDeleteSet, remover AssetRemover, logger *slog.Logger) {
	if pending == nil || remover == nil {
		return
	}
	for _, key := range pending.Keys() {
		if err := remover.RemoveAsset(ctx, key); err != nil && logger != nil {
			logger.Warn("Deferred asset cleanup failed", "storageKey", key, "error", err)
		}
	}
	pending.Clear()
}
