package knowledge

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/tieubaoca/coredna-chatbot/types"
)

// Store owns the knowledge base for the lifetime of the process. The base it
// holds is immutable; every (re)load builds a fresh base and swaps one
// pointer, so in-flight queries never observe a partially loaded document.
type Store struct {
	path   string
	logger *zap.Logger
	base   atomic.Pointer[types.KnowledgeBase]
}

func NewStore(path string, logger *zap.Logger) *Store {
	s := &Store{path: path, logger: logger}
	s.base.Store(types.NewKnowledgeBase())
	return s
}

// NewStaticStore wraps an already-built base. Tests and tools fabricate
// bases with it.
func NewStaticStore(base *types.KnowledgeBase, logger *zap.Logger) *Store {
	s := &Store{logger: logger}
	if base == nil {
		base = types.NewKnowledgeBase()
	}
	if base.Pages == nil {
		base.Pages = map[string]types.Page{}
	}
	s.base.Store(base)
	return s
}

// Load reads the knowledge document and swaps it in. A missing or malformed
// document degrades to an empty base; the chatbot stays usable either way.
func (s *Store) Load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		s.logger.Warn("knowledge base unavailable, serving empty base",
			zap.String("path", s.path), zap.Error(err))
		s.base.Store(types.NewKnowledgeBase())
		return
	}
	base := types.NewKnowledgeBase()
	if err := json.Unmarshal(data, base); err != nil {
		s.logger.Warn("knowledge base unreadable, serving empty base",
			zap.String("path", s.path), zap.Error(err))
		s.base.Store(types.NewKnowledgeBase())
		return
	}
	s.base.Store(base)
	s.logger.Info("knowledge base loaded",
		zap.Int("pages", len(base.Slugs)),
		zap.String("lastUpdated", base.LastUpdated))
}

// Base returns the current base. Callers must treat it as read-only.
func (s *Store) Base() *types.KnowledgeBase {
	return s.base.Load()
}

func (s *Store) GetPage(slug string) (types.Page, bool) {
	page, ok := s.Base().Pages[slug]
	return page, ok
}

// ListTopics returns one entry per page in document order. The description
// falls back from meta description to the first key point to empty.
func (s *Store) ListTopics() []types.Topic {
	base := s.Base()
	topics := make([]types.Topic, 0, len(base.Slugs))
	for _, slug := range base.Slugs {
		page := base.Pages[slug]
		description := page.MetaDescription
		if description == "" && len(page.KeyPoints) > 0 {
			description = page.KeyPoints[0]
		}
		topics = append(topics, types.Topic{
			Slug:        slug,
			Title:       page.Title,
			Description: description,
		})
	}
	return topics
}

// Watch reloads the base whenever the document changes on disk. It blocks
// until ctx is done. The parent directory is watched because editors and the
// scraper replace the file rather than writing it in place.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != filepath.Clean(s.path) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			s.logger.Info("knowledge base changed on disk, reloading",
				zap.String("path", s.path))
			s.Load()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("knowledge watcher error", zap.Error(err))
		}
	}
}
