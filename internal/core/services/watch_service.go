package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/kamal-hamza/lx-assets/internal/core/domain"
)

const (
	defaultWatchDebounce = 500 * time.Millisecond
	minWatchPoll         = time.Millisecond
)

// pollInterval is how often pending files are checked against debounce
func pollInterval(debounce time.Duration) time.Duration {
	return max(debounce/2, minWatchPoll)
}

// WatchEvent reports the outcome of importing one inbox file
type WatchEvent struct {
	SrcPath string
	Asset   *domain.Asset
	Err     error
}

// WatchService registers files dropped into an inbox directory. A file is
// imported once it has seen no writes for the debounce period, and removed
// from the inbox when registration succeeds.
type WatchService struct {
	importer *ImportService
	inbox    string
	debounce time.Duration
	logger   *zap.Logger
}

// NewWatchService creates a watcher over inbox
func NewWatchService(importer *ImportService, inbox string, debounce time.Duration, logger *zap.Logger) *WatchService {
	if debounce <= 0 {
		debounce = defaultWatchDebounce
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WatchService{
		importer: importer,
		inbox:    inbox,
		debounce: debounce,
		logger:   logger,
	}
}

// Inbox returns the watched directory
func (s *WatchService) Inbox() string {
	return s.inbox
}

// Run watches until ctx is cancelled. Files already in the inbox are
// imported first. report may be nil.
func (s *WatchService) Run(ctx context.Context, report func(WatchEvent)) error {
	if err := os.MkdirAll(s.inbox, 0755); err != nil {
		return fmt.Errorf("failed to create inbox: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(s.inbox); err != nil {
		return fmt.Errorf("failed to watch inbox: %w", err)
	}

	pending := make(map[string]time.Time)

	entries, err := os.ReadDir(s.inbox)
	if err != nil {
		return fmt.Errorf("failed to read inbox: %w", err)
	}
	backdated := time.Now().Add(-s.debounce)
	for _, e := range entries {
		if !e.IsDir() && !ignoredInboxName(e.Name()) {
			pending[filepath.Join(s.inbox, e.Name())] = backdated
		}
	}

	ticker := time.NewTicker(pollInterval(s.debounce))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ignoredInboxName(filepath.Base(event.Name)) {
				continue
			}
			switch {
			case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
				pending[event.Name] = time.Now()
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				delete(pending, event.Name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			s.logger.Warn("inbox watcher error", zap.Error(err))

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < s.debounce {
					continue
				}
				delete(pending, path)
				ev := s.process(ctx, path)
				if ev != nil && report != nil {
					report(*ev)
				}
			}
		}
	}
}

func (s *WatchService) process(ctx context.Context, path string) *WatchEvent {
	info, err := os.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil
	}

	asset, err := s.importer.Import(ctx, ImportRequest{SrcPath: path})
	if err != nil {
		s.logger.Warn("inbox import failed", zap.String("file", path), zap.Error(err))
		return &WatchEvent{SrcPath: path, Err: err}
	}

	if err := os.Remove(path); err != nil {
		s.logger.Warn("failed to clear inbox file", zap.String("file", path), zap.Error(err))
	}
	s.logger.Info("inbox file registered", zap.String("file", path), zap.String("asset", asset.Filename))
	return &WatchEvent{SrcPath: path, Asset: asset}
}

// ignoredInboxName filters editor swap files and partial downloads
func ignoredInboxName(name string) bool {
	if strings.HasPrefix(name, ".") || strings.HasPrefix(name, "~") {
		return true
	}
	for _, suffix := range []string{".tmp", ".part", ".crdownload", ".swp"} {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
