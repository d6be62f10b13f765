package service

import (
	"context"
	"os"
	"time"

	"sharebox/pkg/fsutil"
	"sharebox/registry"

	"go.uber.org/zap"
)

// Sweeper periodically purges files older than the retention window
// along with their registry entries. Share links are NOT cascaded here,
// unlike the explicit delete: orphaned links die lazily on their next
// access. That asymmetry matches the original behavior and is kept.
type Sweeper struct {
	Files     *registry.FileStore
	Root      string
	Retention time.Duration
	Interval  time.Duration
}

// Run sweeps on every tick until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	zap.L().Debug("Retention sweeper attached",
		zap.Duration("tick_every", s.Interval),
		zap.Duration("retention", s.Retention))

	for {
		select {
		case <-ticker.C:
			s.Sweep()
		case <-ctx.Done():
			zap.L().Debug("Retention sweeper stopped")
			return
		}
	}
}

// Sweep runs one pass and returns how many entries it removed. A
// failure on one entry never aborts the pass for the others.
func (s *Sweeper) Sweep() int {
	now := time.Now()
	removed := 0

	for key, f := range s.Files.Snapshot() {
		if now.Sub(f.UploadDate) <= s.Retention {
			continue
		}

		abs, err := fsutil.JoinWithinRoot(s.Root, key)
		if err != nil {
			zap.L().Warn("Skipping sweep of entry with bad key", zap.String("key", key), zap.Error(err))
			continue
		}

		if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
			zap.L().Warn("Failed to remove expired file", zap.String("key", key), zap.Error(err))
		}

		s.Files.Delete(key)
		removed++

		zap.L().Debug("Swept expired file", zap.String("key", key))
	}

	return removed
}
