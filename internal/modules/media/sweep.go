package media

import (
	"context"
	"errors"
	"fmt"
	"time"

	"repairdesk/internal/metrics"
	"repairdesk/internal/pkg/storage"
	"repairdesk/internal/repository"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const (
	sweepBatch   = 200
	sweepTimeout = 5 * time.Minute
)

// Sweeper removes uploads that never reached the stored state, together
// with whatever part of their blob made it to the bucket.
type Sweeper struct {
	media *repository.MediaRepository
	store storage.ObjectStore
	ttl   time.Duration
	log   *zap.Logger
	now   func() time.Time
}

func NewSweeper(media *repository.MediaRepository, store storage.ObjectStore, ttl time.Duration, log *zap.Logger) *Sweeper {
	if log == nil {
		log = zap.NewNop()
	}
	return &Sweeper{media: media, store: store, ttl: ttl, log: log, now: time.Now}
}

// Run sweeps pending rows older than the TTL and returns how many were
// removed. Rows whose blob could not be deleted are kept for the next run.
func (s *Sweeper) Run(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.ttl)
	removed := 0

	for {
		items, err := s.media.ListPendingBefore(ctx, cutoff, sweepBatch)
		if err != nil {
			return removed, fmt.Errorf("list pending media: %w", err)
		}

		progress := 0
		for _, m := range items {
			if err := s.store.Delete(ctx, m.ObjectKey); err != nil && !errors.Is(err, storage.ErrObjectNotFound) {
				s.log.Warn("sweep: delete blob", zap.Int64("media_id", m.ID), zap.String("key", m.ObjectKey), zap.Error(err))
				continue
			}
			n, err := s.media.DeletePending(ctx, m.ID)
			if err != nil {
				return removed, fmt.Errorf("delete pending media %d: %w", m.ID, err)
			}
			if n > 0 {
				removed++
				progress++
				metrics.MediaSwept.Inc()
			}
		}

		if len(items) < sweepBatch || progress == 0 {
			break
		}
	}

	if removed > 0 {
		s.log.Info("media sweep completed", zap.Int("removed", removed), zap.Time("cutoff", cutoff))
	}
	return removed, nil
}

// Schedule registers the sweep on c. An empty spec disables it.
func (s *Sweeper) Schedule(c *cron.Cron, spec string) error {
	if spec == "" {
		return nil
	}
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), sweepTimeout)
		defer cancel()
		if _, err := s.Run(ctx); err != nil {
			s.log.Error("media sweep failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("schedule media sweep %q: %w", spec, err)
	}
	return nil
}
