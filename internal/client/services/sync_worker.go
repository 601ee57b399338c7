package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/myshelf/internal/client/models"
	"github.com/dmitrijs2005/myshelf/internal/client/repositories/books"
	"github.com/dmitrijs2005/myshelf/internal/client/scheduler"
	"github.com/dmitrijs2005/myshelf/internal/filex"
	"github.com/dmitrijs2005/myshelf/internal/logging"
	"golang.org/x/sync/errgroup"
)

// SyncTaskName identifies the background sync job in the scheduler.
const SyncTaskName = "book-sync"

// DefaultSyncBatchSize is used when no batch size is configured.
const DefaultSyncBatchSize = 5

// SyncReport summarises one pass over the unsynced books.
type SyncReport struct {
	Pending int
	Synced  int
	Skipped int
	Failed  int
}

// SyncWorker drains unsynced cache rows through the shared upload path.
type SyncWorker struct {
	owner     OwnerSource
	cache     books.Repository
	uploader  *Uploader
	batchSize int
	logger    logging.Logger
}

func NewSyncWorker(owner OwnerSource, cache books.Repository, u *Uploader, batchSize int, l logging.Logger) *SyncWorker {
	if batchSize <= 0 {
		batchSize = DefaultSyncBatchSize
	}
	return &SyncWorker{
		owner:     owner,
		cache:     cache,
		uploader:  u,
		batchSize: batchSize,
		logger:    l.With("module", "sync_worker"),
	}
}

func (w *SyncWorker) Name() string { return SyncTaskName }

// Run is the scheduler entry point. Failures of single books never fail the
// job; only problems before the batch loop ask for a retry.
func (w *SyncWorker) Run(ctx context.Context) scheduler.Result {
	report, err := w.SyncAll(ctx)
	if err != nil {
		w.logger.Warn(ctx, "sync pass aborted", "error", err)
		return scheduler.Retry
	}
	w.logger.Info(ctx, "sync pass done",
		"pending", report.Pending, "synced", report.Synced, "skipped", report.Skipped, "failed", report.Failed)
	return scheduler.Success
}

// SyncAll uploads every unsynced book, batchSize at a time. Books inside a
// batch are pushed concurrently; a failing book is logged and left for the
// next pass.
func (w *SyncWorker) SyncAll(ctx context.Context) (SyncReport, error) {
	var report SyncReport

	owner, ok := w.owner.CurrentOwnerID(ctx)
	if !ok || !models.HasRemote(owner) {
		return report, ErrNoOwner
	}

	pending, err := w.cache.Unsynced(ctx)
	if err != nil {
		return report, err
	}
	report.Pending = len(pending)

	var mu sync.Mutex
	count := func(field *int) {
		mu.Lock()
		*field++
		mu.Unlock()
	}

	for start := 0; start < len(pending); start += w.batchSize {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		end := min(start+w.batchSize, len(pending))

		var g errgroup.Group
		for _, b := range pending[start:end] {
			g.Go(func() error {
				if !filex.Exists(b.Location) {
					w.logger.Warn(ctx, "local file missing, skipping", "book_id", b.ID, "path", b.Location)
					count(&report.Skipped)
					return nil
				}
				if _, err := w.uploader.Push(ctx, owner, b); err != nil {
					w.logger.Error(ctx, "book sync failed", "book_id", b.ID, "error", err)
					count(&report.Failed)
					return nil
				}
				count(&report.Synced)
				return nil
			})
		}
		_ = g.Wait()
	}

	return report, nil
}
