package worker

import (
	"context"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"aws-tutor/internal/models"
)

// DocumentStore is where ingested documents end up.
type DocumentStore interface {
	Upsert(ctx context.Context, d *models.Document) error
}

// Stats summarises one ingestion run.
type Stats struct {
	Stored  int64
	Skipped int64
	Failed  int64
}

type Pool struct {
	store       DocumentStore
	logger      *zap.Logger
	workerCount int
}

func NewPool(store DocumentStore, logger *zap.Logger, workerCount int) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Pool{
		store:       store,
		logger:      logger,
		workerCount: workerCount,
	}
}

// Run drains docs with the configured number of workers. A document that
// fails to store is logged and counted; it does not stop the run. Run returns
// when docs is closed or ctx is done.
func (p *Pool) Run(ctx context.Context, docs <-chan models.Document) (Stats, error) {
	var stored, skipped, failed atomic.Int64

	g, ctx := errgroup.WithContext(ctx)
	for i := 0; i < p.workerCount; i++ {
		id := i
		g.Go(func() error {
			for {
				select {
				case <-ctx.Done():
					p.logger.Debug("worker shutting down", zap.Int("worker", id))
					return ctx.Err()
				case doc, ok := <-docs:
					if !ok {
						return nil
					}
					if doc.URL == "" || strings.TrimSpace(doc.Content) == "" {
						skipped.Add(1)
						continue
					}
					if err := p.store.Upsert(ctx, &doc); err != nil {
						failed.Add(1)
						p.logger.Error("failed to store document",
							zap.Int("worker", id),
							zap.String("url", doc.URL),
							zap.Error(err),
						)
						continue
					}
					stored.Add(1)
					p.logger.Debug("stored document", zap.Int("worker", id), zap.String("url", doc.URL))
				}
			}
		})
	}

	err := g.Wait()
	return Stats{
		Stored:  stored.Load(),
		Skipped: skipped.Load(),
		Failed:  failed.Load(),
	}, err
}
