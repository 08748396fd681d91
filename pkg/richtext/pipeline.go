package richtext

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/athapong/aio-richtext/pkg/metrics"
)

// Request is one document of a batch.
type Request struct {
	ID     string `json:"id"`
	Source Source `json:"source"`
	Input  string `json:"input"`
}

// RenderBatch converts reqs concurrently, at most BatchSize at a time.
// Results are returned in request order. The first failure stops the batch.
func (b *Builder) RenderBatch(ctx context.Context, reqs []Request) ([]Result, error) {
	b.logger.WithField("document_count", len(reqs)).Info("Starting batch rendering")

	results := make([]Result, len(reqs))
	for i := 0; i < len(reqs); i += b.opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "batch rendering cancelled")
		}
		metrics.BatchQueueLength.Set(float64(len(reqs) - i))

		end := min(i+b.opts.BatchSize, len(reqs))
		errs := make(chan error, end-i)
		var wg sync.WaitGroup

		for j := i; j < end; j++ {
			wg.Add(1)
			go func(j int) {
				defer wg.Done()

				req := reqs[j]
				res, err := b.Render(req.Source, req.Input)
				if err != nil {
					errs <- errors.Wrapf(err, "document %q", req.ID)
					return
				}
				results[j] = res
			}(j)
		}

		wg.Wait()
		close(errs)

		if err := <-errs; err != nil {
			b.logger.WithError(err).Error("Failed to render batch")
			return nil, errors.Wrap(err, "batch rendering failed")
		}
	}
	metrics.BatchQueueLength.Set(0)

	b.logger.WithField("document_count", len(reqs)).Info("Batch rendering completed")
	return results, nil
}
