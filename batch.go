package tagsheet

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/cosmicflow/tagsheet/product"
)

// Job is one document of a batch.
type Job struct {
	Kind  Kind
	Items []product.Item
	Path  string // output file
}

// GenerateBatch writes independent documents in parallel, at most
// parallelism at a time (GOMAXPROCS when <= 0). The first failure cancels
// jobs that have not started yet; documents already written are kept.
func (g *Generator) GenerateBatch(ctx context.Context, jobs []Job, parallelism int) error {
	if parallelism <= 0 {
		parallelism = runtime.GOMAXPROCS(0)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(parallelism)
	for i, job := range jobs {
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := g.GenerateFile(job.Path, job.Kind, job.Items); err != nil {
				return fmt.Errorf("tagsheet: job %d (%s -> %s): %w", i, job.Kind, job.Path, err)
			}
			return nil
		})
	}
	return eg.Wait()
}
