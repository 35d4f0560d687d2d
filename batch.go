package showheat

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// RenderJob pairs a matrix with its output path and options.
// Nil Options render with defaults.
type RenderJob struct {
	Matrix  *Matrix
	Path    string
	Options *Options
}

// RenderBatch renders every job concurrently, one goroutine per job.
// The first failure cancels the remaining jobs and is returned.
// Share a FontCache through the job options to avoid rescanning font
// directories per render.
func RenderBatch(ctx context.Context, jobs []RenderJob) error {
	group, ctx := errgroup.WithContext(ctx)
	for _, job := range jobs {
		job := job
		group.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			if err := SaveFile(job.Matrix, job.Path, job.Options); err != nil {
				return fmt.Errorf("%s: %w", job.Path, err)
			}
			return nil
		})
	}
	return group.Wait()
}
