package converter

import (
	"context"
	"fmt"

	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"
)

// Runner converts a list of stems, sequentially or with bounded parallelism.
type Runner struct {
	converter       *Converter
	maxConcurrency  int
	continueOnError bool
}

// NewRunner creates a batch runner around a converter.
// maxConcurrency below 1 is treated as 1.
func NewRunner(converter *Converter, maxConcurrency int, continueOnError bool) *Runner {
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}
	return &Runner{
		converter:       converter,
		maxConcurrency:  maxConcurrency,
		continueOnError: continueOnError,
	}
}

// Run converts the stems and returns one Result per stem that was
// attempted, in stem order.
//
// Without continueOnError the first failure stops the batch: stems not yet
// started are skipped and the failure is returned. With continueOnError
// every stem is attempted and all failures are combined.
func (r *Runner) Run(ctx context.Context, stems []string) ([]Result, error) {
	results := make([]Result, len(stems))
	attempted := make([]bool, len(stems))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.maxConcurrency)

	for i, stem := range stems {
		// Stop scheduling once a failure or cancellation is seen.
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return nil
			}

			attempted[i] = true
			results[i] = r.converter.Convert(stem)

			if results[i].Error != nil {
				r.converter.logger.Errorf("%v", results[i].Error)
				if !r.continueOnError {
					return results[i].Error
				}
			}
			return nil
		})
	}

	firstErr := g.Wait()

	var out []Result
	var errs error
	for i := range stems {
		if !attempted[i] {
			continue
		}
		out = append(out, results[i])
		if results[i].Error != nil {
			errs = multierr.Append(errs, results[i].Error)
		}
	}

	if firstErr != nil {
		return out, firstErr
	}
	if errs != nil {
		return out, fmt.Errorf("%d of %d file(s) failed: %w", len(multierr.Errors(errs)), len(stems), errs)
	}
	if err := ctx.Err(); err != nil {
		return out, err
	}

	return out, nil
}
