package api

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// DefaultConcurrency is the default number of concurrent calls in bulk
// helpers.
const DefaultConcurrency = 5

// BulkResult is the outcome of one item of a bulk operation.
type BulkResult struct {
	ID    string
	Error error
}

// Success reports whether the item succeeded.
func (r BulkResult) Success() bool {
	return r.Error == nil
}

// runBulk calls operation once per ID with at most concurrency calls in
// flight. Results keep the input order. Items not started before ctx is
// cancelled carry the context error. The returned error aggregates every
// failure and is nil when all items succeeded.
func runBulk(ctx context.Context, ids []string, concurrency int64, operation func(ctx context.Context, id string) error) ([]BulkResult, error) {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	sem := semaphore.NewWeighted(concurrency)
	results := make([]BulkResult, len(ids))
	g, gctx := errgroup.WithContext(ctx)

	for i, id := range ids {
		results[i].ID = id
		g.Go(func() error {
			if err := sem.Acquire(gctx, 1); err != nil {
				results[i].Error = err
				return nil
			}
			defer sem.Release(1)

			if err := gctx.Err(); err != nil {
				results[i].Error = err
				return nil
			}
			results[i].Error = operation(gctx, id)
			// Individual failures never cancel the rest of the batch.
			return nil
		})
	}
	_ = g.Wait()

	var errs *multierror.Error
	for _, r := range results {
		if r.Error != nil {
			errs = multierror.Append(errs, fmt.Errorf("%s: %w", r.ID, r.Error))
		}
	}
	return results, errs.ErrorOrNil()
}

// DeleteMany deletes posts with bounded concurrency, one attempt each.
// Every post is attempted even when others fail.
func (s PostsService) DeleteMany(ctx context.Context, postIDs []string, concurrency int) ([]BulkResult, error) {
	return deletePosts(ctx, s, postIDs, concurrency)
}

func deletePosts(ctx context.Context, r Requester, postIDs []string, concurrency int) ([]BulkResult, error) {
	return runBulk(ctx, postIDs, int64(concurrency), func(ctx context.Context, id string) error {
		_, err := deletePost(ctx, r, id)
		return err
	})
}
