package filestore

import (
	"context"
	"path"

	"golang.org/x/sync/errgroup"
)

// deleteConcurrency caps parallel deletes during bulk cleanup.
const deleteConcurrency = 8

// DeleteAll removes every entry directly under dir, issuing deletes
// concurrently. The first failure cancels the remaining work.
func DeleteAll(ctx context.Context, store Store, dir string) error {
	names, err := store.List(ctx, dir)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(deleteConcurrency)

	for _, name := range names {
		target := path.Join(dir, name)
		g.Go(func() error {
			return store.Delete(ctx, target)
		})
	}
	return g.Wait()
}
