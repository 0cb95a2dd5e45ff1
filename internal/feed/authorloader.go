package feed

import (
	"context"
	"time"

	"github.com/costurapp/costurapp-backend/internal/profiles"
	"github.com/google/uuid"
	"github.com/graph-gophers/dataloader"
)

// placeholderAuthor stands in for authors whose profile no longer exists
// (deleted account, purged profile). Missing data is not an error; only a
// failed lookup query fails the page.
func placeholderAuthor(id uuid.UUID) profiles.AuthorSnapshot {
	return profiles.AuthorSnapshot{
		ID:       id,
		Name:     "Usuario desconocido",
		Category: profiles.CategoryNone,
	}
}

// newAuthorLoader builds a per-page dataloader that collapses the feed's
// per-post author lookups into a single IN-query.
func newAuthorLoader(svc *profiles.Service) *dataloader.Loader {
	batchFn := func(ctx context.Context, keys dataloader.Keys) []*dataloader.Result {
		ids := make([]uuid.UUID, 0, len(keys))
		for _, key := range keys {
			id, err := uuid.Parse(key.String())
			if err != nil {
				continue
			}
			ids = append(ids, id)
		}

		snapshots, err := svc.Snapshots(ctx, ids)
		if err != nil {
			results := make([]*dataloader.Result, len(keys))
			for i := range results {
				results[i] = &dataloader.Result{Error: err}
			}
			return results
		}

		results := make([]*dataloader.Result, len(keys))
		for i, key := range keys {
			id, err := uuid.Parse(key.String())
			if err != nil {
				results[i] = &dataloader.Result{Error: err}
				continue
			}
			if snap, ok := snapshots[id]; ok {
				results[i] = &dataloader.Result{Data: snap}
			} else {
				results[i] = &dataloader.Result{Data: placeholderAuthor(id)}
			}
		}
		return results
	}

	return dataloader.NewBatchedLoader(batchFn, dataloader.WithWait(time.Millisecond*1))
}
