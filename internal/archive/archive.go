// Package archive copies consumed render events into the snapshot bucket.
package archive

import (
	"context"
	"fmt"

	"amenitymap/internal/events"
	"amenitymap/internal/service"
	"amenitymap/pkg/logger"
)

// Source yields decoded render events and commits them on Ack.
// *service.Iterator[events.Rendered] implements it.
type Source interface {
	Objects(ctx context.Context) <-chan *service.FetchedObject[events.Rendered]
	Ack(ctx context.Context, obj *service.FetchedObject[events.Rendered]) error
}

// SnapshotStore is satisfied by *storage.S3Service.
type SnapshotStore interface {
	StoreSnapshot(ctx context.Context, bucketName string, ev events.Rendered) (string, bool, error)
}

type Stats struct {
	Stored  int
	Skipped int
}

// Run stores every event from src in bucket and acknowledges it afterwards.
// An event that already exists counts as skipped and is acknowledged too.
// The first storage failure ends the run without acknowledging that event,
// since committing a later offset would skip it. The caller must cancel ctx
// after an error to release src.
func Run(ctx context.Context, src Source, store SnapshotStore, bucket string, log *logger.Logger) (Stats, error) {
	var stats Stats
	for obj := range src.Objects(ctx) {
		key, created, err := store.StoreSnapshot(ctx, bucket, obj.Data)
		if err != nil {
			return stats, fmt.Errorf("archive event %s at offset %d as %s: %w", obj.Data.ID, obj.Message.Offset, key, err)
		}
		if created {
			stats.Stored++
		} else {
			stats.Skipped++
		}
		if err := src.Ack(ctx, obj); err != nil {
			log.Warn("failed to commit offset", "offset", obj.Message.Offset, "error", err)
		}
	}
	return stats, nil
}
