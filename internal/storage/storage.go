package storage

import (
	"context"
)

// ObjectFetcher reads whole objects from remote object storage.
type ObjectFetcher interface {
	Fetch(ctx context.Context, bucket, key string) ([]byte, error)
}
