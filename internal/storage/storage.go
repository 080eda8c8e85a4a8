package storage

import (
	"context"
)

// ObjectStorage defines the interface for object storage operations. The
// sync pipeline uses it to archive the raw rows of every successful sync so
// parsing regressions can be replayed against real sheet content.
type ObjectStorage interface {
	// PutObject stores an object under the given key.
	PutObject(ctx context.Context, objectKey string, data []byte, contentType string) error
}
