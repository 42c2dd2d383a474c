package snapshotv1

import "context"

// Cache publishes point-in-time book snapshots for read-only consumers.
// The cache is display state: it is never read back to restore a book.
type Cache interface {
	Cache(ctx context.Context, snapshot *BookSnapshot) error
}
