package snapshotcache

import (
	"context"
	"encoding/json"

	snapshotv1 "github.com/decarv/ome/internal/domain/snapshot/v1"
	"github.com/decarv/ome/pkg/errors"
	"github.com/decarv/ome/pkg/logger"
	"github.com/decarv/ome/pkg/redis"
)

const keyPrefix = "ome:book:"

// Store caches the latest book snapshot in Redis for read-only display
// consumers, and announces each refresh on a pub/sub channel. The cache is
// never read back by the engine; the book is in-memory only.
type Store struct {
	instrument  string
	logger      *logger.Logger
	redisclient redis.Client
}

// NewStore creates a snapshot cache for one instrument.
func NewStore(redisclient redis.Client, instrument string, log *logger.Logger) *Store {
	return &Store{
		instrument:  instrument,
		redisclient: redisclient,
		logger:      log,
	}
}

// Cache serializes the snapshot, stores it under the instrument's key, and
// publishes the refresh.
func (s *Store) Cache(ctx context.Context, snapshot *snapshotv1.BookSnapshot) error {
	buf, err := json.Marshal(snapshot)
	if err != nil {
		return errors.NewTracer(string(errors.SnapshotCacheError)).Wrap(err)
	}

	key := keyPrefix + s.instrument
	if err := s.redisclient.Set(ctx, key, buf, 0); err != nil {
		s.logger.ErrorContext(ctx, err,
			logger.Field{Key: "instrument", Value: s.instrument},
			logger.Field{Key: "operation", Value: "cache snapshot"},
		)
		return errors.NewTracer(string(errors.SnapshotCacheError)).Wrap(err)
	}

	if _, err := s.redisclient.Publish(ctx, key, buf); err != nil {
		// Display subscribers can always fall back to polling the key.
		s.logger.WarnContext(ctx, "snapshot publish failed",
			logger.Field{Key: "instrument", Value: s.instrument},
		)
	}

	s.logger.DebugContext(ctx, "snapshot cached",
		logger.Field{Key: "instrument", Value: s.instrument},
		logger.Field{Key: "bidLevels", Value: len(snapshot.Bids)},
		logger.Field{Key: "askLevels", Value: len(snapshot.Asks)},
	)
	return nil
}
