package stats

import (
	"context"
	"time"

	"github.com/serroba/shortly/internal/messaging"
	"go.uber.org/zap"
)

// Recorder counts one hit. Recording never fails the caller; problems are
// logged and swallowed.
type Recorder interface {
	Record(ctx context.Context, counter Counter)
}

// StoreRecorder increments the store inline.
type StoreRecorder struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time
}

// NewStoreRecorder creates a recorder that increments store inline.
func NewStoreRecorder(store Store, logger *zap.Logger) *StoreRecorder {
	return &StoreRecorder{store: store, logger: logger, now: time.Now}
}

func (r *StoreRecorder) Record(ctx context.Context, counter Counter) {
	if err := r.store.Increment(ctx, counter, r.now()); err != nil {
		r.logger.Warn("failed to record hit",
			zap.String("counter", string(counter)),
			zap.Error(err),
		)
	}
}

// PublishingRecorder hands hits to the stream; cmd/consumer applies them.
type PublishingRecorder struct {
	publish messaging.Publish[HitEvent]
	logger  *zap.Logger
	now     func() time.Time
}

// NewPublishingRecorder creates a recorder that publishes hit events.
func NewPublishingRecorder(publish messaging.Publish[HitEvent], logger *zap.Logger) *PublishingRecorder {
	return &PublishingRecorder{publish: publish, logger: logger, now: time.Now}
}

func (r *PublishingRecorder) Record(ctx context.Context, counter Counter) {
	event := &HitEvent{Counter: counter, At: r.now().UTC()}

	if err := r.publish(ctx, event); err != nil {
		r.logger.Warn("failed to publish hit",
			zap.String("counter", string(counter)),
			zap.Error(err),
		)
	}
}

// NewHitHandler applies published hit events to store.
func NewHitHandler(store Store) messaging.Handler[HitEvent] {
	return func(ctx context.Context, event *HitEvent) error {
		return store.Increment(ctx, event.Counter, event.At)
	}
}
