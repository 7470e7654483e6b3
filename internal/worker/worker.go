// Package worker hosts background consumers.
package worker

import (
	"context"
	"encoding/json"

	"watchify/internal/broker"
	"watchify/internal/models"
	"watchify/internal/redisclient"
	"watchify/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// CacheInvalidator consumes product events and drops stale cache
// entries, so catalog reads served from Redis converge after product
// mutations and stock decrements.
type CacheInvalidator struct {
	consumer *broker.Consumer
	cache    *redisclient.Client
	logger   *zap.Logger
}

func NewCacheInvalidator(consumer *broker.Consumer, cache *redisclient.Client) *CacheInvalidator {
	return &CacheInvalidator{
		consumer: consumer,
		cache:    cache,
		logger:   util.GetLogger(),
	}
}

// Start consumes until ctx is cancelled.
func (w *CacheInvalidator) Start(ctx context.Context) error {
	w.logger.Info("Starting cache invalidation worker")
	return w.consumer.Run(ctx, w.handle)
}

// Stop closes the underlying consumer.
func (w *CacheInvalidator) Stop() error {
	w.logger.Info("Stopping cache invalidation worker")
	return w.consumer.Close()
}

func (w *CacheInvalidator) handle(ctx context.Context, msg kafka.Message) error {
	var event models.ProductEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		w.logger.Warn("Skipping undecodable product event", zap.Error(err))
		return nil
	}

	switch event.EventType {
	case models.EventTypeProductUpserted,
		models.EventTypeProductDeleted,
		models.EventTypeStockDecreased:
		if err := w.cache.InvalidateProduct(ctx, event.ProductID); err != nil {
			return err
		}
		w.logger.Debug("Invalidated product cache entry",
			zap.Int64("product_id", event.ProductID),
			zap.String("event_type", event.EventType))
	}

	return nil
}
