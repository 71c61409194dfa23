package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"video-discovery-service/internal/domain"
)

// Invalidator drops per-entity detail entries after the underlying entity changed.
// Search entries are left to expire on their own.
type Invalidator struct {
	cache  domain.Cache
	logger *zap.Logger
}

// NewInvalidator creates a new Invalidator.
func NewInvalidator(cache domain.Cache, logger *zap.Logger) *Invalidator {
	return &Invalidator{
		cache:  cache,
		logger: logger,
	}
}

// Invalidate deletes the cached details of videoID and channelID.
// Empty ids are ignored.
func (i *Invalidator) Invalidate(ctx context.Context, videoID, channelID string) error {
	var errs []error

	if videoID != "" {
		if err := i.delete(ctx, domain.NamespaceVideoDetail, videoID); err != nil {
			errs = append(errs, fmt.Errorf("invalidate video %s: %w", videoID, err))
		}
	}
	if channelID != "" {
		if err := i.delete(ctx, domain.NamespaceChannelDetail, channelID); err != nil {
			errs = append(errs, fmt.Errorf("invalidate channel %s: %w", channelID, err))
		}
	}

	return errors.Join(errs...)
}

func (i *Invalidator) delete(ctx context.Context, namespace, id string) error {
	if err := i.cache.Delete(ctx, domain.DetailCacheKey(namespace, id)); err != nil {
		return err
	}

	i.logger.Info("cache invalidated",
		zap.String("namespace", namespace),
		zap.String("id", id),
	)

	return nil
}
