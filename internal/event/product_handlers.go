package event

import (
	"context"
	"log/slog"
)

func (s *Service) handleProductCreated(ctx context.Context, ev ProductCreatedEvent) error {
	s.logger.InfoContext(ctx, "product created",
		slog.Int64("product_id", ev.ProductID),
		slog.String("name", ev.Name),
		slog.String("category", ev.Category),
	)
	return nil
}

func (s *Service) handleProductUpdated(ctx context.Context, ev ProductUpdatedEvent) error {
	s.logger.InfoContext(ctx, "product updated",
		slog.Int64("product_id", ev.ProductID),
		slog.String("name", ev.Name),
		slog.String("category", ev.Category),
	)
	return nil
}

func (s *Service) handleProductDeleted(ctx context.Context, ev ProductDeletedEvent) error {
	if ev.Purged != nil {
		s.logger.InfoContext(ctx, "catalog purged", slog.Int64("count", *ev.Purged))
		return nil
	}

	attrs := []any{}
	if ev.ProductID != nil {
		attrs = append(attrs, slog.Int64("product_id", *ev.ProductID))
	}
	s.logger.InfoContext(ctx, "product deleted", attrs...)
	return nil
}
