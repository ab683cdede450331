package event

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/shrutihere/product-catalog/internal/storage/mq"
)

// Service consumes product events from the message queue. It is the audit
// hook for catalog mutations.
type Service struct {
	logger     *slog.Logger
	mqConsumer mq.Consumer
}

func New(
	logger *slog.Logger,
	mqConsumer mq.Consumer,
) *Service {
	return &Service{
		logger:     logger,
		mqConsumer: mqConsumer,
	}
}

type CleanupFunc func()

func (s *Service) Run(ctx context.Context) (CleanupFunc, error) {
	if err := registerHandler(s.mqConsumer, TopicProductCreated, s.handleProductCreated); err != nil {
		return nil, err
	}
	if err := registerHandler(s.mqConsumer, TopicProductUpdated, s.handleProductUpdated); err != nil {
		return nil, err
	}
	if err := registerHandler(s.mqConsumer, TopicProductDeleted, s.handleProductDeleted); err != nil {
		return nil, err
	}

	mqCleanup, err := s.mqConsumer.Run(ctx)
	if err != nil {
		return nil, fmt.Errorf("run mq consumer: %w", err)
	}

	cleanup := func() {
		mqCleanup()
	}

	return cleanup, nil
}

// registerHandler wires a typed event handler to a topic, taking care of the
// payload unmarshalling boilerplate.
func registerHandler[T any](consumer mq.Consumer, topic string, handle func(ctx context.Context, ev T) error) error {
	if err := consumer.RegisterHandler(
		topic,
		func(ctx context.Context, topic string, payload []byte) error {
			var ev T
			if err := json.Unmarshal(payload, &ev); err != nil {
				return fmt.Errorf("unmarshal %s event: %w", topic, err)
			}

			if err := handle(ctx, ev); err != nil {
				return fmt.Errorf("handle %s event: %w", topic, err)
			}

			return nil
		},
	); err != nil {
		return fmt.Errorf("register %s event handler: %w", topic, err)
	}

	return nil
}
