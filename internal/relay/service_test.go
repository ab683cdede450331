package relay

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shrutihere/product-catalog/internal/config"
	"github.com/shrutihere/product-catalog/internal/repository"
	"github.com/shrutihere/product-catalog/internal/storage/db"
	"github.com/shrutihere/product-catalog/internal/storage/mq"
)

type fakeDB struct{}

func (f fakeDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	panic("unexpected Exec call")
}

func (f fakeDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	panic("unexpected Query call")
}

func (f fakeDB) QueryRow(context.Context, string, ...any) pgx.Row {
	panic("unexpected QueryRow call")
}

func (f fakeDB) CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error) {
	panic("unexpected CopyFrom call")
}

func (f fakeDB) SendBatch(context.Context, *pgx.Batch) pgx.BatchResults {
	panic("unexpected SendBatch call")
}

func (f fakeDB) WithTx(_ context.Context, txFunc func(db.DB) error) error {
	return txFunc(f)
}

type fakeOutboxRepo struct {
	unprocessed []repository.ListUnprocessedOutboxMsgsResult
	updated     []repository.BulkUpdateOutboxMsgsItem
}

func (f *fakeOutboxRepo) WithDB(db.DB) repository.OutboxMsgRepository { return f }

func (f *fakeOutboxRepo) CreateOutboxMsg(context.Context, repository.CreateOutboxMsgParams) error {
	panic("unexpected CreateOutboxMsg call")
}

func (f *fakeOutboxRepo) ListUnprocessedOutboxMsgs(_ context.Context, params repository.ListUnprocessedOutboxMsgsParams) ([]repository.ListUnprocessedOutboxMsgsResult, error) {
	if int32(len(f.unprocessed)) > params.BatchSize {
		return f.unprocessed[:params.BatchSize], nil
	}
	return f.unprocessed, nil
}

func (f *fakeOutboxRepo) BulkUpdateOutboxMsgs(_ context.Context, params repository.BulkUpdateOutboxMsgsParams) error {
	f.updated = append(f.updated, params.Items...)
	return nil
}

type fakeProducer struct {
	produced []mq.ProduceMsg
	failFor  string
}

func (f *fakeProducer) Produce(_ context.Context, msg mq.ProduceMsg) error {
	if msg.Topic == f.failFor {
		return errors.New("broker unavailable")
	}
	f.produced = append(f.produced, msg)
	return nil
}

func newTestService(outboxRepo repository.OutboxMsgRepository, producer mq.Producer) *Service {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewService(config.Relay{BatchSize: 10}, logger, fakeDB{}, outboxRepo, producer)
}

func TestRelayBatch(t *testing.T) {
	t.Run("produces and marks processed", func(t *testing.T) {
		msgID := uuid.New()
		outboxRepo := &fakeOutboxRepo{
			unprocessed: []repository.ListUnprocessedOutboxMsgsResult{
				{ID: msgID, Topic: "product.created", Payload: []byte(`{"product_id":1}`)},
			},
		}
		producer := &fakeProducer{}
		svc := newTestService(outboxRepo, producer)

		require.NoError(t, svc.relayBatch(t.Context()))

		require.Len(t, producer.produced, 1)
		assert.Equal(t, "product.created", producer.produced[0].Topic)

		require.Len(t, outboxRepo.updated, 1)
		assert.Equal(t, msgID, outboxRepo.updated[0].ID)
		assert.Nil(t, outboxRepo.updated[0].Error)
	})

	t.Run("produce failure is recorded on the row", func(t *testing.T) {
		okID, badID := uuid.New(), uuid.New()
		outboxRepo := &fakeOutboxRepo{
			unprocessed: []repository.ListUnprocessedOutboxMsgsResult{
				{ID: okID, Topic: "product.created", Payload: []byte(`{}`)},
				{ID: badID, Topic: "product.deleted", Payload: []byte(`{}`)},
			},
		}
		producer := &fakeProducer{failFor: "product.deleted"}
		svc := newTestService(outboxRepo, producer)

		require.NoError(t, svc.relayBatch(t.Context()))

		require.Len(t, outboxRepo.updated, 2)
		byID := map[uuid.UUID]*string{}
		for _, item := range outboxRepo.updated {
			byID[item.ID] = item.Error
		}
		assert.Nil(t, byID[okID])
		require.NotNil(t, byID[badID])
		assert.Contains(t, *byID[badID], "broker unavailable")
	})

	t.Run("empty outbox is a no-op", func(t *testing.T) {
		outboxRepo := &fakeOutboxRepo{}
		producer := &fakeProducer{}
		svc := newTestService(outboxRepo, producer)

		require.NoError(t, svc.relayBatch(t.Context()))
		assert.Empty(t, producer.produced)
		assert.Empty(t, outboxRepo.updated)
	})
}
