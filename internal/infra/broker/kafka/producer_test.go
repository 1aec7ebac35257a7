package kafka

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chaletbook/internal/infra/backend"
)

func TestReceiptConfigIsValid(t *testing.T) {
	cfg := receiptConfig(nil)
	// An idempotent producer without MaxOpenRequests=1 fails validation
	// before any broker is dialed, which would make NewProducer
	// unconstructable.
	require.NoError(t, cfg.Validate())
	assert.True(t, cfg.Producer.Idempotent)
	assert.Equal(t, 1, cfg.Net.MaxOpenRequests)
	assert.Equal(t, sarama.WaitForAll, cfg.Producer.RequiredAcks)
	assert.True(t, cfg.Producer.Return.Successes)
}

func TestReceiptConfigForcesCallerConfig(t *testing.T) {
	cfg := sarama.NewConfig()
	cfg.Producer.Idempotent = false
	cfg.Net.MaxOpenRequests = 5

	forced := receiptConfig(cfg)
	require.NoError(t, forced.Validate())
	assert.True(t, forced.Producer.Idempotent)
	assert.Equal(t, 1, forced.Net.MaxOpenRequests)
}

func TestBookingSubmittedEvent(t *testing.T) {
	mock := mocks.NewSyncProducer(t, receiptConfig(nil))
	mock.ExpectSendMessageWithCheckerFunctionAndSucceed(func(payload []byte) error {
		var event map[string]any
		if err := json.Unmarshal(payload, &event); err != nil {
			return err
		}
		assert.Equal(t, "bk-1", event["booking_id"])
		assert.Equal(t, "BK-2024-0001", event["code"])
		assert.Equal(t, "64f1c2", event["chalet_id"])
		return nil
	})

	publisher := ReceiptPublisher{
		Producer:    &Producer{sync: mock},
		TopicPrefix: "chaletbook.",
	}
	err := publisher.BookingSubmitted(context.Background(), &backend.Receipt{
		ID:       "bk-1",
		Code:     "BK-2024-0001",
		ChaletID: "64f1c2",
		CheckIn:  time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		CheckOut: time.Date(2024, 7, 4, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NoError(t, mock.Close())
}

func TestPublishHonorsCancelledContext(t *testing.T) {
	mock := mocks.NewSyncProducer(t, receiptConfig(nil))
	producer := &Producer{sync: mock}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := producer.Publish(ctx, "chaletbook.booking.submitted", "bk-1", []byte("{}"))
	assert.ErrorIs(t, err, context.Canceled)
	require.NoError(t, mock.Close())
}
