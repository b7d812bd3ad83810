package kafka

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qdhenry/b2b-buyer-portal/internal/domain/order"
	"github.com/qdhenry/b2b-buyer-portal/internal/infrastructure/encoding/avro"
	"github.com/qdhenry/b2b-buyer-portal/pkg/logger"
)

// Validation happens before any broker contact, so an incomplete link
// is testable without Kafka. Full publish paths are integration-tested
// against a real broker.
func TestLinkProducer_PublishLink_RejectsIncompleteLink(t *testing.T) {
	// Arrange
	codec, err := avro.NewLinkCodec()
	require.NoError(t, err)

	producer := &LinkProducer{
		codec: codec,
		topic: "erp_order_links",
		log:   logger.NewNop(),
	}

	// Act
	err = producer.PublishLink(context.Background(), order.OrderLink{
		ERPOrderNumber: "SO-1",
		// no internal id
	})

	// Assert
	assert.ErrorIs(t, err, order.ErrInvalidLink)
}
