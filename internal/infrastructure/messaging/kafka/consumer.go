package kafka

import (
	"context"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/qdhenry/b2b-buyer-portal/internal/application/link"
	"github.com/qdhenry/b2b-buyer-portal/internal/config"
	"github.com/qdhenry/b2b-buyer-portal/internal/infrastructure/encoding/avro"
	"github.com/qdhenry/b2b-buyer-portal/pkg/logger"
)

// LinkConsumer reads ERP order-link events and feeds them into the link
// store. One consumer per process; the group id handles partition balance.
type LinkConsumer struct {
	reader  *kafkago.Reader
	codec   *avro.LinkCodec
	handler *link.Service
	log     logger.Logger
}

func NewLinkConsumer(cfg config.KafkaConfig, codec *avro.LinkCodec, handler *link.Service, log logger.Logger) *LinkConsumer {
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.ConsumerGroup,
		Topic:    cfg.LinkTopic,
		MinBytes: 1e3,
		MaxBytes: 1e6,
	})

	if log == nil {
		log = logger.NewNop()
	}

	return &LinkConsumer{
		reader:  reader,
		codec:   codec,
		handler: handler,
		log:     log,
	}
}

// Start consumes until the context is canceled or the reader fails.
// Messages that cannot be decoded or stored are logged and skipped; a
// poison message must not stall the feed.
func (c *LinkConsumer) Start(ctx context.Context) error {
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			return err
		}

		linkEvent, err := c.codec.Decode(msg.Value)
		if err != nil {
			c.log.Warn("skipping undecodable link event",
				logger.Error(err),
				logger.Int64("offset", msg.Offset),
			)
			continue
		}

		if err := c.handler.HandleLinkEvent(ctx, &linkEvent); err != nil {
			c.log.Warn("failed to store link event",
				logger.Error(err),
				logger.String("erp_order_number", linkEvent.ERPOrderNumber),
			)
		}
	}
}

func (c *LinkConsumer) Close() {
	_ = c.reader.Close()
}
