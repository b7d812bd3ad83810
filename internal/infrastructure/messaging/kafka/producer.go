package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/qdhenry/b2b-buyer-portal/internal/config"
	"github.com/qdhenry/b2b-buyer-portal/internal/domain/order"
	"github.com/qdhenry/b2b-buyer-portal/internal/infrastructure/encoding/avro"
	"github.com/qdhenry/b2b-buyer-portal/pkg/logger"
)

// LinkProducer publishes discovered order links back onto the feed topic
// so other consumers (and the ERP side) see resolver discoveries.
type LinkProducer struct {
	client *kgo.Client
	codec  *avro.LinkCodec
	topic  string
	log    logger.Logger
}

func NewLinkProducer(cfg config.KafkaConfig, codec *avro.LinkCodec, log logger.Logger) (*LinkProducer, error) {
	if log == nil {
		log = logger.NewNop()
	}

	opts := []kgo.Opt{
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.DefaultProduceTopic(cfg.LinkTopic),
		kgo.RequiredAcks(kgo.AllISRAcks()),
	}

	client, err := kgo.NewClient(opts...)
	if err != nil {
		return nil, fmt.Errorf("create kafka producer: %w", err)
	}

	log.Info("kafka producer ready",
		logger.Strings("brokers", cfg.Brokers),
		logger.String("topic", cfg.LinkTopic),
	)

	return &LinkProducer{
		client: client,
		codec:  codec,
		topic:  cfg.LinkTopic,
		log:    log,
	}, nil
}

// PublishLink encodes and produces one link event synchronously.
func (p *LinkProducer) PublishLink(ctx context.Context, link order.OrderLink) error {
	if err := link.Validate(); err != nil {
		return err
	}

	eventID := uuid.NewString()
	payload, err := p.codec.Encode(eventID, link)
	if err != nil {
		return fmt.Errorf("encode link event: %w", err)
	}

	rec := &kgo.Record{
		Topic:     p.topic,
		Key:       []byte(link.ERPOrderNumber),
		Value:     payload,
		Timestamp: time.Now().UTC(),
	}

	results := p.client.ProduceSync(ctx, rec)
	if err := results.FirstErr(); err != nil {
		return fmt.Errorf("publish to kafka topic %s: %w", p.topic, err)
	}

	return nil
}

func (p *LinkProducer) Close() {
	p.client.Close()
}
