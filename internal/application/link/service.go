package link

import (
	"context"
	"fmt"
	"time"

	"github.com/qdhenry/b2b-buyer-portal/internal/domain/order"
	"github.com/qdhenry/b2b-buyer-portal/internal/domain/repository"
	"github.com/qdhenry/b2b-buyer-portal/pkg/logger"
)

// Publisher emits an order-link event, usually after the resolver had to
// discover a mapping the feed had not delivered.
type Publisher interface {
	PublishLink(ctx context.Context, link order.OrderLink) error
}

// Service is the write side of the ERP link store: it validates and persists
// link events from the feed, and re-announces resolver discoveries.
type Service struct {
	repo      repository.LinkRepository
	publisher Publisher
	log       logger.Logger
}

func NewService(repo repository.LinkRepository, publisher Publisher, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		repo:      repo,
		publisher: publisher,
		log:       log,
	}
}

// HandleLinkEvent stores one consumed link. Events older than what is stored
// upsert anyway; the feed is effectively last-write-wins per ERP number.
func (s *Service) HandleLinkEvent(ctx context.Context, link *order.OrderLink) error {
	if err := link.Validate(); err != nil {
		return err
	}
	if link.UpdatedAt.IsZero() {
		link.UpdatedAt = time.Now().UTC()
	}
	if err := s.repo.Save(ctx, link); err != nil {
		return fmt.Errorf("save order link: %w", err)
	}
	return nil
}

// PublishLink forwards a discovered mapping to the feed so every portal
// instance, not just this one, learns it. Persisting locally first keeps the
// mapping usable even when the broker is down.
func (s *Service) PublishLink(ctx context.Context, link order.OrderLink) error {
	if err := link.Validate(); err != nil {
		return err
	}
	if link.UpdatedAt.IsZero() {
		link.UpdatedAt = time.Now().UTC()
	}

	if err := s.repo.Save(ctx, &link); err != nil {
		s.log.Warn("discovered link not persisted",
			logger.String("erp_order_number", link.ERPOrderNumber),
			logger.Error(err),
		)
	}

	if s.publisher == nil {
		return nil
	}
	if err := s.publisher.PublishLink(ctx, link); err != nil {
		return fmt.Errorf("publish order link: %w", err)
	}
	return nil
}
