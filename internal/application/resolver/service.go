package resolver

import (
	"context"
	"time"

	"github.com/qdhenry/b2b-buyer-portal/internal/domain/order"
	"github.com/qdhenry/b2b-buyer-portal/internal/domain/repository"
	"github.com/qdhenry/b2b-buyer-portal/pkg/logger"
)

// DetailFetcher loads one order by its internal id.
type DetailFetcher interface {
	OrderDetail(ctx context.Context, internalID string, class order.CallerClass) (*order.Order, error)
}

// Searcher runs the company-scoped search used to map an ERP order number
// back to an internal id when navigation state is absent.
type Searcher interface {
	SearchOrdersByERPNumber(ctx context.Context, companyID, erpOrderNumber string, class order.CallerClass) ([]order.OrderSummary, error)
}

// LinkPublisher announces mappings the resolver had to discover via search,
// so the link store converges and later resolutions skip the round-trip.
type LinkPublisher interface {
	PublishLink(ctx context.Context, link order.OrderLink) error
}

// NavState is trusted navigation state carried from a list row click. When it
// names an internal id, no resolution is needed at all.
type NavState struct {
	InternalID string
}

// Service decides which internal id a route parameter actually refers to.
// A route id may be the internal id, the ERP order number, or ambiguous:
// the two occupy overlapping numeric ranges, so a purely numeric id without
// trusted state must never be assumed internal.
type Service struct {
	detail  DetailFetcher
	search  Searcher
	links   repository.LinkRepository // optional
	publish LinkPublisher             // optional
	log     logger.Logger
}

func NewService(detail DetailFetcher, search Searcher, links repository.LinkRepository, publish LinkPublisher, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		detail:  detail,
		search:  search,
		links:   links,
		publish: publish,
		log:     log,
	}
}

// ResolveInternalID runs the resolution sequence and returns the detail
// record, or order.ErrNotFound. Strictly sequential: trusted state, then
// search-or-direct depending on what the route id can plausibly be, then the
// remaining strategy as fallback.
func (s *Service) ResolveInternalID(ctx context.Context, routeID string, trusted *NavState, companyID string, class order.CallerClass) (*order.Order, error) {
	if routeID == "" {
		return nil, order.ErrNotFound
	}

	if trusted != nil && trusted.InternalID != "" {
		o, err := s.detail.OrderDetail(ctx, trusted.InternalID, class)
		if err != nil || o == nil {
			s.log.Warn("trusted navigation state did not resolve",
				logger.String("internal_id", trusted.InternalID),
				logger.Error(err),
			)
			return nil, order.ErrNotFound
		}
		return o, nil
	}

	if isNumeric(routeID) {
		// Numeric route ids historically got fetched directly and silently
		// displayed the wrong order when an ERP number collided with an
		// internal id. Search first, always.
		if o, err := s.resolveViaSearch(ctx, routeID, companyID, class); err == nil {
			return o, nil
		}
		return s.fetchDirect(ctx, routeID, class)
	}

	// Non-numeric ids cannot be internal-vs-external ambiguous; a direct
	// fetch is the cheap first attempt.
	if o, err := s.fetchDirect(ctx, routeID, class); err == nil {
		return o, nil
	}
	return s.resolveViaSearch(ctx, routeID, companyID, class)
}

func (s *Service) fetchDirect(ctx context.Context, internalID string, class order.CallerClass) (*order.Order, error) {
	o, err := s.detail.OrderDetail(ctx, internalID, class)
	if err != nil || o == nil {
		return nil, order.ErrNotFound
	}
	return o, nil
}

func (s *Service) resolveViaSearch(ctx context.Context, erpOrderNumber, companyID string, class order.CallerClass) (*order.Order, error) {
	internalID := ""
	if s.links != nil {
		link, err := s.links.FindByERPNumber(ctx, erpOrderNumber, companyID)
		if err != nil {
			s.log.Warn("link store lookup failed",
				logger.String("erp_order_number", erpOrderNumber),
				logger.Error(err),
			)
		} else if link != nil {
			internalID = link.InternalID
		}
	}

	discovered := false
	if internalID == "" {
		summaries, err := s.search.SearchOrdersByERPNumber(ctx, companyID, erpOrderNumber, class)
		if err != nil {
			s.log.Warn("order search failed",
				logger.String("erp_order_number", erpOrderNumber),
				logger.Error(err),
			)
			return nil, order.ErrNotFound
		}
		internalID = pickSearchMatch(summaries, erpOrderNumber)
		discovered = internalID != ""
	}

	if internalID == "" {
		return nil, order.ErrNotFound
	}

	o, err := s.detail.OrderDetail(ctx, internalID, class)
	if err != nil || o == nil {
		return nil, order.ErrNotFound
	}

	if discovered && s.publish != nil {
		link := order.OrderLink{
			ERPOrderNumber: erpOrderNumber,
			InternalID:     internalID,
			CompanyID:      companyID,
			UpdatedAt:      time.Now().UTC(),
		}
		if err := s.publish.PublishLink(ctx, link); err != nil {
			s.log.Warn("discovered link not published",
				logger.String("erp_order_number", erpOrderNumber),
				logger.Error(err),
			)
		}
	}

	return o, nil
}

// pickSearchMatch prefers a summary whose ERP field matches the query
// exactly; search is free-text upstream and may return near misses first.
func pickSearchMatch(summaries []order.OrderSummary, erpOrderNumber string) string {
	for _, sum := range summaries {
		if sum.ERPOrderNumber() == erpOrderNumber {
			return sum.InternalID
		}
	}
	if len(summaries) > 0 {
		return summaries[0].InternalID
	}
	return ""
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
