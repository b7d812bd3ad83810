package repository

import (
	"context"

	"github.com/qdhenry/b2b-buyer-portal/internal/domain/order"
)

// LinkRepository stores ERP-number-to-internal-id mappings.
// FindByERPNumber returns (nil, nil) when no mapping is known.
type LinkRepository interface {
	Save(ctx context.Context, link *order.OrderLink) error
	FindByERPNumber(ctx context.Context, erpOrderNumber, companyID string) (*order.OrderLink, error)
}
