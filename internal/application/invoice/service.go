package invoice

import (
	"context"
	"encoding/json"

	"github.com/qdhenry/b2b-buyer-portal/internal/domain/order"
	"github.com/qdhenry/b2b-buyer-portal/pkg/logger"
)

// AddressFetcher loads the billing and shipping blocks of a linked order.
// The shipping value is passed through raw because the upstream returns it
// as an array, an empty array, or a bare false depending on fulfillment
// state; normalization happens here, not in the client.
type AddressFetcher interface {
	OrderAddresses(ctx context.Context, internalID string, class order.CallerClass) (billing *order.Address, shippingRaw json.RawMessage, err error)
}

// Service backfills invoice address blocks from the linked commerce order
// when the invoice header itself arrived without them.
type Service struct {
	addresses AddressFetcher
	log       logger.Logger
}

func NewService(addresses AddressFetcher, log logger.Logger) *Service {
	if log == nil {
		log = logger.NewNop()
	}
	return &Service{
		addresses: addresses,
		log:       log,
	}
}

// Enrich returns a copy of the invoice with addresses attached where
// possible. The input is never mutated, and no failure propagates: an
// invoice renders with blank address blocks sooner than not at all.
func (s *Service) Enrich(ctx context.Context, inv order.Invoice, class order.CallerClass) order.Invoice {
	if inv.Billing.Populated() && inv.Shipping.Populated() {
		return inv
	}

	linkedID := inv.Field(order.FieldLinkedOrderID)
	if linkedID == "" {
		return inv
	}

	billing, shippingRaw, err := s.addresses.OrderAddresses(ctx, linkedID, class)
	if err != nil {
		s.log.Warn("invoice address backfill failed",
			logger.String("invoice_id", inv.InvoiceID),
			logger.String("linked_order_id", linkedID),
			logger.Error(err),
		)
		return inv
	}

	// Fill only what is missing; a backfill must never blank a block the
	// invoice already carries.
	out := inv
	if !out.Billing.Populated() {
		out.Billing = billing
	}
	if !out.Shipping.Populated() {
		out.Shipping = normalizeShipping(shippingRaw)
	}
	return out
}

// normalizeShipping reduces the upstream's shapes to "first element or
// absent". Unexpected payloads count as absent.
func normalizeShipping(raw json.RawMessage) *order.Address {
	if len(raw) == 0 {
		return nil
	}

	var list []order.Address
	if err := json.Unmarshal(raw, &list); err == nil {
		if len(list) == 0 {
			return nil
		}
		first := list[0]
		return &first
	}

	var single order.Address
	if err := json.Unmarshal(raw, &single); err == nil && single.Populated() {
		return &single
	}

	// false / null / garbage all land here.
	return nil
}
