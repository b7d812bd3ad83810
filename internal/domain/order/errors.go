package order

import "errors"

var (
	// ErrNotFound is the resolver's terminal state: no strategy produced a
	// record. It is the only error the enrichment layer surfaces to the UI.
	ErrNotFound = errors.New("order not found")

	// ErrInvalidLink marks an order-link event missing its identifiers.
	ErrInvalidLink = errors.New("order link is incomplete")
)
