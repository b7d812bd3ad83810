package order

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExternalField is one {name, value} pair from a record's vendor metadata.
// The ERP customization layer stores everything it overlays on commerce
// records in these pairs, never in dedicated columns.
type ExternalField struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ExtraFieldSet holds the two representations an upstream payload may carry:
// detail-style fetches embed the decoded list, list-style fetches ship the
// same shape as a JSON-encoded string to keep page payloads small.
// When both are present the list wins.
type ExtraFieldSet struct {
	List []ExternalField `json:"extra_fields,omitempty"`
	Raw  string          `json:"extra_fields_json,omitempty"`
}

// Order is one commerce-platform order as seen by the portal.
// InternalID is the platform's own identifier and is always present;
// the ERP order number, if any, lives in the extra fields.
type Order struct {
	InternalID string `json:"order_id"`
	CompanyID  string `json:"company_id"`
	Status     string `json:"status"`
	ExtraFieldSet

	Total     decimal.Decimal `json:"total,omitempty"`
	Currency  string          `json:"currency,omitempty"`
	CreatedAt time.Time       `json:"created_at,omitempty"`
}

// OrderSummary is the slim shape returned by search.
type OrderSummary struct {
	InternalID string `json:"order_id"`
	ExtraFieldSet
}

// Address is a billing or shipping block. Populated means a non-empty
// first street line; everything else may legitimately be blank.
type Address struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Company   string `json:"company"`
	Street1   string `json:"street_1"`
	Street2   string `json:"street_2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zip"`
	Country   string `json:"country"`
}

// Populated reports whether the block carries a usable street line.
func (a *Address) Populated() bool {
	return a != nil && a.Street1 != ""
}

// Invoice is an invoice header. Its link back to the originating order is an
// extra field (FieldLinkedOrderID), and its address blocks may be absent,
// requiring backfill from that order.
type Invoice struct {
	InvoiceID string `json:"invoice_id"`
	CompanyID string `json:"company_id"`
	Status    string `json:"status"`
	ExtraFieldSet

	Total    decimal.Decimal `json:"total,omitempty"`
	Currency string          `json:"currency,omitempty"`
	IssuedAt time.Time       `json:"issued_at,omitempty"`

	Billing  *Address `json:"billing,omitempty"`
	Shipping *Address `json:"shipping,omitempty"`
}

// EnrichmentMap maps internal order ids to the extra fields fetched for them.
// An id mapped to an empty slice settled with no data; an id missing from the
// map has not settled yet.
type EnrichmentMap map[string][]ExternalField

// Clone returns an independent shallow copy (field slices are not copied;
// they are never mutated after fetch).
func (m EnrichmentMap) Clone() EnrichmentMap {
	out := make(EnrichmentMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// OrderLink is one ERP-number-to-internal-id mapping, as fed by the ERP link
// topic or discovered through upstream search.
type OrderLink struct {
	ERPOrderNumber string    `json:"erp_order_number"`
	InternalID     string    `json:"internal_id"`
	CompanyID      string    `json:"company_id"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Validate checks the fields the link store requires.
func (l *OrderLink) Validate() error {
	if l == nil || l.ERPOrderNumber == "" || l.InternalID == "" {
		return ErrInvalidLink
	}
	return nil
}

// CallerClass selects between the two upstream query shapes: one for buyers
// acting under a company account, one for plain storefront customers.
type CallerClass int

const (
	CompanyScoped CallerClass = iota
	SelfServiceScoped
)

func (c CallerClass) String() string {
	if c == SelfServiceScoped {
		return "customer"
	}
	return "company"
}

// ParseCallerClass maps the wire value back; anything unknown falls back to
// the company scope, which is the portal's primary audience.
func ParseCallerClass(s string) CallerClass {
	if s == "customer" {
		return SelfServiceScoped
	}
	return CompanyScoped
}
