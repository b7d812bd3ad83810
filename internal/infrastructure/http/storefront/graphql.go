package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/qdhenry/b2b-buyer-portal/internal/domain/order"
)

const orderFields = `orderId companyId status totalIncTax currencyCode createdAt extraFields { name value }`

// OrderDetail fetches one order by internal id.
func (c *Client) OrderDetail(ctx context.Context, internalID string, class order.CallerClass) (*order.Order, error) {
	query := fmt.Sprintf(
		`query { result: %s(orderId: %q) { %s } }`,
		queryRoot(class), internalID, orderFields,
	)

	var out struct {
		Result *orderWire `json:"result"`
	}
	if err := c.graphql(ctx, query, &out); err != nil {
		return nil, fmt.Errorf("order detail %s: %w", internalID, err)
	}
	if out.Result == nil {
		return nil, fmt.Errorf("order detail %s: %w", internalID, order.ErrNotFound)
	}
	return out.Result.toDomain(), nil
}

// SearchOrdersByERPNumber runs the company-scoped free-text search used to
// map an ERP order number back to an internal id. Summaries carry the extra
// fields so the caller can verify the match.
func (c *Client) SearchOrdersByERPNumber(ctx context.Context, companyID, erpOrderNumber string, class order.CallerClass) ([]order.OrderSummary, error) {
	query := fmt.Sprintf(
		`query { result: %s(companyId: %q, search: %q) { orderId extraFields { name value } } }`,
		searchRoot(class), companyID, erpOrderNumber,
	)

	var out struct {
		Result []struct {
			OrderID     string                `json:"orderId"`
			ExtraFields []order.ExternalField `json:"extraFields"`
		} `json:"result"`
	}
	if err := c.graphql(ctx, query, &out); err != nil {
		return nil, fmt.Errorf("order search %q: %w", erpOrderNumber, err)
	}

	summaries := make([]order.OrderSummary, 0, len(out.Result))
	for _, row := range out.Result {
		summaries = append(summaries, order.OrderSummary{
			InternalID:    row.OrderID,
			ExtraFieldSet: order.ExtraFieldSet{List: row.ExtraFields},
		})
	}
	return summaries, nil
}

// BatchOrderFields looks up the extra fields for up to one batch ceiling's
// worth of ids in a single aliased query. Aliases are positional ("o_0",
// "o_1", ...) because ids can contain characters aliases cannot, and
// sanitizing ids could collide ("A-7" and "A_7"). Result keys are the
// original id strings.
func (c *Client) BatchOrderFields(ctx context.Context, ids []string, class order.CallerClass) (order.EnrichmentMap, error) {
	if len(ids) == 0 {
		return order.EnrichmentMap{}, nil
	}
	if len(ids) > c.BatchCeiling() {
		return nil, fmt.Errorf("batch of %d ids exceeds ceiling %d", len(ids), c.BatchCeiling())
	}

	root := queryRoot(class)
	byAlias := make(map[string]string, len(ids))

	var b strings.Builder
	b.WriteString("query { ")
	for i, id := range ids {
		alias := fmt.Sprintf("o_%d", i)
		byAlias[alias] = id
		fmt.Fprintf(&b, "%s: %s(orderId: %q) { extraFields { name value } } ", alias, root, id)
	}
	b.WriteString("}")

	var out map[string]*struct {
		ExtraFields []order.ExternalField `json:"extraFields"`
	}
	if err := c.graphql(ctx, b.String(), &out); err != nil {
		return nil, fmt.Errorf("batch order fields: %w", err)
	}

	result := make(order.EnrichmentMap, len(ids))
	for alias, row := range out {
		id, ok := byAlias[alias]
		if !ok || row == nil {
			continue
		}
		result[id] = row.ExtraFields
	}
	return result, nil
}

// OrderAddresses fetches the billing and shipping blocks of an order. The
// shipping value is returned raw: the upstream emits an array, an empty
// array, or false, and normalization is the invoice pipeline's job.
func (c *Client) OrderAddresses(ctx context.Context, internalID string, class order.CallerClass) (*order.Address, json.RawMessage, error) {
	query := fmt.Sprintf(
		`query { result: %s(orderId: %q) { billingAddress { firstName lastName company street1 street2 city state zipCode country } shippingAddresses } }`,
		queryRoot(class), internalID,
	)

	var out struct {
		Result *struct {
			BillingAddress    *addressWire    `json:"billingAddress"`
			ShippingAddresses json.RawMessage `json:"shippingAddresses"`
		} `json:"result"`
	}
	if err := c.graphql(ctx, query, &out); err != nil {
		return nil, nil, fmt.Errorf("order addresses %s: %w", internalID, err)
	}
	if out.Result == nil {
		return nil, nil, fmt.Errorf("order addresses %s: %w", internalID, order.ErrNotFound)
	}
	return out.Result.BillingAddress.toDomain(), out.Result.ShippingAddresses, nil
}

// InvoiceDetail fetches one invoice header by id.
func (c *Client) InvoiceDetail(ctx context.Context, invoiceID string, class order.CallerClass) (*order.Invoice, error) {
	root := "companyInvoice"
	if class == order.SelfServiceScoped {
		root = "customerInvoice"
	}
	query := fmt.Sprintf(
		`query { result: %s(invoiceId: %q) { invoiceId companyId status totalIncTax currencyCode extraFields { name value } billingAddress { firstName lastName company street1 street2 city state zipCode country } } }`,
		root, invoiceID,
	)

	var out struct {
		Result *struct {
			InvoiceID      string                `json:"invoiceId"`
			CompanyID      string                `json:"companyId"`
			Status         string                `json:"status"`
			TotalIncTax    decimal.Decimal       `json:"totalIncTax"`
			Currency       string                `json:"currencyCode"`
			ExtraFields    []order.ExternalField `json:"extraFields"`
			BillingAddress *addressWire          `json:"billingAddress"`
		} `json:"result"`
	}
	if err := c.graphql(ctx, query, &out); err != nil {
		return nil, fmt.Errorf("invoice detail %s: %w", invoiceID, err)
	}
	if out.Result == nil {
		return nil, fmt.Errorf("invoice detail %s: %w", invoiceID, order.ErrNotFound)
	}

	inv := &order.Invoice{
		InvoiceID: out.Result.InvoiceID,
		CompanyID: out.Result.CompanyID,
		Status:    out.Result.Status,
		Currency:  out.Result.Currency,
		ExtraFieldSet: order.ExtraFieldSet{
			List: out.Result.ExtraFields,
		},
		Billing: out.Result.BillingAddress.toDomain(),
	}
	inv.Total = out.Result.TotalIncTax
	return inv, nil
}
