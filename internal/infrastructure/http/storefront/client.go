package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/qdhenry/b2b-buyer-portal/internal/config"
	"github.com/qdhenry/b2b-buyer-portal/internal/domain/order"
	"github.com/qdhenry/b2b-buyer-portal/pkg/logger"
)

// Client talks to the commerce platform's two upstream surfaces: the B2B
// GraphQL endpoint (order detail, search, batched field lookup, addresses)
// and the REST management API (company lookup, order listing).
type Client struct {
	httpClient *http.Client
	cfg        config.StorefrontConfig
	log        logger.Logger
}

func NewClient(cfg config.StorefrontConfig, log logger.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}
	return &Client{
		cfg: cfg,
		log: log,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   5 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
			},
		},
	}
}

// BatchCeiling is the per-request id limit the upstream enforces on the
// aliased field-lookup query.
func (c *Client) BatchCeiling() int {
	if c.cfg.BatchCeiling > 0 {
		return c.cfg.BatchCeiling
	}
	return 10
}

/* ================= GraphQL transport ================= */

type graphqlRequest struct {
	Query string `json:"query"`
}

type graphqlError struct {
	Message string `json:"message"`
}

// graphql posts one query and decodes the "data" object into out.
// Top-level GraphQL errors fail the call; per-alias nulls do not.
func (c *Client) graphql(ctx context.Context, query string, out interface{}) error {
	body, err := json.Marshal(graphqlRequest{Query: query})
	if err != nil {
		return fmt.Errorf("encode query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.GraphQLURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.AuthToken)
	}
	if c.cfg.StoreHash != "" {
		req.Header.Set("X-Store-Hash", c.cfg.StoreHash)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call storefront graphql: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("storefront graphql status %d", resp.StatusCode)
	}

	var envelope struct {
		Data   json.RawMessage `json:"data"`
		Errors []graphqlError  `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return fmt.Errorf("storefront graphql: %s", envelope.Errors[0].Message)
	}
	if len(envelope.Data) == 0 {
		return fmt.Errorf("storefront graphql: empty data")
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

// queryRoot is the per-caller-class single-order field name. Company buyers
// and self-service customers address two parallel query shapes for the same
// data.
func queryRoot(class order.CallerClass) string {
	if class == order.SelfServiceScoped {
		return "customerOrder"
	}
	return "companyOrder"
}

func searchRoot(class order.CallerClass) string {
	if class == order.SelfServiceScoped {
		return "customerOrders"
	}
	return "companyOrders"
}

/* ================= wire shapes ================= */

type orderWire struct {
	OrderID     string                `json:"orderId"`
	CompanyID   string                `json:"companyId"`
	Status      string                `json:"status"`
	TotalIncTax decimal.Decimal       `json:"totalIncTax"`
	Currency    string                `json:"currencyCode"`
	CreatedAt   string                `json:"createdAt"`
	ExtraFields []order.ExternalField `json:"extraFields"`
}

func (w orderWire) toDomain() *order.Order {
	o := &order.Order{
		InternalID: w.OrderID,
		CompanyID:  w.CompanyID,
		Status:     w.Status,
		Total:      w.TotalIncTax,
		Currency:   w.Currency,
		ExtraFieldSet: order.ExtraFieldSet{
			List: w.ExtraFields,
		},
	}
	if t, err := time.Parse(time.RFC3339, w.CreatedAt); err == nil {
		o.CreatedAt = t
	}
	return o
}

type addressWire struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Company   string `json:"company"`
	Street1   string `json:"street1"`
	Street2   string `json:"street2"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zip       string `json:"zipCode"`
	Country   string `json:"country"`
}

func (w *addressWire) toDomain() *order.Address {
	if w == nil {
		return nil
	}
	return &order.Address{
		FirstName: w.FirstName,
		LastName:  w.LastName,
		Company:   w.Company,
		Street1:   w.Street1,
		Street2:   w.Street2,
		City:      w.City,
		State:     w.State,
		Zip:       w.Zip,
		Country:   w.Country,
	}
}
