package storefront

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/shopspring/decimal"

	"github.com/qdhenry/b2b-buyer-portal/internal/domain/order"
	"github.com/qdhenry/b2b-buyer-portal/pkg/logger"
)

// restGet performs one management-API GET with retries on transport errors
// and 5xx responses. 4xx responses fail immediately.
func (c *Client) restGet(ctx context.Context, path string, query url.Values, out interface{}) error {
	u, err := url.Parse(c.cfg.RESTBaseURL + path)
	if err != nil {
		return fmt.Errorf("invalid rest url: %w", err)
	}
	if query != nil {
		u.RawQuery = query.Encode()
	}

	backoff := retry.WithMaxRetries(
		uint64(c.cfg.RetryMax),
		retry.NewExponential(time.Duration(c.cfg.RetryBaseMS)*time.Millisecond),
	)

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		if c.cfg.AuthToken != "" {
			req.Header.Set("Authorization", "Bearer "+c.cfg.AuthToken)
		}
		if c.cfg.StoreHash != "" {
			req.Header.Set("X-Store-Hash", c.cfg.StoreHash)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return retry.RetryableError(fmt.Errorf("call storefront rest: %w", err))
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return retry.RetryableError(fmt.Errorf("storefront rest status %d", resp.StatusCode))
		}
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("storefront rest status %d", resp.StatusCode)
		}

		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
		return nil
	})
}

// CompanyName resolves a company id to its display name.
func (c *Client) CompanyName(ctx context.Context, companyID string) (string, error) {
	var out struct {
		Data struct {
			CompanyName string `json:"companyName"`
		} `json:"data"`
	}
	if err := c.restGet(ctx, "/companies/"+url.PathEscape(companyID), nil, &out); err != nil {
		return "", fmt.Errorf("company %s: %w", companyID, err)
	}
	return out.Data.CompanyName, nil
}

type listOrderWire struct {
	OrderID         string          `json:"orderId"`
	CompanyID       string          `json:"companyId"`
	Status          string          `json:"status"`
	TotalIncTax     decimal.Decimal `json:"totalIncTax"`
	Currency        string          `json:"currencyCode"`
	CreatedAt       int64           `json:"createdAt"`
	ExtraFieldsJSON string          `json:"extraFieldsJson"`
}

// ListOrders pages through the coarse REST order listing. Rows carry their
// extra fields as a JSON string, not a decoded list; that is the size
// optimization the enrichment layer exists to compensate for.
func (c *Client) ListOrders(ctx context.Context, companyID string, offset, limit int) ([]order.Order, error) {
	if limit <= 0 {
		limit = 20
	}
	query := url.Values{}
	query.Set("companyId", companyID)
	query.Set("offset", strconv.Itoa(offset))
	query.Set("limit", strconv.Itoa(limit))

	var out struct {
		Data []listOrderWire `json:"data"`
	}
	if err := c.restGet(ctx, "/orders", query, &out); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	orders := make([]order.Order, 0, len(out.Data))
	for _, row := range out.Data {
		o := order.Order{
			InternalID: row.OrderID,
			CompanyID:  row.CompanyID,
			Status:     row.Status,
			Total:      row.TotalIncTax,
			Currency:   row.Currency,
			ExtraFieldSet: order.ExtraFieldSet{
				Raw: row.ExtraFieldsJSON,
			},
		}
		if row.CreatedAt > 0 {
			o.CreatedAt = time.Unix(row.CreatedAt, 0).UTC()
		}
		orders = append(orders, o)
	}

	c.log.Debug("listed orders",
		logger.String("company_id", companyID),
		logger.Int("count", len(orders)),
	)
	return orders, nil
}
