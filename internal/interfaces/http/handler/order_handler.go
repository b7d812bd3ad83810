package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/qdhenry/b2b-buyer-portal/internal/application/company"
	"github.com/qdhenry/b2b-buyer-portal/internal/application/enrichment"
	"github.com/qdhenry/b2b-buyer-portal/internal/application/resolver"
	"github.com/qdhenry/b2b-buyer-portal/internal/domain/order"
	"github.com/qdhenry/b2b-buyer-portal/pkg/logger"
)

// trustedIDHeader carries the internal id from a list row click so the
// detail endpoint can skip resolution entirely.
const trustedIDHeader = "X-Trusted-Order-Id"

// OrderLister pages through a company's orders on the upstream REST surface.
type OrderLister interface {
	ListOrders(ctx context.Context, companyID string, offset, limit int) ([]order.Order, error)
}

type OrderHandler struct {
	lister    OrderLister
	enrich    *enrichment.Service
	resolve   *resolver.Service
	companies *company.Cache
	log       logger.Logger

	// one generation guard per list view, so a consumer paging its own
	// list supersedes only its own stream
	mu     sync.Mutex
	guards map[string]*enrichment.Guard
}

func NewOrderHandler(lister OrderLister, enrich *enrichment.Service, resolve *resolver.Service, companies *company.Cache, log logger.Logger) *OrderHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &OrderHandler{
		lister:    lister,
		enrich:    enrich,
		resolve:   resolve,
		companies: companies,
		log:       log,
		guards:    make(map[string]*enrichment.Guard),
	}
}

type orderRow struct {
	order.Order
	DisplayID   string `json:"display_id"`
	CompanyName string `json:"company_name,omitempty"`
}

// ListOrders returns one page of orders with display ids and company names
// already attached, so the list view renders in one round trip.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	companyID := c.Query("companyId")
	if companyID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "companyId is required"})
		return
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	orders, err := h.lister.ListOrders(c.Request.Context(), companyID, offset, limit)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	companyIDs := make([]string, 0, len(orders))
	for _, o := range orders {
		if o.CompanyID != "" {
			companyIDs = append(companyIDs, o.CompanyID)
		}
	}
	names := h.companies.GetMany(c.Request.Context(), companyIDs)

	rows := make([]orderRow, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, orderRow{
			Order:       o,
			DisplayID:   o.DisplayID(o.InternalID),
			CompanyName: names[o.CompanyID],
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": rows})
}

// EnrichOrders fetches extra fields for the requested page of ids in one
// batched pass. Partial upstream failures simply leave ids out of the map.
func (h *OrderHandler) EnrichOrders(c *gin.Context) {
	ids := splitIDs(c.Query("ids"))
	class := order.ParseCallerClass(c.Query("class"))

	fields := h.enrich.FetchBatch(c.Request.Context(), ids, class)
	c.JSON(http.StatusOK, gin.H{"data": fields})
}

// StreamEnrichment serves the progressive variant over SSE: each event is a
// strictly growing snapshot of the enrichment map. A stream request carrying
// a session key supersedes earlier streams of the same session (the consumer
// paged to a new id set); streams from other sessions are untouched.
// Superseded streams stop emitting and close with a done event. Client
// disconnects end the stream through request-context cancellation.
func (h *OrderHandler) StreamEnrichment(c *gin.Context) {
	ids := splitIDs(c.Query("ids"))
	class := order.ParseCallerClass(c.Query("class"))

	guard := h.sessionGuard(c.Query("session"))
	gen := guard.Next()

	// Buffer covers every settle plus the empty-input callback so the
	// producer never blocks on a slow or gone client.
	snapshots := make(chan order.EnrichmentMap, len(ids)+1)
	go func() {
		defer close(snapshots)
		h.enrich.FetchProgressive(c.Request.Context(), ids, class, func(snapshot order.EnrichmentMap) {
			snapshots <- snapshot
		})
	}()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Stream(func(w io.Writer) bool {
		snapshot, ok := <-snapshots
		if !ok {
			c.SSEvent("done", gin.H{})
			return false
		}
		if !guard.Current(gen) {
			c.SSEvent("done", gin.H{})
			return false
		}
		c.SSEvent("snapshot", snapshot)
		return true
	})
}

// sessionGuard returns the guard for one list view. Streams without a
// session key get a private guard and can only end by completing or by
// the client going away.
func (h *OrderHandler) sessionGuard(session string) *enrichment.Guard {
	if session == "" {
		return &enrichment.Guard{}
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	g, ok := h.guards[session]
	if !ok {
		g = &enrichment.Guard{}
		h.guards[session] = g
	}
	return g
}

// OrderDetail resolves a route id that may be an internal id or an ERP
// order number and returns the order record.
func (h *OrderHandler) OrderDetail(c *gin.Context) {
	routeID := c.Param("id")
	companyID := c.Query("companyId")
	class := order.ParseCallerClass(c.Query("class"))

	var trusted *resolver.NavState
	if id := c.GetHeader(trustedIDHeader); id != "" {
		trusted = &resolver.NavState{InternalID: id}
	}

	o, err := h.resolve.ResolveInternalID(c.Request.Context(), routeID, trusted, companyID, class)
	if errors.Is(err, order.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": orderRow{
		Order:     *o,
		DisplayID: o.DisplayID(o.InternalID),
	}})
}

func splitIDs(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			ids = append(ids, p)
		}
	}
	return ids
}
