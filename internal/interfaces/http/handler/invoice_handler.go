package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	invoiceapp "github.com/qdhenry/b2b-buyer-portal/internal/application/invoice"
	"github.com/qdhenry/b2b-buyer-portal/internal/domain/order"
	"github.com/qdhenry/b2b-buyer-portal/pkg/logger"
)

// InvoiceFetcher loads one invoice header from the upstream.
type InvoiceFetcher interface {
	InvoiceDetail(ctx context.Context, invoiceID string, class order.CallerClass) (*order.Invoice, error)
}

type InvoiceHandler struct {
	fetcher InvoiceFetcher
	enrich  *invoiceapp.Service
	log     logger.Logger
}

func NewInvoiceHandler(fetcher InvoiceFetcher, enrich *invoiceapp.Service, log logger.Logger) *InvoiceHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &InvoiceHandler{
		fetcher: fetcher,
		enrich:  enrich,
		log:     log,
	}
}

// invoiceRender is the print-ready shape: the enriched header plus the
// lot/pack-slip lines already decoded and keyed for the template.
type invoiceRender struct {
	order.Invoice
	DisplayID string                  `json:"display_id"`
	PackSlips []order.LotPackSlipItem `json:"pack_slips,omitempty"`
}

// RenderInvoice returns an invoice with addresses backfilled from its
// linked order and pack-slip lines decoded. Backfill failures degrade to
// blank address blocks rather than an error.
func (h *InvoiceHandler) RenderInvoice(c *gin.Context) {
	invoiceID := c.Param("id")
	class := order.ParseCallerClass(c.Query("class"))

	inv, err := h.fetcher.InvoiceDetail(c.Request.Context(), invoiceID, class)
	if errors.Is(err, order.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "invoice not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	enriched := h.enrich.Enrich(c.Request.Context(), *inv, class)

	c.JSON(http.StatusOK, gin.H{"data": invoiceRender{
		Invoice:   enriched,
		DisplayID: enriched.DisplayID(enriched.InvoiceID),
		PackSlips: order.ParseLotPackSlip(enriched.ExtraFieldSet),
	}})
}
