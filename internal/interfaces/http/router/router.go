package router

import (
	"github.com/gin-gonic/gin"

	"github.com/qdhenry/b2b-buyer-portal/internal/interfaces/http/handler"
)

func RegisterRoutes(r *gin.Engine, orders *handler.OrderHandler, invoices *handler.InvoiceHandler) {
	api := r.Group("/api")
	{
		api.GET("/orders", orders.ListOrders)
		api.GET("/orders/enrichment", orders.EnrichOrders)
		api.GET("/orders/enrichment/stream", orders.StreamEnrichment)
		api.GET("/orders/:id", orders.OrderDetail)
		api.GET("/invoices/:id/render", invoices.RenderInvoice)
	}
}
