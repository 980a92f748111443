package handler

import (
	"github.com/labstack/echo/v4"
)

// Register wires the full API surface onto e. Paths and parameter
// names are part of the frontend contract and must not change.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/api/health", h.HealthCheck)

	clients := e.Group("/api/clients")
	clients.GET("", h.ListClients)
	clients.POST("", h.CreateClient)
	clients.PUT("/:id", h.UpdateClient)
	clients.DELETE("/:id", h.DeleteClient)

	clients.GET("/:id/database", h.GetClientDatabase)
	clients.POST("/:id/database", h.CreateClientDatabase)
	clients.DELETE("/:id/database", h.DeleteClientDatabase)

	clients.GET("/:id/purchases", h.ListClientPurchases)
	clients.POST("/:id/purchases", h.AddClientPurchase)
	clients.POST("/:id/purchases/bulk", h.BulkAddClientPurchases)
	clients.PUT("/:id/purchases/:pid", h.UpdateClientPurchase)
	clients.DELETE("/:id/purchases/:pid", h.DeleteClientPurchase)

	clients.GET("/:id/sales", h.ListClientSales)
	clients.POST("/:id/sales", h.AddClientSale)
	clients.POST("/:id/sales/bulk", h.BulkAddClientSales)
	clients.PUT("/:id/sales/:sid", h.UpdateClientSale)
	clients.DELETE("/:id/sales/:sid", h.DeleteClientSale)

	clients.GET("/:id/b2c-sales", h.ListClientB2CSales)
	clients.POST("/:id/b2c-sales", h.AddClientB2CSale)
	clients.POST("/:id/b2c-sales/bulk", h.BulkAddClientB2CSales)
	clients.PUT("/:id/b2c-sales/:bid", h.UpdateClientB2CSale)
	clients.DELETE("/:id/b2c-sales/:bid", h.DeleteClientB2CSale)

	clients.GET("/:id/returns", h.ListClientReturns)
	clients.POST("/:id/returns", h.AddClientReturn)
	clients.PUT("/:id/returns/:rid", h.UpdateClientReturn)
	clients.DELETE("/:id/returns/:rid", h.DeleteClientReturn)

	clients.GET("/:id/debtors", h.ListClientDebtors)
	clients.POST("/:id/debtors", h.AddClientDebtor)
	clients.PUT("/:id/debtors/:did", h.UpdateClientDebtor)
	clients.DELETE("/:id/debtors/:did", h.DeleteClientDebtor)
}
