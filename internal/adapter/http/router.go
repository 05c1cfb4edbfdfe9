package http

import "github.com/labstack/echo/v4"

// Handlers groups every handler the API serves.
type Handlers struct {
	Health    *Handler
	Customers *CustomerHandler
	Loans     *LoanHandler
	Payments  *PaymentHandler
	Sync      *SyncHandler
}

// Register mounts the API routes on e. idem guards payment creation and
// may be nil when no idempotency store is configured.
func Register(e *echo.Echo, h Handlers, idem echo.MiddlewareFunc) {
	e.GET("/health", h.Health.Health)

	cs := e.Group("/customers")
	cs.GET("", h.Customers.List)
	cs.POST("", h.Customers.Create)
	cs.GET("/:id", h.Customers.Get)
	cs.PUT("/:id", h.Customers.Update)
	cs.DELETE("/:id", h.Customers.Delete)

	ls := e.Group("/loans")
	ls.GET("", h.Loans.List)
	ls.POST("", h.Loans.Create)
	ls.GET("/:id", h.Loans.Get)
	ls.PUT("/:id", h.Loans.Update)
	ls.DELETE("/:id", h.Loans.Delete)
	ls.GET("/:id/balance", h.Loans.Balance)
	ls.GET("/:id/history", h.Loans.History)
	ls.GET("/:id/report", h.Loans.Report)

	ps := e.Group("/payments")
	ps.GET("", h.Payments.List)
	if idem != nil {
		ps.POST("", h.Payments.Create, idem)
	} else {
		ps.POST("", h.Payments.Create)
	}
	ps.GET("/:id", h.Payments.Get)
	ps.PUT("/:id", h.Payments.Update)
	ps.DELETE("/:id", h.Payments.Delete)

	e.POST("/sync/push", h.Sync.Push)
	e.POST("/sync/pull", h.Sync.Pull)
	e.GET("/sync/status", h.Sync.Status)
}
