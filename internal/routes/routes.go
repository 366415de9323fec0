package routes

import (
	"github.com/gin-gonic/gin"

	handler "invoice-reconciliation-backend/internal/handlers"
	"invoice-reconciliation-backend/internal/jobs"
	service "invoice-reconciliation-backend/internal/services/reconciliation"
)

func RegisterRoutes(r *gin.Engine, svc *service.Service, publisher jobs.Publisher, jobStore jobs.JobStore) {
	reconHandler := handler.NewReconciliationHandler(svc, publisher, jobStore)

	api := r.Group("/api")

	// Health check
	api.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Invoice routes
	invoices := api.Group("/invoices")
	{
		invoices.GET("/:id", reconHandler.GetInvoice)
		invoices.POST("/:id/reconcile", reconHandler.Reconcile)
		invoices.POST("/:id/reconcile/async", reconHandler.ReconcileAsync)
		invoices.DELETE("/:id/match", reconHandler.ClearMatch)
	}

	// Reconciliation routes
	recon := api.Group("/reconciliation")
	recon.POST("/run", reconHandler.RunBatch)
	recon.GET("/stats", reconHandler.GetStats)

	// Job routes
	api.GET("/jobs/:id", reconHandler.GetJob)
}
