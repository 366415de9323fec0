package main

import (
	"context"
	"log"
	"time"

	"invoice-reconciliation-backend/internal/config"
	"invoice-reconciliation-backend/internal/jobs"
	"invoice-reconciliation-backend/internal/jobs/inmemory"
	"invoice-reconciliation-backend/internal/logger"
	"invoice-reconciliation-backend/internal/models"
	"invoice-reconciliation-backend/internal/repository"
	"invoice-reconciliation-backend/internal/routes"
	"invoice-reconciliation-backend/internal/services/currency"
	"invoice-reconciliation-backend/internal/services/matching"
	service "invoice-reconciliation-backend/internal/services/reconciliation"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on system env")
	}

	cfg := config.Load()
	zlog := logger.New()

	db := config.InitDB()

	db.AutoMigrate(
		&models.Invoice{},
		&models.Transaction{},
		&models.ExchangeRate{},
		&models.MatchAuditLog{},
	)

	invoiceRepo := repository.NewInvoiceRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	rateRepo := repository.NewExchangeRateRepository(db)

	converter := currency.NewConverter(rateRepo, cfg.BaseCurrency)
	engine := matching.NewEngine(converter)
	reconService := service.NewService(invoiceRepo, transactionRepo, engine, zlog)

	jobStore := inmemory.NewStore()
	queue := inmemory.NewQueue(cfg.QueueSize, cfg.WorkerCount, jobStore)
	defer queue.Close()

	ctx := context.Background()
	err := queue.Start(ctx, func(ctx context.Context, job jobs.Job) error {
		reconJob, ok := job.(*jobs.ReconcileInvoiceJob)
		if !ok {
			return nil
		}
		_, err := reconService.Reconcile(reconJob.InvoiceID)
		return err
	})
	if err != nil {
		zlog.Fatal().Err(err).Msg("failed to start job queue")
	}

	r := gin.Default()
	// CORS config
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.RegisterRoutes(r, reconService, queue, jobStore)

	r.Run(":" + cfg.Port)
}
