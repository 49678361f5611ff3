package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/vetorya/clinica-api/internal/application/auth"
	"github.com/vetorya/clinica-api/internal/application/billing"
	"github.com/vetorya/clinica-api/internal/application/inventory"
	"github.com/vetorya/clinica-api/internal/application/usecase"
	infrapdf "github.com/vetorya/clinica-api/internal/infrastructure/pdf"
	"github.com/vetorya/clinica-api/internal/infrastructure/postgres"
	httpRouter "github.com/vetorya/clinica-api/internal/interfaces/http"
	"github.com/vetorya/clinica-api/pkg/config"
	"github.com/vetorya/clinica-api/pkg/logger"
)

func main() {
	// .env es opcional; en producción las variables llegan del entorno.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	clinicRepo := postgres.NewClinicRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movRepo := postgres.NewStockMovementRepository(pool)
	serviceRepo := postgres.NewServiceRepository(pool)
	ownerRepo := postgres.NewOwnerRepository(pool)
	animalRepo := postgres.NewAnimalRepository(pool)
	appointmentRepo := postgres.NewAppointmentRepository(pool)
	invoiceRepo := postgres.NewInvoiceRepository(pool)
	counterRepo := postgres.NewInvoiceCounterRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	stockLedger := inventory.NewStockLedger(txRunner, productRepo, movRepo, log)
	allocator := billing.NewInvoiceNumberAllocator(counterRepo, cfg.Billing.InvoicePrefix)

	billingCfg := billing.Config{
		DefaultTaxRate: decimal.NewFromFloat(cfg.Billing.DefaultTaxRate),
		DueDays:        cfg.Billing.DueDays,
	}
	createInvoiceUC := billing.NewCreateInvoiceUseCase(
		txRunner, stockLedger, allocator,
		appointmentRepo, ownerRepo, clinicRepo, productRepo, serviceRepo,
		invoiceRepo, movRepo, billingCfg,
	)
	updateInvoiceUC := billing.NewUpdateInvoiceUseCase(
		txRunner, stockLedger,
		clinicRepo, productRepo, serviceRepo, invoiceRepo, movRepo, billingCfg,
	)

	// PDF: representación imprimible de la factura
	pdfGenerator := infrapdf.NewMarotoInvoiceGenerator()
	invoicePDFUC := billing.NewPDFUseCase(invoiceRepo, clinicRepo, ownerRepo, pdfGenerator)

	productUC := usecase.NewProductUseCase(productRepo, stockLedger)
	catalogUC := usecase.NewCatalogUseCase(serviceRepo, ownerRepo, animalRepo, appointmentRepo)
	authUC := auth.NewAuthUseCase(userRepo, clinicRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Clinica API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:        authUC,
		ProductUC:     productUC,
		CatalogUC:     catalogUC,
		StockLedger:   stockLedger,
		CreateInvoice: createInvoiceUC,
		UpdateInvoice: updateInvoiceUC,
		InvoicePDF:    invoicePDFUC,
		JWTSecret:     cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
