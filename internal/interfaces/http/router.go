package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/vetorya/clinica-api/internal/application/auth"
	"github.com/vetorya/clinica-api/internal/application/billing"
	"github.com/vetorya/clinica-api/internal/application/inventory"
	"github.com/vetorya/clinica-api/internal/application/usecase"
	"github.com/vetorya/clinica-api/internal/domain/authz"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	ProductUC     *usecase.ProductUseCase
	CatalogUC     *usecase.CatalogUseCase
	StockLedger   *inventory.StockLedger
	CreateInvoice *billing.CreateInvoiceUseCase
	UpdateInvoice *billing.UpdateInvoiceUseCase
	InvoicePDF    *billing.PDFUseCase
	JWTSecret     string
}

// Router registra las rutas de la API. El middleware RequirePermission corta
// antes del handler; los casos de uso vuelven a autorizar con el mismo matrix.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequirePermission(authz.ResourceProducts, authz.ActionCreate), productHandler.Create)
	products.Get("/", RequirePermission(authz.ResourceProducts, authz.ActionRead), productHandler.List)
	products.Get("/low-stock", RequirePermission(authz.ResourceStock, authz.ActionRead), productHandler.ListLowStock)
	products.Get("/:id", RequirePermission(authz.ResourceProducts, authz.ActionRead), productHandler.GetByID)
	products.Put("/:id", RequirePermission(authz.ResourceProducts, authz.ActionUpdate), productHandler.Update)

	// Stock ledger (protegido)
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.StockLedger)
	stock.Post("/movements", RequirePermission(authz.ResourceStock, authz.ActionCreate), stockHandler.ApplyMovement)
	stock.Get("/movements", RequirePermission(authz.ResourceStock, authz.ActionRead), stockHandler.ListMovements)

	// Catálogo: servicios, propietarios, mascotas y citas (protegido)
	catalogHandler := NewCatalogHandler(deps.CatalogUC)
	services := protected.Group("/services")
	services.Post("/", RequirePermission(authz.ResourceServices, authz.ActionCreate), catalogHandler.CreateService)
	services.Get("/", RequirePermission(authz.ResourceServices, authz.ActionRead), catalogHandler.ListServices)

	owners := protected.Group("/owners")
	owners.Post("/", RequirePermission(authz.ResourceOwners, authz.ActionCreate), catalogHandler.CreateOwner)
	owners.Get("/", RequirePermission(authz.ResourceOwners, authz.ActionRead), catalogHandler.ListOwners)
	owners.Get("/:id", RequirePermission(authz.ResourceOwners, authz.ActionRead), catalogHandler.GetOwner)
	owners.Get("/:id/animals", RequirePermission(authz.ResourceAnimals, authz.ActionRead), catalogHandler.ListAnimalsByOwner)

	animals := protected.Group("/animals")
	animals.Post("/", RequirePermission(authz.ResourceAnimals, authz.ActionCreate), catalogHandler.CreateAnimal)

	appointments := protected.Group("/appointments")
	appointments.Post("/", RequirePermission(authz.ResourceAppointments, authz.ActionCreate), catalogHandler.CreateAppointment)
	appointments.Get("/", RequirePermission(authz.ResourceAppointments, authz.ActionRead), catalogHandler.ListAppointments)
	appointments.Patch("/:id/status", RequirePermission(authz.ResourceAppointments, authz.ActionUpdate), catalogHandler.UpdateAppointmentStatus)

	// Invoices (protegido)
	invoices := protected.Group("/invoices")
	invoiceHandler := NewInvoiceHandler(deps.CreateInvoice, deps.UpdateInvoice, deps.InvoicePDF)
	invoices.Post("/", RequirePermission(authz.ResourceInvoices, authz.ActionCreate), invoiceHandler.Create)
	invoices.Get("/", RequirePermission(authz.ResourceInvoices, authz.ActionRead), invoiceHandler.List)
	invoices.Get("/:id", RequirePermission(authz.ResourceInvoices, authz.ActionRead), invoiceHandler.GetByID)
	invoices.Get("/:id/pdf", RequirePermission(authz.ResourceInvoices, authz.ActionRead), invoiceHandler.DownloadPDF)
	invoices.Put("/:id", RequirePermission(authz.ResourceInvoices, authz.ActionUpdate), invoiceHandler.Update)
}
