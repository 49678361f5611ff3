package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetorya/clinica-api/internal/application/dto"
	"github.com/vetorya/clinica-api/internal/domain"
	"github.com/vetorya/clinica-api/internal/domain/authz"
	"github.com/vetorya/clinica-api/internal/domain/entity"
	"github.com/vetorya/clinica-api/internal/domain/repository"
)

// Config parámetros del motor de facturación.
type Config struct {
	DefaultTaxRate decimal.Decimal // tasa cuando ni la línea ni el catálogo ni la clínica traen una
	DueDays        int             // vencimiento por defecto desde la emisión
}

// CreateInvoiceUseCase crea una factura y descuenta el stock de cada línea de
// producto en una sola transacción: o queda todo, o no queda nada.
type CreateInvoiceUseCase struct {
	txRunner        BillingTxRunner
	ledger          StockLedgerPort
	allocator       NumberAllocator
	appointmentRepo repository.AppointmentRepository
	ownerRepo       repository.OwnerRepository
	clinicRepo      repository.ClinicRepository
	productRepo     repository.ProductRepository
	serviceRepo     repository.ServiceRepository
	invoiceRepo     repository.InvoiceRepository
	movRepo         repository.StockMovementRepository
	cfg             Config
}

// NewCreateInvoiceUseCase construye el caso de uso.
func NewCreateInvoiceUseCase(
	txRunner BillingTxRunner,
	ledger StockLedgerPort,
	allocator NumberAllocator,
	appointmentRepo repository.AppointmentRepository,
	ownerRepo repository.OwnerRepository,
	clinicRepo repository.ClinicRepository,
	productRepo repository.ProductRepository,
	serviceRepo repository.ServiceRepository,
	invoiceRepo repository.InvoiceRepository,
	movRepo repository.StockMovementRepository,
	cfg Config,
) *CreateInvoiceUseCase {
	return &CreateInvoiceUseCase{
		txRunner:        txRunner,
		ledger:          ledger,
		allocator:       allocator,
		appointmentRepo: appointmentRepo,
		ownerRepo:       ownerRepo,
		clinicRepo:      clinicRepo,
		productRepo:     productRepo,
		serviceRepo:     serviceRepo,
		invoiceRepo:     invoiceRepo,
		movRepo:         movRepo,
		cfg:             cfg,
	}
}

// CreateInvoice crea la factura para la cita indicada. Pasos: autorización,
// validación y resolución de catálogo (solo lecturas), asignación de número y
// después UNA transacción con cabecera + líneas + salidas de stock.
func (uc *CreateInvoiceUseCase) CreateInvoice(ctx context.Context, clinicID, userID string, roles []authz.Role, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	// Pre-chequeo de permisos antes de cualquier efecto.
	if !authz.Authorize(roles, authz.ResourceInvoices, authz.ActionCreate) {
		return nil, domain.ErrForbidden
	}
	if in.AppointmentID == "" || len(in.Items) == 0 {
		return nil, domain.ErrInvalidInput
	}

	// Contexto de la cita: propietario y clínica (colaborador externo, solo lectura)
	appt, err := uc.appointmentRepo.GetByID(in.AppointmentID)
	if err != nil {
		return nil, err
	}
	if appt == nil || appt.ClinicID != clinicID {
		return nil, domain.ErrNotFound
	}
	owner, err := uc.ownerRepo.GetByID(appt.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner == nil || owner.ClinicID != clinicID {
		return nil, domain.ErrNotFound
	}
	clinic, err := uc.clinicRepo.GetByID(clinicID)
	if err != nil {
		return nil, err
	}
	if clinic == nil {
		return nil, domain.ErrNotFound
	}

	items, err := uc.resolver(clinic).resolve(clinicID, in.Items)
	if err != nil {
		return nil, err
	}
	subtotal, tax, total := computeTotals(items)

	now := time.Now()
	dueDate := now.AddDate(0, 0, uc.cfg.DueDays)
	if in.DueDate != nil {
		dueDate = *in.DueDate
	}

	// Número de factura: sentencia atómica independiente de la transacción de
	// abajo. Un rollback posterior deja hueco en la secuencia, no reutilización.
	number, err := uc.allocator.NextNumber(ctx, clinicID)
	if err != nil {
		return nil, err
	}

	inv := &entity.Invoice{
		ID:            uuid.New().String(),
		ClinicID:      clinicID,
		OwnerID:       owner.ID,
		AppointmentID: appt.ID,
		Number:        number,
		Date:          now,
		DueDate:       dueDate,
		Subtotal:      subtotal,
		TaxAmount:     tax,
		TotalAmount:   total,
		PaymentStatus: entity.PaymentStatusPending,
		Notes:         in.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, item := range items {
		item.ID = uuid.New().String()
		item.InvoiceID = inv.ID
	}

	var movements []*entity.StockMovement
	err = uc.txRunner.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		for _, item := range items {
			if err := invoiceRepo.CreateItem(item); err != nil {
				return err
			}
		}
		// Una salida de stock por cada línea de producto, 1:1 con su cantidad.
		// Cualquier faltante aborta la transacción completa: sin factura parcial,
		// sin descuento parcial.
		reason := fmt.Sprintf("venta factura %s", inv.Number)
		for _, item := range items {
			if item.ItemType != entity.ItemTypeProduct {
				continue
			}
			mov, err := uc.ledger.OutInTx(productRepo, movRepo, clinicID, userID, *item.ProductID, item.Quantity, inv.ID, reason, now)
			if err != nil {
				return err
			}
			movements = append(movements, mov)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return toInvoiceResponse(inv, owner.Name, items, movements), nil
}

// GetInvoice obtiene una factura con líneas y movimientos, siempre acotada a la clínica.
func (uc *CreateInvoiceUseCase) GetInvoice(ctx context.Context, clinicID string, roles []authz.Role, id string) (*dto.InvoiceResponse, error) {
	if !authz.Authorize(roles, authz.ResourceInvoices, authz.ActionRead) {
		return nil, domain.ErrForbidden
	}
	inv, err := uc.invoiceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.ClinicID != clinicID {
		return nil, domain.ErrNotFound
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(id)
	if err != nil {
		return nil, err
	}
	movements, err := uc.movRepo.ListByInvoice(id)
	if err != nil {
		return nil, err
	}
	ownerName := ""
	if owner, _ := uc.ownerRepo.GetByID(inv.OwnerID); owner != nil {
		ownerName = owner.Name
	}
	return toInvoiceResponse(inv, ownerName, items, movements), nil
}

// ListInvoices lista las facturas de la clínica (cabeceras, sin líneas).
func (uc *CreateInvoiceUseCase) ListInvoices(ctx context.Context, clinicID string, roles []authz.Role, limit, offset int) ([]dto.InvoiceResponse, error) {
	if !authz.Authorize(roles, authz.ResourceInvoices, authz.ActionRead) {
		return nil, domain.ErrForbidden
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	invs, err := uc.invoiceRepo.ListByClinic(clinicID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceResponse, 0, len(invs))
	for _, inv := range invs {
		out = append(out, *toInvoiceResponse(inv, "", nil, nil))
	}
	return out, nil
}

func (uc *CreateInvoiceUseCase) resolver(clinic *entity.Clinic) itemResolver {
	defaultTax := normalizeRate(clinic.TaxRate)
	if defaultTax.IsZero() {
		defaultTax = uc.cfg.DefaultTaxRate
	}
	return itemResolver{
		productRepo: uc.productRepo,
		serviceRepo: uc.serviceRepo,
		defaultTax:  defaultTax,
	}
}

func toInvoiceResponse(inv *entity.Invoice, ownerName string, items []*entity.InvoiceItem, movements []*entity.StockMovement) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:            inv.ID,
		ClinicID:      inv.ClinicID,
		OwnerID:       inv.OwnerID,
		OwnerName:     ownerName,
		AppointmentID: inv.AppointmentID,
		Number:        inv.Number,
		Date:          inv.Date.Format("2006-01-02"),
		DueDate:       inv.DueDate.Format("2006-01-02"),
		Subtotal:      inv.Subtotal,
		TaxAmount:     inv.TaxAmount,
		TotalAmount:   inv.TotalAmount,
		PaymentStatus: inv.PaymentStatus,
		PaymentMethod: inv.PaymentMethod,
		PaidAt:        inv.PaidAt,
		Notes:         inv.Notes,
		Items:         make([]dto.InvoiceItemResponse, 0, len(items)),
	}
	for _, it := range items {
		line := dto.InvoiceItemResponse{
			ID:          it.ID,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  it.TotalPrice,
			TaxRate:     it.TaxRate,
			ItemType:    it.ItemType,
		}
		if it.ProductID != nil {
			line.ProductID = *it.ProductID
		}
		if it.ServiceID != nil {
			line.ServiceID = *it.ServiceID
		}
		resp.Items = append(resp.Items, line)
	}
	for _, m := range movements {
		mr := dto.MovementResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			Type:      m.Type,
			Quantity:  m.Quantity,
			Reason:    m.Reason,
			CreatedAt: m.CreatedAt,
			CreatedBy: m.CreatedBy,
		}
		if m.InvoiceID != nil {
			mr.InvoiceID = *m.InvoiceID
		}
		resp.Movements = append(resp.Movements, mr)
	}
	return resp
}
