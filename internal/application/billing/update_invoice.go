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

// UpdateInvoiceUseCase actualiza campos simples de una factura y, si llegan
// líneas nuevas, reemplaza el conjunto completo recalculando los totales.
//
// El reemplazo de líneas CONCILIA el stock contra el conjunto anterior: por cada
// producto se calcula el delta de cantidad y se emite un movimiento compensatorio
// en la misma transacción (out para aumentos, in para reducciones o líneas
// eliminadas). Una línea de producto quitada repone su stock; una añadida lo
// descuenta.
type UpdateInvoiceUseCase struct {
	txRunner    BillingTxRunner
	ledger      StockLedgerPort
	clinicRepo  repository.ClinicRepository
	productRepo repository.ProductRepository
	serviceRepo repository.ServiceRepository
	invoiceRepo repository.InvoiceRepository
	movRepo     repository.StockMovementRepository
	cfg         Config
}

// NewUpdateInvoiceUseCase construye el caso de uso.
func NewUpdateInvoiceUseCase(
	txRunner BillingTxRunner,
	ledger StockLedgerPort,
	clinicRepo repository.ClinicRepository,
	productRepo repository.ProductRepository,
	serviceRepo repository.ServiceRepository,
	invoiceRepo repository.InvoiceRepository,
	movRepo repository.StockMovementRepository,
	cfg Config,
) *UpdateInvoiceUseCase {
	return &UpdateInvoiceUseCase{
		txRunner:    txRunner,
		ledger:      ledger,
		clinicRepo:  clinicRepo,
		productRepo: productRepo,
		serviceRepo: serviceRepo,
		invoiceRepo: invoiceRepo,
		movRepo:     movRepo,
		cfg:         cfg,
	}
}

// UpdateInvoice aplica la actualización como una sola unidad de trabajo.
// payment_status = paid sin paid_at explícito fija paid_at al momento actual.
func (uc *UpdateInvoiceUseCase) UpdateInvoice(ctx context.Context, clinicID, userID string, roles []authz.Role, invoiceID string, in dto.UpdateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if !authz.Authorize(roles, authz.ResourceInvoices, authz.ActionUpdate) {
		return nil, domain.ErrForbidden
	}

	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil || inv.ClinicID != clinicID {
		// Fuera de la clínica del caller se responde igual que inexistente.
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	if in.PaymentStatus != nil {
		if !entity.ValidPaymentStatus(*in.PaymentStatus) {
			return nil, domain.ErrInvalidInput
		}
		inv.PaymentStatus = *in.PaymentStatus
		if *in.PaymentStatus == entity.PaymentStatusPaid && in.PaidAt == nil && inv.PaidAt == nil {
			paidAt := now
			inv.PaidAt = &paidAt
		}
	}
	if in.PaidAt != nil {
		inv.PaidAt = in.PaidAt
	}
	if in.PaymentMethod != nil {
		inv.PaymentMethod = *in.PaymentMethod
	}
	if in.DueDate != nil {
		inv.DueDate = *in.DueDate
	}
	if in.Notes != nil {
		inv.Notes = *in.Notes
	}
	inv.UpdatedAt = now

	var newItems []*entity.InvoiceItem
	var oldItems []*entity.InvoiceItem
	if in.Items != nil {
		clinic, err := uc.clinicRepo.GetByID(clinicID)
		if err != nil {
			return nil, err
		}
		if clinic == nil {
			return nil, domain.ErrNotFound
		}
		resolver := itemResolver{
			productRepo: uc.productRepo,
			serviceRepo: uc.serviceRepo,
			defaultTax:  uc.defaultTax(clinic),
		}
		newItems, err = resolver.resolve(clinicID, *in.Items)
		if err != nil {
			return nil, err
		}
		oldItems, err = uc.invoiceRepo.GetItemsByInvoiceID(invoiceID)
		if err != nil {
			return nil, err
		}
		for _, item := range newItems {
			item.ID = uuid.New().String()
			item.InvoiceID = inv.ID
		}
		inv.Subtotal, inv.TaxAmount, inv.TotalAmount = computeTotals(newItems)
	}

	err = uc.txRunner.RunBilling(ctx, func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		invoiceRepo repository.InvoiceRepository,
	) error {
		if in.Items != nil {
			if err := invoiceRepo.DeleteItemsByInvoiceID(inv.ID); err != nil {
				return err
			}
			for _, item := range newItems {
				if err := invoiceRepo.CreateItem(item); err != nil {
					return err
				}
			}
			if err := uc.reconcileStock(productRepo, movRepo, inv, oldItems, newItems, userID, now); err != nil {
				return err
			}
		}
		return invoiceRepo.UpdateHeader(inv)
	})
	if err != nil {
		return nil, err
	}

	items := newItems
	if in.Items == nil {
		items, err = uc.invoiceRepo.GetItemsByInvoiceID(invoiceID)
		if err != nil {
			return nil, err
		}
	}
	movements, err := uc.movRepo.ListByInvoice(inv.ID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, "", items, movements), nil
}

// reconcileStock emite los movimientos compensatorios del reemplazo de líneas:
// delta positivo por producto = salida adicional; delta negativo = reposición.
func (uc *UpdateInvoiceUseCase) reconcileStock(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	inv *entity.Invoice,
	oldItems, newItems []*entity.InvoiceItem,
	userID string,
	now time.Time,
) error {
	oldQty := productQuantities(oldItems)
	newQty := productQuantities(newItems)

	seen := make(map[string]struct{}, len(oldQty)+len(newQty))
	outReason := fmt.Sprintf("reemplazo de líneas factura %s", inv.Number)
	inReason := fmt.Sprintf("reposición por reemplazo de líneas factura %s", inv.Number)

	apply := func(productID string) error {
		if _, ok := seen[productID]; ok {
			return nil
		}
		seen[productID] = struct{}{}
		delta := newQty[productID].Sub(oldQty[productID])
		switch {
		case delta.IsPositive():
			_, err := uc.ledger.OutInTx(productRepo, movRepo, inv.ClinicID, userID, productID, delta, inv.ID, outReason, now)
			return err
		case delta.IsNegative():
			_, err := uc.ledger.InTx(productRepo, movRepo, inv.ClinicID, userID, productID, delta.Neg(), inv.ID, inReason, now)
			return err
		}
		return nil
	}

	for productID := range newQty {
		if err := apply(productID); err != nil {
			return err
		}
	}
	for productID := range oldQty {
		if err := apply(productID); err != nil {
			return err
		}
	}
	return nil
}

func (uc *UpdateInvoiceUseCase) defaultTax(clinic *entity.Clinic) decimal.Decimal {
	defaultTax := normalizeRate(clinic.TaxRate)
	if defaultTax.IsZero() {
		defaultTax = uc.cfg.DefaultTaxRate
	}
	return defaultTax
}
