package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetorya/clinica-api/internal/application/dto"
	"github.com/vetorya/clinica-api/internal/domain"
	"github.com/vetorya/clinica-api/internal/domain/authz"
	"github.com/vetorya/clinica-api/internal/domain/entity"
	"github.com/vetorya/clinica-api/internal/domain/repository"
	"github.com/vetorya/clinica-api/pkg/logger"
)

// StockLedger aplica movimientos de stock (in, out, adjust) sobre un producto.
// Es el punto más estrecho donde se hace cumplir el invariante de stock nunca
// negativo: toda resta de cantidad del sistema pasa por aquí.
type StockLedger struct {
	txRunner    TxRunner
	productRepo repository.ProductRepository
	movRepo     repository.StockMovementRepository
	log         *logger.Logger
}

// NewStockLedger construye el ledger. movRepo se usa solo para lecturas fuera
// de transacción; las escrituras siempre van con los repos de la tx.
func NewStockLedger(txRunner TxRunner, productRepo repository.ProductRepository, movRepo repository.StockMovementRepository, log *logger.Logger) *StockLedger {
	return &StockLedger{txRunner: txRunner, productRepo: productRepo, movRepo: movRepo, log: log}
}

// ListMovements devuelve el historial de movimientos de la clínica (lectura).
func (l *StockLedger) ListMovements(ctx context.Context, clinicID string, roles []authz.Role, from, to *time.Time, limit, offset int) ([]dto.MovementResponse, error) {
	if !authz.Authorize(roles, authz.ResourceStock, authz.ActionRead) {
		return nil, domain.ErrForbidden
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	movs, err := l.movRepo.ListByClinic(clinicID, from, to, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

// ApplyMovement valida, autoriza y aplica un movimiento en su propia transacción.
// Para in/out la cantidad debe ser > 0; para adjust es el objetivo absoluto (>= 0).
// Devuelve la cantidad resultante y el movimiento persistido.
func (l *StockLedger) ApplyMovement(ctx context.Context, clinicID, userID string, roles []authz.Role, in dto.ApplyMovementRequest) (*dto.ApplyMovementResponse, error) {
	// Pre-chequeo de permisos: una denegación garantiza que no se abre transacción.
	if !authz.Authorize(roles, authz.ResourceStock, authz.ActionCreate) {
		return nil, domain.ErrForbidden
	}
	if err := validateMovement(in.Type, in.Quantity); err != nil {
		return nil, err
	}

	// Validar que el producto exista y sea de la clínica (solo lectura, fuera de la tx)
	product, err := l.productRepo.GetByID(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.ClinicID != clinicID {
		return nil, domain.ErrNotFound // aislamiento de tenant: fuera de la clínica = no existe
	}

	var appointmentID *string
	if in.AppointmentID != "" {
		appointmentID = &in.AppointmentID
	}

	var newQty decimal.Decimal
	var mov *entity.StockMovement
	err = l.txRunner.Run(ctx, func(productRepo repository.ProductRepository, movRepo repository.StockMovementRepository) error {
		newQty, mov, err = l.applyInTx(productRepo, movRepo, movementParams{
			ClinicID:      clinicID,
			ProductID:     in.ProductID,
			Type:          in.Type,
			Quantity:      in.Quantity,
			Reason:        in.Reason,
			AppointmentID: appointmentID,
			CreatedBy:     userID,
			Now:           time.Now(),
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return &dto.ApplyMovementResponse{
		NewQuantity: newQty,
		Movement:    toMovementResponse(mov),
	}, nil
}

// OutInTx aplica una salida usando los repositorios del caller (misma transacción).
// Lo invoca el motor de facturas por cada línea de producto; si devuelve error
// (ej. stock insuficiente), el caller hace rollback de la factura completa.
func (l *StockLedger) OutInTx(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	clinicID, userID, productID string,
	quantity decimal.Decimal,
	invoiceID, reason string,
	now time.Time,
) (*entity.StockMovement, error) {
	_, mov, err := l.applyInTx(productRepo, movRepo, movementParams{
		ClinicID:  clinicID,
		ProductID: productID,
		Type:      entity.MovementTypeOut,
		Quantity:  quantity,
		Reason:    reason,
		InvoiceID: &invoiceID,
		CreatedBy: userID,
		Now:       now,
	})
	return mov, err
}

// InTx aplica una entrada en la transacción del caller. Lo usa el motor de
// facturas para reponer stock al reemplazar líneas de una factura.
func (l *StockLedger) InTx(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	clinicID, userID, productID string,
	quantity decimal.Decimal,
	invoiceID, reason string,
	now time.Time,
) (*entity.StockMovement, error) {
	_, mov, err := l.applyInTx(productRepo, movRepo, movementParams{
		ClinicID:  clinicID,
		ProductID: productID,
		Type:      entity.MovementTypeIn,
		Quantity:  quantity,
		Reason:    reason,
		InvoiceID: &invoiceID,
		CreatedBy: userID,
		Now:       now,
	})
	return mov, err
}

type movementParams struct {
	ClinicID      string
	ProductID     string
	Type          string
	Quantity      decimal.Decimal
	Reason        string
	InvoiceID     *string
	AppointmentID *string
	CreatedBy     string
	Now           time.Time
}

// applyInTx bloquea la fila del producto (SELECT FOR UPDATE), calcula la nueva
// cantidad según el tipo y persiste cantidad + movimiento con los repos de la tx.
func (l *StockLedger) applyInTx(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	p movementParams,
) (decimal.Decimal, *entity.StockMovement, error) {
	if err := validateMovement(p.Type, p.Quantity); err != nil {
		return decimal.Zero, nil, err
	}

	product, err := productRepo.GetForUpdate(p.ProductID)
	if err != nil {
		return decimal.Zero, nil, err
	}
	if product == nil {
		return decimal.Zero, nil, domain.ErrNotFound
	}

	var newQty decimal.Decimal
	switch p.Type {
	case entity.MovementTypeIn:
		newQty = product.StockQty.Add(p.Quantity)
	case entity.MovementTypeOut:
		if product.StockQty.LessThan(p.Quantity) {
			return decimal.Zero, nil, &domain.InsufficientStockError{
				ProductID: p.ProductID,
				Available: product.StockQty,
				Requested: p.Quantity,
			}
		}
		newQty = product.StockQty.Sub(p.Quantity)
	case entity.MovementTypeAdjust:
		newQty = p.Quantity
	}

	if err := productRepo.UpdateStock(p.ProductID, newQty); err != nil {
		return decimal.Zero, nil, err
	}
	mov := &entity.StockMovement{
		ID:            uuid.New().String(),
		ClinicID:      p.ClinicID,
		ProductID:     p.ProductID,
		Type:          p.Type,
		Quantity:      p.Quantity,
		Reason:        p.Reason,
		InvoiceID:     p.InvoiceID,
		AppointmentID: p.AppointmentID,
		CreatedAt:     p.Now,
		CreatedBy:     p.CreatedBy,
	}
	if err := movRepo.Create(mov); err != nil {
		return decimal.Zero, nil, err
	}

	if p.Type != entity.MovementTypeIn && newQty.LessThanOrEqual(product.LowStockThreshold) {
		l.log.Warn().
			Str("product_id", product.ID).
			Str("sku", product.SKU).
			Str("stock_qty", newQty.String()).
			Str("threshold", product.LowStockThreshold.String()).
			Msg("producto en o bajo el umbral de reposición")
	}

	return newQty, mov, nil
}

// validateMovement valida tipo y cantidad: in/out exigen cantidad positiva,
// adjust admite cero o más (objetivo absoluto).
func validateMovement(movType string, qty decimal.Decimal) error {
	switch movType {
	case entity.MovementTypeIn, entity.MovementTypeOut:
		if !qty.GreaterThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	case entity.MovementTypeAdjust:
		if qty.LessThan(decimal.Zero) {
			return domain.ErrInvalidInput
		}
	default:
		return domain.ErrInvalidInput
	}
	return nil
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:        m.ID,
		ProductID: m.ProductID,
		Type:      m.Type,
		Quantity:  m.Quantity,
		Reason:    m.Reason,
		CreatedAt: m.CreatedAt,
		CreatedBy: m.CreatedBy,
	}
	if m.InvoiceID != nil {
		resp.InvoiceID = *m.InvoiceID
	}
	if m.AppointmentID != nil {
		resp.AppointmentID = *m.AppointmentID
	}
	return resp
}
