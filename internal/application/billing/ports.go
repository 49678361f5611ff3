package billing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vetorya/clinica-api/internal/domain/entity"
	"github.com/vetorya/clinica-api/internal/domain/repository"
)

// BillingTxRunner ejecuta una función dentro de una transacción que incluye los
// repos de facturación e inventario. Es la unidad de trabajo del motor: cabecera,
// líneas, movimientos y cantidades se confirman o revierten juntos.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		invoiceRepo repository.InvoiceRepository,
	) error) error
}

// StockLedgerPort integra el motor de facturas con el ledger de stock.
// Ambos métodos usan los repositorios del caller (misma transacción); si
// devuelven error (ej. stock insuficiente) el caller hace rollback completo.
type StockLedgerPort interface {
	OutInTx(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		clinicID, userID, productID string,
		quantity decimal.Decimal,
		invoiceID, reason string,
		now time.Time,
	) (*entity.StockMovement, error)
	InTx(
		productRepo repository.ProductRepository,
		movRepo repository.StockMovementRepository,
		clinicID, userID, productID string,
		quantity decimal.Decimal,
		invoiceID, reason string,
		now time.Time,
	) (*entity.StockMovement, error)
}

// NumberAllocator produce el siguiente número de factura de la clínica para el
// día en curso. Serializado frente a llamadas concurrentes.
type NumberAllocator interface {
	NextNumber(ctx context.Context, clinicID string) (string, error)
}
