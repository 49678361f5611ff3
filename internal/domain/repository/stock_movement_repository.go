package repository

import (
	"time"

	"github.com/vetorya/clinica-api/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia para movimientos de stock.
// Los movimientos son append-only: no hay Update ni Delete.
type StockMovementRepository interface {
	Create(movement *entity.StockMovement) error
	GetByID(id string) (*entity.StockMovement, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
	ListByInvoice(invoiceID string) ([]*entity.StockMovement, error)
	ListByClinic(clinicID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error)
}
