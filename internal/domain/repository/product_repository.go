package repository

import (
	"github.com/shopspring/decimal"
	"github.com/vetorya/clinica-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
// UpdateStock es la ÚNICA escritura de cantidad; solo el ledger la invoca,
// siempre dentro de una transacción con la fila bloqueada (GetForUpdate).
type ProductRepository interface {
	Create(product *entity.Product) error
	GetByID(id string) (*entity.Product, error)
	GetByClinicAndSKU(clinicID, sku string) (*entity.Product, error)
	// GetForUpdate bloquea la fila del producto (SELECT FOR UPDATE) antes de
	// calcular la nueva cantidad.
	GetForUpdate(id string) (*entity.Product, error)
	Update(product *entity.Product) error
	UpdateStock(productID string, qty decimal.Decimal) error
	ListByClinic(clinicID string, limit, offset int) ([]*entity.Product, error)
	// ListBelowThreshold lista productos con stock en o bajo su umbral de reposición.
	ListBelowThreshold(clinicID string) ([]*entity.Product, error)
}
