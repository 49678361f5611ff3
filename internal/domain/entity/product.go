package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto vendible con stock (medicamento, alimento, etc.).
// StockQty solo se modifica a través del ledger de movimientos (StockMovement);
// las ediciones administrativas tocan precio y metadatos, nunca la cantidad.
type Product struct {
	ID                string
	ClinicID          string
	SKU               string // código único por clínica
	Name              string
	Unit              string          // unidad de venta: unidad, ml, kg, dosis...
	StockQty          decimal.Decimal // invariante: nunca negativo
	LowStockThreshold decimal.Decimal
	Price             decimal.Decimal // precio de venta unitario
	TaxRate           decimal.Decimal // tasa de impuesto de la línea (ej. 0.20)
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// BelowThreshold indica si el stock está en o por debajo del umbral de reposición.
func (p *Product) BelowThreshold() bool {
	return p.StockQty.LessThanOrEqual(p.LowStockThreshold)
}
