package dto

import "github.com/shopspring/decimal"

// CreateProductRequest body para POST /api/products. El stock inicial entra como
// movimiento "in" a través del ledger, nunca como escritura directa de cantidad.
type CreateProductRequest struct {
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Unit              string          `json:"unit"`
	InitialStock      decimal.Decimal `json:"initial_stock"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	Price             decimal.Decimal `json:"price"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
}

// UpdateProductRequest body para PUT /api/products/:id. Edición administrativa:
// precio y metadatos; la cantidad solo cambia vía movimientos.
type UpdateProductRequest struct {
	Name              *string          `json:"name,omitempty"`
	Unit              *string          `json:"unit,omitempty"`
	LowStockThreshold *decimal.Decimal `json:"low_stock_threshold,omitempty"`
	Price             *decimal.Decimal `json:"price,omitempty"`
	TaxRate           *decimal.Decimal `json:"tax_rate,omitempty"`
	Active            *bool            `json:"active,omitempty"`
}

// ProductResponse producto en las respuestas.
type ProductResponse struct {
	ID                string          `json:"id"`
	ClinicID          string          `json:"clinic_id"`
	SKU               string          `json:"sku"`
	Name              string          `json:"name"`
	Unit              string          `json:"unit"`
	StockQty          decimal.Decimal `json:"stock_qty"`
	LowStockThreshold decimal.Decimal `json:"low_stock_threshold"`
	Price             decimal.Decimal `json:"price"`
	TaxRate           decimal.Decimal `json:"tax_rate"`
	Active            bool            `json:"active"`
}

// CreateServiceRequest body para POST /api/services.
type CreateServiceRequest struct {
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	TaxRate decimal.Decimal `json:"tax_rate"`
}

// ServiceResponse servicio en las respuestas.
type ServiceResponse struct {
	ID      string          `json:"id"`
	Name    string          `json:"name"`
	Price   decimal.Decimal `json:"price"`
	TaxRate decimal.Decimal `json:"tax_rate"`
	Active  bool            `json:"active"`
}
