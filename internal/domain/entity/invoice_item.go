package entity

import "github.com/shopspring/decimal"

// Tipos de línea de factura.
const (
	ItemTypeProduct = "product" // consume stock
	ItemTypeService = "service" // no consume stock
)

// InvoiceItem representa una línea de factura. Las líneas se reemplazan en bloque
// al actualizar la factura, nunca se parchean individualmente.
type InvoiceItem struct {
	ID          string
	InvoiceID   string
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal // = Quantity × UnitPrice
	TaxRate     decimal.Decimal
	ItemType    string  // product, service
	ProductID   *string // obligatorio si ItemType == product
	ServiceID   *string
}
