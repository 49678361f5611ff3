package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceItemRequest línea de factura en la petición. Para type=product,
// product_id es obligatorio y la línea descuenta stock; para type=service no.
// Si unit_price o tax_rate van en cero se toman del catálogo.
type InvoiceItemRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	ItemType    string          `json:"item_type"` // product | service
	ProductID   string          `json:"product_id,omitempty"`
	ServiceID   string          `json:"service_id,omitempty"`
}

// CreateInvoiceRequest body para POST /api/invoices. El propietario y la clínica
// se resuelven a través de la cita.
type CreateInvoiceRequest struct {
	AppointmentID string               `json:"appointment_id"`
	DueDate       *time.Time           `json:"due_date,omitempty"`
	Notes         string               `json:"notes,omitempty"`
	Items         []InvoiceItemRequest `json:"items"`
}

// UpdateInvoiceRequest body para PUT /api/invoices/:id. Campos nil no se tocan.
// Items no-nil reemplaza el conjunto completo de líneas y recalcula totales.
type UpdateInvoiceRequest struct {
	PaymentStatus *string               `json:"payment_status,omitempty"`
	PaymentMethod *string               `json:"payment_method,omitempty"`
	PaidAt        *time.Time            `json:"paid_at,omitempty"`
	DueDate       *time.Time            `json:"due_date,omitempty"`
	Notes         *string               `json:"notes,omitempty"`
	Items         *[]InvoiceItemRequest `json:"items,omitempty"`
}

// InvoiceItemResponse línea en las respuestas.
type InvoiceItemResponse struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
	TaxRate     decimal.Decimal `json:"tax_rate"`
	ItemType    string          `json:"item_type"`
	ProductID   string          `json:"product_id,omitempty"`
	ServiceID   string          `json:"service_id,omitempty"`
}

// InvoiceResponse factura con detalle.
type InvoiceResponse struct {
	ID            string                `json:"id"`
	ClinicID      string                `json:"clinic_id"`
	OwnerID       string                `json:"owner_id"`
	OwnerName     string                `json:"owner_name,omitempty"`
	AppointmentID string                `json:"appointment_id"`
	Number        string                `json:"number"`
	Date          string                `json:"date"`
	DueDate       string                `json:"due_date"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TaxAmount     decimal.Decimal       `json:"tax_amount"`
	TotalAmount   decimal.Decimal       `json:"total_amount"`
	PaymentStatus string                `json:"payment_status"`
	PaymentMethod string                `json:"payment_method,omitempty"`
	PaidAt        *time.Time            `json:"paid_at,omitempty"`
	Notes         string                `json:"notes,omitempty"`
	Items         []InvoiceItemResponse `json:"items"`
	Movements     []MovementResponse    `json:"movements,omitempty"`
}
