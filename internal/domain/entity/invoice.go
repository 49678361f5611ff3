package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de pago de una factura.
const (
	PaymentStatusPending   = "pending"
	PaymentStatusPaid      = "paid"
	PaymentStatusOverdue   = "overdue"
	PaymentStatusCancelled = "cancelled"
)

// ValidPaymentStatus verifica que el estado pertenezca al vocabulario cerrado.
func ValidPaymentStatus(s string) bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusOverdue, PaymentStatusCancelled:
		return true
	}
	return false
}

// Invoice representa la cabecera de una factura. Subtotal, TaxAmount y TotalAmount
// son derivados de las líneas (TotalAmount == Subtotal + TaxAmount); nunca se editan
// a mano de forma independiente.
type Invoice struct {
	ID            string
	ClinicID      string
	OwnerID       string
	AppointmentID string
	Number        string // único por clínica, secuencial por día calendario UTC
	Date          time.Time
	DueDate       time.Time
	Subtotal      decimal.Decimal
	TaxAmount     decimal.Decimal
	TotalAmount   decimal.Decimal
	PaymentStatus string
	PaymentMethod string // efectivo, tarjeta, transferencia... (opcional)
	PaidAt        *time.Time
	Notes         string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
