package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ApplyMovementRequest body para POST /api/stock/movements.
// Para in/out la cantidad es positiva; para adjust es el nuevo valor absoluto (>= 0).
type ApplyMovementRequest struct {
	ProductID     string          `json:"product_id"`
	Type          string          `json:"type"` // in | out | adjust
	Quantity      decimal.Decimal `json:"quantity"`
	Reason        string          `json:"reason"`
	AppointmentID string          `json:"appointment_id,omitempty"`
}

// MovementResponse movimiento en las respuestas.
type MovementResponse struct {
	ID            string          `json:"id"`
	ProductID     string          `json:"product_id"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	Reason        string          `json:"reason,omitempty"`
	InvoiceID     string          `json:"invoice_id,omitempty"`
	AppointmentID string          `json:"appointment_id,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	CreatedBy     string          `json:"created_by,omitempty"`
}

// ApplyMovementResponse resultado de aplicar un movimiento.
type ApplyMovementResponse struct {
	NewQuantity decimal.Decimal  `json:"new_quantity"`
	Movement    MovementResponse `json:"movement"`
}
