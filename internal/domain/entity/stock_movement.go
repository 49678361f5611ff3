package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento de stock.
const (
	MovementTypeIn     = "in"     // entrada: Quantity > 0, se suma
	MovementTypeOut    = "out"    // salida: Quantity > 0, se resta
	MovementTypeAdjust = "adjust" // ajuste: Quantity es el nuevo valor absoluto (>= 0)
)

// StockMovement representa un movimiento de stock. Es un hecho inmutable:
// se inserta y nunca se actualiza ni se borra (append-only).
type StockMovement struct {
	ID            string
	ClinicID      string
	ProductID     string
	Type          string          // in, out, adjust
	Quantity      decimal.Decimal // positivo para in/out; objetivo absoluto para adjust
	Reason        string
	InvoiceID     *string // referencia a la factura que originó la salida, si aplica
	AppointmentID *string
	CreatedAt     time.Time
	CreatedBy     string // UserID
}
