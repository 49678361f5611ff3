package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Clinic representa una clínica veterinaria (tenant). Todo recurso facturable
// pertenece a exactamente una clínica.
type Clinic struct {
	ID        string
	Name      string
	TaxID     string          // NIF/NIT de la clínica
	TaxRate   decimal.Decimal // tasa de impuesto por defecto de la clínica (ej. 0.20)
	Address   string
	Phone     string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
