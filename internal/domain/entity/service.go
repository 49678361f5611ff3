package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Service representa un servicio facturable de la clínica (consulta, cirugía,
// vacunación...). No consume stock.
type Service struct {
	ID        string
	ClinicID  string
	Name      string
	Price     decimal.Decimal
	TaxRate   decimal.Decimal
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
