package entity

import "time"

// Owner representa el propietario de una o más mascotas (cliente de facturación).
type Owner struct {
	ID        string
	ClinicID  string
	Name      string
	TaxID     string // NIF/Cédula para la factura
	Email     string
	Phone     string
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
