package entity

import "time"

// User representa un colaborador de la clínica. Puede tener varios roles a la vez;
// se guardan como lista ordenada y el parseo a conjunto ocurre en el borde (authz.ParseRoles).
type User struct {
	ID           string
	ClinicID     string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	Roles        []string // owner, admin, vet, assistant, stock_manager
	Status       string   // active, inactive, suspended
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
