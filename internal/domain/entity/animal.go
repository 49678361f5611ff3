package entity

import "time"

// Animal representa una mascota atendida por la clínica.
type Animal struct {
	ID        string
	ClinicID  string
	OwnerID   string
	Name      string
	Species   string // perro, gato, ave...
	Breed     string
	BirthDate *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}
