package dto

import "time"

// CreateOwnerRequest body para POST /api/owners.
type CreateOwnerRequest struct {
	Name    string `json:"name"`
	TaxID   string `json:"tax_id,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// OwnerResponse propietario en respuestas.
type OwnerResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	TaxID   string `json:"tax_id,omitempty"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`
}

// CreateAnimalRequest body para POST /api/animals.
type CreateAnimalRequest struct {
	OwnerID   string     `json:"owner_id"`
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	Breed     string     `json:"breed,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

// AnimalResponse mascota en respuestas.
type AnimalResponse struct {
	ID        string     `json:"id"`
	OwnerID   string     `json:"owner_id"`
	Name      string     `json:"name"`
	Species   string     `json:"species"`
	Breed     string     `json:"breed,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
}

// CreateAppointmentRequest body para POST /api/appointments.
type CreateAppointmentRequest struct {
	AnimalID string    `json:"animal_id"`
	OwnerID  string    `json:"owner_id"`
	VetID    string    `json:"vet_id,omitempty"`
	Date     time.Time `json:"date"`
	Reason   string    `json:"reason,omitempty"`
}

// AppointmentResponse cita en respuestas.
type AppointmentResponse struct {
	ID       string    `json:"id"`
	AnimalID string    `json:"animal_id"`
	OwnerID  string    `json:"owner_id"`
	VetID    string    `json:"vet_id,omitempty"`
	Date     time.Time `json:"date"`
	Reason   string    `json:"reason,omitempty"`
	Status   string    `json:"status"`
}
