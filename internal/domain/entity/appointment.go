package entity

import "time"

// Estados de una cita.
const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
	AppointmentNoShow    = "no_show"
)

// Appointment representa una cita veterinaria. Es el contexto desde el que se
// factura: la factura resuelve propietario y clínica a través de la cita.
type Appointment struct {
	ID        string
	ClinicID  string
	AnimalID  string
	OwnerID   string
	VetID     string // usuario con rol vet que atiende
	Date      time.Time
	Reason    string
	Status    string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}
