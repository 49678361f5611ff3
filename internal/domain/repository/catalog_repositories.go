package repository

import "github.com/vetorya/clinica-api/internal/domain/entity"

// ServiceRepository puerto de persistencia para servicios facturables.
type ServiceRepository interface {
	Create(service *entity.Service) error
	GetByID(id string) (*entity.Service, error)
	Update(service *entity.Service) error
	ListByClinic(clinicID string, limit, offset int) ([]*entity.Service, error)
}

// OwnerRepository puerto de persistencia para propietarios (clientes).
type OwnerRepository interface {
	Create(owner *entity.Owner) error
	GetByID(id string) (*entity.Owner, error)
	Update(owner *entity.Owner) error
	ListByClinic(clinicID string, limit, offset int) ([]*entity.Owner, error)
}

// AnimalRepository puerto de persistencia para mascotas.
type AnimalRepository interface {
	Create(animal *entity.Animal) error
	GetByID(id string) (*entity.Animal, error)
	ListByOwner(ownerID string) ([]*entity.Animal, error)
}

// AppointmentRepository puerto de persistencia para citas. El motor de facturas
// lo usa como lector de contexto (propietario y clínica de la cita).
type AppointmentRepository interface {
	Create(appointment *entity.Appointment) error
	GetByID(id string) (*entity.Appointment, error)
	Update(appointment *entity.Appointment) error
	ListByClinic(clinicID string, limit, offset int) ([]*entity.Appointment, error)
}

// ClinicRepository puerto de persistencia para clínicas (tenants).
type ClinicRepository interface {
	Create(clinic *entity.Clinic) error
	GetByID(id string) (*entity.Clinic, error)
	List(limit, offset int) ([]*entity.Clinic, error)
}

// UserRepository puerto de persistencia para usuarios.
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
	GetByEmailAndClinic(email, clinicID string) (*entity.User, error)
}
