package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetorya/clinica-api/internal/application/dto"
	"github.com/vetorya/clinica-api/internal/domain"
	"github.com/vetorya/clinica-api/internal/domain/authz"
	"github.com/vetorya/clinica-api/internal/domain/entity"
	"github.com/vetorya/clinica-api/internal/domain/repository"
)

// CatalogUseCase agrupa el CRUD de servicios, propietarios, mascotas y citas.
// Son operaciones simples con el mismo patrón: autorizar, validar, persistir.
type CatalogUseCase struct {
	serviceRepo     repository.ServiceRepository
	ownerRepo       repository.OwnerRepository
	animalRepo      repository.AnimalRepository
	appointmentRepo repository.AppointmentRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(
	serviceRepo repository.ServiceRepository,
	ownerRepo repository.OwnerRepository,
	animalRepo repository.AnimalRepository,
	appointmentRepo repository.AppointmentRepository,
) *CatalogUseCase {
	return &CatalogUseCase{
		serviceRepo:     serviceRepo,
		ownerRepo:       ownerRepo,
		animalRepo:      animalRepo,
		appointmentRepo: appointmentRepo,
	}
}

// ───────────────────────────── Servicios ─────────────────────────────

// CreateService registra un servicio facturable.
func (uc *CatalogUseCase) CreateService(ctx context.Context, clinicID string, roles []authz.Role, in dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	if !authz.Authorize(roles, authz.ResourceServices, authz.ActionCreate) {
		return nil, domain.ErrForbidden
	}
	if in.Name == "" || in.Price.LessThan(decimal.Zero) || in.TaxRate.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	service := &entity.Service{
		ID:        uuid.New().String(),
		ClinicID:  clinicID,
		Name:      in.Name,
		Price:     in.Price,
		TaxRate:   in.TaxRate,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.serviceRepo.Create(service); err != nil {
		return nil, err
	}
	return toServiceResponse(service), nil
}

// ListServices lista los servicios de la clínica.
func (uc *CatalogUseCase) ListServices(ctx context.Context, clinicID string, roles []authz.Role, limit, offset int) ([]dto.ServiceResponse, error) {
	if !authz.Authorize(roles, authz.ResourceServices, authz.ActionRead) {
		return nil, domain.ErrForbidden
	}
	limit = clampLimit(limit)
	services, err := uc.serviceRepo.ListByClinic(clinicID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ServiceResponse, 0, len(services))
	for _, s := range services {
		out = append(out, *toServiceResponse(s))
	}
	return out, nil
}

// ──────────────────────────── Propietarios ────────────────────────────

// CreateOwner registra el propietario de una mascota.
func (uc *CatalogUseCase) CreateOwner(ctx context.Context, clinicID string, roles []authz.Role, in dto.CreateOwnerRequest) (*dto.OwnerResponse, error) {
	if !authz.Authorize(roles, authz.ResourceOwners, authz.ActionCreate) {
		return nil, domain.ErrForbidden
	}
	if in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	owner := &entity.Owner{
		ID:        uuid.New().String(),
		ClinicID:  clinicID,
		Name:      in.Name,
		TaxID:     in.TaxID,
		Email:     in.Email,
		Phone:     in.Phone,
		Address:   in.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.ownerRepo.Create(owner); err != nil {
		return nil, err
	}
	return toOwnerResponse(owner), nil
}

// GetOwner devuelve un propietario de la clínica.
func (uc *CatalogUseCase) GetOwner(ctx context.Context, clinicID string, roles []authz.Role, ownerID string) (*dto.OwnerResponse, error) {
	if !authz.Authorize(roles, authz.ResourceOwners, authz.ActionRead) {
		return nil, domain.ErrForbidden
	}
	owner, err := uc.ownerRepo.GetByID(ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil || owner.ClinicID != clinicID {
		return nil, domain.ErrNotFound
	}
	return toOwnerResponse(owner), nil
}

// ListOwners lista los propietarios de la clínica.
func (uc *CatalogUseCase) ListOwners(ctx context.Context, clinicID string, roles []authz.Role, limit, offset int) ([]dto.OwnerResponse, error) {
	if !authz.Authorize(roles, authz.ResourceOwners, authz.ActionRead) {
		return nil, domain.ErrForbidden
	}
	limit = clampLimit(limit)
	owners, err := uc.ownerRepo.ListByClinic(clinicID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.OwnerResponse, 0, len(owners))
	for _, o := range owners {
		out = append(out, *toOwnerResponse(o))
	}
	return out, nil
}

// ───────────────────────────── Mascotas ─────────────────────────────

// CreateAnimal registra una mascota asociada a un propietario de la clínica.
func (uc *CatalogUseCase) CreateAnimal(ctx context.Context, clinicID string, roles []authz.Role, in dto.CreateAnimalRequest) (*dto.AnimalResponse, error) {
	if !authz.Authorize(roles, authz.ResourceAnimals, authz.ActionCreate) {
		return nil, domain.ErrForbidden
	}
	if in.OwnerID == "" || in.Name == "" || in.Species == "" {
		return nil, domain.ErrInvalidInput
	}
	owner, err := uc.ownerRepo.GetByID(in.OwnerID)
	if err != nil {
		return nil, err
	}
	if owner == nil || owner.ClinicID != clinicID {
		return nil, domain.ErrNotFound
	}
	now := time.Now()
	animal := &entity.Animal{
		ID:        uuid.New().String(),
		ClinicID:  clinicID,
		OwnerID:   in.OwnerID,
		Name:      in.Name,
		Species:   in.Species,
		Breed:     in.Breed,
		BirthDate: in.BirthDate,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.animalRepo.Create(animal); err != nil {
		return nil, err
	}
	return toAnimalResponse(animal), nil
}

// ListAnimalsByOwner lista las mascotas de un propietario de la clínica.
func (uc *CatalogUseCase) ListAnimalsByOwner(ctx context.Context, clinicID string, roles []authz.Role, ownerID string) ([]dto.AnimalResponse, error) {
	if !authz.Authorize(roles, authz.ResourceAnimals, authz.ActionRead) {
		return nil, domain.ErrForbidden
	}
	owner, err := uc.ownerRepo.GetByID(ownerID)
	if err != nil {
		return nil, err
	}
	if owner == nil || owner.ClinicID != clinicID {
		return nil, domain.ErrNotFound
	}
	animals, err := uc.animalRepo.ListByOwner(ownerID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AnimalResponse, 0, len(animals))
	for _, a := range animals {
		out = append(out, *toAnimalResponse(a))
	}
	return out, nil
}

// ─────────────────────────────── Citas ───────────────────────────────

// CreateAppointment agenda una cita. Mascota y propietario deben pertenecer a
// la clínica y estar relacionados entre sí.
func (uc *CatalogUseCase) CreateAppointment(ctx context.Context, clinicID string, roles []authz.Role, in dto.CreateAppointmentRequest) (*dto.AppointmentResponse, error) {
	if !authz.Authorize(roles, authz.ResourceAppointments, authz.ActionCreate) {
		return nil, domain.ErrForbidden
	}
	if in.AnimalID == "" || in.OwnerID == "" || in.Date.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	animal, err := uc.animalRepo.GetByID(in.AnimalID)
	if err != nil {
		return nil, err
	}
	if animal == nil || animal.ClinicID != clinicID {
		return nil, domain.ErrNotFound
	}
	if animal.OwnerID != in.OwnerID {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now()
	appointment := &entity.Appointment{
		ID:        uuid.New().String(),
		ClinicID:  clinicID,
		AnimalID:  in.AnimalID,
		OwnerID:   in.OwnerID,
		VetID:     in.VetID,
		Date:      in.Date,
		Reason:    in.Reason,
		Status:    entity.AppointmentScheduled,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.appointmentRepo.Create(appointment); err != nil {
		return nil, err
	}
	return toAppointmentResponse(appointment), nil
}

// UpdateAppointmentStatus cambia el estado de una cita de la clínica.
func (uc *CatalogUseCase) UpdateAppointmentStatus(ctx context.Context, clinicID string, roles []authz.Role, appointmentID, status string) (*dto.AppointmentResponse, error) {
	if !authz.Authorize(roles, authz.ResourceAppointments, authz.ActionUpdate) {
		return nil, domain.ErrForbidden
	}
	switch status {
	case entity.AppointmentScheduled, entity.AppointmentCompleted, entity.AppointmentCancelled, entity.AppointmentNoShow:
	default:
		return nil, domain.ErrInvalidInput
	}
	appointment, err := uc.appointmentRepo.GetByID(appointmentID)
	if err != nil {
		return nil, err
	}
	if appointment == nil || appointment.ClinicID != clinicID {
		return nil, domain.ErrNotFound
	}
	appointment.Status = status
	appointment.UpdatedAt = time.Now()
	if err := uc.appointmentRepo.Update(appointment); err != nil {
		return nil, err
	}
	return toAppointmentResponse(appointment), nil
}

// ListAppointments lista las citas de la clínica.
func (uc *CatalogUseCase) ListAppointments(ctx context.Context, clinicID string, roles []authz.Role, limit, offset int) ([]dto.AppointmentResponse, error) {
	if !authz.Authorize(roles, authz.ResourceAppointments, authz.ActionRead) {
		return nil, domain.ErrForbidden
	}
	limit = clampLimit(limit)
	appointments, err := uc.appointmentRepo.ListByClinic(clinicID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		out = append(out, *toAppointmentResponse(a))
	}
	return out, nil
}

func clampLimit(limit int) int {
	if limit <= 0 || limit > 200 {
		return 50
	}
	return limit
}

func toServiceResponse(s *entity.Service) *dto.ServiceResponse {
	return &dto.ServiceResponse{ID: s.ID, Name: s.Name, Price: s.Price, TaxRate: s.TaxRate, Active: s.Active}
}

func toOwnerResponse(o *entity.Owner) *dto.OwnerResponse {
	return &dto.OwnerResponse{ID: o.ID, Name: o.Name, TaxID: o.TaxID, Email: o.Email, Phone: o.Phone, Address: o.Address}
}

func toAnimalResponse(a *entity.Animal) *dto.AnimalResponse {
	return &dto.AnimalResponse{ID: a.ID, OwnerID: a.OwnerID, Name: a.Name, Species: a.Species, Breed: a.Breed, BirthDate: a.BirthDate}
}

func toAppointmentResponse(a *entity.Appointment) *dto.AppointmentResponse {
	return &dto.AppointmentResponse{ID: a.ID, AnimalID: a.AnimalID, OwnerID: a.OwnerID, VetID: a.VetID, Date: a.Date, Reason: a.Reason, Status: a.Status}
}
