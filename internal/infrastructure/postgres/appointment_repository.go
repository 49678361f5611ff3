package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vetorya/clinica-api/internal/domain/entity"
	"github.com/vetorya/clinica-api/internal/domain/repository"
)

var _ repository.AppointmentRepository = (*AppointmentRepo)(nil)

const appointmentColumns = `id, clinic_id, animal_id, owner_id, vet_id, date, reason, status, notes, created_at, updated_at`

// AppointmentRepo implementación del puerto AppointmentRepository sobre PostgreSQL.
type AppointmentRepo struct {
	q Querier
}

// NewAppointmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAppointmentRepository(q Querier) *AppointmentRepo {
	return &AppointmentRepo{q: q}
}

// Create persiste una cita.
func (r *AppointmentRepo) Create(appointment *entity.Appointment) error {
	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err := r.q.Exec(context.Background(), query,
		appointment.ID, appointment.ClinicID, appointment.AnimalID, appointment.OwnerID,
		nullIfEmptyValue(appointment.VetID), appointment.Date, appointment.Reason,
		appointment.Status, appointment.Notes, appointment.CreatedAt, appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert appointment: %w", err)
	}
	return nil
}

// GetByID obtiene una cita por ID.
func (r *AppointmentRepo) GetByID(id string) (*entity.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`
	var a entity.Appointment
	var vetID *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&a.ID, &a.ClinicID, &a.AnimalID, &a.OwnerID, &vetID, &a.Date,
		&a.Reason, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if vetID != nil {
		a.VetID = *vetID
	}
	return &a, nil
}

// Update actualiza una cita.
func (r *AppointmentRepo) Update(appointment *entity.Appointment) error {
	query := `
		UPDATE appointments SET vet_id = $2, date = $3, reason = $4, status = $5, notes = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		appointment.ID, nullIfEmptyValue(appointment.VetID), appointment.Date,
		appointment.Reason, appointment.Status, appointment.Notes, appointment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update appointment: %w", err)
	}
	return nil
}

// ListByClinic lista citas por clínica con paginación.
func (r *AppointmentRepo) ListByClinic(clinicID string, limit, offset int) ([]*entity.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE clinic_id = $1 ORDER BY date DESC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, clinicID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	defer rows.Close()

	var appointments []*entity.Appointment
	for rows.Next() {
		var a entity.Appointment
		var vetID *string
		if err := rows.Scan(
			&a.ID, &a.ClinicID, &a.AnimalID, &a.OwnerID, &vetID, &a.Date,
			&a.Reason, &a.Status, &a.Notes, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		if vetID != nil {
			a.VetID = *vetID
		}
		appointments = append(appointments, &a)
	}
	return appointments, rows.Err()
}

// nullIfEmptyValue devuelve nil para "" en columnas NULLables de tipo string plano.
func nullIfEmptyValue(s string) any {
	if s == "" {
		return nil
	}
	return s
}
