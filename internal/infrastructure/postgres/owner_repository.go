package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vetorya/clinica-api/internal/domain/entity"
	"github.com/vetorya/clinica-api/internal/domain/repository"
)

var _ repository.OwnerRepository = (*OwnerRepo)(nil)

// OwnerRepo implementación del puerto OwnerRepository sobre PostgreSQL.
type OwnerRepo struct {
	q Querier
}

// NewOwnerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOwnerRepository(q Querier) *OwnerRepo {
	return &OwnerRepo{q: q}
}

// Create persiste un propietario.
func (r *OwnerRepo) Create(owner *entity.Owner) error {
	query := `
		INSERT INTO owners (id, clinic_id, name, tax_id, email, phone, address, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		owner.ID, owner.ClinicID, owner.Name, owner.TaxID, owner.Email,
		owner.Phone, owner.Address, owner.CreatedAt, owner.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert owner: %w", err)
	}
	return nil
}

// GetByID obtiene un propietario por ID.
func (r *OwnerRepo) GetByID(id string) (*entity.Owner, error) {
	query := `
		SELECT id, clinic_id, name, tax_id, email, phone, address, created_at, updated_at
		FROM owners WHERE id = $1`
	var o entity.Owner
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&o.ID, &o.ClinicID, &o.Name, &o.TaxID, &o.Email, &o.Phone, &o.Address, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get owner: %w", err)
	}
	return &o, nil
}

// Update actualiza un propietario.
func (r *OwnerRepo) Update(owner *entity.Owner) error {
	query := `
		UPDATE owners SET name = $2, tax_id = $3, email = $4, phone = $5, address = $6, updated_at = $7
		WHERE id = $1`
	_, err := r.q.Exec(context.Background(), query,
		owner.ID, owner.Name, owner.TaxID, owner.Email, owner.Phone, owner.Address, owner.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update owner: %w", err)
	}
	return nil
}

// ListByClinic lista propietarios por clínica con paginación.
func (r *OwnerRepo) ListByClinic(clinicID string, limit, offset int) ([]*entity.Owner, error) {
	query := `
		SELECT id, clinic_id, name, tax_id, email, phone, address, created_at, updated_at
		FROM owners WHERE clinic_id = $1 ORDER BY name ASC LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(context.Background(), query, clinicID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list owners: %w", err)
	}
	defer rows.Close()

	var owners []*entity.Owner
	for rows.Next() {
		var o entity.Owner
		if err := rows.Scan(
			&o.ID, &o.ClinicID, &o.Name, &o.TaxID, &o.Email, &o.Phone, &o.Address, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan owner: %w", err)
		}
		owners = append(owners, &o)
	}
	return owners, rows.Err()
}
