package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vetorya/clinica-api/internal/domain/entity"
	"github.com/vetorya/clinica-api/internal/domain/repository"
)

var _ repository.AnimalRepository = (*AnimalRepo)(nil)

// AnimalRepo implementación del puerto AnimalRepository sobre PostgreSQL.
type AnimalRepo struct {
	q Querier
}

// NewAnimalRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAnimalRepository(q Querier) *AnimalRepo {
	return &AnimalRepo{q: q}
}

// Create persiste una mascota.
func (r *AnimalRepo) Create(animal *entity.Animal) error {
	query := `
		INSERT INTO animals (id, clinic_id, owner_id, name, species, breed, birth_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(context.Background(), query,
		animal.ID, animal.ClinicID, animal.OwnerID, animal.Name, animal.Species,
		animal.Breed, animal.BirthDate, animal.CreatedAt, animal.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert animal: %w", err)
	}
	return nil
}

// GetByID obtiene una mascota por ID.
func (r *AnimalRepo) GetByID(id string) (*entity.Animal, error) {
	query := `
		SELECT id, clinic_id, owner_id, name, species, breed, birth_date, created_at, updated_at
		FROM animals WHERE id = $1`
	var a entity.Animal
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&a.ID, &a.ClinicID, &a.OwnerID, &a.Name, &a.Species, &a.Breed, &a.BirthDate, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get animal: %w", err)
	}
	return &a, nil
}

// ListByOwner lista las mascotas de un propietario.
func (r *AnimalRepo) ListByOwner(ownerID string) ([]*entity.Animal, error) {
	query := `
		SELECT id, clinic_id, owner_id, name, species, breed, birth_date, created_at, updated_at
		FROM animals WHERE owner_id = $1 ORDER BY name ASC`
	rows, err := r.q.Query(context.Background(), query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list animals: %w", err)
	}
	defer rows.Close()

	var animals []*entity.Animal
	for rows.Next() {
		var a entity.Animal
		if err := rows.Scan(
			&a.ID, &a.ClinicID, &a.OwnerID, &a.Name, &a.Species, &a.Breed, &a.BirthDate, &a.CreatedAt, &a.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan animal: %w", err)
		}
		animals = append(animals, &a)
	}
	return animals, rows.Err()
}
