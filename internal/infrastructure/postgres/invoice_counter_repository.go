package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/vetorya/clinica-api/internal/domain"
	"github.com/vetorya/clinica-api/internal/domain/repository"
)

var _ repository.InvoiceCounterRepository = (*InvoiceCounterRepo)(nil)

// InvoiceCounterRepo contador de numeración sobre la tabla invoice_counters,
// con PK (clinic_id, day). El upsert incrementa y devuelve en una sola sentencia
// atómica: Postgres serializa los upserts concurrentes sobre la misma fila, así
// que dos llamadas nunca observan el mismo valor.
type InvoiceCounterRepo struct {
	q Querier
}

// NewInvoiceCounterRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceCounterRepository(q Querier) *InvoiceCounterRepo {
	return &InvoiceCounterRepo{q: q}
}

// Next incrementa y devuelve el contador de (clínica, día).
func (r *InvoiceCounterRepo) Next(ctx context.Context, clinicID, day string) (int64, error) {
	query := `
		INSERT INTO invoice_counters (clinic_id, day, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (clinic_id, day)
		DO UPDATE SET last_value = invoice_counters.last_value + 1
		RETURNING last_value`
	var seq int64
	err := r.q.QueryRow(ctx, query, clinicID, day).Scan(&seq)
	if err != nil {
		if isLockNotAvailable(err) || errors.Is(err, context.DeadlineExceeded) {
			return 0, domain.ErrConflict
		}
		return 0, fmt.Errorf("next invoice number: %w", err)
	}
	return seq, nil
}
