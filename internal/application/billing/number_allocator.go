package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/vetorya/clinica-api/internal/domain/repository"
)

// InvoiceNumberAllocator asigna números de factura secuenciales por
// (clínica, día calendario UTC): <prefijo>-<AAAAMMDD>-<secuencia con ceros>.
// La secuencia se reinicia a medianoche UTC.
//
// El incremento del contador es una sentencia atómica con su propia
// serialización (lock de fila del contador), independiente del locking de la
// transacción de facturación. Si la factura que recibió el número termina en
// rollback, el número queda como hueco documentado en la secuencia: los huecos
// son auditables, la reutilización no.
type InvoiceNumberAllocator struct {
	counters repository.InvoiceCounterRepository
	prefix   string
	now      func() time.Time
}

// NewInvoiceNumberAllocator construye el asignador con el prefijo configurado.
func NewInvoiceNumberAllocator(counters repository.InvoiceCounterRepository, prefix string) *InvoiceNumberAllocator {
	if prefix == "" {
		prefix = "FAC"
	}
	return &InvoiceNumberAllocator{counters: counters, prefix: prefix, now: time.Now}
}

// NextNumber incrementa y devuelve el siguiente número para la clínica.
// Contención sobre el contador llega como domain.ErrConflict (reintentable
// repitiendo la creación de la factura completa).
func (a *InvoiceNumberAllocator) NextNumber(ctx context.Context, clinicID string) (string, error) {
	day := a.now().UTC().Format("20060102")
	seq, err := a.counters.Next(ctx, clinicID, day)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%04d", a.prefix, day, seq), nil
}
