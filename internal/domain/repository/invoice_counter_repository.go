package repository

import "context"

// InvoiceCounterRepository define el puerto del contador de numeración de facturas.
// Next incrementa y devuelve atómicamente el contador de (clínica, día): dos
// llamadas concurrentes nunca observan el mismo valor. Contar filas existentes
// como mecanismo de numeración está prohibido (colisiona bajo concurrencia).
type InvoiceCounterRepository interface {
	Next(ctx context.Context, clinicID, day string) (int64, error)
}
