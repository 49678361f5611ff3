package repository

import "github.com/vetorya/clinica-api/internal/domain/entity"

// InvoiceRepository define el puerto de persistencia para Invoice y sus líneas.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	CreateItem(item *entity.InvoiceItem) error
	// UpdateHeader actualiza los campos simples y los totales derivados de la cabecera.
	UpdateHeader(invoice *entity.Invoice) error
	GetByID(id string) (*entity.Invoice, error)
	GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error)
	// DeleteItemsByInvoiceID elimina todas las líneas: el reemplazo de ítems es
	// siempre en bloque, nunca línea a línea.
	DeleteItemsByInvoiceID(invoiceID string) error
	ListByClinic(clinicID string, limit, offset int) ([]*entity.Invoice, error)
}
