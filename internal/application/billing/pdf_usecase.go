package billing

import (
	"context"
	"fmt"

	"github.com/vetorya/clinica-api/internal/domain"
	"github.com/vetorya/clinica-api/internal/domain/authz"
	"github.com/vetorya/clinica-api/internal/domain/entity"
	"github.com/vetorya/clinica-api/internal/domain/repository"
)

// InvoicePDFGenerator genera la representación gráfica (PDF) de una factura.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(ctx context.Context, invoice *entity.Invoice, clinic *entity.Clinic, owner *entity.Owner, items []*entity.InvoiceItem) ([]byte, error)
}

// PDFUseCase genera el PDF de una factura. Siempre fuera de cualquier
// transacción: la generación es I/O puro sobre datos ya confirmados.
type PDFUseCase struct {
	invoiceRepo repository.InvoiceRepository
	clinicRepo  repository.ClinicRepository
	ownerRepo   repository.OwnerRepository
	generator   InvoicePDFGenerator
}

// NewPDFUseCase construye el caso de uso.
func NewPDFUseCase(
	invoiceRepo repository.InvoiceRepository,
	clinicRepo repository.ClinicRepository,
	ownerRepo repository.OwnerRepository,
	generator InvoicePDFGenerator,
) *PDFUseCase {
	return &PDFUseCase{
		invoiceRepo: invoiceRepo,
		clinicRepo:  clinicRepo,
		ownerRepo:   ownerRepo,
		generator:   generator,
	}
}

// DownloadInvoicePDF carga la factura con su contexto y genera el PDF.
// Retorna (bytes, nombre de archivo, error).
func (uc *PDFUseCase) DownloadInvoicePDF(ctx context.Context, clinicID string, roles []authz.Role, invoiceID string) ([]byte, string, error) {
	if !authz.Authorize(roles, authz.ResourceInvoices, authz.ActionRead) {
		return nil, "", domain.ErrForbidden
	}

	inv, err := uc.invoiceRepo.GetByID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener factura: %w", err)
	}
	if inv == nil || inv.ClinicID != clinicID {
		return nil, "", domain.ErrNotFound
	}

	clinic, err := uc.clinicRepo.GetByID(clinicID)
	if err != nil || clinic == nil {
		return nil, "", fmt.Errorf("pdf: obtener clínica: %w", err)
	}
	owner, err := uc.ownerRepo.GetByID(inv.OwnerID)
	if err != nil || owner == nil {
		return nil, "", fmt.Errorf("pdf: obtener propietario: %w", err)
	}
	items, err := uc.invoiceRepo.GetItemsByInvoiceID(invoiceID)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: obtener líneas: %w", err)
	}

	pdfBytes, err := uc.generator.GenerateInvoicePDF(ctx, inv, clinic, owner, items)
	if err != nil {
		return nil, "", err
	}
	filename := fmt.Sprintf("factura_%s.pdf", inv.Number)
	return pdfBytes, filename, nil
}
