package billing

import (
	"github.com/shopspring/decimal"
	"github.com/vetorya/clinica-api/internal/application/dto"
	"github.com/vetorya/clinica-api/internal/domain"
	"github.com/vetorya/clinica-api/internal/domain/entity"
	"github.com/vetorya/clinica-api/internal/domain/repository"
)

// itemResolver valida y completa líneas de factura contra el catálogo:
// precios y tasas en cero se toman del producto/servicio referenciado, y en
// último término de la tasa por defecto de la clínica.
type itemResolver struct {
	productRepo repository.ProductRepository
	serviceRepo repository.ServiceRepository
	defaultTax  decimal.Decimal
}

// resolve valida el conjunto de líneas (solo lecturas, fuera de la transacción)
// y devuelve las entidades listas para persistir, sin ID ni InvoiceID todavía.
func (r itemResolver) resolve(clinicID string, items []dto.InvoiceItemRequest) ([]*entity.InvoiceItem, error) {
	if len(items) == 0 {
		return nil, domain.ErrInvalidInput
	}
	resolved := make([]*entity.InvoiceItem, 0, len(items))
	for i := range items {
		in := items[i]
		if !in.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		if in.UnitPrice.LessThan(decimal.Zero) || in.TaxRate.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}

		item := &entity.InvoiceItem{
			Description: in.Description,
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			TaxRate:     normalizeRate(in.TaxRate),
			ItemType:    in.ItemType,
		}

		switch in.ItemType {
		case entity.ItemTypeProduct:
			// Las líneas de producto siempre referencian un producto: son las que descuentan stock.
			if in.ProductID == "" {
				return nil, domain.ErrInvalidInput
			}
			product, err := r.productRepo.GetByID(in.ProductID)
			if err != nil {
				return nil, err
			}
			if product == nil || product.ClinicID != clinicID {
				return nil, domain.ErrNotFound
			}
			if !product.Active {
				return nil, domain.ErrInvalidInput
			}
			pid := product.ID
			item.ProductID = &pid
			if item.Description == "" {
				item.Description = product.Name
			}
			if item.UnitPrice.IsZero() {
				item.UnitPrice = product.Price
			}
			if item.TaxRate.IsZero() {
				item.TaxRate = normalizeRate(product.TaxRate)
			}
		case entity.ItemTypeService:
			if in.ServiceID != "" {
				svc, err := r.serviceRepo.GetByID(in.ServiceID)
				if err != nil {
					return nil, err
				}
				if svc == nil || svc.ClinicID != clinicID {
					return nil, domain.ErrNotFound
				}
				sid := svc.ID
				item.ServiceID = &sid
				if item.Description == "" {
					item.Description = svc.Name
				}
				if item.UnitPrice.IsZero() {
					item.UnitPrice = svc.Price
				}
				if item.TaxRate.IsZero() {
					item.TaxRate = normalizeRate(svc.TaxRate)
				}
			}
		default:
			return nil, domain.ErrInvalidInput
		}

		// Línea libre de servicio: exige precio explícito y descripción.
		if item.UnitPrice.LessThanOrEqual(decimal.Zero) || item.Description == "" {
			return nil, domain.ErrInvalidInput
		}
		if item.TaxRate.IsZero() {
			item.TaxRate = r.defaultTax
		}
		item.TotalPrice = item.Quantity.Mul(item.UnitPrice)
		resolved = append(resolved, item)
	}
	return resolved, nil
}

// computeTotals deriva subtotal, impuesto y total desde las líneas.
// Invariantes: subtotal == Σ total_price; total == subtotal + impuesto.
func computeTotals(items []*entity.InvoiceItem) (subtotal, tax, total decimal.Decimal) {
	for _, it := range items {
		subtotal = subtotal.Add(it.TotalPrice)
		tax = tax.Add(it.TotalPrice.Mul(it.TaxRate))
	}
	tax = tax.Round(2)
	total = subtotal.Add(tax)
	return subtotal, tax, total
}

// normalizeRate admite tasas como fracción (0.20) o porcentaje (20).
func normalizeRate(rate decimal.Decimal) decimal.Decimal {
	if rate.GreaterThan(decimal.NewFromInt(1)) {
		return rate.Div(decimal.NewFromInt(100))
	}
	return rate
}

// productQuantities agrega cantidades por producto de las líneas tipo product.
// Se usa para conciliar stock al reemplazar el conjunto de líneas.
func productQuantities(items []*entity.InvoiceItem) map[string]decimal.Decimal {
	byProduct := make(map[string]decimal.Decimal)
	for _, it := range items {
		if it.ItemType == entity.ItemTypeProduct && it.ProductID != nil {
			byProduct[*it.ProductID] = byProduct[*it.ProductID].Add(it.Quantity)
		}
	}
	return byProduct
}
