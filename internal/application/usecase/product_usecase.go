package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/vetorya/clinica-api/internal/application/dto"
	appinventory "github.com/vetorya/clinica-api/internal/application/inventory"
	"github.com/vetorya/clinica-api/internal/domain"
	"github.com/vetorya/clinica-api/internal/domain/authz"
	"github.com/vetorya/clinica-api/internal/domain/entity"
	"github.com/vetorya/clinica-api/internal/domain/repository"
)

// ProductUseCase gestiona el catálogo de productos. Las ediciones tocan precio
// y metadatos; la cantidad vive en el ledger: el stock inicial de un producto
// nuevo entra como movimiento "in", no como escritura directa.
type ProductUseCase struct {
	productRepo repository.ProductRepository
	ledger      *appinventory.StockLedger
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(productRepo repository.ProductRepository, ledger *appinventory.StockLedger) *ProductUseCase {
	return &ProductUseCase{productRepo: productRepo, ledger: ledger}
}

// Create registra el producto con stock cero y, si hay stock inicial, lo aplica
// como movimiento de entrada a través del ledger.
func (uc *ProductUseCase) Create(ctx context.Context, clinicID, userID string, roles []authz.Role, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	if !authz.Authorize(roles, authz.ResourceProducts, authz.ActionCreate) {
		return nil, domain.ErrForbidden
	}
	if in.SKU == "" || in.Name == "" || in.Price.LessThan(decimal.Zero) || in.InitialStock.LessThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}
	if existing, _ := uc.productRepo.GetByClinicAndSKU(clinicID, in.SKU); existing != nil {
		return nil, domain.ErrDuplicate
	}

	now := time.Now()
	product := &entity.Product{
		ID:                uuid.New().String(),
		ClinicID:          clinicID,
		SKU:               in.SKU,
		Name:              in.Name,
		Unit:              in.Unit,
		StockQty:          decimal.Zero,
		LowStockThreshold: in.LowStockThreshold,
		Price:             in.Price,
		TaxRate:           in.TaxRate,
		Active:            true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := uc.productRepo.Create(product); err != nil {
		return nil, err
	}

	if in.InitialStock.GreaterThan(decimal.Zero) {
		res, err := uc.ledger.ApplyMovement(ctx, clinicID, userID, roles, dto.ApplyMovementRequest{
			ProductID: product.ID,
			Type:      entity.MovementTypeIn,
			Quantity:  in.InitialStock,
			Reason:    "stock inicial",
		})
		if err != nil {
			return nil, err
		}
		product.StockQty = res.NewQuantity
	}
	return toProductResponse(product), nil
}

// Update aplica una edición administrativa: nunca toca StockQty.
func (uc *ProductUseCase) Update(ctx context.Context, clinicID string, roles []authz.Role, productID string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if !authz.Authorize(roles, authz.ResourceProducts, authz.ActionUpdate) {
		return nil, domain.ErrForbidden
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.ClinicID != clinicID {
		return nil, domain.ErrNotFound
	}
	if in.Name != nil {
		if *in.Name == "" {
			return nil, domain.ErrInvalidInput
		}
		product.Name = *in.Name
	}
	if in.Unit != nil {
		product.Unit = *in.Unit
	}
	if in.LowStockThreshold != nil {
		if in.LowStockThreshold.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.LowStockThreshold = *in.LowStockThreshold
	}
	if in.Price != nil {
		if in.Price.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.Price = *in.Price
	}
	if in.TaxRate != nil {
		if in.TaxRate.LessThan(decimal.Zero) {
			return nil, domain.ErrInvalidInput
		}
		product.TaxRate = *in.TaxRate
	}
	if in.Active != nil {
		product.Active = *in.Active
	}
	product.UpdatedAt = time.Now()
	if err := uc.productRepo.Update(product); err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID devuelve un producto de la clínica.
func (uc *ProductUseCase) GetByID(ctx context.Context, clinicID string, roles []authz.Role, productID string) (*dto.ProductResponse, error) {
	if !authz.Authorize(roles, authz.ResourceProducts, authz.ActionRead) {
		return nil, domain.ErrForbidden
	}
	product, err := uc.productRepo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil || product.ClinicID != clinicID {
		return nil, domain.ErrNotFound
	}
	return toProductResponse(product), nil
}

// List lista los productos de la clínica.
func (uc *ProductUseCase) List(ctx context.Context, clinicID string, roles []authz.Role, limit, offset int) ([]dto.ProductResponse, error) {
	if !authz.Authorize(roles, authz.ResourceProducts, authz.ActionRead) {
		return nil, domain.ErrForbidden
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	products, err := uc.productRepo.ListByClinic(clinicID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

// ListLowStock lista los productos en o bajo su umbral de reposición.
func (uc *ProductUseCase) ListLowStock(ctx context.Context, clinicID string, roles []authz.Role) ([]dto.ProductResponse, error) {
	if !authz.Authorize(roles, authz.ResourceStock, authz.ActionRead) {
		return nil, domain.ErrForbidden
	}
	products, err := uc.productRepo.ListBelowThreshold(clinicID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, *toProductResponse(p))
	}
	return out, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	return &dto.ProductResponse{
		ID:                p.ID,
		ClinicID:          p.ClinicID,
		SKU:               p.SKU,
		Name:              p.Name,
		Unit:              p.Unit,
		StockQty:          p.StockQty,
		LowStockThreshold: p.LowStockThreshold,
		Price:             p.Price,
		TaxRate:           p.TaxRate,
		Active:            p.Active,
	}
}
