package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetorya/clinica-api/internal/application/dto"
	"github.com/vetorya/clinica-api/internal/application/inventory"
	"github.com/vetorya/clinica-api/internal/domain"
	"github.com/vetorya/clinica-api/internal/domain/authz"
	"github.com/vetorya/clinica-api/internal/domain/entity"
	"github.com/vetorya/clinica-api/internal/domain/repository"
	"github.com/vetorya/clinica-api/pkg/logger"
)

const (
	clinicID  = "clinic-1"
	userID    = "user-stock"
	productID = "prod-1"
)

var stockRoles = []authz.Role{authz.RoleStockManager}

// Fakes mínimos del ledger: un producto y una lista de movimientos en memoria,
// con rollback por snapshot en el runner.

type memProductRepo struct{ products map[string]*entity.Product }

func (r *memProductRepo) Create(p *entity.Product) error { r.products[p.ID] = p; return nil }
func (r *memProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}
func (r *memProductRepo) GetByClinicAndSKU(clinicID, sku string) (*entity.Product, error) {
	return nil, nil
}
func (r *memProductRepo) GetForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }
func (r *memProductRepo) Update(p *entity.Product) error                  { r.products[p.ID] = p; return nil }
func (r *memProductRepo) UpdateStock(productID string, qty decimal.Decimal) error {
	p, ok := r.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQty = qty
	return nil
}
func (r *memProductRepo) ListByClinic(clinicID string, limit, offset int) ([]*entity.Product, error) {
	return nil, nil
}
func (r *memProductRepo) ListBelowThreshold(clinicID string) ([]*entity.Product, error) {
	return nil, nil
}

type memMovementRepo struct{ movements []*entity.StockMovement }

func (r *memMovementRepo) Create(m *entity.StockMovement) error {
	r.movements = append(r.movements, m)
	return nil
}
func (r *memMovementRepo) GetByID(id string) (*entity.StockMovement, error) { return nil, nil }
func (r *memMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (r *memMovementRepo) ListByInvoice(invoiceID string) ([]*entity.StockMovement, error) {
	return nil, nil
}
func (r *memMovementRepo) ListByClinic(clinicID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.movements {
		if m.ClinicID == clinicID {
			out = append(out, m)
		}
	}
	return out, nil
}

type memTxRunner struct {
	productRepo *memProductRepo
	movRepo     *memMovementRepo
}

func (r *memTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	snapProducts := make(map[string]*entity.Product, len(r.productRepo.products))
	for id, p := range r.productRepo.products {
		clone := *p
		snapProducts[id] = &clone
	}
	snapMovs := append([]*entity.StockMovement(nil), r.movRepo.movements...)

	if err := fn(r.productRepo, r.movRepo); err != nil {
		r.productRepo.products = snapProducts
		r.movRepo.movements = snapMovs
		return err
	}
	return nil
}

type ledgerEnv struct {
	productRepo *memProductRepo
	movRepo     *memMovementRepo
	ledger      *inventory.StockLedger
}

func newLedgerEnv(t *testing.T, initialStock int64) *ledgerEnv {
	t.Helper()
	productRepo := &memProductRepo{products: map[string]*entity.Product{
		productID: {
			ID:                productID,
			ClinicID:          clinicID,
			SKU:               "VAC-RAB",
			Name:              "Vacuna antirrábica",
			StockQty:          decimal.NewFromInt(initialStock),
			LowStockThreshold: decimal.NewFromInt(2),
			Active:            true,
		},
	}}
	movRepo := &memMovementRepo{}
	runner := &memTxRunner{productRepo: productRepo, movRepo: movRepo}
	return &ledgerEnv{
		productRepo: productRepo,
		movRepo:     movRepo,
		ledger:      inventory.NewStockLedger(runner, productRepo, movRepo, logger.Nop()),
	}
}

func (e *ledgerEnv) stock() decimal.Decimal {
	return e.productRepo.products[productID].StockQty
}

func movementReq(movType string, qty int64) dto.ApplyMovementRequest {
	return dto.ApplyMovementRequest{
		ProductID: productID,
		Type:      movType,
		Quantity:  decimal.NewFromInt(qty),
		Reason:    "test",
	}
}

// in suma, out resta, y cada aplicación persiste cantidad + movimiento juntos.
func TestApplyMovement_InYOut(t *testing.T) {
	env := newLedgerEnv(t, 10)

	res, err := env.ledger.ApplyMovement(context.Background(), clinicID, userID, stockRoles, movementReq(entity.MovementTypeIn, 5))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(15).Equal(res.NewQuantity))

	res, err = env.ledger.ApplyMovement(context.Background(), clinicID, userID, stockRoles, movementReq(entity.MovementTypeOut, 4))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(11).Equal(res.NewQuantity))
	assert.True(t, decimal.NewFromInt(11).Equal(env.stock()))

	require.Len(t, env.movRepo.movements, 2)
	assert.Equal(t, entity.MovementTypeIn, env.movRepo.movements[0].Type)
	assert.Equal(t, entity.MovementTypeOut, env.movRepo.movements[1].Type)
	assert.Equal(t, userID, env.movRepo.movements[0].CreatedBy)
}

// adjust fija el objetivo absoluto, no un delta. Cero es válido.
func TestApplyMovement_AdjustEsAbsoluto(t *testing.T) {
	env := newLedgerEnv(t, 10)

	res, err := env.ledger.ApplyMovement(context.Background(), clinicID, userID, stockRoles, movementReq(entity.MovementTypeAdjust, 3))
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(3).Equal(res.NewQuantity), "adjust 3 deja 3, no 13")

	res, err = env.ledger.ApplyMovement(context.Background(), clinicID, userID, stockRoles, movementReq(entity.MovementTypeAdjust, 0))
	require.NoError(t, err)
	assert.True(t, res.NewQuantity.IsZero())
}

// out mayor que el disponible: error con cifras, sin efectos.
func TestApplyMovement_OutInsuficiente(t *testing.T) {
	env := newLedgerEnv(t, 2)

	_, err := env.ledger.ApplyMovement(context.Background(), clinicID, userID, stockRoles, movementReq(entity.MovementTypeOut, 3))
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, decimal.NewFromInt(2).Equal(stockErr.Available))
	assert.True(t, decimal.NewFromInt(3).Equal(stockErr.Requested))

	assert.True(t, decimal.NewFromInt(2).Equal(env.stock()), "el stock no cambia")
	assert.Empty(t, env.movRepo.movements, "sin movimiento fantasma")
}

// Validación de tipo y cantidad.
func TestApplyMovement_Validacion(t *testing.T) {
	env := newLedgerEnv(t, 10)

	cases := []struct {
		name string
		req  dto.ApplyMovementRequest
	}{
		{"in con cantidad cero", movementReq(entity.MovementTypeIn, 0)},
		{"out con cantidad negativa", movementReq(entity.MovementTypeOut, -1)},
		{"adjust negativo", movementReq(entity.MovementTypeAdjust, -5)},
		{"tipo desconocido", dto.ApplyMovementRequest{ProductID: productID, Type: "transfer", Quantity: decimal.NewFromInt(1)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.ledger.ApplyMovement(context.Background(), clinicID, userID, stockRoles, tc.req)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
	assert.Empty(t, env.movRepo.movements)
}

// vet no mueve stock; producto de otra clínica no existe para el caller.
func TestApplyMovement_AutorizacionYAislamiento(t *testing.T) {
	env := newLedgerEnv(t, 10)

	_, err := env.ledger.ApplyMovement(context.Background(), clinicID, userID,
		[]authz.Role{authz.RoleVet}, movementReq(entity.MovementTypeIn, 1))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = env.ledger.ApplyMovement(context.Background(), "clinic-otra", userID, stockRoles, movementReq(entity.MovementTypeIn, 1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.True(t, decimal.NewFromInt(10).Equal(env.stock()))
}

// El historial de la clínica devuelve los movimientos aplicados.
func TestListMovements(t *testing.T) {
	env := newLedgerEnv(t, 10)

	_, err := env.ledger.ApplyMovement(context.Background(), clinicID, userID, stockRoles, movementReq(entity.MovementTypeIn, 5))
	require.NoError(t, err)
	_, err = env.ledger.ApplyMovement(context.Background(), clinicID, userID, stockRoles, movementReq(entity.MovementTypeOut, 1))
	require.NoError(t, err)

	movs, err := env.ledger.ListMovements(context.Background(), clinicID, stockRoles, nil, nil, 50, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 2)

	// assistant no tiene lectura de stock.
	_, err = env.ledger.ListMovements(context.Background(), clinicID, []authz.Role{authz.RoleAssistant}, nil, nil, 50, 0)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
