package billing_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vetorya/clinica-api/internal/application/billing"
	"github.com/vetorya/clinica-api/internal/application/dto"
	"github.com/vetorya/clinica-api/internal/application/inventory"
	"github.com/vetorya/clinica-api/internal/domain"
	"github.com/vetorya/clinica-api/internal/domain/authz"
	"github.com/vetorya/clinica-api/internal/domain/entity"
	"github.com/vetorya/clinica-api/pkg/logger"
)

const (
	testClinicID      = "clinic-1"
	testOwnerID       = "owner-1"
	testAppointmentID = "appt-1"
	testProductID     = "prod-amoxi"
	testServiceID     = "svc-consulta"
	testUserID        = "user-vet"
)

var vetRoles = []authz.Role{authz.RoleVet}

// billingEnv arma el motor de facturas completo sobre el estado en memoria.
type billingEnv struct {
	store    *memStore
	createUC *billing.CreateInvoiceUseCase
	updateUC *billing.UpdateInvoiceUseCase
}

func newBillingEnv(t *testing.T) *billingEnv {
	t.Helper()
	store := newMemStore()
	store.products[testProductID] = &entity.Product{
		ID:       testProductID,
		ClinicID: testClinicID,
		SKU:      "AMOXI-500",
		Name:     "Amoxicilina 500mg",
		StockQty: decimal.NewFromInt(5),
		Price:    decimal.NewFromInt(10),
		TaxRate:  decimal.NewFromFloat(0.20),
		Active:   true,
	}

	clinicRepo := &fakeClinicRepo{byID: map[string]*entity.Clinic{
		testClinicID: {ID: testClinicID, Name: "Clínica Norte", TaxRate: decimal.NewFromFloat(0.20)},
	}}
	ownerRepo := &fakeOwnerRepo{byID: map[string]*entity.Owner{
		testOwnerID: {ID: testOwnerID, ClinicID: testClinicID, Name: "Ana Gómez"},
	}}
	appointmentRepo := &fakeAppointmentRepo{byID: map[string]*entity.Appointment{
		testAppointmentID: {ID: testAppointmentID, ClinicID: testClinicID, OwnerID: testOwnerID, Status: entity.AppointmentCompleted},
	}}
	serviceRepo := &fakeServiceRepo{byID: map[string]*entity.Service{
		testServiceID: {ID: testServiceID, ClinicID: testClinicID, Name: "Consulta general", Price: decimal.NewFromInt(30), TaxRate: decimal.NewFromFloat(0.20), Active: true},
	}}

	txRunner := &fakeTxRunner{store: store}
	productRepo := &fakeProductRepo{store: store}
	movRepo := &fakeMovementRepo{store: store}
	invoiceRepo := &fakeInvoiceRepo{store: store}
	ledger := inventory.NewStockLedger(txRunner, productRepo, movRepo, logger.Nop())
	allocator := billing.NewInvoiceNumberAllocator(newFakeCounterRepo(), "FAC")
	cfg := billing.Config{DefaultTaxRate: decimal.NewFromFloat(0.20), DueDays: 30}

	return &billingEnv{
		store: store,
		createUC: billing.NewCreateInvoiceUseCase(
			txRunner, ledger, allocator,
			appointmentRepo, ownerRepo, clinicRepo, productRepo, serviceRepo,
			invoiceRepo, movRepo, cfg,
		),
		updateUC: billing.NewUpdateInvoiceUseCase(
			txRunner, ledger,
			clinicRepo, productRepo, serviceRepo, invoiceRepo, movRepo, cfg,
		),
	}
}

func productLine(qty int64) dto.InvoiceItemRequest {
	return dto.InvoiceItemRequest{
		ItemType:  entity.ItemTypeProduct,
		ProductID: testProductID,
		Quantity:  decimal.NewFromInt(qty),
	}
}

func serviceLine() dto.InvoiceItemRequest {
	return dto.InvoiceItemRequest{
		ItemType:  entity.ItemTypeService,
		ServiceID: testServiceID,
		Quantity:  decimal.NewFromInt(1),
	}
}

// Escenario nominal: factura con producto y servicio. Descuenta stock 5 -> 2,
// registra el movimiento ligado a la factura y deriva los totales del catálogo.
func TestCreateInvoice_DescuentaStockYDerivaTotales(t *testing.T) {
	env := newBillingEnv(t)

	inv, err := env.createUC.CreateInvoice(context.Background(), testClinicID, testUserID, vetRoles, dto.CreateInvoiceRequest{
		AppointmentID: testAppointmentID,
		Items:         []dto.InvoiceItemRequest{productLine(3), serviceLine()},
	})
	require.NoError(t, err)
	require.NotNil(t, inv)

	// Número: FAC-AAAAMMDD-0001 del día UTC en curso.
	day := time.Now().UTC().Format("20060102")
	assert.Equal(t, fmt.Sprintf("FAC-%s-0001", day), inv.Number)
	assert.Equal(t, entity.PaymentStatusPending, inv.PaymentStatus)
	assert.Equal(t, "Ana Gómez", inv.OwnerName)
	assert.Nil(t, inv.PaidAt)

	// Totales derivados: 3x10 + 1x30 = 60; impuesto 20% = 12; total 72.
	assert.True(t, decimal.NewFromInt(60).Equal(inv.Subtotal), "subtotal %s", inv.Subtotal)
	assert.True(t, decimal.NewFromInt(12).Equal(inv.TaxAmount), "impuesto %s", inv.TaxAmount)
	assert.True(t, decimal.NewFromInt(72).Equal(inv.TotalAmount), "total %s", inv.TotalAmount)
	assert.True(t, inv.TotalAmount.Equal(inv.Subtotal.Add(inv.TaxAmount)), "total == subtotal + impuesto")

	// Stock descontado exactamente por la cantidad de la línea de producto.
	product := env.store.products[testProductID]
	assert.True(t, decimal.NewFromInt(2).Equal(product.StockQty), "stock %s", product.StockQty)

	// Un único movimiento out, ligado a la factura, cantidad 3.
	require.Len(t, env.store.movements, 1)
	mov := env.store.movements[0]
	assert.Equal(t, entity.MovementTypeOut, mov.Type)
	assert.True(t, decimal.NewFromInt(3).Equal(mov.Quantity))
	require.NotNil(t, mov.InvoiceID)
	assert.Equal(t, inv.ID, *mov.InvoiceID)
	assert.Equal(t, testUserID, mov.CreatedBy)

	// La respuesta incluye los movimientos generados.
	require.Len(t, inv.Movements, 1)
	assert.Equal(t, mov.ID, inv.Movements[0].ID)
}

// Stock insuficiente: error con cifras y CERO efectos persistidos. Ni factura,
// ni líneas, ni movimiento, ni cambio de cantidad.
func TestCreateInvoice_StockInsuficienteRevierteTodo(t *testing.T) {
	env := newBillingEnv(t)

	_, err := env.createUC.CreateInvoice(context.Background(), testClinicID, testUserID, vetRoles, dto.CreateInvoiceRequest{
		AppointmentID: testAppointmentID,
		Items:         []dto.InvoiceItemRequest{productLine(6)},
	})
	require.Error(t, err)

	var stockErr *domain.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.True(t, decimal.NewFromInt(5).Equal(stockErr.Available), "disponible %s", stockErr.Available)
	assert.True(t, decimal.NewFromInt(6).Equal(stockErr.Requested), "solicitado %s", stockErr.Requested)
	assert.True(t, errors.Is(err, domain.ErrInsufficientStock))

	assert.Empty(t, env.store.invoices, "no debe quedar factura")
	assert.Empty(t, env.store.movements, "no debe quedar movimiento")
	assert.True(t, decimal.NewFromInt(5).Equal(env.store.products[testProductID].StockQty),
		"el stock no debe cambiar")
}

// assistant no puede crear facturas; la denegación ocurre antes de todo efecto.
func TestCreateInvoice_AssistantDenegado(t *testing.T) {
	env := newBillingEnv(t)

	_, err := env.createUC.CreateInvoice(context.Background(), testClinicID, testUserID,
		[]authz.Role{authz.RoleAssistant}, dto.CreateInvoiceRequest{
			AppointmentID: testAppointmentID,
			Items:         []dto.InvoiceItemRequest{productLine(1)},
		})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, env.store.invoices)
}

// Cita de otra clínica: mismo comportamiento que inexistente.
func TestCreateInvoice_CitaDeOtraClinica(t *testing.T) {
	env := newBillingEnv(t)

	_, err := env.createUC.CreateInvoice(context.Background(), "clinic-otra", testUserID, vetRoles, dto.CreateInvoiceRequest{
		AppointmentID: testAppointmentID,
		Items:         []dto.InvoiceItemRequest{productLine(1)},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// Líneas inválidas: cantidad cero y tipo desconocido.
func TestCreateInvoice_LineasInvalidas(t *testing.T) {
	env := newBillingEnv(t)

	_, err := env.createUC.CreateInvoice(context.Background(), testClinicID, testUserID, vetRoles, dto.CreateInvoiceRequest{
		AppointmentID: testAppointmentID,
		Items:         []dto.InvoiceItemRequest{productLine(0)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	_, err = env.createUC.CreateInvoice(context.Background(), testClinicID, testUserID, vetRoles, dto.CreateInvoiceRequest{
		AppointmentID: testAppointmentID,
		Items: []dto.InvoiceItemRequest{{
			ItemType: "descuento",
			Quantity: decimal.NewFromInt(1),
		}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "tipo desconocido")

	_, err = env.createUC.CreateInvoice(context.Background(), testClinicID, testUserID, vetRoles, dto.CreateInvoiceRequest{
		AppointmentID: testAppointmentID,
		Items:         []dto.InvoiceItemRequest{},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "sin líneas")
}

// Dos facturas del mismo día reciben números consecutivos distintos.
func TestCreateInvoice_NumerosConsecutivos(t *testing.T) {
	env := newBillingEnv(t)
	day := time.Now().UTC().Format("20060102")

	first, err := env.createUC.CreateInvoice(context.Background(), testClinicID, testUserID, vetRoles, dto.CreateInvoiceRequest{
		AppointmentID: testAppointmentID,
		Items:         []dto.InvoiceItemRequest{serviceLine()},
	})
	require.NoError(t, err)
	second, err := env.createUC.CreateInvoice(context.Background(), testClinicID, testUserID, vetRoles, dto.CreateInvoiceRequest{
		AppointmentID: testAppointmentID,
		Items:         []dto.InvoiceItemRequest{serviceLine()},
	})
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("FAC-%s-0001", day), first.Number)
	assert.Equal(t, fmt.Sprintf("FAC-%s-0002", day), second.Number)
}

// El asignador nunca entrega el mismo número a dos llamadas concurrentes.
func TestInvoiceNumberAllocator_Concurrencia(t *testing.T) {
	allocator := billing.NewInvoiceNumberAllocator(newFakeCounterRepo(), "FAC")

	const n = 50
	var wg sync.WaitGroup
	results := make(chan string, n)
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			num, err := allocator.NextNumber(context.Background(), testClinicID)
			if err != nil {
				errs <- err
				return
			}
			results <- num
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}
	seen := make(map[string]struct{}, n)
	for num := range results {
		_, dup := seen[num]
		assert.False(t, dup, "número duplicado: %s", num)
		seen[num] = struct{}{}
	}
	assert.Len(t, seen, n)
}

// Los contadores son independientes por clínica.
func TestInvoiceNumberAllocator_PorClinica(t *testing.T) {
	allocator := billing.NewInvoiceNumberAllocator(newFakeCounterRepo(), "FAC")
	day := time.Now().UTC().Format("20060102")

	a1, err := allocator.NextNumber(context.Background(), "clinic-a")
	require.NoError(t, err)
	b1, err := allocator.NextNumber(context.Background(), "clinic-b")
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("FAC-%s-0001", day), a1)
	assert.Equal(t, fmt.Sprintf("FAC-%s-0001", day), b1)
}
