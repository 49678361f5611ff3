package billing_test

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vetorya/clinica-api/internal/domain"
	"github.com/vetorya/clinica-api/internal/domain/entity"
	"github.com/vetorya/clinica-api/internal/domain/repository"
)

// memStore estado en memoria compartido por los fakes. El txRunner de test
// toma un snapshot antes del callback y lo restaura si hay error, imitando la
// semántica de rollback de una transacción real.
type memStore struct {
	products  map[string]*entity.Product
	movements []*entity.StockMovement
	invoices  map[string]*entity.Invoice
	items     map[string][]*entity.InvoiceItem // por invoiceID
}

func newMemStore() *memStore {
	return &memStore{
		products: make(map[string]*entity.Product),
		invoices: make(map[string]*entity.Invoice),
		items:    make(map[string][]*entity.InvoiceItem),
	}
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	for id, p := range s.products {
		clone := *p
		cp.products[id] = &clone
	}
	cp.movements = append([]*entity.StockMovement(nil), s.movements...)
	for id, inv := range s.invoices {
		clone := *inv
		cp.invoices[id] = &clone
	}
	for id, items := range s.items {
		cp.items[id] = append([]*entity.InvoiceItem(nil), items...)
	}
	return cp
}

func (s *memStore) restore(snap *memStore) {
	s.products = snap.products
	s.movements = snap.movements
	s.invoices = snap.invoices
	s.items = snap.items
}

// ─────────────────────────────── Repos fake ───────────────────────────────

type fakeProductRepo struct{ store *memStore }

func (r *fakeProductRepo) Create(p *entity.Product) error {
	clone := *p
	r.store.products[p.ID] = &clone
	return nil
}

func (r *fakeProductRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.store.products[id]
	if !ok {
		return nil, nil
	}
	clone := *p
	return &clone, nil
}

func (r *fakeProductRepo) GetByClinicAndSKU(clinicID, sku string) (*entity.Product, error) {
	for _, p := range r.store.products {
		if p.ClinicID == clinicID && p.SKU == sku {
			clone := *p
			return &clone, nil
		}
	}
	return nil, nil
}

func (r *fakeProductRepo) GetForUpdate(id string) (*entity.Product, error) {
	return r.GetByID(id)
}

func (r *fakeProductRepo) Update(p *entity.Product) error {
	if _, ok := r.store.products[p.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *p
	r.store.products[p.ID] = &clone
	return nil
}

func (r *fakeProductRepo) UpdateStock(productID string, qty decimal.Decimal) error {
	p, ok := r.store.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.StockQty = qty
	return nil
}

func (r *fakeProductRepo) ListByClinic(clinicID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.store.products {
		if p.ClinicID == clinicID {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *fakeProductRepo) ListBelowThreshold(clinicID string) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.store.products {
		if p.ClinicID == clinicID && p.Active && p.BelowThreshold() {
			clone := *p
			out = append(out, &clone)
		}
	}
	return out, nil
}

type fakeMovementRepo struct{ store *memStore }

func (r *fakeMovementRepo) Create(m *entity.StockMovement) error {
	clone := *m
	r.store.movements = append(r.store.movements, &clone)
	return nil
}

func (r *fakeMovementRepo) GetByID(id string) (*entity.StockMovement, error) {
	for _, m := range r.store.movements {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, nil
}

func (r *fakeMovementRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.store.movements {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) ListByInvoice(invoiceID string) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.store.movements {
		if m.InvoiceID != nil && *m.InvoiceID == invoiceID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMovementRepo) ListByClinic(clinicID string, from, to *time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	var out []*entity.StockMovement
	for _, m := range r.store.movements {
		if m.ClinicID == clinicID {
			out = append(out, m)
		}
	}
	return out, nil
}

type fakeInvoiceRepo struct{ store *memStore }

func (r *fakeInvoiceRepo) Create(inv *entity.Invoice) error {
	for _, existing := range r.store.invoices {
		if existing.ClinicID == inv.ClinicID && existing.Number == inv.Number {
			return domain.ErrConflict
		}
	}
	clone := *inv
	r.store.invoices[inv.ID] = &clone
	return nil
}

func (r *fakeInvoiceRepo) CreateItem(item *entity.InvoiceItem) error {
	clone := *item
	r.store.items[item.InvoiceID] = append(r.store.items[item.InvoiceID], &clone)
	return nil
}

func (r *fakeInvoiceRepo) UpdateHeader(inv *entity.Invoice) error {
	if _, ok := r.store.invoices[inv.ID]; !ok {
		return domain.ErrNotFound
	}
	clone := *inv
	r.store.invoices[inv.ID] = &clone
	return nil
}

func (r *fakeInvoiceRepo) GetByID(id string) (*entity.Invoice, error) {
	inv, ok := r.store.invoices[id]
	if !ok {
		return nil, nil
	}
	clone := *inv
	return &clone, nil
}

func (r *fakeInvoiceRepo) GetItemsByInvoiceID(invoiceID string) ([]*entity.InvoiceItem, error) {
	return append([]*entity.InvoiceItem(nil), r.store.items[invoiceID]...), nil
}

func (r *fakeInvoiceRepo) DeleteItemsByInvoiceID(invoiceID string) error {
	delete(r.store.items, invoiceID)
	return nil
}

func (r *fakeInvoiceRepo) ListByClinic(clinicID string, limit, offset int) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	for _, inv := range r.store.invoices {
		if inv.ClinicID == clinicID {
			clone := *inv
			out = append(out, &clone)
		}
	}
	return out, nil
}

// fakeTxRunner imita Begin/Commit/Rollback con snapshot del estado.
type fakeTxRunner struct{ store *memStore }

func (r *fakeTxRunner) Run(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
) error) error {
	snap := r.store.snapshot()
	if err := fn(&fakeProductRepo{r.store}, &fakeMovementRepo{r.store}); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

func (r *fakeTxRunner) RunBilling(ctx context.Context, fn func(
	productRepo repository.ProductRepository,
	movRepo repository.StockMovementRepository,
	invoiceRepo repository.InvoiceRepository,
) error) error {
	snap := r.store.snapshot()
	if err := fn(&fakeProductRepo{r.store}, &fakeMovementRepo{r.store}, &fakeInvoiceRepo{r.store}); err != nil {
		r.store.restore(snap)
		return err
	}
	return nil
}

// fakeCounterRepo contador atómico en memoria por (clínica, día).
type fakeCounterRepo struct {
	mu       sync.Mutex
	counters map[string]int64
}

func newFakeCounterRepo() *fakeCounterRepo {
	return &fakeCounterRepo{counters: make(map[string]int64)}
}

func (r *fakeCounterRepo) Next(ctx context.Context, clinicID, day string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := fmt.Sprintf("%s|%s", clinicID, day)
	r.counters[key]++
	return r.counters[key], nil
}

// ─────────────────────── Fakes de catálogo (solo lectura) ───────────────────────

type fakeAppointmentRepo struct{ byID map[string]*entity.Appointment }

func (r *fakeAppointmentRepo) Create(a *entity.Appointment) error { r.byID[a.ID] = a; return nil }
func (r *fakeAppointmentRepo) GetByID(id string) (*entity.Appointment, error) {
	return r.byID[id], nil
}
func (r *fakeAppointmentRepo) Update(a *entity.Appointment) error { r.byID[a.ID] = a; return nil }
func (r *fakeAppointmentRepo) ListByClinic(clinicID string, limit, offset int) ([]*entity.Appointment, error) {
	return nil, nil
}

type fakeOwnerRepo struct{ byID map[string]*entity.Owner }

func (r *fakeOwnerRepo) Create(o *entity.Owner) error              { r.byID[o.ID] = o; return nil }
func (r *fakeOwnerRepo) GetByID(id string) (*entity.Owner, error)  { return r.byID[id], nil }
func (r *fakeOwnerRepo) Update(o *entity.Owner) error              { r.byID[o.ID] = o; return nil }
func (r *fakeOwnerRepo) ListByClinic(clinicID string, limit, offset int) ([]*entity.Owner, error) {
	return nil, nil
}

type fakeClinicRepo struct{ byID map[string]*entity.Clinic }

func (r *fakeClinicRepo) Create(c *entity.Clinic) error             { r.byID[c.ID] = c; return nil }
func (r *fakeClinicRepo) GetByID(id string) (*entity.Clinic, error) { return r.byID[id], nil }
func (r *fakeClinicRepo) List(limit, offset int) ([]*entity.Clinic, error) {
	return nil, nil
}

type fakeServiceRepo struct{ byID map[string]*entity.Service }

func (r *fakeServiceRepo) Create(s *entity.Service) error             { r.byID[s.ID] = s; return nil }
func (r *fakeServiceRepo) GetByID(id string) (*entity.Service, error) { return r.byID[id], nil }
func (r *fakeServiceRepo) Update(s *entity.Service) error             { r.byID[s.ID] = s; return nil }
func (r *fakeServiceRepo) ListByClinic(clinicID string, limit, offset int) ([]*entity.Service, error) {
	return nil, nil
}
