package stockkeeping_test

import (
	"context"
	"strings"
	"sync"

	"github.com/jhoicas/Inventario-stockkeeping/internal/application/ports"
	"github.com/jhoicas/Inventario-stockkeeping/internal/application/stockkeeping"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain"
	"github.com/jhoicas/Inventario-stockkeeping/internal/domain/entity"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

func intPtr(n int) *int { return &n }

// fakeGateway servicio de inventario en memoria. Las consultas marcadas en blockStock
// o blockSearch se quedan esperando (una sola vez) hasta que se cierre el canal.
type fakeGateway struct {
	mu           sync.Mutex
	warehouses   []entity.Warehouse
	products     map[string]*entity.Product
	stock        map[string][]entity.StockEntry
	stockErr     map[string]error
	unallocated  []entity.UnallocatedVariant
	searchErr    error
	blockStock   map[string]chan struct{}
	blockSearch  map[string]chan struct{}
	blockProduct map[string]chan struct{}
	blockSubmit  chan struct{}
	entered      chan string
	transferErr  map[int]error
	processed    []*int
	reconcileErr error
	reconcileRes *int

	transfers  []ports.TransferRequest
	reconciles []ports.ReconcileRequest
	searches   []string
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		warehouses: []entity.Warehouse{
			{ID: "W1", Name: "Principal", Code: "PRI", IsActive: true},
			{ID: "W2", Name: "Norte", Code: "NOR", IsActive: true},
			{ID: "W3", Name: "Cerrada", Code: "CER", IsActive: false},
		},
		products:     make(map[string]*entity.Product),
		stock:        make(map[string][]entity.StockEntry),
		stockErr:     make(map[string]error),
		blockStock:   make(map[string]chan struct{}),
		blockSearch:  make(map[string]chan struct{}),
		blockProduct: make(map[string]chan struct{}),
		entered:      make(chan string, 16),
		transferErr:  make(map[int]error),
	}
}

func stockEntry(variantID string, onHand int) entity.StockEntry {
	return entity.StockEntry{
		VariantID: variantID,
		OnHand:    onHand,
		Variant:   entity.ProductVariant{ID: variantID, SKU: "SKU-" + variantID, ProductName: "Camisa"},
	}
}

func (f *fakeGateway) setStock(warehouseID string, entries ...entity.StockEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stock[warehouseID] = entries
	delete(f.stockErr, warehouseID)
}

func (f *fakeGateway) failStock(warehouseID string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stockErr[warehouseID] = err
}

func (f *fakeGateway) holdStock(warehouseID string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.blockStock[warehouseID] = ch
	return ch
}

func (f *fakeGateway) holdSearch(term string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.blockSearch[term] = ch
	return ch
}

func (f *fakeGateway) holdProduct(productID string) chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.blockProduct[productID] = ch
	return ch
}

// holdSubmit retiene el próximo traslado; al entrar publica "submit" en entered.
func (f *fakeGateway) holdSubmit() chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan struct{})
	f.blockSubmit = ch
	return ch
}

func (f *fakeGateway) transferCalls() []ports.TransferRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ports.TransferRequest(nil), f.transfers...)
}

func (f *fakeGateway) reconcileCalls() []ports.ReconcileRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ports.ReconcileRequest(nil), f.reconciles...)
}

func (f *fakeGateway) searchCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.searches...)
}

func (f *fakeGateway) ListWarehouses(_ context.Context) ([]entity.Warehouse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.Warehouse(nil), f.warehouses...), nil
}

func (f *fakeGateway) GetProduct(ctx context.Context, productID string) (*entity.Product, error) {
	f.mu.Lock()
	ch := f.blockProduct[productID]
	delete(f.blockProduct, productID)
	f.mu.Unlock()
	if ch != nil {
		f.entered <- productID
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[productID]
	if !ok {
		return nil, &ports.RemoteError{StatusCode: 404, Message: "producto no encontrado"}
	}
	return p, nil
}

func (f *fakeGateway) WarehouseStock(ctx context.Context, warehouseID string) (*ports.WarehouseStock, error) {
	f.mu.Lock()
	ch := f.blockStock[warehouseID]
	delete(f.blockStock, warehouseID)
	f.mu.Unlock()
	if ch != nil {
		f.entered <- warehouseID
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.stockErr[warehouseID]; err != nil {
		return nil, err
	}
	return &ports.WarehouseStock{
		Warehouse: entity.Warehouse{ID: warehouseID, Name: warehouseID, IsActive: true},
		Entries:   append([]entity.StockEntry(nil), f.stock[warehouseID]...),
	}, nil
}

func (f *fakeGateway) UnallocatedVariants(ctx context.Context, search string) ([]entity.UnallocatedVariant, error) {
	f.mu.Lock()
	f.searches = append(f.searches, search)
	ch := f.blockSearch[search]
	delete(f.blockSearch, search)
	f.mu.Unlock()
	if ch != nil {
		f.entered <- search
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	term := stockkeeping.NormalizeSearchTerm(search)
	var out []entity.UnallocatedVariant
	for _, u := range f.unallocated {
		if term == "" || strings.Contains(stockkeeping.NormalizeSearchTerm(u.ProductName+" "+u.SKU), term) {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *fakeGateway) TransferStockBulk(ctx context.Context, req ports.TransferRequest) (*ports.SubmitResult, error) {
	f.mu.Lock()
	ch := f.blockSubmit
	f.blockSubmit = nil
	f.mu.Unlock()
	if ch != nil {
		f.entered <- "submit"
		select {
		case <-ch:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	call := len(f.transfers)
	f.transfers = append(f.transfers, req)
	if err := f.transferErr[call]; err != nil {
		return nil, err
	}
	res := &ports.SubmitResult{}
	if call < len(f.processed) {
		res.ItemsProcessed = f.processed[call]
	}
	return res, nil
}

func (f *fakeGateway) ReconcileStock(_ context.Context, req ports.ReconcileRequest) (*ports.SubmitResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reconciles = append(f.reconciles, req)
	if f.reconcileErr != nil {
		return nil, f.reconcileErr
	}
	return &ports.SubmitResult{ItemsProcessed: f.reconcileRes}, nil
}

// fakeJournal bitácora en memoria.
type fakeJournal struct {
	mu      sync.Mutex
	records []*entity.SubmissionRecord
	err     error
}

func (j *fakeJournal) Record(_ context.Context, rec *entity.SubmissionRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.err != nil {
		return j.err
	}
	j.records = append(j.records, rec)
	return nil
}

func (j *fakeJournal) GetByID(_ context.Context, id string) (*entity.SubmissionRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	for _, r := range j.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (j *fakeJournal) ListBySession(_ context.Context, sessionID string) ([]*entity.SubmissionRecord, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	var out []*entity.SubmissionRecord
	for _, r := range j.records {
		if r.SessionID == sessionID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (j *fakeJournal) all() []*entity.SubmissionRecord {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]*entity.SubmissionRecord(nil), j.records...)
}
