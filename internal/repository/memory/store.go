// Package memory is an in-process repository.Store used by tests and local
// demos. Transactions are serialized and roll back by restoring a snapshot.
// Reads outside a transaction may observe writes of one still in flight.
package memory

import (
	"context"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/arahman1700/nit-logistics-portal/internal/models"
	"github.com/arahman1700/nit-logistics-portal/internal/repository"
)

type state struct {
	mu sync.RWMutex

	projects    map[string]models.Project
	warehouses  map[string]models.Warehouse
	suppliers   map[string]models.Supplier
	items       map[string]models.InventoryItem
	mrrvs       map[string]models.MRRV
	mirvs       map[string]models.MIRV
	mrvs        map[string]models.MRV
	rfims       map[string]models.RFIM
	gatePasses  map[string]models.GatePass
	osds        map[string]models.OSDReport
	jobs        map[string]models.JobOrder
	scrap       []models.ScrapEntry
	activity    []models.ActivityLog
	attachments []models.Attachment
	numbers     map[string]struct{}

	// last keeps stamps strictly increasing so newest-first lists are stable.
	last time.Time
}

func newState() *state {
	return &state{
		projects:   map[string]models.Project{},
		warehouses: map[string]models.Warehouse{},
		suppliers:  map[string]models.Supplier{},
		items:      map[string]models.InventoryItem{},
		mrrvs:      map[string]models.MRRV{},
		mirvs:      map[string]models.MIRV{},
		mrvs:       map[string]models.MRV{},
		rfims:      map[string]models.RFIM{},
		gatePasses: map[string]models.GatePass{},
		osds:       map[string]models.OSDReport{},
		jobs:       map[string]models.JobOrder{},
		numbers:    map[string]struct{}{},
	}
}

// snapshot copies every table. Stored values are replaced, never mutated in
// place, so shallow copies are enough.
func (st *state) snapshot() *state {
	return &state{
		projects:    maps.Clone(st.projects),
		warehouses:  maps.Clone(st.warehouses),
		suppliers:   maps.Clone(st.suppliers),
		items:       maps.Clone(st.items),
		mrrvs:       maps.Clone(st.mrrvs),
		mirvs:       maps.Clone(st.mirvs),
		mrvs:        maps.Clone(st.mrvs),
		rfims:       maps.Clone(st.rfims),
		gatePasses:  maps.Clone(st.gatePasses),
		osds:        maps.Clone(st.osds),
		jobs:        maps.Clone(st.jobs),
		scrap:       slices.Clone(st.scrap),
		activity:    slices.Clone(st.activity),
		attachments: slices.Clone(st.attachments),
		numbers:     maps.Clone(st.numbers),
	}
}

func (st *state) restore(s *state) {
	st.projects, st.warehouses, st.suppliers, st.items = s.projects, s.warehouses, s.suppliers, s.items
	st.mrrvs, st.mirvs, st.mrvs, st.rfims = s.mrrvs, s.mirvs, s.mrvs, s.rfims
	st.gatePasses, st.osds, st.jobs = s.gatePasses, s.osds, s.jobs
	st.scrap, st.activity, st.attachments = s.scrap, s.activity, s.attachments
	st.numbers = s.numbers
}

type Store struct {
	st   *state
	txMu *sync.Mutex
	inTx bool
	now  func() time.Time
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	return &Store{st: newState(), txMu: &sync.Mutex{}, now: time.Now}
}

func (s *Store) WithinTx(ctx context.Context, fn func(tx repository.Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()

	s.st.mu.RLock()
	snap := s.st.snapshot()
	s.st.mu.RUnlock()

	tx := &Store{st: s.st, txMu: s.txMu, inTx: true, now: s.now}
	if err := fn(tx); err != nil {
		s.st.mu.Lock()
		s.st.restore(snap)
		s.st.mu.Unlock()
		return err
	}
	return nil
}

// write serializes a mutation with running transactions.
func (s *Store) write(fn func(st *state) error) error {
	if !s.inTx {
		s.txMu.Lock()
		defer s.txMu.Unlock()
	}
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	return fn(s.st)
}

func (s *Store) read(fn func(st *state) error) error {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	return fn(s.st)
}

// stamp must be called with st.mu held.
func (s *Store) stamp(created, updated *time.Time) {
	now := s.now()
	if !now.After(s.st.last) {
		now = s.st.last.Add(time.Microsecond)
	}
	s.st.last = now
	if created != nil && created.IsZero() {
		*created = now
	}
	if updated != nil {
		*updated = now
	}
}

func claim(st *state, number string) error {
	if _, taken := st.numbers[number]; taken {
		return repository.ErrDuplicateNumber
	}
	st.numbers[number] = struct{}{}
	return nil
}

func cloneLines(lines []models.VoucherLine) []models.VoucherLine {
	out := slices.Clone(lines)
	models.TotalOf(out)
	return out
}

func find[T any](table map[string]T, id string) (T, error) {
	v, ok := table[id]
	if !ok {
		var zero T
		return zero, repository.ErrNotFound
	}
	return v, nil
}

// Seed helpers. Master data is managed outside the document service.

func (s *Store) PutProject(p models.Project) *models.Project {
	if p.ID == "" {
		p.ID = models.NewID()
	}
	_ = s.write(func(st *state) error { st.projects[p.ID] = p; return nil })
	return &p
}

func (s *Store) PutWarehouse(w models.Warehouse) *models.Warehouse {
	if w.ID == "" {
		w.ID = models.NewID()
	}
	_ = s.write(func(st *state) error { st.warehouses[w.ID] = w; return nil })
	return &w
}

func (s *Store) PutSupplier(sp models.Supplier) *models.Supplier {
	if sp.ID == "" {
		sp.ID = models.NewID()
	}
	_ = s.write(func(st *state) error { st.suppliers[sp.ID] = sp; return nil })
	return &sp
}

func (s *Store) PutInventoryItem(it models.InventoryItem) *models.InventoryItem {
	if it.ID == "" {
		it.ID = models.NewID()
	}
	_ = s.write(func(st *state) error { st.items[it.ID] = it; return nil })
	return &it
}

func (s *Store) GetProject(ctx context.Context, id string) (*models.Project, error) {
	var out models.Project
	err := s.read(func(st *state) (err error) { out, err = find(st.projects, id); return })
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) GetWarehouse(ctx context.Context, id string) (*models.Warehouse, error) {
	var out models.Warehouse
	err := s.read(func(st *state) (err error) { out, err = find(st.warehouses, id); return })
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	var out models.Supplier
	err := s.read(func(st *state) (err error) { out, err = find(st.suppliers, id); return })
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) GetInventoryItem(ctx context.Context, id string) (*models.InventoryItem, error) {
	var out models.InventoryItem
	err := s.read(func(st *state) (err error) { out, err = find(st.items, id); return })
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) AdjustInventory(ctx context.Context, itemID string, delta decimal.Decimal) error {
	return s.write(func(st *state) error {
		it, err := find(st.items, itemID)
		if err != nil {
			return err
		}
		next := it.Quantity.Add(delta)
		if next.IsNegative() {
			return repository.ErrInsufficientStock
		}
		it.Quantity = next
		s.stamp(nil, &it.UpdatedAt)
		st.items[itemID] = it
		return nil
	})
}

func matches(f repository.ListFilter, h models.VoucherHeader, warehouseID, projectID string) bool {
	if f.Status != "" && h.Status != f.Status {
		return false
	}
	if f.WarehouseID != "" && warehouseID != f.WarehouseID {
		return false
	}
	if f.ProjectID != "" && projectID != f.ProjectID {
		return false
	}
	if f.Number != "" && !strings.Contains(strings.ToUpper(h.FormNumber), strings.ToUpper(f.Number)) {
		return false
	}
	return true
}

// page orders newest first and applies the filter window.
func page[T any](rows []T, created func(T) time.Time, f repository.ListFilter) []T {
	sort.SliceStable(rows, func(i, j int) bool { return created(rows[i]).After(created(rows[j])) })
	if f.Offset >= len(rows) {
		return []T{}
	}
	rows = rows[f.Offset:]
	if n := f.PageSize(); len(rows) > n {
		rows = rows[:n]
	}
	return rows
}
