package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"example.com/furnish/services/serial/internal/models"
)

// MemoryStore is an in-memory SerialUnitStore. It mirrors the semantics of
// the GORM store, including optimistic concurrency and atomic batches, and
// is constructed fresh per test.
type MemoryStore struct {
	mu       sync.RWMutex
	units    map[string]*models.SerialUnit // keyed by uuid
	bySerial map[string]string             // serial -> uuid
	history  []*models.SerialHistory
	nextID   uint
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		units:    make(map[string]*models.SerialUnit),
		bySerial: make(map[string]string),
	}
}

func copyUnit(u *models.SerialUnit) *models.SerialUnit {
	c := *u
	return &c
}

func copyEvent(e *models.SerialHistory) *models.SerialHistory {
	c := *e
	return &c
}

// CreateBatch inserts all units and events, or nothing
func (s *MemoryStore) CreateBatch(ctx context.Context, units []*models.SerialUnit, events []*models.SerialHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, unit := range units {
		if _, exists := s.bySerial[unit.SerialNumber]; exists {
			return ErrDuplicateKey
		}
	}
	for _, unit := range units {
		s.units[unit.UUID] = copyUnit(unit)
		s.bySerial[unit.SerialNumber] = unit.UUID
	}
	s.appendEvents(events)
	return nil
}

func (s *MemoryStore) appendEvents(events []*models.SerialHistory) {
	for _, event := range events {
		s.nextID++
		stored := copyEvent(event)
		stored.ID = s.nextID
		event.ID = s.nextID
		s.history = append(s.history, stored)
	}
}

// GetByID gets a unit by its internal id
func (s *MemoryStore) GetByID(ctx context.Context, id string) (*models.SerialUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	unit, ok := s.units[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUnit(unit), nil
}

// GetBySerial gets a unit by serial number
func (s *MemoryStore) GetBySerial(ctx context.Context, serial string) (*models.SerialUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.bySerial[serial]
	if !ok {
		return nil, ErrNotFound
	}
	return copyUnit(s.units[id]), nil
}

// FindExistingSerials returns the subset of serials already registered
func (s *MemoryStore) FindExistingSerials(ctx context.Context, serials []string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var existing []string
	for _, serial := range serials {
		if _, ok := s.bySerial[serial]; ok {
			existing = append(existing, serial)
		}
	}
	return existing, nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func matchesFilter(u *models.SerialUnit, f ListFilter) bool {
	if f.Query != "" && !containsFold(u.SerialNumber, f.Query) && !containsFold(u.Notes, f.Query) {
		return false
	}
	if f.Status != nil && u.Status != *f.Status {
		return false
	}
	if f.BranchID != "" && u.BranchID != f.BranchID {
		return false
	}
	if f.ProductID != "" && u.ProductID != f.ProductID {
		return false
	}
	if f.SupplierID != "" && (u.SupplierID == nil || *u.SupplierID != f.SupplierID) {
		return false
	}
	if f.PurchaseFrom != nil && (u.PurchaseDate == nil || u.PurchaseDate.Before(*f.PurchaseFrom)) {
		return false
	}
	if f.PurchaseTo != nil && (u.PurchaseDate == nil || u.PurchaseDate.After(*f.PurchaseTo)) {
		return false
	}
	if f.Position != "" && !containsFold(u.Position, f.Position) {
		return false
	}
	if f.HasWarranty != nil {
		if *f.HasWarranty && u.WarrantyExpiry == nil {
			return false
		}
		if !*f.HasWarranty && u.WarrantyExpiry != nil {
			return false
		}
	}
	return true
}

// List returns units matching the filter, ordered by serial number
func (s *MemoryStore) List(ctx context.Context, filter ListFilter) ([]*models.SerialUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var units []*models.SerialUnit
	for _, unit := range s.units {
		if matchesFilter(unit, filter) {
			units = append(units, copyUnit(unit))
		}
	}
	sort.Slice(units, func(i, j int) bool {
		return units[i].SerialNumber < units[j].SerialNumber
	})
	return units, nil
}

// SearchBySerial returns units whose serial contains q, newest first
func (s *MemoryStore) SearchBySerial(ctx context.Context, q string, limit int) ([]*models.SerialUnit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var units []*models.SerialUnit
	for _, unit := range s.units {
		if containsFold(unit.SerialNumber, q) {
			units = append(units, copyUnit(unit))
		}
	}
	sort.Slice(units, func(i, j int) bool {
		return units[i].CreatedAt.After(units[j].CreatedAt)
	})
	if limit > 0 && len(units) > limit {
		units = units[:limit]
	}
	return units, nil
}

func (s *MemoryStore) applyUpdate(unit *models.SerialUnit, event *models.SerialHistory) error {
	stored, ok := s.units[unit.UUID]
	if !ok {
		return ErrNotFound
	}
	if stored.LockVersion != unit.LockVersion {
		return ErrConflict
	}
	unit.LockVersion++
	s.units[unit.UUID] = copyUnit(unit)
	if event != nil {
		s.appendEvents([]*models.SerialHistory{event})
	}
	return nil
}

// UpdateUnit writes a unit and appends one event atomically
func (s *MemoryStore) UpdateUnit(ctx context.Context, unit *models.SerialUnit, event *models.SerialHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applyUpdate(unit, event)
}

// UpdateUnits applies all writes and events, or nothing. Validation runs
// against a staged view so a batch that would conflict with itself fails
// before any write lands.
func (s *MemoryStore) UpdateUnits(ctx context.Context, units []*models.SerialUnit, events []*models.SerialHistory) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	staged := make(map[string]int64, len(units))
	for _, unit := range units {
		stored, ok := s.units[unit.UUID]
		if !ok {
			return ErrNotFound
		}
		expected := stored.LockVersion
		if v, seen := staged[unit.UUID]; seen {
			expected = v
		}
		if unit.LockVersion != expected {
			return ErrConflict
		}
		staged[unit.UUID] = unit.LockVersion + 1
	}

	for i, unit := range units {
		unit.LockVersion++
		s.units[unit.UUID] = copyUnit(unit)
		if events[i] != nil {
			s.appendEvents([]*models.SerialHistory{events[i]})
		}
	}
	return nil
}

// GetHistory returns a unit's events, most recent first
func (s *MemoryStore) GetHistory(ctx context.Context, unitID string) ([]*models.SerialHistory, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var events []*models.SerialHistory
	for _, event := range s.history {
		if event.SerialUnitID == unitID {
			events = append(events, copyEvent(event))
		}
	}
	sort.Slice(events, func(i, j int) bool {
		return events[i].ID > events[j].ID
	})
	return events, nil
}

// CountByStatus counts units per status under the given scope
func (s *MemoryStore) CountByStatus(ctx context.Context, filter StatsFilter) (map[models.UnitStatus]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	counts := make(map[models.UnitStatus]int64)
	for _, unit := range s.units {
		if filter.BranchID != "" && unit.BranchID != filter.BranchID {
			continue
		}
		if filter.ProductID != "" && unit.ProductID != filter.ProductID {
			continue
		}
		if filter.SupplierID != "" && (unit.SupplierID == nil || *unit.SupplierID != filter.SupplierID) {
			continue
		}
		counts[unit.Status]++
	}
	return counts, nil
}
