package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/furnish/services/serial/internal/models"
)

func newUnit(serial string, status models.UnitStatus) *models.SerialUnit {
	now := time.Now().UTC()
	return &models.SerialUnit{
		Base: models.Base{
			UUID:      uuid.New().String(),
			CreatedAt: now,
			UpdatedAt: now,
		},
		SerialNumber: serial,
		ProductID:    "prod-1",
		Status:       status,
		BranchID:     "wh-1",
	}
}

func createdEvent(unit *models.SerialUnit) *models.SerialHistory {
	status := unit.Status
	return &models.SerialHistory{
		SerialUnitID: unit.UUID,
		Action:       models.ActionCreated,
		ToStatus:     &status,
		PerformedBy:  "tester",
		PerformedAt:  unit.CreatedAt,
	}
}

func TestMemoryStoreCreateBatchAndLookup(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	u1 := newUnit("SN001", models.StatusAvailable)
	u2 := newUnit("SN002", models.StatusAvailable)
	err := store.CreateBatch(ctx, []*models.SerialUnit{u1, u2}, []*models.SerialHistory{createdEvent(u1), createdEvent(u2)})
	require.NoError(t, err)

	got, err := store.GetByID(ctx, u1.UUID)
	require.NoError(t, err)
	assert.Equal(t, "SN001", got.SerialNumber)

	got, err = store.GetBySerial(ctx, "SN002")
	require.NoError(t, err)
	assert.Equal(t, u2.UUID, got.UUID)

	_, err = store.GetByID(ctx, uuid.New().String())
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetBySerial(ctx, "SN999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreCreateBatchRejectsExistingSerial(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	u1 := newUnit("SN001", models.StatusAvailable)
	require.NoError(t, store.CreateBatch(ctx, []*models.SerialUnit{u1}, []*models.SerialHistory{createdEvent(u1)}))

	dup := newUnit("SN001", models.StatusAvailable)
	fresh := newUnit("SN777", models.StatusAvailable)
	err := store.CreateBatch(ctx, []*models.SerialUnit{fresh, dup}, []*models.SerialHistory{createdEvent(fresh), createdEvent(dup)})
	require.ErrorIs(t, err, ErrDuplicateKey)

	// Nothing from the failed batch landed
	_, err = store.GetBySerial(ctx, "SN777")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreFindExistingSerials(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	u1 := newUnit("SN001", models.StatusAvailable)
	require.NoError(t, store.CreateBatch(ctx, []*models.SerialUnit{u1}, []*models.SerialHistory{createdEvent(u1)}))

	existing, err := store.FindExistingSerials(ctx, []string{"SN001", "SN002", "SN003"})
	require.NoError(t, err)
	assert.Equal(t, []string{"SN001"}, existing)
}

func TestMemoryStoreOptimisticConflict(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	unit := newUnit("SN001", models.StatusAvailable)
	require.NoError(t, store.CreateBatch(ctx, []*models.SerialUnit{unit}, []*models.SerialHistory{createdEvent(unit)}))

	// Two readers take the same version
	first, err := store.GetByID(ctx, unit.UUID)
	require.NoError(t, err)
	second, err := store.GetByID(ctx, unit.UUID)
	require.NoError(t, err)

	first.Status = models.StatusReserved
	require.NoError(t, store.UpdateUnit(ctx, first, &models.SerialHistory{
		SerialUnitID: first.UUID,
		Action:       models.ActionStatusChanged,
		PerformedBy:  "tester",
		PerformedAt:  time.Now().UTC(),
	}))

	// The stale writer loses
	second.Status = models.StatusSold
	err = store.UpdateUnit(ctx, second, nil)
	require.ErrorIs(t, err, ErrConflict)

	got, err := store.GetByID(ctx, unit.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusReserved, got.Status)
}

func TestMemoryStoreUpdateUnitsAllOrNothing(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	u1 := newUnit("SN001", models.StatusAvailable)
	u2 := newUnit("SN002", models.StatusAvailable)
	require.NoError(t, store.CreateBatch(ctx, []*models.SerialUnit{u1, u2}, []*models.SerialHistory{createdEvent(u1), createdEvent(u2)}))

	a, err := store.GetByID(ctx, u1.UUID)
	require.NoError(t, err)
	a.Status = models.StatusTransferred

	// Second unit never existed in the store
	ghost := newUnit("SN003", models.StatusTransferred)

	err = store.UpdateUnits(ctx,
		[]*models.SerialUnit{a, ghost},
		[]*models.SerialHistory{{SerialUnitID: a.UUID}, {SerialUnitID: ghost.UUID}},
	)
	require.ErrorIs(t, err, ErrNotFound)

	// The first unit must be untouched
	got, err := store.GetByID(ctx, u1.UUID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusAvailable, got.Status)
}

func TestMemoryStoreUpdateUnitsSelfConflictingBatch(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	unit := newUnit("SN001", models.StatusAvailable)
	require.NoError(t, store.CreateBatch(ctx, []*models.SerialUnit{unit}, []*models.SerialHistory{createdEvent(unit)}))

	// Two writes to the same unit carrying the same version: the second is
	// stale against the staged first write, so nothing may land
	a, err := store.GetByID(ctx, unit.UUID)
	require.NoError(t, err)
	b, err := store.GetByID(ctx, unit.UUID)
	require.NoError(t, err)
	cost := 999.0
	a.UnitCost = &cost
	b.UnitCost = &cost

	err = store.UpdateUnits(ctx,
		[]*models.SerialUnit{a, b},
		[]*models.SerialHistory{
			{SerialUnitID: a.UUID, Action: models.ActionUpdated},
			{SerialUnitID: b.UUID, Action: models.ActionUpdated},
		},
	)
	require.ErrorIs(t, err, ErrConflict)

	got, err := store.GetByID(ctx, unit.UUID)
	require.NoError(t, err)
	assert.Nil(t, got.UnitCost)

	events, err := store.GetHistory(ctx, unit.UUID)
	require.NoError(t, err)
	assert.Len(t, events, 1)
}

func TestMemoryStoreHistoryMostRecentFirst(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	unit := newUnit("SN001", models.StatusAvailable)
	require.NoError(t, store.CreateBatch(ctx, []*models.SerialUnit{unit}, []*models.SerialHistory{createdEvent(unit)}))

	got, err := store.GetByID(ctx, unit.UUID)
	require.NoError(t, err)
	got.Status = models.StatusReserved
	require.NoError(t, store.UpdateUnit(ctx, got, &models.SerialHistory{
		SerialUnitID: unit.UUID,
		Action:       models.ActionStatusChanged,
		PerformedBy:  "tester",
		PerformedAt:  time.Now().UTC(),
	}))

	events, err := store.GetHistory(ctx, unit.UUID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.ActionStatusChanged, events[0].Action)
	assert.Equal(t, models.ActionCreated, events[1].Action)
}

func TestMemoryStoreListFilters(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	warranty := time.Now().UTC().AddDate(1, 0, 0)
	purchased := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)
	supplier := "sup-1"

	u1 := newUnit("SOFA001", models.StatusAvailable)
	u1.Position = "A-01"
	u1.WarrantyExpiry = &warranty
	u1.PurchaseDate = &purchased
	u1.SupplierID = &supplier

	u2 := newUnit("TABLE001", models.StatusSold)
	u2.BranchID = "wh-2"
	u2.Notes = "scratched sofa leg"

	require.NoError(t, store.CreateBatch(ctx, []*models.SerialUnit{u1, u2}, []*models.SerialHistory{createdEvent(u1), createdEvent(u2)}))

	// Free-text query matches serials and notes, case-insensitively
	units, err := store.List(ctx, ListFilter{Query: "sofa"})
	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "SOFA001", units[0].SerialNumber)
	assert.Equal(t, "TABLE001", units[1].SerialNumber)

	status := models.StatusSold
	units, err = store.List(ctx, ListFilter{Status: &status})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "TABLE001", units[0].SerialNumber)

	units, err = store.List(ctx, ListFilter{BranchID: "wh-2"})
	require.NoError(t, err)
	require.Len(t, units, 1)

	units, err = store.List(ctx, ListFilter{SupplierID: "sup-1"})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "SOFA001", units[0].SerialNumber)

	hasWarranty := true
	units, err = store.List(ctx, ListFilter{HasWarranty: &hasWarranty})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "SOFA001", units[0].SerialNumber)

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC)
	units, err = store.List(ctx, ListFilter{PurchaseFrom: &from, PurchaseTo: &to})
	require.NoError(t, err)
	require.Len(t, units, 1)
	assert.Equal(t, "SOFA001", units[0].SerialNumber)

	after := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	units, err = store.List(ctx, ListFilter{PurchaseFrom: &after})
	require.NoError(t, err)
	assert.Empty(t, units)
}

func TestMemoryStoreSearchBySerialLimit(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 4; i++ {
		unit := newUnit("SN00"+string(rune('1'+i)), models.StatusAvailable)
		unit.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		require.NoError(t, store.CreateBatch(ctx, []*models.SerialUnit{unit}, []*models.SerialHistory{createdEvent(unit)}))
	}

	units, err := store.SearchBySerial(ctx, "sn00", 2)
	require.NoError(t, err)
	require.Len(t, units, 2)
	// Newest first
	assert.Equal(t, "SN004", units[0].SerialNumber)
	assert.Equal(t, "SN003", units[1].SerialNumber)

	// Zero means unbounded
	units, err = store.SearchBySerial(ctx, "sn00", 0)
	require.NoError(t, err)
	assert.Len(t, units, 4)
}

func TestMemoryStoreCountByStatus(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	u1 := newUnit("SN001", models.StatusAvailable)
	u2 := newUnit("SN002", models.StatusSold)
	u3 := newUnit("SN003", models.StatusSold)
	u3.BranchID = "wh-2"
	require.NoError(t, store.CreateBatch(ctx,
		[]*models.SerialUnit{u1, u2, u3},
		[]*models.SerialHistory{createdEvent(u1), createdEvent(u2), createdEvent(u3)},
	))

	counts, err := store.CountByStatus(ctx, StatsFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.StatusAvailable])
	assert.Equal(t, int64(2), counts[models.StatusSold])

	counts, err = store.CountByStatus(ctx, StatsFilter{BranchID: "wh-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[models.StatusSold])
}
