package serialgen

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"example.com/furnish/services/serial/internal/models"
	"example.com/furnish/services/serial/internal/repository"
)

func seedSerial(t *testing.T, store *repository.MemoryStore, serial string) {
	t.Helper()
	now := time.Now().UTC()
	unit := &models.SerialUnit{
		Base:         models.Base{UUID: uuid.New().String(), CreatedAt: now, UpdatedAt: now},
		SerialNumber: serial,
		ProductID:    "prod-1",
		Status:       models.StatusAvailable,
		BranchID:     "wh-1",
	}
	require.NoError(t, store.CreateBatch(context.Background(),
		[]*models.SerialUnit{unit},
		[]*models.SerialHistory{{SerialUnitID: unit.UUID, Action: models.ActionCreated, PerformedAt: now}},
	))
}

func TestFormat(t *testing.T) {
	g := NewGenerator("FRN", 6)
	assert.Equal(t, "FRN000001", g.Format(1))
	assert.Equal(t, "FRN000042", g.Format(42))
	assert.Equal(t, "FRN1000000", g.Format(1000000)) // overflows the pad, never truncates

	// Zero or negative width falls back to six digits
	g = NewGenerator("FRN", 0)
	assert.Equal(t, "FRN000007", g.Format(7))
}

func TestBatch(t *testing.T) {
	g := NewGenerator("FRN", 4)
	serials := g.Batch(10, 3)
	assert.Equal(t, []string{"FRN0010", "FRN0011", "FRN0012"}, serials)
}

func TestNextBatchEmptyRegistry(t *testing.T) {
	g := NewGenerator("FRN", 4)
	store := repository.NewMemoryStore()

	serials, err := g.NextBatch(context.Background(), store, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"FRN0001", "FRN0002"}, serials)
}

func TestNextBatchContinuesSequence(t *testing.T) {
	g := NewGenerator("FRN", 4)
	store := repository.NewMemoryStore()

	seedSerial(t, store, "FRN0004")
	seedSerial(t, store, "FRN0009")
	// Foreign formats under the same prefix are ignored
	seedSerial(t, store, "FRNX-99")
	seedSerial(t, store, "OTHER0500")

	serials, err := g.NextBatch(context.Background(), store, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"FRN0010", "FRN0011", "FRN0012"}, serials)
}
