package repository

import (
	"context"
	"time"

	"example.com/furnish/services/serial/internal/models"
)

// ListFilter narrows a unit listing. All set fields compose with AND.
type ListFilter struct {
	// Query matches serial number or notes as a substring
	Query      string
	Status     *models.UnitStatus
	BranchID   string
	ProductID  string
	SupplierID string
	// PurchaseFrom/PurchaseTo bound the purchase date
	PurchaseFrom *time.Time
	PurchaseTo   *time.Time
	// Position matches the position locator as a substring
	Position string
	// HasWarranty filters on warranty presence when set
	HasWarranty *bool
}

// StatsFilter scopes status statistics
type StatsFilter struct {
	BranchID   string
	ProductID  string
	SupplierID string
}

// SerialUnitStore is the persistence contract for the unit registry and its
// history ledger. Every mutating method appends its history events in the
// same transaction as the row changes, so the registry and the ledger can
// never diverge.
type SerialUnitStore interface {
	// CreateBatch inserts all units and their creation events, or nothing
	CreateBatch(ctx context.Context, units []*models.SerialUnit, events []*models.SerialHistory) error
	GetByID(ctx context.Context, id string) (*models.SerialUnit, error)
	GetBySerial(ctx context.Context, serial string) (*models.SerialUnit, error)
	// FindExistingSerials returns the subset of serials already registered
	FindExistingSerials(ctx context.Context, serials []string) ([]string, error)
	List(ctx context.Context, filter ListFilter) ([]*models.SerialUnit, error)
	// SearchBySerial returns units whose serial contains q, newest first
	SearchBySerial(ctx context.Context, q string, limit int) ([]*models.SerialUnit, error)
	// UpdateUnit writes a unit and appends one event. Fails with ErrConflict
	// if the stored lock version no longer matches the unit's.
	UpdateUnit(ctx context.Context, unit *models.SerialUnit, event *models.SerialHistory) error
	// UpdateUnits applies all writes and events in one transaction
	UpdateUnits(ctx context.Context, units []*models.SerialUnit, events []*models.SerialHistory) error
	// GetHistory returns a unit's events, most recent first
	GetHistory(ctx context.Context, unitID string) ([]*models.SerialHistory, error)
	CountByStatus(ctx context.Context, filter StatsFilter) (map[models.UnitStatus]int64, error)
}
