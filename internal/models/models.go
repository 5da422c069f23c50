package models

import (
	"time"
)

// Base model fields shared by all models
type Base struct {
	UUID      string    `json:"uuid" gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SerialUnit represents one physical, individually-serialized inventory item
// tracked for its entire lifecycle. The serial number is assigned once at
// goods receipt and is never reassigned, even after disposal.
type SerialUnit struct {
	Base
	SerialNumber    string     `json:"serial_number" gorm:"column:serial_number;uniqueIndex"`
	ProductID       string     `json:"product_id" gorm:"column:product_id;index"`
	SupplierID      *string    `json:"supplier_id" gorm:"column:supplier_id;index"`
	PurchaseOrderID *string    `json:"purchase_order_id" gorm:"column:purchase_order_id"`
	Status          UnitStatus `json:"status" gorm:"column:status;index"`
	BranchID        string     `json:"branch_id" gorm:"column:branch_id;index"`
	Position        string     `json:"position" gorm:"column:position"`
	UnitCost        *float64   `json:"unit_cost" gorm:"column:unit_cost"`
	PurchaseDate    *time.Time `json:"purchase_date" gorm:"column:purchase_date"`
	WarrantyExpiry  *time.Time `json:"warranty_expiry" gorm:"column:warranty_expiry"`
	Notes           string     `json:"notes" gorm:"column:notes"`
	CreatedBy       string     `json:"created_by" gorm:"column:created_by"`
	UpdatedBy       string     `json:"updated_by" gorm:"column:updated_by"`
	// LockVersion implements optimistic concurrency: a write only lands if
	// the stored version still matches the one the writer read.
	LockVersion int64 `json:"-" gorm:"column:lock_version"`
}

// HistoryAction defines the kind of mutation a history event records
type HistoryAction string

const (
	// ActionCreated is the first event of every unit
	ActionCreated HistoryAction = "created"
	// ActionStatusChanged records a lifecycle transition
	ActionStatusChanged HistoryAction = "status_changed"
	// ActionTransferred records a warehouse/position move
	ActionTransferred HistoryAction = "transferred"
	// ActionUpdated records a non-status field patch
	ActionUpdated HistoryAction = "updated"
)

// SerialHistory is an append-only record of one accepted mutation.
// Rows are never updated or deleted.
type SerialHistory struct {
	ID           uint          `json:"id" gorm:"primaryKey"`
	SerialUnitID string        `json:"serial_unit_id" gorm:"column:serial_unit_id;type:uuid;index"`
	Action       HistoryAction `json:"action" gorm:"column:action"`
	FromStatus   *UnitStatus   `json:"from_status" gorm:"column:from_status"`
	ToStatus     *UnitStatus   `json:"to_status" gorm:"column:to_status"`
	FromBranchID *string       `json:"from_branch_id" gorm:"column:from_branch_id"`
	ToBranchID   *string       `json:"to_branch_id" gorm:"column:to_branch_id"`
	FromPosition *string       `json:"from_position" gorm:"column:from_position"`
	ToPosition   *string       `json:"to_position" gorm:"column:to_position"`
	OrderID      *string       `json:"order_id" gorm:"column:order_id"`
	CustomerID   *string       `json:"customer_id" gorm:"column:customer_id"`
	Notes        string        `json:"notes" gorm:"column:notes"`
	PerformedBy  string        `json:"performed_by" gorm:"column:performed_by"`
	PerformedAt  time.Time     `json:"performed_at" gorm:"column:performed_at;index"`
}

// Product is reference-directory master data, read-only here
type Product struct {
	Base
	Code string `json:"code" gorm:"column:code;uniqueIndex"`
	Name string `json:"name" gorm:"column:name"`
}

// Supplier is reference-directory master data, read-only here
type Supplier struct {
	Base
	Code string `json:"code" gorm:"column:code;uniqueIndex"`
	Name string `json:"name" gorm:"column:name"`
}

// PurchaseOrder is reference-directory master data, read-only here
type PurchaseOrder struct {
	Base
	Number     string  `json:"number" gorm:"column:number;uniqueIndex"`
	SupplierID *string `json:"supplier_id" gorm:"column:supplier_id"`
}

// Warehouse is a branch that can hold serial units
type Warehouse struct {
	Base
	Code string `json:"code" gorm:"column:code;uniqueIndex"`
	Name string `json:"name" gorm:"column:name"`
}

// WarehouseZone is a zone inside a warehouse
type WarehouseZone struct {
	Base
	WarehouseID string `json:"warehouse_id" gorm:"column:warehouse_id;type:uuid;index"`
	Code        string `json:"code" gorm:"column:code"`
	Name        string `json:"name" gorm:"column:name"`
}

// WarehouseShelf is a shelf inside a zone
type WarehouseShelf struct {
	Base
	ZoneID string `json:"zone_id" gorm:"column:zone_id;type:uuid;index"`
	Code   string `json:"code" gorm:"column:code"`
}

// StatusStatistics is a derived aggregate recomputed from the registry on
// demand; it is never persisted so it cannot drift from the ledger.
type StatusStatistics struct {
	Total  int64                `json:"total"`
	Counts map[UnitStatus]int64 `json:"counts"`
}

// NewStatusStatistics returns statistics with every known status zero-filled
func NewStatusStatistics() *StatusStatistics {
	counts := make(map[UnitStatus]int64, len(AllStatuses))
	for _, s := range AllStatuses {
		counts[s] = 0
	}
	return &StatusStatistics{Counts: counts}
}
