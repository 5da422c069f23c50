package repository

import (
	"context"
	"errors"
	"sync"

	"gorm.io/gorm"

	"example.com/furnish/services/serial/internal/models"
)

// ReferenceDirectory exposes read-only master data lookups. The serial
// service resolves branches, products and positions against it but never
// writes to it.
type ReferenceDirectory interface {
	GetWarehouse(ctx context.Context, id string) (*models.Warehouse, error)
	ListWarehouses(ctx context.Context) ([]*models.Warehouse, error)
	ListZones(ctx context.Context, warehouseID string) ([]*models.WarehouseZone, error)
	ListShelves(ctx context.Context, zoneID string) ([]*models.WarehouseShelf, error)
	GetProduct(ctx context.Context, id string) (*models.Product, error)
	GetSupplier(ctx context.Context, id string) (*models.Supplier, error)
	GetPurchaseOrder(ctx context.Context, id string) (*models.PurchaseOrder, error)
}

// gormReferenceDirectory implements ReferenceDirectory on the shared database
type gormReferenceDirectory struct {
	db *gorm.DB
}

// NewGormReferenceDirectory creates the production reference directory
func NewGormReferenceDirectory(db *gorm.DB) ReferenceDirectory {
	return &gormReferenceDirectory{db: db}
}

func (r *gormReferenceDirectory) GetWarehouse(ctx context.Context, id string) (*models.Warehouse, error) {
	var warehouse models.Warehouse
	err := r.db.WithContext(ctx).Where("uuid = ?", id).First(&warehouse).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &warehouse, nil
}

func (r *gormReferenceDirectory) ListWarehouses(ctx context.Context) ([]*models.Warehouse, error) {
	var warehouses []*models.Warehouse
	if err := r.db.WithContext(ctx).Order("code").Find(&warehouses).Error; err != nil {
		return nil, err
	}
	return warehouses, nil
}

func (r *gormReferenceDirectory) ListZones(ctx context.Context, warehouseID string) ([]*models.WarehouseZone, error) {
	var zones []*models.WarehouseZone
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ?", warehouseID).
		Order("code").
		Find(&zones).Error
	if err != nil {
		return nil, err
	}
	return zones, nil
}

func (r *gormReferenceDirectory) ListShelves(ctx context.Context, zoneID string) ([]*models.WarehouseShelf, error) {
	var shelves []*models.WarehouseShelf
	err := r.db.WithContext(ctx).
		Where("zone_id = ?", zoneID).
		Order("code").
		Find(&shelves).Error
	if err != nil {
		return nil, err
	}
	return shelves, nil
}

func (r *gormReferenceDirectory) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("uuid = ?", id).First(&product).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *gormReferenceDirectory) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	var supplier models.Supplier
	err := r.db.WithContext(ctx).Where("uuid = ?", id).First(&supplier).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

func (r *gormReferenceDirectory) GetPurchaseOrder(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	var order models.PurchaseOrder
	err := r.db.WithContext(ctx).Where("uuid = ?", id).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// MemoryReferenceDirectory is an in-memory ReferenceDirectory for tests
type MemoryReferenceDirectory struct {
	mu             sync.RWMutex
	Warehouses     map[string]*models.Warehouse
	Zones          map[string][]*models.WarehouseZone  // keyed by warehouse id
	Shelves        map[string][]*models.WarehouseShelf // keyed by zone id
	Products       map[string]*models.Product
	Suppliers      map[string]*models.Supplier
	PurchaseOrders map[string]*models.PurchaseOrder
}

// NewMemoryReferenceDirectory creates an empty in-memory directory
func NewMemoryReferenceDirectory() *MemoryReferenceDirectory {
	return &MemoryReferenceDirectory{
		Warehouses:     make(map[string]*models.Warehouse),
		Zones:          make(map[string][]*models.WarehouseZone),
		Shelves:        make(map[string][]*models.WarehouseShelf),
		Products:       make(map[string]*models.Product),
		Suppliers:      make(map[string]*models.Supplier),
		PurchaseOrders: make(map[string]*models.PurchaseOrder),
	}
}

func (m *MemoryReferenceDirectory) GetWarehouse(ctx context.Context, id string) (*models.Warehouse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	warehouse, ok := m.Warehouses[id]
	if !ok {
		return nil, ErrNotFound
	}
	return warehouse, nil
}

func (m *MemoryReferenceDirectory) ListWarehouses(ctx context.Context) ([]*models.Warehouse, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var warehouses []*models.Warehouse
	for _, warehouse := range m.Warehouses {
		warehouses = append(warehouses, warehouse)
	}
	return warehouses, nil
}

func (m *MemoryReferenceDirectory) ListZones(ctx context.Context, warehouseID string) ([]*models.WarehouseZone, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Zones[warehouseID], nil
}

func (m *MemoryReferenceDirectory) ListShelves(ctx context.Context, zoneID string) ([]*models.WarehouseShelf, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.Shelves[zoneID], nil
}

func (m *MemoryReferenceDirectory) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	product, ok := m.Products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return product, nil
}

func (m *MemoryReferenceDirectory) GetSupplier(ctx context.Context, id string) (*models.Supplier, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	supplier, ok := m.Suppliers[id]
	if !ok {
		return nil, ErrNotFound
	}
	return supplier, nil
}

func (m *MemoryReferenceDirectory) GetPurchaseOrder(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.PurchaseOrders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return order, nil
}
