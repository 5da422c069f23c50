package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"example.com/furnish/services/serial/internal/models"
)

// gormStore implements SerialUnitStore on postgres via GORM
type gormStore struct {
	db *gorm.DB
}

// NewGormStore creates the production SerialUnitStore
func NewGormStore(db *gorm.DB) SerialUnitStore {
	return &gormStore{db: db}
}

// CreateBatch creates all units and their creation events in one transaction
func (s *gormStore) CreateBatch(ctx context.Context, units []*models.SerialUnit, events []*models.SerialHistory) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, unit := range units {
			if err := tx.Create(unit).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return ErrDuplicateKey
				}
				return fmt.Errorf("failed to create unit %s: %w", unit.SerialNumber, err)
			}
		}
		for _, event := range events {
			if err := tx.Create(event).Error; err != nil {
				return fmt.Errorf("failed to append history event: %w", err)
			}
		}
		return nil
	})
}

// GetByID gets a unit by its internal id
func (s *gormStore) GetByID(ctx context.Context, id string) (*models.SerialUnit, error) {
	var unit models.SerialUnit
	err := s.db.WithContext(ctx).Where("uuid = ?", id).First(&unit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// GetBySerial gets a unit by its serial number
func (s *gormStore) GetBySerial(ctx context.Context, serial string) (*models.SerialUnit, error) {
	var unit models.SerialUnit
	err := s.db.WithContext(ctx).Where("serial_number = ?", serial).First(&unit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &unit, nil
}

// FindExistingSerials returns the subset of the given serials that are
// already registered
func (s *gormStore) FindExistingSerials(ctx context.Context, serials []string) ([]string, error) {
	var existing []string
	err := s.db.WithContext(ctx).
		Model(&models.SerialUnit{}).
		Where("serial_number IN ?", serials).
		Pluck("serial_number", &existing).Error
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// List returns units matching the filter, ordered by serial number
func (s *gormStore) List(ctx context.Context, filter ListFilter) ([]*models.SerialUnit, error) {
	query := s.db.WithContext(ctx).Model(&models.SerialUnit{})

	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where("serial_number ILIKE ? OR notes ILIKE ?", like, like)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.BranchID != "" {
		query = query.Where("branch_id = ?", filter.BranchID)
	}
	if filter.ProductID != "" {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.SupplierID != "" {
		query = query.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.PurchaseFrom != nil {
		query = query.Where("purchase_date >= ?", *filter.PurchaseFrom)
	}
	if filter.PurchaseTo != nil {
		query = query.Where("purchase_date <= ?", *filter.PurchaseTo)
	}
	if filter.Position != "" {
		query = query.Where("position ILIKE ?", "%"+filter.Position+"%")
	}
	if filter.HasWarranty != nil {
		if *filter.HasWarranty {
			query = query.Where("warranty_expiry IS NOT NULL")
		} else {
			query = query.Where("warranty_expiry IS NULL")
		}
	}

	var units []*models.SerialUnit
	if err := query.Order("serial_number").Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// SearchBySerial returns units whose serial number contains q, newest first
func (s *gormStore) SearchBySerial(ctx context.Context, q string, limit int) ([]*models.SerialUnit, error) {
	query := s.db.WithContext(ctx).
		Where("serial_number ILIKE ?", "%"+q+"%").
		Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var units []*models.SerialUnit
	if err := query.Find(&units).Error; err != nil {
		return nil, err
	}
	return units, nil
}

// UpdateUnit writes a unit and appends one history event atomically
func (s *gormStore) UpdateUnit(ctx context.Context, unit *models.SerialUnit, event *models.SerialHistory) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyUnitUpdate(tx, unit, event)
	})
}

// UpdateUnits applies a batch of writes and events in one transaction
func (s *gormStore) UpdateUnits(ctx context.Context, units []*models.SerialUnit, events []*models.SerialHistory) error {
	if len(units) != len(events) {
		return fmt.Errorf("units and events length mismatch: %d != %d", len(units), len(events))
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, unit := range units {
			if err := applyUnitUpdate(tx, unit, events[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// applyUnitUpdate performs the optimistic write. The row is only touched if
// its lock version still matches the one the caller read.
func applyUnitUpdate(tx *gorm.DB, unit *models.SerialUnit, event *models.SerialHistory) error {
	prev := unit.LockVersion
	unit.LockVersion = prev + 1

	res := tx.Model(&models.SerialUnit{}).
		Where("uuid = ? AND lock_version = ?", unit.UUID, prev).
		Select("*").
		Omit("uuid", "created_at").
		Updates(unit)
	if res.Error != nil {
		unit.LockVersion = prev
		return res.Error
	}
	if res.RowsAffected == 0 {
		unit.LockVersion = prev
		return ErrConflict
	}
	if event != nil {
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("failed to append history event: %w", err)
		}
	}
	return nil
}

// GetHistory returns a unit's history events, most recent first
func (s *gormStore) GetHistory(ctx context.Context, unitID string) ([]*models.SerialHistory, error) {
	var events []*models.SerialHistory
	err := s.db.WithContext(ctx).
		Where("serial_unit_id = ?", unitID).
		Order("performed_at DESC, id DESC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}

// CountByStatus counts units per status under the given scope
func (s *gormStore) CountByStatus(ctx context.Context, filter StatsFilter) (map[models.UnitStatus]int64, error) {
	query := s.db.WithContext(ctx).Model(&models.SerialUnit{})
	if filter.BranchID != "" {
		query = query.Where("branch_id = ?", filter.BranchID)
	}
	if filter.ProductID != "" {
		query = query.Where("product_id = ?", filter.ProductID)
	}
	if filter.SupplierID != "" {
		query = query.Where("supplier_id = ?", filter.SupplierID)
	}

	var rows []struct {
		Status models.UnitStatus
		Count  int64
	}
	if err := query.Select("status, count(*) as count").Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[models.UnitStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
