package service

import (
	"context"
	"encoding/csv"
	"errors"
	"strconv"
	"strings"

	"example.com/furnish/services/serial/internal/models"
	"example.com/furnish/services/serial/internal/repository"
)

// csvHeader is the fixed, deterministic export column order
var csvHeader = []string{
	"Serial Number",
	"Product Code",
	"Product Name",
	"Warehouse",
	"Status",
	"Position",
	"Unit Cost",
	"Purchase Date",
	"Warranty Expiry",
	"Created At",
	"Notes",
}

const csvDateLayout = "2006-01-02"
const csvTimestampLayout = "2006-01-02 15:04:05"

// ExportCSV renders the filtered registry as CSV, one row per unit, header
// first. Rows are ordered by serial number so repeat exports of the same
// data are byte-identical.
func (s *serialService) ExportCSV(ctx context.Context, filter repository.ListFilter) (string, error) {
	units, err := s.store.List(ctx, filter)
	if err != nil {
		return "", err
	}

	// Resolve product and warehouse names once per distinct id
	products := make(map[string]*models.Product)
	warehouses := make(map[string]*models.Warehouse)
	for _, unit := range units {
		if _, ok := products[unit.ProductID]; !ok {
			product, err := s.refs.GetProduct(ctx, unit.ProductID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return "", err
			}
			products[unit.ProductID] = product
		}
		if _, ok := warehouses[unit.BranchID]; !ok {
			warehouse, err := s.refs.GetWarehouse(ctx, unit.BranchID)
			if err != nil && !errors.Is(err, repository.ErrNotFound) {
				return "", err
			}
			warehouses[unit.BranchID] = warehouse
		}
	}

	var buf strings.Builder
	writer := csv.NewWriter(&buf)
	if err := writer.Write(csvHeader); err != nil {
		return "", err
	}

	for _, unit := range units {
		productCode, productName := "", ""
		if product := products[unit.ProductID]; product != nil {
			productCode, productName = product.Code, product.Name
		}
		warehouseName := unit.BranchID
		if warehouse := warehouses[unit.BranchID]; warehouse != nil {
			warehouseName = warehouse.Name
		}

		unitCost := ""
		if unit.UnitCost != nil {
			unitCost = strconv.FormatFloat(*unit.UnitCost, 'f', 2, 64)
		}
		purchaseDate := ""
		if unit.PurchaseDate != nil {
			purchaseDate = unit.PurchaseDate.Format(csvDateLayout)
		}
		warrantyExpiry := ""
		if unit.WarrantyExpiry != nil {
			warrantyExpiry = unit.WarrantyExpiry.Format(csvDateLayout)
		}

		row := []string{
			unit.SerialNumber,
			productCode,
			productName,
			warehouseName,
			string(unit.Status),
			unit.Position,
			unitCost,
			purchaseDate,
			warrantyExpiry,
			unit.CreatedAt.Format(csvTimestampLayout),
			unit.Notes,
		}
		if err := writer.Write(row); err != nil {
			return "", err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return "", err
	}
	return buf.String(), nil
}
