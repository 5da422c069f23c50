package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"example.com/furnish/services/serial/internal/repository"
)

// WarehouseHandler exposes the reference directory's location hierarchy so
// callers can build valid position locators
type WarehouseHandler struct {
	refs repository.ReferenceDirectory
	log  *logrus.Logger
}

// NewWarehouseHandler creates a new WarehouseHandler instance
func NewWarehouseHandler(refs repository.ReferenceDirectory, log *logrus.Logger) *WarehouseHandler {
	return &WarehouseHandler{refs: refs, log: log}
}

// ListWarehouses lists all warehouses
func (h *WarehouseHandler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.refs.ListWarehouses(c.Request.Context())
	if err != nil {
		h.log.WithError(err).Error("Failed to list warehouses")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list warehouses"})
		return
	}
	c.JSON(http.StatusOK, warehouses)
}

// ListZones lists the zones of one warehouse
func (h *WarehouseHandler) ListZones(c *gin.Context) {
	warehouseID := c.Param("id")
	if _, err := h.refs.GetWarehouse(c.Request.Context(), warehouseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Warehouse not found"})
			return
		}
		h.log.WithError(err).Error("Failed to resolve warehouse")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve warehouse"})
		return
	}

	zones, err := h.refs.ListZones(c.Request.Context(), warehouseID)
	if err != nil {
		h.log.WithError(err).Error("Failed to list zones")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list zones"})
		return
	}
	c.JSON(http.StatusOK, zones)
}

// ListShelves lists the shelves of one zone
func (h *WarehouseHandler) ListShelves(c *gin.Context) {
	shelves, err := h.refs.ListShelves(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.log.WithError(err).Error("Failed to list shelves")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list shelves"})
		return
	}
	c.JSON(http.StatusOK, shelves)
}
