package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"example.com/furnish/services/serial/internal/models"
	"example.com/furnish/services/serial/internal/repository"
	"example.com/furnish/services/serial/internal/serialgen"
	"example.com/furnish/services/serial/internal/service"
	"example.com/furnish/services/serial/utils"
)

// SerialHandler handles serial unit requests
type SerialHandler struct {
	service   service.SerialService
	generator *serialgen.Generator
	store     repository.SerialUnitStore
	log       *logrus.Logger
}

// NewSerialHandler creates a new SerialHandler instance
func NewSerialHandler(svc service.SerialService, generator *serialgen.Generator, store repository.SerialUnitStore, log *logrus.Logger) *SerialHandler {
	return &SerialHandler{
		service:   svc,
		generator: generator,
		store:     store,
		log:       log,
	}
}

// CreateBatch registers a batch of serial units from a goods receipt
func (h *SerialHandler) CreateBatch(c *gin.Context) {
	var req service.CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.WithError(err).Warn("Invalid create batch payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	units, err := h.service.CreateBatch(c.Request.Context(), &req)
	if err != nil {
		WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, units)
}

// GetUnit returns one unit by internal id
func (h *SerialHandler) GetUnit(c *gin.Context) {
	unit, err := h.service.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

// ListUnits returns units matching the query filters
func (h *SerialHandler) ListUnits(c *gin.Context) {
	filter, err := listFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	units, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, units)
}

// Search looks a unit up by identifier, falling back to fuzzy suggestions
func (h *SerialHandler) Search(c *gin.Context) {
	result, err := h.service.SearchBySerial(c.Request.Context(), c.Query("q"))
	if err != nil {
		WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// UpdateStatus moves a unit through the lifecycle
func (h *SerialHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.WithError(err).Warn("Invalid status update payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unit, err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, unit)
}

// Transfer moves a batch of units to another warehouse position
func (h *SerialHandler) Transfer(c *gin.Context) {
	var req service.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.WithError(err).Warn("Invalid transfer payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	units, err := h.service.Transfer(c.Request.Context(), &req)
	if err != nil {
		WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, units)
}

// BulkUpdate applies a uniform field patch to a batch of units
func (h *SerialHandler) BulkUpdate(c *gin.Context) {
	var req service.BulkUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.log.WithError(err).Warn("Invalid bulk update payload")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	units, err := h.service.BulkUpdate(c.Request.Context(), &req)
	if err != nil {
		WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, units)
}

// GetHistory returns a unit's audit trail, most recent first
func (h *SerialHandler) GetHistory(c *gin.Context) {
	events, err := h.service.GetHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

// GetStatistics returns status counts under the optional scope
func (h *SerialHandler) GetStatistics(c *gin.Context) {
	filter := repository.StatsFilter{
		BranchID:   c.Query("branch_id"),
		ProductID:  c.Query("product_id"),
		SupplierID: c.Query("supplier_id"),
	}

	stats, err := h.service.GetStatistics(c.Request.Context(), filter)
	if err != nil {
		WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ExportCSV streams the filtered registry as a CSV attachment
func (h *SerialHandler) ExportCSV(c *gin.Context) {
	filter, err := listFilterFromQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	content, err := h.service.ExportCSV(c.Request.Context(), filter)
	if err != nil {
		WriteError(c, h.log, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="serial-units.csv"`)
	c.Data(http.StatusOK, "text/csv", []byte(content))
}

// GenerateSerials produces candidate serials for a goods receipt
func (h *SerialHandler) GenerateSerials(c *gin.Context) {
	count, err := strconv.Atoi(c.DefaultQuery("count", "1"))
	if err != nil || count < 1 || count > 1000 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "count must be between 1 and 1000"})
		return
	}

	serials, err := h.generator.NextBatch(c.Request.Context(), h.store, count)
	if err != nil {
		WriteError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"serials": serials})
}

// listFilterFromQuery parses the shared list/export filter parameters
func listFilterFromQuery(c *gin.Context) (repository.ListFilter, error) {
	filter := repository.ListFilter{
		Query:      c.Query("q"),
		BranchID:   c.Query("branch_id"),
		ProductID:  c.Query("product_id"),
		SupplierID: c.Query("supplier_id"),
		Position:   c.Query("position"),
	}

	if raw := c.Query("status"); raw != "" {
		status, ok := models.ParseUnitStatus(raw)
		if !ok {
			return filter, &service.ValidationError{Reason: "unknown status: " + raw}
		}
		filter.Status = &status
	}
	if raw := c.Query("purchase_from"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, &service.ValidationError{Reason: "invalid purchase_from date"}
		}
		filter.PurchaseFrom = &t
	}
	if raw := c.Query("purchase_to"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return filter, &service.ValidationError{Reason: "invalid purchase_to date"}
		}
		filter.PurchaseTo = &t
	}
	if raw := c.Query("has_warranty"); raw != "" {
		hasWarranty, err := strconv.ParseBool(raw)
		if err != nil {
			return filter, &service.ValidationError{Reason: "invalid has_warranty flag"}
		}
		filter.HasWarranty = &hasWarranty
	}

	return filter, nil
}
