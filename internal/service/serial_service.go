package service

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"example.com/furnish/services/serial/internal/cache"
	"example.com/furnish/services/serial/internal/messaging"
	"example.com/furnish/services/serial/internal/metrics"
	"example.com/furnish/services/serial/internal/models"
	"example.com/furnish/services/serial/internal/repository"
	"example.com/furnish/services/serial/internal/search"
	"example.com/furnish/services/serial/utils"
)

const defaultSuggestionLimit = 5

// CreateBatchRequest creates one unit per serial from a goods receipt
type CreateBatchRequest struct {
	ProductID       string     `json:"product_id" validate:"required"`
	BranchID        string     `json:"branch_id" validate:"required"`
	SupplierID      *string    `json:"supplier_id"`
	PurchaseOrderID *string    `json:"purchase_order_id"`
	Serials         []string   `json:"serials" validate:"required"`
	Position        string     `json:"position"`
	UnitCost        *float64   `json:"unit_cost"`
	PurchaseDate    *time.Time `json:"purchase_date"`
	WarrantyExpiry  *time.Time `json:"warranty_expiry"`
	Notes           string     `json:"notes"`
	PerformedBy     string     `json:"performed_by" validate:"required"`
}

// UpdateStatusRequest moves one unit through the lifecycle. This is the only
// path that records the business transaction behind a change.
type UpdateStatusRequest struct {
	NewStatus   models.UnitStatus `json:"new_status" validate:"required"`
	ToBranchID  *string           `json:"to_branch_id"`
	ToPosition  *string           `json:"to_position"`
	OrderID     *string           `json:"order_id"`
	CustomerID  *string           `json:"customer_id"`
	Notes       string            `json:"notes"`
	PerformedBy string            `json:"performed_by" validate:"required"`
}

// TransferRequest moves a batch of units to another warehouse position
type TransferRequest struct {
	UnitIDs     []string `json:"unit_ids" validate:"required,min=1"`
	ToBranchID  string   `json:"to_branch_id" validate:"required"`
	ToPosition  string   `json:"to_position"`
	Notes       string   `json:"notes"`
	PerformedBy string   `json:"performed_by" validate:"required"`
}

// FieldPatch is an uninterpreted field update. Status is deliberately not
// part of it; status changes must go through UpdateStatus.
type FieldPatch struct {
	Position        *string    `json:"position"`
	UnitCost        *float64   `json:"unit_cost"`
	PurchaseDate    *time.Time `json:"purchase_date"`
	WarrantyExpiry  *time.Time `json:"warranty_expiry"`
	Notes           *string    `json:"notes"`
	SupplierID      *string    `json:"supplier_id"`
	PurchaseOrderID *string    `json:"purchase_order_id"`
}

// BulkUpdateRequest applies the same patch to many units
type BulkUpdateRequest struct {
	UnitIDs     []string   `json:"unit_ids" validate:"required,min=1"`
	Fields      FieldPatch `json:"fields"`
	PerformedBy string     `json:"performed_by" validate:"required"`
}

// SearchResult is the outcome of an identifier lookup. An exact match
// short-circuits; otherwise up to five fuzzy suggestions are returned.
type SearchResult struct {
	Found       bool                 `json:"found"`
	Exact       *models.SerialUnit   `json:"exact,omitempty"`
	Suggestions []*models.SerialUnit `json:"suggestions,omitempty"`
}

// SerialService is the contract the rest of the back office calls into:
// goods receipt creates units, POS/claims/returns move them through the
// lifecycle, warehousing transfers them, reporting reads them.
type SerialService interface {
	CreateBatch(ctx context.Context, req *CreateBatchRequest) ([]*models.SerialUnit, error)
	GetByID(ctx context.Context, id string) (*models.SerialUnit, error)
	SearchBySerial(ctx context.Context, query string) (*SearchResult, error)
	List(ctx context.Context, filter repository.ListFilter) ([]*models.SerialUnit, error)
	UpdateStatus(ctx context.Context, unitID string, req *UpdateStatusRequest) (*models.SerialUnit, error)
	Transfer(ctx context.Context, req *TransferRequest) ([]*models.SerialUnit, error)
	BulkUpdate(ctx context.Context, req *BulkUpdateRequest) ([]*models.SerialUnit, error)
	GetHistory(ctx context.Context, unitID string) ([]*models.SerialHistory, error)
	GetStatistics(ctx context.Context, filter repository.StatsFilter) (*models.StatusStatistics, error)
	ExportCSV(ctx context.Context, filter repository.ListFilter) (string, error)
}

// serialService implements SerialService
type serialService struct {
	store           repository.SerialUnitStore
	refs            repository.ReferenceDirectory
	cache           cache.CacheClient
	indexer         search.Indexer
	publisher       messaging.Publisher
	log             *logrus.Logger
	suggestionLimit int
}

// Option configures optional collaborators on the service
type Option func(*serialService)

// WithCache attaches a cache for unit reads
func WithCache(c cache.CacheClient) Option {
	return func(s *serialService) { s.cache = c }
}

// WithIndexer attaches a search projection indexer
func WithIndexer(i search.Indexer) Option {
	return func(s *serialService) { s.indexer = i }
}

// WithPublisher attaches the ERP lifecycle message publisher
func WithPublisher(p messaging.Publisher) Option {
	return func(s *serialService) { s.publisher = p }
}

// WithSuggestionLimit overrides the fuzzy suggestion cap
func WithSuggestionLimit(n int) Option {
	return func(s *serialService) {
		if n > 0 {
			s.suggestionLimit = n
		}
	}
}

// NewSerialService creates a new serial unit service
func NewSerialService(
	store repository.SerialUnitStore,
	refs repository.ReferenceDirectory,
	log *logrus.Logger,
	opts ...Option,
) SerialService {
	if log == nil {
		log = logrus.New()
	}
	s := &serialService{
		store:           store,
		refs:            refs,
		log:             log,
		suggestionLimit: defaultSuggestionLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateBatch registers one unit per serial. The whole batch is validated
// first; on any offending serial nothing is created and every offender is
// reported.
func (s *serialService) CreateBatch(ctx context.Context, req *CreateBatchRequest) ([]*models.SerialUnit, error) {
	if len(req.Serials) == 0 {
		metrics.GetCollector().RecordError(metrics.ErrorTypeValidation)
		return nil, &ValidationError{Reason: "at least one serial is required"}
	}

	verr := &ValidationError{}
	seen := make(map[string]bool, len(req.Serials))
	dupSeen := make(map[string]bool)
	for _, serial := range req.Serials {
		if !utils.IsValidSerial(serial) {
			verr.Malformed = append(verr.Malformed, serial)
		}
		if seen[serial] {
			if !dupSeen[serial] {
				verr.Duplicates = append(verr.Duplicates, serial)
				dupSeen[serial] = true
			}
		}
		seen[serial] = true
	}

	existing, err := s.store.FindExistingSerials(ctx, req.Serials)
	if err != nil {
		return nil, err
	}
	verr.Existing = existing

	if verr.HasOffenders() {
		metrics.GetCollector().RecordError(metrics.ErrorTypeValidation)
		return nil, verr
	}

	if err := s.resolveBranch(ctx, req.BranchID); err != nil {
		return nil, err
	}
	if _, err := s.refs.GetProduct(ctx, req.ProductID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.GetCollector().RecordError(metrics.ErrorTypeReference)
			return nil, &InvalidReferenceError{Kind: "product", Value: req.ProductID}
		}
		return nil, err
	}
	if err := s.resolvePosition(ctx, req.BranchID, req.Position); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	units := make([]*models.SerialUnit, 0, len(req.Serials))
	events := make([]*models.SerialHistory, 0, len(req.Serials))
	for _, serial := range req.Serials {
		unit := &models.SerialUnit{
			Base: models.Base{
				UUID:      uuid.New().String(),
				CreatedAt: now,
				UpdatedAt: now,
			},
			SerialNumber:    serial,
			ProductID:       req.ProductID,
			SupplierID:      req.SupplierID,
			PurchaseOrderID: req.PurchaseOrderID,
			Status:          models.StatusAvailable,
			BranchID:        req.BranchID,
			Position:        req.Position,
			UnitCost:        req.UnitCost,
			PurchaseDate:    req.PurchaseDate,
			WarrantyExpiry:  req.WarrantyExpiry,
			Notes:           req.Notes,
			CreatedBy:       req.PerformedBy,
			UpdatedBy:       req.PerformedBy,
		}
		units = append(units, unit)

		toStatus := unit.Status
		events = append(events, &models.SerialHistory{
			SerialUnitID: unit.UUID,
			Action:       models.ActionCreated,
			ToStatus:     &toStatus,
			ToBranchID:   &unit.BranchID,
			ToPosition:   &unit.Position,
			Notes:        req.Notes,
			PerformedBy:  req.PerformedBy,
			PerformedAt:  now,
		})
	}

	if err := s.store.CreateBatch(ctx, units, events); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			// A concurrent batch won the race on one of the serials
			metrics.GetCollector().RecordError(metrics.ErrorTypeValidation)
			return nil, &ValidationError{Existing: req.Serials, Reason: "serial registered concurrently"}
		}
		return nil, err
	}

	metrics.GetCollector().RecordMutation(metrics.MutationCreate, len(units))
	for _, unit := range units {
		s.afterMutation(ctx, unit, models.ActionCreated, nil, statusPtr(unit.Status), nil, nil)
	}
	s.log.WithFields(logrus.Fields{
		"count":     len(units),
		"product":   req.ProductID,
		"branch":    req.BranchID,
		"performer": req.PerformedBy,
	}).Info("Serial unit batch created")

	return units, nil
}

// GetByID returns a unit, trying the cache before the registry
func (s *serialService) GetByID(ctx context.Context, id string) (*models.SerialUnit, error) {
	if s.cache != nil {
		unit, err := s.cache.GetUnit(ctx, id)
		if err == nil {
			return unit, nil
		}
		if err != redis.Nil {
			s.log.WithError(err).Warn("Failed to read unit from cache")
		}
	}

	unit, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetUnit(ctx, unit); err != nil {
			s.log.WithError(err).Warn("Failed to cache unit")
		}
	}
	return unit, nil
}

// SearchBySerial looks up by exact serial first, then falls back to at most
// five substring suggestions ranked by prefix match, match position and
// recency
func (s *serialService) SearchBySerial(ctx context.Context, query string) (*SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &SearchResult{}, nil
	}

	unit, err := s.store.GetBySerial(ctx, query)
	if err == nil {
		return &SearchResult{Found: true, Exact: unit}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	// Over-fetch so the ranking below sees enough candidates
	candidates, err := s.store.SearchBySerial(ctx, query, s.suggestionLimit*10)
	if err != nil {
		return nil, err
	}

	lowered := strings.ToLower(query)
	sort.SliceStable(candidates, func(i, j int) bool {
		si := strings.ToLower(candidates[i].SerialNumber)
		sj := strings.ToLower(candidates[j].SerialNumber)
		pi, pj := strings.HasPrefix(si, lowered), strings.HasPrefix(sj, lowered)
		if pi != pj {
			return pi
		}
		oi, oj := strings.Index(si, lowered), strings.Index(sj, lowered)
		if oi != oj {
			return oi < oj
		}
		return candidates[i].CreatedAt.After(candidates[j].CreatedAt)
	})
	if len(candidates) > s.suggestionLimit {
		candidates = candidates[:s.suggestionLimit]
	}

	return &SearchResult{Suggestions: candidates}, nil
}

// List returns units matching the composed filter
func (s *serialService) List(ctx context.Context, filter repository.ListFilter) ([]*models.SerialUnit, error) {
	return s.store.List(ctx, filter)
}

// UpdateStatus is the single authority for lifecycle transitions
func (s *serialService) UpdateStatus(ctx context.Context, unitID string, req *UpdateStatusRequest) (*models.SerialUnit, error) {
	if !models.IsValidStatus(req.NewStatus) {
		metrics.GetCollector().RecordError(metrics.ErrorTypeValidation)
		return nil, &ValidationError{Reason: "unknown status: " + string(req.NewStatus)}
	}

	unit, err := s.store.GetByID(ctx, unitID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.GetCollector().RecordError(metrics.ErrorTypeNotFound)
			return nil, ErrNotFound
		}
		return nil, err
	}

	if !models.CanTransition(unit.Status, req.NewStatus) {
		metrics.GetCollector().RecordError(metrics.ErrorTypeTransition)
		return nil, &InvalidTransitionError{From: unit.Status, To: req.NewStatus}
	}

	targetBranch := unit.BranchID
	if req.ToBranchID != nil {
		if err := s.resolveBranch(ctx, *req.ToBranchID); err != nil {
			return nil, err
		}
		targetBranch = *req.ToBranchID
	}
	if req.ToPosition != nil {
		if err := s.resolvePosition(ctx, targetBranch, *req.ToPosition); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	fromStatus := unit.Status
	event := &models.SerialHistory{
		SerialUnitID: unit.UUID,
		Action:       models.ActionStatusChanged,
		FromStatus:   &fromStatus,
		ToStatus:     &req.NewStatus,
		OrderID:      req.OrderID,
		CustomerID:   req.CustomerID,
		Notes:        req.Notes,
		PerformedBy:  req.PerformedBy,
		PerformedAt:  now,
	}

	unit.Status = req.NewStatus
	if req.ToBranchID != nil && *req.ToBranchID != unit.BranchID {
		fromBranch := unit.BranchID
		event.FromBranchID = &fromBranch
		event.ToBranchID = req.ToBranchID
		unit.BranchID = *req.ToBranchID
	}
	if req.ToPosition != nil && *req.ToPosition != unit.Position {
		fromPosition := unit.Position
		event.FromPosition = &fromPosition
		event.ToPosition = req.ToPosition
		unit.Position = *req.ToPosition
	}
	unit.UpdatedAt = now
	unit.UpdatedBy = req.PerformedBy

	if err := s.store.UpdateUnit(ctx, unit, event); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			metrics.GetCollector().RecordError(metrics.ErrorTypeConflict)
			return nil, ErrConflict
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	metrics.GetCollector().RecordMutation(metrics.MutationStatus, 1)
	s.afterMutation(ctx, unit, models.ActionStatusChanged, &fromStatus, statusPtr(unit.Status), req.OrderID, req.CustomerID)
	s.log.WithFields(logrus.Fields{
		"unit":   unit.UUID,
		"serial": unit.SerialNumber,
		"from":   fromStatus,
		"to":     unit.Status,
	}).Info("Serial unit status changed")

	return unit, nil
}

// Transfer moves all named units to the destination warehouse and position.
// The full set is validated before anything is mutated; a missing id fails
// the whole call and leaves every unit untouched.
func (s *serialService) Transfer(ctx context.Context, req *TransferRequest) ([]*models.SerialUnit, error) {
	if len(req.UnitIDs) == 0 {
		metrics.GetCollector().RecordError(metrics.ErrorTypeValidation)
		return nil, &ValidationError{Reason: "at least one unit id is required"}
	}

	if err := s.resolveBranch(ctx, req.ToBranchID); err != nil {
		return nil, err
	}
	if err := s.resolvePosition(ctx, req.ToBranchID, req.ToPosition); err != nil {
		return nil, err
	}

	// A repeated id mutates its unit once
	ids := dedupeIDs(req.UnitIDs)
	units := make([]*models.SerialUnit, 0, len(ids))
	for _, id := range ids {
		unit, err := s.store.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				metrics.GetCollector().RecordError(metrics.ErrorTypeNotFound)
				return nil, ErrNotFound
			}
			return nil, err
		}
		if models.IsTerminal(unit.Status) {
			metrics.GetCollector().RecordError(metrics.ErrorTypeTransition)
			return nil, &InvalidTransitionError{From: unit.Status, To: models.StatusTransferred}
		}
		units = append(units, unit)
	}

	now := time.Now().UTC()
	events := make([]*models.SerialHistory, 0, len(units))
	for _, unit := range units {
		fromStatus := unit.Status
		fromBranch := unit.BranchID
		fromPosition := unit.Position
		toBranch := req.ToBranchID
		toPosition := req.ToPosition
		events = append(events, &models.SerialHistory{
			SerialUnitID: unit.UUID,
			Action:       models.ActionTransferred,
			FromStatus:   &fromStatus,
			ToStatus:     statusPtr(models.StatusTransferred),
			FromBranchID: &fromBranch,
			ToBranchID:   &toBranch,
			FromPosition: &fromPosition,
			ToPosition:   &toPosition,
			Notes:        req.Notes,
			PerformedBy:  req.PerformedBy,
			PerformedAt:  now,
		})

		unit.Status = models.StatusTransferred
		unit.BranchID = req.ToBranchID
		unit.Position = req.ToPosition
		unit.UpdatedAt = now
		unit.UpdatedBy = req.PerformedBy
	}

	if err := s.store.UpdateUnits(ctx, units, events); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			metrics.GetCollector().RecordError(metrics.ErrorTypeConflict)
			return nil, ErrConflict
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	metrics.GetCollector().RecordMutation(metrics.MutationTransfer, len(units))
	for i, unit := range units {
		s.afterMutation(ctx, unit, models.ActionTransferred, events[i].FromStatus, statusPtr(unit.Status), nil, nil)
	}
	s.log.WithFields(logrus.Fields{
		"count":    len(units),
		"branch":   req.ToBranchID,
		"position": req.ToPosition,
	}).Info("Serial units transferred")

	return units, nil
}

// BulkUpdate applies a uniform field patch to all named units. Status is not
// patchable here.
func (s *serialService) BulkUpdate(ctx context.Context, req *BulkUpdateRequest) ([]*models.SerialUnit, error) {
	if len(req.UnitIDs) == 0 {
		metrics.GetCollector().RecordError(metrics.ErrorTypeValidation)
		return nil, &ValidationError{Reason: "at least one unit id is required"}
	}

	// A repeated id mutates its unit once
	ids := dedupeIDs(req.UnitIDs)
	units := make([]*models.SerialUnit, 0, len(ids))
	for _, id := range ids {
		unit, err := s.store.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				metrics.GetCollector().RecordError(metrics.ErrorTypeNotFound)
				return nil, ErrNotFound
			}
			return nil, err
		}
		units = append(units, unit)
	}

	now := time.Now().UTC()
	events := make([]*models.SerialHistory, 0, len(units))
	for _, unit := range units {
		var touched []string
		event := &models.SerialHistory{
			SerialUnitID: unit.UUID,
			Action:       models.ActionUpdated,
			PerformedBy:  req.PerformedBy,
			PerformedAt:  now,
		}

		if req.Fields.Position != nil && *req.Fields.Position != unit.Position {
			fromPosition := unit.Position
			event.FromPosition = &fromPosition
			event.ToPosition = req.Fields.Position
			unit.Position = *req.Fields.Position
			touched = append(touched, "position")
		}
		if req.Fields.UnitCost != nil {
			unit.UnitCost = req.Fields.UnitCost
			touched = append(touched, "unit_cost")
		}
		if req.Fields.PurchaseDate != nil {
			unit.PurchaseDate = req.Fields.PurchaseDate
			touched = append(touched, "purchase_date")
		}
		if req.Fields.WarrantyExpiry != nil {
			unit.WarrantyExpiry = req.Fields.WarrantyExpiry
			touched = append(touched, "warranty_expiry")
		}
		if req.Fields.Notes != nil {
			unit.Notes = *req.Fields.Notes
			touched = append(touched, "notes")
		}
		if req.Fields.SupplierID != nil {
			unit.SupplierID = req.Fields.SupplierID
			touched = append(touched, "supplier_id")
		}
		if req.Fields.PurchaseOrderID != nil {
			unit.PurchaseOrderID = req.Fields.PurchaseOrderID
			touched = append(touched, "purchase_order_id")
		}

		event.Notes = "updated fields: " + strings.Join(touched, ", ")
		if len(touched) == 0 {
			event.Notes = "no fields changed"
		}
		unit.UpdatedAt = now
		unit.UpdatedBy = req.PerformedBy
		events = append(events, event)
	}

	if err := s.store.UpdateUnits(ctx, units, events); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			metrics.GetCollector().RecordError(metrics.ErrorTypeConflict)
			return nil, ErrConflict
		}
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	metrics.GetCollector().RecordMutation(metrics.MutationBulkUpdate, len(units))
	for _, unit := range units {
		s.afterMutation(ctx, unit, models.ActionUpdated, nil, nil, nil, nil)
	}

	return units, nil
}

// GetHistory returns the unit's full audit trail, most recent first
func (s *serialService) GetHistory(ctx context.Context, unitID string) ([]*models.SerialHistory, error) {
	if _, err := s.store.GetByID(ctx, unitID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.store.GetHistory(ctx, unitID)
}

// GetStatistics recomputes status counts from the current registry state
func (s *serialService) GetStatistics(ctx context.Context, filter repository.StatsFilter) (*models.StatusStatistics, error) {
	counts, err := s.store.CountByStatus(ctx, filter)
	if err != nil {
		return nil, err
	}

	stats := models.NewStatusStatistics()
	for status, count := range counts {
		stats.Counts[status] = count
		stats.Total += count
	}
	return stats, nil
}

// resolveBranch verifies the warehouse id against the reference directory
func (s *serialService) resolveBranch(ctx context.Context, branchID string) error {
	if _, err := s.refs.GetWarehouse(ctx, branchID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.GetCollector().RecordError(metrics.ErrorTypeReference)
			return &InvalidReferenceError{Kind: "warehouse", Value: branchID}
		}
		return err
	}
	return nil
}

// resolvePosition checks a "ZONE-SHELF" locator against the warehouse's
// configured zones and shelves. Warehouses without configured zones accept
// free-text positions.
func (s *serialService) resolvePosition(ctx context.Context, branchID, position string) error {
	if position == "" {
		return nil
	}

	zones, err := s.refs.ListZones(ctx, branchID)
	if err != nil {
		return err
	}
	if len(zones) == 0 {
		return nil
	}

	zoneCode := position
	shelfCode := ""
	if i := strings.Index(position, "-"); i >= 0 {
		zoneCode = position[:i]
		shelfCode = position[i+1:]
	}

	for _, zone := range zones {
		if !strings.EqualFold(zone.Code, zoneCode) {
			continue
		}
		if shelfCode == "" {
			return nil
		}
		shelves, err := s.refs.ListShelves(ctx, zone.UUID)
		if err != nil {
			return err
		}
		if len(shelves) == 0 {
			return nil
		}
		for _, shelf := range shelves {
			if strings.EqualFold(shelf.Code, shelfCode) {
				return nil
			}
		}
		break
	}

	metrics.GetCollector().RecordError(metrics.ErrorTypeReference)
	return &InvalidReferenceError{Kind: "position", Value: position}
}

// afterMutation fans an accepted mutation out to the cache, the search
// projection and the ERP queue. All three are best-effort; the registry and
// ledger have already committed.
func (s *serialService) afterMutation(
	ctx context.Context,
	unit *models.SerialUnit,
	action models.HistoryAction,
	fromStatus, toStatus *models.UnitStatus,
	orderID, customerID *string,
) {
	if s.cache != nil {
		if err := s.cache.DeleteUnit(ctx, unit.UUID); err != nil {
			s.log.WithError(err).Warn("Failed to invalidate unit cache")
		}
	}
	if s.indexer != nil {
		if err := s.indexer.IndexUnit(ctx, unit); err != nil {
			s.log.WithError(err).Warn("Failed to index unit document")
		}
	}
	if s.publisher != nil {
		message := &messaging.UnitLifecycleMessage{
			SerialUnitID: unit.UUID,
			SerialNumber: unit.SerialNumber,
			Action:       action,
			FromStatus:   fromStatus,
			ToStatus:     toStatus,
			BranchID:     unit.BranchID,
			Position:     unit.Position,
			OrderID:      orderID,
			CustomerID:   customerID,
			PerformedBy:  unit.UpdatedBy,
			PerformedAt:  unit.UpdatedAt,
		}
		if err := s.publisher.PublishLifecycleMessage(ctx, message); err != nil {
			s.log.WithError(err).Warn("Failed to publish lifecycle message")
		}
	}
}

func statusPtr(s models.UnitStatus) *models.UnitStatus {
	return &s
}

// dedupeIDs drops repeated ids, keeping first-occurrence order, so batch
// operations write each unit at most once
func dedupeIDs(ids []string) []string {
	seen := make(map[string]bool, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
