package metrics

import (
	"sync"
	"time"
)

// Mutation kinds tracked per accepted registry change
const (
	MutationCreate     = "create"
	MutationStatus     = "status_change"
	MutationTransfer   = "transfer"
	MutationBulkUpdate = "bulk_update"
)

// Database query types
const (
	DBQueryTypeSelect = "select"
	DBQueryTypeInsert = "insert"
	DBQueryTypeUpdate = "update"
	DBQueryTypeDelete = "delete"
)

// Error types
const (
	ErrorTypeValidation = "validation"
	ErrorTypeTransition = "transition"
	ErrorTypeReference  = "reference"
	ErrorTypeConflict   = "conflict"
	ErrorTypeNotFound   = "not_found"
	ErrorTypeInternal   = "internal"
)

// Collector accumulates in-process counters for the /metrics endpoint
type Collector struct {
	mu             sync.RWMutex
	mutationCounts map[string]int64
	errorCounts    map[string]int64
	dbQueryCounts  map[string]int64
	dbQueryErrors  map[string]int64
	dbTotalTime    map[string]time.Duration
	startTime      time.Time
}

var (
	collector     *Collector
	collectorOnce sync.Once
)

// GetCollector returns the process-wide collector
func GetCollector() *Collector {
	collectorOnce.Do(func() {
		collector = NewCollector()
	})
	return collector
}

// NewCollector creates an empty collector
func NewCollector() *Collector {
	return &Collector{
		mutationCounts: make(map[string]int64),
		errorCounts:    make(map[string]int64),
		dbQueryCounts:  make(map[string]int64),
		dbQueryErrors:  make(map[string]int64),
		dbTotalTime:    make(map[string]time.Duration),
		startTime:      time.Now(),
	}
}

// RecordMutation counts one accepted registry mutation
func (c *Collector) RecordMutation(kind string, units int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mutationCounts[kind] += int64(units)
}

// RecordError counts one rejected request by error type
func (c *Collector) RecordError(errorType string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errorCounts[errorType]++
}

// RecordDatabaseQuery counts a database round trip
func (c *Collector) RecordDatabaseQuery(queryType string, success bool, duration time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dbQueryCounts[queryType]++
	if !success {
		c.dbQueryErrors[queryType]++
	}
	c.dbTotalTime[queryType] += duration
}

// Snapshot is a point-in-time copy of all counters
type Snapshot struct {
	UptimeSeconds float64          `json:"uptime_seconds"`
	Mutations     map[string]int64 `json:"mutations"`
	Errors        map[string]int64 `json:"errors"`
	DBQueries     map[string]int64 `json:"db_queries"`
	DBQueryErrors map[string]int64 `json:"db_query_errors"`
	DBQueryTimeMs map[string]int64 `json:"db_query_time_ms"`
}

// GetSnapshot returns a copy of the current counters
func (c *Collector) GetSnapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := Snapshot{
		UptimeSeconds: time.Since(c.startTime).Seconds(),
		Mutations:     make(map[string]int64, len(c.mutationCounts)),
		Errors:        make(map[string]int64, len(c.errorCounts)),
		DBQueries:     make(map[string]int64, len(c.dbQueryCounts)),
		DBQueryErrors: make(map[string]int64, len(c.dbQueryErrors)),
		DBQueryTimeMs: make(map[string]int64, len(c.dbTotalTime)),
	}
	for k, v := range c.mutationCounts {
		snap.Mutations[k] = v
	}
	for k, v := range c.errorCounts {
		snap.Errors[k] = v
	}
	for k, v := range c.dbQueryCounts {
		snap.DBQueries[k] = v
	}
	for k, v := range c.dbQueryErrors {
		snap.DBQueryErrors[k] = v
	}
	for k, v := range c.dbTotalTime {
		snap.DBQueryTimeMs[k] = v.Milliseconds()
	}
	return snap
}
