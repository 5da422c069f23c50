package models

// UnitStatus defines the lifecycle status of a serial unit
type UnitStatus string

const (
	// StatusAvailable means the unit is in stock and sellable
	StatusAvailable UnitStatus = "available"
	// StatusReserved means the unit is held for a pending sale
	StatusReserved UnitStatus = "reserved"
	// StatusSold means the unit left the store in a completed sale
	StatusSold UnitStatus = "sold"
	// StatusInstallment means the unit was sold on an installment plan
	StatusInstallment UnitStatus = "installment"
	// StatusClaimed means the unit is subject to a customer claim
	StatusClaimed UnitStatus = "claimed"
	// StatusDamaged means the unit is damaged and not sellable
	StatusDamaged UnitStatus = "damaged"
	// StatusTransferred means the unit is in transit between warehouses
	StatusTransferred UnitStatus = "transferred"
	// StatusReturned means the unit came back from a customer
	StatusReturned UnitStatus = "returned"
	// StatusMaintenance means the unit is being repaired
	StatusMaintenance UnitStatus = "maintenance"
	// StatusDisposed is terminal; the unit is written off
	StatusDisposed UnitStatus = "disposed"
)

// AllStatuses lists every valid status value
var AllStatuses = []UnitStatus{
	StatusAvailable,
	StatusReserved,
	StatusSold,
	StatusInstallment,
	StatusClaimed,
	StatusDamaged,
	StatusTransferred,
	StatusReturned,
	StatusMaintenance,
	StatusDisposed,
}

// AllowedTransitions is the authoritative lifecycle transition table.
// A status change is legal only if the destination appears in the source's
// entry. Disposed has no outgoing transitions.
var AllowedTransitions = map[UnitStatus][]UnitStatus{
	StatusAvailable:   {StatusReserved, StatusSold, StatusInstallment, StatusTransferred, StatusDamaged, StatusMaintenance, StatusDisposed},
	StatusReserved:    {StatusAvailable, StatusSold, StatusInstallment, StatusDamaged},
	StatusSold:        {StatusClaimed, StatusReturned},
	StatusInstallment: {StatusClaimed, StatusReturned, StatusSold},
	StatusClaimed:     {StatusAvailable, StatusDamaged, StatusDisposed},
	StatusDamaged:     {StatusMaintenance, StatusDisposed},
	StatusMaintenance: {StatusAvailable, StatusDisposed},
	StatusTransferred: {StatusAvailable},
	StatusReturned:    {StatusAvailable, StatusDamaged, StatusDisposed},
	StatusDisposed:    {},
}

// IsValidStatus reports whether s is one of the fixed status values
func IsValidStatus(s UnitStatus) bool {
	_, ok := AllowedTransitions[s]
	return ok
}

// ParseUnitStatus converts a string to a UnitStatus
func ParseUnitStatus(s string) (UnitStatus, bool) {
	status := UnitStatus(s)
	if !IsValidStatus(status) {
		return "", false
	}
	return status, true
}

// CanTransition reports whether the lifecycle allows moving from one status
// to another
func CanTransition(from, to UnitStatus) bool {
	for _, allowed := range AllowedTransitions[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether a status has no outgoing transitions
func IsTerminal(s UnitStatus) bool {
	return len(AllowedTransitions[s]) == 0 && IsValidStatus(s)
}
