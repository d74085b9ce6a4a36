// Package booking implements the availability and pricing engine.  It is
// a pure computation over snapshots of categories, units and
// reservations: no I/O, no logging, no retries.  Handlers supply the
// snapshot and translate the typed errors below into HTTP responses.
package booking

import "fmt"

// ValidationError reports a malformed or logically inconsistent request
// (bad dates, non-positive persons or quantity).  Handlers translate it
// into an HTTP 400 response; it is never silently coerced.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid request: " + e.Reason
}

// InvalidAmenityError is returned by ComputePrice when a selection
// references an amenity id that is not present in the catalog.  The
// engine fails closed rather than dropping the line item.
type InvalidAmenityError struct {
	AmenityID uint64
}

func (e *InvalidAmenityError) Error() string {
	return fmt.Sprintf("amenity %d not found in catalog", e.AmenityID)
}
