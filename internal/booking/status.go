package booking

import "github.com/FranBistrovic/QuantumHotel/internal/model"

// The reservation state machine is intentionally small:
//
//	PENDING ──> CONFIRMED (terminal)
//	PENDING ──> REJECTED  (terminal)
//
// There is no transition out of CONFIRMED or REJECTED, and only PENDING
// reservations may have their dates or amenities edited.

// ValidStatus reports whether s is one of the known reservation states.
func ValidStatus(s string) bool {
	switch s {
	case model.StatusPending, model.StatusConfirmed, model.StatusRejected:
		return true
	}
	return false
}

// CanTransition reports whether a reservation in state from may move to
// state to.  Only PENDING -> CONFIRMED and PENDING -> REJECTED are legal.
func CanTransition(from, to string) bool {
	if from != model.StatusPending {
		return false
	}
	return to == model.StatusConfirmed || to == model.StatusRejected
}

// Editable reports whether a reservation in state s may have its dates
// or amenity selections changed.
func Editable(s string) bool {
	return s == model.StatusPending
}

// Blocks reports whether a reservation in state s occupies inventory for
// availability purposes.  PENDING and CONFIRMED block; a REJECTED
// reservation frees its unit immediately for overlapping searches.
func Blocks(s string) bool {
	return s == model.StatusPending || s == model.StatusConfirmed
}
