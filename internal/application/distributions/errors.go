package distributions

import "errors"

// Guard violations. Each one fails the whole operation; nothing is partially
// applied. Transitions are not idempotent: re-declaring an already-declared
// distribution gets ErrNotApproved, not success.
var (
	ErrPropertyNotFound     = errors.New("Property not found")
	ErrStatementNotFound    = errors.New("Rental statement not found")
	ErrStatementMismatch    = errors.New("Rental statement does not belong to this property")
	ErrDistributionNotFound = errors.New("Distribution not found")
	ErrDistributionExists   = errors.New("A distribution already exists for this rental statement")
	ErrNotDraft             = errors.New("Distribution is not in DRAFT status")
	ErrNotPendingApproval   = errors.New("Distribution is not pending approval")
	ErrNotApproved          = errors.New("Distribution is not approved")
	ErrHasPaidPayouts       = errors.New("Distribution has paid payouts and cannot be deleted")
)
