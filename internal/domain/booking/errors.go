package booking

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means the booking id is unknown.
	ErrNotFound = errors.New("booking not found")
	// ErrForbidden means the actor is not permitted to act on the booking.
	// No further detail is attached on purpose.
	ErrForbidden = errors.New("not permitted")
)

// InvalidTransitionError reports a status pair absent from the transition
// table. It carries both statuses so the caller can refresh its view.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition from %q to %q", e.From, e.To)
}

// IsInvalidTransition unwraps err into an InvalidTransitionError, or nil.
func IsInvalidTransition(err error) *InvalidTransitionError {
	if err == nil {
		return nil
	}

	var invalidErr *InvalidTransitionError

	if errors.As(err, &invalidErr) {
		return invalidErr
	}

	return nil
}
