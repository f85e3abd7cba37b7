package booking

import "errors"

var (
	ErrValidation               = errors.New("validation error")
	ErrNotFound                 = errors.New("booking not found")
	ErrBookingConflict          = errors.New("booking conflict")
	ErrInvalidTransition        = errors.New("invalid status transition")
	ErrCancellationWindowPassed = errors.New("cancellation window passed")
	ErrForbidden                = errors.New("forbidden")
	ErrTransientConflict        = errors.New("transient conflict, retry")
)
