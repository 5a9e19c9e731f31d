package errors

import "fmt"

// Outcomes surfaced by the presence and messaging services.
// Callers match them with errors.Is, the attached detail text is not a stable contract.
var (
	ErrValidationFailed   = fmt.Errorf("validation failed")
	ErrConflict           = fmt.Errorf("participant already exists")
	ErrNotFound           = fmt.Errorf("not found")
	ErrForbidden          = fmt.Errorf("forbidden")
	ErrUnprocessableState = fmt.Errorf("unprocessable state")
	ErrInvalidArgument    = fmt.Errorf("invalid argument")
	ErrStorage            = fmt.Errorf("storage error")
	ErrWorkerPanic        = fmt.Errorf("worker panic")
	ErrUnknownStoreDriver = fmt.Errorf("unknown store driver")
	ErrInvalidReplacement = fmt.Errorf("replacement must be a single character")
)
