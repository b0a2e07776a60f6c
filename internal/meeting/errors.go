package meeting

import "errors"

// ErrNotFound is returned when a client does not exist or is not owned by
// the caller. The two causes are deliberately indistinguishable so the API
// never leaks the existence of other users' clients.
var ErrNotFound = errors.New("client not found")

// Validation errors returned by the workflow service.
var (
	ErrNotesRequired = errors.New("notes are required")
	ErrDateRequired  = errors.New("date is required")
	ErrNameRequired  = errors.New("client name is required")
	ErrBadTimeFormat = errors.New("time must be HH:MM in 24-hour format")
)

// IsValidation reports whether err is one of the input-validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrNotesRequired) ||
		errors.Is(err, ErrDateRequired) ||
		errors.Is(err, ErrNameRequired) ||
		errors.Is(err, ErrBadTimeFormat)
}
