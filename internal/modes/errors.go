package modes

import "errors"

var (
	// ErrUnknownMode indicates a mode name absent from the cutoff table or
	// not of the fixed "LP" + digit + digit form.
	ErrUnknownMode = errors.New("modes: unknown or malformed LP mode name")
)
