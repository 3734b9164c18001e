package layout

import "errors"

var (
	// ErrInvalidGeometry indicates a non-positive diameter or a negative
	// circle count fed into the packer or a core-map builder.
	ErrInvalidGeometry = errors.New("layout: invalid geometry")
)
