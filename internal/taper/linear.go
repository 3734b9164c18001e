package taper

import (
	"fmt"
	"math"

	"lanternforge/internal/layout"
)

// Linear is a straight taper between two diameters over a fixed length.
type Linear struct {
	StartDia float64
	EndDia   float64
	Length   float64
}

// LinearFromFactor builds a linear taper from a start diameter and a taper
// factor (start:end diameter ratio).
func LinearFromFactor(startDia, factor, length float64) (Linear, error) {
	if factor <= 0 {
		return Linear{}, fmt.Errorf("%w: taper factor %v must be > 0", layout.ErrInvalidGeometry, factor)
	}
	return Linear{StartDia: startDia, EndDia: startDia / factor, Length: length}, nil
}

// Rate is the diameter change per unit length; negative for a down-taper.
func (l Linear) Rate() float64 {
	return (l.EndDia - l.StartDia) / l.Length
}

// Factor is the start:end diameter ratio; +Inf when the end diameter is 0.
func (l Linear) Factor() float64 {
	if l.EndDia == 0 {
		return math.Inf(1)
	}
	return l.StartDia / l.EndDia
}

// DiameterAt returns the diameter at a position along the taper. Positions
// outside [0, Length] are an error.
func (l Linear) DiameterAt(position float64) (float64, error) {
	if l.Length <= 0 {
		return 0, fmt.Errorf("%w: taper length %v must be > 0", layout.ErrInvalidGeometry, l.Length)
	}
	if position < 0 || position > l.Length {
		return 0, fmt.Errorf("%w: position %v outside taper [0, %v]", layout.ErrInvalidGeometry, position, l.Length)
	}
	return l.StartDia + l.Rate()*position, nil
}
