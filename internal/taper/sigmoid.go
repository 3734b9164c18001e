// Package taper models how a packed fiber bundle evolves along the tapered
// length: a sigmoid-composed taper-progress schedule, a sampled geometry
// model with exact boundary values, and a linear taper helper.
package taper

import "math"

// Schedule is a weighted composition of three sigmoids producing the
// taper-progress ratio in [Min, Max]. The three lobes model a down-taper,
// waist, and up-taper rather than one simple transition. Centers and widths
// are expressed as fractions of the taper length.
type Schedule struct {
	Center1Ratio float64
	Center2Ratio float64
	Center3Ratio float64
	Width1Ratio  float64
	Width2Ratio  float64
	Width3Ratio  float64
	Weight1      float64
	Weight2      float64
	Weight3      float64
	Min          float64
	Max          float64
}

// DefaultSchedule returns the standard three-lobe profile: a dominant
// central transition flanked by two gentle shoulders.
func DefaultSchedule() Schedule {
	return Schedule{
		Center1Ratio: 0.33,
		Center2Ratio: 0.5,
		Center3Ratio: 0.67,
		Width1Ratio:  1.0 / 6.0,
		Width2Ratio:  1.0 / 10.0,
		Width3Ratio:  1.0 / 6.0,
		Weight1:      0.1,
		Weight2:      0.8,
		Weight3:      0.1,
		Min:          0,
		Max:          1,
	}
}

func sigmoid(x, center, width float64) float64 {
	return 1 / (1 + math.Exp(-(x-center)/width))
}

// Ratio evaluates the schedule at position z along a taper of the given
// length, clipped to [Min, Max].
func (s Schedule) Ratio(z, taperLength float64) float64 {
	v := s.Weight1*sigmoid(z, taperLength*s.Center1Ratio, taperLength*s.Width1Ratio) +
		s.Weight2*sigmoid(z, taperLength*s.Center2Ratio, taperLength*s.Width2Ratio) +
		s.Weight3*sigmoid(z, taperLength*s.Center3Ratio, taperLength*s.Width3Ratio)
	return math.Min(math.Max(v, s.Min), s.Max)
}
