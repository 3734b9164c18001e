// Package layout places fiber cores in the untapered cross-section: a
// concentric-ring circle packer, mode-driven and index-driven core-map
// builders, and a hexagonal alternative for index-driven bundles.
package layout

import (
	"fmt"
	"math"

	"lanternforge/internal/model"
)

// Ring is one packed concentric ring: its reference radius and the circle
// centres placed on it.
type Ring struct {
	Radius  float64
	Centers []model.Point
}

// Pack places circles of diameter claddingDia across concentric rings.
// Rings are processed innermost to outermost; each new ring sits one
// cladding diameter beyond the previous ring's radius, so circles on
// adjacent rings are tangent and never overlap. RadiusScale hints on the
// ring specs are accepted but ignored here: dense tangent packing already
// fixes every radius.
func Pack(claddingDia float64, rings []model.RingSpec) ([]Ring, error) {
	if claddingDia <= 0 {
		return nil, fmt.Errorf("%w: cladding diameter %v must be > 0", ErrInvalidGeometry, claddingDia)
	}
	total := 0
	for i, ring := range rings {
		if ring.Count < 0 {
			return nil, fmt.Errorf("%w: ring %d has negative count %d", ErrInvalidGeometry, i, ring.Count)
		}
		total += ring.Count
	}

	if total <= 1 {
		return []Ring{{Radius: 0, Centers: []model.Point{{X: 0, Y: 0}}}}, nil
	}

	// Common LP layout: one central circle plus a single surrounding ring.
	// The ring radius is pinned to 2·(d/2) so the outer circles touch the
	// central one, the densest packing for this topology.
	if len(rings) == 2 && rings[0].Count == 1 && rings[1].Count > 0 {
		return []Ring{
			{Radius: 0, Centers: []model.Point{{X: 0, Y: 0}}},
			{Radius: claddingDia, Centers: ringPositions(claddingDia, rings[1].Count)},
		}, nil
	}

	packed := make([]Ring, 0, len(rings))
	prevRadius := 0.0
	for idx, ring := range rings {
		if ring.Count == 0 {
			continue
		}
		if idx == 0 {
			if ring.Count == 1 {
				packed = append(packed, Ring{Radius: 0, Centers: []model.Point{{X: 0, Y: 0}}})
				prevRadius = 0
				continue
			}
			radius := equalAngleRadius(claddingDia, ring.Count)
			packed = append(packed, Ring{Radius: radius, Centers: ringPositions(radius, ring.Count)})
			prevRadius = radius
			continue
		}
		radius := prevRadius + claddingDia
		packed = append(packed, Ring{Radius: radius, Centers: ringPositions(radius, ring.Count)})
		prevRadius = radius
	}
	return packed, nil
}

// equalAngleRadius is the minimum ring radius at which n circles of
// diameter d placed at equal angular spacing are mutually tangent.
func equalAngleRadius(d float64, n int) float64 {
	return d / (2 * math.Sin(math.Pi/float64(n)))
}

// ringPositions places n circle centres at equal angular spacing on the
// given radius, starting at angle 0. A single circle sits at (radius, 0).
func ringPositions(radius float64, n int) []model.Point {
	centers := make([]model.Point, n)
	for k := 0; k < n; k++ {
		angle := 2 * math.Pi * float64(k) / float64(n)
		centers[k] = model.Point{
			X: radius * math.Cos(angle),
			Y: radius * math.Sin(angle),
		}
	}
	return centers
}
