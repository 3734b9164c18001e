package layout

import (
	"fmt"
	"math"

	"lanternforge/internal/model"
)

// HexagonalLayout places fibers on a hexagonal grid: one central fiber plus
// numRings hexagonal rings around it. spacingFactor scales the
// centre-to-centre distance; 1.0 means touching fibers. Ring corners are
// filled first, then the positions along each hexagon side are
// interpolated between adjacent corners.
func HexagonalLayout(fiberDia float64, numRings int, spacingFactor float64) ([]model.Point, error) {
	if fiberDia <= 0 {
		return nil, fmt.Errorf("%w: fiber diameter %v must be > 0", ErrInvalidGeometry, fiberDia)
	}
	if numRings < 0 {
		return nil, fmt.Errorf("%w: ring count %d must be >= 0", ErrInvalidGeometry, numRings)
	}
	if spacingFactor <= 0 {
		return nil, fmt.Errorf("%w: spacing factor %v must be > 0", ErrInvalidGeometry, spacingFactor)
	}

	d := fiberDia * spacingFactor
	centers := []model.Point{{X: 0, Y: 0}}

	for ring := 1; ring <= numRings; ring++ {
		for side := 0; side < 6; side++ {
			angle := math.Pi / 3 * float64(side)
			nextAngle := math.Pi / 3 * float64((side+1)%6)
			corner := model.Point{
				X: float64(ring) * d * math.Cos(angle),
				Y: float64(ring) * d * math.Sin(angle),
			}
			next := model.Point{
				X: float64(ring) * d * math.Cos(nextAngle),
				Y: float64(ring) * d * math.Sin(nextAngle),
			}
			for j := 0; j < ring; j++ {
				if j == 0 {
					centers = append(centers, corner)
					continue
				}
				t := float64(j) / float64(ring)
				centers = append(centers, model.Point{
					X: corner.X + t*(next.X-corner.X),
					Y: corner.Y + t*(next.Y-corner.Y),
				})
			}
		}
	}
	return centers, nil
}
