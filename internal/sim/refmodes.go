package sim

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"

	"lanternforge/internal/model"
	"lanternforge/internal/modes"
)

// OrientationIDs expands a supported-mode set into the per-core orientation
// list: "a" and "b" entries for azimuthal > 0 modes, a single entry
// otherwise. The list order defines the mode-file index used by the
// overlap utility.
func OrientationIDs(supported []model.Mode) []string {
	ids := make([]string, 0, len(supported)*2)
	for _, mode := range supported {
		if mode.Azimuthal > 0 {
			ids = append(ids, mode.Name+"a", mode.Name+"b")
		} else {
			ids = append(ids, mode.Name)
		}
	}
	return ids
}

// GenerateReferenceModes writes one ideal LP mode field per supported
// orientation into dir, as plain-text grids named "<prefix>.mNN". The
// fields are the targets the overlap utility scores simulated output
// against; they are computed once per optimization run.
//
// The grid spans [-2·MFD, +2·MFD] in both axes. Inside the core radius the
// field is the J-Bessel mode profile; outside it decays exponentially.
// Orientation "a" takes the cos(mθ) azimuthal dependence, "b" the sin(mθ).
func GenerateReferenceModes(ctx context.Context, dir, highestMode, prefix string, modeFieldDia float64, gridN int) ([]string, error) {
	if modeFieldDia <= 0 {
		return nil, fmt.Errorf("sim: mode field diameter %v must be > 0", modeFieldDia)
	}
	if gridN < 2 {
		return nil, fmt.Errorf("sim: grid size %d must be >= 2", gridN)
	}
	supported, err := modes.Supported(highestMode)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("sim: create reference dir: %w", err)
	}

	ids := OrientationIDs(supported)
	byName := make(map[string]model.Mode, len(supported))
	for _, mode := range supported {
		byName[mode.Name] = mode
	}

	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		mode := byName[strings.TrimSuffix(strings.TrimSuffix(id, "a"), "b")]
		sine := strings.HasSuffix(id, "b")
		field := lpField(mode, sine, modeFieldDia, gridN)

		name := fmt.Sprintf("%s.m%02d", prefix, i)
		if err := writeFieldFile(filepath.Join(dir, name), id, modeFieldDia, field); err != nil {
			return nil, err
		}
	}
	return ids, nil
}

// lpField samples an ideal LPmn field on an N×N grid. The radial argument
// uses the far-from-cutoff normalized frequency for the mode, taken from
// the cutoff of LP(m+1)n when the table has it.
func lpField(mode model.Mode, sine bool, modeFieldDia float64, gridN int) [][]float64 {
	a := modeFieldDia / 2
	u := radialFrequency(mode)
	half := 2 * modeFieldDia
	step := 2 * half / float64(gridN-1)

	// Decay constant chosen so the field is continuous at r=a.
	edge := math.Jn(mode.Azimuthal, u)

	field := make([][]float64, gridN)
	for iy := 0; iy < gridN; iy++ {
		y := -half + float64(iy)*step
		row := make([]float64, gridN)
		for ix := 0; ix < gridN; ix++ {
			x := -half + float64(ix)*step
			r := math.Hypot(x, y)
			theta := math.Atan2(y, x)

			var radial float64
			if r <= a {
				radial = math.Jn(mode.Azimuthal, u*r/a)
			} else {
				radial = edge * math.Exp(-(r-a)/a)
			}

			azimuthal := 1.0
			if mode.Azimuthal > 0 {
				if sine {
					azimuthal = math.Sin(float64(mode.Azimuthal) * theta)
				} else {
					azimuthal = math.Cos(float64(mode.Azimuthal) * theta)
				}
			}
			row[ix] = radial * azimuthal
		}
		field[iy] = row
	}
	return field
}

// radialFrequency picks the normalized frequency for the mode's radial
// profile: the cutoff of the next azimuthal order (the upper bound of the
// mode's guided range), falling back to cutoff + π/2 at the table edge.
func radialFrequency(mode model.Mode) float64 {
	next := fmt.Sprintf("LP%d%d", mode.Azimuthal+1, mode.Radial)
	if upper, err := modes.ParseMode(next); err == nil {
		return upper.Cutoff
	}
	return mode.Cutoff + math.Pi/2
}

func writeFieldFile(path, id string, modeFieldDia float64, field [][]float64) error {
	var b strings.Builder
	n := len(field)
	fmt.Fprintf(&b, "# mode %s grid %dx%d extent %g\n", id, n, n, 2*modeFieldDia)
	for _, row := range field {
		for ix, v := range row {
			if ix > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "%.9e", v)
		}
		b.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("sim: write reference mode %s: %w", id, err)
	}
	return nil
}
