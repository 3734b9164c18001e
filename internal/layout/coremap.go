package layout

import (
	"fmt"
	"strconv"

	"lanternforge/internal/model"
	"lanternforge/internal/modes"
)

// BuildCoreMap resolves the complete guided-mode set for the named highest
// mode and places one core per mode orientation across concentric rings.
// Modes are grouped by radial number; the radial-number-1 group forms the
// outermost physical ring. Azimuthal > 0 modes occupy two cores, suffixed
// "a" and "b". Returns the core map and the enclosing capillary diameter.
func BuildCoreMap(highestMode string, claddingDia float64) (model.CoreMap, float64, error) {
	if claddingDia <= 0 {
		return model.CoreMap{}, 0, fmt.Errorf("%w: cladding diameter %v must be > 0", ErrInvalidGeometry, claddingDia)
	}
	supported, err := modes.Supported(highestMode)
	if err != nil {
		return model.CoreMap{}, 0, err
	}
	groups := modes.GroupByRadial(supported)
	radials := modes.RadialNumbersDescending(groups)

	// Highest radial number packs innermost, so ring order follows the
	// descending radial walk.
	rings := make([]model.RingSpec, 0, len(radials))
	for _, radial := range radials {
		count := 0
		for _, mode := range groups[radial] {
			count += mode.Orientations()
		}
		rings = append(rings, model.RingSpec{Count: count, RadiusScale: 1.0})
	}

	packed, err := Pack(claddingDia, rings)
	if err != nil {
		return model.CoreMap{}, 0, err
	}
	capDia := claddingDia
	if len(packed) > 0 {
		capDia = 2*packed[len(packed)-1].Radius + claddingDia
	}

	coreMap := model.CoreMap{}
	for layerIdx, radial := range radials {
		coords := packed[layerIdx].Centers
		coordIdx := 0
		for _, mode := range groups[radial] {
			m := mode
			if m.Azimuthal > 0 && coordIdx+1 < len(coords) {
				coreMap.Entries = append(coreMap.Entries,
					model.CoreEntry{ID: m.Name + "a", Mode: &m, Pos: coords[coordIdx]},
					model.CoreEntry{ID: m.Name + "b", Mode: &m, Pos: coords[coordIdx+1]},
				)
				coordIdx += 2
			} else if coordIdx < len(coords) {
				coreMap.Entries = append(coreMap.Entries,
					model.CoreEntry{ID: m.Name, Mode: &m, Pos: coords[coordIdx]})
				coordIdx++
			}
		}
	}
	return coreMap, capDia, nil
}

// BuildIndexedCoreMap packs an explicit ring configuration and labels the
// cores with plain sequential indices, for bundles that are not tied to a
// mode set.
func BuildIndexedCoreMap(rings []model.RingSpec, claddingDia float64) (model.CoreMap, float64, error) {
	packed, err := Pack(claddingDia, rings)
	if err != nil {
		return model.CoreMap{}, 0, err
	}
	capDia := claddingDia
	if len(packed) > 0 {
		capDia = 2*packed[len(packed)-1].Radius + claddingDia
	}

	coreMap := model.CoreMap{}
	idx := 0
	for _, ring := range packed {
		for _, pos := range ring.Centers {
			coreMap.Entries = append(coreMap.Entries,
				model.CoreEntry{ID: strconv.Itoa(idx), Pos: pos})
			idx++
		}
	}
	return coreMap, capDia, nil
}
