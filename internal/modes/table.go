// Package modes holds the static LP-mode cutoff table and the queries the
// layout builders need: which modes a fiber supports up to a given highest
// mode, and how those modes group by radial number.
package modes

import (
	"fmt"
	"sort"

	"lanternforge/internal/model"
)

// cutoffs maps LP mode names to normalized cutoff frequencies. Each value is
// a zero of a Bessel function of the first kind; LP01 is always guided.
var cutoffs = map[string]float64{
	"LP01": 0.000,
	"LP11": 2.405,
	"LP21": 3.832,
	"LP02": 3.832,
	"LP31": 5.136,
	"LP12": 5.520,
	"LP41": 6.380,
	"LP22": 7.016,
	"LP03": 7.016,
	"LP51": 7.588,
	"LP32": 8.417,
	"LP13": 8.654,
	"LP61": 8.772,
	"LP42": 9.761,
	"LP71": 9.936,
	"LP23": 10.174,
	"LP04": 10.174,
	"LP52": 11.065,
	"LP81": 11.086,
	"LP33": 11.620,
	"LP14": 11.792,
	"LP91": 12.225,
	"LP62": 12.339,
	"LP43": 13.015,
	"LP24": 13.324,
	"LP05": 13.324,
}

// ParseMode parses an "LPmn" name into a typed Mode. The name must be
// exactly "LP" followed by the azimuthal and radial digits and must exist in
// the cutoff table. Malformed or unknown names fail with ErrUnknownMode;
// nothing downstream re-parses mode strings.
func ParseMode(name string) (model.Mode, error) {
	if len(name) != 4 || name[0] != 'L' || name[1] != 'P' {
		return model.Mode{}, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	azimuthal, radial := int(name[2]-'0'), int(name[3]-'0')
	if azimuthal < 0 || azimuthal > 9 || radial < 0 || radial > 9 {
		return model.Mode{}, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	cutoff, ok := cutoffs[name]
	if !ok {
		return model.Mode{}, fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
	return model.Mode{Name: name, Azimuthal: azimuthal, Radial: radial, Cutoff: cutoff}, nil
}

// Supported returns every mode with cutoff frequency less than or equal to
// the cutoff of the named highest mode, ascending by cutoff. LP01 is always
// first. Ties are broken by name so the order is stable.
func Supported(highest string) ([]model.Mode, error) {
	top, err := ParseMode(highest)
	if err != nil {
		return nil, err
	}

	supported := make([]model.Mode, 0, len(cutoffs))
	for name, cutoff := range cutoffs {
		if cutoff <= top.Cutoff {
			mode, err := ParseMode(name)
			if err != nil {
				return nil, err
			}
			supported = append(supported, mode)
		}
	}
	sort.Slice(supported, func(i, j int) bool {
		if supported[i].Cutoff != supported[j].Cutoff {
			return supported[i].Cutoff < supported[j].Cutoff
		}
		return supported[i].Name < supported[j].Name
	})
	return supported, nil
}

// GroupByRadial buckets parsed modes by radial number, preserving the input
// order inside each bucket.
func GroupByRadial(supported []model.Mode) map[int][]model.Mode {
	groups := make(map[int][]model.Mode)
	for _, mode := range supported {
		groups[mode.Radial] = append(groups[mode.Radial], mode)
	}
	return groups
}

// RadialNumbersDescending returns the group keys sorted high to low;
// radial-number-1 modes form the outermost physical ring by convention.
func RadialNumbersDescending(groups map[int][]model.Mode) []int {
	keys := make([]int, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))
	return keys
}
