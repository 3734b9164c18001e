package modes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMode(t *testing.T) {
	mode, err := ParseMode("LP21")
	require.NoError(t, err)
	assert.Equal(t, 2, mode.Azimuthal)
	assert.Equal(t, 1, mode.Radial)
	assert.InDelta(t, 3.832, mode.Cutoff, 1e-12)
	assert.Equal(t, 2, mode.Orientations())

	lp01, err := ParseMode("LP01")
	require.NoError(t, err)
	assert.Equal(t, 1, lp01.Orientations())
}

func TestParseModeRejectsMalformedNames(t *testing.T) {
	for _, name := range []string{"", "LP1", "LP111", "lp01", "XP01", "LPxy", "LP99"} {
		_, err := ParseMode(name)
		assert.ErrorIs(t, err, ErrUnknownMode, "name %q", name)
	}
}

func TestSupportedOrdering(t *testing.T) {
	supported, err := Supported("LP11")
	require.NoError(t, err)
	names := make([]string, len(supported))
	for i, m := range supported {
		names[i] = m.Name
	}
	assert.Equal(t, []string{"LP01", "LP11"}, names)
}

func TestSupportedIncludesCutoffTies(t *testing.T) {
	// LP21 and LP02 share the same cutoff (3.832); both must be included.
	supported, err := Supported("LP21")
	require.NoError(t, err)
	names := make([]string, len(supported))
	for i, m := range supported {
		names[i] = m.Name
	}
	assert.Equal(t, []string{"LP01", "LP11", "LP02", "LP21"}, names)
}

func TestSupportedUnknownHighestMode(t *testing.T) {
	_, err := Supported("LP77")
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestGroupByRadial(t *testing.T) {
	supported, err := Supported("LP02")
	require.NoError(t, err)
	groups := GroupByRadial(supported)

	require.Len(t, groups, 2)
	assert.Len(t, groups[1], 3) // LP01, LP11, LP21
	assert.Len(t, groups[2], 1) // LP02
	assert.Equal(t, []int{2, 1}, RadialNumbersDescending(groups))
}
