package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lanternforge/internal/model"
	"lanternforge/internal/modes"
)

func TestBuildCoreMapSingleMode(t *testing.T) {
	coreMap, capDia, err := BuildCoreMap("LP01", 125)
	require.NoError(t, err)
	require.Equal(t, 1, coreMap.Len())
	assert.Equal(t, "LP01", coreMap.Entries[0].ID)
	assert.Equal(t, model.Point{X: 0, Y: 0}, coreMap.Entries[0].Pos)
	assert.InDelta(t, 125, capDia, 1e-9)
}

func TestBuildCoreMapLP11Scenario(t *testing.T) {
	// LP01 and LP11 share radial number 1: a single ring of 1+2 = 3 cores.
	coreMap, capDia, err := BuildCoreMap("LP11", 125)
	require.NoError(t, err)
	require.Equal(t, 3, coreMap.Len())
	assert.Equal(t, []string{"LP01", "LP11a", "LP11b"}, coreMap.IDs())

	// Three circles on one ring: capillary encloses the outermost ring.
	packed, err := Pack(125, []model.RingSpec{{Count: 3, RadiusScale: 1}})
	require.NoError(t, err)
	assert.InDelta(t, 2*packed[0].Radius+125, capDia, 1e-9)

	lp11a, ok := coreMap.Lookup("LP11a")
	require.True(t, ok)
	require.NotNil(t, lp11a.Mode)
	assert.Equal(t, "LP11", lp11a.Mode.Name)
}

func TestBuildCoreMapEntryCountMatchesOrientations(t *testing.T) {
	for _, highest := range []string{"LP01", "LP11", "LP21", "LP02", "LP31", "LP03"} {
		supported, err := modes.Supported(highest)
		require.NoError(t, err)
		want := 0
		for _, mode := range supported {
			want += mode.Orientations()
		}

		coreMap, _, err := BuildCoreMap(highest, 125)
		require.NoError(t, err)
		assert.Equal(t, want, coreMap.Len(), "highest=%s", highest)
	}
}

func TestBuildCoreMapRadialOrderOuterFirst(t *testing.T) {
	// Assignment walks radial groups in descending order, matching ring
	// construction, so the radial-2 group (LP02) leads the map.
	coreMap, _, err := BuildCoreMap("LP02", 125)
	require.NoError(t, err)
	assert.Equal(t, "LP02", coreMap.Entries[0].ID)
	// Radial-1 modes follow, in ascending cutoff order.
	assert.Equal(t, []string{"LP02", "LP01", "LP11a", "LP11b", "LP21a", "LP21b"}, coreMap.IDs())
}

func TestBuildCoreMapErrors(t *testing.T) {
	_, _, err := BuildCoreMap("LP99", 125)
	assert.ErrorIs(t, err, modes.ErrUnknownMode)

	_, _, err = BuildCoreMap("LP11", 0)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}

func TestBuildIndexedCoreMap(t *testing.T) {
	coreMap, capDia, err := BuildIndexedCoreMap([]model.RingSpec{
		{Count: 1, RadiusScale: 0},
		{Count: 5, RadiusScale: 1},
	}, 125)
	require.NoError(t, err)
	require.Equal(t, 6, coreMap.Len())
	assert.Equal(t, []string{"0", "1", "2", "3", "4", "5"}, coreMap.IDs())
	assert.Nil(t, coreMap.Entries[0].Mode)
	assert.InDelta(t, 2*125+125, capDia, 1e-9)

	_, _, err = BuildIndexedCoreMap([]model.RingSpec{{Count: -2}}, 125)
	assert.ErrorIs(t, err, ErrInvalidGeometry)
}
