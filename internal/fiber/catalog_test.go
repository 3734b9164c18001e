package fiber

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lanternforge/internal/layout"
	"lanternforge/internal/model"
)

func TestDefaultCatalog(t *testing.T) {
	c := Default()
	require.Greater(t, c.Len(), 0)

	smf, err := c.ByType("SMF-28e")
	require.NoError(t, err)
	assert.Equal(t, 125.0, smf.CladdingDia)
	assert.Greater(t, smf.CoreIndex, smf.CladdingIndex)

	_, err = c.ByType("no-such-fiber")
	assert.ErrorIs(t, err, ErrUnknownFiber)
}

func TestByIndices(t *testing.T) {
	c := Default()
	specs, err := c.ByIndices(model.Individual{0, 1, 0})
	require.NoError(t, err)
	require.Len(t, specs, 3)
	assert.Equal(t, specs[0].Type, specs[2].Type)

	_, err = c.ByIndices(model.Individual{0, c.Len()})
	assert.ErrorIs(t, err, ErrUnknownFiber)
	_, err = c.ByIndices(model.Individual{-1})
	assert.ErrorIs(t, err, ErrUnknownFiber)
}

func TestAssign(t *testing.T) {
	c := Default()
	coreMap, _, err := layout.BuildCoreMap("LP11", 125)
	require.NoError(t, err)

	assignments, err := c.Assign(coreMap, model.Individual{0, 1, 2})
	require.NoError(t, err)
	require.Len(t, assignments, 3)
	assert.Equal(t, "LP01", assignments[0].Core.ID)
	assert.Equal(t, "HI1060", assignments[1].Fiber.Type)

	_, err = c.Assign(coreMap, model.Individual{0, 1})
	assert.Error(t, err)
}

func TestNewRestrictedCatalog(t *testing.T) {
	full := Default()
	smf, err := full.ByType("SMF-28e")
	require.NoError(t, err)
	hi, err := full.ByType("HI1060")
	require.NoError(t, err)

	c := New([]model.FiberSpec{smf, hi})
	assert.Equal(t, 2, c.Len())
	got, err := c.ByIndex(1)
	require.NoError(t, err)
	assert.Equal(t, "HI1060", got.Type)
}
