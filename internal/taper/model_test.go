package taper

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lanternforge/internal/layout"
	"lanternforge/internal/model"
)

func threeCoreMap(t *testing.T) model.CoreMap {
	t.Helper()
	coreMap, _, err := layout.BuildCoreMap("LP11", 125)
	require.NoError(t, err)
	return coreMap
}

func baseConfig(t *testing.T) Config {
	return Config{
		Samples:          100,
		TaperLength:      50000,
		CladdingDia:      125,
		FinalCapillaryID: 40,
		CapillaryID:      275,
		CapillaryOD:      900,
		CoreMap:          threeCoreMap(t),
	}
}

func TestScheduleBoundaryAndMonotonicity(t *testing.T) {
	s := DefaultSchedule()
	length := 50000.0

	assert.InDelta(t, 0, s.Ratio(0, length), 0.05)
	assert.InDelta(t, 1, s.Ratio(length, length), 0.05)

	prev := -1.0
	for i := 0; i <= 1000; i++ {
		z := length * float64(i) / 1000
		r := s.Ratio(z, length)
		assert.GreaterOrEqual(t, r, prev, "ratio decreased at z=%v", z)
		assert.GreaterOrEqual(t, r, 0.0)
		assert.LessOrEqual(t, r, 1.0)
		prev = r
	}
}

func TestBuildBoundaryValuesExact(t *testing.T) {
	cfg := baseConfig(t)
	m, err := Build(cfg)
	require.NoError(t, err)

	last := len(m.Z) - 1
	assert.Equal(t, 0.0, m.Z[0])
	assert.Equal(t, cfg.TaperLength, m.Z[last])
	assert.Equal(t, 0.0, m.TaperRatio[0])
	assert.Equal(t, 1.0, m.TaperRatio[last])
	assert.Equal(t, cfg.CapillaryID, m.CapillaryInnerDia[0])
	assert.Equal(t, cfg.FinalCapillaryID, m.CapillaryInnerDia[last])
	assert.Equal(t, cfg.CapillaryOD, m.CapillaryOuterDia[0])

	for _, core := range m.Cores {
		assert.Equal(t, cfg.CladdingDia, core.CladdingDia[0], "core %s", core.ID)
		assert.Equal(t, m.FinalCladdingDia, core.CladdingDia[len(core.CladdingDia)-1], "core %s", core.ID)
		assert.Equal(t, 0.8*cfg.CladdingDia, core.CoreDia[0], "core %s", core.ID)

		entry, ok := cfg.CoreMap.Lookup(core.ID)
		require.True(t, ok)
		assert.Equal(t, entry.Pos, core.Pos[0], "core %s initial position", core.ID)
	}
}

func TestBuildDerivedFinalCladding(t *testing.T) {
	cfg := baseConfig(t)
	m, err := Build(cfg)
	require.NoError(t, err)

	n := float64(cfg.CoreMap.Len())
	want := cfg.FinalCapillaryID / (1 + 2/math.Sqrt(n))
	assert.InDelta(t, want, m.FinalCladdingDia, 1e-9)
}

func TestBuildSingleCoreFinalCladding(t *testing.T) {
	cfg := baseConfig(t)
	coreMap, _, err := layout.BuildCoreMap("LP01", 125)
	require.NoError(t, err)
	cfg.CoreMap = coreMap

	m, err := Build(cfg)
	require.NoError(t, err)
	assert.InDelta(t, cfg.FinalCapillaryID/3, m.FinalCladdingDia, 1e-9)
}

func TestBuildExplicitFinalCladding(t *testing.T) {
	cfg := baseConfig(t)
	cfg.FinalCladdingDia = 20

	m, err := Build(cfg)
	require.NoError(t, err)
	assert.Equal(t, 20.0, m.FinalCladdingDia)
}

func TestBuildDiametersStrictlyPositive(t *testing.T) {
	m, err := Build(baseConfig(t))
	require.NoError(t, err)

	for i := range m.Z {
		assert.Greater(t, m.CapillaryInnerDia[i], 0.0)
		assert.Greater(t, m.CapillaryOuterDia[i], m.CapillaryInnerDia[i])
		for _, core := range m.Cores {
			assert.Greater(t, core.CladdingDia[i], 0.0)
			assert.Greater(t, core.CoreDia[i], 0.0)
		}
	}
}

func TestBuildCoreRatioPreserved(t *testing.T) {
	cfg := baseConfig(t)
	cfg.CoreDia = map[string]float64{"LP01": 10.4}

	m, err := Build(cfg)
	require.NoError(t, err)
	for _, core := range m.Cores {
		wantRatio := 0.8
		if core.ID == "LP01" {
			wantRatio = 10.4 / 125
		}
		for i := range core.CoreDia {
			assert.InDelta(t, wantRatio, core.CoreDia[i]/core.CladdingDia[i], 1e-9,
				"core %s sample %d", core.ID, i)
		}
	}
}

func TestBuildPositionsCollapseWhenNoAvailableRadius(t *testing.T) {
	cfg := baseConfig(t)
	cfg.CapillaryID = cfg.CladdingDia // initial available radius = 0
	cfg.CapillaryOD = 900

	m, err := Build(cfg)
	require.NoError(t, err)
	for _, core := range m.Cores {
		for i, pos := range core.Pos {
			assert.Equal(t, model.Point{}, pos, "core %s sample %d", core.ID, i)
		}
	}
}

func TestBuildPositionsScaleWithAvailableRadius(t *testing.T) {
	m, err := Build(baseConfig(t))
	require.NoError(t, err)

	// The bundle contracts monotonically with the taper ratio.
	for _, core := range m.Cores {
		r0 := math.Hypot(core.Pos[0].X, core.Pos[0].Y)
		last := len(core.Pos) - 1
		rEnd := math.Hypot(core.Pos[last].X, core.Pos[last].Y)
		if r0 == 0 {
			assert.Equal(t, 0.0, rEnd)
			continue
		}
		assert.Less(t, rEnd, r0, "core %s did not contract", core.ID)
	}
}

func TestBuildValidation(t *testing.T) {
	for name, mutate := range map[string]func(*Config){
		"samples":        func(c *Config) { c.Samples = 1 },
		"length":         func(c *Config) { c.TaperLength = 0 },
		"cladding":       func(c *Config) { c.CladdingDia = -1 },
		"final cap id":   func(c *Config) { c.FinalCapillaryID = 0 },
		"cap id":         func(c *Config) { c.CapillaryID = 0 },
		"cap od":         func(c *Config) { c.CapillaryOD = c.CapillaryID },
		"empty core map": func(c *Config) { c.CoreMap = model.CoreMap{} },
		"core dia":       func(c *Config) { c.CoreDia = map[string]float64{"LP01": -1} },
	} {
		cfg := baseConfig(t)
		mutate(&cfg)
		_, err := Build(cfg)
		assert.ErrorIs(t, err, layout.ErrInvalidGeometry, "case %s", name)
	}
}

func TestEndpoints(t *testing.T) {
	cfg := baseConfig(t)
	m, err := Build(cfg)
	require.NoError(t, err)

	cores, capillary := m.Endpoints()
	require.Len(t, cores, cfg.CoreMap.Len())
	assert.Equal(t, cfg.TaperLength, capillary.Z)
	assert.Equal(t, cfg.FinalCapillaryID, capillary.InnerDia)

	for _, ep := range cores {
		assert.Equal(t, cfg.TaperLength, ep.Z)
		assert.Equal(t, m.FinalCladdingDia, ep.CladdingDia)
		assert.InDelta(t, 0.8, ep.CoreDia/ep.CladdingDia, 1e-9)
	}
}

func TestLinearTaper(t *testing.T) {
	l, err := LinearFromFactor(250, 8, 50000)
	require.NoError(t, err)
	assert.InDelta(t, 31.25, l.EndDia, 1e-9)
	assert.InDelta(t, 8, l.Factor(), 1e-9)

	dia, err := l.DiameterAt(40000)
	require.NoError(t, err)
	assert.InDelta(t, 250+l.Rate()*40000, dia, 1e-9)

	_, err = l.DiameterAt(-1)
	assert.ErrorIs(t, err, layout.ErrInvalidGeometry)
	_, err = l.DiameterAt(50001)
	assert.ErrorIs(t, err, layout.ErrInvalidGeometry)

	_, err = LinearFromFactor(250, 0, 50000)
	assert.ErrorIs(t, err, layout.ErrInvalidGeometry)

	assert.True(t, math.IsInf(Linear{StartDia: 10, EndDia: 0, Length: 1}.Factor(), 1))
}
