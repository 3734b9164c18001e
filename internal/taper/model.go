package taper

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"lanternforge/internal/layout"
	"lanternforge/internal/model"
)

// defaultCoreRatio is the assumed core:cladding diameter ratio when no
// per-core core diameter is supplied.
const defaultCoreRatio = 0.8

// Config describes a taper geometry request. All lengths are microns.
type Config struct {
	Samples          int
	TaperLength      float64
	CladdingDia      float64 // untapered cladding diameter, shared by all cores
	FinalCladdingDia float64 // 0 means derive from FinalCapillaryID
	FinalCapillaryID float64 // capillary inner diameter at the waist
	CapillaryID      float64 // untapered capillary inner diameter
	CapillaryOD      float64 // untapered capillary outer diameter
	CoreMap          model.CoreMap
	CoreDia          map[string]float64 // optional per-core initial core diameters
	Schedule         *Schedule          // nil means DefaultSchedule
}

// CoreProfile carries one core's geometry sampled along the taper, aligned
// with Model.Z.
type CoreProfile struct {
	ID          string
	CladdingDia []float64
	CoreDia     []float64
	Pos         []model.Point
}

// Model is a sampled taper geometry. The first and last samples reproduce
// the declared initial and final geometry exactly.
type Model struct {
	Z                 []float64
	TaperRatio        []float64
	Cores             []CoreProfile
	CapillaryInnerDia []float64
	CapillaryOuterDia []float64
	FinalCladdingDia  float64
}

// CoreEndpoint pins one core's final cross-section for a design sink.
type CoreEndpoint struct {
	ID          string
	X, Y, Z     float64
	CoreDia     float64
	CladdingDia float64
}

// CapillaryEndpoint pins the capillary's final cross-section. The capillary
// carries no position: it is always centred on the bundle axis.
type CapillaryEndpoint struct {
	Z        float64
	InnerDia float64
	OuterDia float64
}

// Build samples the taper geometry on a uniform z grid over
// [0, TaperLength]. Cladding, core and capillary diameters interpolate
// linearly in the schedule's taper ratio, not in z; each core's initial
// core:cladding ratio is preserved across the taper; core positions scale
// radially with the shrinking available radius inside the capillary.
func Build(cfg Config) (*Model, error) {
	if err := validate(cfg); err != nil {
		return nil, err
	}

	schedule := DefaultSchedule()
	if cfg.Schedule != nil {
		schedule = *cfg.Schedule
	}

	n := cfg.Samples
	z := make([]float64, n)
	floats.Span(z, 0, cfg.TaperLength)

	ratio := make([]float64, n)
	for i, zi := range z {
		ratio[i] = schedule.Ratio(zi, cfg.TaperLength)
	}
	// The sigmoid composition only approaches 0 and 1 asymptotically; the
	// boundary samples are pinned so declared geometry holds exactly at
	// z=0 and z=TaperLength.
	ratio[0] = 0
	ratio[n-1] = 1

	finalCladding := cfg.FinalCladdingDia
	if finalCladding == 0 {
		finalCladding = deriveFinalCladding(cfg.FinalCapillaryID, cfg.CoreMap.Len())
	}

	capInner := make([]float64, n)
	capOuter := make([]float64, n)
	cladding := make([]float64, n)
	for i, r := range ratio {
		capInner[i] = cfg.CapillaryID*(1-r) + cfg.FinalCapillaryID*r
		capOuter[i] = cfg.CapillaryOD*(1-r) + (capInner[i]/cfg.CapillaryID)*cfg.CapillaryOD*r
		cladding[i] = cfg.CladdingDia*(1-r) + finalCladding*r
	}

	initialAvail := cfg.CapillaryID/2 - cfg.CladdingDia/2
	scale := make([]float64, n)
	for i := range scale {
		if initialAvail <= 0 {
			scale[i] = 0
			continue
		}
		avail := capInner[i]/2 - cladding[i]/2
		scale[i] = avail / initialAvail
	}

	cores := make([]CoreProfile, 0, cfg.CoreMap.Len())
	for _, entry := range cfg.CoreMap.Entries {
		coreDia0, ok := cfg.CoreDia[entry.ID]
		if !ok {
			coreDia0 = defaultCoreRatio * cfg.CladdingDia
		}
		coreRatio := coreDia0 / cfg.CladdingDia

		profile := CoreProfile{
			ID:          entry.ID,
			CladdingDia: make([]float64, n),
			CoreDia:     make([]float64, n),
			Pos:         make([]model.Point, n),
		}
		copy(profile.CladdingDia, cladding)
		for i := range profile.CoreDia {
			profile.CoreDia[i] = coreRatio * cladding[i]
			profile.Pos[i] = model.Point{
				X: entry.Pos.X * scale[i],
				Y: entry.Pos.Y * scale[i],
			}
		}
		cores = append(cores, profile)
	}

	return &Model{
		Z:                 z,
		TaperRatio:        ratio,
		Cores:             cores,
		CapillaryInnerDia: capInner,
		CapillaryOuterDia: capOuter,
		FinalCladdingDia:  finalCladding,
	}, nil
}

// deriveFinalCladding sizes the final cladding so N fibers pack into the
// final capillary inner diameter; a lone fiber gets a conservative third.
func deriveFinalCladding(finalCapillaryID float64, coreCount int) float64 {
	if coreCount > 1 {
		return finalCapillaryID / (1 + 2/math.Sqrt(float64(coreCount)))
	}
	return finalCapillaryID / 3
}

func validate(cfg Config) error {
	switch {
	case cfg.Samples < 2:
		return fmt.Errorf("%w: sample count %d must be >= 2", layout.ErrInvalidGeometry, cfg.Samples)
	case cfg.TaperLength <= 0:
		return fmt.Errorf("%w: taper length %v must be > 0", layout.ErrInvalidGeometry, cfg.TaperLength)
	case cfg.CladdingDia <= 0:
		return fmt.Errorf("%w: cladding diameter %v must be > 0", layout.ErrInvalidGeometry, cfg.CladdingDia)
	case cfg.FinalCladdingDia < 0:
		return fmt.Errorf("%w: final cladding diameter %v must be >= 0", layout.ErrInvalidGeometry, cfg.FinalCladdingDia)
	case cfg.FinalCapillaryID <= 0:
		return fmt.Errorf("%w: final capillary inner diameter %v must be > 0", layout.ErrInvalidGeometry, cfg.FinalCapillaryID)
	case cfg.CapillaryID <= 0:
		return fmt.Errorf("%w: capillary inner diameter %v must be > 0", layout.ErrInvalidGeometry, cfg.CapillaryID)
	case cfg.CapillaryOD <= cfg.CapillaryID:
		return fmt.Errorf("%w: capillary outer diameter %v must exceed inner %v", layout.ErrInvalidGeometry, cfg.CapillaryOD, cfg.CapillaryID)
	case cfg.CoreMap.Len() == 0:
		return fmt.Errorf("%w: core map is empty", layout.ErrInvalidGeometry)
	}
	for id, dia := range cfg.CoreDia {
		if dia <= 0 {
			return fmt.Errorf("%w: core %s diameter %v must be > 0", layout.ErrInvalidGeometry, id, dia)
		}
	}
	return nil
}

// Endpoints extracts the final cross-section: one record per core plus a
// single capillary record, used to pin the tapered end of a physical
// design.
func (m *Model) Endpoints() ([]CoreEndpoint, CapillaryEndpoint) {
	last := len(m.Z) - 1
	cores := make([]CoreEndpoint, len(m.Cores))
	for i, c := range m.Cores {
		cores[i] = CoreEndpoint{
			ID:          c.ID,
			X:           c.Pos[last].X,
			Y:           c.Pos[last].Y,
			Z:           m.Z[last],
			CoreDia:     c.CoreDia[last],
			CladdingDia: c.CladdingDia[last],
		}
	}
	return cores, CapillaryEndpoint{
		Z:        m.Z[last],
		InnerDia: m.CapillaryInnerDia[last],
		OuterDia: m.CapillaryOuterDia[last],
	}
}
