// Package fiber carries the single-mode fiber catalog and the assignment of
// catalog entries to packed cores. Optimizer individuals are vectors of
// indices into a Catalog.
package fiber

import (
	"errors"
	"fmt"

	"lanternforge/internal/model"
)

// ErrUnknownFiber indicates a fiber-type index or name absent from the
// catalog.
var ErrUnknownFiber = errors.New("fiber: unknown fiber type")

// Catalog is an ordered set of fiber specs. Order matters: optimizer genes
// are positions in this slice.
type Catalog struct {
	specs []model.FiberSpec
}

// backgroundIndex is the refractive index of the surrounding medium used
// for all catalog entries.
const backgroundIndex = 1.4345

// Default returns the built-in single-mode fiber catalog. Diameters are
// microns; indices are at 1550 nm.
func Default() Catalog {
	return Catalog{specs: []model.FiberSpec{
		{Type: "SMF-28e", CoreDia: 8.2, CladdingDia: 125.0, CoreIndex: 1.45213, CladdingIndex: 1.44692, BackgroundIndex: backgroundIndex, NumericAperture: 0.14},
		{Type: "HI1060", CoreDia: 5.3, CladdingDia: 125.0, CoreIndex: 1.45370, CladdingIndex: 1.44920, BackgroundIndex: backgroundIndex, NumericAperture: 0.14},
		{Type: "980HP", CoreDia: 3.6, CladdingDia: 125.0, CoreIndex: 1.45580, CladdingIndex: 1.45000, BackgroundIndex: backgroundIndex, NumericAperture: 0.20},
		{Type: "UHNA1", CoreDia: 2.5, CladdingDia: 125.0, CoreIndex: 1.46300, CladdingIndex: 1.45000, BackgroundIndex: backgroundIndex, NumericAperture: 0.28},
		{Type: "UHNA3", CoreDia: 1.8, CladdingDia: 125.0, CoreIndex: 1.48000, CladdingIndex: 1.45000, BackgroundIndex: backgroundIndex, NumericAperture: 0.35},
		{Type: "SM600", CoreDia: 4.3, CladdingDia: 125.0, CoreIndex: 1.45800, CladdingIndex: 1.45300, BackgroundIndex: backgroundIndex, NumericAperture: 0.12},
		{Type: "SM980-5.8-125", CoreDia: 5.8, CladdingDia: 125.0, CoreIndex: 1.45350, CladdingIndex: 1.44900, BackgroundIndex: backgroundIndex, NumericAperture: 0.13},
		{Type: "SM1250", CoreDia: 7.0, CladdingDia: 125.0, CoreIndex: 1.45260, CladdingIndex: 1.44780, BackgroundIndex: backgroundIndex, NumericAperture: 0.12},
	}}
}

// New builds a catalog from explicit specs, for configs that restrict the
// search to a subset of fiber types.
func New(specs []model.FiberSpec) Catalog {
	out := make([]model.FiberSpec, len(specs))
	copy(out, specs)
	return Catalog{specs: out}
}

// Len returns the number of fiber types; optimizer genes live in [0, Len).
func (c Catalog) Len() int { return len(c.specs) }

// Specs returns a copy of the catalog entries in order.
func (c Catalog) Specs() []model.FiberSpec {
	out := make([]model.FiberSpec, len(c.specs))
	copy(out, c.specs)
	return out
}

// ByIndex returns the spec at a catalog position.
func (c Catalog) ByIndex(idx int) (model.FiberSpec, error) {
	if idx < 0 || idx >= len(c.specs) {
		return model.FiberSpec{}, fmt.Errorf("%w: index %d out of range [0, %d)", ErrUnknownFiber, idx, len(c.specs))
	}
	return c.specs[idx], nil
}

// ByType returns the spec with the given type name.
func (c Catalog) ByType(name string) (model.FiberSpec, error) {
	for _, spec := range c.specs {
		if spec.Type == name {
			return spec, nil
		}
	}
	return model.FiberSpec{}, fmt.Errorf("%w: %q", ErrUnknownFiber, name)
}

// ByIndices resolves an individual's gene vector to fiber specs, in order.
func (c Catalog) ByIndices(indices model.Individual) ([]model.FiberSpec, error) {
	specs := make([]model.FiberSpec, len(indices))
	for i, idx := range indices {
		spec, err := c.ByIndex(idx)
		if err != nil {
			return nil, err
		}
		specs[i] = spec
	}
	return specs, nil
}

// Assignment binds one packed core to the fiber spec chosen for it.
type Assignment struct {
	Core  model.CoreEntry
	Fiber model.FiberSpec
}

// Assign zips a core map with a gene vector positionally. The vector length
// must equal the core count.
func (c Catalog) Assign(coreMap model.CoreMap, indices model.Individual) ([]Assignment, error) {
	if len(indices) != coreMap.Len() {
		return nil, fmt.Errorf("fiber: assignment length mismatch: %d genes for %d cores", len(indices), coreMap.Len())
	}
	specs, err := c.ByIndices(indices)
	if err != nil {
		return nil, err
	}
	out := make([]Assignment, coreMap.Len())
	for i, entry := range coreMap.Entries {
		out[i] = Assignment{Core: entry, Fiber: specs[i]}
	}
	return out, nil
}
