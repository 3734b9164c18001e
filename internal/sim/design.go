// Package sim is the boundary to the external simulation toolchain: design
// request assembly, simulator and overlap-utility process invocation,
// reference-mode precomputation, and the failure-absorbing fitness
// evaluator the optimizer calls.
package sim

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"lanternforge/internal/fiber"
	"lanternforge/internal/model"
	"lanternforge/internal/taper"
)

// CoreDesign is one core's contribution to a design request: the fiber
// chosen for it, its untapered position, and its pinned taper endpoint.
type CoreDesign struct {
	ID    string
	Fiber model.FiberSpec
	Start model.Point
	End   taper.CoreEndpoint
}

// DesignRequest is everything a design sink needs to emit one lantern.
type DesignRequest struct {
	Name         string
	HighestMode  string
	TaperLength  float64
	CladdingDia  float64
	CapillaryDia float64
	Cores        []CoreDesign
	Capillary    taper.CapillaryEndpoint
}

// DesignSink serializes a design request into the directory, returning the
// name of the file the simulator should be pointed at. The proprietary
// design format lives behind this interface.
type DesignSink interface {
	WriteDesign(ctx context.Context, dir string, req DesignRequest) (string, error)
}

// TextDesignSink writes a plain-text design summary, one line per core plus
// a capillary line. It stands in for the proprietary serializer in tests
// and local runs.
type TextDesignSink struct{}

func (TextDesignSink) WriteDesign(ctx context.Context, dir string, req DesignRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "lantern %s\n", req.Name)
	fmt.Fprintf(&b, "highest_mode %s\n", req.HighestMode)
	fmt.Fprintf(&b, "taper_length %g\n", req.TaperLength)
	fmt.Fprintf(&b, "cladding_dia %g\n", req.CladdingDia)
	fmt.Fprintf(&b, "capillary_dia %g\n", req.CapillaryDia)
	for _, core := range req.Cores {
		fmt.Fprintf(&b, "core %s fiber=%s start=(%g,%g) end=(%g,%g,%g) end_core_dia=%g end_cladding_dia=%g\n",
			core.ID, core.Fiber.Type,
			core.Start.X, core.Start.Y,
			core.End.X, core.End.Y, core.End.Z,
			core.End.CoreDia, core.End.CladdingDia)
	}
	fmt.Fprintf(&b, "capillary end=(%g) inner_dia=%g outer_dia=%g\n",
		req.Capillary.Z, req.Capillary.InnerDia, req.Capillary.OuterDia)

	name := req.Name + ".design"
	if err := os.WriteFile(filepath.Join(dir, name), []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("sim: write design %s: %w", name, err)
	}
	return name, nil
}

// LanternSpec groups the geometry inputs shared by one-off design and
// repeated evaluation.
type LanternSpec struct {
	Catalog          fiber.Catalog
	CoreMap          model.CoreMap
	CapillaryID      float64
	CapillaryOD      float64
	FinalCapillaryID float64
	CladdingDia      float64
	TaperLength      float64
	Samples          int
}

// BuildLantern assigns fibers to cores by gene index and samples the taper
// geometry with each core's diameter taken from its assigned fiber.
func BuildLantern(spec LanternSpec, indices model.Individual) (*taper.Model, []fiber.Assignment, error) {
	assignments, err := spec.Catalog.Assign(spec.CoreMap, indices)
	if err != nil {
		return nil, nil, err
	}

	coreDia := make(map[string]float64, len(assignments))
	for _, a := range assignments {
		coreDia[a.Core.ID] = a.Fiber.CoreDia
	}
	m, err := taper.Build(taper.Config{
		Samples:          spec.Samples,
		TaperLength:      spec.TaperLength,
		CladdingDia:      spec.CladdingDia,
		FinalCapillaryID: spec.FinalCapillaryID,
		CapillaryID:      spec.CapillaryID,
		CapillaryOD:      spec.CapillaryOD,
		CoreMap:          spec.CoreMap,
		CoreDia:          coreDia,
	})
	if err != nil {
		return nil, nil, err
	}
	return m, assignments, nil
}

// WriteLanternDesign composes a design request from built geometry and
// writes it through the sink, returning the design file name.
func WriteLanternDesign(ctx context.Context, sink DesignSink, dir, name, highestMode string, assignments []fiber.Assignment, m *taper.Model, taperLength, claddingDia, capillaryDia float64) (string, error) {
	req := buildDesignRequest(name, highestMode, assignments, m, taperLength, claddingDia, capillaryDia)
	return sink.WriteDesign(ctx, dir, req)
}

// buildDesignRequest composes the geometry pipeline output and a fiber
// assignment into one request.
func buildDesignRequest(name, highestMode string, assignments []fiber.Assignment, m *taper.Model, taperLength, claddingDia, capillaryDia float64) DesignRequest {
	coreEnds, capEnd := m.Endpoints()
	endByID := make(map[string]taper.CoreEndpoint, len(coreEnds))
	for _, ep := range coreEnds {
		endByID[ep.ID] = ep
	}

	cores := make([]CoreDesign, len(assignments))
	for i, a := range assignments {
		cores[i] = CoreDesign{
			ID:    a.Core.ID,
			Fiber: a.Fiber,
			Start: a.Core.Pos,
			End:   endByID[a.Core.ID],
		}
	}
	return DesignRequest{
		Name:         name,
		HighestMode:  highestMode,
		TaperLength:  taperLength,
		CladdingDia:  claddingDia,
		CapillaryDia: capillaryDia,
		Cores:        cores,
		Capillary:    capEnd,
	}
}
