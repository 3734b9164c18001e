package sim

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
)

// OverlapResult is one overlap-integral computation between two field
// files.
type OverlapResult struct {
	Complex   complex128
	Magnitude float64
	Squared   float64
}

// OverlapTool invokes the external overlap-computation utility.
type OverlapTool struct {
	Binary string
}

// Integral computes the overlap between two mode-field files. The utility
// prints three "name = value" lines: the complex integral (real and
// imaginary parts), its magnitude, and its squared magnitude.
func (o OverlapTool) Integral(ctx context.Context, fileA, fileB string) (OverlapResult, error) {
	if o.Binary == "" {
		return OverlapResult{}, fmt.Errorf("sim: overlap binary is not configured")
	}
	cmd := exec.CommandContext(ctx, o.Binary, "-i", fileA, fileB)
	out, err := cmd.Output()
	if err != nil {
		if ctx.Err() != nil {
			return OverlapResult{}, ctx.Err()
		}
		return OverlapResult{}, fmt.Errorf("sim: %s -i %s %s failed: %w", o.Binary, fileA, fileB, err)
	}
	return parseOverlapOutput(string(out))
}

func parseOverlapOutput(out string) (OverlapResult, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 3 {
		return OverlapResult{}, fmt.Errorf("sim: overlap output has %d lines, want 3", len(lines))
	}

	var result OverlapResult

	parts := strings.Fields(valueOf(lines[0]))
	if len(parts) < 2 {
		return OverlapResult{}, fmt.Errorf("sim: malformed complex overlap line %q", lines[0])
	}
	re, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return OverlapResult{}, fmt.Errorf("sim: parse overlap real part: %w", err)
	}
	im, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return OverlapResult{}, fmt.Errorf("sim: parse overlap imaginary part: %w", err)
	}
	result.Complex = complex(re, im)

	if result.Magnitude, err = strconv.ParseFloat(strings.TrimSpace(valueOf(lines[1])), 64); err != nil {
		return OverlapResult{}, fmt.Errorf("sim: parse overlap magnitude: %w", err)
	}
	if result.Squared, err = strconv.ParseFloat(strings.TrimSpace(valueOf(lines[2])), 64); err != nil {
		return OverlapResult{}, fmt.Errorf("sim: parse overlap squared magnitude: %w", err)
	}
	return result, nil
}

func valueOf(line string) string {
	_, value, found := strings.Cut(line, "=")
	if !found {
		return ""
	}
	return strings.TrimSpace(value)
}

// TotalSquared sums the squared overlap across numModes mode files. Mode i
// lives in files "<prefix>.mNN" under each directory, NN being the
// zero-padded mode index.
func (o OverlapTool) TotalSquared(ctx context.Context, inputDir, inputPrefix, refDir, refPrefix string, numModes int) (float64, error) {
	total := 0.0
	for i := 0; i < numModes; i++ {
		ext := fmt.Sprintf(".m%02d", i)
		result, err := o.Integral(ctx,
			filepath.Join(inputDir, inputPrefix+ext),
			filepath.Join(refDir, refPrefix+ext))
		if err != nil {
			return 0, fmt.Errorf("sim: overlap for mode %d: %w", i, err)
		}
		total += result.Squared
	}
	return total, nil
}
