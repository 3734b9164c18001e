package model

// VersionedRecord captures schema and codec evolution for persistent data.
type VersionedRecord struct {
	SchemaVersion int `json:"schema_version"`
	CodecVersion  int `json:"codec_version"`
}

// Mode is a parsed linearly-polarized fiber mode "LPmn". It is produced once
// at the parsing boundary; downstream code never re-parses the string form.
type Mode struct {
	Name      string  `json:"name"`
	Azimuthal int     `json:"azimuthal"`
	Radial    int     `json:"radial"`
	Cutoff    float64 `json:"cutoff"`
}

// Orientations reports how many distinct spatial orientations the mode has:
// two ("a"/"b") for azimuthal > 0, one otherwise.
func (m Mode) Orientations() int {
	if m.Azimuthal > 0 {
		return 2
	}
	return 1
}

// Point is a cross-sectional position in microns.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RingSpec describes one concentric ring of a layer configuration:
// how many circles it holds and a radius scale hint. Index 0 is innermost.
type RingSpec struct {
	Count       int     `json:"count"`
	RadiusScale float64 `json:"radius_scale"`
}

// CoreEntry binds a core identifier to its untapered cross-section position.
// ID is a mode name, optionally suffixed "a"/"b" for dual-orientation modes,
// or a plain decimal index for index-driven layouts. Mode is nil for
// index-driven entries.
type CoreEntry struct {
	ID   string `json:"id"`
	Mode *Mode  `json:"mode,omitempty"`
	Pos  Point  `json:"pos"`
}

// CoreMap is an ordered mapping from core id to position. Order is the
// assignment order (outermost radial group first for mode-driven maps) and
// is load-bearing: fiber assignments zip against it positionally.
type CoreMap struct {
	Entries []CoreEntry `json:"entries"`
}

// Len returns the number of cores.
func (c CoreMap) Len() int { return len(c.Entries) }

// Lookup returns the entry with the given id.
func (c CoreMap) Lookup(id string) (CoreEntry, bool) {
	for _, e := range c.Entries {
		if e.ID == id {
			return e, true
		}
	}
	return CoreEntry{}, false
}

// IDs returns the core ids in assignment order.
func (c CoreMap) IDs() []string {
	ids := make([]string, len(c.Entries))
	for i, e := range c.Entries {
		ids[i] = e.ID
	}
	return ids
}

// FiberSpec is a single-mode fiber catalog record with named, typed fields.
type FiberSpec struct {
	Type            string  `json:"type"`
	CoreDia         float64 `json:"core_dia"`
	CladdingDia     float64 `json:"cladding_dia"`
	CoreIndex       float64 `json:"core_index"`
	CladdingIndex   float64 `json:"cladding_index"`
	BackgroundIndex float64 `json:"bg_index"`
	NumericAperture float64 `json:"na"`
}

// Individual is a fixed-length vector of fiber-type indices, one per core.
type Individual []int

// Clone returns an independent copy.
func (ind Individual) Clone() Individual {
	out := make(Individual, len(ind))
	copy(out, ind)
	return out
}

// Equal reports element-wise equality.
func (ind Individual) Equal(other Individual) bool {
	if len(ind) != len(other) {
		return false
	}
	for i := range ind {
		if ind[i] != other[i] {
			return false
		}
	}
	return true
}

// RunRecord summarizes one optimization run for persistence.
type RunRecord struct {
	VersionedRecord
	ID             string     `json:"id"`
	CreatedAtUTC   string     `json:"created_at_utc"`
	HighestMode    string     `json:"highest_mode"`
	Seed           int64      `json:"seed"`
	Population     int        `json:"population"`
	Generations    int        `json:"generations"`
	BestFitness    float64    `json:"best_fitness"`
	BestIndividual Individual `json:"best_individual"`
}

// GenerationDiagnostics records per-generation fitness statistics.
type GenerationDiagnostics struct {
	Generation  int     `json:"generation"`
	BestFitness float64 `json:"best_fitness"`
	MeanFitness float64 `json:"mean_fitness"`
	MinFitness  float64 `json:"min_fitness"`
	StdDev      float64 `json:"std_dev"`
	Failures    int     `json:"failures"`
}
