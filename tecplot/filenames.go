package tecplot

import (
	"fmt"
	"path/filepath"

	"github.com/notargets/tecio/types"
)

// FileNames holds the base output names per physics family
type FileNames struct {
	Flow             string `json:"Flow"`
	SurfaceFlow      string `json:"SurfaceFlow"`
	Adjoint          string `json:"Adjoint"`
	SurfaceAdjoint   string `json:"SurfaceAdjoint"`
	Structure        string `json:"Structure"`
	SurfaceStructure string `json:"SurfaceStructure"`
	Wave             string `json:"Wave"`
	SurfaceWave      string `json:"SurfaceWave"`
	Heat             string `json:"Heat"`
	SurfaceHeat      string `json:"SurfaceHeat"`
}

var DefaultFileNames = FileNames{
	Flow:             "flow",
	SurfaceFlow:      "surface_flow",
	Adjoint:          "adjoint",
	SurfaceAdjoint:   "surface_adjoint",
	Structure:        "structure",
	SurfaceStructure: "surface_structure",
	Wave:             "wave",
	SurfaceWave:      "surface_wave",
	Heat:             "heat",
	SurfaceHeat:      "surface_heat",
}

// WithDefaults fills empty names from DefaultFileNames
func (fn FileNames) WithDefaults() FileNames {
	pick := func(s, d string) string {
		if s == "" {
			return d
		}
		return s
	}
	d := DefaultFileNames
	return FileNames{
		Flow:             pick(fn.Flow, d.Flow),
		SurfaceFlow:      pick(fn.SurfaceFlow, d.SurfaceFlow),
		Adjoint:          pick(fn.Adjoint, d.Adjoint),
		SurfaceAdjoint:   pick(fn.SurfaceAdjoint, d.SurfaceAdjoint),
		Structure:        pick(fn.Structure, d.Structure),
		SurfaceStructure: pick(fn.SurfaceStructure, d.SurfaceStructure),
		Wave:             pick(fn.Wave, d.Wave),
		SurfaceWave:      pick(fn.SurfaceWave, d.SurfaceWave),
		Heat:             pick(fn.Heat, d.Heat),
		SurfaceHeat:      pick(fn.SurfaceHeat, d.SurfaceHeat),
	}
}

// Base is the file name stem for a solver, without zone or iteration suffixes
func (fn FileNames) Base(kind types.SolverKind, surface bool) (name string, err error) {
	choose := func(vol, surf string) string {
		if surface {
			return surf
		}
		return vol
	}
	switch {
	case kind.IsFlow(), kind.IsTNE2():
		name = choose(fn.Flow, fn.SurfaceFlow)
	case kind.IsAdjoint():
		name = choose(fn.Adjoint, fn.SurfaceAdjoint)
	case kind == types.LinearElasticity:
		name = choose(fn.Structure, fn.SurfaceStructure)
	case kind == types.WaveEquation:
		name = choose(fn.Wave, fn.SurfaceWave)
	case kind == types.HeatEquation:
		name = choose(fn.Heat, fn.SurfaceHeat)
	case kind == types.PoissonEquation:
		name = fn.Structure
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownSolver, kind)
	}
	return
}

// Naming decides the per cycle suffixes appended to the base names
type Naming struct {
	Names          FileNames
	NZone          int
	TimeSpectral   bool
	UnsteadyOutput bool // Unsteady run writing one file per iteration
}

func (n Naming) stem(kind types.SolverKind, surface bool, zone int) (stem string, err error) {
	if stem, err = n.Names.WithDefaults().Base(kind, surface); err != nil {
		return
	}
	if n.NZone > 1 && !n.TimeSpectral && (kind.IsFlow() || kind.IsTNE2() || kind.IsAdjoint()) {
		stem = fmt.Sprintf("%s_%d", stem, zone)
	}
	return
}

// cycleSuffix is the zone index for time spectral runs and the iteration for unsteady ones
func (n Naming) cycleSuffix(zone, iter int) string {
	switch {
	case n.TimeSpectral:
		return fmt.Sprintf("_%05d", zone)
	case n.UnsteadyOutput:
		return fmt.Sprintf("_%05d", iter)
	}
	return ""
}

// ASCIIName is the .dat file name of one output cycle
func (n Naming) ASCIIName(kind types.SolverKind, surface bool, zone, iter int) (name string, err error) {
	var stem string
	if stem, err = n.stem(kind, surface, zone); err != nil {
		return
	}
	return stem + n.cycleSuffix(zone, iter) + ".dat", nil
}

// MeshBinaryName is the grid file, written once per run
func (n Naming) MeshBinaryName(kind types.SolverKind, surface bool, zone int) (name string, err error) {
	var stem string
	if stem, err = n.stem(kind, surface, zone); err != nil {
		return
	}
	return stem + ".mesh.plt", nil
}

// SolutionBinaryName is the per cycle binary solution file
func (n Naming) SolutionBinaryName(kind types.SolverKind, surface bool, zone, iter int) (name string, err error) {
	var stem string
	if stem, err = n.stem(kind, surface, zone); err != nil {
		return
	}
	return stem + n.cycleSuffix(zone, iter) + ".sol.plt", nil
}

// GridFileName is the grid only ASCII file in dir
func GridFileName(dir string, surface bool) string {
	if surface {
		return filepath.Join(dir, "surface_grid.dat")
	}
	return filepath.Join(dir, "volumetric_grid.dat")
}
