package tecplot

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notargets/tecio/types"
)

var (
	ErrUnknownSolver  = errors.New("unknown solver kind")
	ErrColumnMismatch = errors.New("variable names and data columns differ in count")
)

// Source tells where a variable's column lives
type Source uint8

const (
	FromCoords Source = iota
	FromData
)

// Variable is one named output column. Index addresses Coords or Data depending on Source.
type Variable struct {
	Name   string
	Source Source
	Index  int
}

// VariableTable is the ordered list of output variables. Writers emit the
// columns positionally in this order.
type VariableTable struct {
	Variables []Variable
}

// OutputFlags are the run settings that change the variable list
type OutputFlags struct {
	NDim            int
	NVarConsv       int
	OmitCoordinates bool
	LowMemory       bool
	Limiters        bool
	Residuals       bool
	GridMovement    bool
	FreeSurface     bool
	SharpEdges      bool
	NSpecies        int
	NExtraOutput    int
	ExtraHeadings   []string // Optional names for the extra output columns
}

// ModelVariableBlock returns the trailing variables contributed by the physics model
func ModelVariableBlock(kind types.SolverKind, f OutputFlags) (names []string, err error) {
	switch kind {
	case types.Euler, types.NavierStokes, types.RANS:
		names = append(names, "Pressure", "Temperature", "Pressure_Coefficient", "Mach")
		if kind.IsViscous() {
			names = append(names, "Laminar_Viscosity", "Skin_Friction_Coefficient", "Heat_Flux", "Y_Plus")
		}
		if kind == types.RANS {
			names = append(names, "Eddy_Viscosity")
		}
		if f.SharpEdges {
			names = append(names, "Sharp_Edge_Dist")
		}
	case types.TNE2Euler, types.TNE2NavierStokes:
		names = append(names, "Mach", "Pressure", "Temperature", "Temperature_ve")
		if kind == types.TNE2NavierStokes {
			for iSpecies := 0; iSpecies < f.NSpecies; iSpecies++ {
				names = append(names, fmt.Sprintf("DiffusionCoeff_%d", iSpecies))
			}
			names = append(names, "Laminar_Viscosity", "ThermConductivity", "ThermConductivity_ve")
		}
	case types.PoissonEquation:
		for iDim := 0; iDim < f.NDim; iDim++ {
			names = append(names, fmt.Sprintf("poissonField_%d", iDim+1))
		}
	case types.AdjEuler, types.AdjNavierStokes, types.AdjRANS, types.AdjTNE2Euler, types.AdjTNE2NavierStokes:
		names = append(names, "Surface_Sensitivity", "Solution_Sensor")
	case types.LinearElasticity:
		names = append(names, "Von_Mises_Stress", "Flow_Pressure")
	case types.WaveEquation, types.HeatEquation:
	default:
		err = fmt.Errorf("%w: %s", ErrUnknownSolver, kind)
	}
	return
}

// AssembleVariables builds the ordered variable table for a solver and its output flags
func AssembleVariables(kind types.SolverKind, f OutputFlags) (vt *VariableTable, err error) {
	if f.NDim != 2 && f.NDim != 3 {
		err = fmt.Errorf("wrong number of dimensions: %d", f.NDim)
		return
	}
	var block []string
	if block, err = ModelVariableBlock(kind, f); err != nil {
		return
	}
	vt = &VariableTable{}
	if !f.OmitCoordinates {
		for iDim, name := range []string{"x", "y", "z"}[:f.NDim] {
			vt.Variables = append(vt.Variables, Variable{Name: name, Source: FromCoords, Index: iDim})
		}
	}
	vt.addData(numbered("Conservative", f.NVarConsv)...)
	if !f.LowMemory {
		if f.Limiters {
			vt.addData(numbered("Limiter", f.NVarConsv)...)
		}
		if f.Residuals {
			vt.addData(numbered("Residual", f.NVarConsv)...)
		}
		if f.GridMovement {
			vt.addData([]string{"Grid_Velx", "Grid_Vely", "Grid_Velz"}[:f.NDim]...)
		}
		if f.FreeSurface {
			vt.addData("Density")
		}
		vt.addData(block...)
		for iVar := 0; iVar < f.NExtraOutput; iVar++ {
			if iVar < len(f.ExtraHeadings) {
				vt.addData(f.ExtraHeadings[iVar])
			} else {
				vt.addData(fmt.Sprintf("ExtraOutput_%d", iVar+1))
			}
		}
	}
	return
}

// VariablesFromFields builds a table from restart file field names, which are
// all data columns with the coordinates first. The leading point index field
// must already be removed.
func VariablesFromFields(fields []string, nDim int, omitCoordinates bool) (vt *VariableTable, err error) {
	if len(fields) < nDim {
		err = fmt.Errorf("restart has %d fields, fewer than %d coordinates", len(fields), nDim)
		return
	}
	vt = &VariableTable{}
	for i, field := range fields {
		if omitCoordinates && i < nDim {
			continue
		}
		vt.Variables = append(vt.Variables, Variable{
			Name:   strings.Trim(field, "\""),
			Source: FromData,
			Index:  i,
		})
	}
	return
}

func numbered(prefix string, n int) (names []string) {
	for i := 0; i < n; i++ {
		names = append(names, fmt.Sprintf("%s_%d", prefix, i+1))
	}
	return
}

func (vt *VariableTable) addData(names ...string) {
	for _, name := range names {
		vt.Variables = append(vt.Variables, Variable{
			Name:   name,
			Source: FromData,
			Index:  vt.NumData(),
		})
	}
}

func (vt *VariableTable) Len() int { return len(vt.Variables) }

func (vt *VariableTable) Names() (names []string) {
	names = make([]string, len(vt.Variables))
	for i, v := range vt.Variables {
		names[i] = v.Name
	}
	return
}

// NumData is the number of variables read from the data columns
func (vt *VariableTable) NumData() (n int) {
	for _, v := range vt.Variables {
		if v.Source == FromData {
			n++
		}
	}
	return
}

// Validate checks that every variable has a column to read
func (vt *VariableTable) Validate(coords, data [][]float64) error {
	var maxData = -1
	for _, v := range vt.Variables {
		switch v.Source {
		case FromCoords:
			if v.Index >= len(coords) {
				return fmt.Errorf("%w: %q needs coordinate %d, have %d",
					ErrColumnMismatch, v.Name, v.Index, len(coords))
			}
		case FromData:
			if v.Index > maxData {
				maxData = v.Index
			}
		}
	}
	// Unnamed trailing columns count as a mismatch too
	if maxData+1 != len(data) {
		return fmt.Errorf("%w: %d data variables named, %d data columns supplied",
			ErrColumnMismatch, maxData+1, len(data))
	}
	return nil
}

// Columns resolves the table against the point arrays, in table order
func (vt *VariableTable) Columns(coords, data [][]float64) (cols [][]float64) {
	cols = make([][]float64, len(vt.Variables))
	for i, v := range vt.Variables {
		if v.Source == FromCoords {
			cols[i] = coords[v.Index]
		} else {
			cols[i] = data[v.Index]
		}
	}
	return
}
