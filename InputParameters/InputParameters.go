package InputParameters

import (
	"fmt"
	"strings"

	"github.com/ghodss/yaml"

	"github.com/notargets/tecio/mesh"
	"github.com/notargets/tecio/tecplot"
	"github.com/notargets/tecio/types"
)

// Output formats
const (
	FormatASCII  = "ascii"
	FormatBinary = "binary"
)

// Parameters obtained from the YAML output file
type OutputParameters struct {
	Solver         string            `json:"Solver"` // Empty takes the variable names from the restart header
	Format         string            `json:"Format"` // ascii or binary
	Volume         bool              `json:"Volume"`
	Surface        bool              `json:"Surface"`
	MarkerPlotting []string          `json:"MarkerPlotting"` // Empty plots every marker
	FileNames      tecplot.FileNames `json:"FileNames"`
	OutputDir      string            `json:"OutputDir"`
	MeshOutFile    string            `json:"MeshOutFile"`
	Ranks          int               `json:"Ranks"`

	// Variable list selection
	NVarConsv     int      `json:"NVarConsv"`
	LowMemory     bool     `json:"LowMemory"`
	Limiters      bool     `json:"Limiters"`
	Residuals     bool     `json:"Residuals"`
	GridMovement  bool     `json:"GridMovement"`
	FreeSurface   bool     `json:"FreeSurface"`
	SharpEdges    bool     `json:"SharpEdges"`
	NSpecies      int      `json:"NSpecies"`
	NExtraOutput  int      `json:"NExtraOutput"`
	ExtraHeadings []string `json:"ExtraHeadings"`

	// Time levels
	NZone          int     `json:"NZone"`
	Zone           int     `json:"Zone"`
	TimeSpectral   bool    `json:"TimeSpectral"`
	Period         float64 `json:"Period"` // Time spectral period
	UnsteadyOutput bool    `json:"UnsteadyOutput"`
	Iteration      int     `json:"Iteration"`
	TimeStep       float64 `json:"TimeStep"`

	Periodic []mesh.Periodic `json:"Periodic"` // Replaces the mesh's own transformations on re-export
}

func NewOutputParameters() *OutputParameters {
	return &OutputParameters{
		Format:  FormatASCII,
		Volume:  true,
		Surface: true,
		NZone:   1,
		Ranks:   1,
	}
}

func (op *OutputParameters) Parse(data []byte) (err error) {
	if err = yaml.Unmarshal(data, op); err != nil {
		return
	}
	return op.Validate()
}

func (op *OutputParameters) Validate() error {
	op.Format = strings.ToLower(op.Format)
	if op.Format != FormatASCII && op.Format != FormatBinary {
		return fmt.Errorf("unknown output format %q", op.Format)
	}
	if op.Solver != "" {
		if _, err := op.Kind(); err != nil {
			return err
		}
	}
	if op.NZone < 1 || op.Zone < 0 || op.Zone >= op.NZone {
		return fmt.Errorf("zone %d outside of [0,%d)", op.Zone, op.NZone)
	}
	if op.Ranks < 1 {
		return fmt.Errorf("invalid rank count %d", op.Ranks)
	}
	return nil
}

func (op *OutputParameters) Kind() (types.SolverKind, error) {
	return types.NewSolverKind(op.Solver)
}

// Flags returns the switches shaping the variable list
func (op *OutputParameters) Flags(nDim int, omitCoordinates bool) tecplot.OutputFlags {
	return tecplot.OutputFlags{
		NDim:            nDim,
		NVarConsv:       op.NVarConsv,
		OmitCoordinates: omitCoordinates,
		LowMemory:       op.LowMemory,
		Limiters:        op.Limiters,
		Residuals:       op.Residuals,
		GridMovement:    op.GridMovement,
		FreeSurface:     op.FreeSurface,
		SharpEdges:      op.SharpEdges,
		NSpecies:        op.NSpecies,
		NExtraOutput:    op.NExtraOutput,
		ExtraHeadings:   op.ExtraHeadings,
	}
}

func (op *OutputParameters) Naming() tecplot.Naming {
	return tecplot.Naming{
		Names:          op.FileNames,
		NZone:          op.NZone,
		TimeSpectral:   op.TimeSpectral,
		UnsteadyOutput: op.UnsteadyOutput,
	}
}

// Strand tags unsteady and time spectral output with its time level, nil otherwise.
// Time spectral instances are strands of one period, numbered by zone, and
// take precedence so the strand agrees with the zone suffix of the file name.
func (op *OutputParameters) Strand() *tecplot.Strand {
	switch {
	case op.TimeSpectral:
		return &tecplot.Strand{ID: op.Zone + 1, Time: op.Period / float64(op.NZone) * float64(op.Zone)}
	case op.UnsteadyOutput:
		return &tecplot.Strand{ID: op.Iteration + 1, Time: op.TimeStep * float64(op.Iteration)}
	}
	return nil
}

func (op *OutputParameters) Print() {
	fmt.Printf("[%s]\t\t\t= Solver\n", op.Solver)
	fmt.Printf("[%s]\t\t\t= Format\n", op.Format)
	fmt.Printf("[%v/%v]\t\t= Volume/Surface\n", op.Volume, op.Surface)
	fmt.Printf("%v\t\t\t= Marker Plotting\n", op.MarkerPlotting)
	fmt.Printf("[%d]\t\t\t\t= Ranks\n", op.Ranks)
	fmt.Printf("[%d of %d]\t\t\t= Zone\n", op.Zone, op.NZone)
	if op.UnsteadyOutput {
		fmt.Printf("[%d]\t\t\t\t= Iteration\n", op.Iteration)
		fmt.Printf("%8.5f\t\t= Time Step\n", op.TimeStep)
	}
	for i, p := range op.Periodic {
		fmt.Printf("Periodic[%d] = %v\n", i, p)
	}
}
