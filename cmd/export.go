/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/tecio/InputParameters"
	"github.com/notargets/tecio/mesh"
	"github.com/notargets/tecio/parallel"
	"github.com/notargets/tecio/solution"
	"github.com/notargets/tecio/tecplot"
	"github.com/notargets/tecio/types"
	"github.com/notargets/tecio/utils"
)

type Export struct {
	MeshFile    string
	RestartFile string
	ICFile      string
	OutputDir   string
	Ranks       int  // Overrides the parameter file when positive
	GridOnly    bool // Write volumetric_grid.dat / surface_grid.dat only
	Deformed    bool // Append the grid as a deformed zone
}

// ExportCmd represents the export command
var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write Tecplot files from an SU2 mesh and restart file",
	Long: `
Reads an SU2 mesh, an SU2 ASCII restart file and a YAML output parameters file,
then writes the volume and surface solutions as Tecplot ASCII or binary files.

tecio export -F mesh.su2 -R restart_flow.dat -I output.yaml --ranks 4`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ex := &Export{
			MeshFile:    viper.GetString("export.meshFile"),
			RestartFile: viper.GetString("export.restartFile"),
			ICFile:      viper.GetString("export.inputConditionsFile"),
			OutputDir:   viper.GetString("export.outputDir"),
			Ranks:       viper.GetInt("export.ranks"),
		}
		ex.GridOnly, _ = cmd.Flags().GetBool("grid")
		ex.Deformed, _ = cmd.Flags().GetBool("deformed")
		return RunExport(cmd.Context(), ex)
	},
}

func init() {
	rootCmd.AddCommand(ExportCmd)
	ExportCmd.Flags().StringP("meshFile", "F", "", "Mesh file to read in SU2 (.su2) format")
	ExportCmd.Flags().StringP("restartFile", "R", "", "SU2 ASCII restart file holding the solution")
	ExportCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for output parameters like:\n\t- Solver\n\t- Format (ascii or binary)\n\t- MarkerPlotting")
	ExportCmd.Flags().StringP("outputDir", "o", "", "directory for the output files, overrides the parameters file")
	ExportCmd.Flags().IntP("ranks", "n", 0, "number of writers, each writing a part of the zone before a merge")
	ExportCmd.Flags().Bool("grid", false, "write the grid only")
	ExportCmd.Flags().Bool("deformed", false, "append the grid to an existing grid file as a deformed grid")
	for _, name := range []string{"meshFile", "restartFile", "inputConditionsFile", "outputDir", "ranks"} {
		_ = viper.BindPFlag("export."+name, ExportCmd.Flags().Lookup(name))
	}
}

func readParameters(icFile string) (op *InputParameters.OutputParameters, err error) {
	op = InputParameters.NewOutputParameters()
	if len(icFile) == 0 {
		return
	}
	var data []byte
	if data, err = os.ReadFile(icFile); err != nil {
		return nil, err
	}
	if err = op.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", icFile, err)
	}
	return
}

// namingKind is the solver used to pick file names, flow when names come from the restart
func namingKind(op *InputParameters.OutputParameters) (types.SolverKind, error) {
	if op.Solver == "" {
		return types.Euler, nil
	}
	return op.Kind()
}

// exportSolution names the restart columns. With a solver the coordinates
// come from the mesh and the remaining restart columns must match the
// solver's variable list.
func exportSolution(op *InputParameters.OutputParameters, r *solution.Restart, g *tecplot.Grid,
	omitCoordinates bool) (sol *tecplot.Solution, err error) {
	if op.Solver == "" {
		return r.Solution(g.NDim, omitCoordinates)
	}
	var (
		kind types.SolverKind
		vt   *tecplot.VariableTable
	)
	if kind, err = op.Kind(); err != nil {
		return
	}
	if vt, err = tecplot.AssembleVariables(kind, op.Flags(g.NDim, omitCoordinates)); err != nil {
		return
	}
	if len(r.Data) < g.NDim {
		return nil, fmt.Errorf("restart has %d fields, fewer than %d coordinates", len(r.Data), g.NDim)
	}
	sol = &tecplot.Solution{Variables: vt, Data: r.Data[g.NDim:]}
	if err = vt.Validate(g.Coords, sol.Data); err != nil {
		return nil, fmt.Errorf("%s restart columns: %w", kind, err)
	}
	return
}

// omitBinaryCoordinates is true when binary solution files can rely on the grid
// file for coordinates, that is unless the grid moves between unsteady outputs
func omitBinaryCoordinates(op *InputParameters.OutputParameters) bool {
	return !(op.GridMovement && op.UnsteadyOutput)
}

func outputDir(ex *Export, op *InputParameters.OutputParameters) string {
	if ex.OutputDir != "" {
		return ex.OutputDir
	}
	return op.OutputDir
}

func RunExport(ctx context.Context, ex *Export) (err error) {
	var (
		op   *InputParameters.OutputParameters
		msh  *mesh.Mesh
		g    *tecplot.Grid
		kind types.SolverKind
	)
	if len(ex.MeshFile) == 0 {
		return fmt.Errorf("must supply a mesh file (-F, --meshFile) in SU2 (.su2) format")
	}
	if op, err = readParameters(ex.ICFile); err != nil {
		return
	}
	if ex.Ranks > 0 {
		op.Ranks = ex.Ranks
	}
	if log.IsLevelEnabled(log.DebugLevel) {
		op.Print()
	}
	if msh, err = mesh.ReadSU2(ex.MeshFile); err != nil {
		return
	}
	if g, err = msh.Grid(op.MarkerPlotting...); err != nil {
		return
	}
	dir := outputDir(ex, op)
	if ex.GridOnly {
		return exportGrid(dir, g, op, ex.Deformed)
	}
	if len(ex.RestartFile) == 0 {
		return fmt.Errorf("must supply a restart file (-R, --restartFile) holding the solution")
	}
	var r *solution.Restart
	if r, err = solution.ReadRestart(ex.RestartFile); err != nil {
		return
	}
	if r.NPoint != g.NPoint {
		return fmt.Errorf("restart has %d points, mesh has %d", r.NPoint, g.NPoint)
	}
	if kind, err = namingKind(op); err != nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	var st tecplot.OutputState
	for _, surface := range []bool{false, true} {
		if (surface && !op.Surface) || (!surface && !op.Volume) {
			continue
		}
		if op.Format == InputParameters.FormatBinary {
			var sol *tecplot.Solution
			if sol, err = exportSolution(op, r, g, omitBinaryCoordinates(op)); err != nil {
				return
			}
			bo := tecplot.BinaryOutput{
				Dir:       dir,
				Naming:    op.Naming(),
				Kind:      kind,
				Zone:      op.Zone,
				Iteration: op.Iteration,
				Strand:    op.Strand(),
			}
			if st, err = bo.Write(g, sol, surface, st); err != nil {
				return
			}
			continue
		}
		var (
			sol  *tecplot.Solution
			name string
		)
		if sol, err = exportSolution(op, r, g, false); err != nil {
			return
		}
		if name, err = op.Naming().ASCIIName(kind, surface, op.Zone, op.Iteration); err != nil {
			return
		}
		if err = exportASCII(ctx, filepath.Join(dir, name), op, g, sol, surface); err != nil {
			return
		}
	}
	log.WithField("memory", utils.GetMemUsage()).Debug("export complete")
	return
}

func exportASCII(ctx context.Context, path string, op *InputParameters.OutputParameters,
	g *tecplot.Grid, sol *tecplot.Solution, surface bool) error {
	if op.Ranks <= 1 {
		log.WithField("file", path).Debug("writing ASCII solution")
		return tecplot.WriteSolutionASCIIFile(path, g, sol, surface, op.Strand())
	}
	base := strings.TrimSuffix(path, ".dat")
	log.WithFields(log.Fields{"file": path, "ranks": op.Ranks}).Debug("writing ASCII solution in parallel")
	return parallel.Run(ctx, op.Ranks, func(ctx context.Context, comm parallel.Communicator) error {
		_, err := tecplot.WriteParallelASCII(ctx, comm, base, g, sol, surface, op.Strand())
		return err
	})
}

func exportGrid(dir string, g *tecplot.Grid, op *InputParameters.OutputParameters, deformed bool) (err error) {
	for _, surface := range []bool{false, true} {
		if (surface && !op.Surface) || (!surface && !op.Volume) {
			continue
		}
		log.WithField("file", tecplot.GridFileName(dir, surface)).Debug("writing ASCII grid")
		if err = tecplot.WriteMeshASCIIFile(dir, g, surface, deformed); err != nil {
			return
		}
	}
	return
}
