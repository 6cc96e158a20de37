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
	"fmt"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/notargets/tecio/mesh"
	"github.com/notargets/tecio/solution"
)

type Remesh struct {
	MeshFile    string
	RestartFile string
	ICFile      string
	OutFile     string
}

// RemeshCmd represents the remesh command
var RemeshCmd = &cobra.Command{
	Use:   "remesh",
	Short: "Re-export an SU2 mesh with the coordinates of a restart file",
	Long: `
Writes the SU2 mesh again, replacing the point coordinates with the leading
columns of a restart file, as produced after grid deformation.

tecio remesh -F mesh.su2 -R restart_flow.dat -o mesh_out.su2`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rm := &Remesh{}
		rm.MeshFile, _ = cmd.Flags().GetString("meshFile")
		rm.RestartFile, _ = cmd.Flags().GetString("restartFile")
		rm.ICFile, _ = cmd.Flags().GetString("inputConditionsFile")
		rm.OutFile, _ = cmd.Flags().GetString("outFile")
		return RunRemesh(rm)
	},
}

func init() {
	rootCmd.AddCommand(RemeshCmd)
	RemeshCmd.Flags().StringP("meshFile", "F", "", "Mesh file to read in SU2 (.su2) format")
	RemeshCmd.Flags().StringP("restartFile", "R", "", "SU2 ASCII restart file holding the new coordinates")
	RemeshCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file with MeshOutFile and Periodic transformations")
	RemeshCmd.Flags().StringP("outFile", "o", "", "SU2 file to write, overrides MeshOutFile")
}

func RunRemesh(rm *Remesh) (err error) {
	if len(rm.MeshFile) == 0 {
		return fmt.Errorf("must supply a mesh file (-F, --meshFile) in SU2 (.su2) format")
	}
	op, err := readParameters(rm.ICFile)
	if err != nil {
		return
	}
	outFile := rm.OutFile
	if outFile == "" {
		outFile = op.MeshOutFile
	}
	if outFile == "" {
		outFile = filepath.Join(filepath.Dir(rm.MeshFile), "mesh_out.su2")
	}
	var msh *mesh.Mesh
	if msh, err = mesh.ReadSU2(rm.MeshFile); err != nil {
		return
	}
	if len(rm.RestartFile) != 0 {
		var (
			r      *solution.Restart
			coords [][]float64
		)
		if r, err = solution.ReadRestart(rm.RestartFile); err != nil {
			return
		}
		if coords, err = r.Coords(msh.NDim); err != nil {
			return
		}
		if err = msh.SetCoords(coords); err != nil {
			return
		}
	}
	if len(op.Periodic) != 0 {
		msh.Periodic = op.Periodic
	}
	if err = msh.WriteSU2File(outFile); err != nil {
		return
	}
	log.WithField("file", outFile).Info("wrote SU2 mesh")
	return
}
