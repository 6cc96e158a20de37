package mesh

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/multierr"
)

func writeElementRow(w io.Writer, vtk int, nodes []int) (err error) {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d", vtk)
	for _, n := range nodes {
		fmt.Fprintf(&sb, "\t%d", n)
	}
	sb.WriteByte('\n')
	_, err = io.WriteString(w, sb.String())
	return
}

// WriteSU2 writes the mesh in SU2 native format with the current vertex
// coordinates. Reading the output back and writing it again reproduces it exactly.
func (m *Mesh) WriteSU2(w io.Writer) (err error) {
	bw := bufio.NewWriter(w)
	if _, err = fmt.Fprintf(bw, "NDIME= %d\nNELEM= %d\n", m.NDim, m.NumElements); err != nil {
		return
	}
	for k, nodes := range m.EtoV {
		if err = writeElementRow(bw, m.ElementTypes[k].VTKID(), nodes); err != nil {
			return
		}
	}
	if _, err = fmt.Fprintf(bw, "NPOIN= %d\n", m.NumVertices); err != nil {
		return
	}
	for i, v := range m.Vertices {
		for _, x := range v {
			if _, err = fmt.Fprintf(bw, "%.15e\t", x); err != nil {
				return
			}
		}
		if _, err = fmt.Fprintf(bw, "%d\n", i); err != nil {
			return
		}
	}
	if _, err = fmt.Fprintf(bw, "NMARK= %d\n", len(m.Markers)); err != nil {
		return
	}
	for _, mk := range m.Markers {
		if _, err = fmt.Fprintf(bw, "MARKER_TAG= %s\nMARKER_ELEMS= %d\n", mk.Tag, len(mk.Elements)); err != nil {
			return
		}
		for _, be := range mk.Elements {
			if err = writeElementRow(bw, be.ElementType.VTKID(), be.Nodes); err != nil {
				return
			}
		}
	}
	if _, err = fmt.Fprintf(bw, "NPERIODIC= %d\n", len(m.Periodic)); err != nil {
		return
	}
	for i, p := range m.Periodic {
		if _, err = fmt.Fprintf(bw, "PERIODIC_INDEX= %d\n", i); err != nil {
			return
		}
		for _, row := range [][3]float64{p.Center, p.Rotation, p.Translation} {
			if _, err = fmt.Fprintf(bw, "%.15e\t%.15e\t%.15e\n", row[0], row[1], row[2]); err != nil {
				return
			}
		}
	}
	return bw.Flush()
}

// WriteSU2File writes the mesh to filename, removing the file if the write fails
func (m *Mesh) WriteSU2File(filename string) (err error) {
	var file *os.File
	if file, err = os.Create(filename); err != nil {
		return
	}
	defer func() {
		if err = multierr.Append(err, file.Close()); err != nil {
			_ = os.Remove(filename)
		}
	}()
	return m.WriteSU2(file)
}
