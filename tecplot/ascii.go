package tecplot

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/notargets/tecio/utils"
)

const (
	VolumeTitle  = "Visualization of the volumetric solution"
	SurfaceTitle = "Visualization of the surface solution"
)

// Order in which buckets are concatenated into the single ASCII zone
var (
	volumeOrder  = []utils.ElementType{utils.Triangle, utils.Quad, utils.Tet, utils.Hex, utils.Prism, utils.Pyramid}
	surfaceOrder = []utils.ElementType{utils.Line, utils.Triangle, utils.Quad}
)

type asciiZone struct {
	Title  string
	Color  string
	Strand *Strand
	Type   ZoneType
	NPts   int
	Cols   [][]float64 // One column per variable, NPts long
	Conn   []int       // 1-based, Type.NodesPerElement() entries per element
}

func writeHeader(w io.Writer, title string, names []string) (err error) {
	quoted := make([]string, len(names))
	for i, name := range names {
		quoted[i] = strconv.Quote(name)
	}
	_, err = fmt.Fprintf(w, "TITLE = %q\nVARIABLES = %s\n", title, strings.Join(quoted, ","))
	return
}

func (z asciiZone) header() string {
	var fields []string
	if z.Title != "" {
		fields = append(fields, fmt.Sprintf("T= %q", z.Title))
	}
	if z.Color != "" {
		fields = append(fields, "C="+z.Color)
	}
	if z.Strand != nil {
		fields = append(fields, fmt.Sprintf("STRANDID=%d", z.Strand.ID),
			fmt.Sprintf("SOLUTIONTIME=%.6g", z.Strand.Time))
	}
	np := z.Type.NodesPerElement()
	fields = append(fields,
		fmt.Sprintf("NODES= %d", z.NPts),
		fmt.Sprintf("ELEMENTS= %d", len(z.Conn)/np),
		"DATAPACKING=POINT",
		"ZONETYPE="+z.Type.String())
	return "ZONE " + strings.Join(fields, ", ")
}

func (z asciiZone) write(w *bufio.Writer) (err error) {
	if _, err = fmt.Fprintln(w, z.header()); err != nil {
		return
	}
	for i := 0; i < z.NPts; i++ {
		for _, col := range z.Cols {
			if _, err = fmt.Fprintf(w, "%.6e\t", col[i]); err != nil {
				return
			}
		}
		if err = w.WriteByte('\n'); err != nil {
			return
		}
	}
	np := z.Type.NodesPerElement()
	for k := 0; k < len(z.Conn)/np; k++ {
		elem := z.Conn[k*np : (k+1)*np]
		for j, p := range elem {
			sep := "\t"
			if j == np-1 {
				sep = "\n"
			}
			if _, err = fmt.Fprintf(w, "%d%s", p, sep); err != nil {
				return
			}
		}
	}
	return
}

// writePlaceholderZone writes z as a one node, one element zone for a writer
// with nothing to contribute, so the file still loads and merged files keep
// one zone per rank.
func writePlaceholderZone(w *bufio.Writer, z asciiZone, nVar int) (err error) {
	ones := make([]string, z.Type.NodesPerElement())
	for i := range ones {
		ones[i] = "1"
	}
	z.NPts, z.Conn = 1, make([]int, len(ones))
	if _, err = fmt.Fprintln(w, z.header()); err != nil {
		return
	}
	if _, err = io.WriteString(w, strings.Repeat("0.0\t", nVar)+"\n"); err != nil {
		return
	}
	_, err = fmt.Fprintln(w, strings.Join(ones, " "))
	return
}

// solutionZone resolves the columns and connectivity of the single zone
// holding the whole volume or the plotted surface.
func solutionZone(g *Grid, cols [][]float64, surface bool) (z asciiZone, err error) {
	if surface {
		var sm *SurfaceMap
		if sm, err = g.SurfaceMap(); err != nil {
			return
		}
		z.Type = SurfaceZoneType(g.NDim)
		if z.Conn, _, err = zoneConnectivity(g.Boundary, surfaceOrder, z.Type, sm); err != nil {
			return
		}
		z.NPts = sm.NPoints
		z.Cols = sm.Gather(cols)
		return
	}
	z.Type = VolumeZoneType(g.NDim)
	if z.Conn, _, err = zoneConnectivity(g.Elements, volumeOrder, z.Type, nil); err != nil {
		return
	}
	z.NPts = g.NPoint
	z.Cols = cols
	return
}

// WriteSolutionASCII writes the point data and connectivity of the volume or
// of the plotted surface as one POINT packed finite element zone.
func WriteSolutionASCII(w io.Writer, g *Grid, sol *Solution, surface bool, strand *Strand) (err error) {
	var (
		z     asciiZone
		title = VolumeTitle
	)
	if err = g.Validate(); err != nil {
		return
	}
	if err = sol.Variables.Validate(g.Coords, sol.Data); err != nil {
		return
	}
	if surface {
		title = SurfaceTitle
	}
	if z, err = solutionZone(g, sol.Variables.Columns(g.Coords, sol.Data), surface); err != nil {
		return
	}
	z.Strand = strand
	bw := bufio.NewWriter(w)
	if err = writeHeader(bw, title, sol.Variables.Names()); err != nil {
		return
	}
	if len(z.Conn) == 0 {
		z.Title = "empty"
		err = writePlaceholderZone(bw, z, sol.Variables.Len())
	} else {
		err = z.write(bw)
	}
	if err != nil {
		return
	}
	return bw.Flush()
}

// WriteSolutionASCIIFile writes a solution file, removing it if the write fails
func WriteSolutionASCIIFile(path string, g *Grid, sol *Solution, surface bool, strand *Strand) error {
	return writeFile(path, false, func(w *bufio.Writer) error {
		return WriteSolutionASCII(w, g, sol, surface, strand)
	})
}

// WriteMeshASCII writes the grid coordinates and connectivity only. The first
// grid of a file is the original one; grids appended later are deformed.
func WriteMeshASCII(w io.Writer, g *Grid, surface, appended bool) (err error) {
	var (
		z     asciiZone
		names = []string{"x", "y", "z"}[:g.NDim]
		title = VolumeTitle
	)
	if err = g.Validate(); err != nil {
		return
	}
	if surface {
		title = SurfaceTitle
	}
	if z, err = solutionZone(g, g.Coords, surface); err != nil {
		return
	}
	bw := bufio.NewWriter(w)
	if appended {
		z.Title, z.Color = "Deformed grid", "RED"
		err = bw.WriteByte('\n')
	} else {
		z.Title, z.Color = "Original grid", "BLACK"
		err = writeHeader(bw, title, names)
	}
	if err != nil {
		return
	}
	if len(z.Conn) == 0 {
		err = writePlaceholderZone(bw, z, len(names))
	} else {
		err = z.write(bw)
	}
	if err != nil {
		return
	}
	return bw.Flush()
}

// WriteMeshASCIIFile writes or appends to volumetric_grid.dat or surface_grid.dat in dir
func WriteMeshASCIIFile(dir string, g *Grid, surface, appended bool) error {
	path := GridFileName(dir, surface)
	return writeFile(path, appended, func(w *bufio.Writer) error {
		return WriteMeshASCII(w, g, surface, appended)
	})
}
