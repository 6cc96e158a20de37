package tecplot

import (
	"bufio"
	"fmt"
	"os"

	"go.uber.org/multierr"

	"github.com/notargets/tecio/utils"
)

// Grid is the merged geometry handed to the writers. Connectivity buckets are
// flat arrays of 1-based global point numbers, one bucket per element type.
type Grid struct {
	NDim     int
	NPoint   int
	Coords   [][]float64                 // [dim][point]
	Elements map[utils.ElementType][]int // Interior elements
	Boundary map[utils.ElementType][]int // Plotted boundary elements: lines, triangles, quads
}

// Solution holds the data columns matching a variable table
type Solution struct {
	Variables *VariableTable
	Data      [][]float64 // [var][point]
}

// Strand tags a zone with a time level for unsteady output
type Strand struct {
	ID   int
	Time float64
}

func (g *Grid) Validate() error {
	if g.NDim != 2 && g.NDim != 3 {
		return fmt.Errorf("wrong number of dimensions: %d", g.NDim)
	}
	if len(g.Coords) != g.NDim {
		return fmt.Errorf("have %d coordinate arrays for %d dimensions", len(g.Coords), g.NDim)
	}
	for iDim, c := range g.Coords {
		if len(c) != g.NPoint {
			return fmt.Errorf("coordinate %d has %d points, expected %d", iDim, len(c), g.NPoint)
		}
	}
	for _, buckets := range []map[utils.ElementType][]int{g.Elements, g.Boundary} {
		for et, conn := range buckets {
			np := et.GetNumNodes()
			if np == 0 || len(conn)%np != 0 {
				return fmt.Errorf("%s connectivity length %d is not a multiple of %d", et, len(conn), np)
			}
			for _, p := range conn {
				if p < 1 || p > g.NPoint {
					return fmt.Errorf("%s connectivity references point %d outside of [1,%d]", et, p, g.NPoint)
				}
			}
		}
	}
	return nil
}

// NumElements counts the elements of the listed types in a bucket map
func NumElements(buckets map[utils.ElementType][]int, order []utils.ElementType) (n int) {
	for _, et := range order {
		n += len(buckets[et]) / et.GetNumNodes()
	}
	return
}

// SurfaceMap numbers the points of the plotted boundary elements
func (g *Grid) SurfaceMap() (*SurfaceMap, error) {
	var conns [][]int
	for _, et := range utils.BoundaryTypes {
		conns = append(conns, g.Boundary[et])
	}
	return NewSurfaceMap(g.NPoint, conns...)
}

// zoneConnectivity concatenates the buckets in order, written into one zone
// type. A non nil sm renumbers the points.
func zoneConnectivity(buckets map[utils.ElementType][]int, order []utils.ElementType,
	zt ZoneType, sm *SurfaceMap) (conn []int, nElem int, err error) {
	for _, et := range order {
		var (
			src = buckets[et]
			out []int
		)
		if len(src) == 0 {
			continue
		}
		if sm != nil {
			src = sm.Remap(src)
		}
		if out, err = Expand(et, zt, src); err != nil {
			return
		}
		conn = append(conn, out...)
		nElem += len(src) / et.GetNumNodes()
	}
	return
}

// writeFile runs fn against a buffered file. A new file that fails part way is removed.
func writeFile(path string, appendTo bool, fn func(w *bufio.Writer) error) (err error) {
	var (
		file *os.File
		flag = os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	)
	if appendTo {
		flag = os.O_CREATE | os.O_WRONLY | os.O_APPEND
	}
	if file, err = os.OpenFile(path, flag, 0644); err != nil {
		return fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer func() {
		err = multierr.Append(err, file.Close())
		if err != nil && !appendTo {
			_ = os.Remove(path)
		}
	}()
	w := bufio.NewWriter(file)
	if err = fn(w); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return w.Flush()
}
