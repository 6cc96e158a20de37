package tecplot

import (
	"fmt"
)

// SurfaceMap renumbers the points referenced by a subset of elements.
// Local[g] is the dense 1-based index of global point number g, or 0 when g is
// not referenced. Slot 0 is never assigned because point numbers start at 1.
type SurfaceMap struct {
	Local   []int
	NPoints int
}

// NewSurfaceMap marks every point referenced by the flat 1-based connectivity
// arrays and numbers the marked points 1..K in ascending global order, so the
// result does not depend on the element traversal order.
func NewSurfaceMap(nPoint int, conns ...[]int) (sm *SurfaceMap, err error) {
	var (
		marked = make([]bool, nPoint+1)
	)
	for _, conn := range conns {
		for _, g := range conn {
			if g < 1 || g > nPoint {
				err = fmt.Errorf("point number %d outside of [1,%d]", g, nPoint)
				return
			}
			marked[g] = true
		}
	}
	sm = &SurfaceMap{
		Local: make([]int, nPoint+1),
	}
	for g := 1; g <= nPoint; g++ {
		if marked[g] {
			sm.NPoints++
			sm.Local[g] = sm.NPoints
		}
	}
	return
}

// Remap rewrites global point numbers into local ones. The map must have been
// built from a set that includes every element in conn.
func (sm *SurfaceMap) Remap(conn []int) (local []int) {
	local = make([]int, len(conn))
	for i, g := range conn {
		local[i] = sm.Local[g]
	}
	return
}

// Includes reports whether global point number g has a local index
func (sm *SurfaceMap) Includes(g int) bool {
	return g > 0 && g < len(sm.Local) && sm.Local[g] != 0
}

// Gather collects the rows of column-major data belonging to mapped points, in
// local order. Columns are indexed by zero-based point index.
func (sm *SurfaceMap) Gather(cols [][]float64) (out [][]float64) {
	out = make([][]float64, len(cols))
	for n, col := range cols {
		out[n] = make([]float64, 0, sm.NPoints)
		for g := 1; g < len(sm.Local); g++ {
			if sm.Local[g] != 0 {
				out[n] = append(out[n], col[g-1])
			}
		}
	}
	return
}
