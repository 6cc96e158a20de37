package mesh

import (
	"fmt"

	"github.com/notargets/tecio/tecplot"
	"github.com/notargets/tecio/utils"
)

// BoundaryElement is one face of a marker, with zero based vertex numbers
type BoundaryElement struct {
	ElementType utils.ElementType
	Nodes       []int
}

// Marker is a named boundary
type Marker struct {
	Tag      string
	Elements []BoundaryElement
}

// Periodic is one periodic transformation: rotation center, rotation angles and translation
type Periodic struct {
	Center      [3]float64 `json:"Center"`
	Rotation    [3]float64 `json:"Rotation"`
	Translation [3]float64 `json:"Translation"`
}

// Mesh represents an unstructured SU2 mesh
type Mesh struct {
	NDim int

	// Geometry
	Vertices [][]float64 // Vertex coordinates [nvertices][ndim]

	// Element data
	EtoV         [][]int             // Element to vertex connectivity, zero based
	ElementTypes []utils.ElementType // Element type for each element

	Markers  []Marker
	Periodic []Periodic

	NumElements int
	NumVertices int
}

func NewMesh() *Mesh {
	return &Mesh{}
}

// Coords returns the vertex coordinates by dimension, [ndim][nvertices]
func (m *Mesh) Coords() (coords [][]float64) {
	coords = make([][]float64, m.NDim)
	for iDim := range coords {
		coords[iDim] = make([]float64, m.NumVertices)
		for i, v := range m.Vertices {
			coords[iDim][i] = v[iDim]
		}
	}
	return
}

// SetCoords replaces the vertex coordinates from arrays laid out as returned by Coords
func (m *Mesh) SetCoords(coords [][]float64) error {
	if len(coords) < m.NDim {
		return fmt.Errorf("have %d coordinate arrays for %d dimensions", len(coords), m.NDim)
	}
	for iDim := 0; iDim < m.NDim; iDim++ {
		if len(coords[iDim]) != m.NumVertices {
			return fmt.Errorf("coordinate %d has %d values for %d vertices",
				iDim, len(coords[iDim]), m.NumVertices)
		}
	}
	for i, v := range m.Vertices {
		for iDim := 0; iDim < m.NDim; iDim++ {
			v[iDim] = coords[iDim][i]
		}
	}
	return nil
}

// ElementBuckets groups the elements by type as flat one based connectivity
func (m *Mesh) ElementBuckets() (buckets map[utils.ElementType][]int) {
	buckets = make(map[utils.ElementType][]int)
	for k, nodes := range m.EtoV {
		et := m.ElementTypes[k]
		for _, n := range nodes {
			buckets[et] = append(buckets[et], n+1)
		}
	}
	return
}

// BoundaryBuckets groups the elements of the plotted markers by type as flat
// one based connectivity. Without tags every marker is plotted.
func (m *Mesh) BoundaryBuckets(plotted ...string) (buckets map[utils.ElementType][]int, err error) {
	include := make(map[string]bool)
	for _, tag := range plotted {
		if m.Marker(tag) == nil {
			err = fmt.Errorf("unknown marker %q", tag)
			return
		}
		include[tag] = true
	}
	buckets = make(map[utils.ElementType][]int)
	for _, mk := range m.Markers {
		if len(plotted) != 0 && !include[mk.Tag] {
			continue
		}
		for _, be := range mk.Elements {
			for _, n := range be.Nodes {
				buckets[be.ElementType] = append(buckets[be.ElementType], n+1)
			}
		}
	}
	return
}

func (m *Mesh) Marker(tag string) *Marker {
	for i := range m.Markers {
		if m.Markers[i].Tag == tag {
			return &m.Markers[i]
		}
	}
	return nil
}

// Grid assembles the writer geometry with the plotted markers as the surface
func (m *Mesh) Grid(plotted ...string) (g *tecplot.Grid, err error) {
	g = &tecplot.Grid{
		NDim:     m.NDim,
		NPoint:   m.NumVertices,
		Coords:   m.Coords(),
		Elements: m.ElementBuckets(),
	}
	if g.Boundary, err = m.BoundaryBuckets(plotted...); err != nil {
		return nil, err
	}
	return g, g.Validate()
}
