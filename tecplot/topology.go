package tecplot

import (
	"fmt"

	"github.com/notargets/tecio/utils"
)

// ZoneType is the Tecplot finite element zone type, numbered as in the binary format
type ZoneType int32

const (
	Ordered ZoneType = iota
	FELineSeg
	FETriangle
	FEQuadrilateral
	FETetrahedron
	FEBrick
)

func (zt ZoneType) String() string {
	if zt < Ordered || zt > FEBrick {
		return fmt.Sprintf("ZoneType(%d)", int32(zt))
	}
	return [...]string{"ORDERED", "FELINESEG", "FETRIANGLE", "FEQUADRILATERAL",
		"FETETRAHEDRON", "FEBRICK"}[zt]
}

// NodesPerElement is the connectivity width of one element of the zone type
func (zt ZoneType) NodesPerElement() int {
	switch zt {
	case FELineSeg:
		return 2
	case FETriangle:
		return 3
	case FEQuadrilateral, FETetrahedron:
		return 4
	case FEBrick:
		return 8
	}
	return 0
}

type layoutKey struct {
	Source utils.ElementType
	Target ZoneType
}

// layouts maps an element written into a zone of a (possibly different) type
// to the element-local node order used to fill the zone's connectivity. Where
// the zone has more corners than the element, nodes repeat so Tecplot sees a
// collapsed cell.
var layouts = map[layoutKey][]int{
	{utils.Line, FELineSeg}:           {0, 1},
	{utils.Triangle, FETriangle}:      {0, 1, 2},
	{utils.Triangle, FEQuadrilateral}: {0, 1, 2, 2},
	{utils.Quad, FEQuadrilateral}:     {0, 1, 2, 3},
	{utils.Tet, FETetrahedron}:        {0, 1, 2, 3},
	{utils.Tet, FEBrick}:              {0, 1, 2, 2, 3, 3, 3, 3},
	{utils.Hex, FEBrick}:              {0, 1, 2, 3, 4, 5, 6, 7},
	{utils.Prism, FEBrick}:            {0, 1, 1, 2, 3, 4, 4, 5},
	{utils.Pyramid, FEBrick}:          {0, 1, 2, 3, 4, 4, 4, 4},
}

// Layout returns the node order to write an element of type src into a zone of type dst
func Layout(src utils.ElementType, dst ZoneType) ([]int, error) {
	if l, ok := layouts[layoutKey{src, dst}]; ok {
		return l, nil
	}
	return nil, fmt.Errorf("no %s layout for %s elements", dst, src)
}

// Expand rewrites flat connectivity of src elements into the node order of dst zones
func Expand(src utils.ElementType, dst ZoneType, conn []int) (out []int, err error) {
	var (
		layout []int
		np     = src.GetNumNodes()
	)
	if layout, err = Layout(src, dst); err != nil {
		return
	}
	if np == 0 || len(conn)%np != 0 {
		err = fmt.Errorf("connectivity length %d is not a multiple of %d for %s", len(conn), np, src)
		return
	}
	nElem := len(conn) / np
	out = make([]int, 0, nElem*len(layout))
	for k := 0; k < nElem; k++ {
		elem := conn[k*np : (k+1)*np]
		for _, i := range layout {
			out = append(out, elem[i])
		}
	}
	return
}

// NativeZoneType is the binary zone type that holds an element without
// repetition; pyramids and prisms have none.
func NativeZoneType(et utils.ElementType) (zt ZoneType, ok bool) {
	switch et {
	case utils.Line:
		return FELineSeg, true
	case utils.Triangle:
		return FETriangle, true
	case utils.Quad:
		return FEQuadrilateral, true
	case utils.Tet:
		return FETetrahedron, true
	case utils.Hex:
		return FEBrick, true
	}
	return Ordered, false
}

// VolumeZoneType is the single ASCII zone type holding every interior element
func VolumeZoneType(nDim int) ZoneType {
	if nDim == 2 {
		return FEQuadrilateral
	}
	return FEBrick
}

// SurfaceZoneType is the single ASCII zone type holding every boundary element
func SurfaceZoneType(nDim int) ZoneType {
	if nDim == 2 {
		return FELineSeg
	}
	return FEQuadrilateral
}
