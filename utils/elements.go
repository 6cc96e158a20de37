package utils

import "fmt"

// ElementType represents the linear finite element types found in SU2 meshes

type ElementType int

const (
	Unknown ElementType = iota
	// 1D elements
	Line
	// 2D elements
	Triangle
	Quad
	// 3D elements
	Tet
	Hex
	Prism
	Pyramid
)

// SU2 uses the VTK cell identifiers, from here: https://su2code.github.io/docs_v7/Mesh-File/
const (
	VTK_LINE          = 3
	VTK_TRIANGLE      = 5
	VTK_QUADRILATERAL = 9
	VTK_TETRAHEDRON   = 10
	VTK_HEXAHEDRON    = 12
	VTK_WEDGE         = 13
	VTK_PYRAMID       = 14
)

var vtkElementTypeMap = map[int]ElementType{
	VTK_LINE:          Line,
	VTK_TRIANGLE:      Triangle,
	VTK_QUADRILATERAL: Quad,
	VTK_TETRAHEDRON:   Tet,
	VTK_HEXAHEDRON:    Hex,
	VTK_WEDGE:         Prism,
	VTK_PYRAMID:       Pyramid,
}

// NewElementTypeFromVTK maps an SU2/VTK cell identifier to an ElementType
func NewElementTypeFromVTK(id int) (ElementType, error) {
	if et, ok := vtkElementTypeMap[id]; ok {
		return et, nil
	}
	return Unknown, fmt.Errorf("unknown VTK element type: %d", id)
}

// String representation of element types
func (e ElementType) String() string {
	names := []string{"Unknown", "Line", "Triangle", "Quad", "Tet", "Hex", "Prism", "Pyramid"}
	if int(e) >= 0 && int(e) < len(names) {
		return names[e]
	}
	return "Invalid"
}

// VTKID returns the SU2/VTK cell identifier
func (e ElementType) VTKID() int {
	switch e {
	case Line:
		return VTK_LINE
	case Triangle:
		return VTK_TRIANGLE
	case Quad:
		return VTK_QUADRILATERAL
	case Tet:
		return VTK_TETRAHEDRON
	case Hex:
		return VTK_HEXAHEDRON
	case Prism:
		return VTK_WEDGE
	case Pyramid:
		return VTK_PYRAMID
	default:
		return 0
	}
}

// GetDimension returns the spatial dimension of the element
func (e ElementType) GetDimension() int {
	switch e {
	case Line:
		return 1
	case Triangle, Quad:
		return 2
	case Tet, Hex, Prism, Pyramid:
		return 3
	default:
		return -1
	}
}

// GetNumNodes returns the number of nodes for each element type
func (e ElementType) GetNumNodes() int {
	switch e {
	case Line:
		return 2
	case Triangle:
		return 3
	case Quad:
		return 4
	case Tet:
		return 4
	case Hex:
		return 8
	case Prism:
		return 6
	case Pyramid:
		return 5
	default:
		return 0
	}
}

// VolumeTypes lists the interior element buckets in output order
var VolumeTypes = []ElementType{Triangle, Quad, Tet, Hex, Prism, Pyramid}

// BoundaryTypes lists the boundary element buckets in output order
var BoundaryTypes = []ElementType{Line, Triangle, Quad}
