package tecplot

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/tecio/types"
	"github.com/notargets/tecio/utils"
)

type binReader struct {
	t *testing.T
	r io.Reader
}

func (br binReader) read(v any) {
	require.NoError(br.t, binary.Read(br.r, binary.LittleEndian, v))
}

func (br binReader) i32() (v int32) {
	br.read(&v)
	return
}

func (br binReader) f32() (v float32) {
	br.read(&v)
	return
}

func (br binReader) f64() (v float64) {
	br.read(&v)
	return
}

func (br binReader) str() string {
	var runes []rune
	for c := br.i32(); c != 0; c = br.i32() {
		runes = append(runes, rune(c))
	}
	return string(runes)
}

func (br binReader) i32s(n int) []int32 {
	v := make([]int32, n)
	br.read(v)
	return v
}

func (br binReader) f64s(n int) []float64 {
	v := make([]float64, n)
	br.read(v)
	return v
}

// squareWithApex adds a centre point, a pyramid and a quad to the unit square
func squareWithApex() *Grid {
	return &Grid{
		NDim:   2,
		NPoint: 5,
		Coords: [][]float64{{0, 1, 1, 0, 0.5}, {0, 0, 1, 1, 0.5}},
		Elements: map[utils.ElementType][]int{
			utils.Triangle: {1, 2, 5},
			utils.Quad:     {1, 2, 3, 4},
			utils.Pyramid:  {1, 2, 3, 4, 5},
		},
		Boundary: map[utils.ElementType][]int{
			utils.Line: {3, 4},
		},
	}
}

func (br binReader) zoneHeader(name string, zt ZoneType, nPts, nElem int, strandID int32, time float64) {
	t := br.t
	assert.Equal(t, zoneMarker, br.f32())
	assert.Equal(t, name, br.str())
	assert.Equal(t, int32(-1), br.i32())
	assert.Equal(t, strandID, br.i32())
	assert.Equal(t, time, br.f64())
	assert.Equal(t, int32(-1), br.i32())
	assert.Equal(t, int32(zt), br.i32())
	assert.Equal(t, []int32{0, 0, 0, int32(nPts), int32(nElem), 0, 0, 0, 0}, br.i32s(9))
}

func (br binReader) header(ft FileType, title string, names []string) {
	t := br.t
	magic := make([]byte, 8)
	br.read(magic)
	assert.Equal(t, "#!TDV112", string(magic))
	assert.Equal(t, int32(1), br.i32())
	assert.Equal(t, int32(ft), br.i32())
	assert.Equal(t, title, br.str())
	assert.Equal(t, int32(len(names)), br.i32())
	for _, name := range names {
		assert.Equal(t, name, br.str())
	}
}

func TestWriteMeshBinary(t *testing.T) {
	var (
		g   = squareWithApex()
		buf bytes.Buffer
	)
	require.NoError(t, WriteMeshBinary(&buf, g, false))
	br := binReader{t: t, r: &buf}
	br.header(GridFile, VolumeTitle, []string{"x", "y"})
	// The pyramid has no zone
	br.zoneHeader("Triangle Elements", FETriangle, 5, 1, -1, 0)
	br.zoneHeader("Quadrilateral Elements", FEQuadrilateral, 5, 1, -1, 0)
	assert.Equal(t, eohMarker, br.f32())

	// First zone owns the point arrays
	assert.Equal(t, zoneMarker, br.f32())
	assert.Equal(t, []int32{2, 2, 0, 0, -1}, br.i32s(5))
	assert.Equal(t, []float64{0, 1, 0, 1}, br.f64s(4))
	assert.Equal(t, g.Coords[0], br.f64s(5))
	assert.Equal(t, g.Coords[1], br.f64s(5))
	assert.Equal(t, []int32{0, 1, 4}, br.i32s(3))

	// Second zone shares them with the first
	assert.Equal(t, zoneMarker, br.f32())
	assert.Equal(t, []int32{2, 2, 0, 1, 0, 0, -1}, br.i32s(7))
	assert.Equal(t, []int32{0, 1, 2, 3}, br.i32s(4))
	assert.Equal(t, 0, buf.Len())
}

func TestWriteSolutionBinary(t *testing.T) {
	var (
		g   = squareWithApex()
		buf bytes.Buffer
		sol = &Solution{
			Variables: &VariableTable{Variables: []Variable{{Name: "Pressure", Source: FromData}}},
			Data:      [][]float64{{5, 4, 3, 2, 1}},
		}
	)
	{ // Surface solution with a time strand and no connectivity
		require.NoError(t, WriteSolutionBinary(&buf, g, sol, true, &Strand{ID: 2, Time: 1.5}))
		br := binReader{t: t, r: &buf}
		br.header(SolutionFile, SurfaceTitle, []string{"Pressure"})
		br.zoneHeader("Line Elements", FELineSeg, 2, 1, 2, 1.5)
		assert.Equal(t, eohMarker, br.f32())
		assert.Equal(t, zoneMarker, br.f32())
		assert.Equal(t, []int32{2, 0, 0, -1}, br.i32s(4))
		assert.Equal(t, []float64{2, 3}, br.f64s(2))
		assert.Equal(t, []float64{3, 2}, br.f64s(2))
		assert.Equal(t, 0, buf.Len())
	}
	{ // Names and columns must agree
		bad := &Solution{Variables: sol.Variables}
		assert.ErrorIs(t, WriteSolutionBinary(&bytes.Buffer{}, g, bad, false, nil), ErrColumnMismatch)
	}
	{ // Nothing plotted on the surface gives a single collapsed zone
		empty := *g
		empty.Boundary = map[utils.ElementType][]int{}
		buf.Reset()
		require.NoError(t, WriteSolutionBinary(&buf, &empty, sol, true, nil))
		br := binReader{t: t, r: &buf}
		br.header(SolutionFile, SurfaceTitle, []string{"Pressure"})
		br.zoneHeader("empty", FELineSeg, 1, 1, -1, 0)
		assert.Equal(t, eohMarker, br.f32())
		assert.Equal(t, zoneMarker, br.f32())
		assert.Equal(t, []int32{2, 0, 0, -1}, br.i32s(4))
		assert.Equal(t, []float64{0, 0, 0}, br.f64s(3))
		assert.Equal(t, 0, buf.Len())
	}
}

func TestWriteMeshBinaryEmptySurface(t *testing.T) {
	var (
		empty = *squareWithApex()
		buf   bytes.Buffer
	)
	empty.Boundary = map[utils.ElementType][]int{}
	require.NoError(t, WriteMeshBinary(&buf, &empty, true))
	br := binReader{t: t, r: &buf}
	br.header(GridFile, SurfaceTitle, []string{"x", "y"})
	br.zoneHeader("empty", FELineSeg, 1, 1, -1, 0)
	assert.Equal(t, eohMarker, br.f32())
	assert.Equal(t, zoneMarker, br.f32())
	assert.Equal(t, []int32{2, 2, 0, 0, -1}, br.i32s(5))
	assert.Equal(t, []float64{0, 0, 0, 0}, br.f64s(4))
	assert.Equal(t, []float64{0, 0}, br.f64s(2))
	assert.Equal(t, []int32{0, 0}, br.i32s(2))
	assert.Equal(t, 0, buf.Len())
}

func TestBinaryOutput(t *testing.T) {
	var (
		dir = t.TempDir()
		g   = squareWithApex()
		sol = &Solution{
			Variables: &VariableTable{Variables: []Variable{{Name: "Pressure", Source: FromData}}},
			Data:      [][]float64{{5, 4, 3, 2, 1}},
		}
		bo = BinaryOutput{
			Dir:       dir,
			Naming:    Naming{UnsteadyOutput: true},
			Kind:      types.Euler,
			Iteration: 3,
		}
		st  OutputState
		err error
	)
	st, err = bo.Write(g, sol, false, st)
	require.NoError(t, err)
	assert.Equal(t, OutputState{WroteBaseFile: true}, st)
	assert.FileExists(t, filepath.Join(dir, "flow.mesh.plt"))
	assert.FileExists(t, filepath.Join(dir, "flow_00003.sol.plt"))

	// The grid is written once per run
	require.NoError(t, os.Remove(filepath.Join(dir, "flow.mesh.plt")))
	bo.Iteration = 4
	st, err = bo.Write(g, sol, false, st)
	require.NoError(t, err)
	assert.NoFileExists(t, filepath.Join(dir, "flow.mesh.plt"))
	assert.FileExists(t, filepath.Join(dir, "flow_00004.sol.plt"))

	st, err = bo.Write(g, sol, true, st)
	require.NoError(t, err)
	assert.Equal(t, OutputState{WroteBaseFile: true, WroteSurfFile: true}, st)
	assert.FileExists(t, filepath.Join(dir, "surface_flow.mesh.plt"))

	// A failed solution write is removed and the state is kept
	bo.Iteration = 5
	st, err = bo.Write(g, &Solution{Variables: sol.Variables}, false, st)
	assert.ErrorIs(t, err, ErrColumnMismatch)
	assert.NoFileExists(t, filepath.Join(dir, "flow_00005.sol.plt"))
	assert.True(t, st.WroteBaseFile)

	bo.Dir = filepath.Join(dir, "missing")
	_, err = bo.Write(g, sol, false, OutputState{})
	assert.Error(t, err)
}
