package mesh

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/tecio/utils"
)

const squareSU2 = `% Two triangles on the unit square
NDIME= 2
NELEM= 2
5 0 1 2 0
5 0 2 3 1
NPOIN= 4
0.0 0.0 0
1.0 0.0 1
1.0 1.0 2
0.0 1.0 3
NMARK= 2
MARKER_TAG= lower
MARKER_ELEMS= 1
3 0 1
MARKER_TAG= upper
MARKER_ELEMS= 2
3 2 3   % top
3 1 2
`

const tetSU2 = `NDIME= 3
NELEM= 1
10 0 1 2 3
NPOIN= 4
0 0 0
1 0 0
0 1 0
0 0 1
NMARK= 1
MARKER_TAG= wall
MARKER_ELEMS= 1
5 0 1 2
NPERIODIC= 2
PERIODIC_INDEX= 0
0 0 0
0 0 0
0 0 0
PERIODIC_INDEX= 1
0.5 0.5 0
0 0 90
1 0 0
`

// Helper function to create temporary test files
func createTempSU2File(t *testing.T, content string) string {
	t.Helper()
	tmpFile := filepath.Join(t.TempDir(), "test.su2")
	require.NoError(t, os.WriteFile(tmpFile, []byte(content), 0644))
	return tmpFile
}

func TestReadSU2(t *testing.T) {
	{ // 2D mesh with two markers
		m, err := ReadSU2(createTempSU2File(t, squareSU2))
		require.NoError(t, err)
		assert.Equal(t, 2, m.NDim)
		assert.Equal(t, 2, m.NumElements)
		assert.Equal(t, 4, m.NumVertices)
		assert.Equal(t, []utils.ElementType{utils.Triangle, utils.Triangle}, m.ElementTypes)
		assert.Equal(t, [][]int{{0, 1, 2}, {0, 2, 3}}, m.EtoV)
		assert.Equal(t, [][]float64{{0, 1, 1, 0}, {0, 0, 1, 1}}, m.Coords())
		require.Len(t, m.Markers, 2)
		assert.Equal(t, "upper", m.Markers[1].Tag)
		assert.Equal(t, []int{2, 3}, m.Markers[1].Elements[0].Nodes)
		assert.Nil(t, m.Marker("side"))

		assert.Equal(t, map[utils.ElementType][]int{utils.Triangle: {1, 2, 3, 1, 3, 4}}, m.ElementBuckets())
		all, err := m.BoundaryBuckets()
		require.NoError(t, err)
		assert.Equal(t, map[utils.ElementType][]int{utils.Line: {1, 2, 3, 4, 2, 3}}, all)
		upper, err := m.BoundaryBuckets("upper")
		require.NoError(t, err)
		assert.Equal(t, map[utils.ElementType][]int{utils.Line: {3, 4, 2, 3}}, upper)
		_, err = m.BoundaryBuckets("side")
		assert.Error(t, err)

		g, err := m.Grid("lower")
		require.NoError(t, err)
		assert.Equal(t, 4, g.NPoint)
		assert.Equal(t, []int{1, 2}, g.Boundary[utils.Line])
	}
	{ // 3D mesh with periodic transformations
		m, err := ReadSU2(createTempSU2File(t, tetSU2))
		require.NoError(t, err)
		assert.Equal(t, 3, m.NDim)
		require.Len(t, m.Periodic, 2)
		assert.Equal(t, [3]float64{0.5, 0.5, 0}, m.Periodic[1].Center)
		assert.Equal(t, [3]float64{0, 0, 90}, m.Periodic[1].Rotation)
		assert.Equal(t, [3]float64{1, 0, 0}, m.Periodic[1].Translation)
		assert.Equal(t, utils.Triangle, m.Markers[0].Elements[0].ElementType)
	}
	{ // Errors
		for name, content := range map[string]string{
			"unsupported dimension": "NDIME= 4\nNPOIN= 0\n",
			"missing NDIME":         "NPOIN= 0\n",
			"missing NPOIN":         "NDIME= 2\nNELEM= 0\n",
			"node out of range":     "NDIME= 2\nNELEM= 1\n5 0 1 7\nNPOIN= 3\n0 0\n1 0\n0 1\n",
			"unknown element":       "NDIME= 2\nNELEM= 1\n7 0 1 2\nNPOIN= 3\n0 0\n1 0\n0 1\n",
			"short element":         "NDIME= 2\nNELEM= 1\n5 0 1\nNPOIN= 3\n0 0\n1 0\n0 1\n",
			"truncated":             "NDIME= 2\nNELEM= 2\n5 0 1 2\n",
			"volume element in 2D":  "NDIME= 2\nNELEM= 1\n10 0 1 2 0\nNPOIN= 3\n0 0\n1 0\n0 1\n",
			"volume marker":         "NDIME= 3\nNPOIN= 4\n0 0 0\n1 0 0\n0 1 0\n0 0 1\nNMARK= 1\nMARKER_TAG= w\nMARKER_ELEMS= 1\n10 0 1 2 3\n",
			"bad coordinate":        "NDIME= 2\nNPOIN= 1\n0 x\n",
			"periodic order":        "NDIME= 2\nNPOIN= 0\nNPERIODIC= 1\nPERIODIC_INDEX= 1\n0 0 0\n0 0 0\n0 0 0\n",
			"garbage":               "NDIME= 2\nNPOIN= 0\nHELLO\n",
		} {
			_, err := ReadSU2(createTempSU2File(t, content))
			assert.Error(t, err, name)
		}
		_, err := ReadSU2(filepath.Join(t.TempDir(), "missing.su2"))
		assert.Error(t, err)
	}
}

func TestWriteSU2(t *testing.T) {
	m, err := ReadSU2(createTempSU2File(t, squareSU2))
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, m.WriteSU2(&buf))
	assert.Equal(t, strings.Join([]string{
		"NDIME= 2",
		"NELEM= 2",
		"5\t0\t1\t2",
		"5\t0\t2\t3",
		"NPOIN= 4",
		"0.000000000000000e+00\t0.000000000000000e+00\t0",
		"1.000000000000000e+00\t0.000000000000000e+00\t1",
		"1.000000000000000e+00\t1.000000000000000e+00\t2",
		"0.000000000000000e+00\t1.000000000000000e+00\t3",
		"NMARK= 2",
		"MARKER_TAG= lower",
		"MARKER_ELEMS= 1",
		"3\t0\t1",
		"MARKER_TAG= upper",
		"MARKER_ELEMS= 2",
		"3\t2\t3",
		"3\t1\t2",
		"NPERIODIC= 0",
		"",
	}, "\n"), buf.String())

	{ // Exported files reproduce themselves
		for _, content := range []string{squareSU2, tetSU2} {
			m, err := ReadSU2(createTempSU2File(t, content))
			require.NoError(t, err)
			first := filepath.Join(t.TempDir(), "first.su2")
			require.NoError(t, m.WriteSU2File(first))
			m2, err := ReadSU2(first)
			require.NoError(t, err)
			var second bytes.Buffer
			require.NoError(t, m2.WriteSU2(&second))
			b, err := os.ReadFile(first)
			require.NoError(t, err)
			assert.Equal(t, string(b), second.String())
			assert.Equal(t, m.Periodic, m2.Periodic)
		}
	}
	{ // New coordinates replace the point block only
		require.NoError(t, m.SetCoords([][]float64{{0, 2, 2, 0}, {0, 0, 2, 2}}))
		buf.Reset()
		require.NoError(t, m.WriteSU2(&buf))
		assert.Contains(t, buf.String(), "2.000000000000000e+00\t2.000000000000000e+00\t2\n")
		assert.Contains(t, buf.String(), "MARKER_TAG= upper\nMARKER_ELEMS= 2\n3\t2\t3\n")
		assert.Error(t, m.SetCoords([][]float64{{0, 2, 2, 0}}))
		assert.Error(t, m.SetCoords([][]float64{{0, 2, 2}, {0, 0, 2}}))
	}
}
