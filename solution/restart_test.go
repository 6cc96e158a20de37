package solution

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/tecio/tecplot"
)

func TestReadRestart(t *testing.T) {
	content := strings.Join([]string{
		"\"PointID\"\t\"x\"\t\"y\"\t\"Conservative_1\"",
		"1\t1.0\t0.0\t2.5",
		"0\t0.0\t0.0\t1.5",
		"",
		"2\t1.0\t1.0\t3.5",
		"",
	}, "\n")
	path := filepath.Join(t.TempDir(), "restart_flow.dat")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	r, err := ReadRestart(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y", "Conservative_1"}, r.Fields)
	assert.Equal(t, 3, r.NPoint)
	assert.Equal(t, [][]float64{{0, 1, 1}, {0, 0, 1}, {1.5, 2.5, 3.5}}, r.Data)

	coords, err := r.Coords(2)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{0, 1, 1}, {0, 0, 1}}, coords)
	_, err = r.Coords(4)
	assert.Error(t, err)

	sol, err := r.Solution(2, true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Conservative_1"}, sol.Variables.Names())
	assert.Equal(t, tecplot.Variable{Name: "Conservative_1", Source: tecplot.FromData, Index: 2}, sol.Variables.Variables[0])
	assert.NoError(t, sol.Variables.Validate(coords, sol.Data))

	for name, bad := range map[string]string{
		"no PointID": "\"x\"\t\"y\"\n0\t1\n",
		"short row":  "\"PointID\"\t\"x\"\n0\n",
		"duplicate":  "\"PointID\"\t\"x\"\n0\t1\n0\t2\n",
		"gap":        "\"PointID\"\t\"x\"\n0\t1\n2\t2\n",
		"bad value":  "\"PointID\"\t\"x\"\n0\tz\n",
		"bad index":  "\"PointID\"\t\"x\"\nq\t1\n",
		"empty":      "",
	} {
		_, err := ParseRestart(strings.NewReader(bad))
		assert.Error(t, err, name)
	}
	_, err = ReadRestart(filepath.Join(t.TempDir(), "missing.dat"))
	assert.Error(t, err)
}
