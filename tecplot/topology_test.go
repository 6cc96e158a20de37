package tecplot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notargets/tecio/utils"
)

func TestTopology(t *testing.T) {
	{ // Collapsed cells still reference every node of the element, and nothing else
		for key, layout := range layouts {
			np := key.Source.GetNumNodes()
			conn := make([]int, np)
			for i := range conn {
				conn[i] = 10 * (i + 1)
			}
			out, err := Expand(key.Source, key.Target, conn)
			require.NoError(t, err)
			assert.Len(t, out, key.Target.NodesPerElement())
			assert.Len(t, layout, key.Target.NodesPerElement())
			distinct := make(map[int]bool)
			for _, p := range out {
				distinct[p] = true
			}
			assert.Len(t, distinct, np, "%s as %s", key.Source, key.Target)
		}
	}
	{ // Exact repetition patterns
		out, err := Expand(utils.Tet, FEBrick, []int{1, 2, 3, 4, 5, 6, 7, 8})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 3, 4, 4, 4, 4, 5, 6, 7, 7, 8, 8, 8, 8}, out)
		out, err = Expand(utils.Triangle, FEQuadrilateral, []int{7, 8, 9})
		require.NoError(t, err)
		assert.Equal(t, []int{7, 8, 9, 9}, out)
		out, err = Expand(utils.Prism, FEBrick, []int{1, 2, 3, 4, 5, 6})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 2, 3, 4, 5, 5, 6}, out)
		out, err = Expand(utils.Pyramid, FEBrick, []int{1, 2, 3, 4, 5})
		require.NoError(t, err)
		assert.Equal(t, []int{1, 2, 3, 4, 5, 5, 5, 5}, out)
	}
	{ // Errors
		_, err := Expand(utils.Hex, FEQuadrilateral, make([]int, 8))
		assert.Error(t, err)
		_, err = Expand(utils.Triangle, FETriangle, []int{1, 2})
		assert.Error(t, err)
	}
	{ // Zone types
		zt, ok := NativeZoneType(utils.Tet)
		assert.True(t, ok)
		assert.Equal(t, FETetrahedron, zt)
		_, ok = NativeZoneType(utils.Pyramid)
		assert.False(t, ok)
		_, ok = NativeZoneType(utils.Prism)
		assert.False(t, ok)
		assert.Equal(t, FEQuadrilateral, VolumeZoneType(2))
		assert.Equal(t, FEBrick, VolumeZoneType(3))
		assert.Equal(t, FELineSeg, SurfaceZoneType(2))
		assert.Equal(t, FEQuadrilateral, SurfaceZoneType(3))
		assert.Equal(t, "FEBRICK", FEBrick.String())
		assert.Equal(t, "ZoneType(9)", ZoneType(9).String())
	}
}
