package tecplot

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"path/filepath"

	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/notargets/tecio/types"
	"github.com/notargets/tecio/utils"
)

const (
	binaryMagic = "#!TDV112"
	zoneMarker  = float32(299.0)
	eohMarker   = float32(357.0)
)

// FileType is the binary file content selector
type FileType int32

const (
	FullFile FileType = iota
	GridFile
	SolutionFile
)

const (
	staticStrand  = int32(-1)
	noParentZone  = int32(-1)
	noSharing     = int32(-1)
	doubleFormat  = int32(2)
	unusedField   = int32(-1)
	nodalVariable = int32(0)
)

var zoneNames = map[utils.ElementType]string{
	utils.Line:     "Line Elements",
	utils.Triangle: "Triangle Elements",
	utils.Quad:     "Quadrilateral Elements",
	utils.Tet:      "Tetrahedral Elements",
	utils.Hex:      "Hexahedral Elements",
}

// OutputState records which grid files a run has already written
type OutputState struct {
	WroteBaseFile bool
	WroteSurfFile bool
}

type binaryZone struct {
	Name  string
	Type  ZoneType
	NElem int
	Conn  []int // Zero based
}

// binaryZones builds one native zone per non empty bucket, numbered against
// the points written. Buckets without a native zone type are skipped.
func binaryZones(g *Grid, surface bool) (zones []binaryZone, sm *SurfaceMap, err error) {
	var (
		buckets = g.Elements
		order   = volumeOrder
	)
	if surface {
		buckets, order = g.Boundary, surfaceOrder
		if sm, err = g.SurfaceMap(); err != nil {
			return
		}
	}
	for _, et := range order {
		conn := buckets[et]
		if len(conn) == 0 {
			continue
		}
		zt, ok := NativeZoneType(et)
		if !ok {
			log.WithFields(log.Fields{
				"element": et.String(),
				"count":   len(conn) / et.GetNumNodes(),
			}).Warn("binary output has no zone type for element, skipping zone")
			continue
		}
		if sm != nil {
			conn = sm.Remap(conn)
		}
		zero := make([]int, len(conn))
		for i, p := range conn {
			zero[i] = p - 1
		}
		zones = append(zones, binaryZone{
			Name:  zoneNames[et],
			Type:  zt,
			NElem: len(conn) / et.GetNumNodes(),
			Conn:  zero,
		})
	}
	return
}

// placeholderZone stands in for a grid with no elements to write: one
// element collapsed onto a single point of zeros.
func placeholderZone(zt ZoneType, nVar int) (zones []binaryZone, cols [][]float64, nPts int) {
	zones = []binaryZone{{
		Name:  "empty",
		Type:  zt,
		NElem: 1,
		Conn:  make([]int, zt.NodesPerElement()),
	}}
	cols = make([][]float64, nVar)
	for i := range cols {
		cols[i] = []float64{0}
	}
	return zones, cols, 1
}

func emptyZoneType(g *Grid, surface bool) ZoneType {
	if surface {
		return SurfaceZoneType(g.NDim)
	}
	return VolumeZoneType(g.NDim)
}

type binWriter struct {
	w   io.Writer
	err error
}

func (bw *binWriter) put(v any) {
	if bw.err == nil {
		bw.err = binary.Write(bw.w, binary.LittleEndian, v)
	}
}

// str writes each character as an int32 followed by a zero terminator
func (bw *binWriter) str(s string) {
	runes := []rune(s)
	buf := make([]int32, len(runes)+1)
	for i, r := range runes {
		buf[i] = int32(r)
	}
	bw.put(buf)
}

func (bw *binWriter) header(ft FileType, title string, names []string) {
	if bw.err == nil {
		_, bw.err = io.WriteString(bw.w, binaryMagic)
	}
	bw.put(int32(1))
	bw.put(int32(ft))
	bw.str(title)
	bw.put(int32(len(names)))
	for _, name := range names {
		bw.str(name)
	}
}

func (bw *binWriter) zoneHeader(z binaryZone, nPts int, strand *Strand) {
	var (
		strandID = staticStrand
		solTime  float64
	)
	if strand != nil {
		strandID, solTime = int32(strand.ID), strand.Time
	}
	bw.put(zoneMarker)
	bw.str(z.Name)
	bw.put(noParentZone)
	bw.put(strandID)
	bw.put(solTime)
	bw.put(unusedField)
	bw.put(int32(z.Type))
	bw.put(nodalVariable)
	bw.put(int32(0)) // No raw face neighbors
	bw.put(int32(0)) // No user defined face connections
	bw.put(int32(nPts))
	bw.put(int32(z.NElem))
	bw.put([]int32{0, 0, 0}) // I, J, K cell dimensions
	bw.put(int32(0))         // No auxiliary data
}

// zoneData writes the first zone's point arrays in full, later zones share them
func (bw *binWriter) zoneData(iZone int, cols [][]float64, z binaryZone, withConn bool) {
	nVar := len(cols)
	bw.put(zoneMarker)
	formats := make([]int32, nVar)
	for i := range formats {
		formats[i] = doubleFormat
	}
	bw.put(formats)
	bw.put(int32(0)) // No passive variables
	if iZone == 0 {
		bw.put(int32(0))
		bw.put(noSharing)
		for _, col := range cols {
			var lo, hi float64
			if len(col) != 0 {
				lo, hi = floats.Min(col), floats.Max(col)
			}
			bw.put([]float64{lo, hi})
		}
		for _, col := range cols {
			bw.put(col)
		}
	} else {
		bw.put(int32(1))
		share := make([]int32, nVar)
		bw.put(share) // All variables come from zone 0
		bw.put(noSharing)
	}
	if withConn {
		conn := make([]int32, len(z.Conn))
		for i, p := range z.Conn {
			conn[i] = int32(p)
		}
		bw.put(conn)
	}
}

func writeBinary(w io.Writer, ft FileType, title string, names []string, cols [][]float64,
	zones []binaryZone, nPts int, strand *Strand) error {
	bw := &binWriter{w: w}
	bw.header(ft, title, names)
	for _, z := range zones {
		bw.zoneHeader(z, nPts, strand)
	}
	bw.put(eohMarker)
	for iZone, z := range zones {
		bw.zoneData(iZone, cols, z, ft != SolutionFile)
	}
	return bw.err
}

// WriteMeshBinary writes a grid file: coordinates and connectivity of the
// volume, or of the plotted surface, one zone per element type.
func WriteMeshBinary(w io.Writer, g *Grid, surface bool) (err error) {
	var (
		zones []binaryZone
		sm    *SurfaceMap
		cols  = g.Coords
		nPts  = g.NPoint
		title = VolumeTitle
	)
	if err = g.Validate(); err != nil {
		return
	}
	if zones, sm, err = binaryZones(g, surface); err != nil {
		return
	}
	if surface {
		cols, nPts, title = sm.Gather(g.Coords), sm.NPoints, SurfaceTitle
	}
	if len(zones) == 0 {
		zones, cols, nPts = placeholderZone(emptyZoneType(g, surface), g.NDim)
	}
	return writeBinary(w, GridFile, title, []string{"x", "y", "z"}[:g.NDim], cols, zones, nPts, nil)
}

// WriteSolutionBinary writes a solution file whose zones match the grid file
// written by WriteMeshBinary for the same grid.
func WriteSolutionBinary(w io.Writer, g *Grid, sol *Solution, surface bool, strand *Strand) (err error) {
	var (
		zones []binaryZone
		sm    *SurfaceMap
		nPts  = g.NPoint
		title = VolumeTitle
	)
	if err = g.Validate(); err != nil {
		return
	}
	if err = sol.Variables.Validate(g.Coords, sol.Data); err != nil {
		return
	}
	if zones, sm, err = binaryZones(g, surface); err != nil {
		return
	}
	cols := sol.Variables.Columns(g.Coords, sol.Data)
	if surface {
		cols, nPts, title = sm.Gather(cols), sm.NPoints, SurfaceTitle
	}
	if len(zones) == 0 {
		zones, cols, nPts = placeholderZone(emptyZoneType(g, surface), len(cols))
	}
	return writeBinary(w, SolutionFile, title, sol.Variables.Names(), cols, zones, nPts, strand)
}

// BinaryOutput places the binary files of one output cycle
type BinaryOutput struct {
	Dir       string
	Naming    Naming
	Kind      types.SolverKind
	Zone      int
	Iteration int
	Strand    *Strand
}

// Write writes the grid file once per run, tracked by st, and a solution file every call.
func (bo BinaryOutput) Write(g *Grid, sol *Solution, surface bool, st OutputState) (OutputState, error) {
	var (
		name  string
		err   error
		wrote = st.WroteBaseFile
	)
	if surface {
		wrote = st.WroteSurfFile
	}
	if !wrote {
		if name, err = bo.Naming.MeshBinaryName(bo.Kind, surface, bo.Zone); err != nil {
			return st, err
		}
		if err = writeFile(filepath.Join(bo.Dir, name), false, func(w *bufio.Writer) error {
			return WriteMeshBinary(w, g, surface)
		}); err != nil {
			return st, err
		}
		if surface {
			st.WroteSurfFile = true
		} else {
			st.WroteBaseFile = true
		}
	}
	if name, err = bo.Naming.SolutionBinaryName(bo.Kind, surface, bo.Zone, bo.Iteration); err != nil {
		return st, err
	}
	if err = writeFile(filepath.Join(bo.Dir, name), false, func(w *bufio.Writer) error {
		return WriteSolutionBinary(w, g, sol, surface, bo.Strand)
	}); err != nil {
		return st, fmt.Errorf("solution file: %w", err)
	}
	return st, nil
}
