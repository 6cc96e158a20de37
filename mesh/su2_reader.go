package mesh

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/notargets/tecio/utils"
)

// ReadSU2 reads an SU2 native format file
func ReadSU2(filename string) (msh *Mesh, err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, file.Close()) }()
	if msh, err = readSU2(bufio.NewScanner(file)); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return
}

type su2Scanner struct {
	*bufio.Scanner
	lineNo int
}

// next returns the next line with comments and blank lines removed
func (s *su2Scanner) next() (line string, ok bool) {
	for s.Scan() {
		s.lineNo++
		line = s.Text()
		if idx := strings.Index(line, "%"); idx >= 0 {
			line = line[:idx]
		}
		if line = strings.TrimSpace(line); line != "" {
			return line, true
		}
	}
	return "", false
}

func (s *su2Scanner) mustNext(what string) (line string, err error) {
	var ok bool
	if line, ok = s.next(); !ok {
		err = fmt.Errorf("unexpected EOF reading %s", what)
	}
	return
}

// keyValue parses lines of the form KEY= value
func keyValue(line, key string) (value string, ok bool) {
	if !strings.HasPrefix(line, key+"=") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(line, key+"=")), true
}

func keyInt(line, key string) (n int, err error) {
	value, ok := keyValue(line, key)
	if !ok {
		return 0, fmt.Errorf("expected %s=, got: %s", key, line)
	}
	// NPOIN may carry a second count of owned points
	if fields := strings.Fields(value); len(fields) > 0 {
		value = fields[0]
	}
	if n, err = strconv.Atoi(value); err != nil {
		return 0, fmt.Errorf("invalid %s value: %v", key, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("negative %s value: %d", key, n)
	}
	return
}

func parseNodes(fields []string, np int) (nodes []int, err error) {
	if len(fields) < np {
		return nil, fmt.Errorf("expected %d nodes, got %d fields", np, len(fields))
	}
	nodes = make([]int, np)
	for j := range nodes {
		if nodes[j], err = strconv.Atoi(fields[j]); err != nil {
			return nil, fmt.Errorf("invalid node index: %v", err)
		}
	}
	return
}

func parseElement(line string) (et utils.ElementType, nodes []int, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		err = fmt.Errorf("invalid element line: %s", line)
		return
	}
	var vtk int
	if vtk, err = strconv.Atoi(fields[0]); err != nil {
		err = fmt.Errorf("invalid element type: %v", err)
		return
	}
	if et, err = utils.NewElementTypeFromVTK(vtk); err != nil {
		return
	}
	nodes, err = parseNodes(fields[1:], et.GetNumNodes())
	return
}

func readSU2(sc *bufio.Scanner) (msh *Mesh, err error) {
	var (
		s                  = &su2Scanner{Scanner: sc}
		hasNDIME, hasNPOIN bool
		line               string
		ok                 bool
		n                  int
	)
	msh = NewMesh()
	for {
		if line, ok = s.next(); !ok {
			break
		}
		switch {
		case strings.HasPrefix(line, "NDIME="):
			hasNDIME = true
			if msh.NDim, err = keyInt(line, "NDIME"); err != nil {
				return
			}
			if msh.NDim != 2 && msh.NDim != 3 {
				return nil, fmt.Errorf("unsupported dimension: NDIME=%d", msh.NDim)
			}

		case strings.HasPrefix(line, "NELEM="):
			if n, err = keyInt(line, "NELEM"); err != nil {
				return
			}
			msh.EtoV = make([][]int, 0, n)
			msh.ElementTypes = make([]utils.ElementType, 0, n)
			for i := 0; i < n; i++ {
				var (
					et    utils.ElementType
					nodes []int
				)
				if line, err = s.mustNext("elements"); err != nil {
					return
				}
				if et, nodes, err = parseElement(line); err != nil {
					return nil, fmt.Errorf("line %d: %w", s.lineNo, err)
				}
				msh.EtoV = append(msh.EtoV, nodes)
				msh.ElementTypes = append(msh.ElementTypes, et)
			}

		case strings.HasPrefix(line, "NPOIN="):
			hasNPOIN = true
			if !hasNDIME {
				return nil, fmt.Errorf("NPOIN= before NDIME=")
			}
			if n, err = keyInt(line, "NPOIN"); err != nil {
				return
			}
			msh.Vertices = make([][]float64, n)
			for i := 0; i < n; i++ {
				if line, err = s.mustNext("nodes"); err != nil {
					return
				}
				fields := strings.Fields(line)
				if len(fields) < msh.NDim {
					return nil, fmt.Errorf("line %d: invalid node line: expected at least %d coordinates",
						s.lineNo, msh.NDim)
				}
				// Node ID is implicit (0-based) based on order, a trailing index is ignored
				coords := make([]float64, msh.NDim)
				for j := range coords {
					if coords[j], err = strconv.ParseFloat(fields[j], 64); err != nil {
						return nil, fmt.Errorf("line %d: invalid coordinate: %v", s.lineNo, err)
					}
				}
				msh.Vertices[i] = coords
			}

		case strings.HasPrefix(line, "NMARK="):
			if n, err = keyInt(line, "NMARK"); err != nil {
				return
			}
			for i := 0; i < n; i++ {
				var mk Marker
				if mk, err = readMarker(s); err != nil {
					return
				}
				msh.Markers = append(msh.Markers, mk)
			}

		case strings.HasPrefix(line, "NPERIODIC="):
			if n, err = keyInt(line, "NPERIODIC"); err != nil {
				return
			}
			for i := 0; i < n; i++ {
				var p Periodic
				if p, err = readPeriodic(s, i); err != nil {
					return
				}
				msh.Periodic = append(msh.Periodic, p)
			}

		default:
			return nil, fmt.Errorf("line %d: unexpected content: %s", s.lineNo, line)
		}
	}
	if err = sc.Err(); err != nil {
		return nil, fmt.Errorf("error reading file: %w", err)
	}
	if !hasNDIME {
		return nil, fmt.Errorf("missing required NDIME= section")
	}
	if !hasNPOIN {
		return nil, fmt.Errorf("missing required NPOIN= section")
	}
	msh.NumElements = len(msh.EtoV)
	msh.NumVertices = len(msh.Vertices)
	if err = msh.checkNodes(); err != nil {
		return nil, err
	}
	return
}

func readMarker(s *su2Scanner) (mk Marker, err error) {
	var (
		line string
		n    int
		ok   bool
	)
	if line, err = s.mustNext("marker"); err != nil {
		return
	}
	if mk.Tag, ok = keyValue(line, "MARKER_TAG"); !ok {
		err = fmt.Errorf("line %d: expected MARKER_TAG=, got: %s", s.lineNo, line)
		return
	}
	if line, err = s.mustNext("marker elements for " + mk.Tag); err != nil {
		return
	}
	if n, err = keyInt(line, "MARKER_ELEMS"); err != nil {
		err = fmt.Errorf("line %d: %w", s.lineNo, err)
		return
	}
	for j := 0; j < n; j++ {
		var be BoundaryElement
		if line, err = s.mustNext("boundary elements"); err != nil {
			return
		}
		if be.ElementType, be.Nodes, err = parseElement(line); err != nil {
			err = fmt.Errorf("line %d: %w", s.lineNo, err)
			return
		}
		if be.ElementType.GetDimension() > 2 {
			err = fmt.Errorf("line %d: %s is not a boundary element", s.lineNo, be.ElementType)
			return
		}
		mk.Elements = append(mk.Elements, be)
	}
	return
}

func readPeriodic(s *su2Scanner, index int) (p Periodic, err error) {
	var (
		line string
		n    int
	)
	if line, err = s.mustNext("periodic transformation"); err != nil {
		return
	}
	if n, err = keyInt(line, "PERIODIC_INDEX"); err != nil {
		err = fmt.Errorf("line %d: %w", s.lineNo, err)
		return
	}
	if n != index {
		err = fmt.Errorf("line %d: periodic index %d out of order, expected %d", s.lineNo, n, index)
		return
	}
	for _, row := range []*[3]float64{&p.Center, &p.Rotation, &p.Translation} {
		if line, err = s.mustNext("periodic transformation"); err != nil {
			return
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			err = fmt.Errorf("line %d: expected 3 values, got %d", s.lineNo, len(fields))
			return
		}
		for j := 0; j < 3; j++ {
			if row[j], err = strconv.ParseFloat(fields[j], 64); err != nil {
				err = fmt.Errorf("line %d: invalid periodic value: %v", s.lineNo, err)
				return
			}
		}
	}
	return
}

// checkNodes validates element and marker vertex numbers once all sections are read
func (m *Mesh) checkNodes() error {
	check := func(nodes []int, what string) error {
		for _, n := range nodes {
			if n < 0 || n >= m.NumVertices {
				return fmt.Errorf("%s node index %d out of range [0,%d)", what, n, m.NumVertices)
			}
		}
		return nil
	}
	for k, nodes := range m.EtoV {
		if m.ElementTypes[k].GetDimension() != m.NDim {
			return fmt.Errorf("element %d is a %s in a %dD mesh", k, m.ElementTypes[k], m.NDim)
		}
		if err := check(nodes, "element"); err != nil {
			return err
		}
	}
	for _, mk := range m.Markers {
		for _, be := range mk.Elements {
			if err := check(be.Nodes, "marker "+mk.Tag); err != nil {
				return err
			}
		}
	}
	return nil
}
