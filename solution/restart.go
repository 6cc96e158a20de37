package solution

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"go.uber.org/multierr"

	"github.com/notargets/tecio/tecplot"
)

const pointIDField = "PointID"

// Restart is an SU2 ASCII restart file held by column
type Restart struct {
	Fields []string    // Field names after PointID, unquoted
	Data   [][]float64 // [field][point]
	NPoint int
}

// ReadRestart reads an SU2 ASCII restart file
func ReadRestart(filename string) (r *Restart, err error) {
	var file *os.File
	if file, err = os.Open(filename); err != nil {
		return nil, err
	}
	defer func() { err = multierr.Append(err, file.Close()) }()
	if r, err = ParseRestart(file); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return
}

// ParseRestart reads a header of quoted tab separated field names starting
// with PointID, then one row per point led by its index. Rows may come in any
// order but every index in [0,NPoint) must appear once.
func ParseRestart(rd io.Reader) (r *Restart, err error) {
	var (
		sc      = bufio.NewScanner(rd)
		lineNo  int
		rows    = make(map[int][]float64)
		nFields int
	)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	if !sc.Scan() {
		if err = sc.Err(); err == nil {
			err = fmt.Errorf("empty restart file")
		}
		return
	}
	lineNo++
	header := strings.Split(strings.TrimSpace(sc.Text()), "\t")
	for i := range header {
		header[i] = strings.Trim(strings.TrimSpace(header[i]), "\"")
	}
	if header[0] != pointIDField {
		return nil, fmt.Errorf("header must start with %q, got %q", pointIDField, header[0])
	}
	r = &Restart{Fields: header[1:]}
	nFields = len(r.Fields)
	for sc.Scan() {
		lineNo++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != nFields+1 {
			return nil, fmt.Errorf("line %d: have %d values, expected %d", lineNo, len(fields), nFields+1)
		}
		var index int
		if index, err = strconv.Atoi(fields[0]); err != nil {
			return nil, fmt.Errorf("line %d: invalid point index: %v", lineNo, err)
		}
		if _, dup := rows[index]; dup {
			return nil, fmt.Errorf("line %d: duplicate point index %d", lineNo, index)
		}
		row := make([]float64, nFields)
		for j := range row {
			if row[j], err = strconv.ParseFloat(fields[j+1], 64); err != nil {
				return nil, fmt.Errorf("line %d: invalid value: %v", lineNo, err)
			}
		}
		rows[index] = row
	}
	if err = sc.Err(); err != nil {
		return nil, err
	}
	r.NPoint = len(rows)
	r.Data = make([][]float64, nFields)
	for j := range r.Data {
		r.Data[j] = make([]float64, r.NPoint)
	}
	for index, row := range rows {
		if index < 0 || index >= r.NPoint {
			return nil, fmt.Errorf("point index %d outside of [0,%d)", index, r.NPoint)
		}
		for j, v := range row {
			r.Data[j][index] = v
		}
	}
	return
}

// Coords returns the leading nDim columns, which hold the point coordinates
func (r *Restart) Coords(nDim int) ([][]float64, error) {
	if nDim > len(r.Data) {
		return nil, fmt.Errorf("restart has %d fields, fewer than %d coordinates", len(r.Data), nDim)
	}
	return r.Data[:nDim], nil
}

// Solution exposes every restart field as an output variable
func (r *Restart) Solution(nDim int, omitCoordinates bool) (sol *tecplot.Solution, err error) {
	var vt *tecplot.VariableTable
	if vt, err = tecplot.VariablesFromFields(r.Fields, nDim, omitCoordinates); err != nil {
		return
	}
	return &tecplot.Solution{Variables: vt, Data: r.Data}, nil
}
