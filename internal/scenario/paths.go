package scenario

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
)

var (
	// ErrRaggedMatrix is returned when the rows of a path matrix differ in length.
	ErrRaggedMatrix = errors.New("scenario: path matrix rows have unequal length")

	// ErrMixedPaths is returned when a paths array mixes scalars and rows.
	ErrMixedPaths = errors.New("scenario: paths mix scalar values and rows")

	// ErrMalformedDocument wraps schema and decoding failures of a scenario document.
	ErrMalformedDocument = errors.New("scenario: malformed document")
)

// SampleSeries is one metric's outcomes across simulation paths.
type SampleSeries []float64

// Finite returns a copy holding only the finite values, in order.
func (s SampleSeries) Finite() SampleSeries {
	out := make(SampleSeries, 0, len(s))
	for _, v := range s {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			out = append(out, v)
		}
	}
	return out
}

// PathMatrix is indexed [path][step].
type PathMatrix [][]float64

// Dims returns the number of paths and steps, rejecting ragged rows.
func (m PathMatrix) Dims() (paths, steps int, err error) {
	if len(m) == 0 {
		return 0, 0, nil
	}
	steps = len(m[0])
	for i, row := range m {
		if len(row) != steps {
			return 0, 0, fmt.Errorf("%w: row %d has %d steps, expected %d", ErrRaggedMatrix, i, len(row), steps)
		}
	}
	return len(m), steps, nil
}

// Column returns the values of every path at step t. The matrix must be rectangular.
func (m PathMatrix) Column(t int) SampleSeries {
	col := make(SampleSeries, len(m))
	for i, row := range m {
		col[i] = row[t]
	}
	return col
}

// Paths is the decoded form of a *_paths field. The risk service emits either a flat
// series (one terminal value per path) or a matrix tracked across the horizon.
// Exactly one of Series and Matrix is set for a non-empty value.
type Paths struct {
	Series SampleSeries
	Matrix PathMatrix
}

// IsMatrix reports whether the paths carry per-step structure.
func (p Paths) IsMatrix() bool {
	return p.Matrix != nil
}

// Empty reports whether there is nothing to analyze.
func (p Paths) Empty() bool {
	return len(p.Series) == 0 && len(p.Matrix) == 0
}

// Terminal returns the last-step value of every path, or the flat series as-is.
func Terminal(p Paths) (SampleSeries, error) {
	if !p.IsMatrix() {
		return p.Series, nil
	}
	n, steps, err := p.Matrix.Dims()
	if err != nil {
		return nil, err
	}
	if n == 0 || steps == 0 {
		return SampleSeries{}, nil
	}
	return p.Matrix.Column(steps - 1), nil
}

// Flatten returns every cell of the paths in row order.
func Flatten(p Paths) (SampleSeries, error) {
	if !p.IsMatrix() {
		return p.Series, nil
	}
	n, steps, err := p.Matrix.Dims()
	if err != nil {
		return nil, err
	}
	out := make(SampleSeries, 0, n*steps)
	for _, row := range p.Matrix {
		out = append(out, row...)
	}
	return out, nil
}

// UnmarshalJSON accepts a flat array or an array of arrays. null cells decode to NaN
// so that they can be filtered before statistical use.
func (p *Paths) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) {
		*p = Paths{}
		return nil
	}

	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return fmt.Errorf("paths: %w", err)
	}

	rows := 0
	for _, e := range elems {
		if t := bytes.TrimSpace(e); len(t) > 0 && t[0] == '[' {
			rows++
		}
	}

	switch {
	case rows == 0:
		series, err := decodeCells(elems)
		if err != nil {
			return err
		}
		*p = Paths{Series: series}
	case rows == len(elems):
		matrix := make(PathMatrix, len(elems))
		for i, e := range elems {
			var cells []json.RawMessage
			if err := json.Unmarshal(e, &cells); err != nil {
				return fmt.Errorf("paths row %d: %w", i, err)
			}
			row, err := decodeCells(cells)
			if err != nil {
				return fmt.Errorf("paths row %d: %w", i, err)
			}
			matrix[i] = row
		}
		*p = Paths{Matrix: matrix}
	default:
		return ErrMixedPaths
	}
	return nil
}

func decodeCells(cells []json.RawMessage) ([]float64, error) {
	out := make([]float64, len(cells))
	for i, c := range cells {
		if bytes.Equal(bytes.TrimSpace(c), []byte("null")) {
			out[i] = math.NaN()
			continue
		}
		if err := json.Unmarshal(c, &out[i]); err != nil {
			return nil, fmt.Errorf("cell %d: %w", i, err)
		}
	}
	return out, nil
}

// MarshalJSON writes non-finite cells as null.
func (p Paths) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if !p.IsMatrix() {
		appendCells(&buf, p.Series)
		return buf.Bytes(), nil
	}
	buf.WriteByte('[')
	for i, row := range p.Matrix {
		if i > 0 {
			buf.WriteByte(',')
		}
		appendCells(&buf, row)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

func appendCells(buf *bytes.Buffer, values []float64) {
	buf.WriteByte('[')
	for i, v := range values {
		if i > 0 {
			buf.WriteByte(',')
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			buf.WriteString("null")
			continue
		}
		buf.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
	}
	buf.WriteByte(']')
}
