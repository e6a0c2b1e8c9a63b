// Package frame provides the time-indexed numeric containers used by the
// backtesting pipeline: Matrix (periods x assets) and Series (periods only),
// plus index alignment and function composition.
//
// Values are float64 with NaN as the missing-value sentinel. Row indices are
// int64 period labels (unix timestamps or plain ordinals) and must be strictly
// increasing; matrices are only ever sliced, shifted or intersected, never
// reordered. Every operation in this package and in the pipeline packages
// returns freshly allocated results - inputs are never mutated.
package frame

import (
	"fmt"
	"math"
)

// Matrix is a periods-by-assets table of float64 values with NaN for missing
// observations.
type Matrix struct {
	index   []int64
	columns []string
	data    [][]float64
}

// NewMatrix validates shapes and builds a Matrix. The index must be strictly
// increasing, every data row must have len(columns) values, and len(data)
// must equal len(index). These are the only user-facing contract failures in
// the pipeline; numeric anomalies downstream never error.
func NewMatrix(index []int64, columns []string, data [][]float64) (*Matrix, error) {
	if len(data) != len(index) {
		return nil, fmt.Errorf("matrix: %d data rows for %d index labels", len(data), len(index))
	}
	for i, row := range data {
		if len(row) != len(columns) {
			return nil, fmt.Errorf("matrix: row %d has %d values for %d columns", i, len(row), len(columns))
		}
	}
	if err := checkIndex(index); err != nil {
		return nil, err
	}
	m := &Matrix{
		index:   append([]int64(nil), index...),
		columns: append([]string(nil), columns...),
		data:    make([][]float64, len(data)),
	}
	for i, row := range data {
		m.data[i] = append([]float64(nil), row...)
	}
	return m, nil
}

// MustMatrix is NewMatrix that panics on contract violations. Intended for
// tests and for call sites where shapes are correct by construction.
func MustMatrix(index []int64, columns []string, data [][]float64) *Matrix {
	m, err := NewMatrix(index, columns, data)
	if err != nil {
		panic(err)
	}
	return m
}

func checkIndex(index []int64) error {
	for i := 1; i < len(index); i++ {
		if index[i] <= index[i-1] {
			return fmt.Errorf("index not strictly increasing at position %d (%d <= %d)", i, index[i], index[i-1])
		}
	}
	return nil
}

// Rows returns the number of periods.
func (m *Matrix) Rows() int { return len(m.index) }

// Cols returns the number of assets.
func (m *Matrix) Cols() int { return len(m.columns) }

// Index returns a copy of the period labels.
func (m *Matrix) Index() []int64 { return append([]int64(nil), m.index...) }

// Columns returns a copy of the asset labels.
func (m *Matrix) Columns() []string { return append([]string(nil), m.columns...) }

// At returns the value at row i, column j.
func (m *Matrix) At(i, j int) float64 { return m.data[i][j] }

// Row returns a copy of row i.
func (m *Matrix) Row(i int) []float64 { return append([]float64(nil), m.data[i]...) }

// Column returns a copy of column j.
func (m *Matrix) Column(j int) []float64 {
	out := make([]float64, len(m.data))
	for i, row := range m.data {
		out[i] = row[j]
	}
	return out
}

// Clone returns a deep copy.
func (m *Matrix) Clone() *Matrix {
	return MustMatrix(m.index, m.columns, m.data)
}

// Equal reports whether two matrices have identical indices, columns and
// values. NaNs compare equal to NaNs so that missing cells do not break
// equality checks in tests.
func (m *Matrix) Equal(o *Matrix) bool {
	if m.Rows() != o.Rows() || m.Cols() != o.Cols() {
		return false
	}
	for i, label := range m.index {
		if o.index[i] != label {
			return false
		}
	}
	for j, col := range m.columns {
		if o.columns[j] != col {
			return false
		}
	}
	for i := range m.data {
		for j := range m.data[i] {
			a, b := m.data[i][j], o.data[i][j]
			if math.IsNaN(a) && math.IsNaN(b) {
				continue
			}
			if a != b {
				return false
			}
		}
	}
	return true
}

// Table is the common surface of Matrix and Series that alignment operates
// on. Both implement it; callers mix them freely in Align.
type Table interface {
	rowIndex() []int64
	columnLabels() []string // nil for Series
	takeRows(pos []int) Table
	takeCols(pos []int) Table
	cloneTable() Table
}

func (m *Matrix) rowIndex() []int64      { return m.index }
func (m *Matrix) columnLabels() []string { return m.columns }
func (m *Matrix) cloneTable() Table      { return m.Clone() }

func (m *Matrix) takeRows(pos []int) Table {
	index := make([]int64, len(pos))
	data := make([][]float64, len(pos))
	for i, p := range pos {
		index[i] = m.index[p]
		data[i] = append([]float64(nil), m.data[p]...)
	}
	return &Matrix{index: index, columns: append([]string(nil), m.columns...), data: data}
}

func (m *Matrix) takeCols(pos []int) Table {
	columns := make([]string, len(pos))
	for j, p := range pos {
		columns[j] = m.columns[p]
	}
	data := make([][]float64, len(m.data))
	for i, row := range m.data {
		out := make([]float64, len(pos))
		for j, p := range pos {
			out[j] = row[p]
		}
		data[i] = out
	}
	return &Matrix{index: append([]int64(nil), m.index...), columns: columns, data: data}
}
