package frame

import (
	"fmt"
	"math"
)

// Series is a single-column analogue of Matrix, used for scalar-per-period
// quantities such as leverage and portfolio returns.
type Series struct {
	index  []int64
	values []float64
}

// NewSeries validates shapes and builds a Series.
func NewSeries(index []int64, values []float64) (*Series, error) {
	if len(values) != len(index) {
		return nil, fmt.Errorf("series: %d values for %d index labels", len(values), len(index))
	}
	if err := checkIndex(index); err != nil {
		return nil, err
	}
	return &Series{
		index:  append([]int64(nil), index...),
		values: append([]float64(nil), values...),
	}, nil
}

// MustSeries is NewSeries that panics on contract violations.
func MustSeries(index []int64, values []float64) *Series {
	s, err := NewSeries(index, values)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of periods.
func (s *Series) Len() int { return len(s.index) }

// Index returns a copy of the period labels.
func (s *Series) Index() []int64 { return append([]int64(nil), s.index...) }

// Values returns a copy of the values.
func (s *Series) Values() []float64 { return append([]float64(nil), s.values...) }

// At returns the value at row i.
func (s *Series) At(i int) float64 { return s.values[i] }

// Clone returns a deep copy.
func (s *Series) Clone() *Series { return MustSeries(s.index, s.values) }

// Equal reports whether two series have identical indices and values, with
// NaN comparing equal to NaN.
func (s *Series) Equal(o *Series) bool {
	if s.Len() != o.Len() {
		return false
	}
	for i, label := range s.index {
		if o.index[i] != label {
			return false
		}
	}
	for i, v := range s.values {
		if math.IsNaN(v) && math.IsNaN(o.values[i]) {
			continue
		}
		if v != o.values[i] {
			return false
		}
	}
	return true
}

func (s *Series) rowIndex() []int64      { return s.index }
func (s *Series) columnLabels() []string { return nil }
func (s *Series) cloneTable() Table      { return s.Clone() }

func (s *Series) takeRows(pos []int) Table {
	index := make([]int64, len(pos))
	values := make([]float64, len(pos))
	for i, p := range pos {
		index[i] = s.index[p]
		values[i] = s.values[p]
	}
	return &Series{index: index, values: values}
}

// takeCols is a no-op for Series; column alignment never applies to it.
func (s *Series) takeCols(pos []int) Table { return s.Clone() }
