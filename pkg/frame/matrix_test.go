package frame

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatrix_Validation(t *testing.T) {
	tests := []struct {
		name    string
		index   []int64
		columns []string
		data    [][]float64
		wantErr bool
	}{
		{
			name:    "valid",
			index:   []int64{1, 2},
			columns: []string{"A", "B"},
			data:    [][]float64{{1, 2}, {3, 4}},
		},
		{
			name:    "row count mismatch",
			index:   []int64{1, 2, 3},
			columns: []string{"A"},
			data:    [][]float64{{1}},
			wantErr: true,
		},
		{
			name:    "column count mismatch",
			index:   []int64{1},
			columns: []string{"A", "B"},
			data:    [][]float64{{1}},
			wantErr: true,
		},
		{
			name:    "index not increasing",
			index:   []int64{2, 1},
			columns: []string{"A"},
			data:    [][]float64{{1}, {2}},
			wantErr: true,
		},
		{
			name:    "duplicate index label",
			index:   []int64{1, 1},
			columns: []string{"A"},
			data:    [][]float64{{1}, {2}},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMatrix(tt.index, tt.columns, tt.data)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, m)
			} else {
				require.NoError(t, err)
				assert.Equal(t, len(tt.index), m.Rows())
				assert.Equal(t, len(tt.columns), m.Cols())
			}
		})
	}
}

func TestMatrix_CopiesInputs(t *testing.T) {
	index := []int64{1, 2}
	data := [][]float64{{1, 2}, {3, 4}}
	m := MustMatrix(index, []string{"A", "B"}, data)

	// Mutating the source slices must not leak into the matrix.
	index[0] = 99
	data[0][0] = 99

	assert.Equal(t, int64(1), m.Index()[0])
	assert.Equal(t, 1.0, m.At(0, 0))

	// Mutating accessor results must not leak back either.
	m.Row(0)[0] = 42
	m.Column(0)[0] = 42
	assert.Equal(t, 1.0, m.At(0, 0))
}

func TestMatrix_Equal(t *testing.T) {
	a := MustMatrix([]int64{1, 2}, []string{"A"}, [][]float64{{1}, {math.NaN()}})
	b := MustMatrix([]int64{1, 2}, []string{"A"}, [][]float64{{1}, {math.NaN()}})
	c := MustMatrix([]int64{1, 2}, []string{"A"}, [][]float64{{1}, {2}})

	assert.True(t, a.Equal(b), "NaN cells should compare equal")
	assert.False(t, a.Equal(c))
	assert.True(t, a.Equal(a.Clone()))
}

func TestSeries_Basics(t *testing.T) {
	_, err := NewSeries([]int64{1, 2}, []float64{1})
	assert.Error(t, err)

	s := MustSeries([]int64{1, 2, 3}, []float64{1, 2, 3})
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 2.0, s.At(1))
	assert.True(t, s.Equal(s.Clone()))

	s.Values()[0] = 42
	assert.Equal(t, 1.0, s.At(0), "Values must return a copy")
}
