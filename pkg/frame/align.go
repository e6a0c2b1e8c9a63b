package frame

// Align reconciles two or more matrices/series onto a shared row index and,
// for matrix pairs, a shared column set, using index intersection. Values
// outside the intersection are dropped, never filled.
//
// Pairwise alignment is not globally commutative in a single pass, so Align
// runs a forward sweep (item i against i+1) followed by a backward sweep
// (item i against i-1) to propagate narrowing from any pair to all others.
// Outputs are always copies; inputs are left untouched.
func Align(items ...Table) []Table {
	out := make([]Table, len(items))
	copy(out, items)

	for i := 0; i < len(out)-1; i++ {
		out[i], out[i+1] = alignTwo(out[i], out[i+1])
	}
	for i := len(out) - 2; i > 0; i-- {
		out[i], out[i-1] = alignTwo(out[i], out[i-1])
	}
	return out
}

// AlignMatrices aligns a pair of matrices on rows and columns.
func AlignMatrices(a, b *Matrix) (*Matrix, *Matrix) {
	x, y := alignTwo(a, b)
	return x.(*Matrix), y.(*Matrix)
}

// AlignMatrixSeries aligns a matrix with a series on the row index only.
func AlignMatrixSeries(m *Matrix, s *Series) (*Matrix, *Series) {
	x, y := alignTwo(m, s)
	return x.(*Matrix), y.(*Series)
}

func alignTwo(x, y Table) (Table, Table) {
	// Fast path: equality is checked elementwise, not assumed from shape,
	// because equally sized indices can still hold different labels.
	if areAligned(x, y) {
		return x.cloneTable(), y.cloneTable()
	}

	common := intersectInt64(x.rowIndex(), y.rowIndex())
	x = x.takeRows(positionsInt64(x.rowIndex(), common))
	y = y.takeRows(positionsInt64(y.rowIndex(), common))

	// Column reconciliation only applies when both operands carry columns.
	xcols, ycols := x.columnLabels(), y.columnLabels()
	if xcols == nil || ycols == nil {
		return x, y
	}
	shared := intersectStrings(xcols, ycols)
	x = x.takeCols(positionsStrings(xcols, shared))
	y = y.takeCols(positionsStrings(ycols, shared))
	return x, y
}

func areAligned(x, y Table) bool {
	if !equalInt64(x.rowIndex(), y.rowIndex()) {
		return false
	}
	xcols, ycols := x.columnLabels(), y.columnLabels()
	if xcols == nil || ycols == nil {
		return true
	}
	return equalStrings(xcols, ycols)
}

func equalInt64(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if b[i] != v {
			return false
		}
	}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i, v := range a {
		if b[i] != v {
			return false
		}
	}
	return true
}

// intersectInt64 intersects two strictly increasing label slices, preserving
// the shared monotonic order.
func intersectInt64(a, b []int64) []int64 {
	out := make([]int64, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] == b[j]:
			out = append(out, a[i])
			i++
			j++
		case a[i] < b[j]:
			i++
		default:
			j++
		}
	}
	return out
}

// intersectStrings intersects column labels, keeping the left operand's
// order. Column order carries no computational meaning but is preserved for
// output stability.
func intersectStrings(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, v := range b {
		inB[v] = struct{}{}
	}
	out := make([]string, 0, min(len(a), len(b)))
	for _, v := range a {
		if _, ok := inB[v]; ok {
			out = append(out, v)
		}
	}
	return out
}

func positionsInt64(index []int64, labels []int64) []int {
	pos := make([]int, 0, len(labels))
	i := 0
	for _, label := range labels {
		for index[i] != label {
			i++
		}
		pos = append(pos, i)
		i++
	}
	return pos
}

func positionsStrings(columns []string, labels []string) []int {
	at := make(map[string]int, len(columns))
	for j, c := range columns {
		at[c] = j
	}
	pos := make([]int, len(labels))
	for j, label := range labels {
		pos[j] = at[label]
	}
	return pos
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
