package frame

// Transform is a single pipeline step over a Matrix.
type Transform func(*Matrix) *Matrix

// Compose chains transforms left to right into one function. Evaluation is
// eager; there is no lazy streaming or concurrency involved.
func Compose(steps ...Transform) Transform {
	return func(m *Matrix) *Matrix {
		for _, step := range steps {
			m = step(m)
		}
		return m
	}
}
