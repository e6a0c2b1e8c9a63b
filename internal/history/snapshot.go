package history

import (
	"fmt"
	"os"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/aristath/factorlab/pkg/frame"
)

// snapshot is the on-disk shape of an assembled price matrix. msgpack keeps
// the files compact enough to check into research scratch space.
type snapshot struct {
	Index   []int64     `msgpack:"index"`
	Columns []string    `msgpack:"columns"`
	Data    [][]float64 `msgpack:"data"`
}

// SaveSnapshot writes a price matrix to path so later runs can skip the
// database entirely.
func SaveSnapshot(path string, m *frame.Matrix) error {
	rows := m.Rows()
	data := make([][]float64, rows)
	for i := 0; i < rows; i++ {
		data[i] = m.Row(i)
	}
	b, err := msgpack.Marshal(snapshot{
		Index:   m.Index(),
		Columns: m.Columns(),
		Data:    data,
	})
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return nil
}

// LoadSnapshot reads a price matrix previously written by SaveSnapshot.
func LoadSnapshot(path string) (*frame.Matrix, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}
	var s snapshot
	if err := msgpack.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot %s: %w", path, err)
	}
	m, err := frame.NewMatrix(s.Index, s.Columns, s.Data)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s is malformed: %w", path, err)
	}
	return m, nil
}
