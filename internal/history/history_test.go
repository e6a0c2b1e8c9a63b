package history

import (
	"math"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/factorlab/internal/database"
	"github.com/aristath/factorlab/pkg/frame"
)

func newTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.New(database.Config{
		Path: filepath.Join(t.TempDir(), "history.db"),
		Name: "history",
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate())
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func insertPrice(t *testing.T, db *database.DB, symbol string, date int64, close float64) {
	t.Helper()
	_, err := db.Conn().Exec(
		"INSERT INTO daily_prices (symbol, date, close) VALUES (?, ?, ?)",
		symbol, date, close,
	)
	require.NoError(t, err)
}

func TestPriceMatrix(t *testing.T) {
	db := newTestDB(t)

	// B lists one day later than A.
	insertPrice(t, db, "A", 100, 10)
	insertPrice(t, db, "A", 200, 11)
	insertPrice(t, db, "A", 300, 12)
	insertPrice(t, db, "B", 200, 50)
	insertPrice(t, db, "B", 300, 51)

	h := New(db.Conn(), zerolog.Nop())
	m, err := h.PriceMatrix([]string{"A", "B"}, 0)
	require.NoError(t, err)

	require.Equal(t, []int64{100, 200, 300}, m.Index(), "union of trading days, ascending")
	require.Equal(t, []string{"A", "B"}, m.Columns())

	assert.Equal(t, 10.0, m.At(0, 0))
	assert.True(t, math.IsNaN(m.At(0, 1)), "unlisted asset is missing, not zero")
	assert.Equal(t, 50.0, m.At(1, 1))
	assert.Equal(t, 12.0, m.At(2, 0))
}

func TestPriceMatrix_Limit(t *testing.T) {
	db := newTestDB(t)
	for i := int64(1); i <= 5; i++ {
		insertPrice(t, db, "A", i*100, float64(i))
	}

	h := New(db.Conn(), zerolog.Nop())
	m, err := h.PriceMatrix([]string{"A"}, 2)
	require.NoError(t, err)

	assert.Equal(t, []int64{400, 500}, m.Index(), "limit keeps the most recent periods")
}

func TestPriceMatrix_NoSymbols(t *testing.T) {
	db := newTestDB(t)
	h := New(db.Conn(), zerolog.Nop())

	_, err := h.PriceMatrix(nil, 0)
	assert.Error(t, err)
}

func TestSnapshotRoundTrip(t *testing.T) {
	m := frame.MustMatrix(
		[]int64{1, 2},
		[]string{"A", "B"},
		[][]float64{{1, math.NaN()}, {2, 3}},
	)
	path := filepath.Join(t.TempDir(), "prices.msgpack")

	require.NoError(t, SaveSnapshot(path, m))
	loaded, err := LoadSnapshot(path)
	require.NoError(t, err)

	assert.True(t, m.Equal(loaded))
}

func TestLoadSnapshot_MissingFile(t *testing.T) {
	_, err := LoadSnapshot(filepath.Join(t.TempDir(), "nope.msgpack"))
	assert.Error(t, err)
}
