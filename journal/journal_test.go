package journal

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Journal = (*SQLiteJournal)(nil)
	_ Journal = (*CSVJournal)(nil)
)

func sampleFill(t int64, price string) FillRecord {
	p, _ := decimal.NewFromString(price)
	return FillRecord{
		FillID:      "01JD0000000000000000000000",
		LogicalTime: t,
		Symbol:      "AAPL",
		Side:        "BUY",
		Quantity:    10,
		FillPrice:   p,
	}
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.RecordFill(sampleFill(1, "97.25")))
	require.NoError(t, j.RecordEquity(EquityRecord{LogicalTime: 1, Equity: decimal.NewFromInt(10000)}))
	require.NoError(t, j.RecordEquity(EquityRecord{LogicalTime: 2, Equity: decimal.NewFromInt(10030)}))
	require.NoError(t, j.RecordRejection(RejectionRecord{
		LogicalTime: 3,
		Symbol:      "MSFT",
		Side:        "BUY",
		Check:       "cash",
		Reason:      "order value 1000 exceeds cash 500",
	}))

	fills, err := j.ListFills()
	require.NoError(t, err)
	require.Len(t, fills, 1)
	assert.Equal(t, "AAPL", fills[0].Symbol)
	assert.Equal(t, int64(10), fills[0].Quantity)
	// Decimals survive as text, no float rounding.
	assert.True(t, fills[0].FillPrice.Equal(decimal.RequireFromString("97.25")))

	curve, err := j.ListEquity()
	require.NoError(t, err)
	require.Len(t, curve, 2)
	assert.Equal(t, int64(1), curve[0].LogicalTime)
	assert.True(t, curve[1].Equity.Equal(decimal.NewFromInt(10030)))

	rejs, err := j.ListRejections()
	require.NoError(t, err)
	require.Len(t, rejs, 1)
	assert.Equal(t, "cash", rejs[0].Check)
}

func TestSQLiteDuplicateFillIDFails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "run.db")
	j, err := NewSQLite(path)
	require.NoError(t, err)
	defer j.Close()

	require.NoError(t, j.RecordFill(sampleFill(1, "100")))
	assert.Error(t, j.RecordFill(sampleFill(2, "101")), "fill_id is the primary key")
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestCSVJournalWritesThreeFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fillsPath := filepath.Join(dir, "fills.csv")
	equityPath := filepath.Join(dir, "equity.csv")
	rejectionsPath := filepath.Join(dir, "rejections.csv")

	j, err := NewCSV(fillsPath, equityPath, rejectionsPath)
	require.NoError(t, err)

	require.NoError(t, j.RecordFill(sampleFill(1, "97")))
	require.NoError(t, j.RecordEquity(EquityRecord{LogicalTime: 1, Equity: decimal.NewFromInt(10000)}))
	require.NoError(t, j.RecordRejection(RejectionRecord{
		LogicalTime: 2, Symbol: "AAPL", Side: "BUY", Check: "drawdown", Reason: "drawdown 0.2 exceeds 0.15",
	}))
	require.NoError(t, j.Close())

	fills := readCSV(t, fillsPath)
	require.Len(t, fills, 2)
	assert.Equal(t, []string{"fill_id", "logical_time", "symbol", "side", "quantity", "fill_price"}, fills[0])
	assert.Equal(t, []string{"01JD0000000000000000000000", "1", "AAPL", "BUY", "10", "97"}, fills[1])

	curve := readCSV(t, equityPath)
	require.Len(t, curve, 2)
	assert.Equal(t, []string{"1", "10000"}, curve[1])

	rejs := readCSV(t, rejectionsPath)
	require.Len(t, rejs, 2)
	assert.Equal(t, "drawdown", rejs[1][3])
}

func TestCSVJournalBadPathFails(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	_, err := NewCSV(
		filepath.Join(dir, "missing", "fills.csv"),
		filepath.Join(dir, "equity.csv"),
		filepath.Join(dir, "rejections.csv"),
	)
	assert.Error(t, err)
}
