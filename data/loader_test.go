package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadCSVWithHeader(t *testing.T) {
	t.Parallel()

	obs, err := ReadCSV(strings.NewReader("time,symbol,price\n0,AAPL,100\n1,AAPL,101.5\n"))
	require.NoError(t, err)
	require.Len(t, obs, 2)

	assert.Equal(t, int64(0), obs[0].LogicalTime)
	assert.Equal(t, "AAPL", obs[0].Sym)
	assert.True(t, obs[0].Price.Equal(decimal.NewFromInt(100)))
	assert.True(t, obs[1].Price.Equal(decimal.NewFromFloat(101.5)))
}

func TestReadCSVWithoutHeader(t *testing.T) {
	t.Parallel()

	obs, err := ReadCSV(strings.NewReader("0,AAPL,100\n1,MSFT,200\n"))
	require.NoError(t, err)
	require.Len(t, obs, 2)
	assert.Equal(t, "MSFT", obs[1].Sym)
}

func TestReadCSVRejectsBadRows(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{"bad time", "x,AAPL,100\n"},
		{"empty symbol", "0,,100\n"},
		{"bad price", "0,AAPL,banana\n"},
		{"zero price", "0,AAPL,0\n"},
		{"negative price", "0,AAPL,-5\n"},
		{"missing columns", "time,symbol,price\n0,AAPL\n"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := ReadCSV(strings.NewReader(tc.input))
			assert.Error(t, err)
		})
	}
}

func TestReadCSVRejectsBackwardsTimePerSymbol(t *testing.T) {
	t.Parallel()

	_, err := ReadCSV(strings.NewReader("0,AAPL,100\n2,AAPL,101\n1,AAPL,102\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "goes backwards")

	// Interleaved symbols with independently increasing times are fine.
	obs, err := ReadCSV(strings.NewReader("5,AAPL,100\n0,MSFT,200\n6,AAPL,101\n1,MSFT,201\n"))
	require.NoError(t, err)
	assert.Len(t, obs, 4)
}

func TestLoadCSVFromFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "observations.csv")
	require.NoError(t, os.WriteFile(path, []byte(ExampleCSV), 0644))

	obs, err := LoadCSV(path)
	require.NoError(t, err)
	assert.Len(t, obs, 12)

	_, err = LoadCSV(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestInterleaveRoundRobin(t *testing.T) {
	t.Parallel()

	series := map[string][]decimal.Decimal{
		"A": {decimal.NewFromInt(1), decimal.NewFromInt(2), decimal.NewFromInt(3)},
		"B": {decimal.NewFromInt(10), decimal.NewFromInt(20)},
	}

	obs := Interleave([]string{"A", "B"}, series)
	require.Len(t, obs, 5)

	assert.Equal(t, "A", obs[0].Sym)
	assert.Equal(t, "B", obs[1].Sym)
	assert.Equal(t, int64(0), obs[0].LogicalTime)
	assert.Equal(t, int64(0), obs[1].LogicalTime)
	assert.Equal(t, int64(1), obs[2].LogicalTime)

	// B's series is shorter; the last tick only carries A.
	last := obs[len(obs)-1]
	assert.Equal(t, "A", last.Sym)
	assert.Equal(t, int64(2), last.LogicalTime)
	assert.True(t, last.Price.Equal(decimal.NewFromInt(3)))
}

func TestExampleSeriesShape(t *testing.T) {
	t.Parallel()

	obs := ExampleSeries("AAPL")
	require.Len(t, obs, 12)
	for i, o := range obs {
		assert.Equal(t, int64(i), o.LogicalTime)
		assert.Equal(t, "AAPL", o.Sym)
		assert.True(t, o.Price.IsPositive())
	}
}
