package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/quantfold/backtester/event"
)

// LoadCSV reads observations from a CSV file with columns
// time,symbol,price (header row optional, matched case-insensitively on
// the first column). The kernel requires each symbol's logical times to be
// non-decreasing; cross-symbol interleaving is the file's choice and does
// not affect correctness thanks to the scheduler's ordering key.
func LoadCSV(path string) ([]event.Observation, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses observations from any reader; see LoadCSV for the format.
func ReadCSV(r io.Reader) ([]event.Observation, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var out []event.Observation
	lastSeen := make(map[string]int64)
	sawFirst := false
	line := 0

	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++
		if len(row) == 0 {
			continue
		}

		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}

		if len(row) < 3 {
			return nil, fmt.Errorf("data: row %d: want time,symbol,price, got %d columns", line, len(row))
		}

		t, err := strconv.ParseInt(strings.TrimSpace(row[0]), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("data: row %d: bad time %q: %w", line, row[0], err)
		}
		sym := strings.TrimSpace(row[1])
		if sym == "" {
			return nil, fmt.Errorf("data: row %d: empty symbol", line)
		}
		price, err := decimal.NewFromString(strings.TrimSpace(row[2]))
		if err != nil {
			return nil, fmt.Errorf("data: row %d: bad price %q: %w", line, row[2], err)
		}
		if !price.IsPositive() {
			return nil, fmt.Errorf("data: row %d: price must be positive, got %s", line, price)
		}

		if prev, ok := lastSeen[sym]; ok && t < prev {
			return nil, fmt.Errorf("data: row %d: %s time %d goes backwards (previous %d)", line, sym, t, prev)
		}
		lastSeen[sym] = t

		out = append(out, event.Observation{LogicalTime: t, Sym: sym, Price: price})
	}

	return out, nil
}

// Interleave flattens per-symbol price series into one observation stream,
// round-robin across symbols at each tick, with logical time equal to the
// series index. Symbols are visited in the given order for determinism.
func Interleave(symbols []string, series map[string][]decimal.Decimal) []event.Observation {
	maxLen := 0
	for _, prices := range series {
		if len(prices) > maxLen {
			maxLen = len(prices)
		}
	}

	var out []event.Observation
	for t := 0; t < maxLen; t++ {
		for _, sym := range symbols {
			prices := series[sym]
			if t < len(prices) {
				out = append(out, event.Observation{
					LogicalTime: int64(t),
					Sym:         sym,
					Price:       prices[t],
				})
			}
		}
	}
	return out
}
