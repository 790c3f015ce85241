package data

import (
	"github.com/shopspring/decimal"

	"github.com/quantfold/backtester/event"
)

// ExampleSeries is a single-symbol price path with a dip-and-recover shape
// that exercises the mean-reversion strategy end to end: the dips below the
// rolling mean trigger buys, the recoveries trigger sells.
func ExampleSeries(symbol string) []event.Observation {
	prices := []int64{100, 101, 102, 99, 95, 97, 100, 103, 98, 94, 96, 101}
	out := make([]event.Observation, len(prices))
	for i, p := range prices {
		out[i] = event.Observation{
			LogicalTime: int64(i),
			Sym:         symbol,
			Price:       decimal.NewFromInt(p),
		}
	}
	return out
}

// ExampleCSV is a starter dataset in the loader's format.
const ExampleCSV = `time,symbol,price
0,AAPL,100
1,AAPL,101
2,AAPL,102
3,AAPL,99
4,AAPL,95
5,AAPL,97
6,AAPL,100
7,AAPL,103
8,AAPL,98
9,AAPL,94
10,AAPL,96
11,AAPL,101
`
