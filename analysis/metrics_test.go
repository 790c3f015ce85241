package analysis

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantfold/backtester/event"
	"github.com/quantfold/backtester/ledger"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func fill(t int64, sym string, side event.Side, qty int64, price int64) event.Fill {
	return event.Fill{LogicalTime: t, Sym: sym, Side: side, Quantity: qty, FillPrice: dec(price)}
}

func TestRoundTripPairingAcrossSymbols(t *testing.T) {
	t.Parallel()

	fills := []event.Fill{
		fill(1, "AAPL", event.Buy, 10, 100),
		fill(2, "MSFT", event.Buy, 10, 200),
		fill(3, "AAPL", event.Sell, 10, 110), // +100
		fill(4, "MSFT", event.Sell, 10, 190), // -100
	}

	m := NewTradeMetrics(fills, dec(10000), dec(10000))
	assert.Equal(t, 2, m.NumTrades())
	assert.True(t, m.WinRate().Equal(decimal.NewFromFloat(0.5)), "win rate = %s", m.WinRate())
	assert.True(t, m.AvgPnLPerTrade().IsZero(), "avg = %s", m.AvgPnLPerTrade())
	assert.True(t, m.TotalReturn().IsZero())
}

func TestPartialSellMatchesFIFO(t *testing.T) {
	t.Parallel()

	fills := []event.Fill{
		fill(1, "AAPL", event.Buy, 10, 100),
		fill(2, "AAPL", event.Buy, 10, 120),
		fill(3, "AAPL", event.Sell, 15, 130),
	}

	m := NewTradeMetrics(fills, dec(10000), dec(10000))
	require.Equal(t, 2, m.NumTrades())

	// First lot fully closed at +30 each, 5 of the second at +10 each.
	assert.True(t, m.TradePnLs[0].Equal(dec(300)), "first = %s", m.TradePnLs[0])
	assert.True(t, m.TradePnLs[1].Equal(dec(50)), "second = %s", m.TradePnLs[1])
	assert.True(t, m.WinRate().Equal(dec(1)))
}

func TestNoTradesMeansZeroStats(t *testing.T) {
	t.Parallel()

	m := NewTradeMetrics(nil, dec(10000), dec(10500))
	assert.Equal(t, 0, m.NumTrades())
	assert.True(t, m.WinRate().IsZero())
	assert.True(t, m.AvgPnLPerTrade().IsZero())
	assert.True(t, m.TotalReturn().Equal(decimal.NewFromFloat(0.05)), "return = %s", m.TotalReturn())
}

func TestMaxDrawdownFromEquityCurve(t *testing.T) {
	t.Parallel()

	equities := []int64{10000, 11000, 12000, 11500, 10500, 13000, 11000, 10000}
	curve := make([]ledger.EquitySample, len(equities))
	for i, e := range equities {
		curve[i] = ledger.EquitySample{LogicalTime: int64(i), Equity: dec(e)}
	}

	a := NewEquityAnalyzer(curve)
	assert.True(t, a.Peak.Equal(dec(13000)))

	// Worst point is the final 10000 against the 13000 peak.
	want := dec(3000).Div(dec(13000))
	assert.True(t, a.MaxDrawdown.Equal(want), "max dd = %s", a.MaxDrawdown)

	require.Len(t, a.DrawdownCurve, len(equities))
	assert.True(t, a.DrawdownCurve[0].IsZero())
	assert.True(t, a.DrawdownCurve[5].IsZero(), "new peak resets drawdown")
}

func TestEmptyCurveIsHarmless(t *testing.T) {
	t.Parallel()

	a := NewEquityAnalyzer(nil)
	assert.True(t, a.MaxDrawdown.IsZero())
	assert.Empty(t, a.DrawdownCurve)
}

func TestMonotonicRiseHasZeroDrawdown(t *testing.T) {
	t.Parallel()

	curve := []ledger.EquitySample{
		{LogicalTime: 0, Equity: dec(10000)},
		{LogicalTime: 1, Equity: dec(10100)},
		{LogicalTime: 2, Equity: dec(10400)},
	}
	a := NewEquityAnalyzer(curve)
	assert.True(t, a.MaxDrawdown.IsZero())
	assert.True(t, a.Peak.Equal(dec(10400)))
}
