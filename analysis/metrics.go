package analysis

import (
	"github.com/shopspring/decimal"

	"github.com/quantfold/backtester/event"
)

// TradeMetrics derives round-trip statistics from a run's fill history.
// A round trip is a buy later flattened by a sell in the same symbol; the
// pairing is FIFO per symbol, matching how the built-in strategies trade.
type TradeMetrics struct {
	InitialCash decimal.Decimal
	FinalEquity decimal.Decimal

	TradePnLs []decimal.Decimal
}

// NewTradeMetrics pairs fills into round trips and computes their PnLs.
func NewTradeMetrics(fills []event.Fill, initialCash, finalEquity decimal.Decimal) *TradeMetrics {
	type open struct {
		quantity int64
		price    decimal.Decimal
	}
	openBuys := make(map[string][]open)

	m := &TradeMetrics{
		InitialCash: initialCash,
		FinalEquity: finalEquity,
	}

	for _, f := range fills {
		switch f.Side {
		case event.Buy:
			openBuys[f.Sym] = append(openBuys[f.Sym], open{quantity: f.Quantity, price: f.FillPrice})
		case event.Sell:
			remaining := f.Quantity
			queue := openBuys[f.Sym]
			for remaining > 0 && len(queue) > 0 {
				lot := &queue[0]
				matched := lot.quantity
				if remaining < matched {
					matched = remaining
				}
				pnl := f.FillPrice.Sub(lot.price).Mul(decimal.NewFromInt(matched))
				m.TradePnLs = append(m.TradePnLs, pnl)

				lot.quantity -= matched
				remaining -= matched
				if lot.quantity == 0 {
					queue = queue[1:]
				}
			}
			openBuys[f.Sym] = queue
		}
	}

	return m
}

func (m *TradeMetrics) NumTrades() int { return len(m.TradePnLs) }

func (m *TradeMetrics) WinRate() decimal.Decimal {
	if len(m.TradePnLs) == 0 {
		return decimal.Zero
	}
	wins := 0
	for _, pnl := range m.TradePnLs {
		if pnl.IsPositive() {
			wins++
		}
	}
	return decimal.NewFromInt(int64(wins)).Div(decimal.NewFromInt(int64(len(m.TradePnLs))))
}

func (m *TradeMetrics) AvgPnLPerTrade() decimal.Decimal {
	if len(m.TradePnLs) == 0 {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, pnl := range m.TradePnLs {
		sum = sum.Add(pnl)
	}
	return sum.Div(decimal.NewFromInt(int64(len(m.TradePnLs))))
}

// TotalReturn is (final equity - initial cash) / initial cash.
func (m *TradeMetrics) TotalReturn() decimal.Decimal {
	if !m.InitialCash.IsPositive() {
		return decimal.Zero
	}
	return m.FinalEquity.Sub(m.InitialCash).Div(m.InitialCash)
}
