package analysis

import (
	"github.com/shopspring/decimal"

	"github.com/quantfold/backtester/ledger"
)

// EquityAnalyzer computes the drawdown series of an equity history. The
// curve must be sorted by logical time, which is what the ledger's
// EquityCurve guarantees.
type EquityAnalyzer struct {
	Curve []ledger.EquitySample

	DrawdownCurve []decimal.Decimal
	MaxDrawdown   decimal.Decimal
	Peak          decimal.Decimal
}

func NewEquityAnalyzer(curve []ledger.EquitySample) *EquityAnalyzer {
	a := &EquityAnalyzer{Curve: curve}
	a.run()
	return a
}

func (a *EquityAnalyzer) run() {
	if len(a.Curve) == 0 {
		return
	}

	peak := a.Curve[0].Equity
	a.DrawdownCurve = make([]decimal.Decimal, 0, len(a.Curve))

	for _, s := range a.Curve {
		if s.Equity.GreaterThan(peak) {
			peak = s.Equity
		}
		dd := decimal.Zero
		if peak.IsPositive() {
			dd = peak.Sub(s.Equity).Div(peak)
		}
		a.DrawdownCurve = append(a.DrawdownCurve, dd)
		if dd.GreaterThan(a.MaxDrawdown) {
			a.MaxDrawdown = dd
		}
	}
	a.Peak = peak
}

var hundred = decimal.NewFromInt(100)
