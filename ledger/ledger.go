package ledger

import (
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/quantfold/backtester/event"
	"github.com/quantfold/backtester/internal/logging"
)

var (
	// ErrInsufficientCash means a fill would drive cash negative. Fills are
	// all-or-nothing; the ledger never clamps or partially applies one.
	// Reaching this is a sizing bug upstream, fatal for the run.
	ErrInsufficientCash = errors.New("ledger: insufficient cash for fill")

	// ErrMissingPrice means a symbol has no known mark. Failing fast beats
	// silently valuing the position at zero, which would corrupt equity
	// and every drawdown decision built on it.
	ErrMissingPrice = errors.New("ledger: no latest price for symbol")
)

// Position is an open holding. Quantity sign encodes direction (long
// positive, short negative). AvgCost is meaningful only while Quantity is
// non-zero; a position record is deleted the moment quantity returns to
// exactly zero.
type Position struct {
	Quantity int64
	AvgCost  decimal.Decimal
}

// EquitySample is one point of the equity history.
type EquitySample struct {
	LogicalTime int64
	Equity      decimal.Decimal
}

// Ledger is the single source of truth for accounting state.
//
// Invariants, held after every fill application:
//   - cash never goes negative
//   - positions change only through ApplyFill; observations touch only
//     marks and equity samples
//   - realized PnL changes only when a fill reduces or closes an existing
//     position in the opposite direction
//
// The ledger is the only mutable aggregate in the kernel. It is owned by
// the run loop's dispatch cycle; writes are serialized by the
// single-threaded dispatch order, not by locks.
type Ledger struct {
	cash        decimal.Decimal
	positions   map[string]Position
	realizedPnL decimal.Decimal
	latestPrice map[string]decimal.Decimal

	fills      []event.Fill
	samples    map[int64]decimal.Decimal
	peakEquity decimal.Decimal

	log zerolog.Logger
}

// New creates a ledger with the given starting cash. Created once per run;
// a fresh run needs a fresh ledger.
func New(initialCash decimal.Decimal) *Ledger {
	return &Ledger{
		cash:        initialCash,
		positions:   make(map[string]Position),
		latestPrice: make(map[string]decimal.Decimal),
		samples:     make(map[int64]decimal.Decimal),
		peakEquity:  initialCash,
		log:         logging.New("ledger"),
	}
}

// ApplyFill is the only mutator of cash, positions and realized PnL.
func (l *Ledger) ApplyFill(f event.Fill) error {
	signedQty := f.SignedQuantity()
	qty := decimal.NewFromInt(signedQty)
	cashChange := qty.Mul(f.FillPrice).Neg()

	if l.cash.Add(cashChange).IsNegative() {
		return fmt.Errorf("%w: %s %d %s @ %s at t=%d would leave cash %s",
			ErrInsufficientCash, f.Side, f.Quantity, f.Sym, f.FillPrice,
			f.LogicalTime, l.cash.Add(cashChange))
	}

	pos := l.positions[f.Sym]

	// Realize PnL when the fill opposes the existing position.
	if pos.Quantity != 0 && opposes(pos.Quantity, signedQty) {
		closingQty := min64(abs64(pos.Quantity), abs64(signedQty))
		pnlPerShare := f.FillPrice.Sub(pos.AvgCost)
		realized := pnlPerShare.Mul(decimal.NewFromInt(closingQty))
		if pos.Quantity < 0 {
			realized = realized.Neg()
		}
		l.realizedPnL = l.realizedPnL.Add(realized)
	}

	newQty := pos.Quantity + signedQty
	if newQty == 0 {
		delete(l.positions, f.Sym)
	} else {
		var avgCost decimal.Decimal
		if pos.Quantity == 0 {
			avgCost = f.FillPrice
		} else {
			// Volume-weighted blend. Also reprices the remaining side when
			// a fill flips the position through zero, since quantity and
			// cash move atomically within this one application.
			totalCost := pos.AvgCost.Mul(decimal.NewFromInt(pos.Quantity)).
				Add(f.FillPrice.Mul(qty))
			avgCost = totalCost.Div(decimal.NewFromInt(newQty))
		}
		l.positions[f.Sym] = Position{Quantity: newQty, AvgCost: avgCost}
	}

	l.cash = l.cash.Add(cashChange)
	l.latestPrice[f.Sym] = f.FillPrice
	l.fills = append(l.fills, f)
	l.sample(f.LogicalTime)

	l.log.Info().
		Str("fill_id", f.ID).
		Int64("t", f.LogicalTime).
		Str("symbol", f.Sym).
		Str("side", f.Side.String()).
		Int64("qty", f.Quantity).
		Str("price", f.FillPrice.String()).
		Str("cash", l.cash.String()).
		Str("realized_pnl", l.realizedPnL.String()).
		Msg("fill applied")

	return nil
}

// HandleObservation is pure mark-to-market: it updates the symbol's latest
// price and records an equity sample. It never errors and never touches
// cash, positions or realized PnL.
func (l *Ledger) HandleObservation(obs event.Observation) {
	l.latestPrice[obs.Sym] = obs.Price
	l.sample(obs.LogicalTime)
}

// sample records the current equity for a tick and advances the running
// peak. Every mark and fill passes through here, so the peak reflects the
// full equity history, not just the ticks a consumer happened to look at.
func (l *Ledger) sample(t int64) {
	eq := l.Equity()
	l.samples[t] = eq
	if eq.GreaterThan(l.peakEquity) {
		l.peakEquity = eq
	}
}

// Equity is cash plus open positions valued at their latest marks. Every
// position has a mark, because positions only exist after fills and fills
// set the mark; unknown symbols simply contribute nothing.
func (l *Ledger) Equity() decimal.Decimal {
	eq := l.cash
	for sym, pos := range l.positions {
		mark, ok := l.latestPrice[sym]
		if !ok {
			continue
		}
		eq = eq.Add(mark.Mul(decimal.NewFromInt(pos.Quantity)))
	}
	return eq
}

// MarkPrice returns the latest known price for a symbol, or ErrMissingPrice
// if the symbol has never been observed or filled.
func (l *Ledger) MarkPrice(symbol string) (decimal.Decimal, error) {
	p, ok := l.latestPrice[symbol]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %s", ErrMissingPrice, symbol)
	}
	return p, nil
}

// PeakEquity is the running maximum over every equity sample recorded so
// far, starting at the initial cash balance. Drawdown decisions measure
// against this.
func (l *Ledger) PeakEquity() decimal.Decimal { return l.peakEquity }

// HasPrice reports whether a symbol has a known mark.
func (l *Ledger) HasPrice(symbol string) bool {
	_, ok := l.latestPrice[symbol]
	return ok
}

func (l *Ledger) Cash() decimal.Decimal { return l.cash }

func (l *Ledger) RealizedPnL() decimal.Decimal { return l.realizedPnL }

// Position returns the open position for a symbol, if any.
func (l *Ledger) Position(symbol string) (Position, bool) {
	p, ok := l.positions[symbol]
	return p, ok
}

// OpenPositions returns the number of currently open positions.
func (l *Ledger) OpenPositions() int { return len(l.positions) }

// Exposure is the total absolute market value of open positions at their
// latest marks.
func (l *Ledger) Exposure() decimal.Decimal {
	total := decimal.Zero
	for sym, pos := range l.positions {
		mark, ok := l.latestPrice[sym]
		if !ok {
			continue
		}
		total = total.Add(mark.Mul(decimal.NewFromInt(pos.Quantity)).Abs())
	}
	return total
}

// FillHistory returns all fills applied so far, in application order.
// Callers must not modify the returned slice.
func (l *Ledger) FillHistory() []event.Fill { return l.fills }

// EquityCurve returns the recorded equity samples sorted by logical time.
// There is exactly one sample per logical time at which an observation or
// fill was applied; when both land on the same tick the later write wins.
func (l *Ledger) EquityCurve() []EquitySample {
	out := make([]EquitySample, 0, len(l.samples))
	for t, eq := range l.samples {
		out = append(out, EquitySample{LogicalTime: t, Equity: eq})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].LogicalTime < out[j].LogicalTime
	})
	return out
}

func opposes(existing, incoming int64) bool {
	return (existing > 0 && incoming < 0) || (existing < 0 && incoming > 0)
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

func min64(a, b int64) int64 {
	if a < b {
		return a
	}
	return b
}
