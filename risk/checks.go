package risk

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/quantfold/backtester/event"
	"github.com/quantfold/backtester/internal/logging"
	"github.com/quantfold/backtester/ledger"
)

// Rejection records an intent that admission control refused. Rejections
// are normal business outcomes, not errors: the run continues and the
// rejection is kept for reporting.
type Rejection struct {
	LogicalTime int64
	Symbol      string
	Side        event.Side
	Check       string
	Reason      string
}

// Manager gates intent-to-order conversion against the policy. It reads
// ledger state as of the most recent observation or fill already applied;
// the scheduler's kind precedence guarantees observations at a tick are
// marked before intents at the same tick arrive here.
type Manager struct {
	policy     Policy
	ledger     *ledger.Ledger
	rejections []Rejection
	log        zerolog.Logger
}

func NewManager(policy Policy, l *ledger.Ledger) *Manager {
	return &Manager{
		policy: policy,
		ledger: l,
		log:    logging.New("risk"),
	}
}

// HandleIntent is the dispatch handler for intents: approved intents emit
// exactly one order, rejected ones emit nothing.
func (m *Manager) HandleIntent(ev event.Event) ([]event.Event, error) {
	intent, ok := ev.(event.Intent)
	if !ok {
		return nil, fmt.Errorf("risk: expected intent, got %s", ev.Kind())
	}
	order, rej := m.Evaluate(intent)
	if rej != nil {
		return nil, nil
	}
	return []event.Event{*order}, nil
}

// Evaluate runs the checks in fixed order and rejects on the first failure:
// drawdown, position sizing, cash availability, position count.
func (m *Manager) Evaluate(intent event.Intent) (*event.Order, *Rejection) {
	equity := m.ledger.Equity()
	qty := decimal.NewFromInt(m.policy.FixedQuantity)
	orderValue := qty.Mul(intent.ReferencePrice)

	for _, check := range []func(event.Intent, decimal.Decimal, decimal.Decimal) *Rejection{
		m.checkDrawdown,
		m.checkPositionSize,
		m.checkCash,
		m.checkPositionCount,
	} {
		if rej := check(intent, equity, orderValue); rej != nil {
			m.rejections = append(m.rejections, *rej)
			m.log.Warn().
				Int64("t", rej.LogicalTime).
				Str("symbol", rej.Symbol).
				Str("side", rej.Side.String()).
				Str("check", rej.Check).
				Str("reason", rej.Reason).
				Msg("intent rejected")
			return nil, rej
		}
	}

	return &event.Order{
		LogicalTime:    intent.LogicalTime,
		Sym:            intent.Sym,
		Side:           intent.Side,
		Quantity:       m.policy.FixedQuantity,
		ReferencePrice: intent.ReferencePrice,
	}, nil
}

func (m *Manager) checkDrawdown(intent event.Intent, equity, _ decimal.Decimal) *Rejection {
	// The ledger advances the peak on every mark and fill, so a high that
	// happened between two intents still counts.
	peak := m.ledger.PeakEquity()
	if m.policy.MaxDrawdown.IsZero() || !peak.IsPositive() {
		return nil
	}
	dd := peak.Sub(equity).Div(peak)
	if dd.GreaterThan(m.policy.MaxDrawdown) {
		return m.reject(intent, CheckDrawdown,
			fmt.Sprintf("drawdown %s exceeds max %s (peak %s, equity %s)",
				dd.Round(4), m.policy.MaxDrawdown, peak, equity))
	}
	return nil
}

func (m *Manager) checkPositionSize(intent event.Intent, equity, orderValue decimal.Decimal) *Rejection {
	if !m.policy.MaxPositionValue.IsZero() && orderValue.GreaterThan(m.policy.MaxPositionValue) {
		return m.reject(intent, CheckPositionSize,
			fmt.Sprintf("order value %s exceeds absolute cap %s",
				orderValue, m.policy.MaxPositionValue))
	}
	if !m.policy.MaxPositionFraction.IsZero() {
		limit := equity.Mul(m.policy.MaxPositionFraction)
		if orderValue.GreaterThan(limit) {
			return m.reject(intent, CheckPositionSize,
				fmt.Sprintf("order value %s exceeds %s of equity (%s)",
					orderValue, m.policy.MaxPositionFraction, limit))
		}
	}
	if !m.policy.MaxTotalExposureFraction.IsZero() {
		prospective := m.ledger.Exposure().Add(orderValue)
		limit := equity.Mul(m.policy.MaxTotalExposureFraction)
		if prospective.GreaterThan(limit) {
			return m.reject(intent, CheckPositionSize,
				fmt.Sprintf("total exposure %s would exceed %s of equity (%s)",
					prospective, m.policy.MaxTotalExposureFraction, limit))
		}
	}
	return nil
}

func (m *Manager) checkCash(intent event.Intent, _, orderValue decimal.Decimal) *Rejection {
	if intent.Side != event.Buy {
		return nil
	}
	if m.ledger.Cash().LessThan(orderValue) {
		return m.reject(intent, CheckCash,
			fmt.Sprintf("cash %s insufficient for order value %s",
				m.ledger.Cash(), orderValue))
	}
	return nil
}

func (m *Manager) checkPositionCount(intent event.Intent, _, _ decimal.Decimal) *Rejection {
	if m.policy.MaxOpenPositions <= 0 || intent.Side != event.Buy {
		return nil
	}
	if _, open := m.ledger.Position(intent.Sym); open {
		return nil
	}
	if m.ledger.OpenPositions() >= m.policy.MaxOpenPositions {
		return m.reject(intent, CheckPositionCount,
			fmt.Sprintf("%d positions already open, max %d",
				m.ledger.OpenPositions(), m.policy.MaxOpenPositions))
	}
	return nil
}

func (m *Manager) reject(intent event.Intent, check, reason string) *Rejection {
	return &Rejection{
		LogicalTime: intent.LogicalTime,
		Symbol:      intent.Sym,
		Side:        intent.Side,
		Check:       check,
		Reason:      reason,
	}
}

// Rejections returns every rejection recorded so far, in order.
func (m *Manager) Rejections() []Rejection { return m.rejections }

// RejectionSummary counts rejections per check name.
func (m *Manager) RejectionSummary() map[string]int {
	out := make(map[string]int, 4)
	for _, r := range m.rejections {
		out[r.Check]++
	}
	return out
}

// PeakEquity returns the ledger's running equity high-water mark.
func (m *Manager) PeakEquity() decimal.Decimal { return m.ledger.PeakEquity() }
