package risk

import "github.com/shopspring/decimal"

// Check names used in rejections. Fixed vocabulary so reports and tests can
// key on them.
const (
	CheckDrawdown      = "drawdown"
	CheckPositionSize  = "position_size"
	CheckCash          = "cash"
	CheckPositionCount = "position_count"
)

// Policy is the admission-control configuration. Sizing is a policy
// decision: every approved intent becomes an order for FixedQuantity units,
// regardless of what the strategy wanted.
//
// A zero limit disables that check; FixedQuantity is always required.
type Policy struct {
	FixedQuantity int64

	// MaxDrawdown rejects intents while equity sits more than this
	// fraction below its running peak.
	MaxDrawdown decimal.Decimal

	// MaxPositionValue caps the absolute value of a single order.
	MaxPositionValue decimal.Decimal

	// MaxPositionFraction caps one order's value as a fraction of equity.
	MaxPositionFraction decimal.Decimal

	// MaxTotalExposureFraction caps total exposure across all symbols,
	// including the prospective order, as a fraction of equity.
	MaxTotalExposureFraction decimal.Decimal

	// MaxOpenPositions caps how many symbols may be open at once. Applies
	// to buys opening a new symbol.
	MaxOpenPositions int
}

// DefaultPolicy mirrors the limits the example configs ship with: 10-unit
// orders, 15% drawdown cutoff, 25% of equity per position, 75% total
// exposure.
func DefaultPolicy() Policy {
	return Policy{
		FixedQuantity:            10,
		MaxDrawdown:              decimal.NewFromFloat(0.15),
		MaxPositionFraction:      decimal.NewFromFloat(0.25),
		MaxTotalExposureFraction: decimal.NewFromFloat(0.75),
	}
}
