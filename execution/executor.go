package execution

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/quantfold/backtester/event"
	"github.com/quantfold/backtester/pkg/id"
)

// Executor converts an approved order into a fill. Implementations must be
// deterministic given their configuration (the cost model takes a seeded
// random source for exactly this reason).
type Executor interface {
	Fill(order event.Order) (event.Fill, error)
}

// Instant fills every order at its reference price, the paper-trading
// baseline with no spread, slippage or impact.
type Instant struct{}

func (Instant) Fill(order event.Order) (event.Fill, error) {
	if order.Quantity <= 0 {
		return event.Fill{}, fmt.Errorf("execution: order quantity must be positive, got %d", order.Quantity)
	}
	return event.Fill{
		ID:          id.New(),
		LogicalTime: order.LogicalTime,
		Sym:         order.Sym,
		Side:        order.Side,
		Quantity:    order.Quantity,
		FillPrice:   order.ReferencePrice,
	}, nil
}

// Handler wraps an executor as a dispatch handler for orders. Each order
// emits exactly one fill.
func Handler(ex Executor) func(event.Event) ([]event.Event, error) {
	return func(ev event.Event) ([]event.Event, error) {
		order, ok := ev.(event.Order)
		if !ok {
			return nil, fmt.Errorf("execution: expected order, got %s", ev.Kind())
		}
		fill, err := ex.Fill(order)
		if err != nil {
			return nil, err
		}
		return []event.Event{fill}, nil
	}
}

var _ Executor = Instant{}
var _ Executor = (*CostModel)(nil)

// decimal helpers shared by the cost model.
var two = decimal.NewFromInt(2)
