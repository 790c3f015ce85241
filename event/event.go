package event

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Kind identifies the concrete type of an event. The numeric order of the
// constants is the dispatch precedence within a single logical time:
// every Observation is handled before any Intent, every Intent before any
// Order, every Order before any Fill. The scheduler relies on this to keep
// cause ahead of effect when events share a timestamp.
type Kind int8

const (
	KindObservation Kind = iota
	KindIntent
	KindOrder
	KindFill
)

func (k Kind) String() string {
	switch k {
	case KindObservation:
		return "observation"
	case KindIntent:
		return "intent"
	case KindOrder:
		return "order"
	case KindFill:
		return "fill"
	default:
		return fmt.Sprintf("kind(%d)", int8(k))
	}
}

// Side is the direction of a trade.
type Side int8

const (
	Buy Side = iota
	Sell
)

func (s Side) String() string {
	if s == Buy {
		return "BUY"
	}
	return "SELL"
}

// Sign returns +1 for Buy and -1 for Sell, the factor applied to quantities
// when they enter the ledger.
func (s Side) Sign() int64 {
	if s == Buy {
		return 1
	}
	return -1
}

// Event is the closed set of values that flow through the kernel. All
// implementations are immutable; once created an event is never modified.
type Event interface {
	Kind() Kind
	Time() int64
	Symbol() string
}

// Observation is a market fact: symbol traded at price at a logical time.
// Produced by the data feed, consumed by the ledger (mark-to-market) and by
// strategies.
type Observation struct {
	LogicalTime int64
	Sym         string
	Price       decimal.Decimal
}

func (o Observation) Kind() Kind     { return KindObservation }
func (o Observation) Time() int64    { return o.LogicalTime }
func (o Observation) Symbol() string { return o.Sym }

// Intent expresses a desire to trade. It carries no quantity; sizing is an
// admission-control decision, not a strategy one.
type Intent struct {
	LogicalTime    int64
	Sym            string
	Side           Side
	ReferencePrice decimal.Decimal
}

func (i Intent) Kind() Kind     { return KindIntent }
func (i Intent) Time() int64    { return i.LogicalTime }
func (i Intent) Symbol() string { return i.Sym }

// Order is an approved, sized trade request on its way to execution.
type Order struct {
	LogicalTime    int64
	Sym            string
	Side           Side
	Quantity       int64
	ReferencePrice decimal.Decimal
}

func (o Order) Kind() Kind     { return KindOrder }
func (o Order) Time() int64    { return o.LogicalTime }
func (o Order) Symbol() string { return o.Sym }

// Fill is an executed order. It is the only event permitted to mutate the
// ledger. ID is a ULID assigned by the execution model for journaling.
type Fill struct {
	ID          string
	LogicalTime int64
	Sym         string
	Side        Side
	Quantity    int64
	FillPrice   decimal.Decimal
}

func (f Fill) Kind() Kind     { return KindFill }
func (f Fill) Time() int64    { return f.LogicalTime }
func (f Fill) Symbol() string { return f.Sym }

// SignedQuantity is the fill quantity with the side's sign applied:
// positive for Buy, negative for Sell.
func (f Fill) SignedQuantity() int64 {
	return f.Side.Sign() * f.Quantity
}
