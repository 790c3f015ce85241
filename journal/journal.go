package journal

import "github.com/shopspring/decimal"

// FillRecord is one executed fill as persisted for reporting.
type FillRecord struct {
	FillID      string
	LogicalTime int64
	Symbol      string
	Side        string
	Quantity    int64
	FillPrice   decimal.Decimal
}

// EquityRecord is one point of the equity history.
type EquityRecord struct {
	LogicalTime int64
	Equity      decimal.Decimal
}

// RejectionRecord is one intent refused by admission control.
type RejectionRecord struct {
	LogicalTime int64
	Symbol      string
	Side        string
	Check       string
	Reason      string
}

// Journal persists run output for later inspection. This is reporting, not
// run state: a journal is never read back into a simulation.
type Journal interface {
	RecordFill(FillRecord) error
	RecordEquity(EquityRecord) error
	RecordRejection(RejectionRecord) error
	Close() error
}
