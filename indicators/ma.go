package indicators

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SimpleMA is a streaming simple moving average over the last 'period'
// prices.
type SimpleMA struct {
	period int
	prices []decimal.Decimal
}

func NewSMA(period int) *SimpleMA {
	return &SimpleMA{
		period: period,
		prices: make([]decimal.Decimal, 0, period),
	}
}

func (m *SimpleMA) Name() string {
	return fmt.Sprintf("SMA(%d)", m.period)
}

func (m *SimpleMA) Warmup() int { return m.period }

func (m *SimpleMA) Reset() { m.prices = m.prices[:0] }

func (m *SimpleMA) Update(price decimal.Decimal) {
	m.prices = append(m.prices, price)
	if len(m.prices) > m.period {
		m.prices = m.prices[1:]
	}
}

func (m *SimpleMA) Ready() bool { return len(m.prices) >= m.period }

func (m *SimpleMA) Value() decimal.Decimal {
	if !m.Ready() {
		return decimal.Zero
	}
	sum := decimal.Zero
	for _, p := range m.prices {
		sum = sum.Add(p)
	}
	return sum.Div(decimal.NewFromInt(int64(len(m.prices))))
}

// ExponentialMA is a streaming exponential moving average. During warmup it
// accumulates a simple average, then switches to the EMA recurrence.
type ExponentialMA struct {
	period     int
	multiplier decimal.Decimal
	ema        decimal.Decimal
	count      int
	warmupSum  decimal.Decimal
}

func NewEMA(period int) *ExponentialMA {
	return &ExponentialMA{
		period:     period,
		multiplier: two.Div(decimal.NewFromInt(int64(period + 1))),
	}
}

func (e *ExponentialMA) Name() string {
	return fmt.Sprintf("EMA(%d)", e.period)
}

func (e *ExponentialMA) Warmup() int { return e.period }

func (e *ExponentialMA) Reset() {
	e.ema = decimal.Zero
	e.count = 0
	e.warmupSum = decimal.Zero
}

func (e *ExponentialMA) Update(price decimal.Decimal) {
	if e.count < e.period {
		e.warmupSum = e.warmupSum.Add(price)
		e.count++
		if e.count == e.period {
			e.ema = e.warmupSum.Div(decimal.NewFromInt(int64(e.period)))
		}
		return
	}
	e.ema = price.Sub(e.ema).Mul(e.multiplier).Add(e.ema)
}

func (e *ExponentialMA) Ready() bool { return e.count >= e.period }

func (e *ExponentialMA) Value() decimal.Decimal {
	if !e.Ready() {
		return decimal.Zero
	}
	return e.ema
}

var two = decimal.NewFromInt(2)
