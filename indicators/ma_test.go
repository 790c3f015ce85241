package indicators

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestSMAWarmupAndSlidingWindow(t *testing.T) {
	t.Parallel()

	m := NewSMA(3)
	assert.Equal(t, 3, m.Warmup())
	assert.Equal(t, "SMA(3)", m.Name())

	m.Update(dec(1))
	m.Update(dec(2))
	assert.False(t, m.Ready())
	assert.True(t, m.Value().IsZero(), "value before warmup must be zero")

	m.Update(dec(3))
	require.True(t, m.Ready())
	assert.True(t, m.Value().Equal(dec(2)), "value = %s", m.Value())

	// Window slides: [2, 3, 4].
	m.Update(dec(4))
	assert.True(t, m.Value().Equal(dec(3)), "value = %s", m.Value())

	m.Reset()
	assert.False(t, m.Ready())
}

func TestEMAWarmsUpAsSimpleAverageThenSmooths(t *testing.T) {
	t.Parallel()

	e := NewEMA(3) // multiplier 2/(3+1) = 0.5
	assert.Equal(t, "EMA(3)", e.Name())

	e.Update(dec(1))
	e.Update(dec(2))
	assert.False(t, e.Ready())

	e.Update(dec(3))
	require.True(t, e.Ready())
	assert.True(t, e.Value().Equal(dec(2)), "seed = %s", e.Value())

	// ema = (4 - 2) * 0.5 + 2
	e.Update(dec(4))
	assert.True(t, e.Value().Equal(dec(3)), "value = %s", e.Value())

	// ema = (4 - 3) * 0.5 + 3
	e.Update(dec(4))
	assert.True(t, e.Value().Equal(decimal.NewFromFloat(3.5)), "value = %s", e.Value())

	e.Reset()
	assert.False(t, e.Ready())
	assert.True(t, e.Value().IsZero())
}
