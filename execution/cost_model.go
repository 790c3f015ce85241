package execution

import (
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"

	"github.com/quantfold/backtester/event"
	"github.com/quantfold/backtester/pkg/id"
)

// CostModelConfig holds the transaction-cost parameters, all expressed as
// fractions of the reference price except ImpactPerShare.
type CostModelConfig struct {
	// SpreadFraction is the full quoted spread; half is paid per fill.
	SpreadFraction decimal.Decimal

	// BaseSlippageFraction is the fixed slippage every fill pays.
	BaseSlippageFraction decimal.Decimal

	// ImpactPerShare scales linearly with order quantity.
	ImpactPerShare decimal.Decimal

	// SlippageVolatility bounds the uniform random slippage component:
	// the draw lands in reference_price * [-vol, +vol].
	SlippageVolatility float64
}

// CostModel fills orders at the reference price adjusted for spread, base
// slippage, size impact and random slippage. Buys pay the costs on top of
// the reference price, sells receive them off it.
//
// The random source is injected and must be seeded by the caller so runs
// are reproducible; never hand it the unseeded global generator.
type CostModel struct {
	cfg CostModelConfig
	rng *rand.Rand

	// Running totals across all fills. Observational only: reporting reads
	// them after the run, nothing feeds back into scheduling or admission.
	spreadCost   decimal.Decimal
	slippageCost decimal.Decimal
}

func NewCostModel(cfg CostModelConfig, rng *rand.Rand) *CostModel {
	return &CostModel{cfg: cfg, rng: rng}
}

func (c *CostModel) Fill(order event.Order) (event.Fill, error) {
	if order.Quantity <= 0 {
		return event.Fill{}, fmt.Errorf("execution: order quantity must be positive, got %d", order.Quantity)
	}

	ref := order.ReferencePrice
	spreadHalf := ref.Mul(c.cfg.SpreadFraction).Div(two)
	baseSlip := ref.Mul(c.cfg.BaseSlippageFraction)
	impact := ref.Mul(c.cfg.ImpactPerShare).Mul(decimal.NewFromInt(order.Quantity))

	var randomSlip decimal.Decimal
	if c.cfg.SlippageVolatility > 0 {
		draw := (c.rng.Float64()*2 - 1) * c.cfg.SlippageVolatility
		randomSlip = ref.Mul(decimal.NewFromFloat(draw))
	}

	adjustment := spreadHalf.Add(baseSlip).Add(impact).Add(randomSlip)

	var fillPrice decimal.Decimal
	if order.Side == event.Buy {
		fillPrice = ref.Add(adjustment)
	} else {
		fillPrice = ref.Sub(adjustment)
	}

	qty := decimal.NewFromInt(order.Quantity)
	c.spreadCost = c.spreadCost.Add(spreadHalf.Mul(qty))
	c.slippageCost = c.slippageCost.Add(baseSlip.Add(impact).Add(randomSlip).Abs().Mul(qty))

	return event.Fill{
		ID:          id.New(),
		LogicalTime: order.LogicalTime,
		Sym:         order.Sym,
		Side:        order.Side,
		Quantity:    order.Quantity,
		FillPrice:   fillPrice,
	}, nil
}

// SpreadCost is the accumulated spread paid across all fills.
func (c *CostModel) SpreadCost() decimal.Decimal { return c.spreadCost }

// SlippageCost is the accumulated slippage and impact across all fills.
func (c *CostModel) SlippageCost() decimal.Decimal { return c.slippageCost }
