package strategies

import (
	"github.com/quantfold/backtester/event"
	"github.com/quantfold/backtester/indicators"
)

// MomentumConfig tunes the EMA-crossover momentum strategy.
type MomentumConfig struct {
	Symbol string
	Fast   int // 10
	Slow   int // 30
}

// Momentum trades a fast/slow EMA crossover: long when the fast EMA crosses
// above the slow one (golden cross), flat when it crosses back below. It
// only acts on the cross itself, remembering the previous diff sign so a
// sustained spread does not re-trigger entries.
type Momentum struct {
	cfg  MomentumConfig
	fast *indicators.ExponentialMA
	slow *indicators.ExponentialMA

	lastDiffPositive bool
	haveLastDiff     bool
	long             bool
}

func NewMomentum(cfg MomentumConfig) *Momentum {
	if cfg.Fast <= 0 {
		cfg.Fast = 10
	}
	if cfg.Slow <= cfg.Fast {
		cfg.Slow = cfg.Fast * 3
	}
	return &Momentum{
		cfg:  cfg,
		fast: indicators.NewEMA(cfg.Fast),
		slow: indicators.NewEMA(cfg.Slow),
	}
}

func (s *Momentum) Name() string { return "momentum" }

func (s *Momentum) OnObservation(obs event.Observation) []event.Intent {
	if s.cfg.Symbol != "" && obs.Sym != s.cfg.Symbol {
		return nil
	}

	s.fast.Update(obs.Price)
	s.slow.Update(obs.Price)
	if !s.fast.Ready() || !s.slow.Ready() {
		return nil
	}

	diffPositive := s.fast.Value().GreaterThan(s.slow.Value())
	defer func() {
		s.lastDiffPositive = diffPositive
		s.haveLastDiff = true
	}()

	if !s.haveLastDiff {
		return nil
	}

	// Golden cross: fast moved above slow.
	if diffPositive && !s.lastDiffPositive && !s.long {
		s.long = true
		return []event.Intent{{
			LogicalTime:    obs.LogicalTime,
			Sym:            obs.Sym,
			Side:           event.Buy,
			ReferencePrice: obs.Price,
		}}
	}

	// Death cross: fast moved below slow.
	if !diffPositive && s.lastDiffPositive && s.long {
		s.long = false
		return []event.Intent{{
			LogicalTime:    obs.LogicalTime,
			Sym:            obs.Sym,
			Side:           event.Sell,
			ReferencePrice: obs.Price,
		}}
	}

	return nil
}
