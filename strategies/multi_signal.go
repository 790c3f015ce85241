package strategies

import (
	"github.com/quantfold/backtester/event"
)

// ScriptedSignal is one entry of a MultiSignal script.
type ScriptedSignal struct {
	LogicalTime int64
	Side        event.Side
}

// MultiSignal emits intents from a fixed (time, side) script, at most one
// per observation. It exists for deterministic pipeline and risk tests,
// where the interesting behavior is downstream of the strategy.
type MultiSignal struct {
	Symbol  string
	Signals []ScriptedSignal
}

func (s *MultiSignal) Name() string { return "multi-signal" }

func (s *MultiSignal) OnObservation(obs event.Observation) []event.Intent {
	if s.Symbol != "" && obs.Sym != s.Symbol {
		return nil
	}
	for _, sig := range s.Signals {
		if sig.LogicalTime == obs.LogicalTime {
			return []event.Intent{{
				LogicalTime:    obs.LogicalTime,
				Sym:            obs.Sym,
				Side:           sig.Side,
				ReferencePrice: obs.Price,
			}}
		}
	}
	return nil
}
