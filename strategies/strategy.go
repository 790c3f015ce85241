package strategies

import (
	"fmt"
	"strings"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/quantfold/backtester/event"
)

// Strategy is the interface trading logic plugs into the kernel with. It is
// called once per observation and may emit zero or more intents. Strategies
// are stateful across calls (rolling windows, crossover memory) and hold no
// scheduling or invariant logic.
type Strategy interface {
	Name() string
	OnObservation(obs event.Observation) []event.Intent
}

var (
	registryMu sync.Mutex
	registry   = make(map[string]Strategy)
)

// Register adds a strategy instance under a name, making it resolvable
// through ByName. Later registrations overwrite earlier ones.
func Register(name string, s Strategy) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry[name] = s
}

// Get returns a registered strategy, or nil when the name is unknown.
func Get(name string) Strategy {
	registryMu.Lock()
	defer registryMu.Unlock()
	return registry[name]
}

// Params carries the knobs ByName understands. Unused fields are ignored by
// strategies that do not need them.
type Params struct {
	Symbol    string
	Window    int
	Threshold decimal.Decimal
	Fast      int
	Slow      int
}

// ByName resolves a strategy: registered instances take priority (exact
// name match), then the built-ins are constructed from the params.
func ByName(name string, p Params) (Strategy, error) {
	if s := Get(name); s != nil {
		return s, nil
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "noop", "none":
		return Noop{}, nil

	case "mean-reversion", "meanreversion":
		return NewMeanReversion(MeanReversionConfig{
			Symbol:    p.Symbol,
			Window:    p.Window,
			Threshold: p.Threshold,
		}), nil

	case "momentum", "ema-cross":
		return NewMomentum(MomentumConfig{
			Symbol: p.Symbol,
			Fast:   p.Fast,
			Slow:   p.Slow,
		}), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: noop, mean-reversion, momentum)", name)
	}
}

// Handler wraps a strategy as a dispatch handler for observations.
func Handler(s Strategy) func(event.Event) ([]event.Event, error) {
	return func(ev event.Event) ([]event.Event, error) {
		obs, ok := ev.(event.Observation)
		if !ok {
			return nil, fmt.Errorf("strategy %s: expected observation, got %s", s.Name(), ev.Kind())
		}
		intents := s.OnObservation(obs)
		out := make([]event.Event, 0, len(intents))
		for _, in := range intents {
			out = append(out, in)
		}
		return out, nil
	}
}

// Noop ignores every observation. Useful as a pipeline smoke test.
type Noop struct{}

func (Noop) Name() string { return "noop" }

func (Noop) OnObservation(event.Observation) []event.Intent { return nil }
