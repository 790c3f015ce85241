package strategies

import (
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/quantfold/backtester/event"
	"github.com/quantfold/backtester/indicators"
	"github.com/quantfold/backtester/internal/logging"
)

// MeanReversionConfig tunes the rolling mean-reversion strategy.
type MeanReversionConfig struct {
	// Symbol restricts the strategy to one instrument; empty trades all.
	Symbol string

	// Window is the rolling-mean lookback in observations.
	Window int

	// Threshold is the absolute drop below the mean that triggers a buy.
	Threshold decimal.Decimal
}

// MeanReversion buys when price dips more than Threshold below the rolling
// mean and sells once price recovers to the mean. One position at a time:
// FLAT until entry, LONG until exit, repeating indefinitely.
type MeanReversion struct {
	cfg  MeanReversionConfig
	sma  *indicators.SimpleMA
	long bool
	log  zerolog.Logger
}

func NewMeanReversion(cfg MeanReversionConfig) *MeanReversion {
	if cfg.Window <= 0 {
		cfg.Window = 5
	}
	if cfg.Threshold.IsZero() {
		cfg.Threshold = decimal.NewFromInt(2)
	}
	return &MeanReversion{
		cfg: cfg,
		sma: indicators.NewSMA(cfg.Window),
		log: logging.New("strategy.mean_reversion"),
	}
}

func (s *MeanReversion) Name() string { return "mean-reversion" }

func (s *MeanReversion) OnObservation(obs event.Observation) []event.Intent {
	if s.cfg.Symbol != "" && obs.Sym != s.cfg.Symbol {
		return nil
	}

	s.sma.Update(obs.Price)
	if !s.sma.Ready() {
		return nil
	}

	mean := s.sma.Value()
	lowerBand := mean.Sub(s.cfg.Threshold)

	if !s.long && obs.Price.LessThan(lowerBand) {
		s.long = true
		s.log.Debug().
			Int64("t", obs.LogicalTime).
			Str("symbol", obs.Sym).
			Str("price", obs.Price.String()).
			Str("mean", mean.String()).
			Msg("dip entry")
		return []event.Intent{{
			LogicalTime:    obs.LogicalTime,
			Sym:            obs.Sym,
			Side:           event.Buy,
			ReferencePrice: obs.Price,
		}}
	}

	if s.long && obs.Price.GreaterThanOrEqual(mean) {
		s.long = false
		s.log.Debug().
			Int64("t", obs.LogicalTime).
			Str("symbol", obs.Sym).
			Str("price", obs.Price.String()).
			Str("mean", mean.String()).
			Msg("mean-touch exit")
		return []event.Intent{{
			LogicalTime:    obs.LogicalTime,
			Sym:            obs.Sym,
			Side:           event.Sell,
			ReferencePrice: obs.Price,
		}}
	}

	return nil
}
