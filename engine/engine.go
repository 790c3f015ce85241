package engine

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/quantfold/backtester/dispatch"
	"github.com/quantfold/backtester/event"
	"github.com/quantfold/backtester/execution"
	"github.com/quantfold/backtester/internal/logging"
	"github.com/quantfold/backtester/journal"
	"github.com/quantfold/backtester/ledger"
	"github.com/quantfold/backtester/risk"
	"github.com/quantfold/backtester/schedule"
	"github.com/quantfold/backtester/strategies"
)

// ErrDrained is returned by Run on an engine whose scheduler has already
// been drained. A run is not resumable; build a fresh engine.
var ErrDrained = errors.New("engine: already drained, a new run needs a fresh engine")

// Options configures a single run.
type Options struct {
	InitialCash decimal.Decimal
	Policy      risk.Policy
	Executor    execution.Executor     // defaults to execution.Instant{}
	Strategies  []strategies.Strategy  // registered after the ledger's mark-to-market
	Journal     journal.Journal        // optional reporting sink, flushed after the run
}

// Result summarizes a completed run. The full ledger remains available via
// Ledger() for analysis consumers.
type Result struct {
	InitialCash decimal.Decimal
	FinalCash   decimal.Decimal
	FinalEquity decimal.Decimal
	RealizedPnL decimal.Decimal
	Fills       int
	Rejections  int
	Events      int

	// Execution cost totals, zero unless the executor reports them (the
	// cost model does, the instant executor has none).
	SpreadCost   decimal.Decimal
	SlippageCost decimal.Decimal
}

// costReporter is implemented by executors that accumulate transaction
// costs across fills.
type costReporter interface {
	SpreadCost() decimal.Decimal
	SlippageCost() decimal.Decimal
}

// Engine owns the scheduler, dispatcher and ledger for one run and drives
// the event loop to completion. Two states: running until the scheduler
// drains, then drained for good.
type Engine struct {
	sched    *schedule.Scheduler
	disp     *dispatch.Dispatcher
	ledger   *ledger.Ledger
	risk     *risk.Manager
	executor execution.Executor
	journal  journal.Journal

	drained bool
	events  int
	log     zerolog.Logger
}

// New wires the pipeline. Handler registration order encodes the one
// convention the dispatcher cannot enforce: the ledger marks observations
// before any strategy sees them, so admission control never reads a stale
// equity at the same tick. Ordering across kinds is the scheduler's job.
func New(opts Options) *Engine {
	if opts.Executor == nil {
		opts.Executor = execution.Instant{}
	}

	led := ledger.New(opts.InitialCash)
	riskMgr := risk.NewManager(opts.Policy, led)
	disp := dispatch.New()

	disp.Register(event.KindObservation, func(ev event.Event) ([]event.Event, error) {
		led.HandleObservation(ev.(event.Observation))
		return nil, nil
	})
	for _, s := range opts.Strategies {
		disp.Register(event.KindObservation, strategies.Handler(s))
	}

	disp.Register(event.KindIntent, riskMgr.HandleIntent)

	disp.Register(event.KindOrder, func(ev event.Event) ([]event.Event, error) {
		order := ev.(event.Order)
		// Orders originate from intents, which originate from observations,
		// so the symbol must already have a mark. Anything else is corrupt
		// input and defaulting the mark to zero would poison equity.
		if !led.HasPrice(order.Sym) {
			_, err := led.MarkPrice(order.Sym)
			return nil, fmt.Errorf("order at t=%d: %w", order.LogicalTime, err)
		}
		return execution.Handler(opts.Executor)(ev)
	})

	disp.Register(event.KindFill, func(ev event.Event) ([]event.Event, error) {
		return nil, led.ApplyFill(ev.(event.Fill))
	})

	return &Engine{
		sched:    schedule.New(),
		disp:     disp,
		ledger:   led,
		risk:     riskMgr,
		executor: opts.Executor,
		journal:  opts.Journal,
		log:      logging.New("engine"),
	}
}

// Seed schedules the initial observation set. Must be called before Run.
func (e *Engine) Seed(observations []event.Observation) {
	for _, obs := range observations {
		e.sched.Schedule(obs)
	}
}

// Run drains the scheduler: pop the earliest event, dispatch it, feed every
// emitted event back, repeat until empty. Invariant violations terminate
// the run immediately with the dispatch context attached.
func (e *Engine) Run() (Result, error) {
	if e.drained {
		return Result{}, ErrDrained
	}

	initialCash := e.ledger.Cash()
	e.log.Info().
		Int("seeded", e.sched.Len()).
		Str("initial_cash", initialCash.String()).
		Msg("run started")

	for !e.sched.IsEmpty() {
		ev, err := e.sched.Pop()
		if err != nil {
			// Unreachable given the IsEmpty check; a bug if it fires.
			return Result{}, err
		}
		e.events++

		emitted, err := e.disp.Dispatch(ev)
		if err != nil {
			e.drained = true
			return Result{}, err
		}
		for _, out := range emitted {
			e.sched.Schedule(out)
		}
	}
	e.drained = true

	res := Result{
		InitialCash: initialCash,
		FinalCash:   e.ledger.Cash(),
		FinalEquity: e.ledger.Equity(),
		RealizedPnL: e.ledger.RealizedPnL(),
		Fills:       len(e.ledger.FillHistory()),
		Rejections:  len(e.risk.Rejections()),
		Events:      e.events,
	}
	if cr, ok := e.executor.(costReporter); ok {
		res.SpreadCost = cr.SpreadCost()
		res.SlippageCost = cr.SlippageCost()
	}

	e.log.Info().
		Int("events", res.Events).
		Int("fills", res.Fills).
		Int("rejections", res.Rejections).
		Str("final_equity", res.FinalEquity.String()).
		Str("realized_pnl", res.RealizedPnL.String()).
		Msg("run drained")

	if e.journal != nil {
		if err := e.flushJournal(); err != nil {
			return res, fmt.Errorf("engine: journal flush: %w", err)
		}
	}

	return res, nil
}

func (e *Engine) flushJournal() error {
	for _, f := range e.ledger.FillHistory() {
		if err := e.journal.RecordFill(journal.FillRecord{
			FillID:      f.ID,
			LogicalTime: f.LogicalTime,
			Symbol:      f.Sym,
			Side:        f.Side.String(),
			Quantity:    f.Quantity,
			FillPrice:   f.FillPrice,
		}); err != nil {
			return err
		}
	}
	for _, s := range e.ledger.EquityCurve() {
		if err := e.journal.RecordEquity(journal.EquityRecord{
			LogicalTime: s.LogicalTime,
			Equity:      s.Equity,
		}); err != nil {
			return err
		}
	}
	for _, r := range e.risk.Rejections() {
		if err := e.journal.RecordRejection(journal.RejectionRecord{
			LogicalTime: r.LogicalTime,
			Symbol:      r.Symbol,
			Side:        r.Side.String(),
			Check:       r.Check,
			Reason:      r.Reason,
		}); err != nil {
			return err
		}
	}
	return nil
}

// Ledger exposes the run's accounting state for analysis consumers.
func (e *Engine) Ledger() *ledger.Ledger { return e.ledger }

// Risk exposes the admission-control manager, mainly for its rejection log.
func (e *Engine) Risk() *risk.Manager { return e.risk }
