package main

import (
	"fmt"
	"math/rand"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/quantfold/backtester/analysis"
	"github.com/quantfold/backtester/config"
	"github.com/quantfold/backtester/data"
	"github.com/quantfold/backtester/engine"
	"github.com/quantfold/backtester/event"
	"github.com/quantfold/backtester/execution"
	"github.com/quantfold/backtester/journal"
	"github.com/quantfold/backtester/strategies"
)

func newRunCmd() *cobra.Command {
	var (
		configPath string
		csvPath    string
		reportPath string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a backtest from a config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadFromFile(configPath)
			if err != nil {
				return err
			}
			if csvPath != "" {
				cfg.Data.CSVPath = csvPath
			}
			return runBacktest(cmd, cfg, reportPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "backtester.yaml", "config file (YAML or JSON)")
	cmd.Flags().StringVar(&csvPath, "data", "", "market data CSV (overrides config)")
	cmd.Flags().StringVar(&reportPath, "report", "", "write an HTML equity report to this path")

	return cmd
}

func runBacktest(cmd *cobra.Command, cfg *config.Config, reportPath string) error {
	var observations []event.Observation
	var err error
	if cfg.Data.CSVPath != "" {
		observations, err = data.LoadCSV(cfg.Data.CSVPath)
		if err != nil {
			return err
		}
	} else {
		observations = data.ExampleSeries(cfg.Strategy.Symbol)
	}

	strat, err := strategies.ByName(cfg.Strategy.Name, strategies.Params{
		Symbol:    cfg.Strategy.Symbol,
		Window:    cfg.Strategy.Window,
		Threshold: decimal.NewFromFloat(cfg.Strategy.Threshold),
		Fast:      cfg.Strategy.Fast,
		Slow:      cfg.Strategy.Slow,
	})
	if err != nil {
		return err
	}

	var executor execution.Executor = execution.Instant{}
	if cfg.Execution.Model == "cost_model" {
		seed := cfg.Execution.Seed
		if seed == 0 {
			seed = 1
		}
		executor = execution.NewCostModel(execution.CostModelConfig{
			SpreadFraction:       decimal.NewFromFloat(cfg.Execution.SpreadFraction),
			BaseSlippageFraction: decimal.NewFromFloat(cfg.Execution.BaseSlippageFraction),
			ImpactPerShare:       decimal.NewFromFloat(cfg.Execution.ImpactPerShare),
			SlippageVolatility:   cfg.Execution.SlippageVolatility,
		}, rand.New(rand.NewSource(seed)))
	}

	var j journal.Journal
	switch cfg.Journal.Type {
	case "csv":
		j, err = journal.NewCSV(cfg.Journal.FillsFile, cfg.Journal.EquityFile, cfg.Journal.RejectionsFile)
	case "sqlite":
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
	}
	if err != nil {
		return err
	}
	if j != nil {
		defer j.Close()
	}

	eng := engine.New(engine.Options{
		InitialCash: cfg.InitialCash(),
		Policy:      cfg.Policy(),
		Executor:    executor,
		Strategies:  []strategies.Strategy{strat},
		Journal:     j,
	})
	eng.Seed(observations)

	res, err := eng.Run()
	if err != nil {
		return err
	}

	led := eng.Ledger()
	metrics := analysis.NewTradeMetrics(led.FillHistory(), res.InitialCash, res.FinalEquity)
	analyzer := analysis.NewEquityAnalyzer(led.EquityCurve())

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Strategy:       %s\n", strat.Name())
	fmt.Fprintf(out, "Observations:   %d\n", len(observations))
	fmt.Fprintf(out, "Events:         %d\n", res.Events)
	fmt.Fprintf(out, "Fills:          %d\n", res.Fills)
	fmt.Fprintf(out, "Rejections:     %d\n", res.Rejections)
	for check, n := range eng.Risk().RejectionSummary() {
		fmt.Fprintf(out, "  %-13s %d\n", check+":", n)
	}
	fmt.Fprintf(out, "Initial cash:   %s\n", res.InitialCash)
	fmt.Fprintf(out, "Final cash:     %s\n", res.FinalCash)
	fmt.Fprintf(out, "Final equity:   %s\n", res.FinalEquity)
	fmt.Fprintf(out, "Realized PnL:   %s\n", res.RealizedPnL)
	fmt.Fprintf(out, "Round trips:    %d (win rate %s)\n", metrics.NumTrades(), metrics.WinRate().Round(4))
	fmt.Fprintf(out, "Total return:   %s\n", metrics.TotalReturn().Round(6))
	fmt.Fprintf(out, "Max drawdown:   %s\n", analyzer.MaxDrawdown.Round(6))
	if cfg.Execution.Model == "cost_model" {
		fmt.Fprintf(out, "Spread cost:    %s\n", res.SpreadCost.Round(6))
		fmt.Fprintf(out, "Slippage cost:  %s\n", res.SlippageCost.Round(6))
	}

	if reportPath != "" {
		if err := analysis.WriteEquityReport(reportPath, "Backtest "+strat.Name(), led.EquityCurve()); err != nil {
			return err
		}
		fmt.Fprintf(out, "Report:         %s\n", reportPath)
	}

	return nil
}
