package analysis

import (
	"fmt"
	"os"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/quantfold/backtester/ledger"
)

// WriteEquityReport renders the equity and drawdown curves of a completed
// run as a self-contained HTML page.
func WriteEquityReport(path, title string, curve []ledger.EquitySample) error {
	if len(curve) == 0 {
		return fmt.Errorf("analysis: empty equity curve")
	}

	analyzer := NewEquityAnalyzer(curve)

	xAxis := make([]string, len(curve))
	equityData := make([]opts.LineData, len(curve))
	drawdownData := make([]opts.LineData, len(curve))
	for i, s := range curve {
		xAxis[i] = fmt.Sprintf("%d", s.LogicalTime)
		equity, _ := s.Equity.Float64()
		equityData[i] = opts.LineData{Value: equity}
		dd, _ := analyzer.DrawdownCurve[i].Mul(hundred).Float64()
		drawdownData[i] = opts.LineData{Value: dd}
	}

	equityLine := charts.NewLine()
	equityLine.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: title, Subtitle: "Equity"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	equityLine.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)
	equityLine.SetXAxis(xAxis)
	equityLine.AddSeries("Equity", equityData)

	ddLine := charts.NewLine()
	ddLine.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Subtitle: fmt.Sprintf("Drawdown %% (max %s%%)", analyzer.MaxDrawdown.Mul(hundred).Round(2)),
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
	)
	ddLine.SetSeriesOptions(
		charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}),
	)
	ddLine.SetXAxis(xAxis)
	ddLine.AddSeries("Drawdown %", drawdownData)

	page := components.NewPage()
	page.AddCharts(equityLine, ddLine)

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return page.Render(f)
}
