package report

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/steamharvest/steamharvest/pkg/stats"
)

// ScatterHTML writes a standalone HTML scatter plot of the pairs. When a
// fit is given its line is overlaid across the x range.
func ScatterHTML(path, title, xName, yName string, xs, ys []float64, fit *stats.Regression) error {
	if len(xs) != len(ys) {
		return fmt.Errorf("x and y have %d and %d values", len(xs), len(ys))
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle: title,
			Width:     "1100px",
			Height:    "600px",
		}),
		charts.WithTitleOpts(opts.Title{Title: title}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
		charts.WithXAxisOpts(opts.XAxis{Name: xName, Type: "value"}),
		charts.WithYAxisOpts(opts.YAxis{Name: yName, Type: "value"}),
	)

	points := make([]opts.ScatterData, len(xs))
	for i := range xs {
		points[i] = opts.ScatterData{
			Value:      []any{xs[i], ys[i]},
			SymbolSize: 6,
		}
	}
	scatter.AddSeries(fmt.Sprintf("%s vs %s", yName, xName), points)

	if fit != nil && len(xs) > 0 {
		minX, maxX := xs[0], xs[0]
		for _, x := range xs[1:] {
			minX = min(minX, x)
			maxX = max(maxX, x)
		}

		line := charts.NewLine()
		line.AddSeries("least squares", []opts.LineData{
			{Value: []any{minX, fit.Intercept + fit.Slope*minX}},
			{Value: []any{maxX, fit.Intercept + fit.Slope*maxX}},
		}, charts.WithLineChartOpts(opts.LineChart{ShowSymbol: opts.Bool(false)}))
		scatter.Overlap(line)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create chart dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	if err := scatter.Render(f); err != nil {
		return fmt.Errorf("render %s: %w", path, err)
	}
	return nil
}
