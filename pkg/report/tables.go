// Package report renders run summaries and analysis results as terminal
// tables and standalone HTML charts.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/steamharvest/steamharvest/pkg/collector"
	"github.com/steamharvest/steamharvest/pkg/dataset"
	"github.com/steamharvest/steamharvest/pkg/stats"
)

func newTable(w io.Writer) table.Writer {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.SetStyle(table.StyleLight)
	return tbl
}

// DescriptiveTable renders one row per column summary.
func DescriptiveTable(w io.Writer, rows []stats.Descriptive) {
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Column", "Count", "Mean", "Median", "Std Dev", "Min", "Max"})
	for _, d := range rows {
		tbl.AppendRow(table.Row{
			d.Column,
			humanize.Comma(int64(d.Count)),
			humanize.CommafWithDigits(d.Mean, 2),
			humanize.CommafWithDigits(d.Median, 2),
			humanize.CommafWithDigits(d.StdDev, 2),
			humanize.CommafWithDigits(d.Min, 2),
			humanize.CommafWithDigits(d.Max, 2),
		})
	}
	tbl.Render()
}

// CorrelationTable renders one row per column pair.
func CorrelationTable(w io.Writer, rows []stats.Correlation) {
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"X", "Y", "N", "Pearson", "Spearman"})
	for _, c := range rows {
		tbl.AppendRow(table.Row{
			c.X,
			c.Y,
			humanize.Comma(int64(c.N)),
			fmt.Sprintf("%.4f", c.Pearson),
			fmt.Sprintf("%.4f", c.Spearman),
		})
	}
	tbl.Render()
}

// MergeTable renders the outcome of a dataset merge.
func MergeTable(w io.Writer, result *dataset.MergeResult) {
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Outcome", "Rows"})
	tbl.AppendRow(table.Row{"Joined", humanize.Comma(int64(result.Rows))})
	tbl.AppendRow(table.Row{"Steam only (dropped)", humanize.Comma(int64(result.SteamOnly))})
	tbl.AppendRow(table.Row{"SteamSpy only (dropped)", humanize.Comma(int64(result.SpyOnly))})
	tbl.AppendRow(table.Row{"Duplicates (last kept)", humanize.Comma(int64(result.DuplicateRows))})
	tbl.AppendRow(table.Row{"Malformed (skipped)", humanize.Comma(int64(result.MalformedRows))})
	tbl.Render()
}

// RunTable renders the outcome of a collection run.
func RunTable(w io.Writer, summary *collector.Summary) {
	tbl := newTable(w)
	tbl.AppendHeader(table.Row{"Source", "Range", "Batches", "Records", "Placeholders", "Duration"})
	tbl.AppendRow(table.Row{
		summary.Source,
		fmt.Sprintf("%d-%d", summary.Start, summary.End),
		summary.Batches,
		humanize.Comma(int64(summary.Records)),
		summary.Placeholders,
		summary.Duration.Round(time.Millisecond).String(),
	})
	tbl.Render()
}
