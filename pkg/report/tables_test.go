package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/steamharvest/steamharvest/pkg/collector"
	"github.com/steamharvest/steamharvest/pkg/dataset"
	"github.com/steamharvest/steamharvest/pkg/stats"
)

func TestDescriptiveTable(t *testing.T) {
	var buf bytes.Buffer

	DescriptiveTable(&buf, []stats.Descriptive{
		{Column: "positive", Count: 27075, Mean: 1234.5, Median: 300, StdDev: 42.25, Min: 0, Max: 1500000},
	})

	out := buf.String()
	for _, want := range []string{"positive", "27,075", "1,234.5", "1,500,000"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCorrelationTable(t *testing.T) {
	var buf bytes.Buffer

	CorrelationTable(&buf, []stats.Correlation{
		{X: "price", Y: "positive", N: 1000, Pearson: 0.1234, Spearman: 0.5678},
	})

	out := buf.String()
	for _, want := range []string{"price", "positive", "1,000", "0.1234", "0.5678"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestMergeTable(t *testing.T) {
	var buf bytes.Buffer

	MergeTable(&buf, &dataset.MergeResult{
		Rows:          25000,
		SteamOnly:     1500,
		SpyOnly:       575,
		DuplicateRows: 10,
	})

	out := buf.String()
	for _, want := range []string{"25,000", "1,500", "575", "Joined"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRunTable(t *testing.T) {
	var buf bytes.Buffer

	RunTable(&buf, &collector.Summary{
		Source:   "steam",
		Start:    100,
		End:      27075,
		Batches:  270,
		Records:  26975,
		Duration: 90 * time.Minute,
	})

	out := buf.String()
	for _, want := range []string{"steam", "100-27075", "26,975", "1h30m0s"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
