// Package stats computes the descriptive summaries, correlations and
// least-squares fits the analyze command reports over collected columns.
package stats

import (
	"fmt"
	"sort"

	mstats "github.com/montanaflynn/stats"
)

// Descriptive summarizes one numeric column.
type Descriptive struct {
	Column string
	Count  int
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
}

// Describe computes the summary of one column. The standard deviation is
// the sample deviation and stays zero for a single value.
func Describe(column string, values []float64) (Descriptive, error) {
	if len(values) == 0 {
		return Descriptive{}, fmt.Errorf("column %s has no numeric values", column)
	}

	d := Descriptive{Column: column, Count: len(values)}

	var err error
	if d.Mean, err = mstats.Mean(values); err != nil {
		return Descriptive{}, fmt.Errorf("mean of %s: %w", column, err)
	}
	if d.Median, err = mstats.Median(values); err != nil {
		return Descriptive{}, fmt.Errorf("median of %s: %w", column, err)
	}
	if len(values) > 1 {
		if d.StdDev, err = mstats.StandardDeviationSample(values); err != nil {
			return Descriptive{}, fmt.Errorf("stddev of %s: %w", column, err)
		}
	}
	if d.Min, err = mstats.Min(values); err != nil {
		return Descriptive{}, fmt.Errorf("min of %s: %w", column, err)
	}
	if d.Max, err = mstats.Max(values); err != nil {
		return Descriptive{}, fmt.Errorf("max of %s: %w", column, err)
	}
	return d, nil
}

// Correlation holds the Pearson and Spearman coefficients for a column
// pair.
type Correlation struct {
	X        string
	Y        string
	N        int
	Pearson  float64
	Spearman float64
}

// Correlate computes both coefficients over aligned pairs. Spearman is
// Pearson applied to the ranks, which makes it robust against the heavy
// skew of ownership and review counts.
func Correlate(x, y string, xs, ys []float64) (Correlation, error) {
	if len(xs) != len(ys) {
		return Correlation{}, fmt.Errorf("%s and %s have %d and %d values", x, y, len(xs), len(ys))
	}
	if len(xs) < 2 {
		return Correlation{}, fmt.Errorf("%s vs %s: need at least two pairs, have %d", x, y, len(xs))
	}

	pearson, err := mstats.Pearson(xs, ys)
	if err != nil {
		return Correlation{}, fmt.Errorf("pearson %s vs %s: %w", x, y, err)
	}
	spearman, err := mstats.Pearson(Ranks(xs), Ranks(ys))
	if err != nil {
		return Correlation{}, fmt.Errorf("spearman %s vs %s: %w", x, y, err)
	}

	return Correlation{X: x, Y: y, N: len(xs), Pearson: pearson, Spearman: spearman}, nil
}

// Ranks converts values to 1-based ranks, averaging ties. This is the
// transform behind the Spearman coefficient.
func Ranks(values []float64) []float64 {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks := make([]float64, len(values))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && values[idx[j+1]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j+2) / 2
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}

// Regression is the least-squares line y = Slope*x + Intercept.
type Regression struct {
	Slope     float64
	Intercept float64
}

// FitLine fits the least-squares line through the pairs. The slope is
// r * sd(y)/sd(x), which is exact for simple least squares; a flat y
// yields the horizontal line through its mean.
func FitLine(xs, ys []float64) (Regression, error) {
	if len(xs) != len(ys) {
		return Regression{}, fmt.Errorf("x and y have %d and %d values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return Regression{}, fmt.Errorf("need at least two pairs, have %d", len(xs))
	}

	sdX, err := mstats.StandardDeviationSample(xs)
	if err != nil {
		return Regression{}, fmt.Errorf("stddev of x: %w", err)
	}
	if sdX == 0 {
		return Regression{}, fmt.Errorf("x has zero variance")
	}

	meanX, err := mstats.Mean(xs)
	if err != nil {
		return Regression{}, fmt.Errorf("mean of x: %w", err)
	}
	meanY, err := mstats.Mean(ys)
	if err != nil {
		return Regression{}, fmt.Errorf("mean of y: %w", err)
	}

	sdY, err := mstats.StandardDeviationSample(ys)
	if err != nil {
		return Regression{}, fmt.Errorf("stddev of y: %w", err)
	}
	if sdY == 0 {
		return Regression{Slope: 0, Intercept: meanY}, nil
	}

	r, err := mstats.Pearson(xs, ys)
	if err != nil {
		return Regression{}, fmt.Errorf("pearson: %w", err)
	}

	slope := r * sdY / sdX
	return Regression{Slope: slope, Intercept: meanY - slope*meanX}, nil
}
