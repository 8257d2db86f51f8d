package tabula

import (
	"fmt"
	"math"
	"slices"
)

// AggregateFunc reduces the present values of a numeric column to a single
// number. Summarize never sees missing values (NaN); they are filtered out
// beforehand.
type AggregateFunc interface {
	Name() string
	Summarize(values []float64) float64
}

type aggregateFunc struct {
	name string
	fn   func([]float64) float64
}

func (f *aggregateFunc) Name() string                     { return f.name }
func (f *aggregateFunc) Summarize(vals []float64) float64 { return f.fn(vals) }
func (f *aggregateFunc) String() string                   { return f.name }

// NewAggregateFunc wraps fn as an AggregateFunc.
func NewAggregateFunc(name string, fn func(values []float64) float64) AggregateFunc {
	return &aggregateFunc{name, fn}
}

// Empty input gives 0 for Sum, SumOfSquares, SumOfLogs and Count, 1 for
// Product and NaN for the rest. Variance and StandardDeviation need two
// values, Skewness three and Kurtosis four.
var (
	Sum                = NewAggregateFunc("Sum", sum)
	Count              = NewAggregateFunc("Count", func(v []float64) float64 { return float64(len(v)) })
	Mean               = NewAggregateFunc("Mean", mean)
	Median             = NewAggregateFunc("Median", func(v []float64) float64 { return percentile(v, 50) })
	Quartile1          = NewAggregateFunc("First Quartile", func(v []float64) float64 { return percentile(v, 25) })
	Quartile3          = NewAggregateFunc("Third Quartile", func(v []float64) float64 { return percentile(v, 75) })
	Min                = NewAggregateFunc("Min", minOf)
	Max                = NewAggregateFunc("Max", maxOf)
	Range              = NewAggregateFunc("Range", func(v []float64) float64 { return maxOf(v) - minOf(v) })
	Variance           = NewAggregateFunc("Variance", variance)
	PopulationVariance = NewAggregateFunc("Population Variance", populationVariance)
	StandardDeviation  = NewAggregateFunc("Std. Deviation", func(v []float64) float64 { return math.Sqrt(variance(v)) })
	SumOfSquares       = NewAggregateFunc("Sum of Squares", sumOfSquares)
	SumOfLogs          = NewAggregateFunc("Sum of Logs", sumOfLogs)
	GeometricMean      = NewAggregateFunc("Geometric Mean", geometricMean)
	QuadraticMean      = NewAggregateFunc("Quadratic Mean", quadraticMean)
	Product            = NewAggregateFunc("Product", product)
	Skewness           = NewAggregateFunc("Skewness", skewness)
	Kurtosis           = NewAggregateFunc("Kurtosis", kurtosis)
)

// Percentile returns the p-th percentile function; p must be in (0, 100].
// Estimation uses position p*(n+1)/100 with linear interpolation between
// neighbours, clamped to the minimum and maximum.
func Percentile(p float64) (AggregateFunc, error) {
	if !(p > 0 && p <= 100) {
		return nil, fmt.Errorf("%w: percentile %v is outside (0, 100]", ErrInvalidArgument, p)
	}
	return NewAggregateFunc(fmt.Sprintf("Percentile %g", p), func(v []float64) float64 {
		return percentile(v, p)
	}), nil
}

// summarize drops missing values and applies fn.
func summarize(fn AggregateFunc, vals []float64) float64 {
	present := make([]float64, 0, len(vals))
	for _, x := range vals {
		if !math.IsNaN(x) {
			present = append(present, x)
		}
	}
	return fn.Summarize(present)
}

func sum(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x
	}
	return s
}

func mean(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return sum(v) / float64(len(v))
}

func minOf(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return slices.Min(v)
}

func maxOf(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return slices.Max(v)
}

func squaredDeviations(v []float64) float64 {
	m := mean(v)
	var s float64
	for _, x := range v {
		d := x - m
		s += d * d
	}
	return s
}

func variance(v []float64) float64 {
	if len(v) < 2 {
		return math.NaN()
	}
	return squaredDeviations(v) / float64(len(v)-1)
}

func populationVariance(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return squaredDeviations(v) / float64(len(v))
}

func sumOfSquares(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += x * x
	}
	return s
}

func sumOfLogs(v []float64) float64 {
	var s float64
	for _, x := range v {
		s += math.Log(x)
	}
	return s
}

func geometricMean(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return math.Exp(sumOfLogs(v) / float64(len(v)))
}

func quadraticMean(v []float64) float64 {
	if len(v) == 0 {
		return math.NaN()
	}
	return math.Sqrt(sumOfSquares(v) / float64(len(v)))
}

func product(v []float64) float64 {
	p := 1.0
	for _, x := range v {
		p *= x
	}
	return p
}

// skewness is the bias-corrected sample skewness.
func skewness(v []float64) float64 {
	n := float64(len(v))
	if len(v) < 3 {
		return math.NaN()
	}
	m := mean(v)
	sd := math.Sqrt(variance(v))
	var acc float64
	for _, x := range v {
		z := (x - m) / sd
		acc += z * z * z
	}
	return n / ((n - 1) * (n - 2)) * acc
}

// kurtosis is the bias-corrected sample excess kurtosis.
func kurtosis(v []float64) float64 {
	n := float64(len(v))
	if len(v) < 4 {
		return math.NaN()
	}
	m := mean(v)
	sd := math.Sqrt(variance(v))
	var acc float64
	for _, x := range v {
		z := (x - m) / sd
		acc += z * z * z * z
	}
	a := n * (n + 1) / ((n - 1) * (n - 2) * (n - 3))
	b := 3 * (n - 1) * (n - 1) / ((n - 2) * (n - 3))
	return a*acc - b
}

func percentile(v []float64, p float64) float64 {
	n := len(v)
	if n == 0 {
		return math.NaN()
	}
	sorted := slices.Clone(v)
	slices.Sort(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := p * float64(n+1) / 100
	if pos < 1 {
		return sorted[0]
	}
	if pos >= float64(n) {
		return sorted[n-1]
	}
	fpos := math.Floor(pos)
	lower, upper := sorted[int(fpos)-1], sorted[int(fpos)]
	return lower + (pos-fpos)*(upper-lower)
}

// pairedPresent extracts rows where both columns have values.
func pairedPresent(a, b NumericColumn) ([]float64, []float64) {
	checkSameLen(a, b)
	var xs, ys []float64
	for i, n := 0, a.Len(); i < n; i++ {
		x, y := a.Float64(i), b.Float64(i)
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return xs, ys
}

// Covariance is the sample covariance over rows where both a and b are
// present.
func Covariance(a, b NumericColumn) float64 {
	xs, ys := pairedPresent(a, b)
	if len(xs) < 2 {
		return math.NaN()
	}
	mx, my := mean(xs), mean(ys)
	var acc float64
	for i := range xs {
		acc += (xs[i] - mx) * (ys[i] - my)
	}
	return acc / float64(len(xs)-1)
}

// Correlation is Pearson's r over rows where both a and b are present.
func Correlation(a, b NumericColumn) float64 {
	xs, ys := pairedPresent(a, b)
	if len(xs) < 2 {
		return math.NaN()
	}
	mx, my := mean(xs), mean(ys)
	var sxy, sxx, syy float64
	for i := range xs {
		dx, dy := xs[i]-mx, ys[i]-my
		sxy += dx * dy
		sxx += dx * dx
		syy += dy * dy
	}
	return sxy / math.Sqrt(sxx*syy)
}
