package tabula

import (
	"math"
	"strconv"
)

func (c *NumberColumn[T]) mapValues(name string, fn func(T) T) *NumberColumn[T] {
	out := make([]T, len(c.data))
	for i, x := range c.data {
		if c.isMissing(x) {
			out[i] = c.missing
		} else {
			out[i] = fn(x)
		}
	}
	return wrapNumbers(name, out)
}

func (c *NumberColumn[T]) mapFloats(name string, fn func(float64) float64) *Float64Column {
	out := make([]float64, len(c.data))
	for i, x := range c.data {
		if c.isMissing(x) {
			out[i] = math.NaN()
		} else {
			out[i] = fn(float64(x))
		}
	}
	return wrapNumbers(name, out)
}

// combine applies op to each row pair. A missing operand, or op returning
// false, gives a missing result. Integer results wrap on overflow, and one
// that wraps onto the type minimum reads as missing.
func (c *NumberColumn[T]) combine(o *NumberColumn[T], name string, op func(a, b T) (T, bool)) *NumberColumn[T] {
	checkSameLen(c, o)
	out := make([]T, len(c.data))
	for i, a := range c.data {
		b := o.data[i]
		if c.isMissing(a) || o.isMissing(b) {
			out[i] = c.missing
		} else if r, ok := op(a, b); ok {
			out[i] = r
		} else {
			out[i] = c.missing
		}
	}
	return wrapNumbers(name, out)
}

func (c *NumberColumn[T]) Add(o *NumberColumn[T]) *NumberColumn[T] {
	return c.combine(o, c.name+" + "+o.name, func(a, b T) (T, bool) { return a + b, true })
}

func (c *NumberColumn[T]) Subtract(o *NumberColumn[T]) *NumberColumn[T] {
	return c.combine(o, c.name+" - "+o.name, func(a, b T) (T, bool) { return a - b, true })
}

func (c *NumberColumn[T]) Multiply(o *NumberColumn[T]) *NumberColumn[T] {
	return c.combine(o, c.name+" * "+o.name, func(a, b T) (T, bool) { return a * b, true })
}

// Divide always produces float64 cells.
func (c *NumberColumn[T]) Divide(o *NumberColumn[T]) *Float64Column {
	return DivideColumns(c, o)
}

// Remainder is missing where an integer divisor is zero.
func (c *NumberColumn[T]) Remainder(o *NumberColumn[T]) *NumberColumn[T] {
	return c.combine(o, c.name+" % "+o.name, remainder[T])
}

func remainder[T Number](a, b T) (T, bool) {
	switch x := any(a).(type) {
	case float32:
		return T(math.Mod(float64(x), float64(b))), true
	case float64:
		return T(math.Mod(x, float64(b))), true
	}
	if b == 0 {
		return 0, false
	}
	return T(int64(a) % int64(b)), true
}

func (c *NumberColumn[T]) AddValue(v T) *NumberColumn[T] {
	return c.mapValues(c.name, func(x T) T { return x + v })
}

func (c *NumberColumn[T]) SubtractValue(v T) *NumberColumn[T] {
	return c.mapValues(c.name, func(x T) T { return x - v })
}

func (c *NumberColumn[T]) MultiplyValue(v T) *NumberColumn[T] {
	return c.mapValues(c.name, func(x T) T { return x * v })
}

func (c *NumberColumn[T]) DivideValue(v float64) *Float64Column {
	return c.mapFloats(c.name, func(x float64) float64 { return x / v })
}

func (c *NumberColumn[T]) RemainderValue(v T) *NumberColumn[T] {
	checkDivisor := func(x T) T {
		r, ok := remainder(x, v)
		if !ok {
			return c.missing
		}
		return r
	}
	return c.mapValues(c.name, checkDivisor)
}

func (c *NumberColumn[T]) Abs() *NumberColumn[T] {
	return c.mapValues(c.name, func(x T) T {
		if x < 0 {
			return -x
		}
		return x
	})
}

func (c *NumberColumn[T]) Neg() *NumberColumn[T] {
	return c.mapValues(c.name, func(x T) T { return -x })
}

func (c *NumberColumn[T]) Square() *NumberColumn[T] {
	return c.mapValues(c.name, func(x T) T { return x * x })
}

func (c *NumberColumn[T]) Round() *Float64Column {
	return c.mapFloats(c.name, math.Round)
}

func (c *NumberColumn[T]) Sqrt() *Float64Column {
	return c.mapFloats(c.name, math.Sqrt)
}

func (c *NumberColumn[T]) Cbrt() *Float64Column {
	return c.mapFloats(c.name, math.Cbrt)
}

func (c *NumberColumn[T]) Log() *Float64Column {
	return c.mapFloats(c.name, math.Log)
}

func (c *NumberColumn[T]) Log10() *Float64Column {
	return c.mapFloats(c.name, math.Log10)
}

func (c *NumberColumn[T]) Log1p() *Float64Column {
	return c.mapFloats(c.name, math.Log1p)
}

func (c *NumberColumn[T]) Exp() *Float64Column {
	return c.mapFloats(c.name, math.Exp)
}

// crossColumns combines two numeric columns of any types in float64.
func crossColumns(a, b NumericColumn, name string, op func(x, y float64) float64) *Float64Column {
	checkSameLen(a, b)
	n := a.Len()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		x, y := a.Float64(i), b.Float64(i)
		if math.IsNaN(x) || math.IsNaN(y) {
			out[i] = math.NaN()
		} else {
			out[i] = op(x, y)
		}
	}
	return wrapNumbers(name, out)
}

func AddColumns(a, b NumericColumn) *Float64Column {
	return crossColumns(a, b, a.Name()+" + "+b.Name(), func(x, y float64) float64 { return x + y })
}

func SubtractColumns(a, b NumericColumn) *Float64Column {
	return crossColumns(a, b, a.Name()+" - "+b.Name(), func(x, y float64) float64 { return x - y })
}

func MultiplyColumns(a, b NumericColumn) *Float64Column {
	return crossColumns(a, b, a.Name()+" * "+b.Name(), func(x, y float64) float64 { return x * y })
}

// DivideColumns follows IEEE rules: x/0 is ±Inf, 0/0 is NaN and so missing.
func DivideColumns(a, b NumericColumn) *Float64Column {
	return crossColumns(a, b, a.Name()+" / "+b.Name(), func(x, y float64) float64 { return x / y })
}

// Difference gives x[i] - x[i-1]; the first row, and any row where either
// operand is missing, is missing.
func (c *NumberColumn[T]) Difference() *NumberColumn[T] {
	out := make([]T, len(c.data))
	for i, x := range c.data {
		if i == 0 || c.isMissing(x) || c.isMissing(c.data[i-1]) {
			out[i] = c.missing
		} else {
			out[i] = x - c.data[i-1]
		}
	}
	return wrapNumbers(c.name+" Difference", out)
}

// PctChange gives (x[i] - x[i-1]) / x[i-1], with the same missing rule as
// Difference.
func (c *NumberColumn[T]) PctChange() *Float64Column {
	out := make([]float64, len(c.data))
	for i, x := range c.data {
		if i == 0 || c.isMissing(x) || c.isMissing(c.data[i-1]) {
			out[i] = math.NaN()
		} else {
			prev := float64(c.data[i-1])
			out[i] = (float64(x) - prev) / prev
		}
	}
	return wrapNumbers(c.name+" Percent Change", out)
}

// CumSum is the running sum. A missing row yields a missing cell and
// leaves the running value untouched.
func (c *NumberColumn[T]) CumSum() *NumberColumn[T] {
	return c.cumulative(c.name+" Cumulative Sum", 0, func(acc, x T) T { return acc + x })
}

func (c *NumberColumn[T]) CumProd() *NumberColumn[T] {
	return c.cumulative(c.name+" Cumulative Product", 1, func(acc, x T) T { return acc * x })
}

func (c *NumberColumn[T]) CumMax() *NumberColumn[T] {
	first := true
	return c.cumulative(c.name+" Cumulative Max", 0, func(acc, x T) T {
		if first || x > acc {
			first = false
			return x
		}
		return acc
	})
}

func (c *NumberColumn[T]) CumMin() *NumberColumn[T] {
	first := true
	return c.cumulative(c.name+" Cumulative Min", 0, func(acc, x T) T {
		if first || x < acc {
			first = false
			return x
		}
		return acc
	})
}

func (c *NumberColumn[T]) cumulative(name string, acc T, step func(acc, x T) T) *NumberColumn[T] {
	out := make([]T, len(c.data))
	for i, x := range c.data {
		if c.isMissing(x) {
			out[i] = c.missing
			continue
		}
		acc = step(acc, x)
		out[i] = acc
	}
	return wrapNumbers(name, out)
}

// Lag shifts values down by n rows, filling the top with missing. A
// negative n shifts up, like Lead.
func (c *NumberColumn[T]) Lag(n int) *NumberColumn[T] {
	out := make([]T, len(c.data))
	for i := range out {
		j := i - n
		if j < 0 || j >= len(c.data) {
			out[i] = c.missing
		} else {
			out[i] = c.data[j]
		}
	}
	if n >= 0 {
		return wrapNumbers(c.name+" lag("+strconv.Itoa(n)+")", out)
	}
	return wrapNumbers(c.name+" lead("+strconv.Itoa(-n)+")", out)
}

func (c *NumberColumn[T]) Lead(n int) *NumberColumn[T] {
	return c.Lag(-n)
}

func (c *NumberColumn[T]) Sum() float64                { return c.Summarize(Sum) }
func (c *NumberColumn[T]) Mean() float64               { return c.Summarize(Mean) }
func (c *NumberColumn[T]) Median() float64             { return c.Summarize(Median) }
func (c *NumberColumn[T]) Min() float64                { return c.Summarize(Min) }
func (c *NumberColumn[T]) Max() float64                { return c.Summarize(Max) }
func (c *NumberColumn[T]) Range() float64              { return c.Summarize(Range) }
func (c *NumberColumn[T]) Variance() float64           { return c.Summarize(Variance) }
func (c *NumberColumn[T]) PopulationVariance() float64 { return c.Summarize(PopulationVariance) }
func (c *NumberColumn[T]) StandardDeviation() float64  { return c.Summarize(StandardDeviation) }
func (c *NumberColumn[T]) Skewness() float64           { return c.Summarize(Skewness) }
func (c *NumberColumn[T]) Kurtosis() float64           { return c.Summarize(Kurtosis) }
func (c *NumberColumn[T]) GeometricMean() float64      { return c.Summarize(GeometricMean) }
func (c *NumberColumn[T]) QuadraticMean() float64      { return c.Summarize(QuadraticMean) }
func (c *NumberColumn[T]) Product() float64            { return c.Summarize(Product) }
func (c *NumberColumn[T]) SumOfSquares() float64       { return c.Summarize(SumOfSquares) }

// Percentile fails for p outside (0, 100].
func (c *NumberColumn[T]) Percentile(p float64) (float64, error) {
	fn, err := Percentile(p)
	if err != nil {
		return math.NaN(), err
	}
	return c.Summarize(fn), nil
}
