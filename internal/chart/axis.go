package chart

import (
	"math"
	"strconv"
	"strings"
)

// limitScale stretches the axis past the most extreme bar.
const limitScale = 1.15

// AxisLimit returns the far end of the value axis: 1.15 times the smallest
// value. The near end is always zero. Empty or all-zero input yields -1.
func AxisLimit(values []float64) float64 {
	if len(values) == 0 {
		return -1
	}
	lowest := values[0]
	for _, v := range values[1:] {
		if v < lowest {
			lowest = v
		}
	}
	limit := lowest * limitScale
	if limit == 0 || math.IsNaN(limit) || math.IsInf(limit, 0) {
		return -1
	}
	return limit
}

// Ticks returns round tick values from zero toward limit, inclusive of zero,
// aiming for roughly target ticks, along with the spacing between them.
func Ticks(limit float64, target int) ([]float64, float64) {
	if limit == 0 || target < 2 {
		return []float64{0}, 0
	}
	step := niceStep(math.Abs(limit) / float64(target-1))
	sign := 1.0
	if limit < 0 {
		sign = -1
	}
	var ticks []float64
	for i := 0; ; i++ {
		v := sign * float64(i) * step
		if math.Abs(v) > math.Abs(limit)+step*1e-9 {
			break
		}
		ticks = append(ticks, roundTo(v, step))
	}
	return ticks, step
}

// FormatTick renders a tick value with as many decimals as the step needs.
func FormatTick(value, step float64) string {
	decimals := 0
	if _, frac, ok := strings.Cut(strconv.FormatFloat(step, 'f', -1, 64), "."); ok {
		decimals = len(frac)
	}
	if value == 0 {
		value = 0 // drop negative zero
	}
	return strconv.FormatFloat(value, 'f', decimals, 64)
}

// FormatValue renders a bar annotation: the value rounded to three decimals
// without trailing zeros.
func FormatValue(value float64) string {
	rounded := math.Round(value*1000) / 1000
	if rounded == 0 {
		return "0.0"
	}
	s := strconv.FormatFloat(rounded, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

func niceStep(raw float64) float64 {
	exp := math.Floor(math.Log10(raw))
	base := math.Pow(10, exp)
	frac := raw / base
	var step float64
	switch {
	case frac <= 1:
		step = base
	case frac <= 2:
		step = 2 * base
	case frac <= 2.5:
		step = 2.5 * base
	case frac <= 5:
		step = 5 * base
	default:
		step = 10 * base
	}
	// Trim float noise so 2.5*0.1 prints as 0.25.
	step, _ = strconv.ParseFloat(strconv.FormatFloat(step, 'g', 3, 64), 64)
	return step
}

func roundTo(v, step float64) float64 {
	scale := math.Pow(10, math.Ceil(-math.Log10(step))+2)
	return math.Round(v*scale) / scale
}
