package stats

import (
	"math"

	"github.com/sartorproj/goforecast/timeseries"
)

// SelectSeasonalD determines the seasonal differencing order D for the
// given period. It uses the seasonal strength measure
// F_S = max(0, 1 - Var(R)/Var(S+R)); one seasonal difference is applied
// while F_S >= 0.64, up to maxD (default 1).
func SelectSeasonalD(series *timeseries.Series, period, maxD int) int {
	if maxD <= 0 {
		maxD = 1
	}
	if period <= 1 || series.Len() < 2*period {
		return 0
	}

	current := series
	for d := 0; d < maxD; d++ {
		if seasonalStrength(current, period) < 0.64 {
			return d
		}
		current = current.SeasonalDiff(period)
		if current.Len() < 2*period {
			return d
		}
	}
	return maxD
}

// seasonalStrength measures how much variance the seasonal component
// explains after removing a centered moving-average trend.
func seasonalStrength(series *timeseries.Series, period int) float64 {
	n := series.Len()
	if n < 2*period {
		return 0
	}

	trend := centeredMA(series.Values, period)

	detrended := make([]float64, n)
	for i := range detrended {
		if math.IsNaN(trend[i]) {
			detrended[i] = math.NaN()
		} else {
			detrended[i] = series.Values[i] - trend[i]
		}
	}

	// Average the detrended values within each seasonal position.
	pattern := make([]float64, period)
	counts := make([]int, period)
	for i, v := range detrended {
		if !math.IsNaN(v) {
			pattern[i%period] += v
			counts[i%period]++
		}
	}
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
	}

	residual := make([]float64, 0, n)
	seasonalPlusResid := make([]float64, 0, n)
	for i, v := range detrended {
		if math.IsNaN(v) {
			continue
		}
		s := pattern[i%period]
		residual = append(residual, v-s)
		seasonalPlusResid = append(seasonalPlusResid, v)
	}

	varSR := sampleVariance(seasonalPlusResid)
	if varSR == 0 {
		return 0
	}
	strength := 1 - sampleVariance(residual)/varSR
	if strength < 0 {
		return 0
	}
	return strength
}

// centeredMA computes a centered moving average of the given period,
// with NaN at positions where the window does not fit.
func centeredMA(values []float64, period int) []float64 {
	n := len(values)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}

	half := period / 2
	for i := half; i < n-half; i++ {
		sum := 0.0
		if period%2 == 0 {
			// Even periods use the 2xm centered average.
			sum += 0.5 * values[i-half]
			sum += 0.5 * values[i+half]
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
			out[i] = sum / float64(period)
		} else {
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
			out[i] = sum / float64(period)
		}
	}
	return out
}

func sampleVariance(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	sumSq := 0.0
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return sumSq / float64(n-1)
}
