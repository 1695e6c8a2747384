// Copyright 2026 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package preproc

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"rescribe.xyz/autothresh/histogram"
)

// ErrEmptyHistogram is returned when a threshold is requested for a
// histogram with no pixels in it
var ErrEmptyHistogram = histogram.ErrEmpty

// ErrUnknownMethod is returned for a Method outside the known set
var ErrUnknownMethod = errors.New("unknown threshold method")

// Method is a global threshold selection algorithm
type Method int

const (
	// Mean uses the mean intensity of the image
	Mean Method = iota
	// Otsu maximises the variance between the two classes
	Otsu
	// Yen maximises a correlation criterion of the two classes
	Yen
)

// Methods returns every Method, in the order they are reported
func Methods() []Method {
	return []Method{Mean, Otsu, Yen}
}

func (m Method) String() string {
	switch m {
	case Mean:
		return "mean"
	case Otsu:
		return "otsu"
	case Yen:
		return "yen"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// ParseMethod finds the Method named by s. The descriptive names
// "variancemax" and "entropymax" are accepted for Otsu and Yen.
func ParseMethod(s string) (Method, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "mean":
		return Mean, nil
	case "otsu", "variancemax":
		return Otsu, nil
	case "yen", "entropymax":
		return Yen, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownMethod, s)
}

// Threshold finds the threshold of a histogram using method m
func Threshold(h histogram.H, m Method) (int, error) {
	switch m {
	case Mean:
		return MeanThreshold(h)
	case Otsu:
		return OtsuThreshold(h)
	case Yen:
		return YenThreshold(h)
	}
	return 0, fmt.Errorf("%w: %v", ErrUnknownMethod, m)
}

// MeanThreshold returns the mean intensity, rounded down
func MeanThreshold(h histogram.H) (int, error) {
	total := h.Total()
	if total == 0 {
		return 0, ErrEmptyHistogram
	}
	return h.WeightedSum() / total, nil
}

// OtsuThreshold returns the threshold which maximises the variance
// between the pixels at or below it and those above it. Where
// several thresholds share the maximum the lowest is used. See
// N. Otsu, "A threshold selection method from gray-level
// histograms" (1979).
func OtsuThreshold(h histogram.H) (int, error) {
	min, max, ok := h.Span()
	if !ok {
		return 0, ErrEmptyHistogram
	}
	if min == max {
		return max, nil
	}
	if min+1 == max {
		return min, nil
	}

	var total, integral int
	for y := min; y <= max; y++ {
		total += h[y]
		integral += h[y] * y
	}

	var back, integralBack int
	threshold := min
	sigmaBest := -1.0
	for y := min; y < max; y++ {
		back += h[y]
		integralBack += h[y] * y
		fore := total - back

		omegaBack := float64(back) / float64(total)
		omegaFore := float64(fore) / float64(total)
		muBack := float64(integralBack) / float64(back)
		muFore := float64(integral-integralBack) / float64(fore)
		sigma := omegaBack * omegaFore * (muBack - muFore) * (muBack - muFore)
		if sigma > sigmaBest {
			sigmaBest = sigma
			threshold = y
		}
	}

	return threshold, nil
}

// YenThreshold returns the threshold which maximises Yen's
// correlation criterion. Where several thresholds share the maximum
// the lowest is used. See J.C. Yen, F.J. Chang and S. Chang, "A new
// criterion for automatic multilevel thresholding" (1995).
func YenThreshold(h histogram.H) (int, error) {
	p, err := h.Probabilities()
	if err != nil {
		return 0, err
	}

	var p1, p1Sq, p2Sq [histogram.Levels]float64
	last := histogram.Levels - 1

	p1[0] = p[0]
	p1Sq[0] = p[0] * p[0]
	for i := 1; i <= last; i++ {
		p1[i] = p1[i-1] + p[i]
		p1Sq[i] = p1Sq[i-1] + p[i]*p[i]
	}
	p2Sq[last] = 0
	for i := last - 1; i >= 0; i-- {
		p2Sq[i] = p2Sq[i+1] + p[i+1]*p[i+1]
	}

	threshold := -1
	maxCrit := -math.MaxFloat64
	for it := 0; it <= last; it++ {
		crit := -0.61*logPositive(p1Sq[it]*p2Sq[it]) + 2*logPositive(p1[it]*(1.0-p1[it]))
		if crit > maxCrit {
			maxCrit = crit
			threshold = it
		}
	}

	return threshold, nil
}

// logPositive returns the natural log of x, or 0 if x isn't
// positive
func logPositive(x float64) float64 {
	if x > 0 {
		return math.Log(x)
	}
	return 0
}
