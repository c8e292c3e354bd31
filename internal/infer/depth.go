package infer

import (
	"math"
	"sort"
	"strconv"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/clinomics/sexcheck/internal/bed"
)

// DepthEstimator infers sex from the read depth on X and Y relative to
// the autosomal baseline. A male sample shows roughly half the
// autosomal depth on X and some depth on Y; a female sample shows
// autosomal-level depth on X and essentially none on Y.
type DepthEstimator struct {
	src       FieldSource
	threshold float64
	logger    *zap.Logger
}

// NewDepthEstimator creates an estimator with the default threshold.
func NewDepthEstimator(src FieldSource) *DepthEstimator {
	return &DepthEstimator{
		src:       src,
		threshold: DefaultThreshold,
		logger:    zap.NewNop(),
	}
}

// SetThreshold sets the decision margin as a fraction of average
// autosomal depth.
func (e *DepthEstimator) SetThreshold(t float64) {
	e.threshold = t
}

// SetLogger sets the logger for evidence and fallback notices.
func (e *DepthEstimator) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Estimate computes per-chromosome median depth over the regions and
// applies the depth decision rule. Returns Unknown when the profile
// matches neither sex.
func (e *DepthEstimator) Estimate(regions []bed.Region) Sex {
	info := e.src.CollectField(regions, "DP")

	depths := make(map[string][]float64, len(info))
	for chrom, vals := range info {
		var xs []float64
		for _, v := range vals {
			n, err := strconv.Atoi(v)
			if err != nil {
				// Non-numeric depth counts as missing, not an error.
				continue
			}
			xs = append(xs, float64(n))
		}
		depths[chrom] = xs
	}

	autosomes, chrx, chry := chromLabels(e.src.ChrPrefixed())

	var medians []float64
	for _, chrom := range autosomes {
		if xs, ok := depths[chrom]; ok {
			if m := median(xs); !math.IsNaN(m) {
				medians = append(medians, m)
			}
		}
	}
	if len(medians) == 0 {
		e.logger.Warn("no autosomal depth data in regions")
		return Unknown
	}
	avg := stat.Mean(medians, nil)

	xCov := median(depths[chrx])
	if math.IsNaN(xCov) {
		e.logger.Warn("no depth data for X chromosome", zap.String("chrom", chrx))
		return Unknown
	}

	yCov := median(depths[chry])
	if math.IsNaN(yCov) {
		// Normal for female samples, not an error.
		yCov = 0
		e.logger.Info("no coverage found for Y chromosome", zap.String("chrom", chry))
	}

	t := e.threshold
	var sex Sex
	switch {
	case xCov > avg*t && xCov < avg*(1-t) && yCov < avg*(1-t):
		sex = Male
	case yCov < avg*t && xCov > avg*(1-t) && xCov < avg*(1+t):
		sex = Female
	default:
		sex = Unknown
	}

	e.logger.Info("read depth evidence",
		zap.Float64("average_coverage", avg),
		zap.Float64("x_coverage", xCov),
		zap.Float64("y_coverage", yCov),
		zap.String("verdict", sex.String()))
	return sex
}

// median returns the middle value of xs, averaging the two middle
// values for even lengths, or NaN for an empty slice. gonum's quantile
// kinds do not interpolate the midpoint, so this is computed directly.
func median(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 1 {
		return s[mid]
	}
	return (s[mid-1] + s[mid]) / 2
}
