package infer

import (
	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat"

	"github.com/clinomics/sexcheck/internal/bed"
)

// Genotype strings counted by the ratio estimator. Matching is exact;
// phased calls ("0|1") are not counted.
var (
	homGenotypes = map[string]bool{"1/1": true, "2/2": true}
	hetGenotypes = map[string]bool{
		"0/1": true, "1/0": true,
		"1/2": true, "2/1": true,
		"0/2": true, "2/0": true,
	}
)

// RatioEstimator infers sex from the heterozygous/homozygous call ratio
// on X relative to the autosomal baseline. With a single X copy, male
// samples show far fewer heterozygous calls there.
type RatioEstimator struct {
	src       FieldSource
	threshold float64
	logger    *zap.Logger
}

// NewRatioEstimator creates an estimator with the default threshold.
func NewRatioEstimator(src FieldSource) *RatioEstimator {
	return &RatioEstimator{
		src:       src,
		threshold: DefaultThreshold,
		logger:    zap.NewNop(),
	}
}

// SetThreshold sets the decision margin as a fraction of the average
// autosomal ratio.
func (e *RatioEstimator) SetThreshold(t float64) {
	e.threshold = t
}

// SetLogger sets the logger for evidence and fallback notices.
func (e *RatioEstimator) SetLogger(l *zap.Logger) {
	e.logger = l
}

// Estimate computes per-chromosome het/hom ratios over the regions and
// compares X against the autosomal mean. Chromosomes with no
// homozygous-alternate calls carry no defined ratio and are skipped; an
// X without a ratio, or an X ratio exactly at the decision boundary,
// yields Unknown.
func (e *RatioEstimator) Estimate(regions []bed.Region) Sex {
	info := e.src.CollectField(regions, "GT")

	ratios := make(map[string]float64, len(info))
	for chrom, gts := range info {
		het, hom := countCalls(gts)
		if hom == 0 {
			e.logger.Warn("no homozygous calls on chromosome, ratio undefined",
				zap.String("chrom", chrom), zap.Int("het", het))
			continue
		}
		ratios[chrom] = float64(het) / float64(hom)
	}

	autosomes, chrx, _ := chromLabels(e.src.ChrPrefixed())

	var autosomal []float64
	for _, chrom := range autosomes {
		if r, ok := ratios[chrom]; ok {
			autosomal = append(autosomal, r)
		}
	}
	xRatio, ok := ratios[chrx]
	if !ok || len(autosomal) == 0 {
		e.logger.Warn("het/hom ratio unavailable",
			zap.Bool("have_x", ok), zap.Int("autosomes", len(autosomal)))
		return Unknown
	}

	avg := stat.Mean(autosomal, nil)
	cut := avg * (1 - e.threshold)

	var sex Sex
	switch {
	case xRatio < cut:
		sex = Male
	case xRatio > cut:
		sex = Female
	default:
		// Exactly at the boundary: call neither.
		sex = Unknown
	}

	e.logger.Info("het/hom ratio evidence",
		zap.Float64("average_ratio", avg),
		zap.Float64("x_ratio", xRatio),
		zap.String("verdict", sex.String()))
	return sex
}

// countCalls tallies heterozygous and homozygous-alternate genotypes.
func countCalls(gts []string) (het, hom int) {
	for _, gt := range gts {
		switch {
		case homGenotypes[gt]:
			hom++
		case hetGenotypes[gt]:
			het++
		}
	}
	return het, hom
}
