package infer

import (
	"go.uber.org/zap"

	"github.com/clinomics/sexcheck/internal/bed"
)

// Detector runs the read-depth estimator and falls back to the het/hom
// ratio estimator when depth is inconclusive. Single pass, no retries.
type Detector struct {
	src            FieldSource
	depthThreshold float64
	ratioThreshold float64
	logger         *zap.Logger
}

// NewDetector creates a detector with default thresholds for both
// estimators.
func NewDetector(src FieldSource) *Detector {
	return &Detector{
		src:            src,
		depthThreshold: DefaultThreshold,
		ratioThreshold: DefaultThreshold,
		logger:         zap.NewNop(),
	}
}

// SetThresholds overrides the decision margins of the two estimators.
func (d *Detector) SetThresholds(depth, ratio float64) {
	d.depthThreshold = depth
	d.ratioThreshold = ratio
}

// SetLogger sets the logger passed down to both estimators.
func (d *Detector) SetLogger(l *zap.Logger) {
	d.logger = l
}

// Detect returns the inferred sex, or Unknown when neither estimator
// reaches a verdict.
func (d *Detector) Detect(regions []bed.Region) Sex {
	d.logger.Info("estimating sex from read depth")
	depth := NewDepthEstimator(d.src)
	depth.SetThreshold(d.depthThreshold)
	depth.SetLogger(d.logger)
	if sex := depth.Estimate(regions); sex != Unknown {
		return sex
	}

	d.logger.Info("read depth inconclusive, falling back to het/hom ratio")
	ratio := NewRatioEstimator(d.src)
	ratio.SetThreshold(d.ratioThreshold)
	ratio.SetLogger(d.logger)
	return ratio.Estimate(regions)
}
