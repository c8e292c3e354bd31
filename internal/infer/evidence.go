package infer

import (
	"math"
	"strconv"

	"github.com/clinomics/sexcheck/internal/bed"
)

// ChromStats is the per-chromosome evidence the estimators reduce over,
// exposed for QC reporting and persistence.
type ChromStats struct {
	Chrom       string
	Depths      int     // usable depth observations
	MedianDepth float64 // NaN when no usable depth values
	Het         int
	Hom         int
	HetHomRatio float64 // NaN when Hom is zero
}

// Stats collects both DP and GT evidence for every chromosome with data
// in the regions, ordered autosomes 1-22 then X then Y.
func (d *Detector) Stats(regions []bed.Region) []ChromStats {
	dpInfo := d.src.CollectField(regions, "DP")
	gtInfo := d.src.CollectField(regions, "GT")

	autosomes, chrx, chry := chromLabels(d.src.ChrPrefixed())
	labels := append(append([]string{}, autosomes...), chrx, chry)

	var out []ChromStats
	for _, chrom := range labels {
		dps, haveDP := dpInfo[chrom]
		gts, haveGT := gtInfo[chrom]
		if !haveDP && !haveGT {
			continue
		}

		var xs []float64
		for _, v := range dps {
			if n, err := strconv.Atoi(v); err == nil {
				xs = append(xs, float64(n))
			}
		}
		het, hom := countCalls(gts)
		ratio := math.NaN()
		if hom > 0 {
			ratio = float64(het) / float64(hom)
		}

		out = append(out, ChromStats{
			Chrom:       chrom,
			Depths:      len(xs),
			MedianDepth: median(xs),
			Het:         het,
			Hom:         hom,
			HetHomRatio: ratio,
		})
	}
	return out
}
