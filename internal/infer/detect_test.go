package infer

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinomics/sexcheck/internal/vcf"
)

func TestDetector_DepthConclusive(t *testing.T) {
	src := &fakeSource{fields: map[string]vcf.VariantInfo{
		"DP": {
			"1": rep("40", 5),
			"X": rep("22", 5),
			"Y": rep("1", 2),
		},
		// GT evidence points the other way; depth must win.
		"GT": {
			"1": gts(10, 10),
			"X": gts(9, 10),
		},
	}}

	assert.Equal(t, Male, NewDetector(src).Detect(testRegions))
}

func TestDetector_FallsBackToRatio(t *testing.T) {
	// Flat depth profile on X and Y leaves depth inconclusive; the
	// het/hom ratio settles it.
	src := &fakeSource{fields: map[string]vcf.VariantInfo{
		"DP": {
			"1": rep("40", 5),
			"X": rep("40", 5),
			"Y": rep("40", 5),
		},
		"GT": {
			"1": gts(10, 10),
			"X": gts(3, 10),
		},
	}}

	assert.Equal(t, Male, NewDetector(src).Detect(testRegions))
}

func TestDetector_BothInconclusive(t *testing.T) {
	src := &fakeSource{fields: map[string]vcf.VariantInfo{
		"DP": {
			"1": rep("40", 5),
			"X": rep("40", 5),
			"Y": rep("40", 5),
		},
		"GT": {
			"1": gts(10, 10),
			"X": gts(8, 10), // exactly at the boundary
		},
	}}

	assert.Equal(t, Unknown, NewDetector(src).Detect(testRegions))
}

func TestDetector_Stats(t *testing.T) {
	src := &fakeSource{fields: map[string]vcf.VariantInfo{
		"DP": {
			"2": {"40", "42", "38"},
			"1": {"40", "."},
			"X": {"22"},
		},
		"GT": {
			"1": gts(10, 10),
			"X": gts(7, 0),
		},
	}}

	stats := NewDetector(src).Stats(testRegions)
	require.Len(t, stats, 3)

	// Ordered autosomes first, then X.
	assert.Equal(t, "1", stats[0].Chrom)
	assert.Equal(t, "2", stats[1].Chrom)
	assert.Equal(t, "X", stats[2].Chrom)

	assert.Equal(t, 1, stats[0].Depths, "non-numeric depth not counted")
	assert.Equal(t, 40.0, stats[0].MedianDepth)
	assert.Equal(t, 10, stats[0].Het)
	assert.Equal(t, 10, stats[0].Hom)
	assert.Equal(t, 1.0, stats[0].HetHomRatio)

	assert.Equal(t, 40.0, stats[1].MedianDepth)
	assert.Equal(t, 0, stats[1].Het)
	assert.True(t, math.IsNaN(stats[1].HetHomRatio), "no GT data means no ratio")

	assert.Equal(t, 22.0, stats[2].MedianDepth)
	assert.Equal(t, 7, stats[2].Het)
	assert.Equal(t, 0, stats[2].Hom)
	assert.True(t, math.IsNaN(stats[2].HetHomRatio), "zero hom count means no ratio")
}
