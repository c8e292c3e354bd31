// Package infer implements sex inference from read depth and het/hom
// genotype ratios over non-pseudoautosomal regions.
package infer

import (
	"strconv"

	"github.com/clinomics/sexcheck/internal/bed"
	"github.com/clinomics/sexcheck/internal/vcf"
)

// DefaultThreshold is the decision margin, as a fraction of the
// autosomal baseline, used by both estimators.
const DefaultThreshold = 0.2

// FieldSource supplies FORMAT subfield values per chromosome.
// *vcf.Reader satisfies it.
type FieldSource interface {
	CollectField(regions []bed.Region, field string) vcf.VariantInfo
	ChrPrefixed() bool
}

// chromLabels returns the autosome labels 1-22 plus the X and Y labels
// in the requested naming convention.
func chromLabels(prefixed bool) (autosomes []string, x, y string) {
	p := ""
	if prefixed {
		p = "chr"
	}
	autosomes = make([]string, 0, 22)
	for i := 1; i <= 22; i++ {
		autosomes = append(autosomes, p+strconv.Itoa(i))
	}
	return autosomes, p + "X", p + "Y"
}
