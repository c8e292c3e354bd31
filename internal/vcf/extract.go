package vcf

import (
	"fmt"
	"strings"

	"github.com/brentp/irelate/interfaces"
	"go.uber.org/zap"

	"github.com/clinomics/sexcheck/internal/bed"
)

// MinQual is the quality cutoff for variant records. Records with
// QUAL <= MinQual are ignored; the comparison is strict, so exactly 20
// is excluded and 21 passes.
const MinQual = 20.0

// Absence classifies why a region query produced no usable values.
// Data-level absences are logged and skipped by callers, never raised.
type Absence int

const (
	AbsenceNone Absence = iota
	// NoDataInRegion: the query returned no record passing the quality
	// filter.
	NoDataInRegion
	// FieldNotFound: records passed the filter but none declares the
	// requested FORMAT subfield.
	FieldNotFound
	// ChromosomeNotPresent: the chromosome is not in the tabix index.
	ChromosomeNotPresent
)

func (a Absence) String() string {
	switch a {
	case AbsenceNone:
		return "none"
	case NoDataInRegion:
		return "no data in region"
	case FieldNotFound:
		return "field not found"
	case ChromosomeNotPresent:
		return "chromosome not present"
	}
	return fmt.Sprintf("absence(%d)", int(a))
}

// VariantInfo maps a chromosome label to the subfield values collected
// across every region on it, in query order.
type VariantInfo map[string][]string

// FieldValues extracts one FORMAT subfield from the first sample of
// every record overlapping the region. The region's chromosome label
// must already match the file's naming convention.
func (r *Reader) FieldValues(reg bed.Region, field string) ([]string, Absence) {
	it, err := r.tbx.Query(reg)
	if err != nil {
		return nil, ChromosomeNotPresent
	}

	next := func() (string, bool) {
		v, err := it.Next()
		if err != nil {
			return "", false
		}
		iv, ok := v.(interfaces.IVariant)
		if !ok {
			return "", false
		}
		return iv.String(), true
	}
	return r.collect(next, field)
}

// collect drains a raw-line source, applying the quality filter and
// the subfield lookup.
func (r *Reader) collect(next func() (string, bool), field string) ([]string, Absence) {
	var vals []string
	sawRecord := false
	for {
		line, ok := next()
		if !ok {
			break
		}
		rec, err := parseRecord(line, r.formatIndex)
		if err != nil {
			r.logger.Warn("skipping malformed record", zap.Error(err))
			continue
		}
		if rec.Qual <= MinQual {
			continue
		}
		sawRecord = true
		if rec.Format == "" || len(rec.Samples) == 0 {
			continue
		}
		off, ok := r.fieldOffset(rec.Format, field)
		if !ok {
			continue
		}
		sub := strings.Split(rec.Samples[0], ":")
		if off >= len(sub) {
			continue
		}
		vals = append(vals, sub[off])
	}
	if len(vals) == 0 {
		if sawRecord {
			return nil, FieldNotFound
		}
		return nil, NoDataInRegion
	}
	return vals, AbsenceNone
}

// CollectField extracts one FORMAT subfield for every region, renaming
// each region to the file's chromosome convention before querying.
// Per-region absences are logged and skipped.
func (r *Reader) CollectField(regions []bed.Region, field string) VariantInfo {
	info := make(VariantInfo)
	for _, reg := range regions {
		reg = r.normalize(reg)
		vals, absence := r.FieldValues(reg, field)
		if absence != AbsenceNone {
			r.logger.Info("no values for region",
				zap.Stringer("region", reg),
				zap.String("field", field),
				zap.Stringer("reason", absence))
			continue
		}
		info[reg.Chrom()] = append(info[reg.Chrom()], vals...)
	}
	return info
}

// normalize renames a region's chromosome to the convention the file
// header declares. Mixing conventions would otherwise return empty
// query results rather than an error.
func (r *Reader) normalize(reg bed.Region) bed.Region {
	chrom := reg.Chrom()
	if r.ChrPrefixed() {
		if !strings.HasPrefix(chrom, "chr") {
			chrom = "chr" + chrom
		}
	} else {
		chrom = strings.TrimPrefix(chrom, "chr")
	}
	if chrom == reg.Chrom() {
		return reg
	}
	return reg.WithChrom(chrom)
}
