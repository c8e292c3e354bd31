package vcf

import (
	"fmt"
	"strconv"
	"strings"
)

// Record is one VCF data row, carrying only the columns sex inference
// reads.
type Record struct {
	Chrom   string
	Pos     int64   // 1-based genomic position
	Qual    float64 // 0 when the QUAL column is "."
	Format  string  // raw colon-delimited layout, e.g. "GT:AD:DP"
	Samples []string
}

// parseRecord splits a raw VCF line. formatIndex is the ordinal of the
// FORMAT column from the header, or -1 when the file has none.
func parseRecord(line string, formatIndex int) (*Record, error) {
	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, "\t")
	if len(fields) < 8 {
		return nil, fmt.Errorf("expected at least 8 columns, found %d", len(fields))
	}

	pos, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid position: %s", fields[1])
	}

	qual := 0.0
	if fields[5] != "." {
		qual, _ = strconv.ParseFloat(fields[5], 64)
	}

	rec := &Record{
		Chrom: fields[0],
		Pos:   pos,
		Qual:  qual,
	}
	if formatIndex >= 0 && len(fields) > formatIndex+1 {
		rec.Format = fields[formatIndex]
		rec.Samples = fields[formatIndex+1:]
	}
	return rec, nil
}
