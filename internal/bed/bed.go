// Package bed loads tab-separated genomic region lists.
package bed

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
)

// Region is a half-open genomic interval [Start, End) on one chromosome.
// Its methods satisfy the position interface expected by tabix queries.
type Region struct {
	chrom string
	start int
	end   int
}

// NewRegion creates a region on the given chromosome.
func NewRegion(chrom string, start, end int) Region {
	return Region{chrom: chrom, start: start, end: end}
}

func (r Region) Chrom() string { return r.chrom }
func (r Region) Start() uint32 { return uint32(r.start) }
func (r Region) End() uint32   { return uint32(r.end) }

// WithChrom returns a copy of the region carrying a different chromosome
// label. Used to rename regions into a file's naming convention.
func (r Region) WithChrom(chrom string) Region {
	r.chrom = chrom
	return r
}

func (r Region) String() string {
	return fmt.Sprintf("%s:%d-%d", r.chrom, r.start, r.end)
}

// Load parses a tab-separated region list whose header row names the
// CHROM, START and STOP columns. Column order is resolved from the
// header, not assumed. Malformed rows are fatal.
func Load(r io.Reader) ([]Region, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read region header: %w", err)
	}

	chromCol, startCol, stopCol := -1, -1, -1
	for i, name := range header {
		switch name {
		case "CHROM":
			chromCol = i
		case "START":
			startCol = i
		case "STOP":
			stopCol = i
		}
	}
	if chromCol < 0 || startCol < 0 || stopCol < 0 {
		return nil, fmt.Errorf("region header missing CHROM/START/STOP, got %v", header)
	}

	var regions []Region
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read region row: %w", err)
		}
		start, err := strconv.Atoi(row[startCol])
		if err != nil {
			return nil, fmt.Errorf("invalid START %q: %w", row[startCol], err)
		}
		stop, err := strconv.Atoi(row[stopCol])
		if err != nil {
			return nil, fmt.Errorf("invalid STOP %q: %w", row[stopCol], err)
		}
		regions = append(regions, NewRegion(row[chromCol], start, stop))
	}
	return regions, nil
}

// LoadFile reads a region list from disk.
func LoadFile(path string) ([]Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open region file: %w", err)
	}
	defer f.Close()

	regions, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return regions, nil
}
