// Package vcf provides positional access to BGZF-compressed,
// tabix-indexed VCF files.
package vcf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brentp/bix"
	"go.uber.org/zap"
)

// chromStyle captures the contig naming convention declared by the file
// header.
type chromStyle int

const (
	// chromStyleUnknown means no contig declaration was found; callers
	// treat this as unprefixed.
	chromStyleUnknown chromStyle = iota
	chromStyleBare
	chromStylePrefixed
)

// Reader queries an indexed VCF. The tabix handle is opened once and
// reused for every region query until Close.
type Reader struct {
	tbx  *bix.Bix
	path string

	meta        []string // ## header lines
	columns     []string // fields of the #CHROM header line
	sampleNames []string
	formatIndex int // ordinal of the FORMAT column, -1 when absent
	style       chromStyle

	// FORMAT layout string -> field name -> offset, resolved once per
	// distinct layout.
	fieldOffsets map[string]map[string]int

	logger *zap.Logger
}

// Open opens a BGZF-compressed VCF and its tabix index, and scans the
// textual header once to resolve the contig naming convention, the
// FORMAT column position and the sample names.
func Open(path string) (*Reader, error) {
	tbx, err := bix.New(path)
	if err != nil {
		return nil, fmt.Errorf("open tabix-indexed vcf %s: %w", path, err)
	}

	r := &Reader{
		tbx:          tbx,
		path:         path,
		formatIndex:  -1,
		fieldOffsets: make(map[string]map[string]int),
		logger:       zap.NewNop(),
	}

	if err := r.readHeader(); err != nil {
		tbx.Close()
		return nil, err
	}
	return r, nil
}

// SetLogger sets the logger used for data-level anomalies.
func (r *Reader) SetLogger(l *zap.Logger) {
	r.logger = l
}

// readHeader re-opens the file as a plain gzip stream and scans header
// lines up to and including #CHROM. BGZF is valid multistream gzip, so
// the standard library reader handles it.
func (r *Reader) readHeader() error {
	f, err := os.Open(r.path)
	if err != nil {
		return fmt.Errorf("open vcf file: %w", err)
	}
	defer f.Close()

	// Check for gzip magic bytes
	buf := make([]byte, 2)
	if _, err := f.Read(buf); err != nil {
		return fmt.Errorf("read vcf header: %w", err)
	}
	if _, err := f.Seek(0, 0); err != nil {
		return fmt.Errorf("seek vcf file: %w", err)
	}

	var src io.Reader = f
	if buf[0] == 0x1f && buf[1] == 0x8b {
		gz, err := gzip.NewReader(f)
		if err != nil {
			return fmt.Errorf("create gzip reader: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	return r.scanHeader(bufio.NewReader(src))
}

// scanHeader consumes header lines until the #CHROM column line.
func (r *Reader) scanHeader(br *bufio.Reader) error {
	lineNo := 0
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return fmt.Errorf("read header: %w", err)
		}
		if line == "" && err == io.EOF {
			break
		}
		lineNo++
		line = strings.TrimRight(line, "\r\n")

		switch {
		case strings.HasPrefix(line, "##"):
			r.meta = append(r.meta, line)
			if r.style == chromStyleUnknown && strings.HasPrefix(line, "##contig") {
				if prefixed, ok := contigHasChrPrefix(line); ok {
					if prefixed {
						r.style = chromStylePrefixed
					} else {
						r.style = chromStyleBare
					}
				}
			}
		case strings.HasPrefix(line, "#CHROM"):
			r.columns = strings.Split(line, "\t")
			for i, col := range r.columns {
				if col == "FORMAT" {
					r.formatIndex = i
					break
				}
			}
			if r.formatIndex >= 0 && len(r.columns) > r.formatIndex+1 {
				r.sampleNames = r.columns[r.formatIndex+1:]
			}
			return nil
		default:
			return &ParseError{Line: lineNo, Message: "expected #CHROM header line"}
		}

		if err == io.EOF {
			break
		}
	}
	return &ParseError{Line: lineNo, Message: "no #CHROM header line found"}
}

// contigHasChrPrefix reports whether a ##contig declaration names a
// "chr"-prefixed contig. The second return is false when the line has
// no ID attribute.
func contigHasChrPrefix(line string) (prefixed, ok bool) {
	_, rest, found := strings.Cut(line, "ID=")
	if !found {
		return false, false
	}
	id := rest
	if i := strings.IndexAny(rest, ",>"); i >= 0 {
		id = rest[:i]
	}
	return strings.HasPrefix(id, "chr"), true
}

// ChrPrefixed reports whether contig names carry a "chr" prefix. Files
// with no contig declarations are treated as unprefixed.
func (r *Reader) ChrPrefixed() bool {
	return r.style == chromStylePrefixed
}

// Meta returns the ## header lines.
func (r *Reader) Meta() []string {
	return r.meta
}

// SampleNames returns the sample names from the #CHROM header line, or
// nil when the file has no sample columns.
func (r *Reader) SampleNames() []string {
	return r.sampleNames
}

// FormatIndex returns the ordinal of the FORMAT column, or -1 when the
// header does not declare one.
func (r *Reader) FormatIndex() int {
	return r.formatIndex
}

// fieldOffset resolves the offset of a named subfield within a FORMAT
// layout such as "GT:AD:DP", memoized per distinct layout string. The
// second return is false when the layout does not declare the field.
func (r *Reader) fieldOffset(layout, field string) (int, bool) {
	m, ok := r.fieldOffsets[layout]
	if !ok {
		m = make(map[string]int)
		for i, name := range strings.Split(layout, ":") {
			m[name] = i
		}
		r.fieldOffsets[layout] = m
	}
	off, ok := m[field]
	return off, ok
}

// Close releases the tabix handle.
func (r *Reader) Close() error {
	return r.tbx.Close()
}

// ParseError is a structural error with line context.
type ParseError struct {
	Line    int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vcf parse error at line %d: %s", e.Line, e.Message)
}
