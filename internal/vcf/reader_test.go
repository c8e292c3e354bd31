package vcf

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testHeader = "##fileformat=VCFv4.2\n" +
	"##contig=<ID=1,length=248956422>\n" +
	"##FORMAT=<ID=GT,Number=1,Type=String,Description=\"Genotype\">\n" +
	"##FORMAT=<ID=DP,Number=1,Type=Integer,Description=\"Read depth\">\n" +
	"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tNA12878\n"

func newTestReader(t *testing.T, header string) *Reader {
	t.Helper()
	r := &Reader{
		formatIndex:  -1,
		fieldOffsets: make(map[string]map[string]int),
		logger:       zap.NewNop(),
	}
	require.NoError(t, r.scanHeader(bufio.NewReader(strings.NewReader(header))))
	return r
}

func TestScanHeader(t *testing.T) {
	r := newTestReader(t, testHeader)

	assert.Equal(t, 8, r.FormatIndex())
	assert.Equal(t, []string{"NA12878"}, r.SampleNames())
	assert.Len(t, r.Meta(), 4)
	assert.False(t, r.ChrPrefixed())
}

func TestScanHeader_ChrPrefixedContigs(t *testing.T) {
	header := "##fileformat=VCFv4.2\n" +
		"##contig=<ID=chr1,length=248956422>\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n"

	r := newTestReader(t, header)
	assert.True(t, r.ChrPrefixed())
}

func TestScanHeader_NoContigAssumesUnprefixed(t *testing.T) {
	header := "##fileformat=VCFv4.2\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n"

	r := newTestReader(t, header)
	assert.False(t, r.ChrPrefixed())
	assert.Equal(t, chromStyleUnknown, r.style)
}

func TestScanHeader_NoFormatColumn(t *testing.T) {
	header := "##fileformat=VCFv4.2\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"

	r := newTestReader(t, header)
	assert.Equal(t, -1, r.FormatIndex())
	assert.Nil(t, r.SampleNames())
}

func TestScanHeader_MissingChromLine(t *testing.T) {
	r := &Reader{formatIndex: -1, fieldOffsets: make(map[string]map[string]int), logger: zap.NewNop()}
	err := r.scanHeader(bufio.NewReader(strings.NewReader("##fileformat=VCFv4.2\n")))

	var perr *ParseError
	require.ErrorAs(t, err, &perr)
	assert.Contains(t, perr.Error(), "no #CHROM header line")
}

func TestContigHasChrPrefix(t *testing.T) {
	tests := []struct {
		line     string
		prefixed bool
		ok       bool
	}{
		{"##contig=<ID=chr1,length=248956422>", true, true},
		{"##contig=<ID=1,length=248956422>", false, true},
		{"##contig=<ID=chrX>", true, true},
		{"##contig=<ID=MT>", false, true},
		{"##contig=<length=12345>", false, false},
	}
	for _, tt := range tests {
		prefixed, ok := contigHasChrPrefix(tt.line)
		assert.Equal(t, tt.ok, ok, tt.line)
		assert.Equal(t, tt.prefixed, prefixed, tt.line)
	}
}

func TestFieldOffset(t *testing.T) {
	r := newTestReader(t, testHeader)

	off, ok := r.fieldOffset("GT:AD:DP", "DP")
	require.True(t, ok)
	assert.Equal(t, 2, off)

	off, ok = r.fieldOffset("GT:AD:DP", "GT")
	require.True(t, ok)
	assert.Equal(t, 0, off)

	_, ok = r.fieldOffset("GT:AD:DP", "GQ")
	assert.False(t, ok)

	// A different layout resolves independently.
	off, ok = r.fieldOffset("DP:GT", "DP")
	require.True(t, ok)
	assert.Equal(t, 0, off)
}

func TestParseRecord(t *testing.T) {
	line := "1\t12345\trs1\tA\tG\t99\tPASS\tDP=30\tGT:DP\t0/1:30"

	rec, err := parseRecord(line, 8)
	require.NoError(t, err)
	assert.Equal(t, "1", rec.Chrom)
	assert.Equal(t, int64(12345), rec.Pos)
	assert.Equal(t, 99.0, rec.Qual)
	assert.Equal(t, "GT:DP", rec.Format)
	assert.Equal(t, []string{"0/1:30"}, rec.Samples)
}

func TestParseRecord_MissingQual(t *testing.T) {
	line := "1\t12345\t.\tA\tG\t.\tPASS\tDP=30\tGT:DP\t0/1:30"

	rec, err := parseRecord(line, 8)
	require.NoError(t, err)
	assert.Equal(t, 0.0, rec.Qual)
}

func TestParseRecord_TooFewColumns(t *testing.T) {
	_, err := parseRecord("1\t12345\t.\tA\tG", 8)
	require.Error(t, err)

	_, err = parseRecord("1\tnotanumber\t.\tA\tG\t99\tPASS\t.", 8)
	require.Error(t, err)
}
