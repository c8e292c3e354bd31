package qcdb

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clinomics/sexcheck/internal/infer"
)

func openInMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenClose(t *testing.T) {
	s := openInMemory(t)
	assert.NotNil(t, s.DB())
}

func TestWriteRunRoundTrip(t *testing.T) {
	s := openInMemory(t)

	stats := []infer.ChromStats{
		{Chrom: "1", Depths: 120, MedianDepth: 41, Het: 50, Hom: 48, HetHomRatio: 50.0 / 48.0},
		{Chrom: "X", Depths: 60, MedianDepth: 21, Het: 3, Hom: 30, HetHomRatio: 0.1},
		{Chrom: "Y", Depths: 0, MedianDepth: math.NaN(), Het: 0, Hom: 0, HetHomRatio: math.NaN()},
	}

	runID, err := s.WriteRun("NA12878", "input/person/genome.vcf.gz", infer.Male, stats)
	require.NoError(t, err)
	assert.Equal(t, int64(1), runID)

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "NA12878", runs[0].Sample)
	assert.Equal(t, "input/person/genome.vcf.gz", runs[0].VCFPath)
	assert.Equal(t, infer.Male, runs[0].Gender)
	assert.False(t, runs[0].RunAt.IsZero())

	got, err := s.ChromStats(runID)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "1", got[0].Chrom)
	assert.Equal(t, 120, got[0].Depths)
	assert.InDelta(t, 41.0, got[0].MedianDepth, 1e-9)
	assert.Equal(t, 50, got[0].Het)

	// NaN survives the round trip as SQL NULL.
	assert.True(t, math.IsNaN(got[2].MedianDepth))
	assert.True(t, math.IsNaN(got[2].HetHomRatio))
}

func TestWriteRun_InconclusiveGenderIsNull(t *testing.T) {
	s := openInMemory(t)

	runID, err := s.WriteRun("sampleA", "a.vcf.gz", infer.Unknown, nil)
	require.NoError(t, err)

	var gender any
	err = s.DB().QueryRow(`SELECT gender FROM runs WHERE run_id = ?`, runID).Scan(&gender)
	require.NoError(t, err)
	assert.Nil(t, gender)

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, infer.Unknown, runs[0].Gender)
}

func TestWriteRun_RunIDsIncrement(t *testing.T) {
	s := openInMemory(t)

	id1, err := s.WriteRun("a", "a.vcf.gz", infer.Female, nil)
	require.NoError(t, err)
	id2, err := s.WriteRun("b", "b.vcf.gz", infer.Male, nil)
	require.NoError(t, err)

	assert.Equal(t, id1+1, id2)

	runs, err := s.Runs()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "a", runs[0].Sample)
	assert.Equal(t, "b", runs[1].Sample)
}
