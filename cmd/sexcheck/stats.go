package main

import (
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/clinomics/sexcheck/internal/bed"
	"github.com/clinomics/sexcheck/internal/infer"
	"github.com/clinomics/sexcheck/internal/qcdb"
	"github.com/clinomics/sexcheck/internal/vcf"
)

func newStatsCmd(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print per-chromosome evidence, optionally persisting it",
		Long: `Stats prints the per-chromosome median read depth and het/hom counts
the estimators reduce over, together with the verdict. With --db the
run is appended to a DuckDB QC database for cohort-level review.`,
		Example: `  sexcheck stats --vcf sample.vcf.gz
  sexcheck stats --vcf sample.vcf.gz --db qc.duckdb --sample NA12878`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStats(cmd, *verbose)
		},
	}

	cmd.Flags().String("vcf", defaultVCF, "BGZF-compressed, tabix-indexed VCF")
	cmd.Flags().String("regions", defaultRegions, "Tab-separated region list with CHROM/START/STOP header")
	cmd.Flags().String("db", "", "DuckDB QC database to append this run to")
	cmd.Flags().String("sample", "", "Sample label for the QC database (default: VCF basename)")

	return cmd
}

func runStats(cmd *cobra.Command, verbose bool) error {
	if err := bindFlags(cmd, "vcf", "regions", "db", "sample"); err != nil {
		return err
	}

	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	vcfPath := viper.GetString("vcf")

	regions, err := bed.LoadFile(viper.GetString("regions"))
	if err != nil {
		return err
	}

	reader, err := vcf.Open(vcfPath)
	if err != nil {
		return err
	}
	defer reader.Close()
	reader.SetLogger(logger)

	det := infer.NewDetector(reader)
	det.SetLogger(logger)

	stats := det.Stats(regions)
	verdict := det.Detect(regions)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CHROM\tDEPTHS\tMEDIAN_DP\tHET\tHOM\tHET_HOM")
	for _, cs := range stats {
		fmt.Fprintf(w, "%s\t%d\t%s\t%d\t%d\t%s\n",
			cs.Chrom, cs.Depths, fmtFloat(cs.MedianDepth), cs.Het, cs.Hom, fmtFloat(cs.HetHomRatio))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Gender: %s\n", verdict)

	dbPath := viper.GetString("db")
	if dbPath == "" {
		return nil
	}

	sample := viper.GetString("sample")
	if sample == "" {
		sample = sampleFromPath(vcfPath)
	}

	store, err := qcdb.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runID, err := store.WriteRun(sample, vcfPath, verdict, stats)
	if err != nil {
		return err
	}
	logger.Info("persisted qc run",
		zap.Int64("run_id", runID),
		zap.String("sample", sample),
		zap.String("db", dbPath))
	return nil
}

// fmtFloat renders NaN as the VCF missing marker.
func fmtFloat(f float64) string {
	if math.IsNaN(f) {
		return "."
	}
	return strconv.FormatFloat(f, 'g', 4, 64)
}

// sampleFromPath derives a sample label from the VCF filename.
func sampleFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	return strings.TrimSuffix(base, ".vcf")
}
