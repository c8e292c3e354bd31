package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/clinomics/sexcheck/internal/bed"
	"github.com/clinomics/sexcheck/internal/infer"
	"github.com/clinomics/sexcheck/internal/vcf"
)

// Default paths follow the genome-app directory layout.
const (
	defaultVCF     = "input/person/genome.vcf.gz"
	defaultRegions = "input/non_PAR_region.bed"
	defaultOutput  = "output/output.json"
)

func newDetectCmd(verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Run sex inference and write the JSON verdict",
		Long: `Detect runs the read-depth estimator over the non-pseudoautosomal
regions and falls back to the het/hom ratio estimator when depth is
inconclusive. The verdict {"Gender": "male"|"female"|null} is always
written, even when both estimators are inconclusive.`,
		Example: `  sexcheck detect
  sexcheck detect --vcf sample.vcf.gz --regions non_PAR_region.bed -o verdict.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, *verbose)
		},
	}

	cmd.Flags().String("vcf", defaultVCF, "BGZF-compressed, tabix-indexed VCF")
	cmd.Flags().String("regions", defaultRegions, "Tab-separated region list with CHROM/START/STOP header")
	cmd.Flags().StringP("output", "o", defaultOutput, "Path of the verdict JSON artifact")
	cmd.Flags().Float64("depth-threshold", infer.DefaultThreshold, "Decision margin for the read-depth rule")
	cmd.Flags().Float64("ratio-threshold", infer.DefaultThreshold, "Decision margin for the het/hom rule")

	return cmd
}

func runDetect(cmd *cobra.Command, verbose bool) error {
	if err := bindFlags(cmd, "vcf", "regions", "output", "depth-threshold", "ratio-threshold"); err != nil {
		return err
	}

	logger, err := newLogger(verbose)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	vcfPath := viper.GetString("vcf")
	regionsPath := viper.GetString("regions")
	outputPath := viper.GetString("output")

	regions, err := bed.LoadFile(regionsPath)
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
	det.SetThresholds(viper.GetFloat64("depth-threshold"), viper.GetFloat64("ratio-threshold"))
	det.SetLogger(logger)

	sex := det.Detect(regions)

	if err := infer.WriteVerdict(outputPath, sex); err != nil {
		return err
	}
	logger.Info("wrote verdict",
		zap.String("path", outputPath),
		zap.String("gender", sex.String()))
	fmt.Fprintf(cmd.OutOrStdout(), "Gender: %s\n", sex)
	return nil
}
