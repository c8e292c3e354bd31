package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Version information (set at build time)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func newRootCmd() *cobra.Command {
	var verbose bool
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "sexcheck",
		Short: "Infer the sex of a sequenced individual from an indexed VCF",
		Long: `sexcheck infers biological sex from a BGZF-compressed, tabix-indexed
VCF using two independent signals over non-pseudoautosomal regions:
relative read depth on X and Y versus the autosomes, with a fallback to
the heterozygous/homozygous call ratio on X.`,
		Version:      fmt.Sprintf("%s (%s) built %s", version, commit, date),
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(cfgFile)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ~/.sexcheck.yaml)")

	cmd.AddCommand(newDetectCmd(&verbose))
	cmd.AddCommand(newStatsCmd(&verbose))
	cmd.AddCommand(newConfigCmd())

	return cmd
}

// initConfig wires the config file and SEXCHECK_* environment variables
// into viper. A missing config file is not an error.
func initConfig(cfgFile string) error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.SetConfigFile(filepath.Join(home, ".sexcheck.yaml"))
	}

	viper.SetEnvPrefix("SEXCHECK")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && !os.IsNotExist(err) {
			return fmt.Errorf("read config: %w", err)
		}
	}
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// bindFlags binds a command's flags into viper so config file and
// environment values can supply defaults. Bound lazily per command to
// keep same-named flags on sibling commands from clobbering each other.
func bindFlags(cmd *cobra.Command, names ...string) error {
	for _, name := range names {
		if err := viper.BindPFlag(name, cmd.Flags().Lookup(name)); err != nil {
			return fmt.Errorf("bind flag %s: %w", name, err)
		}
	}
	return nil
}
