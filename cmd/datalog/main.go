package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// Version information - set at build time via -ldflags.
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	flagVerbose bool
	flagNoColor bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "datalog <file>",
		Short: "Bottom-up Datalog interpreter",
		Long:  "datalog evaluates a Datalog program (schemes, facts, rules, queries) under minimal-model semantics and prints the result of every query.",
		Args:  cobra.ExactArgs(1),
		RunE:  runRunE,
	}
	rootCmd.PersistentFlags().BoolVar(&flagVerbose, "verbose", false, "emit structured per-pass evaluation tracing to stderr")
	rootCmd.PersistentFlags().BoolVar(&flagNoColor, "no-color", false, "disable colored diagnostic output")

	// Cobra flags take precedence when set; viper fills in the DATALOG_VERBOSE
	// env var override otherwise, the same layering internal/config.Load
	// applies to the watch command's debounce setting. DATALOG_COLOR is not
	// read here, and the no-color key maps to the env name DATALOG_NO-COLOR.
	viper.SetEnvPrefix("datalog")
	viper.AutomaticEnv()
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	viper.BindPFlag("no-color", rootCmd.PersistentFlags().Lookup("no-color"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
