package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"chartproof/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	logLevel  string
	logFormat string
}

var rootCmd = &cobra.Command{
	Use:   "chartproof",
	Short: "Convert chart readings into Argyll TI3 files and ICC profiles",
	Long: "Chartproof pairs a spectrophotometer CSV export with the chart layout\n" +
		"it was read from, writes a CGATS TI3 file, and optionally invokes\n" +
		"colprof to build an ICC profile from it.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := logging.ParseLevel(rootFlags.logLevel)
		if err != nil {
			return err
		}
		logging.Init(level, rootFlags.logFormat)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format (text, json)")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
