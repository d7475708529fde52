// Package cli wires the offline entry points: the background daemon,
// deck import, offline training and one-shot prediction.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const Version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:           "srs",
	Short:         "Spaced-repetition interval engine",
	Long:          "srs schedules flashcard review intervals by blending an SM-2 baseline with a learned regression model trained on review history.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.AddCommand(
		newRunCmd(),
		newTrainCmd(),
		newPredictCmd(),
		newImportCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
