package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/config"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/database"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/ml"
)

func newTrainCmd() *cobra.Command {
	var (
		datasetPath string
		outPath     string
		epochs      int
		minSamples  int
	)

	cmd := &cobra.Command{
		Use:   "train",
		Short: "Train the interval model offline and write a new artifact",
		Long: "Fits the regression model from stored review events (or a JSON dataset file) " +
			"and writes a new model artifact. The artifact replaces any previous one " +
			"atomically; a failed run leaves the old artifact untouched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if outPath == "" {
				outPath = cfg.ModelPath
			}
			if minSamples == 0 {
				minSamples = cfg.MinSamples
			}

			var samples []ml.Sample
			if datasetPath != "" {
				data, err := os.ReadFile(datasetPath)
				if err != nil {
					return fmt.Errorf("read dataset: %w", err)
				}
				if err := json.Unmarshal(data, &samples); err != nil {
					return fmt.Errorf("parse dataset: %w", err)
				}
			} else {
				if err := database.Connect(cfg.DatabaseURL, cfg.DataDir); err != nil {
					return err
				}
				defer database.Close()

				events, err := database.NewReviewEventRepository().GetAll(cmd.Context())
				if err != nil {
					return err
				}
				samples = ml.BuildSamples(events, ml.DefaultLabelConfig())
			}

			fmt.Printf("Training on %d samples...\n", len(samples))

			trainer := ml.NewTrainer(ml.TrainerConfig{Epochs: epochs, MinSamples: minSamples})
			artifact, metrics, err := trainer.Train(cmd.Context(), samples)
			if err != nil {
				return err
			}

			if err := artifact.Save(outPath); err != nil {
				return err
			}

			fmt.Printf("Saved model to %s\n", outPath)
			fmt.Printf("  Loss (MSE):     %.4f\n", metrics.Loss)
			fmt.Printf("  MAE:            %.2f days\n", metrics.MAE)
			fmt.Printf("  Baseline MAE:   %.2f days\n", metrics.BaselineMAE)
			fmt.Printf("  Improvement:    %.1f%%\n", metrics.Improvement)
			return nil
		},
	}

	cmd.Flags().StringVar(&datasetPath, "dataset", "", "JSON dataset file (default: build from stored review events)")
	cmd.Flags().StringVar(&outPath, "out", "", "artifact output path (default: MODEL_PATH)")
	cmd.Flags().IntVar(&epochs, "epochs", 0, "training epochs (default 100)")
	cmd.Flags().IntVar(&minSamples, "min-samples", 0, "minimum sample count (default 50)")
	return cmd
}
