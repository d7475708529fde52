package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/config"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/features"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/ml"
)

func newPredictCmd() *cobra.Command {
	var (
		modelPath  string
		in         features.Input
		importance bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Run a one-shot prediction against a saved model",
		RunE: func(cmd *cobra.Command, args []string) error {
			if modelPath == "" {
				modelPath = config.Load().ModelPath
			}

			artifact, err := ml.LoadArtifact(modelPath)
			if err != nil {
				return err
			}
			predictor, err := ml.NewPredictor(artifact)
			if err != nil {
				return err
			}

			vec := features.Synthesize(in)
			raw, err := predictor.PredictRaw(vec)
			if err != nil {
				return err
			}
			days, err := predictor.Predict(vec)
			if err != nil {
				return err
			}

			fmt.Printf("Model %s (trained %s)\n", artifact.Metadata.ModelVersion,
				artifact.Metadata.TrainedAt.Format("2006-01-02"))
			fmt.Printf("  Raw prediction: %.2f days\n", raw)
			fmt.Printf("  Interval:       %d days\n", days)

			if importance {
				fmt.Println("Top feature importances:")
				for i, fi := range predictor.Importances([]features.Vector{vec}) {
					if i >= 10 {
						break
					}
					fmt.Printf("  %-28s %.4f\n", fi.Name, fi.Score)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&modelPath, "model", "", "artifact path (default: MODEL_PATH)")
	cmd.Flags().Float64Var(&in.Interval, "interval", 1, "current interval in days")
	cmd.Flags().Float64Var(&in.Difficulty, "difficulty", 0.3, "difficulty score in [0,1]")
	cmd.Flags().Float64Var(&in.DaysSinceReview, "days-since", 0, "days since last review")
	cmd.Flags().Float64Var(&in.SuccessRate, "success-rate", 0, "lifetime success rate in [0,1]")
	cmd.Flags().Float64Var(&in.AvgResponseMs, "avg-response-ms", 2000, "average response time in milliseconds")
	cmd.Flags().Float64Var(&in.TotalReviews, "reviews", 0, "total review count")
	cmd.Flags().Float64Var(&in.Streak, "streak", 0, "consecutive-correct streak")
	cmd.Flags().Float64Var(&in.TimeOfDay, "time-of-day", 0.5, "time of day as a fraction in [0,1)")
	cmd.Flags().BoolVar(&importance, "importance", false, "print gradient-magnitude feature importances")
	return cmd
}
