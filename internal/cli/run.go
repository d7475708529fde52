package cli

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/config"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/database"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/ml"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/scheduler"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the engine daemon (background retraining and reminders)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()

			if err := database.Connect(cfg.DatabaseURL, cfg.DataDir); err != nil {
				return err
			}
			defer database.Close()

			predictor := ml.NewService()
			if err := predictor.Load(cfg.ModelPath); err != nil {
				// The engine serves baseline-only until a model exists.
				log.Printf("run: no serving model yet: %v", err)
			}

			trainer := ml.NewTrainer(ml.TrainerConfig{MinSamples: cfg.MinSamples})
			jobs := scheduler.New(predictor, trainer, nil, cfg.ModelPath, cfg.RetrainHour)
			jobs.Start()
			defer jobs.Stop()

			log.Println("Engine started. Press Ctrl+C to stop.")

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			sig := <-sigChan
			log.Printf("Received signal: %v", sig)

			log.Println("Engine stopped successfully")
			return nil
		},
	}
}
