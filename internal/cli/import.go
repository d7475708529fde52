package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/config"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/database"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/excel"
)

func newImportCmd() *cobra.Command {
	importCfg := excel.DefaultImportConfig()

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a deck from an XLSX or CSV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			if err := database.Connect(cfg.DatabaseURL, cfg.DataDir); err != nil {
				return err
			}
			defer database.Close()

			importCfg.FilePath = args[0]
			result, err := excel.ImportDeck(cmd.Context(), importCfg)
			if err != nil {
				return err
			}

			fmt.Printf("Processed %d rows: %d created, %d skipped\n",
				result.TotalProcessed, result.Created, result.Skipped)
			for _, e := range result.Errors {
				fmt.Println("  warning:", e)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&importCfg.SheetName, "sheet", importCfg.SheetName, "sheet name for XLSX files")
	cmd.Flags().StringVar(&importCfg.PromptColumn, "prompt-col", importCfg.PromptColumn, "prompt column")
	cmd.Flags().StringVar(&importCfg.AnswerColumn, "answer-col", importCfg.AnswerColumn, "answer column")
	cmd.Flags().StringVar(&importCfg.DifficultyColumn, "difficulty-col", importCfg.DifficultyColumn, "optional difficulty column")
	cmd.Flags().IntVar(&importCfg.StartRow, "start-row", importCfg.StartRow, "first data row (1-based)")
	return cmd
}
