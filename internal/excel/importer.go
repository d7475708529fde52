package excel

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/maxjeffwell/spaced-repetition-capstone-server/internal/database"
	"github.com/maxjeffwell/spaced-repetition-capstone-server/pkg/models"
)

// ImportConfig defines the deck import configuration
type ImportConfig struct {
	FilePath         string // Path to the Excel or CSV file
	PromptColumn     string // Column with the card prompt
	AnswerColumn     string // Column with the expected answer
	DifficultyColumn string // Optional column with an initial difficulty in [0,1]
	SheetName        string // Name of the sheet to import
	StartRow         int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default deck import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		PromptColumn:     "A",
		AnswerColumn:     "B",
		DifficultyColumn: "C",
		SheetName:        "Sheet1",
		StartRow:         2, // By default, start from the second row (skip header)
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Created        int
	Skipped        int
	Errors         []string
}

// ImportDeck imports cards from an Excel or CSV file
func ImportDeck(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	ext := strings.ToLower(filepath.Ext(config.FilePath))
	if ext == ".csv" {
		return importFromCSV(ctx, config)
	}
	return importFromExcel(ctx, config)
}

func importFromExcel(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", config.SheetName, err)
	}

	promptIdx := columnIndex(config.PromptColumn)
	answerIdx := columnIndex(config.AnswerColumn)
	difficultyIdx := columnIndex(config.DifficultyColumn)

	result := &ImportResult{}
	repo := database.NewCardRepository()

	for i, row := range rows {
		if i+1 < config.StartRow {
			continue
		}
		result.TotalProcessed++

		prompt := cellAt(row, promptIdx)
		answer := cellAt(row, answerIdx)
		if prompt == "" || answer == "" {
			result.Skipped++
			continue
		}

		card := models.NewCard(prompt, answer)
		if d := cellAt(row, difficultyIdx); d != "" {
			if v, err := strconv.ParseFloat(d, 64); err == nil && v >= 0 && v <= 1 {
				card.Difficulty = v
			}
		}

		if err := repo.Create(ctx, card); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", i+1, err))
			result.Skipped++
			continue
		}
		result.Created++
	}

	return result, nil
}

func importFromCSV(ctx context.Context, config ImportConfig) (*ImportResult, error) {
	f, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv file: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1

	promptIdx := columnIndex(config.PromptColumn)
	answerIdx := columnIndex(config.AnswerColumn)
	difficultyIdx := columnIndex(config.DifficultyColumn)

	result := &ImportResult{}
	repo := database.NewCardRepository()

	for line := 1; ; line++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, err))
			continue
		}
		if line < config.StartRow {
			continue
		}
		result.TotalProcessed++

		prompt := cellAt(row, promptIdx)
		answer := cellAt(row, answerIdx)
		if prompt == "" || answer == "" {
			result.Skipped++
			continue
		}

		card := models.NewCard(prompt, answer)
		if d := cellAt(row, difficultyIdx); d != "" {
			if v, err := strconv.ParseFloat(d, 64); err == nil && v >= 0 && v <= 1 {
				card.Difficulty = v
			}
		}

		if err := repo.Create(ctx, card); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", line, err))
			result.Skipped++
			continue
		}
		result.Created++
	}

	return result, nil
}

// columnIndex converts an "A"-style column name to a zero-based index,
// returning -1 for empty names
func columnIndex(column string) int {
	if column == "" {
		return -1
	}
	idx := 0
	for _, c := range strings.ToUpper(column) {
		if c < 'A' || c > 'Z' {
			return -1
		}
		idx = idx*26 + int(c-'A') + 1
	}
	return idx - 1
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
