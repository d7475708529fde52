package excel

import "testing"

func TestColumnIndex(t *testing.T) {
	tests := []struct {
		column string
		want   int
	}{
		{"A", 0},
		{"B", 1},
		{"Z", 25},
		{"AA", 26},
		{"AB", 27},
		{"c", 2}, // case-insensitive
		{"", -1},
		{"1", -1},
		{"A1", -1},
	}
	for _, tt := range tests {
		if got := columnIndex(tt.column); got != tt.want {
			t.Errorf("columnIndex(%q) = %d, want %d", tt.column, got, tt.want)
		}
	}
}

func TestCellAt(t *testing.T) {
	row := []string{"prompt", " answer ", ""}
	tests := []struct {
		idx  int
		want string
	}{
		{0, "prompt"},
		{1, "answer"}, // trimmed
		{2, ""},
		{3, ""},  // past the row
		{-1, ""}, // unset column
	}
	for _, tt := range tests {
		if got := cellAt(row, tt.idx); got != tt.want {
			t.Errorf("cellAt(row, %d) = %q, want %q", tt.idx, got, tt.want)
		}
	}
}

func TestDefaultImportConfig(t *testing.T) {
	cfg := DefaultImportConfig()
	if cfg.PromptColumn != "A" || cfg.AnswerColumn != "B" || cfg.DifficultyColumn != "C" {
		t.Errorf("default columns = %s/%s/%s, want A/B/C",
			cfg.PromptColumn, cfg.AnswerColumn, cfg.DifficultyColumn)
	}
	if cfg.StartRow != 2 {
		t.Errorf("StartRow = %d, want 2 to skip the header", cfg.StartRow)
	}
	if cfg.SheetName != "Sheet1" {
		t.Errorf("SheetName = %q, want Sheet1", cfg.SheetName)
	}
}
