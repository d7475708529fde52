package models

import (
	"encoding/json"
	"testing"
)

func TestModeString(t *testing.T) {
	tests := []struct {
		mode Mode
		want string
	}{
		{ModeBaseline, "baseline"},
		{ModeLearned, "learned"},
		{ModeSplitTest, "split-test"},
		{Mode(0), "Mode(0)"},
		{Mode(9), "Mode(9)"},
	}
	for _, tt := range tests {
		if got := tt.mode.String(); got != tt.want {
			t.Errorf("Mode(%d).String() = %q, want %q", int(tt.mode), got, tt.want)
		}
	}
}

func TestParseMode(t *testing.T) {
	for _, m := range []Mode{ModeBaseline, ModeLearned, ModeSplitTest} {
		got, err := ParseMode(m.String())
		if err != nil {
			t.Errorf("ParseMode(%q): %v", m.String(), err)
		}
		if got != m {
			t.Errorf("ParseMode(%q) = %v, want %v", m.String(), got, m)
		}
	}
	if _, err := ParseMode("hybrid"); err == nil {
		t.Error(`ParseMode("hybrid") succeeded, want error`)
	}
}

func TestModeJSONRoundTrip(t *testing.T) {
	data, err := json.Marshal(ModeSplitTest)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != `"split-test"` {
		t.Errorf("Marshal = %s, want %q", data, "split-test")
	}

	var m Mode
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if m != ModeSplitTest {
		t.Errorf("round trip = %v, want %v", m, ModeSplitTest)
	}

	if _, err := json.Marshal(Mode(7)); err == nil {
		t.Error("Marshal of invalid mode succeeded, want error")
	}
	if err := json.Unmarshal([]byte(`"hybrid"`), &m); err == nil {
		t.Error(`Unmarshal of "hybrid" succeeded, want error`)
	}
}

func TestModeSQLRoundTrip(t *testing.T) {
	v, err := ModeLearned.Value()
	if err != nil {
		t.Fatalf("Value: %v", err)
	}
	s, ok := v.(string)
	if !ok || s != "learned" {
		t.Fatalf("Value = %#v, want the string %q", v, "learned")
	}

	var m Mode
	if err := m.Scan(s); err != nil {
		t.Fatalf("Scan(string): %v", err)
	}
	if m != ModeLearned {
		t.Errorf("Scan(string) = %v, want %v", m, ModeLearned)
	}

	if err := m.Scan([]byte("split-test")); err != nil {
		t.Fatalf("Scan([]byte): %v", err)
	}
	if m != ModeSplitTest {
		t.Errorf("Scan([]byte) = %v, want %v", m, ModeSplitTest)
	}

	if err := m.Scan(42); err == nil {
		t.Error("Scan(int) succeeded, want error")
	}
}
