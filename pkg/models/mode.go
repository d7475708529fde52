package models

import (
	"database/sql/driver"
	"encoding"
	"encoding/json"
	"fmt"
)

// Mode selects which algorithm schedules a learner's reviews.
type Mode int

const (
	ModeBaseline  Mode = iota + 1 // SM-2 baseline only.
	ModeLearned                   // Learned model, baseline as fallback.
	ModeSplitTest                 // Deterministic per-card A/B split.
)

var (
	modeNames = [...]string{ModeBaseline: "baseline", ModeLearned: "learned", ModeSplitTest: "split-test"}

	modeByName = map[string]Mode{
		"baseline":   ModeBaseline,
		"learned":    ModeLearned,
		"split-test": ModeSplitTest,
	}
)

// Compile-time interface checks.
var (
	_ fmt.Stringer             = Mode(0)
	_ json.Marshaler           = Mode(0)
	_ json.Unmarshaler         = (*Mode)(nil)
	_ encoding.TextMarshaler   = Mode(0)
	_ encoding.TextUnmarshaler = (*Mode)(nil)
)

// IsValid reports whether m is one of the three defined modes.
func (m Mode) IsValid() bool {
	return m >= ModeBaseline && m <= ModeSplitTest
}

// String returns the mode name ("baseline", "learned", "split-test").
// For invalid values it returns "Mode(n)".
func (m Mode) String() string {
	if m.IsValid() {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	m, ok := modeByName[s]
	if !ok {
		return 0, fmt.Errorf("models: invalid mode: %q", s)
	}
	return m, nil
}

// Value implements driver.Valuer; modes are stored by name.
func (m Mode) Value() (driver.Value, error) {
	text, err := m.MarshalText()
	if err != nil {
		return nil, err
	}
	return string(text), nil
}

// Scan implements sql.Scanner.
func (m *Mode) Scan(src interface{}) error {
	switch v := src.(type) {
	case string:
		return m.UnmarshalText([]byte(v))
	case []byte:
		return m.UnmarshalText(v)
	default:
		return fmt.Errorf("models: cannot scan %T into Mode", src)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if !m.IsValid() {
		return nil, fmt.Errorf("models: invalid mode: %d", int(m))
	}
	return []byte(modeNames[m]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalJSON implements json.Marshaler. Mode serializes as a JSON string.
func (m Mode) MarshalJSON() ([]byte, error) {
	text, err := m.MarshalText()
	if err != nil {
		return nil, err
	}
	return json.Marshal(string(text))
}

// UnmarshalJSON implements json.Unmarshaler. Expects a JSON string.
func (m *Mode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("models: invalid mode: %s", data)
	}
	return m.UnmarshalText([]byte(s))
}
