package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// StringList is an ordered list of strings stored as a JSON text column.
// Values that are not a JSON array (older rows, clients sending a plain
// string) decode as a single-element list instead of failing.
type StringList []string

// ParseStringList decodes s as a JSON array of strings, falling back to a
// one element list holding s.
func ParseStringList(s string) StringList {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return StringList{}
	}
	var out []string
	if err := json.Unmarshal([]byte(trimmed), &out); err == nil {
		if out == nil {
			return StringList{}
		}
		return StringList(out)
	}
	return StringList{s}
}

func (l StringList) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(l))
}

func (l *StringList) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	switch {
	case trimmed == "null":
		*l = nil
		return nil
	case strings.HasPrefix(trimmed, "["):
		var out []string
		if err := json.Unmarshal(data, &out); err != nil {
			return fmt.Errorf("list must contain only strings: %w", err)
		}
		*l = StringList(out)
		return nil
	case strings.HasPrefix(trimmed, `"`):
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*l = ParseStringList(s)
		return nil
	default:
		return fmt.Errorf("list must be an array or a string, got %s", trimmed)
	}
}

// Value implements driver.Valuer.
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = StringList{}
	case string:
		*l = ParseStringList(v)
	case []byte:
		*l = ParseStringList(string(v))
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
	return nil
}

// LooseInt accepts a JSON number or a numeric string.
type LooseInt int

func (n *LooseInt) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		trimmed = strings.TrimSpace(s)
	}
	v, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fmt.Errorf("expected a number, got %s", string(data))
	}
	if v != float64(int(v)) {
		return fmt.Errorf("expected a whole number, got %s", trimmed)
	}
	*n = LooseInt(v)
	return nil
}
