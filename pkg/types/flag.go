package types

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Flag is a boolean the ordering backend spells inconsistently: true/false,
// 0/1, or the strings "0"/"1". It marshals back out as 0/1, which is what
// the backend expects on writes.
type Flag bool

func (f Flag) Bool() bool {
	return bool(f)
}

// MarshalJSON emits 0/1 to match the backend convention.
func (f Flag) MarshalJSON() ([]byte, error) {
	if f {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (f *Flag) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*f = false
		return nil
	}

	var b bool
	if err := json.Unmarshal(trimmed, &b); err == nil {
		*f = Flag(b)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(trimmed, &n); err == nil {
		v, err := strconv.ParseFloat(n.String(), 64)
		if err != nil {
			return fmt.Errorf("flag: parse number %q: %w", n.String(), err)
		}
		*f = v != 0
		return nil
	}

	var s string
	if err := json.Unmarshal(trimmed, &s); err == nil {
		switch strings.TrimSpace(s) {
		case "", "0", "false":
			*f = false
		default:
			*f = true
		}
		return nil
	}

	return fmt.Errorf("flag: unsupported value %s", string(trimmed))
}
