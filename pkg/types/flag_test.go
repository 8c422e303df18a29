package types

import (
	"encoding/json"
	"testing"
)

func TestFlagUnmarshalVariants(t *testing.T) {
	tests := []struct {
		raw  string
		want bool
	}{
		{`true`, true},
		{`false`, false},
		{`1`, true},
		{`0`, false},
		{`"1"`, true},
		{`"0"`, false},
		{`"true"`, true},
		{`""`, false},
		{`null`, false},
	}

	for _, tt := range tests {
		var f Flag
		if err := json.Unmarshal([]byte(tt.raw), &f); err != nil {
			t.Fatalf("unmarshal %s: %v", tt.raw, err)
		}
		if f.Bool() != tt.want {
			t.Fatalf("raw %s: expected %v, got %v", tt.raw, tt.want, f.Bool())
		}
	}
}

func TestFlagMarshalAsDigit(t *testing.T) {
	on, err := json.Marshal(Flag(true))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(on) != "1" {
		t.Fatalf("expected 1, got %s", on)
	}
	off, err := json.Marshal(Flag(false))
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(off) != "0" {
		t.Fatalf("expected 0, got %s", off)
	}
}
