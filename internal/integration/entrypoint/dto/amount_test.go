package dto

import (
	"encoding/json"
	"testing"
)

func TestFlexibleString_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
		wantErr  bool
	}{
		{"string", `{"amount":"120.50"}`, "120.50", false},
		{"integer", `{"amount":120}`, "120", false},
		{"decimal", `{"amount":120.5}`, "120.5", false},
		{"null", `{"amount":null}`, "", false},
		{"missing", `{}`, "", false},
		{"non numeric string is kept", `{"amount":"abc"}`, "abc", false},
		{"object", `{"amount":{}}`, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CreateCheckRequest
			err := json.Unmarshal([]byte(tt.body), &req)
			if (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
			if !tt.wantErr && req.Amount.String() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, req.Amount.String())
			}
		})
	}
}
