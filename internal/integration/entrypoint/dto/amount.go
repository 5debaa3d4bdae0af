package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FlexibleString accepts a JSON string or number and keeps its literal text.
// Amounts arrive either way and are validated as decimals downstream.
type FlexibleString string

// UnmarshalJSON implements json.Unmarshaler.
func (f *FlexibleString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexibleString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("amount must be a string or number: %w", err)
	}
	*f = FlexibleString(n.String())
	return nil
}

// String returns the literal text.
func (f FlexibleString) String() string {
	return string(f)
}
