package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Text is a string column that accepts a JSON string or number on input
// and keeps the literal text. "12.50" and 12.50 both store "12.50".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("models: text must be a string or number, got %s", b)
	}
	*t = Text(n.String())
	return nil
}

// Ptr returns a pointer to s, for building inputs in code.
func Ptr[T any](v T) *T { return &v }
