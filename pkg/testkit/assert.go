package testkit

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// AssertSubset fails t when actual does not contain expected. Both are raw
// JSON documents.
func AssertSubset(t *testing.T, name string, expected, actual []byte) bool {
	t.Helper()

	var exp, act any
	if err := json.Unmarshal(expected, &exp); err != nil {
		t.Errorf("[%s] expectation is not valid JSON: %v", name, err)
		return false
	}
	if !assert.NoError(t, json.Unmarshal(actual, &act), "[%s] response is not JSON: %s", name, actual) {
		return false
	}

	if diffs := Diff("", exp, act); len(diffs) > 0 {
		t.Errorf("[%s] response does not match:\n%s\nbody: %s", name, strings.Join(diffs, "\n"), actual)
		return false
	}
	return true
}

// Diff lists where actual departs from expected. Objects in actual may carry
// keys expected does not mention.
func Diff(path string, expected, actual any) []string {
	var diffs []string
	switch exp := expected.(type) {
	case map[string]any:
		act, ok := actual.(map[string]any)
		if !ok {
			return []string{fmt.Sprintf("  %s: expected object, got %T", keyPath(path), actual)}
		}
		for k, ev := range exp {
			p := keyPath(path) + "." + k
			av, exists := act[k]
			if !exists {
				diffs = append(diffs, fmt.Sprintf("  %s: missing", p))
				continue
			}
			diffs = append(diffs, Diff(p, ev, av)...)
		}
	case []any:
		act, ok := actual.([]any)
		if !ok {
			return []string{fmt.Sprintf("  %s: expected array, got %T", keyPath(path), actual)}
		}
		if len(exp) != len(act) {
			diffs = append(diffs, fmt.Sprintf("  %s: length expected=%d actual=%d", keyPath(path), len(exp), len(act)))
		}
		for i := 0; i < len(exp) && i < len(act); i++ {
			diffs = append(diffs, Diff(fmt.Sprintf("%s[%d]", keyPath(path), i), exp[i], act[i])...)
		}
	default:
		if fmt.Sprint(expected) != fmt.Sprint(actual) {
			diffs = append(diffs, fmt.Sprintf("  %s:\n    - %v\n    + %v", keyPath(path), expected, actual))
		}
	}
	return diffs
}

func keyPath(path string) string {
	if path == "" {
		return "root"
	}
	return strings.TrimPrefix(path, ".")
}
