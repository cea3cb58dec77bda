package buildbot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Properties is a build's property map, flattened on decode.
//
// On the wire every property is a two-element array of value and source
// ("branch": ["main", "Force Build Form"]). Only the value is kept.
type Properties map[string]json.RawMessage

// UnmarshalJSON flattens [value, source] pairs into values.
func (p *Properties) UnmarshalJSON(data []byte) error {
	var raw map[string][]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("properties: %w", err)
	}
	flat := make(Properties, len(raw))
	for name, pair := range raw {
		if len(pair) == 0 {
			return fmt.Errorf("properties: %s: empty value/source pair", name)
		}
		flat[name] = pair[0]
	}
	*p = flat
	return nil
}

// Get returns a property as a string. Numbers are returned in their
// JSON text form. ok is false for absent or null properties.
func (p Properties) Get(name string) (value string, ok bool) {
	raw, exists := p[name]
	if !exists || isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s, true
	}
	return string(bytes.TrimSpace(raw)), true
}

// Int returns a property as an int. Numeric strings and integral floats
// ("3.0") are accepted.
func (p Properties) Int(name string) (value int, ok bool, err error) {
	raw, exists := p[name]
	if !exists || isNull(raw) {
		return 0, false, nil
	}
	text := string(bytes.TrimSpace(raw))
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		text = strings.TrimSpace(s)
	}
	if n, err := strconv.Atoi(text); err == nil {
		return n, true, nil
	}
	if f, err := strconv.ParseFloat(text, 64); err == nil && f == math.Trunc(f) && math.Abs(f) <= maxExactInt {
		return int(f), true, nil
	}
	return 0, false, fmt.Errorf("property %s: %s is not an integer", name, raw)
}

// maxExactInt is the largest magnitude a float64 holds without rounding.
const maxExactInt = 1 << 53

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
