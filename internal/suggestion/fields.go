package suggestion

import (
	"bytes"
	"encoding/json"
	"math"
	"strconv"
)

// ID is an identifier that may arrive as a JSON string or a JSON number.
// The zero value is an absent identifier.
type ID struct {
	value   string
	numeric bool
	set     bool
}

// StringID returns an identifier that was supplied as a string.
func StringID(s string) ID {
	return ID{value: s, set: true}
}

// NumberID returns an identifier that was supplied as a number.
func NumberID(n float64) ID {
	return ID{value: formatNumber(n), numeric: true, set: true}
}

// IsSet reports whether the identifier was present at all. An empty string
// counts as present.
func (id ID) IsSet() bool { return id.set }

// IsZero lets encoding/json omit absent identifiers with omitzero.
func (id ID) IsZero() bool { return !id.set }

// String returns the identifier in string form; numbers are formatted
// without a trailing fraction.
func (id ID) String() string { return id.value }

func (id ID) MarshalJSON() ([]byte, error) {
	if !id.set {
		return []byte("null"), nil
	}
	if id.numeric {
		return []byte(id.value), nil
	}
	return json.Marshal(id.value)
}

// UnmarshalJSON accepts strings and numbers. null and any other JSON kind
// leave the identifier absent rather than failing the whole payload.
func (id *ID) UnmarshalJSON(b []byte) error {
	*id = ID{}
	b = bytes.TrimSpace(b)
	if len(b) == 0 {
		return nil
	}
	switch b[0] {
	case '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = StringID(s)
	case '-', '0', '1', '2', '3', '4', '5', '6', '7', '8', '9':
		// out of range numbers stay absent
		if n, err := strconv.ParseFloat(string(b), 64); err == nil {
			*id = NumberID(n)
		}
	}
	return nil
}

// idFromValue converts a value decoded into an untyped map.
func idFromValue(v any) (ID, bool) {
	switch t := v.(type) {
	case string:
		return StringID(t), true
	case float64:
		return NumberID(t), true
	case json.Number:
		n, err := t.Float64()
		if err != nil {
			return ID{}, false
		}
		return NumberID(n), true
	case int:
		return NumberID(float64(t)), true
	case int64:
		return NumberID(float64(t)), true
	case ID:
		return t, t.set
	}
	return ID{}, false
}

func formatNumber(n float64) string {
	if math.IsInf(n, 0) || math.IsNaN(n) {
		return strconv.FormatFloat(n, 'g', -1, 64)
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Metrics maps a metric name to its display value. Numeric and boolean
// values from the backend are kept in their string form.
type Metrics map[string]string

func (m *Metrics) UnmarshalJSON(b []byte) error {
	*m = nil
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		// not an object
		return nil
	}
	out := make(Metrics, len(raw))
	for k, v := range raw {
		v = bytes.TrimSpace(v)
		if len(v) == 0 || bytes.Equal(v, []byte("null")) {
			continue
		}
		if v[0] == '"' {
			var s string
			if err := json.Unmarshal(v, &s); err == nil {
				out[k] = s
			}
			continue
		}
		out[k] = string(v)
	}
	*m = out
	return nil
}

// Record is a free-form JSON object. A non-object value decodes to nil.
type Record map[string]any

func (r *Record) UnmarshalJSON(b []byte) error {
	*r = nil
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil
	}
	*r = m
	return nil
}

func isNull(b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}

func isObject(b []byte) bool {
	b = bytes.TrimSpace(b)
	return len(b) > 0 && b[0] == '{'
}

// text holds an optional string field. Values of any other JSON kind decode
// as absent.
type text struct{ v *string }

func (t *text) UnmarshalJSON(b []byte) error {
	t.v = nil
	var s string
	if isNull(b) || json.Unmarshal(b, &s) != nil {
		return nil
	}
	t.v = &s
	return nil
}

func (t text) value() string {
	if t.v == nil {
		return ""
	}
	return *t.v
}

// number holds an optional numeric field. Strings, booleans and out of range
// numbers decode as absent.
type number struct{ v *float64 }

func (n *number) UnmarshalJSON(b []byte) error {
	n.v = nil
	var f float64
	if isNull(b) || json.Unmarshal(b, &f) != nil {
		return nil
	}
	n.v = &f
	return nil
}

// textList keeps the string elements of an array and skips the rest. A
// non-array value decodes as absent.
type textList []string

func (l *textList) UnmarshalJSON(b []byte) error {
	*l = nil
	var raw []json.RawMessage
	if isNull(b) || json.Unmarshal(b, &raw) != nil {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, r := range raw {
		var s string
		if !isNull(r) && json.Unmarshal(r, &s) == nil {
			out = append(out, s)
		}
	}
	*l = out
	return nil
}
