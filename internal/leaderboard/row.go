package leaderboard

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Field is a single key/value pair of a Row.
type Field struct {
	Key   string
	Value any
}

// Row maps column keys to displayable scalars and remembers the order in
// which keys were first set.
type Row struct {
	keys   []string
	values map[string]any
}

// NewRow builds a Row from fields. A repeated key keeps its first position and
// its last value.
func NewRow(fields ...Field) Row {
	r := Row{values: make(map[string]any, len(fields))}
	for _, f := range fields {
		if _, ok := r.values[f.Key]; !ok {
			r.keys = append(r.keys, f.Key)
		}
		r.values[f.Key] = f.Value
	}
	return r
}

// Keys returns the row's keys in insertion order.
func (r Row) Keys() []string {
	return append([]string(nil), r.keys...)
}

// Get returns the value stored under key.
func (r Row) Get(key string) (any, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Len reports the number of keys.
func (r Row) Len() int {
	return len(r.keys)
}

// Fields returns the row contents in insertion order.
func (r Row) Fields() []Field {
	out := make([]Field, 0, len(r.keys))
	for _, k := range r.keys {
		out = append(out, Field{Key: k, Value: r.values[k]})
	}
	return out
}

// MarshalJSON encodes the row as an object with keys in insertion order.
func (r Row) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range r.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(r.values[k])
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", k, err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping its key order. Numbers are kept
// as json.Number so integers render without exponent notation.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("row must be a JSON object, got %v", tok)
	}

	out := Row{values: make(map[string]any)}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected object key %v", tok)
		}
		var value any
		if err := dec.Decode(&value); err != nil {
			return fmt.Errorf("decode %q: %w", key, err)
		}
		if _, seen := out.values[key]; !seen {
			out.keys = append(out.keys, key)
		}
		out.values[key] = value
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}

// FormatValue coerces a cell value to its display string. A missing value
// renders as "undefined" and a null value as "null".
func FormatValue(v any, ok bool) string {
	if !ok {
		return "undefined"
	}
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	case json.Number:
		if f, err := val.Float64(); err == nil && !isIntegerLiteral(val.String()) {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
		return val.String()
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case int32:
		return strconv.FormatInt(int64(val), 10)
	case uint64:
		return strconv.FormatUint(val, 10)
	case bool:
		return strconv.FormatBool(val)
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprint(val)
	}
}

func isIntegerLiteral(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if c == '-' && i == 0 {
			continue
		}
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}

func cloneRows(rows []Row) []Row {
	if rows == nil {
		return nil
	}
	dup := make([]Row, len(rows))
	copy(dup, rows)
	return dup
}
