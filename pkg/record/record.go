// Package record defines the flat record and column schema types shared by
// parsers, the batch collector, and the CSV sink.
package record

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Record is one flat data row produced by a parser for a single item.
// Keys are field names; values are whatever the upstream JSON contained.
// A Record carries no schema: the sink decides which fields survive on write.
type Record map[string]any

// Schema is an ordered list of column names, fixed per output file.
// Order determines the header row and the per-row cell order.
type Schema []string

// Contains reports whether the schema includes the given column.
func (s Schema) Contains(column string) bool {
	for _, c := range s {
		if c == column {
			return true
		}
	}
	return false
}

// Field returns the record's value for the given field formatted as a CSV
// cell. Missing fields and nil values yield the empty string. Scalar values
// format naturally; nested arrays and objects are serialized as compact JSON
// so no upstream structure is lost in the flat file.
func (r Record) Field(name string) string {
	v, ok := r[name]
	if !ok || v == nil {
		return ""
	}
	return formatValue(v)
}

func formatValue(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		// JSON numbers decode as float64; keep integers free of exponents
		// and trailing zeros so IDs stay readable.
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(b)
	}
}
