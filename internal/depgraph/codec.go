package depgraph

import (
	"bytes"
	"encoding/json"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Report describes what Deserialize had to discard.
type Report struct {
	// InvalidInput is set when the input was not an object at all.
	InvalidInput bool `json:"invalid_input,omitempty"`
	// DroppedEntries counts keys discarded entirely: non-numeric keys,
	// non-array values, and entries left empty after cleaning.
	DroppedEntries int `json:"dropped_entries"`
	// DroppedValues counts array elements that could not be read as
	// integers.
	DroppedValues int `json:"dropped_values"`
}

// Clean reports whether the input was decoded without losing anything.
func (r Report) Clean() bool {
	return !r.InvalidInput && r.DroppedEntries == 0 && r.DroppedValues == 0
}

// Serialize returns the wire form of g: string keys, fresh slices, and no
// empty entries.
func Serialize(g Graph) map[string][]int {
	out := make(map[string][]int, len(g))
	for dependent, prereqs := range g {
		if len(prereqs) == 0 {
			continue
		}
		out[strconv.Itoa(dependent)] = append([]int(nil), prereqs...)
	}
	return out
}

// Marshal encodes g in the wire format.
func Marshal(g Graph) ([]byte, error) {
	return json.Marshal(Serialize(g))
}

// Deserialize rebuilds a graph from wire data, dropping anything malformed.
// See DeserializeWithReport.
func Deserialize(data any) Graph {
	g, _ := DeserializeWithReport(data)
	return g
}

// DeserializeWithReport rebuilds a graph from wire data and reports what was
// dropped.
//
// data is typically a map[string]any from json.Unmarshal, but typed graphs
// are accepted too. nil or non-object input yields an empty graph. Keys must
// be decimal integers; values must be arrays. Array elements are coerced to
// int: numbers are truncated, decimal strings are parsed, and anything else
// is dropped. An entry left with no prerequisites is removed.
//
// Values are otherwise kept as stored: the result is not checked for
// self-loops, duplicates or cycles. Use Rebuild to enforce the invariants.
func DeserializeWithReport(data any) (Graph, Report) {
	var report Report
	raw := map[string]any{}

	switch v := data.(type) {
	case nil:
		return New(), report
	case Graph:
		for k, ids := range v {
			raw[strconv.Itoa(k)] = ids
		}
	case map[int][]int:
		for k, ids := range v {
			raw[strconv.Itoa(k)] = ids
		}
	case map[string][]int:
		for k, ids := range v {
			raw[k] = ids
		}
	case map[string]any:
		raw = v
	default:
		report.InvalidInput = true
		return New(), report
	}

	// Sorted keys make merging of aliases like "2" and "02" deterministic.
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	g := New()
	for _, key := range keys {
		dependent, err := strconv.Atoi(strings.TrimSpace(key))
		if err != nil {
			report.DroppedEntries++
			continue
		}

		values, ok := toSlice(raw[key])
		if !ok {
			report.DroppedEntries++
			continue
		}

		for _, value := range values {
			p, ok := toInt(value)
			if !ok {
				report.DroppedValues++
				continue
			}
			g[dependent] = append(g[dependent], p)
		}

		if _, kept := g[dependent]; !kept {
			report.DroppedEntries++
		}
	}

	return g, report
}

// Unmarshal decodes wire-format JSON tolerantly. Empty input is an empty
// graph; input that is not valid JSON is reported as InvalidInput.
func Unmarshal(data []byte) (Graph, Report) {
	if len(bytes.TrimSpace(data)) == 0 {
		return New(), Report{}
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return New(), Report{InvalidInput: true}
	}
	return DeserializeWithReport(v)
}

func toSlice(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []int:
		out := make([]any, len(s))
		for i, id := range s {
			out[i] = id
		}
		return out, true
	case []float64:
		out := make([]any, len(s))
		for i, id := range s {
			out[i] = id
		}
		return out, true
	}
	return nil, false
}

func toInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return floatToInt(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i), true
		}
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return floatToInt(f)
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func floatToInt(f float64) (int, bool) {
	if math.IsNaN(f) || f >= float64(math.MaxInt) || f < float64(math.MinInt) {
		return 0, false
	}
	return int(math.Trunc(f)), true
}
