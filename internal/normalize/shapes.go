// Package normalize maps the loosely typed payloads fetched by the upstream
// adapters onto the canonical domain records. Upstream deployments have
// accreted several response layouts over time; each normalizer tries an
// ordered list of shape matchers and takes the first hit, so adding a new
// layout is one more entry, not another nested conditional. Normalizers
// never panic and never fail: missing fields take documented defaults and
// unrecognized payloads come back empty.
package normalize

import "strconv"

// shapeMatcher names one known payload layout and knows how to pull the
// record list out of it.
type shapeMatcher struct {
	name    string
	extract func(raw any) ([]any, bool)
}

// orderShapes are the known prediction-response layouts, in precedence
// order. The canonical already-normalized array is handled separately in
// Predictions before these run.
var orderShapes = []shapeMatcher{
	{
		name: "orders",
		extract: func(raw any) ([]any, bool) {
			return listUnder(rootOf(raw), "orders")
		},
	},
	{
		name: "data.orders",
		extract: func(raw any) ([]any, bool) {
			root, ok := rootOf(raw).(map[string]any)
			if !ok {
				return nil, false
			}
			return listUnder(root["data"], "orders")
		},
	},
}

// rootOf unwraps the single-element array envelope some deployments add.
func rootOf(raw any) any {
	if arr, ok := raw.([]any); ok {
		if len(arr) == 0 {
			return nil
		}
		return arr[0]
	}
	return raw
}

func listUnder(v any, key string) ([]any, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	list, ok := m[key].([]any)
	if !ok {
		return nil, false
	}
	return list, true
}

// extractOrders runs the shape matchers in order and returns the first
// matching order list.
func extractOrders(raw any) ([]any, bool) {
	for _, s := range orderShapes {
		if orders, ok := s.extract(raw); ok {
			return orders, true
		}
	}
	return nil, false
}

// asMap narrows an any to a JSON object, tolerating nil.
func asMap(v any) map[string]any {
	m, _ := v.(map[string]any)
	return m
}

// str returns the first non-empty string value among keys.
func str(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// num returns the first numeric value among keys, with ok=false when none
// is a number.
func num(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if f, ok := m[k].(float64); ok {
			return f, true
		}
	}
	return 0, false
}

// boolPtr returns a pointer to the value under key when it is an explicit
// JSON boolean, nil for null or absent.
func boolPtr(m map[string]any, key string) *bool {
	if b, ok := m[key].(bool); ok {
		return &b
	}
	return nil
}

// stringify renders a JSON scalar as a string. Numbers drop a trailing
// ".0"; identifiers arrive as either strings or numbers depending on the
// upstream flow version.
func stringify(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
