// Package properties codecs PID configuration files: ordered key=value
// text blobs, the on-disk form of a <pid>.properties file.
package properties

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
)

// Map is an ordered key/value properties document. Key order is the order
// keys were first set; it round-trips through Encode/Decode but carries no
// semantic weight: callers compare configurations key-wise, not by order.
type Map struct {
	keys   []string
	values map[string]string
}

// New returns an empty Map.
func New() *Map {
	return &Map{values: make(map[string]string)}
}

// Set stores key=value, appending key to the order if it is new.
func (m *Map) Set(key, value string) {
	if m.values == nil {
		m.values = make(map[string]string)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key and whether it was present.
func (m *Map) Get(key string) (string, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Delete removes key.
func (m *Map) Delete(key string) {
	if _, ok := m.values[key]; !ok {
		return
	}
	delete(m.values, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Len reports the number of entries.
func (m *Map) Len() int {
	return len(m.keys)
}

// ToMap returns a plain map[string]string snapshot.
func (m *Map) ToMap() map[string]string {
	out := make(map[string]string, len(m.keys))
	for _, k := range m.keys {
		out[k] = m.values[k]
	}
	return out
}

// FromMap builds a Map from a plain map[string]string. Since a Go map has
// no stable iteration order, keys are sorted lexically to keep Encode
// deterministic across calls with the same input.
func FromMap(in map[string]string) *Map {
	m := New()
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.Set(k, in[k])
	}
	return m
}

// Encode renders m as "key = value\n" lines, one per entry, in key order.
func Encode(m *Map) []byte {
	var buf bytes.Buffer
	for _, k := range m.keys {
		fmt.Fprintf(&buf, "%s = %s\n", k, m.values[k])
	}
	return buf.Bytes()
}

// Decode parses a properties blob. Blank lines and lines beginning with
// '#' or '!' are skipped. A line's first unescaped '=' or ':' separates
// key from value; surrounding whitespace on either side is trimmed.
func Decode(data []byte) (*Map, error) {
	m := New()
	for _, rawLine := range strings.Split(string(data), "\n") {
		line := strings.TrimRight(rawLine, "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, "!") {
			continue
		}

		idx := splitIndex(trimmed)
		if idx < 0 {
			// A key with no value is legal; treat as key with empty value.
			m.Set(trimmed, "")
			continue
		}

		key := strings.TrimSpace(trimmed[:idx])
		value := strings.TrimSpace(trimmed[idx+1:])
		if key == "" {
			return nil, fmt.Errorf("properties: empty key in line %q", trimmed)
		}
		m.Set(key, value)
	}
	return m, nil
}

// splitIndex finds the first unescaped '=' or ':' in s, -1 if none.
func splitIndex(s string) int {
	for i := 0; i < len(s); i++ {
		if (s[i] == '=' || s[i] == ':') && (i == 0 || s[i-1] != '\\') {
			return i
		}
	}
	return -1
}

