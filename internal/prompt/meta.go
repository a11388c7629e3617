package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// Field is one user metadata value: a scalar string or a list of strings.
type Field struct {
	Key    string
	Values []string
	List   bool
}

// Value returns the scalar value, or the first element of a list.
func (f Field) Value() string {
	if len(f.Values) == 0 {
		return ""
	}
	return f.Values[0]
}

// String renders key=value or key=[a, b].
func (f Field) String() string {
	if f.List {
		return fmt.Sprintf("%s=[%s]", f.Key, strings.Join(f.Values, ", "))
	}
	return f.Key + "=" + f.Value()
}

// Meta is user metadata in the order the keys appear in the [meta] block.
type Meta []Field

// Get returns the field stored under key.
func (m Meta) Get(key string) (Field, bool) {
	for _, f := range m {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// String renders all fields comma separated.
func (m Meta) String() string {
	parts := make([]string, len(m))
	for i, f := range m {
		parts[i] = f.String()
	}
	return strings.Join(parts, ", ")
}

// MarshalJSON encodes m as an object, keeping key order.
func (m Meta) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range m {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(f.Key)
		if err != nil {
			return nil, err
		}
		var val []byte
		if f.List {
			val, err = json.Marshal(nonNil(f.Values))
		} else {
			val, err = json.Marshal(f.Value())
		}
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// keyLine matches a top-level assignment and captures its bare or quoted key.
var keyLine = regexp.MustCompile(`^\s*(?:"([^"]*)"|'([^']*)'|([A-Za-z0-9_-]+))\s*=`)

// decodeMeta decodes a TOML table into Meta. Keys follow their order in raw;
// keys the line scan cannot place (dotted keys, sub-tables) are appended sorted.
func decodeMeta(raw string) (Meta, error) {
	var table map[string]any
	if err := toml.Unmarshal([]byte(raw), &table); err != nil {
		return nil, fmt.Errorf("decoding meta block: %w", err)
	}

	meta := make(Meta, 0, len(table))
	placed := make(map[string]bool, len(table))
	for line := range strings.SplitSeq(raw, "\n") {
		m := keyLine.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		key := m[1] + m[2] + m[3]
		val, ok := table[key]
		if !ok || placed[key] {
			continue
		}
		placed[key] = true
		meta = append(meta, newField(key, val))
	}

	for _, key := range slices.Sorted(maps.Keys(table)) {
		if !placed[key] {
			meta = append(meta, newField(key, table[key]))
		}
	}
	return meta, nil
}

func newField(key string, val any) Field {
	list, ok := val.([]any)
	if !ok {
		return Field{Key: key, Values: []string{scalarString(val)}}
	}
	values := make([]string, len(list))
	for i, v := range list {
		values[i] = scalarString(v)
	}
	return Field{Key: key, Values: values, List: true}
}

func scalarString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
