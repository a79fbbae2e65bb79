package domain

import (
	"fmt"
	"sort"
	"strings"
)

// option is one key/value pair of an Options bag.
type option struct {
	Key   string
	Value string
}

// Options is an immutable, ordered set of string pairs.
// Entries are kept sorted by key so that two bags with the same content compare
// equal and print identically, regardless of construction order.
// The zero value is an empty bag and is ready to use.
type Options struct {
	entries []option
}

// NewOptions builds a bag from alternating key/value arguments.
// A repeated key keeps its last value. An odd trailing key is ignored.
func NewOptions(pairs ...string) Options {
	var o Options
	for i := 0; i+1 < len(pairs); i += 2 {
		o = o.With(pairs[i], pairs[i+1])
	}
	return o
}

// OptionsFromMap builds a bag from a map.
func OptionsFromMap(m map[string]string) Options {
	o := Options{entries: make([]option, 0, len(m))}
	for k, v := range m {
		o.entries = append(o.entries, option{Key: k, Value: v})
	}
	sort.Slice(o.entries, func(i, j int) bool { return o.entries[i].Key < o.entries[j].Key })
	return o
}

// ParseOptions parses the canonical "key=value,key=value" form produced by String.
// Whitespace around keys and values is trimmed; an empty string yields an empty bag.
func ParseOptions(s string) (Options, error) {
	var o Options
	s = strings.TrimSpace(s)
	if s == "" {
		return o, nil
	}

	for _, field := range strings.Split(s, ",") {
		key, value, ok := strings.Cut(field, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return Options{}, fmt.Errorf("%w: malformed option %q", ErrInvalidOptions, field)
		}
		o = o.With(key, strings.TrimSpace(value))
	}

	return o, nil
}

func (o Options) find(key string) (int, bool) {
	i := sort.Search(len(o.entries), func(i int) bool { return o.entries[i].Key >= key })
	return i, i < len(o.entries) && o.entries[i].Key == key
}

// Get returns the value stored under key, or def when the key is absent.
func (o Options) Get(key, def string) string {
	if i, ok := o.find(key); ok {
		return o.entries[i].Value
	}
	return def
}

// Has reports whether key is present.
func (o Options) Has(key string) bool {
	_, ok := o.find(key)
	return ok
}

// With returns a copy of the bag with key set to value.
func (o Options) With(key, value string) Options {
	i, ok := o.find(key)
	entries := make([]option, 0, len(o.entries)+1)
	entries = append(entries, o.entries[:i]...)
	entries = append(entries, option{Key: key, Value: value})
	if ok {
		entries = append(entries, o.entries[i+1:]...)
	} else {
		entries = append(entries, o.entries[i:]...)
	}
	return Options{entries: entries}
}

// Merge returns a bag holding both sets of entries; values from other win.
func (o Options) Merge(other Options) Options {
	merged := o
	for _, e := range other.entries {
		merged = merged.With(e.Key, e.Value)
	}
	return merged
}

// Keys returns the keys in sorted order.
func (o Options) Keys() []string {
	keys := make([]string, len(o.entries))
	for i, e := range o.entries {
		keys[i] = e.Key
	}
	return keys
}

// Len returns the number of entries.
func (o Options) Len() int { return len(o.entries) }

// Map returns a copy of the entries as a map.
func (o Options) Map() map[string]string {
	m := make(map[string]string, len(o.entries))
	for _, e := range o.entries {
		m[e.Key] = e.Value
	}
	return m
}

// Equal reports whether both bags hold the same entries.
func (o Options) Equal(other Options) bool {
	if len(o.entries) != len(other.entries) {
		return false
	}
	for i := range o.entries {
		if o.entries[i] != other.entries[i] {
			return false
		}
	}
	return true
}

// Less orders bags lexicographically by their sorted entries.
func (o Options) Less(other Options) bool {
	for i := 0; i < len(o.entries) && i < len(other.entries); i++ {
		a, b := o.entries[i], other.entries[i]
		if a.Key != b.Key {
			return a.Key < b.Key
		}
		if a.Value != b.Value {
			return a.Value < b.Value
		}
	}
	return len(o.entries) < len(other.entries)
}

// String returns the canonical "key=value,key=value" form.
func (o Options) String() string {
	var sb strings.Builder
	for i, e := range o.entries {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(e.Key)
		sb.WriteByte('=')
		sb.WriteString(e.Value)
	}
	return sb.String()
}
