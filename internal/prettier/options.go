package prettier

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"fortio.org/safecast"
)

// Options is the opaque option set passed through to a backend.
// Keys use prettier's camelCase option names.
type Options map[string]any

// DefaultOptions mirrors the prettier configuration of the Bruno GUI.
func DefaultOptions() Options {
	return Options{
		"semi":           false,
		"tabWidth":       2,
		"singleQuote":    false,
		"useTabs":        false,
		"bracketSpacing": false,
		"trailingComma":  "none",
		"endOfLine":      "lf",
	}
}

// Clone returns a shallow copy of o.
func (o Options) Clone() Options {
	out := make(Options, len(o))
	for k, v := range o {
		out[k] = v
	}
	return out
}

// Merge returns a copy of o with every key of over applied on top.
func (o Options) Merge(over Options) Options {
	out := o.Clone()
	for k, v := range over {
		out[k] = v
	}
	return out
}

// Bool returns the boolean option key, or def when it is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key].(bool); ok {
		return v
	}
	return def
}

// Int returns the integer option key, or def when it is missing or not integral.
func (o Options) Int(key string, def int) int {
	switch v := o[key].(type) {
	case int:
		return v
	case int64:
		if n, err := safecast.Conv[int](v); err == nil {
			return n
		}
	case uint64:
		if n, err := safecast.Conv[int](v); err == nil {
			return n
		}
	case float64:
		if n, err := safecast.Convert[int](v); err == nil {
			return n
		}
	}
	return def
}

// String returns the string option key, or def.
func (o Options) String(key, def string) string {
	if v, ok := o[key].(string); ok {
		return v
	}
	return def
}

// IndentUnit is the single level of indentation implied by useTabs/tabWidth.
func (o Options) IndentUnit() string {
	if o.Bool("useTabs", false) {
		return "\t"
	}
	width := o.Int("tabWidth", 2)
	if width < 0 {
		width = 0
	}
	return strings.Repeat(" ", width)
}

// negatable lists the boolean options prettier defaults to true; only these
// have a --no-name form on the CLI.
var negatable = map[string]bool{
	"semi":           true,
	"bracketSpacing": true,
}

// Flags renders o as prettier CLI flags in key order.
// true becomes --name, false becomes --no-name for negatable options and is
// omitted otherwise, anything else becomes --name=value.
// Keys holding objects or lists are skipped, the CLI cannot express them.
func (o Options) Flags() []string {
	keys := make([]string, 0, len(o))
	for k := range o {
		if k == "parser" || k == "plugins" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	flags := make([]string, 0, len(keys))
	for _, k := range keys {
		name := kebab(k)
		switch v := o[k].(type) {
		case bool:
			if v {
				flags = append(flags, "--"+name)
			} else if negatable[k] {
				flags = append(flags, "--no-"+name)
			}
		case string, int, int64, uint64, float64:
			flags = append(flags, fmt.Sprintf("--%s=%v", name, v))
		}
	}
	return flags
}

func kebab(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
