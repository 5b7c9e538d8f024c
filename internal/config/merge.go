package config

import "strings"

// Layer is one source of settings as a nested map keyed by section, the
// shape TOML, YAML and the environment all decode to. Keys are addressed
// with dotted paths such as "api.timeout".
type Layer map[string]any

// Overlay writes src over l and returns the result, allocating l when it is
// nil. Sections present in both are combined key by key; any other value
// in src replaces the one in l. Nothing in src is shared with the result.
func (l Layer) Overlay(src Layer) Layer {
	if l == nil {
		l = make(Layer, len(src))
	}
	overlay(l, src)
	return l
}

func overlay(dst, src map[string]any) {
	for k, v := range src {
		below, ok := dst[k].(map[string]any)
		above, isSection := v.(map[string]any)
		if ok && isSection {
			overlay(below, above)
			continue
		}
		dst[k] = deepCopy(v)
	}
}

func deepCopy(v any) any {
	switch v := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = deepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = deepCopy(e)
		}
		return out
	}
	return v
}

// Lookup returns the value at a dotted path.
func (l Layer) Lookup(path string) (any, bool) {
	var cur any = map[string]any(l)
	for _, key := range strings.Split(path, ".") {
		section, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = section[key]; !ok {
			return nil, false
		}
	}
	return cur, true
}

// Set stores v at a dotted path, creating sections on the way. A value
// sitting where a section is needed is replaced.
func (l Layer) Set(path string, v any) {
	keys := strings.Split(path, ".")
	section := map[string]any(l)
	for _, key := range keys[:len(keys)-1] {
		next, ok := section[key].(map[string]any)
		if !ok {
			next = make(map[string]any)
			section[key] = next
		}
		section = next
	}
	section[keys[len(keys)-1]] = v
}
