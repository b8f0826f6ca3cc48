package domain

import "strings"

// Context holds the values accumulated during one run, keyed by output
// key. Seed entries (call_id, filename, audio) share the same namespace
// as node outputs. One Context is owned exclusively by one run and is
// never shared across runs.
type Context map[string]any

// NewContext builds a context pre-populated with the given seed values.
func NewContext(seed map[string]any) Context {
	c := make(Context, len(seed))
	for k, v := range seed {
		c[k] = v
	}
	return c
}

// Set stores a value under a key, overwriting any previous value. Later
// writes win, which lets nodes be revisited across cycles without
// corrupting unrelated keys.
func (c Context) Set(key string, value any) {
	c[key] = value
}

// Lookup resolves a possibly dotted key path ("metadata.flag") against
// the context, descending through nested map values.
func (c Context) Lookup(key string) (any, bool) {
	parts := strings.Split(key, ".")
	var cur any = map[string]any(c)
	for _, part := range parts {
		m, ok := cur.(map[string]any)
		if !ok {
			if mc, isCtx := cur.(Context); isCtx {
				m = mc
			} else {
				return nil, false
			}
		}
		cur, ok = m[part]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Clone returns a shallow copy. Values are shared; writing keys on the
// copy does not affect the original.
func (c Context) Clone() Context {
	out := make(Context, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}

// Project returns a copy containing only the given keys. Empty keys
// means the whole context.
func (c Context) Project(keys []string) map[string]any {
	if len(keys) == 0 {
		return c.Clone()
	}
	out := make(map[string]any, len(keys))
	for _, k := range keys {
		if v, ok := c[k]; ok {
			out[k] = v
		}
	}
	return out
}
