package graph

// PropertyMap holds the free-form properties of a node or edge record.
// Values come straight from the decoder, so callers read them through the
// typed accessors below rather than asserting shapes inline.
type PropertyMap map[string]any

// Has reports whether the property exists, regardless of its value.
func (p PropertyMap) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// String returns the property as a string. The second return is false when
// the property is absent or holds a non-string value.
func (p PropertyMap) String(key string) (string, bool) {
	v, ok := p[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// StringList returns the property as a list of strings. A scalar string is
// promoted to a one-element list. List values skip non-string elements. The
// second return is false when the property is absent or holds neither a
// string nor a list.
func (p PropertyMap) StringList(key string) ([]string, bool) {
	v, ok := p[key]
	if !ok {
		return nil, false
	}
	switch val := v.(type) {
	case string:
		return []string{val}, true
	case []string:
		out := make([]string, len(val))
		copy(out, val)
		return out, true
	case []any:
		out := make([]string, 0, len(val))
		for _, elem := range val {
			if s, ok := elem.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}
