package filters

// Params holds decode parameters from a PDF stream dictionary. Values come
// from parsed PDF objects, so numeric entries may arrive as int, int64 or
// float64.
type Params map[string]interface{}

// Int returns the integer value for key, or def if the key is missing or
// not numeric.
func (p Params) Int(key string, def int) int {
	if p == nil {
		return def
	}
	switch v := p[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// Bool returns the boolean value for key, or def if the key is missing or
// not a boolean.
func (p Params) Bool(key string, def bool) bool {
	if p == nil {
		return def
	}
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}
