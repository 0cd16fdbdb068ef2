package pdf

import (
	"fmt"
	"strconv"
	"strings"
)

// Object is any parsed PDF value: Null, Bool, Int, Real, String, Name,
// Array, Dict, *Stream or Ref.
type Object interface{}

// Null represents the PDF null object.
type Null struct{}

// Bool represents a PDF boolean.
type Bool bool

// Int represents a PDF integer.
type Int int64

// Real represents a PDF real number.
type Real float64

// String represents a PDF string. Literal and hex strings both decode to
// this type.
type String string

// Name represents a PDF name without the leading slash.
type Name string

// Array represents a PDF array.
type Array []Object

// Floats converts the array to a float64 slice. The second return value
// is false if any element is not numeric.
func (a Array) Floats() ([]float64, bool) {
	out := make([]float64, len(a))
	for i, elem := range a {
		f, ok := toFloat(elem)
		if !ok {
			return nil, false
		}
		out[i] = f
	}
	return out, true
}

// Dict represents a PDF dictionary.
type Dict map[string]Object

// Get retrieves a value from the dictionary.
func (d Dict) Get(key string) Object {
	return d[key]
}

// Has checks if a key exists in the dictionary.
func (d Dict) Has(key string) bool {
	_, ok := d[key]
	return ok
}

// GetName retrieves a name value.
func (d Dict) GetName(key string) (Name, bool) {
	n, ok := d[key].(Name)
	return n, ok
}

// GetInt retrieves an integer value.
func (d Dict) GetInt(key string) (Int, bool) {
	i, ok := d[key].(Int)
	return i, ok
}

// GetArray retrieves an array value.
func (d Dict) GetArray(key string) (Array, bool) {
	a, ok := d[key].(Array)
	return a, ok
}

// GetDict retrieves a dictionary value.
func (d Dict) GetDict(key string) (Dict, bool) {
	sub, ok := d[key].(Dict)
	return sub, ok
}

// GetFloat retrieves a numeric value as float64.
func (d Dict) GetFloat(key string) (float64, bool) {
	return toFloat(d[key])
}

// Stream represents a PDF stream object: a dictionary followed by a raw
// binary payload.
type Stream struct {
	Dict Dict
	Raw  []byte

	decoded []byte
	decErr  error
	ran     bool
}

func (s *Stream) String() string {
	return fmt.Sprintf("stream (%d bytes)", len(s.Raw))
}

// Ref represents an indirect object reference "n g R".
type Ref struct {
	Number     int
	Generation int
}

func (r Ref) String() string {
	return fmt.Sprintf("%d %d R", r.Number, r.Generation)
}

// toFloat converts a numeric PDF object to float64.
func toFloat(obj Object) (float64, bool) {
	switch v := obj.(type) {
	case Int:
		return float64(v), true
	case Real:
		return float64(v), true
	}
	return 0, false
}

// formatObject renders an object for error messages.
func formatObject(obj Object) string {
	switch v := obj.(type) {
	case nil:
		return "<nil>"
	case Null:
		return "null"
	case Bool:
		return strconv.FormatBool(bool(v))
	case Int:
		return strconv.FormatInt(int64(v), 10)
	case Real:
		return strconv.FormatFloat(float64(v), 'f', -1, 64)
	case String:
		return "(" + string(v) + ")"
	case Name:
		return "/" + string(v)
	case Array:
		parts := make([]string, len(v))
		for i, elem := range v {
			parts[i] = formatObject(elem)
		}
		return "[" + strings.Join(parts, " ") + "]"
	case Dict:
		return fmt.Sprintf("<<%d entries>>", len(v))
	default:
		return fmt.Sprintf("%v", v)
	}
}
