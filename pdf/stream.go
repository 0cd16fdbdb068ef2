package pdf

import (
	"fmt"

	"github.com/jeskokaiser/altfragen-io-backend/internal/filters"
)

// Decode decodes the stream payload according to the /Filter entry,
// applying filter chains in order. The result is cached, repeated calls
// are cheap.
//
// DCTDecode and JPXDecode data is returned as-is: these streams are
// complete image files and are handled downstream.
func (s *Stream) Decode() ([]byte, error) {
	if s.ran {
		return s.decoded, s.decErr
	}
	s.ran = true
	s.decoded, s.decErr = s.decode()
	return s.decoded, s.decErr
}

func (s *Stream) decode() ([]byte, error) {
	filterObj := s.Dict.Get("Filter")
	if filterObj == nil {
		return s.Raw, nil
	}

	paramsObj := s.Dict.Get("DecodeParms")

	if name, ok := filterObj.(Name); ok {
		return applyFilter(s.Raw, string(name), toFilterParams(paramsObj))
	}

	chain, ok := filterObj.(Array)
	if !ok {
		return nil, fmt.Errorf("invalid /Filter entry: %s", formatObject(filterObj))
	}

	data := s.Raw
	for i, elem := range chain {
		name, ok := elem.(Name)
		if !ok {
			return nil, fmt.Errorf("filter %d is not a name: %s", i, formatObject(elem))
		}

		var params filters.Params
		if paramsArr, ok := paramsObj.(Array); ok {
			if i < len(paramsArr) {
				params = toFilterParams(paramsArr[i])
			}
		} else {
			params = toFilterParams(paramsObj)
		}

		var err error
		data, err = applyFilter(data, string(name), params)
		if err != nil {
			return nil, fmt.Errorf("filter %d (%s): %w", i, name, err)
		}
	}
	return data, nil
}

// applyFilter applies a single named decompression filter.
func applyFilter(data []byte, name string, params filters.Params) ([]byte, error) {
	switch name {
	case "FlateDecode", "Fl":
		return filters.FlateDecode(data, params)
	case "ASCIIHexDecode", "AHx":
		return filters.ASCIIHexDecode(data)
	case "ASCII85Decode", "A85":
		return filters.ASCII85Decode(data)
	case "CCITTFaxDecode", "CCF":
		return filters.CCITTFaxDecode(data, params)
	case "DCTDecode", "DCT", "JPXDecode":
		return data, nil
	default:
		return nil, fmt.Errorf("unsupported filter: %s", name)
	}
}

// toFilterParams converts a DecodeParms dictionary to filter parameters,
// translating PDF object types to Go primitives.
func toFilterParams(obj Object) filters.Params {
	dict, ok := obj.(Dict)
	if !ok {
		return nil
	}
	params := make(filters.Params, len(dict))
	for k, v := range dict {
		switch val := v.(type) {
		case Int:
			params[k] = int(val)
		case Real:
			params[k] = float64(val)
		case Bool:
			params[k] = bool(val)
		case Name:
			params[k] = string(val)
		case String:
			params[k] = string(val)
		default:
			params[k] = v
		}
	}
	return params
}

// filterName returns the name of the innermost filter, which determines
// the format of the decoded payload. For chains that is the last entry.
func (s *Stream) filterName() string {
	switch v := s.Dict.Get("Filter").(type) {
	case Name:
		return string(v)
	case Array:
		if len(v) > 0 {
			if n, ok := v[len(v)-1].(Name); ok {
				return string(n)
			}
		}
	}
	return ""
}
