package filters

import (
	"bytes"
	"fmt"
)

// ASCIIHexDecode decodes ASCII hexadecimal encoded data. Whitespace is
// ignored and > marks end of data. An odd trailing digit is treated as if
// followed by 0.
func ASCIIHexDecode(data []byte) ([]byte, error) {
	var out bytes.Buffer
	var hi byte
	haveHi := false

	for _, c := range data {
		if isWhitespace(c) {
			continue
		}
		if c == '>' {
			break
		}
		v, err := hexValue(c)
		if err != nil {
			return nil, err
		}
		if !haveHi {
			hi = v
			haveHi = true
		} else {
			out.WriteByte(hi<<4 | v)
			haveHi = false
		}
	}
	if haveHi {
		out.WriteByte(hi << 4)
	}
	return out.Bytes(), nil
}

// ASCII85Decode decodes ASCII base-85 encoded data. Each group of five
// characters in the range '!' to 'u' encodes four bytes, 'z' is shorthand
// for four zero bytes, and ~> marks end of data.
func ASCII85Decode(data []byte) ([]byte, error) {
	var out bytes.Buffer
	group := make([]byte, 0, 5)

	flush := func() {
		n := len(group) - 1
		if n > 4 {
			n = 4
		}
		for len(group) < 5 {
			group = append(group, 84) // pad with 'u'
		}
		var value uint32
		for _, d := range group {
			value = value*85 + uint32(d)
		}
		for j := 0; j < n; j++ {
			out.WriteByte(byte(value >> (24 - j*8)))
		}
		group = group[:0]
	}

	for i := 0; i < len(data); i++ {
		c := data[i]
		if isWhitespace(c) {
			continue
		}
		if c == '~' && i+1 < len(data) && data[i+1] == '>' {
			break
		}
		if c == 'z' && len(group) == 0 {
			out.Write([]byte{0, 0, 0, 0})
			continue
		}
		if c < '!' || c > 'u' {
			return nil, fmt.Errorf("invalid ASCII85 character: %c", c)
		}
		group = append(group, c-'!')
		if len(group) == 5 {
			flush()
		}
	}
	if len(group) > 0 {
		flush()
	}
	return out.Bytes(), nil
}

// hexValue converts a hexadecimal character to its numeric value.
func hexValue(c byte) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', nil
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, nil
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, nil
	}
	return 0, fmt.Errorf("invalid hex digit: %c", c)
}

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}
