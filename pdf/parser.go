package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// parser parses PDF objects from an in-memory byte slice. The same parser
// is used for file-level objects, trailer dictionaries and the contents of
// object streams.
type parser struct {
	data []byte
	pos  int

	// doc resolves indirect references while parsing, needed when a
	// stream /Length is itself an indirect object. May be nil.
	doc *Document
}

func newParser(data []byte) *parser {
	return &parser{data: data}
}

// skipSpace advances past whitespace and comments.
func (p *parser) skipSpace() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isSpace(c) {
			p.pos++
			continue
		}
		if c == '%' {
			for p.pos < len(p.data) && p.data[p.pos] != '\r' && p.data[p.pos] != '\n' {
				p.pos++
			}
			continue
		}
		break
	}
}

// parseValue parses the next object: null, boolean, number, string, name,
// array, dictionary or indirect reference.
func (p *parser) parseValue() (Object, error) {
	p.skipSpace()
	if p.pos >= len(p.data) {
		return nil, fmt.Errorf("unexpected end of data")
	}

	c := p.data[p.pos]
	switch {
	case c == '/':
		return p.parseName()
	case c == '(':
		return p.parseLiteralString()
	case c == '[':
		return p.parseArray()
	case c == '<':
		if p.pos+1 < len(p.data) && p.data[p.pos+1] == '<' {
			return p.parseDict()
		}
		return p.parseHexString()
	case c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9'):
		return p.parseNumberOrRef()
	}

	switch kw := p.readKeyword(); kw {
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	case "null":
		return Null{}, nil
	case "":
		return nil, fmt.Errorf("unexpected character %q at offset %d", c, p.pos)
	default:
		return nil, fmt.Errorf("unexpected keyword %q at offset %d", kw, p.pos)
	}
}

// readKeyword reads a run of ASCII letters without consuming anything else.
func (p *parser) readKeyword() string {
	start := p.pos
	for p.pos < len(p.data) && isLetter(p.data[p.pos]) {
		p.pos++
	}
	return string(p.data[start:p.pos])
}

// readNumberToken reads an optionally signed decimal number token.
func (p *parser) readNumberToken() string {
	start := p.pos
	if p.pos < len(p.data) && (p.data[p.pos] == '-' || p.data[p.pos] == '+') {
		p.pos++
	}
	sawDot := false
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
		} else if c == '.' && !sawDot {
			sawDot = true
			p.pos++
		} else {
			break
		}
	}
	return string(p.data[start:p.pos])
}

// parseNumberOrRef parses a number, detecting the "num gen R" indirect
// reference pattern by lookahead with backtracking.
func (p *parser) parseNumberOrRef() (Object, error) {
	tok := p.readNumberToken()
	if tok == "" {
		return nil, fmt.Errorf("invalid number at offset %d", p.pos)
	}

	if strings.Contains(tok, ".") {
		f, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real number %q: %w", tok, err)
		}
		return Real(f), nil
	}

	n, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q: %w", tok, err)
	}

	// Lookahead for "gen R".
	save := p.pos
	p.skipSpace()
	genTok := p.readNumberToken()
	if genTok != "" && !strings.Contains(genTok, ".") {
		if gen, err := strconv.Atoi(genTok); err == nil && gen >= 0 && n >= 0 {
			p.skipSpace()
			if p.pos < len(p.data) && p.data[p.pos] == 'R' &&
				(p.pos+1 >= len(p.data) || !isRegular(p.data[p.pos+1])) {
				p.pos++
				return Ref{Number: int(n), Generation: gen}, nil
			}
		}
	}
	p.pos = save
	return Int(n), nil
}

// parseLiteralString parses (...) with escape and nesting handling.
func (p *parser) parseLiteralString() (Object, error) {
	p.pos++ // skip '('
	var buf bytes.Buffer
	depth := 1

	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++

		switch c {
		case '(':
			depth++
			buf.WriteByte(c)
		case ')':
			depth--
			if depth == 0 {
				return String(buf.String()), nil
			}
			buf.WriteByte(c)
		case '\\':
			if p.pos >= len(p.data) {
				return nil, fmt.Errorf("unterminated escape in string")
			}
			esc := p.data[p.pos]
			p.pos++
			switch esc {
			case 'n':
				buf.WriteByte('\n')
			case 'r':
				buf.WriteByte('\r')
			case 't':
				buf.WriteByte('\t')
			case 'b':
				buf.WriteByte('\b')
			case 'f':
				buf.WriteByte('\f')
			case '(', ')', '\\':
				buf.WriteByte(esc)
			case '\r':
				// Line continuation, swallow an optional LF too.
				if p.pos < len(p.data) && p.data[p.pos] == '\n' {
					p.pos++
				}
			case '\n':
			case '0', '1', '2', '3', '4', '5', '6', '7':
				val := int(esc - '0')
				for i := 0; i < 2 && p.pos < len(p.data); i++ {
					d := p.data[p.pos]
					if d < '0' || d > '7' {
						break
					}
					val = val*8 + int(d-'0')
					p.pos++
				}
				buf.WriteByte(byte(val))
			default:
				buf.WriteByte(esc)
			}
		default:
			buf.WriteByte(c)
		}
	}
	return nil, fmt.Errorf("unterminated string")
}

// parseHexString parses <...>. An odd trailing digit implies a trailing 0.
func (p *parser) parseHexString() (Object, error) {
	p.pos++ // skip '<'
	var buf bytes.Buffer
	var hi byte
	haveHi := false

	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		if c == '>' {
			if haveHi {
				buf.WriteByte(hi << 4)
			}
			return String(buf.String()), nil
		}
		if isSpace(c) {
			continue
		}
		if !isHexDigit(c) {
			return nil, fmt.Errorf("invalid hex digit %q in string", c)
		}
		if !haveHi {
			hi = hexVal(c)
			haveHi = true
		} else {
			buf.WriteByte(hi<<4 | hexVal(c))
			haveHi = false
		}
	}
	return nil, fmt.Errorf("unterminated hex string")
}

// parseName parses /Name with # escape handling.
func (p *parser) parseName() (Object, error) {
	p.pos++ // skip '/'
	var buf bytes.Buffer

	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isSpace(c) || isDelimiter(c) {
			break
		}
		if c == '#' && p.pos+2 < len(p.data) &&
			isHexDigit(p.data[p.pos+1]) && isHexDigit(p.data[p.pos+2]) {
			buf.WriteByte(hexVal(p.data[p.pos+1])<<4 | hexVal(p.data[p.pos+2]))
			p.pos += 3
			continue
		}
		buf.WriteByte(c)
		p.pos++
	}
	return Name(buf.String()), nil
}

func (p *parser) parseArray() (Object, error) {
	p.pos++ // skip '['
	var arr Array

	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unterminated array")
		}
		if p.data[p.pos] == ']' {
			p.pos++
			return arr, nil
		}
		obj, err := p.parseValue()
		if err != nil {
			return nil, fmt.Errorf("array element: %w", err)
		}
		arr = append(arr, obj)
	}
}

func (p *parser) parseDict() (Object, error) {
	p.pos += 2 // skip '<<'
	dict := make(Dict)

	for {
		p.skipSpace()
		if p.pos+1 < len(p.data) && p.data[p.pos] == '>' && p.data[p.pos+1] == '>' {
			p.pos += 2
			return dict, nil
		}
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unterminated dictionary")
		}
		if p.data[p.pos] != '/' {
			return nil, fmt.Errorf("dictionary key at offset %d is not a name", p.pos)
		}
		keyObj, err := p.parseName()
		if err != nil {
			return nil, err
		}
		key := string(keyObj.(Name))

		value, err := p.parseValue()
		if err != nil {
			return nil, fmt.Errorf("value for key /%s: %w", key, err)
		}
		dict[key] = value
	}
}

// parseIndirect parses "num gen obj <value> [stream ...] endobj" at the
// current position.
func (p *parser) parseIndirect() (int, int, Object, error) {
	p.skipSpace()
	numTok := p.readNumberToken()
	num, err := strconv.Atoi(numTok)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("invalid object number %q: %w", numTok, err)
	}

	p.skipSpace()
	genTok := p.readNumberToken()
	gen, err := strconv.Atoi(genTok)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("invalid generation %q: %w", genTok, err)
	}

	p.skipSpace()
	if kw := p.readKeyword(); kw != "obj" {
		return 0, 0, nil, fmt.Errorf("expected obj keyword, got %q", kw)
	}

	obj, err := p.parseValue()
	if err != nil {
		return 0, 0, nil, fmt.Errorf("object %d body: %w", num, err)
	}

	save := p.pos
	p.skipSpace()
	switch kw := p.readKeyword(); kw {
	case "stream":
		dict, ok := obj.(Dict)
		if !ok {
			return 0, 0, nil, fmt.Errorf("object %d: stream keyword after %s", num, formatObject(obj))
		}
		stream, err := p.parseStreamBody(dict)
		if err != nil {
			return 0, 0, nil, fmt.Errorf("object %d: %w", num, err)
		}
		obj = stream
		p.skipSpace()
		p.readKeyword() // optional endobj
	case "endobj":
	default:
		// Tolerate a missing endobj, the next object boundary is found
		// through the xref table anyway.
		p.pos = save
	}

	return num, gen, obj, nil
}

// parseStreamBody reads the binary payload after the stream keyword. The
// /Length entry gives the size; if it is missing or unusable the payload
// extends to the endstream keyword.
func (p *parser) parseStreamBody(dict Dict) (*Stream, error) {
	// A single EOL follows the stream keyword.
	if p.pos < len(p.data) && p.data[p.pos] == '\r' {
		p.pos++
	}
	if p.pos < len(p.data) && p.data[p.pos] == '\n' {
		p.pos++
	}

	length := -1
	switch v := dict.Get("Length").(type) {
	case Int:
		length = int(v)
	case Ref:
		if p.doc != nil {
			if resolved, err := p.doc.resolveRef(v); err == nil {
				if n, ok := resolved.(Int); ok {
					length = int(n)
				}
			}
		}
	}

	if length >= 0 && p.pos+length <= len(p.data) {
		candidate := p.data[p.pos : p.pos+length]
		rest := p.data[p.pos+length:]
		if streamEndFollows(rest) {
			p.pos += length
			p.skipSpace()
			p.readKeyword() // endstream
			return &Stream{Dict: dict, Raw: candidate}, nil
		}
	}

	// Length was wrong, fall back to scanning for endstream.
	idx := bytes.Index(p.data[p.pos:], []byte("endstream"))
	if idx < 0 {
		return nil, fmt.Errorf("stream missing endstream keyword")
	}
	raw := p.data[p.pos : p.pos+idx]
	raw = bytes.TrimRight(raw, "\r\n")
	p.pos += idx + len("endstream")
	return &Stream{Dict: dict, Raw: raw}, nil
}

// streamEndFollows checks that data starts with optional whitespace and the
// endstream keyword.
func streamEndFollows(data []byte) bool {
	i := 0
	for i < len(data) && isSpace(data[i]) {
		i++
	}
	return bytes.HasPrefix(data[i:], []byte("endstream"))
}

// Byte classification helpers.

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' ||
		c == '/' || c == '%'
}

func isRegular(c byte) bool {
	return !isSpace(c) && !isDelimiter(c)
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexVal(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
