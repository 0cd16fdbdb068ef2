package pdf

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/jeskokaiser/altfragen-io-backend/model"
)

// TextLine is a line of page text in top-down coordinates: Top is the
// upper edge of the line, Bottom the lower edge.
type TextLine struct {
	Text   string
	X      float64
	Top    float64
	Bottom float64
}

// textFragment is a single text-showing operation in device coordinates
// (PDF bottom-up space) before line assembly.
type textFragment struct {
	text string
	x, y float64
	size float64
}

// imageUse records a Do operator that painted an XObject, with the
// placement rectangle in top-down coordinates.
type imageUse struct {
	name string
	bbox model.BBox
}

// inlineImage records a BI..EI inline image with its placement.
type inlineImage struct {
	dict Dict
	data []byte
	bbox model.BBox
}

// interpreter walks a content stream tracking the graphics and text
// matrices, collecting text fragments and image placements.
type interpreter struct {
	pageHeight float64

	ctm      model.Matrix
	ctmStack []model.Matrix

	tm, tlm  model.Matrix
	leading  float64
	fontSize float64

	fragments []textFragment
	images    []imageUse
	inline    []inlineImage
}

func newInterpreter(pageHeight float64) *interpreter {
	return &interpreter{
		pageHeight: pageHeight,
		ctm:        model.Identity(),
		fontSize:   12,
	}
}

// run interprets the content stream operations.
func (in *interpreter) run(data []byte) error {
	p := newParser(data)
	var stack []Object

	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			return nil
		}

		c := p.data[p.pos]
		if isLetter(c) || c == '\'' || c == '"' {
			op := readOperator(p)
			switch op {
			case "true":
				stack = append(stack, Bool(true))
				continue
			case "false":
				stack = append(stack, Bool(false))
				continue
			case "null":
				stack = append(stack, Null{})
				continue
			case "BI":
				if err := in.readInlineImage(p); err != nil {
					return err
				}
				stack = stack[:0]
				continue
			}
			in.apply(op, stack)
			stack = stack[:0]
			continue
		}

		operand, err := p.parseValue()
		if err != nil {
			return fmt.Errorf("content stream: %w", err)
		}
		stack = append(stack, operand)
	}
}

// readOperator reads an operator token: letters plus the ', " and *
// characters used by the text operators.
func readOperator(p *parser) string {
	start := p.pos
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isLetter(c) || c == '\'' || c == '"' || c == '*' || (c >= '0' && c <= '9') {
			p.pos++
		} else {
			break
		}
	}
	return string(p.data[start:p.pos])
}

// apply executes one operator. Unknown operators are ignored, only the
// state needed for text and image geometry is tracked.
func (in *interpreter) apply(op string, stack []Object) {
	switch op {
	case "q":
		in.ctmStack = append(in.ctmStack, in.ctm)
	case "Q":
		if n := len(in.ctmStack); n > 0 {
			in.ctm = in.ctmStack[n-1]
			in.ctmStack = in.ctmStack[:n-1]
		}
	case "cm":
		if m, ok := matrixOperands(stack); ok {
			in.ctm = m.Multiply(in.ctm)
		}
	case "BT":
		in.tm = model.Identity()
		in.tlm = model.Identity()
	case "ET":
	case "Tf":
		if len(stack) >= 2 {
			if size, ok := toFloat(stack[len(stack)-1]); ok && size > 0 {
				in.fontSize = size
			}
		}
	case "TL":
		if len(stack) >= 1 {
			if l, ok := toFloat(stack[0]); ok {
				in.leading = l
			}
		}
	case "Tm":
		if m, ok := matrixOperands(stack); ok {
			in.tlm = m
			in.tm = m
		}
	case "Td":
		in.textMove(stack)
	case "TD":
		if len(stack) >= 2 {
			if ty, ok := toFloat(stack[1]); ok {
				in.leading = -ty
			}
		}
		in.textMove(stack)
	case "T*":
		in.nextLine()
	case "Tj":
		if len(stack) >= 1 {
			in.showText(stack[len(stack)-1])
		}
	case "'":
		in.nextLine()
		if len(stack) >= 1 {
			in.showText(stack[len(stack)-1])
		}
	case "\"":
		in.nextLine()
		if len(stack) >= 3 {
			in.showText(stack[2])
		}
	case "TJ":
		if len(stack) >= 1 {
			if arr, ok := stack[len(stack)-1].(Array); ok {
				var buf strings.Builder
				for _, elem := range arr {
					if s, ok := elem.(String); ok {
						buf.WriteString(decodeTextBytes([]byte(s)))
					}
				}
				in.emitText(buf.String())
			}
		}
	case "Do":
		if len(stack) >= 1 {
			if name, ok := stack[0].(Name); ok {
				in.images = append(in.images, imageUse{
					name: string(name),
					bbox: in.placementBBox(),
				})
			}
		}
	}
}

// matrixOperands converts six numeric operands into a matrix.
func matrixOperands(stack []Object) (model.Matrix, bool) {
	if len(stack) < 6 {
		return model.Matrix{}, false
	}
	var m model.Matrix
	for i := 0; i < 6; i++ {
		v, ok := toFloat(stack[len(stack)-6+i])
		if !ok {
			return model.Matrix{}, false
		}
		m[i] = v
	}
	return m, true
}

func (in *interpreter) textMove(stack []Object) {
	if len(stack) < 2 {
		return
	}
	tx, ok1 := toFloat(stack[0])
	ty, ok2 := toFloat(stack[1])
	if !ok1 || !ok2 {
		return
	}
	in.tlm = model.Translate(tx, ty).Multiply(in.tlm)
	in.tm = in.tlm
}

func (in *interpreter) nextLine() {
	in.tlm = model.Translate(0, -in.leading).Multiply(in.tlm)
	in.tm = in.tlm
}

func (in *interpreter) showText(operand Object) {
	s, ok := operand.(String)
	if !ok {
		return
	}
	in.emitText(decodeTextBytes([]byte(s)))
}

// emitText records a fragment at the current text position in device
// space.
func (in *interpreter) emitText(text string) {
	if text == "" {
		return
	}
	origin := in.tm.Multiply(in.ctm).Transform(model.Point{})
	size := in.scaledFontSize()
	in.fragments = append(in.fragments, textFragment{
		text: text,
		x:    origin.X,
		y:    origin.Y,
		size: size,
	})
}

// scaledFontSize approximates the rendered font size by scaling the
// nominal size through the text and transformation matrices.
func (in *interpreter) scaledFontSize() float64 {
	combined := in.tm.Multiply(in.ctm)
	scale := math.Sqrt(math.Abs(combined[0]*combined[3] - combined[1]*combined[2]))
	if scale == 0 {
		scale = 1
	}
	size := in.fontSize * scale
	if size <= 0 {
		size = 12
	}
	return size
}

// placementBBox maps the unit square through the current transformation
// matrix and converts to top-down coordinates.
func (in *interpreter) placementBBox() model.BBox {
	corners := []model.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, c := range corners {
		p := in.ctm.Transform(c)
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return model.BBox{
		X0: minX,
		Y0: in.pageHeight - maxY,
		X1: maxX,
		Y1: in.pageHeight - minY,
	}
}

// readInlineImage consumes a BI .. ID .. EI sequence, recording the image
// with the current placement.
func (in *interpreter) readInlineImage(p *parser) error {
	dict := make(Dict)
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			return fmt.Errorf("unterminated inline image")
		}
		if p.data[p.pos] == '/' {
			keyObj, err := p.parseName()
			if err != nil {
				return err
			}
			value, err := p.parseValue()
			if err != nil {
				return err
			}
			dict[string(keyObj.(Name))] = value
			continue
		}
		if kw := p.readKeyword(); kw == "ID" {
			break
		} else if kw == "" {
			return fmt.Errorf("malformed inline image dictionary")
		}
	}

	// A single whitespace byte separates ID from the binary data.
	if p.pos < len(p.data) && isSpace(p.data[p.pos]) {
		p.pos++
	}

	end := findInlineEnd(p.data, p.pos)
	if end < 0 {
		return fmt.Errorf("inline image missing EI")
	}
	data := bytes.TrimRight(p.data[p.pos:end], " \t\r\n")
	p.pos = end + 2 // past EI

	in.inline = append(in.inline, inlineImage{
		dict: dict,
		data: data,
		bbox: in.placementBBox(),
	})
	return nil
}

// findInlineEnd finds the EI keyword terminating inline image data. EI
// must be preceded by whitespace and followed by whitespace or EOF to
// avoid matching binary bytes.
func findInlineEnd(data []byte, from int) int {
	for i := from; i+1 < len(data); i++ {
		if data[i] != 'E' || data[i+1] != 'I' {
			continue
		}
		if i > from && !isSpace(data[i-1]) {
			continue
		}
		if i+2 < len(data) && !isSpace(data[i+2]) {
			continue
		}
		return i
	}
	return -1
}

// decodeTextBytes maps string bytes to text. Printable ASCII passes
// through and high bytes are treated as Latin-1, which covers the
// umlauts in WinAnsi encoded exams.
func decodeTextBytes(raw []byte) string {
	var buf strings.Builder
	for _, b := range raw {
		switch {
		case b == '\r' || b == '\n' || b == '\t':
			buf.WriteByte(' ')
		case b >= 0x20 && b < 0x7f:
			buf.WriteByte(b)
		case b >= 0xa0:
			buf.WriteRune(rune(b))
		}
	}
	return buf.String()
}

// lineTolerance groups fragments whose baselines differ by no more than
// this many PDF units into one line.
const lineTolerance = 2.0

// TextLines extracts the text of the page as positioned lines, sorted top
// to bottom.
func (p *Page) TextLines() ([]TextLine, error) {
	data, err := p.contentData()
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, nil
	}

	in := newInterpreter(p.Height())
	if err := in.run(data); err != nil {
		return nil, fmt.Errorf("page %d: %w", p.Index, err)
	}
	return assembleLines(in.fragments, p.Height()), nil
}

// assembleLines groups fragments by baseline and produces top-down lines.
func assembleLines(fragments []textFragment, pageHeight float64) []TextLine {
	if len(fragments) == 0 {
		return nil
	}

	sorted := make([]textFragment, len(fragments))
	copy(sorted, fragments)
	sort.SliceStable(sorted, func(i, j int) bool {
		if math.Abs(sorted[i].y-sorted[j].y) > lineTolerance {
			return sorted[i].y > sorted[j].y // higher on page first
		}
		return sorted[i].x < sorted[j].x
	})

	var lines []TextLine
	var current []textFragment
	flush := func() {
		if len(current) == 0 {
			return
		}
		var buf strings.Builder
		maxSize := 0.0
		baseline := current[0].y
		for i, f := range current {
			if i > 0 && !strings.HasSuffix(buf.String(), " ") {
				buf.WriteByte(' ')
			}
			buf.WriteString(f.text)
			if f.size > maxSize {
				maxSize = f.size
			}
			if f.y < baseline {
				baseline = f.y
			}
		}
		lines = append(lines, TextLine{
			Text:   buf.String(),
			X:      current[0].x,
			Top:    pageHeight - baseline - maxSize,
			Bottom: pageHeight - baseline,
		})
		current = current[:0]
	}

	for _, f := range sorted {
		if len(current) > 0 && math.Abs(f.y-current[0].y) > lineTolerance {
			flush()
		}
		current = append(current, f)
	}
	flush()
	return lines
}

// Text returns the page text with one line per text row.
func (p *Page) Text() (string, error) {
	lines, err := p.TextLines()
	if err != nil {
		return "", err
	}
	parts := make([]string, len(lines))
	for i, line := range lines {
		parts[i] = line.Text
	}
	return strings.Join(parts, "\n"), nil
}

// Text returns the text of all pages joined with newlines. Pages that
// fail to parse contribute nothing.
func (d *Document) Text() string {
	var parts []string
	for _, page := range d.pages {
		text, err := page.Text()
		if err != nil {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, "\n")
}
