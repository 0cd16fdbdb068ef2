package pdf

import (
	"fmt"
)

// defaultPageHeight is used when a page carries no usable MediaBox.
// It matches an A4 page in PDF units.
const defaultPageHeight = 842.0

// Page is a single page of a Document.
type Page struct {
	doc    *Document
	dict   Dict
	parent Dict // nearest Pages ancestor, for inheritable attributes

	// Index is the zero-based position in document order.
	Index int
}

// inherited looks up an attribute on the page, falling back to the parent
// node for inheritable keys.
func (p *Page) inherited(key string) Object {
	if obj := p.dict.Get(key); obj != nil {
		return obj
	}
	if p.parent != nil {
		return p.parent.Get(key)
	}
	return nil
}

// MediaBox returns the page rectangle [x0 y0 x1 y1] in PDF units.
func (p *Page) MediaBox() ([]float64, error) {
	obj := p.inherited("MediaBox")
	if obj == nil {
		return nil, fmt.Errorf("page %d: no MediaBox", p.Index)
	}
	resolved, err := p.doc.resolve(obj)
	if err != nil {
		return nil, fmt.Errorf("page %d: resolve MediaBox: %w", p.Index, err)
	}
	arr, ok := resolved.(Array)
	if !ok || len(arr) != 4 {
		return nil, fmt.Errorf("page %d: malformed MediaBox", p.Index)
	}
	box, ok := arr.Floats()
	if !ok {
		return nil, fmt.Errorf("page %d: non-numeric MediaBox", p.Index)
	}
	return box, nil
}

// Width returns the page width in PDF units.
func (p *Page) Width() float64 {
	if box, err := p.MediaBox(); err == nil {
		return box[2] - box[0]
	}
	return 0
}

// Height returns the page height in PDF units, falling back to a standard
// A4 height when the MediaBox is missing or broken.
func (p *Page) Height() float64 {
	if box, err := p.MediaBox(); err == nil {
		if h := box[3] - box[1]; h > 0 {
			return h
		}
	}
	return defaultPageHeight
}

// Resources returns the page resources dictionary, which may be inherited.
func (p *Page) Resources() (Dict, error) {
	obj := p.inherited("Resources")
	if obj == nil {
		return nil, nil
	}
	return p.doc.resolveDict(obj)
}

// contentData returns the decoded content streams of the page,
// concatenated in order.
func (p *Page) contentData() ([]byte, error) {
	contentsObj := p.dict.Get("Contents")
	if contentsObj == nil {
		return nil, nil
	}

	resolved, err := p.doc.resolve(contentsObj)
	if err != nil {
		return nil, fmt.Errorf("page %d: resolve Contents: %w", p.Index, err)
	}

	var streams []*Stream
	switch v := resolved.(type) {
	case *Stream:
		streams = append(streams, v)
	case Array:
		for i, elem := range v {
			elemResolved, err := p.doc.resolve(elem)
			if err != nil {
				return nil, fmt.Errorf("page %d: resolve Contents[%d]: %w", p.Index, i, err)
			}
			if s, ok := elemResolved.(*Stream); ok {
				streams = append(streams, s)
			}
		}
	default:
		return nil, fmt.Errorf("page %d: invalid Contents type", p.Index)
	}

	var data []byte
	for _, s := range streams {
		decoded, err := s.Decode()
		if err != nil {
			return nil, fmt.Errorf("page %d: decode content stream: %w", p.Index, err)
		}
		data = append(data, decoded...)
		data = append(data, '\n')
	}
	return data, nil
}
