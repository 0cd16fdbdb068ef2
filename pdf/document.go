package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"sort"
)

// Document is a parsed PDF held in memory.
type Document struct {
	data  []byte
	xref  *xrefTable
	cache map[int]Object
	pages []*Page
}

// Open parses a PDF from data. The cross reference table is loaded first;
// if it is damaged or uses features the table parser does not understand,
// the file is rescanned for object headers instead. An error here means
// the container cannot be read at all.
func Open(data []byte) (*Document, error) {
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, fmt.Errorf("missing %%PDF header")
	}

	doc := &Document{
		data:  data,
		cache: make(map[int]Object),
	}

	xref, err := loadXRef(data)
	if err != nil {
		xref, err = reconstructXRef(data)
		if err != nil {
			return nil, fmt.Errorf("cross reference data unreadable: %w", err)
		}
	}
	doc.xref = xref

	if bytes.Contains(data, []byte("/ObjStm")) {
		doc.expandObjectStreams()
	}

	if err := doc.loadPages(); err != nil {
		return nil, fmt.Errorf("page tree: %w", err)
	}
	return doc, nil
}

// object loads the indirect object with the given number, consulting the
// cache first.
func (d *Document) object(num int) (Object, error) {
	if obj, ok := d.cache[num]; ok {
		return obj, nil
	}

	entry, ok := d.xref.entries[num]
	if !ok {
		return nil, fmt.Errorf("object %d not in xref table", num)
	}
	if !entry.inUse {
		return nil, fmt.Errorf("object %d is free", num)
	}

	var obj Object
	if entry.inStream {
		container, err := d.object(entry.streamNum)
		if err != nil {
			return nil, fmt.Errorf("object stream %d: %w", entry.streamNum, err)
		}
		stream, ok := container.(*Stream)
		if !ok {
			return nil, fmt.Errorf("object %d points into non-stream object %d", num, entry.streamNum)
		}
		obj, err = objectFromStream(stream, num)
		if err != nil {
			return nil, err
		}
	} else {
		if entry.offset < 0 || entry.offset >= int64(len(d.data)) {
			return nil, fmt.Errorf("object %d offset %d out of range", num, entry.offset)
		}
		p := newParser(d.data)
		p.pos = int(entry.offset)
		p.doc = d
		parsedNum, _, parsed, err := p.parseIndirect()
		if err != nil {
			return nil, fmt.Errorf("object %d: %w", num, err)
		}
		if parsedNum != num {
			return nil, fmt.Errorf("object number mismatch: expected %d, found %d", num, parsedNum)
		}
		obj = parsed
	}

	d.cache[num] = obj
	return obj, nil
}

// resolveRef resolves an indirect reference to its object.
func (d *Document) resolveRef(ref Ref) (Object, error) {
	return d.object(ref.Number)
}

// resolve resolves obj if it is an indirect reference, otherwise returns
// it unchanged.
func (d *Document) resolve(obj Object) (Object, error) {
	if ref, ok := obj.(Ref); ok {
		return d.resolveRef(ref)
	}
	return obj, nil
}

// resolveDict resolves obj and asserts it is a dictionary. Stream objects
// yield their dictionary.
func (d *Document) resolveDict(obj Object) (Dict, error) {
	resolved, err := d.resolve(obj)
	if err != nil {
		return nil, err
	}
	switch v := resolved.(type) {
	case Dict:
		return v, nil
	case *Stream:
		return v.Dict, nil
	}
	return nil, fmt.Errorf("expected dictionary, got %s", formatObject(resolved))
}

// expandObjectStreams registers the objects stored inside /Type /ObjStm
// streams so they resolve like any other object. Streams that fail to
// decode are skipped.
func (d *Document) expandObjectStreams() {
	nums := make([]int, 0, len(d.xref.entries))
	for num, entry := range d.xref.entries {
		if entry.inUse && !entry.inStream {
			nums = append(nums, num)
		}
	}
	sort.Ints(nums)

	for _, num := range nums {
		obj, err := d.object(num)
		if err != nil {
			continue
		}
		stream, ok := obj.(*Stream)
		if !ok {
			continue
		}
		if t, _ := stream.Dict.GetName("Type"); t != "ObjStm" {
			continue
		}
		contained, err := objectStreamNumbers(stream)
		if err != nil {
			continue
		}
		for _, inner := range contained {
			if _, exists := d.xref.entries[inner]; !exists {
				d.xref.entries[inner] = xrefEntry{inUse: true, inStream: true, streamNum: num}
			}
		}
	}
}

// objectStreamNumbers parses an object stream header and returns the
// object numbers it contains.
func objectStreamNumbers(stream *Stream) ([]int, error) {
	n, first, data, err := objectStreamHeader(stream)
	if err != nil {
		return nil, err
	}

	p := newParser(data[:first])
	nums := make([]int, 0, n)
	for i := 0; i < n; i++ {
		numObj, err := p.parseValue()
		if err != nil {
			return nil, fmt.Errorf("header pair %d: %w", i, err)
		}
		num, ok := numObj.(Int)
		if !ok {
			return nil, fmt.Errorf("header pair %d: object number is %s", i, formatObject(numObj))
		}
		if _, err := p.parseValue(); err != nil {
			return nil, fmt.Errorf("header pair %d: %w", i, err)
		}
		nums = append(nums, int(num))
	}
	return nums, nil
}

// objectFromStream extracts one object from a /Type /ObjStm stream.
func objectFromStream(stream *Stream, num int) (Object, error) {
	n, first, data, err := objectStreamHeader(stream)
	if err != nil {
		return nil, err
	}

	p := newParser(data[:first])
	for i := 0; i < n; i++ {
		numObj, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		offObj, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		objNum, ok1 := numObj.(Int)
		off, ok2 := offObj.(Int)
		if !ok1 || !ok2 {
			return nil, fmt.Errorf("malformed object stream header")
		}
		if int(objNum) != num {
			continue
		}

		pos := first + int(off)
		if pos < 0 || pos > len(data) {
			return nil, fmt.Errorf("object %d offset %d outside stream", num, pos)
		}
		inner := newParser(data)
		inner.pos = pos
		return inner.parseValue()
	}
	return nil, fmt.Errorf("object %d not found in object stream", num)
}

// objectStreamHeader decodes an object stream and returns its /N and
// /First entries together with the decoded payload.
func objectStreamHeader(stream *Stream) (int, int, []byte, error) {
	n, ok := stream.Dict.GetInt("N")
	if !ok {
		return 0, 0, nil, fmt.Errorf("object stream missing /N")
	}
	first, ok := stream.Dict.GetInt("First")
	if !ok {
		return 0, 0, nil, fmt.Errorf("object stream missing /First")
	}
	data, err := stream.Decode()
	if err != nil {
		return 0, 0, nil, fmt.Errorf("decode object stream: %w", err)
	}
	if int(first) > len(data) || first < 0 || n < 0 {
		return 0, 0, nil, fmt.Errorf("object stream header out of range")
	}
	return int(n), int(first), data, nil
}

// catalog returns the document catalog. When the trailer has no /Root
// (possible after xref reconstruction) the objects are scanned for a
// /Type /Catalog dictionary.
func (d *Document) catalog() (Dict, error) {
	if ref, ok := d.xref.trailer.Get("Root").(Ref); ok {
		return d.resolveDict(ref)
	}

	nums := make([]int, 0, len(d.xref.entries))
	for num := range d.xref.entries {
		nums = append(nums, num)
	}
	sort.Ints(nums)

	for _, num := range nums {
		obj, err := d.object(num)
		if err != nil {
			continue
		}
		if dict, ok := obj.(Dict); ok {
			if t, _ := dict.GetName("Type"); t == "Catalog" {
				return dict, nil
			}
		}
	}
	return nil, fmt.Errorf("no document catalog found")
}

// loadPages flattens the page tree into an ordered page list.
func (d *Document) loadPages() error {
	cat, err := d.catalog()
	if err != nil {
		return err
	}

	rootObj := cat.Get("Pages")
	if rootObj == nil {
		return fmt.Errorf("catalog missing /Pages")
	}
	root, err := d.resolveDict(rootObj)
	if err != nil {
		return fmt.Errorf("resolve /Pages: %w", err)
	}

	if err := d.walkPageNode(root, nil, 0); err != nil {
		return err
	}
	return nil
}

// walkPageNode recursively traverses a page tree node. parent carries the
// nearest ancestor for inheritable attributes.
func (d *Document) walkPageNode(node, parent Dict, depth int) error {
	if depth > 64 {
		return fmt.Errorf("page tree too deep")
	}

	nodeType, _ := node.GetName("Type")
	if nodeType == "" {
		// Tolerate missing /Type: nodes with /Kids act as Pages.
		if node.Has("Kids") {
			nodeType = "Pages"
		} else {
			nodeType = "Page"
		}
	}

	switch nodeType {
	case "Pages":
		kidsObj, err := d.resolve(node.Get("Kids"))
		if err != nil {
			return fmt.Errorf("resolve /Kids: %w", err)
		}
		kids, ok := kidsObj.(Array)
		if !ok {
			return fmt.Errorf("/Kids is not an array")
		}
		for i, kid := range kids {
			kidDict, err := d.resolveDict(kid)
			if err != nil {
				return fmt.Errorf("kid %d: %w", i, err)
			}
			if err := d.walkPageNode(kidDict, node, depth+1); err != nil {
				return err
			}
		}
	case "Page":
		d.pages = append(d.pages, &Page{
			doc:    d,
			dict:   node,
			parent: parent,
			Index:  len(d.pages),
		})
	default:
		return fmt.Errorf("unexpected page tree node type %q", nodeType)
	}
	return nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int {
	return len(d.pages)
}

// Page returns the page at the given zero-based index.
func (d *Document) Page(index int) (*Page, error) {
	if index < 0 || index >= len(d.pages) {
		return nil, fmt.Errorf("page index %d out of range [0, %d)", index, len(d.pages))
	}
	return d.pages[index], nil
}

// Pages returns all pages in document order.
func (d *Document) Pages() []*Page {
	return d.pages
}

var versionRe = regexp.MustCompile(`^%PDF-(\d+)\.(\d+)`)

// Version returns the header version, e.g. "1.7". Empty when malformed.
func (d *Document) Version() string {
	m := versionRe.FindSubmatch(d.data)
	if m == nil {
		return ""
	}
	return string(m[1]) + "." + string(m[2])
}
