package pdf

import (
	"bytes"
	"fmt"
	"regexp"
	"strconv"
)

// xrefEntry locates an indirect object: either a byte offset in the file,
// or the number of the object stream that contains it.
type xrefEntry struct {
	offset    int64
	inUse     bool
	inStream  bool
	streamNum int
}

// xrefTable maps object numbers to their locations and carries the
// trailer dictionary.
type xrefTable struct {
	entries map[int]xrefEntry
	trailer Dict
}

// findStartXRef locates the offset recorded after the startxref keyword
// near the end of the file.
func findStartXRef(data []byte) (int64, error) {
	tail := data
	if len(tail) > 1024 {
		tail = tail[len(tail)-1024:]
	}

	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		return 0, fmt.Errorf("startxref not found")
	}

	p := newParser(tail[idx+len("startxref"):])
	p.skipSpace()
	tok := p.readNumberToken()
	offset, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid startxref offset %q: %w", tok, err)
	}
	return offset, nil
}

// loadXRef parses the cross reference table at the startxref offset and
// follows the /Prev chain through incremental updates. Entries from newer
// sections shadow older ones.
func loadXRef(data []byte) (*xrefTable, error) {
	start, err := findStartXRef(data)
	if err != nil {
		return nil, err
	}

	table := &xrefTable{entries: make(map[int]xrefEntry)}
	seen := make(map[int64]bool)
	offset := start

	for {
		if seen[offset] {
			return nil, fmt.Errorf("cyclic /Prev chain at offset %d", offset)
		}
		seen[offset] = true

		trailer, err := parseXRefSection(data, offset, table)
		if err != nil {
			return nil, err
		}
		if table.trailer == nil {
			table.trailer = trailer
		}

		prev, ok := trailer.GetInt("Prev")
		if !ok {
			break
		}
		offset = int64(prev)
	}

	return table, nil
}

// parseXRefSection parses one classic cross reference section and its
// trailer. Existing table entries are kept, so newer sections win.
func parseXRefSection(data []byte, offset int64, table *xrefTable) (Dict, error) {
	if offset < 0 || offset >= int64(len(data)) {
		return nil, fmt.Errorf("xref offset %d out of range", offset)
	}

	p := newParser(data)
	p.pos = int(offset)
	p.skipSpace()
	if kw := p.readKeyword(); kw != "xref" {
		return nil, fmt.Errorf("expected xref keyword at offset %d, got %q", offset, kw)
	}

	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("xref section missing trailer")
		}

		if isLetter(p.data[p.pos]) {
			if kw := p.readKeyword(); kw != "trailer" {
				return nil, fmt.Errorf("unexpected keyword %q in xref section", kw)
			}
			obj, err := p.parseValue()
			if err != nil {
				return nil, fmt.Errorf("trailer: %w", err)
			}
			trailer, ok := obj.(Dict)
			if !ok {
				return nil, fmt.Errorf("trailer is not a dictionary")
			}
			return trailer, nil
		}

		// Subsection header: first object number and entry count.
		first, err := strconv.Atoi(p.readNumberToken())
		if err != nil {
			return nil, fmt.Errorf("invalid subsection start: %w", err)
		}
		p.skipSpace()
		count, err := strconv.Atoi(p.readNumberToken())
		if err != nil {
			return nil, fmt.Errorf("invalid subsection count: %w", err)
		}

		for i := 0; i < count; i++ {
			p.skipSpace()
			off, err := strconv.ParseInt(p.readNumberToken(), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("entry %d: invalid offset: %w", first+i, err)
			}
			p.skipSpace()
			if _, err := strconv.Atoi(p.readNumberToken()); err != nil {
				return nil, fmt.Errorf("entry %d: invalid generation: %w", first+i, err)
			}
			p.skipSpace()
			flag := p.readKeyword()
			if flag != "n" && flag != "f" {
				return nil, fmt.Errorf("entry %d: invalid flag %q", first+i, flag)
			}

			num := first + i
			if _, exists := table.entries[num]; !exists {
				table.entries[num] = xrefEntry{offset: off, inUse: flag == "n"}
			}
		}
	}
}

var objHeaderRe = regexp.MustCompile(`(?:^|[\r\n])\s*(\d+)\s+(\d+)\s+obj\b`)

// reconstructXRef rebuilds the cross reference table by scanning the file
// for object headers. It is the fallback for files with damaged or
// unsupported (cross reference stream) xref data. For each object number
// the last occurrence wins, matching incremental update semantics.
func reconstructXRef(data []byte) (*xrefTable, error) {
	table := &xrefTable{entries: make(map[int]xrefEntry)}

	for _, m := range objHeaderRe.FindAllSubmatchIndex(data, -1) {
		num, err := strconv.Atoi(string(data[m[2]:m[3]]))
		if err != nil {
			continue
		}
		table.entries[num] = xrefEntry{offset: int64(m[2]), inUse: true}
	}

	if len(table.entries) == 0 {
		return nil, fmt.Errorf("no indirect objects found")
	}

	// Recover the newest trailer for the /Root reference.
	if idx := bytes.LastIndex(data, []byte("trailer")); idx >= 0 {
		p := newParser(data)
		p.pos = idx + len("trailer")
		if obj, err := p.parseValue(); err == nil {
			if dict, ok := obj.(Dict); ok {
				table.trailer = dict
			}
		}
	}
	if table.trailer == nil {
		table.trailer = make(Dict)
	}

	return table, nil
}
