// Package docx reads DOCX (Office Open XML) documents from memory.
//
// The package exposes the document as an ordered paragraph stream. Each
// paragraph carries its text, list membership derived from numbering
// properties or the paragraph style, and the relationship IDs of any
// images embedded in its runs. Image payloads are available through the
// relationship map of the archive.
//
// DOCX files have no fixed pages, so there are no coordinates here.
// Callers track document order positions instead.
package docx
