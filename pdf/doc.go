// Package pdf implements a native PDF container reader for exam documents.
//
// The reader parses a PDF from an in-memory byte slice: header, cross
// reference tables (including incremental updates), indirect objects,
// object streams and the page tree. When the cross reference data is
// damaged the reader falls back to scanning the file for object headers,
// so mildly corrupted exams still open.
//
// Two things are extracted per page, both in top-down page coordinates:
//
//   - text lines with their vertical extent, via a small content stream
//     interpreter that tracks the transformation and text matrices
//   - raster image placements, by following Do operators to image XObjects
//     and transforming the unit square through the current matrix
//
// Image payloads are returned ready to store: DCTDecode streams pass
// through as JPEG files, everything else is decoded and re-encoded as PNG.
package pdf
