// Package filters implements the PDF stream decompression filters needed
// to read exam documents: FlateDecode (with TIFF and PNG predictors),
// ASCIIHexDecode, ASCII85Decode and CCITTFaxDecode.
//
// Filters take the raw stream payload and the decode parameters from the
// stream dictionary:
//
//	decoded, err := filters.FlateDecode(data, filters.Params{
//	    "Predictor": 12,
//	    "Columns":   100,
//	})
//
// DCTDecode streams are not decoded here. They are complete JPEG images
// and are passed through unchanged by the caller.
package filters
