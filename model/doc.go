// Package model provides the intermediate representation (IR) for extracted
// exam content.
//
// This package defines the user-facing data structures that represent
// questions, their options and metadata, and the images found alongside them.
// All parsing and extraction operations ultimately produce these types,
// making them the primary API for consuming extracted content.
//
// # Questions
//
// The [Question] type represents a single multiple-choice question with up to
// five options, subject, correct answer and an optional comment. Questions
// are built incrementally during parsing: each setter only fills a field
// that is still empty, so later passes over the same text never overwrite
// values found earlier. Once [Question.Seal] is called the question is
// immutable and further setter calls are ignored.
//
// # Images
//
// The [ImageAsset] type carries a decoded raster image together with the
// coordinates it occupies on its page (for page-based documents) or its
// position in the paragraph stream (for flow-based documents).
//
// # Geometry
//
// Coordinates use a top-down page space: Y grows downward from the top of
// the page, so a question's Y0 (header top) is always smaller than its Y1
// (region bottom). [BBox] and [Point] follow the same convention.
package model
