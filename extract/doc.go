// Package extract turns document text and images into exam questions.
//
// Exams arrive as blocks of question text separated by long underscore
// rules. Each block starts with a numbered header such as "3. Frage:",
// followed by the question, answer options A to E and the Fach, Antwort
// and Kommentar metadata lines. The package segments the text, parses
// the fields, resolves page coordinates for PDF input, assigns images to
// questions and filters out placeholder blocks.
//
// PDF documents are handled page based with coordinates, DOCX documents
// flow based with document order positions.
package extract
