// Package extractors converts raw document uploads into plain text.
//
// Each extractor handles a set of file extensions and implements the
// driven.Extractor port. The Registry routes a file to the extractor
// registered for its extension, falling back to a best-effort binary
// extractor for unknown types.
//
// Extraction sits upstream of chunking: the chunker and retriever only
// ever operate on the plain text produced here.
package extractors
