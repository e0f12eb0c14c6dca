// Package parser extracts order and closure-act records from inbound email
// documents.
//
// The source documents are RFC 5322 .eml files whose HTML body holds a
// two-column table of captioned fields. Captions come in Russian with an
// English fallback, and bodies arrive in assorted transfer encodings and
// charsets, so extraction is: decode the MIME part, transcode to UTF-8,
// then walk the HTML table.
package parser

import "github.com/roach88/orderreg/internal/model"

// Parser extracts an order from a source document.
type Parser interface {
	Parse(path string) (*model.Order, error)
}

// ActParser extracts a closure act from a source document.
type ActParser interface {
	Parse(path string) (*model.ClosureAct, error)
}
