// Package normalisers holds the document readers that turn source files into
// page text. Each reader lives in its own subpackage and implements
// driven.TextExtractor for one format.
package normalisers
