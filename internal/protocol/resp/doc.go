// Package resp implements the RESP2 wire format used by respkv.
//
// The decoder works on an immutable byte slice rather than a stream so
// that a connection can re-run it over its accumulated input after every
// read. It tells the two failure families apart:
//
//   - incomplete input (ErrIncompleteInput, ErrCRLFNotFound): the frame is
//     a valid prefix, the caller should wait for more bytes
//   - malformed input (ErrUnrecognisedSymbol, ErrInvalidInput): the frame
//     can never become valid
//
// Use IsIncomplete to classify an error returned by Parse.
//
// Supported types:
//
//	+<text>\r\n                  simple string
//	-<text>\r\n                  error
//	$<len>\r\n<bytes>\r\n        bulk string ($-1\r\n is null)
//	:<decimal>\r\n               integer
//	*<count>\r\n<elements...>    array (*-1\r\n is null)
package resp
