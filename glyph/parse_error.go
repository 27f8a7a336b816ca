package glyph

import (
	"fmt"
)

// ParseError is returned for a malformed font data.
type ParseError struct {
	Message string

	// Line is a 1-based line number of the offending font entry.
	Line int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s (line=%d)", e.Message, e.Line)
}
