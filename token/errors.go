package token

import (
	"fmt"

	"github.com/arloliu/jwlf/errs"
)

// SyntaxError reports a document that is not well-formed JSON.
// It matches errs.ErrParse with errors.Is.
type SyntaxError struct {
	Location Location
	Err      error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at %s: %v", errs.ErrParse, e.Location, e.Err)
}

func (e *SyntaxError) Unwrap() []error {
	return []error{errs.ErrParse, e.Err}
}
