package parser

import (
	"errors"
	"fmt"

	"github.com/mattjoyce/glossa/internal/diag"
	"github.com/mattjoyce/glossa/internal/semantic"
)

// Failure is a parse failure carrying its diagnostic code and the
// best partial node the walk produced. Partial may be nil when
// nothing was recoverable; when set, its Confidence reflects how much
// of the input matched.
type Failure struct {
	Code    diag.Code
	Message string
	Partial *semantic.Node
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Code, f.Message)
}

// AsFailure unwraps err into a *Failure when it is one.
func AsFailure(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) {
		return f, true
	}
	return nil, false
}
