// Package verify checks that reformatted content still parses.
package verify

import (
	"context"
	"errors"
)

// ErrSyntax is returned when source text fails to parse.
var ErrSyntax = errors.New("syntax error")

// Checker validates source text.
type Checker interface {
	Check(ctx context.Context, source []byte) error
}
