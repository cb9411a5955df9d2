// Package clipboard places rendered command output on the system clipboard.
package clipboard

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when the platform offers no clipboard utility.
var ErrUnavailable = errors.New("no clipboard utility available")

// Copier receives the text printed by a command.
type Copier interface {
	Copy(text string) error
}

// System writes to the operating system clipboard.
type System struct {
	unsupported func() bool
	writeAll    func(text string) error
}

// NewSystem returns a Copier backed by the platform clipboard utility.
func NewSystem() *System {
	return &System{
		unsupported: func() bool { return clipboard.Unsupported },
		writeAll:    clipboard.WriteAll,
	}
}

func (system *System) Copy(text string) error {
	if system.unsupported() {
		return ErrUnavailable
	}
	if writeError := system.writeAll(text); writeError != nil {
		return fmt.Errorf("write clipboard: %w", writeError)
	}
	return nil
}

var _ Copier = (*System)(nil)
