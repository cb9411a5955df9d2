//go:build !cgo

package verify

// NewPythonChecker returns nil when cgo is unavailable so callers skip syntax
// checks on platforms that cannot build the tree-sitter bindings.
func NewPythonChecker() Checker {
	return nil
}
