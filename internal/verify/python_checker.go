//go:build cgo

package verify

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	python "github.com/smacker/go-tree-sitter/python"
)

const syntaxErrorFormat = "%w: line %d column %d"

type pythonChecker struct{}

// NewPythonChecker returns a Checker for Python source backed by tree-sitter.
func NewPythonChecker() Checker {
	return pythonChecker{}
}

// Check parses source and reports the first error or missing node.
func (pythonChecker) Check(ctx context.Context, source []byte) error {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())
	tree, parseError := parser.ParseCtx(ctx, nil, source)
	if parseError != nil {
		return fmt.Errorf("parse python source: %w", parseError)
	}
	defer tree.Close()

	rootNode := tree.RootNode()
	if !rootNode.HasError() {
		return nil
	}
	errorNode := firstErrorNode(rootNode)
	if errorNode == nil {
		return fmt.Errorf(syntaxErrorFormat, ErrSyntax, 1, 1)
	}
	startPoint := errorNode.StartPoint()
	return fmt.Errorf(syntaxErrorFormat, ErrSyntax, startPoint.Row+1, startPoint.Column+1)
}

// firstErrorNode returns the first error or missing node in document order.
func firstErrorNode(node *sitter.Node) *sitter.Node {
	if node.IsError() || node.IsMissing() {
		return node
	}
	if !node.HasError() {
		return nil
	}
	childCount := int(node.ChildCount())
	for childIndex := 0; childIndex < childCount; childIndex++ {
		if found := firstErrorNode(node.Child(childIndex)); found != nil {
			return found
		}
	}
	return nil
}
