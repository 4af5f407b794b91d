package xmldoc

import (
	"fmt"
	"sync"

	"github.com/antchfx/xpath"
)

// Compiled expressions are shared between validator runs.
var exprCache sync.Map

// CompileXPath compiles an XPath 1.0 expression, reusing previously
// compiled expressions.
func CompileXPath(expression string) (*xpath.Expr, error) {
	if cached, ok := exprCache.Load(expression); ok {
		return cached.(*xpath.Expr), nil
	}

	compiled, err := xpath.Compile(expression)
	if err != nil {
		return nil, fmt.Errorf("invalid xpath %q: %w", expression, err)
	}

	exprCache.Store(expression, compiled)

	return compiled, nil
}

// Evaluate runs a compiled expression with the given context node. Node set
// results are returned as []*Node, everything else as the raw bool, float64
// or string.
func Evaluate(expr *xpath.Expr, contextNode *Node) interface{} {
	result := expr.Evaluate(NewNavigator(contextNode))

	iterator, ok := result.(*xpath.NodeIterator)
	if !ok {
		return result
	}

	var nodes []*Node
	for iterator.MoveNext() {
		nav, ok := iterator.Current().(*Navigator)
		if !ok {
			continue
		}

		// Attribute matches report the owning element
		nodes = append(nodes, nav.Node())
	}

	return nodes
}

// FindAll evaluates an XPath expression relative to the given node and
// returns the matching nodes in document order.
func FindAll(contextNode *Node, expression string) ([]*Node, error) {
	compiled, err := CompileXPath(expression)
	if err != nil {
		return nil, err
	}

	result := Evaluate(compiled, contextNode)

	nodes, ok := result.([]*Node)
	if !ok {
		return nil, fmt.Errorf("xpath %q does not select a node set", expression)
	}

	return nodes, nil
}

// Find returns the first node matching the expression, or nil.
func Find(contextNode *Node, expression string) (*Node, error) {
	nodes, err := FindAll(contextNode, expression)
	if err != nil {
		return nil, err
	}

	if len(nodes) == 0 {
		return nil, nil
	}

	return nodes[0], nil
}
