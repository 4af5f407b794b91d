// Package ruleexpr evaluates profile rule test expressions: XPath 1.0
// extended with a table of registered domain functions. Location paths are
// delegated to the antchfx XPath engine; everything the stock engine cannot
// know about - the extension functions and the values they return - is
// handled by a small recursive descent parser layered on top.
package ruleexpr

import (
	"fmt"

	"github.com/antchfx/xpath"

	"github.com/txcheck/txcheck/pkg/xmldoc"
)

// Function is a registered extension. It receives the in-evaluation context
// node and the already evaluated arguments.
type Function func(contextNode *xmldoc.Node, args []Value) (Value, error)

type FunctionTable map[string]Function

// Compiled is an immutable parsed rule expression, safe for concurrent
// evaluation.
type Compiled struct {
	source string
	root   expr
}

// Compile parses a rule test string against a function table. Unknown
// function names are a compile error so schema typos surface before any
// document is validated.
func Compile(source string, funcs FunctionTable) (*Compiled, error) {
	p := &parser{src: source, funcs: funcs}

	root, err := p.parseExpr()
	if err != nil {
		return nil, fmt.Errorf("rule %q: %w", source, err)
	}

	p.skipSpace()
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("rule %q: unexpected trailing input at offset %d", source, p.pos)
	}

	return &Compiled{source: source, root: root}, nil
}

func (c *Compiled) Source() string {
	return c.source
}

// Evaluate runs the expression with the given context node.
func (c *Compiled) Evaluate(contextNode *xmldoc.Node) (Value, error) {
	return c.root.eval(contextNode)
}

type expr interface {
	eval(contextNode *xmldoc.Node) (Value, error)
}

type literalExpr struct {
	value Value
}

func (e *literalExpr) eval(*xmldoc.Node) (Value, error) {
	return e.value, nil
}

// pathExpr is a location path handed verbatim to the antchfx engine.
type pathExpr struct {
	source   string
	compiled *xpath.Expr
}

func (e *pathExpr) eval(contextNode *xmldoc.Node) (Value, error) {
	switch result := xmldoc.Evaluate(e.compiled, contextNode).(type) {
	case []*xmldoc.Node:
		return NodeSetValue(result), nil
	case bool:
		return BoolValue(result), nil
	case float64:
		return NumberValue(result), nil
	case string:
		return StringValue(result), nil
	default:
		return Value{}, fmt.Errorf("path %q returned unsupported type %T", e.source, result)
	}
}

type callExpr struct {
	name string
	fn   Function
	args []expr
}

func (e *callExpr) eval(contextNode *xmldoc.Node) (Value, error) {
	args := make([]Value, len(e.args))

	for i, arg := range e.args {
		value, err := arg.eval(contextNode)
		if err != nil {
			return Value{}, err
		}
		args[i] = value
	}

	result, err := e.fn(contextNode, args)
	if err != nil {
		return Value{}, fmt.Errorf("%s(): %w", e.name, err)
	}

	return result, nil
}

type logicalExpr struct {
	or    bool
	left  expr
	right expr
}

func (e *logicalExpr) eval(contextNode *xmldoc.Node) (Value, error) {
	left, err := e.left.eval(contextNode)
	if err != nil {
		return Value{}, err
	}

	if e.or == logicalTruth(left) {
		return left, nil
	}

	return e.right.eval(contextNode)
}

// logicalTruth is XPath boolean conversion except that a predicate report
// counts as false, so a failing report short-circuits an "and" chain and
// keeps its sourceline.
func logicalTruth(v Value) bool {
	if v.Kind == KindReport {
		return false
	}

	return v.AsBool()
}

type comparisonExpr struct {
	op    string
	left  expr
	right expr
}

func (e *comparisonExpr) eval(contextNode *xmldoc.Node) (Value, error) {
	left, err := e.left.eval(contextNode)
	if err != nil {
		return Value{}, err
	}

	right, err := e.right.eval(contextNode)
	if err != nil {
		return Value{}, err
	}

	return BoolValue(compare(e.op, left, right)), nil
}

// compare implements XPath comparison semantics: a node set compares true
// when any of its nodes satisfies the comparison.
func compare(op string, left, right Value) bool {
	if left.Kind == KindNodeSet {
		for _, node := range left.Nodes {
			if compare(op, StringValue(node.InnerText()), right) {
				return true
			}
		}
		return false
	}

	if right.Kind == KindNodeSet {
		for _, node := range right.Nodes {
			if compare(op, left, StringValue(node.InnerText())) {
				return true
			}
		}
		return false
	}

	switch op {
	case "=", "!=":
		equal := scalarsEqual(left, right)
		return equal == (op == "=")
	default:
		a, aok := left.AsNumber()
		b, bok := right.AsNumber()
		if !aok || !bok {
			return false
		}

		switch op {
		case "<":
			return a < b
		case "<=":
			return a <= b
		case ">":
			return a > b
		default:
			return a >= b
		}
	}
}

func scalarsEqual(left, right Value) bool {
	if left.Kind == KindBool || right.Kind == KindBool {
		return left.AsBool() == right.AsBool()
	}

	if left.Kind == KindNumber || right.Kind == KindNumber {
		a, aok := left.AsNumber()
		b, bok := right.AsNumber()

		return aok && bok && a == b
	}

	return left.AsString() == right.AsString()
}

type arithmeticExpr struct {
	op    byte
	left  expr
	right expr
}

func (e *arithmeticExpr) eval(contextNode *xmldoc.Node) (Value, error) {
	left, err := e.left.eval(contextNode)
	if err != nil {
		return Value{}, err
	}

	right, err := e.right.eval(contextNode)
	if err != nil {
		return Value{}, err
	}

	a, aok := left.AsNumber()
	b, bok := right.AsNumber()
	if !aok || !bok {
		return Value{}, fmt.Errorf("arithmetic on non-numeric operands %s and %s", left, right)
	}

	switch e.op {
	case '+':
		return NumberValue(a + b), nil
	case '-':
		return NumberValue(a - b), nil
	case '*':
		return NumberValue(a * b), nil
	default:
		if b == 0 {
			return Value{}, fmt.Errorf("division by zero")
		}
		return NumberValue(a / b), nil
	}
}

type negateExpr struct {
	operand expr
}

func (e *negateExpr) eval(contextNode *xmldoc.Node) (Value, error) {
	value, err := e.operand.eval(contextNode)
	if err != nil {
		return Value{}, err
	}

	number, ok := value.AsNumber()
	if !ok {
		return Value{}, fmt.Errorf("cannot negate %s", value)
	}

	return NumberValue(-number), nil
}
