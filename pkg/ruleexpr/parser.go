package ruleexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/txcheck/txcheck/pkg/xmldoc"
)

// parser is a recursive descent parser over a rule test string. Anything
// that is not a literal, an operator or a known function call is scanned as
// a location path and compiled with the stock XPath engine.
type parser struct {
	src   string
	pos   int
	funcs FunctionTable
}

func (p *parser) parseExpr() (expr, error) {
	return p.parseOr()
}

func (p *parser) parseOr() (expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}

	for p.keyword("or") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}

		left = &logicalExpr{or: true, left: left, right: right}
	}

	return left, nil
}

func (p *parser) parseAnd() (expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}

	for p.keyword("and") {
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}

		left = &logicalExpr{left: left, right: right}
	}

	return left, nil
}

var comparisonOps = []string{"!=", "<=", ">=", "=", "<", ">"}

func (p *parser) parseComparison() (expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}

	for {
		p.skipSpace()

		matched := ""
		for _, op := range comparisonOps {
			if strings.HasPrefix(p.src[p.pos:], op) {
				matched = op
				break
			}
		}
		if matched == "" {
			return left, nil
		}
		p.pos += len(matched)

		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}

		left = &comparisonExpr{op: matched, left: left, right: right}
	}
}

func (p *parser) parseAdditive() (expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}

	for {
		p.skipSpace()
		if p.pos >= len(p.src) || (p.src[p.pos] != '+' && p.src[p.pos] != '-') {
			return left, nil
		}

		op := p.src[p.pos]
		p.pos++

		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}

		left = &arithmeticExpr{op: op, left: left, right: right}
	}
}

func (p *parser) parseMultiplicative() (expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}

	for {
		p.skipSpace()

		var op byte
		switch {
		case p.pos < len(p.src) && p.src[p.pos] == '*':
			op = '*'
			p.pos++
		case p.keyword("div"):
			op = '/'
		default:
			return left, nil
		}

		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		left = &arithmeticExpr{op: op, left: left, right: right}
	}
}

func (p *parser) parseUnary() (expr, error) {
	p.skipSpace()

	if p.pos < len(p.src) && p.src[p.pos] == '-' {
		p.pos++

		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}

		return &negateExpr{operand: operand}, nil
	}

	return p.parsePrimary()
}

func (p *parser) parsePrimary() (expr, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("unexpected end of expression")
	}

	ch := p.src[p.pos]

	switch {
	case ch == '(':
		p.pos++

		inner, err := p.parseExpr()
		if err != nil {
			return nil, err
		}

		if err := p.expect(')'); err != nil {
			return nil, err
		}

		return inner, nil

	case ch == '\'' || ch == '"':
		literal, err := p.stringLiteral()
		if err != nil {
			return nil, err
		}

		return &literalExpr{value: StringValue(literal)}, nil

	case ch >= '0' && ch <= '9':
		return p.numberLiteral()
	}

	start := p.pos
	name := p.scanName()

	if name != "" && p.peekByte() == '(' {
		if fn, ok := p.funcs[name]; ok {
			return p.parseCall(name, fn)
		}
		if fn, ok := builtins[name]; ok {
			return p.parseCall(name, fn)
		}

		// Node tests like text() fall through to the path scanner; a
		// genuinely unknown function name is a schema error.
		if !nodeTests[name] {
			return nil, fmt.Errorf("unknown function %q", name)
		}
	}

	p.pos = start

	return p.parsePath()
}

func (p *parser) parseCall(name string, fn Function) (expr, error) {
	p.pos++ // consume '('

	call := &callExpr{name: name, fn: fn}

	p.skipSpace()
	if p.peekByte() == ')' {
		p.pos++
		return call, nil
	}

	for {
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		call.args = append(call.args, arg)

		p.skipSpace()
		switch p.peekByte() {
		case ',':
			p.pos++
		case ')':
			p.pos++
			return call, nil
		default:
			return nil, fmt.Errorf("expected , or ) in arguments of %s", name)
		}
	}
}

// parsePath scans a location path: name characters, axes, wildcards, node
// tests and balanced predicate brackets. The scanned text is compiled as a
// stock XPath expression.
func (p *parser) parsePath() (expr, error) {
	start := p.pos

scan:
	for p.pos < len(p.src) {
		ch := p.src[p.pos]

		switch {
		case isNameByte(ch) || ch == '/' || ch == '@' || ch == '.' || ch == '*' || ch == ':':
			p.pos++
		case ch == '[':
			if err := p.scanBracketed(); err != nil {
				return nil, err
			}
		case ch == '(' && p.pos+1 < len(p.src) && p.src[p.pos+1] == ')':
			// empty parens of a node test such as text()
			p.pos += 2
		default:
			break scan
		}
	}

	source := strings.TrimSpace(p.src[start:p.pos])
	if source == "" {
		return nil, fmt.Errorf("expected an expression at offset %d", start)
	}

	compiled, err := xmldoc.CompileXPath(source)
	if err != nil {
		return nil, err
	}

	return &pathExpr{source: source, compiled: compiled}, nil
}

// scanBracketed consumes a balanced [...] predicate, honouring nested
// brackets and quoted strings.
func (p *parser) scanBracketed() error {
	depth := 0

	for p.pos < len(p.src) {
		switch ch := p.src[p.pos]; ch {
		case '[':
			depth++
			p.pos++
		case ']':
			depth--
			p.pos++
			if depth == 0 {
				return nil
			}
		case '\'', '"':
			if _, err := p.stringLiteral(); err != nil {
				return err
			}
		default:
			p.pos++
		}
	}

	return fmt.Errorf("unterminated predicate bracket")
}

func (p *parser) numberLiteral() (expr, error) {
	start := p.pos

	for p.pos < len(p.src) && (p.src[p.pos] >= '0' && p.src[p.pos] <= '9' || p.src[p.pos] == '.') {
		p.pos++
	}

	number, err := strconv.ParseFloat(p.src[start:p.pos], 64)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q", p.src[start:p.pos])
	}

	return &literalExpr{value: NumberValue(number)}, nil
}

func (p *parser) stringLiteral() (string, error) {
	quote := p.src[p.pos]
	p.pos++

	start := p.pos
	for p.pos < len(p.src) {
		if p.src[p.pos] == quote {
			literal := p.src[start:p.pos]
			p.pos++
			return literal, nil
		}
		p.pos++
	}

	return "", fmt.Errorf("unterminated string literal")
}

// scanName reads an XPath NCName, hyphens included.
func (p *parser) scanName() string {
	start := p.pos

	for p.pos < len(p.src) && isNameByte(p.src[p.pos]) {
		p.pos++
	}

	return p.src[start:p.pos]
}

// keyword consumes a word operator when it is followed by a non-name
// character, so a path step named "order" is not read as "or".
func (p *parser) keyword(word string) bool {
	p.skipSpace()

	end := p.pos + len(word)
	if end > len(p.src) || p.src[p.pos:end] != word {
		return false
	}
	if end < len(p.src) && isNameByte(p.src[end]) {
		return false
	}

	p.pos = end

	return true
}

func (p *parser) expect(ch byte) error {
	p.skipSpace()

	if p.peekByte() != ch {
		return fmt.Errorf("expected %q at offset %d", string(ch), p.pos)
	}
	p.pos++

	return nil
}

func (p *parser) peekByte() byte {
	p.skipSpace()

	if p.pos >= len(p.src) {
		return 0
	}

	return p.src[p.pos]
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) {
		switch p.src[p.pos] {
		case ' ', '\t', '\n', '\r':
			p.pos++
		default:
			return
		}
	}
}

func isNameByte(ch byte) bool {
	return ch >= 'a' && ch <= 'z' || ch >= 'A' && ch <= 'Z' || ch >= '0' && ch <= '9' || ch == '_' || ch == '-'
}

var nodeTests = map[string]bool{
	"text":    true,
	"node":    true,
	"comment": true,
}
