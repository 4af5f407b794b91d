package ruleexpr

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/txcheck/txcheck/pkg/xmldoc"
)

type Kind int

const (
	KindBool Kind = iota
	KindNumber
	KindString
	KindNodeSet
	KindReport
)

// Report is a predicate outcome pinned to a single source line rather than
// to a node set.
type Report struct {
	Line    int
	Message string
}

// Value is the result of evaluating a rule expression or a predicate.
// Exactly the field matching Kind is meaningful.
type Value struct {
	Kind   Kind
	Bool   bool
	Number float64
	Str    string
	Nodes  []*xmldoc.Node
	Report *Report
}

func BoolValue(b bool) Value               { return Value{Kind: KindBool, Bool: b} }
func NumberValue(n float64) Value          { return Value{Kind: KindNumber, Number: n} }
func StringValue(s string) Value           { return Value{Kind: KindString, Str: s} }
func NodeSetValue(ns []*xmldoc.Node) Value { return Value{Kind: KindNodeSet, Nodes: ns} }

func ReportValue(line int, message string) Value {
	return Value{Kind: KindReport, Report: &Report{Line: line, Message: message}}
}

// Passed reports whether the value counts as a passing rule result: true,
// an empty node set, or any truthy scalar. A report always fails.
func (v Value) Passed() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNodeSet:
		return len(v.Nodes) == 0
	case KindReport:
		return v.Report == nil
	case KindNumber:
		return v.Number != 0
	default:
		return v.Str != ""
	}
}

// AsString follows XPath string() semantics: a node set converts to the
// string value of its first node.
func (v Value) AsString() string {
	switch v.Kind {
	case KindString:
		return v.Str
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	case KindBool:
		if v.Bool {
			return "true"
		}
		return "false"
	case KindNodeSet:
		if len(v.Nodes) == 0 {
			return ""
		}
		return strings.TrimSpace(v.Nodes[0].InnerText())
	default:
		return ""
	}
}

// AsNumber follows XPath number() semantics; unconvertible values become
// NaN-free zero with ok=false.
func (v Value) AsNumber() (float64, bool) {
	switch v.Kind {
	case KindNumber:
		return v.Number, true
	case KindBool:
		if v.Bool {
			return 1, true
		}
		return 0, true
	default:
		number, err := strconv.ParseFloat(strings.TrimSpace(v.AsString()), 64)
		if err != nil {
			return 0, false
		}
		return number, true
	}
}

// AsBool follows XPath boolean() semantics.
func (v Value) AsBool() bool {
	switch v.Kind {
	case KindBool:
		return v.Bool
	case KindNumber:
		return v.Number != 0
	case KindNodeSet:
		return len(v.Nodes) > 0
	case KindReport:
		return v.Report != nil
	default:
		return v.Str != ""
	}
}

func (v Value) String() string {
	switch v.Kind {
	case KindNodeSet:
		return fmt.Sprintf("node-set(%d)", len(v.Nodes))
	case KindReport:
		return fmt.Sprintf("report(line %d)", v.Report.Line)
	default:
		return v.AsString()
	}
}
