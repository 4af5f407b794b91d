// Package predicate implements the domain functions the profile rule
// expressions call. Each predicate is a pure function of the context node,
// its arguments and the injected lookup services.
package predicate

import (
	"context"
	"fmt"
	"time"

	"github.com/txcheck/txcheck/pkg/lookup"
	"github.com/txcheck/txcheck/pkg/ruleexpr"
	"github.com/txcheck/txcheck/pkg/txc"
	"github.com/txcheck/txcheck/pkg/xmldoc"
)

// Context is everything a predicate may consult during a run. It is built
// once per validated document and shared by every function in the table.
type Context struct {
	Ctx      context.Context
	Filename string

	// Document is the typed model; nil for fares documents.
	Document *txc.Document
	Source   *xmldoc.Document

	Lookups lookup.Services

	// StopRecords and MissingStops hold the prefetched NaPTAN batch for
	// every stop ref the document mentions.
	StopRecords  map[string]*lookup.StopPointRecord
	MissingStops map[string]bool

	Now time.Time
}

// NewTable builds the extension function table bound to one run context.
func NewTable(pc *Context) ruleexpr.FunctionTable {
	table := ruleexpr.FunctionTable{}

	registerValuePredicates(pc, table)
	registerServicePredicates(pc, table)
	registerStopPredicates(pc, table)
	registerJourneyPredicates(pc, table)
	registerProfilePredicates(pc, table)
	registerFaresPredicates(pc, table)

	return table
}

// pass and fail are the predicate outcome helpers: a predicate passes with
// true, fails as a whole with a report, or fails per node with a node set.
func pass() (ruleexpr.Value, error) {
	return ruleexpr.BoolValue(true), nil
}

func failWhole(node *xmldoc.Node, message string) (ruleexpr.Value, error) {
	return ruleexpr.ReportValue(xmldoc.SourceLine(node), message), nil
}

func failNodes(nodes []*xmldoc.Node) (ruleexpr.Value, error) {
	return ruleexpr.NodeSetValue(nodes), nil
}

func verdict(offending []*xmldoc.Node) (ruleexpr.Value, error) {
	if len(offending) == 0 {
		return pass()
	}

	return failNodes(offending)
}

func nodesArg(name string, args []ruleexpr.Value, i int) ([]*xmldoc.Node, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("%s() missing argument %d", name, i+1)
	}
	if args[i].Kind != ruleexpr.KindNodeSet {
		return nil, fmt.Errorf("%s() argument %d must be a node set", name, i+1)
	}

	return args[i].Nodes, nil
}

// nodeArg returns the first node of a node set argument, or nil when the
// set is empty - predicates treat an empty selection as trivially passing.
func nodeArg(name string, args []ruleexpr.Value, i int) (*xmldoc.Node, error) {
	nodes, err := nodesArg(name, args, i)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, nil
	}

	return nodes[0], nil
}

func stringArg(name string, args []ruleexpr.Value, i int) (string, error) {
	if i >= len(args) {
		return "", fmt.Errorf("%s() missing argument %d", name, i+1)
	}

	return args[i].AsString(), nil
}
