// Package validator runs a profile schema over a document and reports
// conformance violations.
package validator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/txcheck/txcheck/pkg/lookup"
	"github.com/txcheck/txcheck/pkg/netex"
	"github.com/txcheck/txcheck/pkg/predicate"
	"github.com/txcheck/txcheck/pkg/profile"
	"github.com/txcheck/txcheck/pkg/report"
	"github.com/txcheck/txcheck/pkg/ruleexpr"
	"github.com/txcheck/txcheck/pkg/txc"
	"github.com/txcheck/txcheck/pkg/util"
	"github.com/txcheck/txcheck/pkg/xmldoc"
)

// naptanPredicates are the extension functions whose presence in a schema
// requires the NaPTAN stop batch to be prefetched.
var naptanPredicates = []string{
	"validate_lines",
	"validate_non_naptan_stop_points",
	"check_flexible_service_stop_point_ref",
}

// Validator binds a loaded profile schema to the lookup services a run
// needs. One Validator is safe for concurrent use; each Validate call
// builds its own predicate context.
type Validator struct {
	Schema  *profile.Schema
	Lookups lookup.Services

	// CompareRevisions enables the revision history check against prior
	// file attributes for the same service.
	CompareRevisions bool

	// Now is the clock used by date predicates; defaults to time.Now.
	Now func() time.Time

	prefetchStops bool
}

// NewPTI builds a validator for the embedded PTI profile schema.
func NewPTI(lookups lookup.Services) (*Validator, error) {
	schema, err := profile.LoadPTI()
	if err != nil {
		return nil, err
	}

	return New(schema, lookups), nil
}

// NewFares builds a validator for the embedded fares profile schema.
func NewFares(lookups lookup.Services) (*Validator, error) {
	schema, err := profile.LoadFares()
	if err != nil {
		return nil, err
	}

	return New(schema, lookups), nil
}

func New(schema *profile.Schema, lookups lookup.Services) *Validator {
	validator := &Validator{
		Schema:  schema,
		Lookups: lookups,
		Now:     time.Now,
	}

	for _, name := range naptanPredicates {
		if schema.ReferencesFunction(name) {
			validator.prefetchStops = true
			break
		}
	}

	return validator
}

// Validate runs the schema over one TransXChange document. The returned
// violations are ordered by source line. A non-nil error means the run
// could not complete - the document failed to parse or a lookup backend
// was unavailable - and no verdict exists.
func (v *Validator) Validate(ctx context.Context, data []byte, filename string) (*txc.Document, []report.Violation, error) {
	source, err := xmldoc.Parse(data, filename)
	if err != nil {
		return nil, nil, err
	}

	document, err := txc.Parse(source, data, txc.DefaultParserConfig())
	if err != nil {
		return nil, nil, err
	}

	pc := &predicate.Context{
		Ctx:      ctx,
		Filename: filename,
		Document: document,
		Source:   source,
		Lookups:  v.Lookups,
		Now:      v.now(),
	}

	if v.prefetchStops && v.Lookups.StopPoints != nil {
		records, missing, err := v.Lookups.StopPoints.Get(ctx, document.StopRefs())
		if err != nil {
			return nil, nil, err
		}

		pc.StopRecords = records
		pc.MissingStops = make(map[string]bool, len(missing))
		for _, code := range missing {
			pc.MissingStops[code] = true
		}
	}

	serviceKind := serviceKindOf(source)

	violations, err := v.runObservations(pc, serviceKind, filename)
	if err != nil {
		return nil, nil, err
	}

	if v.CompareRevisions && v.Lookups.PriorAttributes != nil {
		for _, attributes := range txc.ExtractFileAttributes(document) {
			priors, err := v.Lookups.PriorAttributes.Find(ctx, attributes.ServiceCode)
			if err != nil {
				return nil, nil, err
			}

			if violation := CompareRevision(attributes, priors); violation != nil {
				violations = append(violations, *violation)
			}
		}
	}

	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Line < violations[j].Line
	})

	log.Debug().
		Str("filename", filename).
		Str("servicekind", serviceKind).
		Int("violations", len(violations)).
		Msg("Validated document")

	return document, violations, nil
}

// ValidateFares runs the schema over one NeTEx fares document. No typed
// model is built and no revision comparison happens.
func (v *Validator) ValidateFares(ctx context.Context, data []byte, filename string) ([]report.Violation, error) {
	document, err := netex.Parse(data, filename)
	if err != nil {
		return nil, err
	}

	pc := &predicate.Context{
		Ctx:      ctx,
		Filename: filename,
		Source:   document.Source,
		Lookups:  v.Lookups,
		Now:      v.now(),
	}

	violations, err := v.runObservations(pc, profile.ServiceTypeAll, filename)
	if err != nil {
		return nil, err
	}

	sort.SliceStable(violations, func(i, j int) bool {
		return violations[i].Line < violations[j].Line
	})

	return violations, nil
}

func (v *Validator) runObservations(pc *predicate.Context, serviceKind string, filename string) ([]report.Violation, error) {
	table := predicate.NewTable(pc)

	var violations []report.Violation

	for i := range v.Schema.Observations {
		observation := &v.Schema.Observations[i]
		if !observation.AppliesTo(serviceKind) {
			continue
		}

		contextNodes, err := contextNodesFor(pc.Source.Element, observation.Context)
		if err != nil {
			return nil, fmt.Errorf("observation %d: %w", observation.Number, err)
		}

		rules := make([]*ruleexpr.Compiled, len(observation.Rules))
		for j, rule := range observation.Rules {
			compiled, err := ruleexpr.Compile(rule.Test, table)
			if err != nil {
				return nil, fmt.Errorf("observation %d rule %d: %w", observation.Number, j, err)
			}
			rules[j] = compiled
		}

		for _, contextNode := range contextNodes {
			for _, rule := range rules {
				value, err := rule.Evaluate(contextNode)
				if err != nil {
					return nil, fmt.Errorf("observation %d: %w", observation.Number, err)
				}

				if value.Passed() {
					continue
				}

				violations = append(violations, violationsFor(observation, contextNode, value, filename)...)
				break
			}
		}
	}

	return violations, nil
}

// violationsFor turns one failing rule result into violations: one per
// offending node for node sets, a single located violation otherwise.
func violationsFor(observation *profile.Observation, contextNode *xmldoc.Node, value ruleexpr.Value, filename string) []report.Violation {
	summary := report.ObservationSummary{
		Number:      observation.Number,
		Details:     observation.Details,
		Category:    observation.Category,
		Reference:   observation.Reference,
		ServiceType: observation.ServiceType,
	}

	if value.Kind == ruleexpr.KindNodeSet {
		violations := make([]report.Violation, 0, len(value.Nodes))

		for _, node := range value.Nodes {
			violations = append(violations, report.Violation{
				Filename:    filename,
				Line:        node.Line,
				Element:     node.Name,
				ElementText: snippet(node),
				Observation: summary,
			})
		}

		return violations
	}

	violation := report.Violation{
		Filename:    filename,
		Line:        contextNode.Line,
		Element:     contextNode.Name,
		Observation: summary,
	}

	if value.Kind == ruleexpr.KindReport && value.Report != nil {
		violation.Line = value.Report.Line
		violation.Message = value.Report.Message
	}

	return []report.Violation{violation}
}

func contextNodesFor(root *xmldoc.Node, contextPath string) ([]*xmldoc.Node, error) {
	if contextPath == "." {
		return []*xmldoc.Node{root}, nil
	}

	return xmldoc.FindAll(root, contextPath)
}

// serviceKindOf classifies the document for observation filtering.
func serviceKindOf(source *xmldoc.Document) string {
	flexible, _ := xmldoc.Find(source.Element,
		"//Services/Service/ServiceClassification/Flexible | //Services/Service/FlexibleService")
	if flexible != nil {
		return profile.ServiceTypeFlexible
	}

	return profile.ServiceTypeStandard
}

func (v *Validator) now() time.Time {
	if v.Now != nil {
		return v.Now()
	}

	return time.Now()
}

func snippet(node *xmldoc.Node) string {
	collapsed := strings.Join(strings.Fields(node.InnerText()), " ")

	return util.TrimString(collapsed, 120)
}
