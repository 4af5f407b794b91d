package predicate

import (
	"fmt"
	"sort"
	"strings"

	"github.com/txcheck/txcheck/pkg/ruleexpr"
	"github.com/txcheck/txcheck/pkg/taxonomy"
	"github.com/txcheck/txcheck/pkg/xmldoc"
)

func registerProfilePredicates(pc *Context, table ruleexpr.FunctionTable) {
	table["validate_bank_holidays"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		operationNode, err := nodeArg("validate_bank_holidays", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if operationNode == nil {
			return pass()
		}

		var names []string
		parents, _ := xmldoc.FindAll(operationNode, "DaysOfOperation | DaysOfNonOperation")
		for _, parent := range parents {
			for _, child := range parent.Children() {
				if taxonomy.IsOtherBankHoliday(child.Name) || taxonomy.IsRetiredBankHoliday(child.Name) {
					continue
				}

				names = append(names, child.Name)
			}
		}

		seen := map[string]bool{}
		for _, name := range names {
			if seen[name] {
				return failWhole(operationNode, fmt.Sprintf("bank holiday %s is declared more than once", name))
			}
			seen[name] = true
		}

		inScotland, err := pc.Lookups.Scotland.InScotland(pc.Ctx, pc.serviceRefFor(operationNode))
		if err != nil {
			return ruleexpr.Value{}, err
		}

		// Names exclusive to the other region are subtracted before the
		// comparison, not rejected.
		expected := taxonomy.ExpectedEnglishHolidays()
		foreign := taxonomy.IsScottishBankHoliday
		region := "an English"
		if inScotland {
			expected = taxonomy.ExpectedScottishHolidays()
			foreign = taxonomy.IsEnglishBankHoliday
			region = "a Scottish"
		}

		declared := make([]string, 0, len(names))
		for _, name := range names {
			if foreign(name) {
				continue
			}

			declared = append(declared, name)
		}

		sort.Strings(declared)
		if !equalStrings(declared, expected) {
			return failWhole(operationNode, fmt.Sprintf("bank holiday operation does not cover the expected set for %s service", region))
		}

		return pass()
	}

	table["has_servicedorganisation_working_days"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		organisationNode, err := nodeArg("has_servicedorganisation_working_days", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if organisationNode == nil {
			return pass()
		}

		if workingDays, _ := xmldoc.Find(organisationNode, "WorkingDays/DateRange"); workingDays != nil {
			return pass()
		}

		return failNodes([]*xmldoc.Node{organisationNode})
	}

	table["validate_licence_number"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		if _, err := nodeArg("validate_licence_number", args, 0); err != nil {
			return ruleexpr.Value{}, err
		}
		if pc.Document == nil {
			return pass()
		}

		var offending []*xmldoc.Node
		for _, operator := range pc.Document.Operators {
			if strings.EqualFold(operator.PrimaryMode, "coach") {
				continue
			}

			if operator.LicenceNumber == "" {
				offending = append(offending, operator.Node)
			}
		}

		return verdict(offending)
	}

	table["validate_modification_date_time"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		rootNode, err := nodeArg("validate_modification_date_time", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if pc.Document == nil {
			return pass()
		}

		metadata := pc.Document.Metadata

		if metadata.RevisionNumber == 0 {
			if metadata.CreationDateTime.Equal(metadata.ModificationDateTime) {
				return pass()
			}

			return failWhole(rootNode, "revision 0 must have identical creation and modification timestamps")
		}

		if metadata.CreationDateTime.Before(metadata.ModificationDateTime) {
			return pass()
		}

		return failWhole(rootNode, "the modification timestamp must postdate the creation timestamp")
	}
}

// serviceRefFor resolves the service a profile node belongs to: the
// enclosing vehicle journey's ServiceRef, the enclosing service's code, or
// the document's first service.
func (pc *Context) serviceRefFor(node *xmldoc.Node) string {
	if journeyNode := ancestor(node, "VehicleJourney"); journeyNode != nil {
		if ref := xmldoc.GetText(journeyNode, "ServiceRef"); ref != "" {
			return ref
		}
	}

	if serviceNode := ancestor(node, "Service"); serviceNode != nil {
		if code := xmldoc.GetText(serviceNode, "ServiceCode"); code != "" {
			return code
		}
	}

	if pc.Document != nil && len(pc.Document.Services) > 0 {
		return pc.Document.Services[0].ServiceCode
	}

	return ""
}

func equalStrings(a []string, b []string) bool {
	if len(a) != len(b) {
		return false
	}

	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}

	return true
}
