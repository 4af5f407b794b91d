package predicate

import (
	"regexp"
	"strings"

	"github.com/txcheck/txcheck/pkg/netex"
	"github.com/txcheck/txcheck/pkg/ruleexpr"
	"github.com/txcheck/txcheck/pkg/xmldoc"
)

var publicCodeRegex = regexp.MustCompile(`^[A-Za-z0-9]{4}$`)

// fareStructureTriad pairs each fare structure element type with the
// access right assignment it must carry.
var fareStructureTriad = map[string]string{
	"fxc:access":            "fxc:can_access",
	"fxc:eligibility":       "fxc:eligible",
	"fxc:travel_conditions": "fxc:condition_of_use",
}

func registerFaresPredicates(pc *Context, table ruleexpr.FunctionTable) {
	table["check_composite_frame_valid_between"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		frameNode, err := nodeArg("check_composite_frame_valid_between", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if frameNode == nil {
			return pass()
		}

		// Metadata frames carry no validity window
		if strings.Contains(refValue(frameNode, "TypeOfFrameRef"), "UK_PI_METADATA") {
			return pass()
		}

		if xmldoc.GetText(frameNode, "ValidBetween/FromDate") != "" {
			return pass()
		}

		return failNodes([]*xmldoc.Node{frameNode})
	}

	table["check_type_of_frame_ref"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		refNode, err := nodeArg("check_type_of_frame_ref", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if refNode == nil {
			return pass()
		}

		if netex.AllowedTypeOfFrameRef(refNode.Attr("ref", "")) {
			return pass()
		}

		return failNodes([]*xmldoc.Node{refNode})
	}

	table["check_resource_frame_operator"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		operatorNode, err := nodeArg("check_resource_frame_operator", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if operatorNode == nil {
			return pass()
		}

		name := xmldoc.GetText(operatorNode, "Name")
		publicCode := xmldoc.GetText(operatorNode, "PublicCode")

		if name != "" && publicCodeRegex.MatchString(publicCode) {
			return pass()
		}

		return failNodes([]*xmldoc.Node{operatorNode})
	}

	table["check_resource_frame_organisation_elements"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		frameNode, err := nodeArg("check_resource_frame_organisation_elements", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if frameNode == nil {
			return pass()
		}

		operators, _ := xmldoc.FindAll(frameNode, "organisations/Operator")
		if len(operators) > 0 {
			return pass()
		}

		return failWhole(frameNode, "the ResourceFrame must declare at least one organisation operator")
	}

	table["check_fare_structure_element"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		elementsNode, err := nodeArg("check_fare_structure_element", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if elementsNode == nil {
			return pass()
		}

		found := map[string]bool{}
		var offending []*xmldoc.Node

		elements, _ := xmldoc.FindAll(elementsNode, "FareStructureElement")
		for _, element := range elements {
			typeRef := refValue(element, "TypeOfFareStructureElementRef")

			assignment, known := fareStructureTriad[typeRef]
			if !known {
				continue
			}

			if refValue(element, "GenericParameterAssignment/TypeOfAccessRightAssignmentRef") != assignment {
				offending = append(offending, element)
				continue
			}

			found[typeRef] = true
		}

		if len(offending) > 0 {
			return failNodes(offending)
		}

		if len(found) != len(fareStructureTriad) {
			return failWhole(elementsNode, "fare structure elements must combine access, eligibility and travel conditions")
		}

		return pass()
	}

	table["check_sales_offer_package"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		packageNode, err := nodeArg("check_sales_offer_package", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if packageNode == nil {
			return pass()
		}

		distributions, _ := xmldoc.FindAll(packageNode, "distributionAssignments/DistributionAssignment")
		elements, _ := xmldoc.FindAll(packageNode, "salesOfferPackageElements/SalesOfferPackageElement")

		if len(distributions) > 0 && len(elements) > 0 {
			return pass()
		}

		return failNodes([]*xmldoc.Node{packageNode})
	}

	table["check_capped_discount_right_rules"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		rightNode, err := nodeArg("check_capped_discount_right_rules", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if rightNode == nil {
			return pass()
		}

		rules, _ := xmldoc.FindAll(rightNode, "cappingRules/CappingRule")
		if len(rules) == 0 {
			return failNodes([]*xmldoc.Node{rightNode})
		}

		var offending []*xmldoc.Node
		for _, rule := range rules {
			if xmldoc.GetText(rule, "Name") == "" ||
				xmldoc.GetText(rule, "CappingPeriod") == "" ||
				refValue(rule, "ValidableElementRef") == "" {
				offending = append(offending, rule)
			}
		}

		return verdict(offending)
	}
}

// refValue returns the ref attribute of the first node matching the path.
func refValue(node *xmldoc.Node, path string) string {
	target, _ := xmldoc.Find(node, path)
	if target == nil {
		return ""
	}

	return target.Attr("ref", "")
}
