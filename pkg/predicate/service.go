package predicate

import (
	"strings"

	"github.com/txcheck/txcheck/pkg/ruleexpr"
	"github.com/txcheck/txcheck/pkg/txc"
	"github.com/txcheck/txcheck/pkg/util"
	"github.com/txcheck/txcheck/pkg/xmldoc"
)

// ancestor walks up the DOM to the nearest enclosing element of the given
// name, the node itself included.
func ancestor(node *xmldoc.Node, name string) *xmldoc.Node {
	for current := node; current != nil; current = current.Parent {
		if current.Type == xmldoc.ElementNode && current.Name == name {
			return current
		}
	}

	return nil
}

// serviceOf resolves the parsed service owning a DOM node.
func (pc *Context) serviceOf(node *xmldoc.Node) *txc.Service {
	if pc.Document == nil {
		return nil
	}

	serviceNode := ancestor(node, "Service")
	if serviceNode == nil {
		return nil
	}

	return pc.Document.ServiceByCode(xmldoc.GetText(serviceNode, "ServiceCode"))
}

func registerServicePredicates(pc *Context, table ruleexpr.FunctionTable) {
	table["validate_line_id"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		lineNode, err := nodeArg("validate_line_id", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if lineNode == nil {
			return pass()
		}

		service := pc.serviceOf(lineNode)
		if service == nil {
			return pass()
		}

		noc := ""
		if operator := pc.Document.OperatorByID(service.RegisteredOperatorRef); operator != nil {
			noc = operator.NationalOperatorCode
			if noc == "" {
				noc = operator.OperatorCode
			}
		}

		lineName := strings.Join(strings.Fields(xmldoc.GetText(lineNode, "LineName")), "")
		expected := noc + ":" + service.ServiceCode + ":" + lineName

		if strings.HasPrefix(lineNode.Attr("id", ""), expected) {
			return pass()
		}

		return failNodes([]*xmldoc.Node{lineNode})
	}

	table["check_service_group_validations"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		servicesNode, err := nodeArg("check_service_group_validations", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if pc.Document == nil || len(pc.Document.Services) <= 1 {
			return pass()
		}

		registeredStandard := 0
		registeredFlexible := 0

		for _, service := range pc.Document.Services {
			switch {
			case service.Registered() && service.ClassifiedFlexible:
				registeredFlexible++
			case service.Registered() && service.StandardService != nil:
				registeredStandard++
			}
		}

		if registeredFlexible == 1 && registeredStandard == 0 {
			return pass()
		}

		return failWhole(servicesNode, "a multi-service document may only combine one registered flexible service with unregistered services")
	}

	table["has_flexible_or_standard_service"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		if _, err := nodeArg("has_flexible_or_standard_service", args, 0); err != nil {
			return ruleexpr.Value{}, err
		}
		if pc.Document == nil {
			return pass()
		}

		var offending []*xmldoc.Node
		for _, service := range pc.Document.Services {
			valid := false
			if service.ClassifiedFlexible {
				valid = service.FlexibleService != nil
			} else {
				valid = service.StandardService != nil
			}

			if !valid {
				offending = append(offending, service.Node)
			}
		}

		return verdict(offending)
	}

	table["check_inbound_outbound_description"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		serviceNode, err := nodeArg("check_inbound_outbound_description", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if serviceNode == nil {
			return pass()
		}

		descriptions, _ := xmldoc.FindAll(serviceNode, "Lines/Line/OutboundDescription | Lines/Line/InboundDescription")
		if len(descriptions) > 0 {
			return pass()
		}

		return failWhole(serviceNode, "a standard service must describe at least one direction")
	}

	table["check_description_for_inbound_description"] = descriptionContentCheck(pc, "InboundDescription")
	table["check_description_for_outbound_description"] = descriptionContentCheck(pc, "OutboundDescription")

	table["validate_lines"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		linesNode, err := nodeArg("validate_lines", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if linesNode == nil || pc.Document == nil {
			return pass()
		}

		lineNodes := linesNode.Children()
		if len(lineNodes) < 2 {
			return pass()
		}

		var lineIDs []string
		for _, lineNode := range lineNodes {
			if lineNode.Name == "Line" {
				lineIDs = append(lineIDs, lineNode.Attr("id", ""))
			}
		}

		for i := 0; i < len(lineIDs); i++ {
			for j := i + 1; j < len(lineIDs); j++ {
				if pc.linesRelated(lineIDs[i], lineIDs[j]) {
					return pass()
				}
			}
		}

		return failNodes([]*xmldoc.Node{linesNode})
	}
}

func descriptionContentCheck(pc *Context, direction string) ruleexpr.Function {
	return func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		serviceNode, err := nodeArg("check_description_for_"+strings.ToLower(direction), args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if serviceNode == nil {
			return pass()
		}

		descriptions, _ := xmldoc.FindAll(serviceNode, "Lines/Line/"+direction)

		var offending []*xmldoc.Node
		for _, description := range descriptions {
			if xmldoc.GetText(description, "Description") == "" {
				offending = append(offending, description)
			}
		}

		return verdict(offending)
	}
}

// linesRelated applies the three relatedness criteria: a shared journey
// pattern, a shared stop, or a shared stop area / locality.
func (pc *Context) linesRelated(lineA string, lineB string) bool {
	if util.StringsIntersect(pc.Document.PatternRefsForLine(lineA), pc.Document.PatternRefsForLine(lineB)) {
		return true
	}

	stopsA := pc.Document.StopRefsForLine(lineA)
	stopsB := pc.Document.StopRefsForLine(lineB)

	if util.StringsIntersect(stopsA, stopsB) {
		return true
	}

	areasA, localitiesA := pc.stopAreasAndLocalities(stopsA)
	areasB, localitiesB := pc.stopAreasAndLocalities(stopsB)

	return util.StringsIntersect(areasA, areasB) || util.StringsIntersect(localitiesA, localitiesB)
}

func (pc *Context) stopAreasAndLocalities(stopRefs []string) ([]string, []string) {
	var areas []string
	var localities []string

	for _, ref := range stopRefs {
		record := pc.StopRecords[ref]
		if record == nil {
			continue
		}

		areas = append(areas, record.StopAreas...)
		if record.LocalityName != "" {
			localities = append(localities, record.LocalityName)
		}
	}

	return areas, localities
}
