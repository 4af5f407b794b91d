package predicate

import (
	"github.com/txcheck/txcheck/pkg/ruleexpr"
	"github.com/txcheck/txcheck/pkg/txc"
	"github.com/txcheck/txcheck/pkg/xmldoc"
)

func registerJourneyPredicates(pc *Context, table ruleexpr.FunctionTable) {
	table["validate_timing_link_stops"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		sectionNode, err := nodeArg("validate_timing_link_stops", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if sectionNode == nil || pc.Document == nil {
			return pass()
		}

		section := pc.Document.Section(sectionNode.Attr("id", ""))
		if section == nil {
			return pass()
		}

		var offending []*xmldoc.Node
		for i := 1; i < len(section.TimingLinks); i++ {
			previous := section.TimingLinks[i-1]
			current := section.TimingLinks[i]

			if previous.To.StopPointRef != current.From.StopPointRef {
				offending = append(offending, current.Node)
			}
		}

		return verdict(offending)
	}

	table["validate_run_time"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		if _, err := nodeArg("validate_run_time", args, 0); err != nil {
			return ruleexpr.Value{}, err
		}
		if pc.Document == nil {
			return pass()
		}

		// JPTL id -> whether any referencing VJTL redeclares From / To
		type usage struct {
			hasFrom bool
			hasTo   bool
		}
		usages := map[string]usage{}

		for _, journey := range pc.Document.VehicleJourneys {
			for _, link := range journey.TimingLinks {
				entry := usages[link.JourneyPatternTimingLinkRef]
				entry.hasFrom = entry.hasFrom || link.From != nil
				entry.hasTo = entry.hasTo || link.To != nil
				usages[link.JourneyPatternTimingLinkRef] = entry
			}
		}

		var offending []*xmldoc.Node
		for _, section := range pc.Document.JourneyPatternSections {
			for _, link := range section.TimingLinks {
				if txc.ZeroDuration(link.RunTime) {
					continue
				}

				if entry := usages[link.ID]; entry.hasFrom || entry.hasTo {
					offending = append(offending, link.Node)
				}
			}
		}

		return verdict(offending)
	}

	table["has_destination_display"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		patternNode, err := nodeArg("has_destination_display", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if patternNode == nil || pc.Document == nil {
			return pass()
		}

		if xmldoc.GetText(patternNode, "DestinationDisplay") != "" {
			return pass()
		}

		pattern := pc.Document.Pattern(patternNode.Attr("id", ""))
		if pattern == nil {
			return pass()
		}

		if allTimingLinksDisplay(pc.Document, pattern) {
			return pass()
		}

		if allJourneysDisplay(pc.Document, pattern) {
			return pass()
		}

		return failNodes([]*xmldoc.Node{patternNode})
	}

	table["check_flexible_service_times"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		journeysNode, err := nodeArg("check_flexible_service_times", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if pc.Document == nil {
			return pass()
		}

		flexible := 0
		withTimes := 0

		for _, journey := range pc.Document.VehicleJourneys {
			if journey.Flexible == nil {
				continue
			}

			flexible++
			if journey.Flexible.HasFlexibleServiceTimes {
				withTimes++
			}
		}

		if flexible == 0 || withTimes > 0 {
			return pass()
		}

		return failWhole(journeysNode, "flexible vehicle journeys must declare FlexibleServiceTimes")
	}
}

// allTimingLinksDisplay reports whether every timing link of the pattern
// carries dynamic destination displays at both ends.
func allTimingLinksDisplay(document *txc.Document, pattern *txc.JourneyPattern) bool {
	checked := 0

	for _, sectionRef := range pattern.SectionRefs {
		section := document.Section(sectionRef)
		if section == nil {
			continue
		}

		for _, link := range section.TimingLinks {
			checked++

			if link.From.DynamicDestinationDisplay == "" || link.To.DynamicDestinationDisplay == "" {
				return false
			}
		}
	}

	return checked > 0
}

// allJourneysDisplay reports whether every vehicle journey using the
// pattern carries its own DestinationDisplay.
func allJourneysDisplay(document *txc.Document, pattern *txc.JourneyPattern) bool {
	journeys := document.JourneysForPattern(pattern.ID)
	if len(journeys) == 0 {
		return false
	}

	for _, journey := range journeys {
		if xmldoc.GetText(journey.Node, "DestinationDisplay") == "" {
			return false
		}
	}

	return true
}
