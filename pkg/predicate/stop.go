package predicate

import (
	"strings"

	"github.com/txcheck/txcheck/pkg/ruleexpr"
	"github.com/txcheck/txcheck/pkg/taxonomy"
	"github.com/txcheck/txcheck/pkg/txc"
	"github.com/txcheck/txcheck/pkg/xmldoc"
)

func registerStopPredicates(pc *Context, table ruleexpr.FunctionTable) {
	table["validate_non_naptan_stop_points"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		stopNode, err := nodeArg("validate_non_naptan_stop_points", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if stopNode == nil || pc.Document == nil {
			return pass()
		}

		atcoCode := xmldoc.GetText(stopNode, "AtcoCode")
		if atcoCode == "" || !pc.MissingStops[atcoCode] {
			return pass()
		}

		for _, journey := range pc.journeysCalling(atcoCode) {
			service := pc.Document.ServiceByCode(journey.ServiceRef)
			if service == nil || strings.EqualFold(service.Mode, "coach") {
				continue
			}

			window, ok := journey.OperatingProfile.OperatingWindow()
			if !ok {
				window = service.OperatingPeriod
			}

			if window.OpenEnded() || window.EndDate.After(window.StartDate.AddDate(0, 2, 0)) {
				return failNodes([]*xmldoc.Node{stopNode})
			}
		}

		return pass()
	}

	table["check_flexible_service_stop_point_ref"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		patternNode, err := nodeArg("check_flexible_service_stop_point_ref", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if patternNode == nil {
			return pass()
		}

		refNodes, _ := xmldoc.FindAll(patternNode,
			"StopPointsInSequence/FixedStopUsage/StopPointRef"+
				" | StopPointsInSequence/FlexibleStopUsage/StopPointRef"+
				" | FlexibleZones/FlexibleZone/StopPointRef")

		var offending []*xmldoc.Node
		for _, refNode := range refNodes {
			record := pc.StopRecords[strings.TrimSpace(refNode.InnerText())]
			if record == nil || record.StopType != "BCT" || record.BusStopType != "FLX" {
				offending = append(offending, refNode)
			}
		}

		return verdict(offending)
	}

	table["check_flexible_service_timing_status"] = func(_ *xmldoc.Node, args []ruleexpr.Value) (ruleexpr.Value, error) {
		patternNode, err := nodeArg("check_flexible_service_timing_status", args, 0)
		if err != nil {
			return ruleexpr.Value{}, err
		}
		if patternNode == nil {
			return pass()
		}

		sequenceNode, _ := xmldoc.Find(patternNode, "StopPointsInSequence")
		if sequenceNode == nil {
			return pass()
		}

		fixed := 0
		flexible := 0
		for _, usage := range sequenceNode.Children() {
			switch usage.Name {
			case "FixedStopUsage":
				fixed++
			case "FlexibleStopUsage":
				flexible++
			}
		}

		if fixed == 0 || flexible == 0 {
			return pass()
		}

		var offending []*xmldoc.Node
		for _, usage := range sequenceNode.Children() {
			if usage.Name != "FixedStopUsage" {
				continue
			}

			status, _ := taxonomy.NormaliseTimingStatus(xmldoc.GetText(usage, "TimingStatus"))
			if status != taxonomy.TimingStatusOtherPoint {
				offending = append(offending, usage)
			}
		}

		return verdict(offending)
	}
}

// journeysCalling returns every vehicle journey whose pattern includes a
// timing link touching the stop.
func (pc *Context) journeysCalling(atcoCode string) []*txc.VehicleJourney {
	seen := map[string]bool{}
	var journeys []*txc.VehicleJourney

	for _, link := range pc.Document.TimingLinksAtStop(atcoCode) {
		section := pc.Document.SectionOfTimingLink(link.ID)
		if section == nil {
			continue
		}

		for _, pattern := range pc.Document.PatternsUsingSection(section.ID) {
			for _, journey := range pc.Document.JourneysForPattern(pattern.ID) {
				if !seen[journey.VehicleJourneyCode] {
					seen[journey.VehicleJourneyCode] = true
					journeys = append(journeys, journey)
				}
			}
		}
	}

	return journeys
}
