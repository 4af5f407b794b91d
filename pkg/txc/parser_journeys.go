package txc

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/txcheck/txcheck/pkg/taxonomy"
	"github.com/txcheck/txcheck/pkg/xmldoc"
)

func parseJourneyPatternSections(document *Document, root *xmldoc.Node) {
	nodes, _ := xmldoc.FindAll(root, "JourneyPatternSections/JourneyPatternSection")

	for _, node := range nodes {
		section := &JourneyPatternSection{
			ID:   node.Attr("id", ""),
			Node: node,
		}

		if section.ID == "" {
			log.Warn().Str("entity", "JourneyPatternSection").Msg("Skipping journey pattern section with no id")
			continue
		}

		linkNodes, _ := xmldoc.FindAll(node, "JourneyPatternTimingLink")
		for _, linkNode := range linkNodes {
			link, err := parseJourneyPatternTimingLink(linkNode)
			if err != nil {
				log.Warn().Err(err).Str("entity", "JourneyPatternTimingLink").Msg("Skipping timing link")
				continue
			}

			section.TimingLinks = append(section.TimingLinks, link)
		}

		document.JourneyPatternSections = append(document.JourneyPatternSections, section)
	}
}

func parseJourneyPatternTimingLink(node *xmldoc.Node) (*JourneyPatternTimingLink, error) {
	link := &JourneyPatternTimingLink{
		ID:           node.Attr("id", ""),
		RouteLinkRef: xmldoc.GetText(node, "RouteLinkRef"),
		Direction:    xmldoc.GetText(node, "Direction"),
		RunTime:      NormaliseDuration(xmldoc.GetText(node, "RunTime")),
		Node:         node,
	}

	if link.ID == "" {
		return nil, fmt.Errorf("missing id attribute")
	}

	from, err := parseTimingLinkUsage(node, "From")
	if err != nil {
		return nil, fmt.Errorf("timing link %s: %w", link.ID, err)
	}
	if from == nil {
		return nil, fmt.Errorf("timing link %s missing From", link.ID)
	}
	link.From = *from

	to, err := parseTimingLinkUsage(node, "To")
	if err != nil {
		return nil, fmt.Errorf("timing link %s: %w", link.ID, err)
	}
	if to == nil {
		return nil, fmt.Errorf("timing link %s missing To", link.ID)
	}
	link.To = *to

	return link, nil
}

func parseTimingLinkUsage(node *xmldoc.Node, name string) (*TimingLinkUsage, error) {
	usageNode, _ := xmldoc.Find(node, name)
	if usageNode == nil {
		return nil, nil
	}

	usage := &TimingLinkUsage{
		Activity:                  xmldoc.GetText(usageNode, "Activity"),
		StopPointRef:              xmldoc.GetText(usageNode, "StopPointRef"),
		DynamicDestinationDisplay: xmldoc.GetText(usageNode, "DynamicDestinationDisplay"),
		WaitTime:                  NormaliseDuration(xmldoc.GetText(usageNode, "WaitTime")),
		SequenceNumber:            usageNode.Attr("SequenceNumber", ""),
	}

	if usage.Activity != "" && !taxonomy.ValidActivity(usage.Activity) {
		return nil, fmt.Errorf("unknown Activity %q", usage.Activity)
	}

	timingStatus := xmldoc.GetText(usageNode, "TimingStatus")
	if timingStatus != "" {
		canonical, ok := taxonomy.NormaliseTimingStatus(timingStatus)
		if !ok {
			return nil, fmt.Errorf("unknown TimingStatus %q", timingStatus)
		}
		usage.TimingStatus = canonical
	}

	return usage, nil
}

func parseVehicleJourneys(document *Document, root *xmldoc.Node) {
	nodes, _ := xmldoc.FindAll(root, "VehicleJourneys/VehicleJourney | VehicleJourneys/FlexibleVehicleJourney")

	for _, node := range nodes {
		journey, err := parseVehicleJourney(node)
		if err != nil {
			log.Warn().Err(err).Str("entity", "VehicleJourney").Msg("Skipping vehicle journey")
			continue
		}

		document.VehicleJourneys = append(document.VehicleJourneys, journey)
	}
}

func parseVehicleJourney(node *xmldoc.Node) (*VehicleJourney, error) {
	journey := &VehicleJourney{
		VehicleJourneyCode: xmldoc.GetText(node, "VehicleJourneyCode"),
		PrivateCode:        xmldoc.GetText(node, "PrivateCode"),
		OperatorRef:        xmldoc.GetText(node, "OperatorRef"),
		ServiceRef:         xmldoc.GetText(node, "ServiceRef"),
		LineRef:            xmldoc.GetText(node, "LineRef"),
		Direction:          xmldoc.GetText(node, "Direction"),
		JourneyPatternRef:  xmldoc.GetText(node, "JourneyPatternRef"),
		VehicleJourneyRef:  xmldoc.GetText(node, "VehicleJourneyRef"),
		Node:               node,
	}

	if journey.VehicleJourneyCode == "" {
		return nil, fmt.Errorf("missing VehicleJourneyCode")
	}
	if journey.ServiceRef == "" {
		return nil, fmt.Errorf("journey %s missing ServiceRef", journey.VehicleJourneyCode)
	}

	if (journey.JourneyPatternRef == "") == (journey.VehicleJourneyRef == "") {
		return nil, fmt.Errorf("journey %s must reference exactly one of JourneyPatternRef or VehicleJourneyRef", journey.VehicleJourneyCode)
	}

	if node.Name == "FlexibleVehicleJourney" {
		journey.Flexible = &FlexibleVehicleJourney{}

		if timesNode, _ := xmldoc.Find(node, "FlexibleServiceTimes"); timesNode != nil {
			journey.Flexible.HasFlexibleServiceTimes = true
			journey.Flexible.ServicePeriods = parseDateRanges(timesNode, "ServicePeriod")
		}
	} else {
		departure, shift, err := parseDepartureTime(xmldoc.GetText(node, "DepartureTime"))
		if err != nil {
			return nil, fmt.Errorf("journey %s: %w", journey.VehicleJourneyCode, err)
		}

		journey.DepartureTime = departure
		journey.DepartureDayShift = shift

		if dayShift, ok := xmldoc.GetInt(node, "DepartureDayShift"); ok {
			journey.DepartureDayShift = dayShift
		}
	}

	if profileNode, _ := xmldoc.Find(node, "OperatingProfile"); profileNode != nil {
		journey.OperatingProfile = parseOperatingProfile(profileNode)
	}

	linkNodes, _ := xmldoc.FindAll(node, "VehicleJourneyTimingLink")
	for _, linkNode := range linkNodes {
		link, err := parseVehicleJourneyTimingLink(linkNode)
		if err != nil {
			log.Warn().Err(err).Str("entity", "VehicleJourneyTimingLink").Msg("Skipping vehicle journey timing link")
			continue
		}

		journey.TimingLinks = append(journey.TimingLinks, link)
	}

	if hasChild(node, "Frequency") {
		journey.Frequency = &Frequency{}
	}
	if hasChild(node, "StartDeadRun") || hasChild(node, "EndDeadRun") {
		journey.DeadRun = &DeadRun{}
	}
	if hasChild(node, "VehicleJourneyInterchange") {
		journey.VehicleJourneyInterchange = &VehicleJourneyInterchange{}
	}

	if creation, ok := xmldoc.ParseDateTime(node.Attr("CreationDateTime", "")); ok {
		journey.CreationDateTime = creation
	}
	if modification, ok := xmldoc.ParseDateTime(node.Attr("ModificationDateTime", "")); ok {
		journey.ModificationDateTime = modification
	}

	return journey, nil
}

// parseDepartureTime accepts HH:MM:SS with an optional +n day suffix used
// by journeys departing after midnight.
func parseDepartureTime(value string) (string, int, error) {
	if value == "" {
		return "", 0, fmt.Errorf("missing DepartureTime")
	}

	shift := 0
	if at := strings.Index(value, "+"); at >= 0 {
		parsed, err := strconv.Atoi(strings.TrimSpace(value[at+1:]))
		if err != nil {
			return "", 0, fmt.Errorf("invalid departure day shift in %q", value)
		}

		shift = parsed
		value = strings.TrimSpace(value[:at])
	}

	if _, err := strconv.Atoi(strings.ReplaceAll(value, ":", "")); err != nil || strings.Count(value, ":") != 2 {
		return "", 0, fmt.Errorf("invalid DepartureTime %q", value)
	}

	return value, shift, nil
}

func parseVehicleJourneyTimingLink(node *xmldoc.Node) (*VehicleJourneyTimingLink, error) {
	link := &VehicleJourneyTimingLink{
		ID:                          node.Attr("id", ""),
		JourneyPatternTimingLinkRef: xmldoc.GetText(node, "JourneyPatternTimingLinkRef"),
		RunTime:                     NormaliseDuration(xmldoc.GetText(node, "RunTime")),
		Node:                        node,
	}

	if link.JourneyPatternTimingLinkRef == "" {
		return nil, fmt.Errorf("missing JourneyPatternTimingLinkRef")
	}

	from, err := parseTimingLinkUsage(node, "From")
	if err != nil {
		return nil, err
	}
	link.From = from

	to, err := parseTimingLinkUsage(node, "To")
	if err != nil {
		return nil, err
	}
	link.To = to

	return link, nil
}
