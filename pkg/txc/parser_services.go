package txc

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/txcheck/txcheck/pkg/taxonomy"
	"github.com/txcheck/txcheck/pkg/xmldoc"
)

func parseServices(document *Document, root *xmldoc.Node) {
	nodes, _ := xmldoc.FindAll(root, "Services/Service")

	for _, node := range nodes {
		service, err := parseService(node)
		if err != nil {
			log.Warn().Err(err).Str("entity", "Service").Msg("Skipping service")
			continue
		}

		document.Services = append(document.Services, service)
	}
}

func parseService(node *xmldoc.Node) (*Service, error) {
	service := &Service{
		ServiceCode:           xmldoc.GetText(node, "ServiceCode"),
		RegisteredOperatorRef: xmldoc.GetText(node, "RegisteredOperatorRef"),
		Mode:                  xmldoc.GetText(node, "Mode"),
		Node:                  node,
	}

	if service.ServiceCode == "" {
		return nil, fmt.Errorf("missing ServiceCode")
	}

	if service.Mode != "" && !taxonomy.ValidTransportMode(service.Mode) {
		return nil, fmt.Errorf("service %s has unknown Mode %q", service.ServiceCode, service.Mode)
	}

	periodNode, _ := xmldoc.Find(node, "OperatingPeriod")
	if periodNode == nil {
		return nil, fmt.Errorf("service %s missing OperatingPeriod", service.ServiceCode)
	}

	period, err := parseDateRange(periodNode)
	if err != nil {
		return nil, fmt.Errorf("service %s: %w", service.ServiceCode, err)
	}
	service.OperatingPeriod = period

	lineNodes, _ := xmldoc.FindAll(node, "Lines/Line")
	for _, lineNode := range lineNodes {
		line := parseLine(lineNode)
		if line == nil {
			continue
		}

		service.Lines = append(service.Lines, line)
	}

	if flexible, _ := xmldoc.Find(node, "ServiceClassification/Flexible"); flexible != nil {
		service.ClassifiedFlexible = true
	}

	standardNode, _ := xmldoc.Find(node, "StandardService")
	flexibleNode, _ := xmldoc.Find(node, "FlexibleService")

	if standardNode != nil && flexibleNode != nil {
		return nil, fmt.Errorf("service %s declares both StandardService and FlexibleService", service.ServiceCode)
	}

	if standardNode != nil {
		standard, err := parseStandardService(standardNode)
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", service.ServiceCode, err)
		}
		service.StandardService = standard
	}

	if flexibleNode != nil {
		flexible, err := parseFlexibleService(flexibleNode)
		if err != nil {
			return nil, fmt.Errorf("service %s: %w", service.ServiceCode, err)
		}
		service.FlexibleService = flexible
	}

	if profileNode, _ := xmldoc.Find(node, "OperatingProfile"); profileNode != nil {
		service.OperatingProfile = parseOperatingProfile(profileNode)
	}

	if creation, ok := xmldoc.ParseDateTime(node.Attr("CreationDateTime", "")); ok {
		service.CreationDateTime = creation
	}
	if modification, ok := xmldoc.ParseDateTime(node.Attr("ModificationDateTime", "")); ok {
		service.ModificationDateTime = modification
	}

	return service, nil
}

func parseLine(node *xmldoc.Node) *Line {
	line := &Line{
		ID:       node.Attr("id", ""),
		LineName: xmldoc.GetText(node, "LineName"),
		Node:     node,
	}

	if line.ID == "" || line.LineName == "" {
		log.Warn().Str("entity", "Line").Msg("Skipping line with no id or LineName")
		return nil
	}

	line.OutboundDescription = parseLineDescription(node, "OutboundDescription")
	line.InboundDescription = parseLineDescription(node, "InboundDescription")

	return line
}

func parseLineDescription(node *xmldoc.Node, name string) *LineDescription {
	descriptionNode, _ := xmldoc.Find(node, name)
	if descriptionNode == nil {
		return nil
	}

	return &LineDescription{
		Origin:      xmldoc.GetText(descriptionNode, "Origin"),
		Destination: xmldoc.GetText(descriptionNode, "Destination"),
		Description: xmldoc.GetText(descriptionNode, "Description"),
	}
}

func parseStandardService(node *xmldoc.Node) (*StandardService, error) {
	standard := &StandardService{
		Origin:           xmldoc.GetText(node, "Origin"),
		Destination:      xmldoc.GetText(node, "Destination"),
		UseAllStopPoints: xmldoc.GetBool(node, "UseAllStopPoints", false),
	}

	viaNodes, _ := xmldoc.FindAll(node, "Vias/Via")
	for _, viaNode := range viaNodes {
		standard.Vias = append(standard.Vias, viaNode.InnerText())
	}

	patternNodes, _ := xmldoc.FindAll(node, "JourneyPattern")
	for _, patternNode := range patternNodes {
		pattern, err := parseJourneyPattern(patternNode)
		if err != nil {
			log.Warn().Err(err).Str("entity", "JourneyPattern").Msg("Skipping journey pattern")
			continue
		}

		standard.JourneyPatterns = append(standard.JourneyPatterns, pattern)
	}

	if len(standard.JourneyPatterns) == 0 {
		return nil, fmt.Errorf("StandardService with no journey patterns")
	}

	return standard, nil
}

func parseJourneyPattern(node *xmldoc.Node) (*JourneyPattern, error) {
	pattern := &JourneyPattern{
		ID:                 node.Attr("id", ""),
		DestinationDisplay: xmldoc.GetText(node, "DestinationDisplay"),
		Direction:          xmldoc.GetText(node, "Direction"),
		RouteRef:           xmldoc.GetText(node, "RouteRef"),
		Node:               node,
	}

	if pattern.ID == "" {
		return nil, fmt.Errorf("missing id attribute")
	}

	refNodes, _ := xmldoc.FindAll(node, "JourneyPatternSectionRefs")
	for _, refNode := range refNodes {
		pattern.SectionRefs = append(pattern.SectionRefs, refNode.InnerText())
	}

	if len(pattern.SectionRefs) == 0 {
		return nil, fmt.Errorf("journey pattern %s has no JourneyPatternSectionRefs", pattern.ID)
	}

	if profileNode, _ := xmldoc.Find(node, "OperatingProfile"); profileNode != nil {
		pattern.OperatingProfile = parseOperatingProfile(profileNode)
	}

	return pattern, nil
}

func parseFlexibleService(node *xmldoc.Node) (*FlexibleService, error) {
	flexible := &FlexibleService{
		Origin:      xmldoc.GetText(node, "Origin"),
		Destination: xmldoc.GetText(node, "Destination"),
	}

	patternNodes, _ := xmldoc.FindAll(node, "FlexibleJourneyPattern")
	for _, patternNode := range patternNodes {
		pattern, err := parseFlexibleJourneyPattern(patternNode)
		if err != nil {
			log.Warn().Err(err).Str("entity", "FlexibleJourneyPattern").Msg("Skipping flexible journey pattern")
			continue
		}

		flexible.JourneyPatterns = append(flexible.JourneyPatterns, pattern)
	}

	if len(flexible.JourneyPatterns) == 0 {
		return nil, fmt.Errorf("FlexibleService with no flexible journey patterns")
	}

	return flexible, nil
}

func parseFlexibleJourneyPattern(node *xmldoc.Node) (*FlexibleJourneyPattern, error) {
	pattern := &FlexibleJourneyPattern{
		ID:   node.Attr("id", ""),
		Node: node,
	}

	if pattern.ID == "" {
		return nil, fmt.Errorf("missing id attribute")
	}

	sequenceNode, _ := xmldoc.Find(node, "StopPointsInSequence")
	if sequenceNode != nil {
		for _, usageNode := range sequenceNode.Children() {
			usage := FlexibleStopUsage{
				StopPointRef: xmldoc.GetText(usageNode, "StopPointRef"),
				Activity:     xmldoc.GetText(usageNode, "Activity"),
			}

			switch usageNode.Name {
			case "FixedStopUsage":
				timingStatus := xmldoc.GetText(usageNode, "TimingStatus")
				if timingStatus != "" {
					canonical, ok := taxonomy.NormaliseTimingStatus(timingStatus)
					if !ok {
						return nil, fmt.Errorf("pattern %s has unknown TimingStatus %q", pattern.ID, timingStatus)
					}
					usage.TimingStatus = canonical
				}
			case "FlexibleStopUsage":
				usage.Flexible = true
			default:
				continue
			}

			if usage.StopPointRef == "" {
				return nil, fmt.Errorf("pattern %s has a stop usage with no StopPointRef", pattern.ID)
			}

			pattern.StopPointsInSequence = append(pattern.StopPointsInSequence, usage)
		}
	}

	zoneNodes, _ := xmldoc.FindAll(node, "FlexibleZones/FlexibleZone/StopPointRef")
	for _, zoneNode := range zoneNodes {
		pattern.FlexibleZones = append(pattern.FlexibleZones, FlexibleZone{StopPointRef: zoneNode.InnerText()})
	}

	if bookingNode, _ := xmldoc.Find(node, "BookingArrangements"); bookingNode != nil {
		booking := &BookingArrangements{
			Description:      xmldoc.GetText(bookingNode, "Description"),
			Phone:            xmldoc.GetText(bookingNode, "Phone/TelNationalNumber"),
			Email:            xmldoc.GetText(bookingNode, "Email"),
			WebAddress:       xmldoc.GetText(bookingNode, "WebAddress"),
			AllBookingsTaken: xmldoc.GetBool(bookingNode, "AllBookingsTaken", false),
		}

		if booking.Description == "" {
			log.Warn().Str("entity", "BookingArrangements").Msgf("Booking arrangements for pattern %s have no description", pattern.ID)
		} else {
			pattern.BookingArrangements = booking
		}
	}

	return pattern, nil
}
