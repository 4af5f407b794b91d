package txc

import (
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/txcheck/txcheck/pkg/taxonomy"
	"github.com/txcheck/txcheck/pkg/xmldoc"
)

func parseStopPoints(document *Document, root *xmldoc.Node, sourceSize int, config ParserConfig) {
	nodes, _ := xmldoc.FindAll(root, "StopPoints/StopPoint | StopPoints/AnnotatedStopPointRef")

	stream := config.StreamStopPointThreshold > 0 && sourceSize > config.StreamStopPointThreshold
	if stream {
		document.lazyStopPoints = make(map[string]*xmldoc.Node, len(nodes))
	}

	for _, node := range nodes {
		if stream {
			ref := stopPointRefOf(node)
			if ref == "" {
				log.Warn().Str("entity", "StopPoint").Msg("Skipping stop point with no identifier")
				continue
			}

			document.lazyStopPoints[ref] = node
			continue
		}

		stopPoint, err := parseStopPoint(node)
		if err != nil {
			log.Warn().Err(err).Str("entity", "StopPoint").Msg("Skipping stop point")
			continue
		}

		document.StopPoints = append(document.StopPoints, stopPoint)
	}
}

func stopPointRefOf(node *xmldoc.Node) string {
	if node.Name == "AnnotatedStopPointRef" {
		return xmldoc.GetText(node, "StopPointRef")
	}

	return xmldoc.GetText(node, "AtcoCode")
}

func parseStopPoint(node *xmldoc.Node) (*StopPoint, error) {
	if node.Name == "AnnotatedStopPointRef" {
		annotated, err := parseAnnotatedStopPointRef(node)
		if err != nil {
			return nil, err
		}

		return &StopPoint{AnnotatedRef: annotated, Node: node}, nil
	}

	full, err := parseFullStopPoint(node)
	if err != nil {
		return nil, err
	}

	return &StopPoint{Full: full, Node: node}, nil
}

func parseAnnotatedStopPointRef(node *xmldoc.Node) (*AnnotatedStopPointRef, error) {
	annotated := &AnnotatedStopPointRef{
		StopPointRef:      xmldoc.GetText(node, "StopPointRef"),
		CommonName:        xmldoc.GetText(node, "CommonName"),
		Indicator:         xmldoc.GetText(node, "Indicator"),
		LocalityName:      xmldoc.GetText(node, "LocalityName"),
		LocalityQualifier: xmldoc.GetText(node, "LocalityQualifier"),
	}

	if annotated.StopPointRef == "" {
		return nil, fmt.Errorf("missing StopPointRef")
	}
	if annotated.CommonName == "" {
		return nil, fmt.Errorf("stop %s missing CommonName", annotated.StopPointRef)
	}

	return annotated, nil
}

func parseFullStopPoint(node *xmldoc.Node) (*FullStopPoint, error) {
	stopPoint := &FullStopPoint{
		AtcoCode:              xmldoc.GetText(node, "AtcoCode"),
		NaptanCode:            xmldoc.GetText(node, "NaptanCode"),
		AdministrativeAreaRef: xmldoc.GetText(node, "AdministrativeAreaRef"),
	}

	if stopPoint.AtcoCode == "" {
		return nil, fmt.Errorf("missing AtcoCode")
	}

	stopPoint.Descriptor = StopPointDescriptor{
		CommonName: xmldoc.GetText(node, "Descriptor/CommonName"),
		Indicator:  xmldoc.GetText(node, "Descriptor/Indicator"),
		Street:     xmldoc.GetText(node, "Descriptor/Street"),
		Landmark:   xmldoc.GetText(node, "Descriptor/Landmark"),
	}

	if stopPoint.Descriptor.CommonName == "" {
		return nil, fmt.Errorf("stop %s missing Descriptor/CommonName", stopPoint.AtcoCode)
	}

	locationNode, _ := xmldoc.Find(node, "Place/Location")
	if locationNode == nil {
		return nil, fmt.Errorf("stop %s missing Place/Location", stopPoint.AtcoCode)
	}

	location, err := parseLocation(locationNode)
	if err != nil {
		return nil, fmt.Errorf("stop %s: %w", stopPoint.AtcoCode, err)
	}

	stopPoint.Place = StopPointPlace{
		NptgLocalityRef: xmldoc.GetText(node, "Place/NptgLocalityRef"),
		Location:        location,
	}

	classification, err := parseStopClassification(node)
	if err != nil {
		return nil, fmt.Errorf("stop %s: %w", stopPoint.AtcoCode, err)
	}
	stopPoint.Classification = classification

	stopPoint.AvailabilityWindows = parseDateRanges(node, "StopAvailability/StopValidity")

	if creation, ok := xmldoc.ParseDateTime(node.Attr("CreationDateTime", "")); ok {
		stopPoint.CreationDateTime = creation
	}
	if modification, ok := xmldoc.ParseDateTime(node.Attr("ModificationDateTime", "")); ok {
		stopPoint.ModificationDateTime = modification
	}

	return stopPoint, nil
}

func parseLocation(node *xmldoc.Node) (Location, error) {
	location := Location{
		Easting:  xmldoc.GetText(node, "Easting"),
		Northing: xmldoc.GetText(node, "Northing"),
	}

	// Coordinates may sit directly on Location or under a Translation
	for _, prefix := range []string{"", "Translation/"} {
		if location.HasWGS84() {
			break
		}

		longitude := xmldoc.GetText(node, prefix+"Longitude")
		latitude := xmldoc.GetText(node, prefix+"Latitude")

		if longitude != "" && latitude != "" {
			fmt.Sscanf(longitude, "%f", &location.Longitude)
			fmt.Sscanf(latitude, "%f", &location.Latitude)
		}
	}

	if location.Easting == "" {
		location.Easting = xmldoc.GetText(node, "Translation/Easting")
		location.Northing = xmldoc.GetText(node, "Translation/Northing")
	}

	if location.Empty() {
		return location, fmt.Errorf("location has neither lon/lat nor easting/northing")
	}

	return location, nil
}

func parseStopClassification(node *xmldoc.Node) (StopClassification, error) {
	classification := StopClassification{}

	stopType := xmldoc.GetText(node, "StopClassification/StopType")
	if stopType == "" {
		return classification, fmt.Errorf("missing StopClassification/StopType")
	}

	canonicalStopType, ok := taxonomy.NormaliseStopType(stopType)
	if !ok {
		return classification, fmt.Errorf("unknown StopType %q", stopType)
	}

	if onStreet, _ := xmldoc.Find(node, "StopClassification/OnStreet"); onStreet != nil {
		bus := &BusStopClassification{StopType: canonicalStopType}

		busStopType := xmldoc.GetText(onStreet, "Bus/BusStopType")
		if busStopType != "" {
			canonicalBusStopType, ok := taxonomy.NormaliseBusStopType(busStopType)
			if !ok {
				return classification, fmt.Errorf("unknown BusStopType %q", busStopType)
			}
			bus.BusStopType = canonicalBusStopType
		}

		timingStatus := xmldoc.GetText(onStreet, "Bus/TimingStatus")
		if timingStatus != "" {
			canonicalTimingStatus, ok := taxonomy.NormaliseTimingStatus(timingStatus)
			if !ok {
				return classification, fmt.Errorf("unknown TimingStatus %q", timingStatus)
			}
			bus.TimingStatus = canonicalTimingStatus
		}

		if marked, _ := xmldoc.Find(onStreet, "Bus/MarkedPoint"); marked != nil {
			bearing := xmldoc.GetText(marked, "Bearing/CompassPoint")
			if bearing != "" && !taxonomy.ValidCompassPoint(bearing) {
				return classification, fmt.Errorf("unknown CompassPoint %q", bearing)
			}

			bus.Marked = &MarkedPoint{Bearing: bearing}
		} else if unmarked, _ := xmldoc.Find(onStreet, "Bus/UnmarkedPoint"); unmarked != nil {
			bus.Unmarked = true
		}

		classification.OnStreet = &OnStreetClassification{Bus: bus}

		return classification, nil
	}

	if offStreet, _ := xmldoc.Find(node, "StopClassification/OffStreet"); offStreet != nil {
		off := &OffStreetClassification{}

		switch {
		case hasChild(offStreet, "BusAndCoach"):
			bay, _ := xmldoc.Find(offStreet, "BusAndCoach/Bay")
			off.BusAndCoach = &BusAndCoachStation{Bay: bay != nil}
		case hasChild(offStreet, "Ferry"):
			off.Ferry = &FerryStop{}
		case hasChild(offStreet, "Rail"):
			off.Rail = &RailStop{}
		case hasChild(offStreet, "Metro"):
			off.Metro = &MetroStop{}
		default:
			return classification, fmt.Errorf("OffStreet classification with no recognised arm")
		}

		classification.OffStreet = off

		return classification, nil
	}

	return classification, fmt.Errorf("StopClassification with neither OnStreet nor OffStreet")
}

func hasChild(node *xmldoc.Node, name string) bool {
	child, _ := xmldoc.Find(node, name)
	return child != nil
}

func parseRouteSections(document *Document, root *xmldoc.Node, config ParserConfig) {
	nodes, _ := xmldoc.FindAll(root, "RouteSections/RouteSection")

	seenLinkIDs := map[string]bool{}

	for _, node := range nodes {
		section := &RouteSection{
			ID:   node.Attr("id", ""),
			Node: node,
		}

		if section.ID == "" {
			log.Warn().Str("entity", "RouteSection").Msg("Skipping route section with no id")
			continue
		}

		linkNodes, _ := xmldoc.FindAll(node, "RouteLink")
		for _, linkNode := range linkNodes {
			link, err := parseRouteLink(linkNode, seenLinkIDs, config)
			if err != nil {
				log.Warn().Err(err).Str("entity", "RouteLink").Msg("Skipping route link")
				continue
			}

			section.RouteLinks = append(section.RouteLinks, link)
		}

		document.RouteSections = append(document.RouteSections, section)
	}
}

func parseRouteLink(node *xmldoc.Node, seenLinkIDs map[string]bool, config ParserConfig) (*RouteLink, error) {
	link := &RouteLink{
		ID:               node.Attr("id", ""),
		FromStopPointRef: xmldoc.GetText(node, "From/StopPointRef"),
		ToStopPointRef:   xmldoc.GetText(node, "To/StopPointRef"),
		Node:             node,
	}

	if link.ID == "" {
		return nil, fmt.Errorf("missing id attribute")
	}
	if seenLinkIDs[link.ID] {
		return nil, fmt.Errorf("duplicate route link id %s", link.ID)
	}
	if link.FromStopPointRef == "" || link.ToStopPointRef == "" {
		return nil, fmt.Errorf("route link %s missing From or To stop ref", link.ID)
	}

	if distance, ok := xmldoc.GetInt(node, "Distance"); ok {
		link.Distance = distance
	}

	if trackNode, _ := xmldoc.Find(node, "Track"); trackNode != nil && config.TrackData {
		locationNodes, _ := xmldoc.FindAll(trackNode, "Mapping/Location")
		if len(locationNodes) == 0 {
			return nil, fmt.Errorf("route link %s has a Track with no locations", link.ID)
		}

		for _, locationNode := range locationNodes {
			location, err := parseLocation(locationNode)
			if err != nil {
				return nil, fmt.Errorf("route link %s: %w", link.ID, err)
			}

			link.Track = append(link.Track, location)
		}
	}

	seenLinkIDs[link.ID] = true

	return link, nil
}
