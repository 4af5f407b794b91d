package txc

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/slices"
)

// index holds the cross reference maps built once after parse. Entities
// refer to each other by string id only, never by back pointer.
type index struct {
	servicesByCode map[string]*Service
	operatorsByID  map[string]*Operator

	sectionsByID       map[string]*JourneyPatternSection
	timingLinksByID    map[string]*JourneyPatternTimingLink
	sectionOfLink      map[string]*JourneyPatternSection
	routeLinksByID     map[string]*RouteLink
	sectionOfRouteLink map[string]*RouteSection

	patternsByID     map[string]*JourneyPattern
	serviceOfPattern map[string]*Service

	patternsUsingSection map[string][]*JourneyPattern
	journeysByPatternRef map[string][]*VehicleJourney
	journeysByLineRef    map[string][]*VehicleJourney

	timingLinksAtStop map[string][]*JourneyPatternTimingLink
}

func (d *Document) buildIndex() {
	idx := &index{
		servicesByCode:       map[string]*Service{},
		operatorsByID:        map[string]*Operator{},
		sectionsByID:         map[string]*JourneyPatternSection{},
		timingLinksByID:      map[string]*JourneyPatternTimingLink{},
		sectionOfLink:        map[string]*JourneyPatternSection{},
		routeLinksByID:       map[string]*RouteLink{},
		sectionOfRouteLink:   map[string]*RouteSection{},
		patternsByID:         map[string]*JourneyPattern{},
		serviceOfPattern:     map[string]*Service{},
		patternsUsingSection: map[string][]*JourneyPattern{},
		journeysByPatternRef: map[string][]*VehicleJourney{},
		journeysByLineRef:    map[string][]*VehicleJourney{},
		timingLinksAtStop:    map[string][]*JourneyPatternTimingLink{},
	}

	for _, operator := range d.Operators {
		idx.operatorsByID[operator.ID] = operator
	}

	for _, service := range d.Services {
		if existing := idx.servicesByCode[service.ServiceCode]; existing != nil {
			log.Warn().Str("entity", "Service").Msgf("Duplicate service code %s", service.ServiceCode)
		}
		idx.servicesByCode[service.ServiceCode] = service

		if service.StandardService == nil {
			continue
		}

		for _, pattern := range service.StandardService.JourneyPatterns {
			idx.patternsByID[pattern.ID] = pattern
			idx.serviceOfPattern[pattern.ID] = service

			for _, sectionRef := range pattern.SectionRefs {
				idx.patternsUsingSection[sectionRef] = append(idx.patternsUsingSection[sectionRef], pattern)
			}
		}
	}

	for _, section := range d.JourneyPatternSections {
		idx.sectionsByID[section.ID] = section

		for _, link := range section.TimingLinks {
			idx.timingLinksByID[link.ID] = link
			idx.sectionOfLink[link.ID] = section

			if link.From.StopPointRef != "" {
				idx.timingLinksAtStop[link.From.StopPointRef] = append(idx.timingLinksAtStop[link.From.StopPointRef], link)
			}
			if link.To.StopPointRef != "" {
				idx.timingLinksAtStop[link.To.StopPointRef] = append(idx.timingLinksAtStop[link.To.StopPointRef], link)
			}
		}
	}

	for _, section := range d.RouteSections {
		for _, link := range section.RouteLinks {
			idx.routeLinksByID[link.ID] = link
			idx.sectionOfRouteLink[link.ID] = section
		}
	}

	for _, journey := range d.VehicleJourneys {
		if journey.JourneyPatternRef != "" {
			idx.journeysByPatternRef[journey.JourneyPatternRef] = append(idx.journeysByPatternRef[journey.JourneyPatternRef], journey)
		}
		if journey.LineRef != "" {
			idx.journeysByLineRef[journey.LineRef] = append(idx.journeysByLineRef[journey.LineRef], journey)
		}
	}

	d.index = idx
}

func (d *Document) TimingLink(id string) *JourneyPatternTimingLink {
	return d.index.timingLinksByID[id]
}

func (d *Document) SectionOfTimingLink(id string) *JourneyPatternSection {
	return d.index.sectionOfLink[id]
}

func (d *Document) Section(id string) *JourneyPatternSection {
	return d.index.sectionsByID[id]
}

func (d *Document) RouteLink(id string) *RouteLink {
	return d.index.routeLinksByID[id]
}

func (d *Document) Pattern(id string) *JourneyPattern {
	return d.index.patternsByID[id]
}

func (d *Document) ServiceOfPattern(patternID string) *Service {
	return d.index.serviceOfPattern[patternID]
}

func (d *Document) PatternsUsingSection(sectionID string) []*JourneyPattern {
	return d.index.patternsUsingSection[sectionID]
}

func (d *Document) JourneysForPattern(patternID string) []*VehicleJourney {
	return d.index.journeysByPatternRef[patternID]
}

func (d *Document) JourneysForLine(lineID string) []*VehicleJourney {
	return d.index.journeysByLineRef[lineID]
}

func (d *Document) TimingLinksAtStop(stopRef string) []*JourneyPatternTimingLink {
	return d.index.timingLinksAtStop[stopRef]
}

// PatternRefsForLine returns the sorted journey pattern refs used by the
// vehicle journeys of a line.
func (d *Document) PatternRefsForLine(lineID string) []string {
	refs := map[string]bool{}

	for _, journey := range d.JourneysForLine(lineID) {
		if journey.JourneyPatternRef != "" {
			refs[journey.JourneyPatternRef] = true
		}
	}

	return sortedKeys(refs)
}

// StopRefsForLine returns the sorted stop refs the line's journeys visit,
// resolved through journey patterns and their sections.
func (d *Document) StopRefsForLine(lineID string) []string {
	stops := map[string]bool{}

	for _, patternRef := range d.PatternRefsForLine(lineID) {
		pattern := d.Pattern(patternRef)
		if pattern == nil {
			continue
		}

		for _, sectionRef := range pattern.SectionRefs {
			section := d.Section(sectionRef)
			if section == nil {
				continue
			}

			for _, link := range section.TimingLinks {
				if link.From.StopPointRef != "" {
					stops[link.From.StopPointRef] = true
				}
				if link.To.StopPointRef != "" {
					stops[link.To.StopPointRef] = true
				}
			}
		}
	}

	return sortedKeys(stops)
}

// StopRefs returns every stop ref the document mentions, for lookup
// prefetching.
func (d *Document) StopRefs() []string {
	stops := map[string]bool{}

	for _, stopPoint := range d.StopPoints {
		stops[stopPoint.AtcoCode()] = true
	}
	for ref := range d.lazyStopPoints {
		stops[ref] = true
	}
	for ref := range d.index.timingLinksAtStop {
		stops[ref] = true
	}

	for _, service := range d.Services {
		if service.FlexibleService == nil {
			continue
		}

		for _, pattern := range service.FlexibleService.JourneyPatterns {
			for _, usage := range pattern.StopPointsInSequence {
				stops[usage.StopPointRef] = true
			}
			for _, zone := range pattern.FlexibleZones {
				stops[zone.StopPointRef] = true
			}
		}
	}

	return sortedKeys(stops)
}

func sortedKeys(set map[string]bool) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	slices.Sort(keys)

	return keys
}
