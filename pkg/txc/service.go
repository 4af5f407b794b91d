package txc

import (
	"time"

	"github.com/txcheck/txcheck/pkg/xmldoc"
)

type Service struct {
	ServiceCode           string
	RegisteredOperatorRef string
	Mode                  string

	OperatingPeriod DateRange

	Lines []*Line

	// At most one of the two is set.
	StandardService *StandardService
	FlexibleService *FlexibleService

	// ServiceClassification/Flexible was present.
	ClassifiedFlexible bool

	OperatingProfile *OperatingProfile

	CreationDateTime     time.Time
	ModificationDateTime time.Time

	Node *xmldoc.Node
}

// Registered reports whether the service code follows the registered
// format.
func (s *Service) Registered() bool {
	return RegisteredServiceCodeRegex.MatchString(s.ServiceCode)
}

// Unregistered reports whether the service code follows the UZ format.
func (s *Service) Unregistered() bool {
	return UnregisteredServiceCodeRegex.MatchString(s.ServiceCode)
}

type Line struct {
	ID       string
	LineName string

	OutboundDescription *LineDescription
	InboundDescription  *LineDescription

	Node *xmldoc.Node
}

type LineDescription struct {
	Origin      string
	Destination string
	Description string
}

type StandardService struct {
	Origin           string
	Destination      string
	Vias             []string
	UseAllStopPoints bool

	JourneyPatterns []*JourneyPattern
}

type JourneyPattern struct {
	ID string

	DestinationDisplay string
	Direction          string
	RouteRef           string

	// Ordered references into JourneyPatternSections.
	SectionRefs []string

	OperatingProfile *OperatingProfile

	Node *xmldoc.Node
}

type FlexibleService struct {
	Origin      string
	Destination string

	JourneyPatterns []*FlexibleJourneyPattern
}

type FlexibleJourneyPattern struct {
	ID string

	StopPointsInSequence []FlexibleStopUsage
	FlexibleZones        []FlexibleZone
	BookingArrangements  *BookingArrangements

	Node *xmldoc.Node
}

// FlexibleStopUsage is one entry of StopPointsInSequence; fixed and
// flexible usages can be mixed within a pattern.
type FlexibleStopUsage struct {
	StopPointRef string
	Flexible     bool
	TimingStatus string
	Activity     string
}

type FlexibleZone struct {
	StopPointRef string
}

type BookingArrangements struct {
	Description      string
	Phone            string
	Email            string
	WebAddress       string
	AllBookingsTaken bool
}
