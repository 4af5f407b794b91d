package txc

import (
	"time"

	"github.com/txcheck/txcheck/pkg/xmldoc"
)

type VehicleJourney struct {
	VehicleJourneyCode string
	PrivateCode        string
	OperatorRef        string
	ServiceRef         string
	LineRef            string
	Direction          string

	DepartureTime     string
	DepartureDayShift int

	// Exactly one of JourneyPatternRef / VehicleJourneyRef is set; the
	// latter inherits the pattern of another journey.
	JourneyPatternRef string
	VehicleJourneyRef string

	OperatingProfile *OperatingProfile

	TimingLinks []*VehicleJourneyTimingLink

	// Flexible journeys carry service periods and optionally flexible
	// service times. Frequency, dead runs and interchanges stay
	// representable but carry no content yet.
	Flexible                  *FlexibleVehicleJourney
	Frequency                 *Frequency
	DeadRun                   *DeadRun
	VehicleJourneyInterchange *VehicleJourneyInterchange

	CreationDateTime     time.Time
	ModificationDateTime time.Time

	Node *xmldoc.Node
}

type VehicleJourneyTimingLink struct {
	ID string

	JourneyPatternTimingLinkRef string
	RunTime                     string

	From *TimingLinkUsage
	To   *TimingLinkUsage

	Node *xmldoc.Node
}

type FlexibleVehicleJourney struct {
	ServicePeriods []DateRange

	HasFlexibleServiceTimes bool
}

type FlexibleServiceTimes struct{}

type Frequency struct{}

type DeadRun struct{}

type VehicleJourneyInterchange struct{}

// DepartureClock parses the HH:MM:SS departure time.
func (v *VehicleJourney) DepartureClock() (time.Time, bool) {
	parsed, err := time.Parse("15:04:05", v.DepartureTime)
	if err != nil {
		return time.Time{}, false
	}

	return parsed, true
}
