package txc

import (
	"fmt"
	"time"

	"github.com/paulcager/osgridref"

	"github.com/txcheck/txcheck/pkg/xmldoc"
)

// StopPoint is one of the two stop point variants a document may declare.
// Exactly one arm is set.
type StopPoint struct {
	AnnotatedRef *AnnotatedStopPointRef
	Full         *FullStopPoint

	Node *xmldoc.Node
}

// AtcoCode returns the stop identifier whichever variant is present.
func (s *StopPoint) AtcoCode() string {
	if s.AnnotatedRef != nil {
		return s.AnnotatedRef.StopPointRef
	}

	return s.Full.AtcoCode
}

type AnnotatedStopPointRef struct {
	StopPointRef      string
	CommonName        string
	Indicator         string
	LocalityName      string
	LocalityQualifier string
}

type FullStopPoint struct {
	AtcoCode              string
	NaptanCode            string
	Descriptor            StopPointDescriptor
	Place                 StopPointPlace
	Classification        StopClassification
	AdministrativeAreaRef string
	AvailabilityWindows   []DateRange
	CreationDateTime      time.Time
	ModificationDateTime  time.Time
}

type StopPointDescriptor struct {
	CommonName string
	Indicator  string
	Street     string
	Landmark   string
}

type StopPointPlace struct {
	NptgLocalityRef string
	Location        Location
}

// StopClassification is a nested sum. Exactly one of OnStreet / OffStreet
// is set, and exactly one arm within it.
type StopClassification struct {
	OnStreet  *OnStreetClassification
	OffStreet *OffStreetClassification
}

type OnStreetClassification struct {
	Bus *BusStopClassification
}

type BusStopClassification struct {
	// StopType and TimingStatus are canonical taxonomy values; the parser
	// rejected anything it could not normalise.
	StopType     string
	BusStopType  string
	TimingStatus string

	Marked   *MarkedPoint
	Unmarked bool
}

type MarkedPoint struct {
	Bearing string
}

type OffStreetClassification struct {
	BusAndCoach *BusAndCoachStation
	Ferry       *FerryStop
	Rail        *RailStop
	Metro       *MetroStop
}

type BusAndCoachStation struct {
	Bay bool
}

type FerryStop struct{}

type RailStop struct{}

type MetroStop struct{}

// Location carries WGS84 and/or OSGB36 coordinates. At least one pair is
// present on any parsed location.
type Location struct {
	Longitude float64
	Latitude  float64

	Easting  string
	Northing string
}

func (l *Location) HasWGS84() bool {
	return l.Longitude != 0 || l.Latitude != 0
}

func (l *Location) HasGridReference() bool {
	return l.Easting != "" && l.Northing != ""
}

func (l *Location) Empty() bool {
	return !l.HasWGS84() && !l.HasGridReference()
}

// WGS84 returns lat/lon, converting the OSGB36 grid reference when no
// explicit lon/lat pair was supplied.
func (l *Location) WGS84() (float64, float64, bool) {
	if l.HasWGS84() {
		return l.Latitude, l.Longitude, true
	}

	if l.HasGridReference() {
		gridRef, err := osgridref.ParseOsGridRef(fmt.Sprintf("%s,%s", l.Easting, l.Northing))
		if err == nil {
			latitude, longitude := gridRef.ToLatLon()
			return latitude, longitude, true
		}
	}

	return 0, 0, false
}
