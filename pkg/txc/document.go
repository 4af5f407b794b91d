package txc

import (
	"errors"
	"regexp"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/txcheck/txcheck/pkg/xmldoc"
)

// ErrUnsupportedSchemaVersion marks documents whose declared schema version
// is not the profile version the validator understands.
var ErrUnsupportedSchemaVersion = errors.New("unsupported TransXChange schema version")

const SupportedSchemaVersion = "2.4"

var (
	RegisteredServiceCodeRegex   = regexp.MustCompile(`^[A-Z]{2}\d{7}:[A-Z0-9]+$`)
	UnregisteredServiceCodeRegex = regexp.MustCompile(`^UZ[A-Z0-9]{7}:[A-Z0-9]+$`)
)

type Metadata struct {
	SchemaVersion        string
	CreationDateTime     time.Time
	ModificationDateTime time.Time
	RevisionNumber       int
	Modification         string
	Filename             string
	FileHash             string
	RegistrationDocument bool
}

// Document is the typed representation of a single TransXChange file. It is
// built once per input and never mutated afterwards.
type Document struct {
	Metadata Metadata

	Operators              []*Operator
	StopPoints             []*StopPoint
	RouteSections          []*RouteSection
	Routes                 []*Route
	JourneyPatternSections []*JourneyPatternSection
	Services               []*Service
	VehicleJourneys        []*VehicleJourney
	ServicedOrganisations  []*ServicedOrganisation

	// lazyStopPoints holds unparsed stop point nodes when the source file
	// crossed the streaming threshold. Parsed on first access.
	lazyStopPoints map[string]*xmldoc.Node
	parsedLazy     map[string]*StopPoint

	index *index
}

// DateRange is a start/end date pair. A zero EndDate means open ended.
type DateRange struct {
	StartDate time.Time
	EndDate   time.Time
}

func (r DateRange) OpenEnded() bool {
	return r.EndDate.IsZero()
}

// Days returns the length of the range in days, or -1 when open ended.
func (r DateRange) Days() int {
	if r.OpenEnded() {
		return -1
	}

	return int(r.EndDate.Sub(r.StartDate).Hours() / 24)
}

func (d *Document) ServiceByCode(code string) *Service {
	return d.index.servicesByCode[code]
}

func (d *Document) OperatorByID(id string) *Operator {
	return d.index.operatorsByID[id]
}

// StopPoint returns the declared stop point for an ATCO code, parsing it
// on demand when the document was loaded in streaming mode.
func (d *Document) StopPoint(atcoCode string) *StopPoint {
	for _, stopPoint := range d.StopPoints {
		if stopPoint.AtcoCode() == atcoCode {
			return stopPoint
		}
	}

	if node, ok := d.lazyStopPoints[atcoCode]; ok {
		if parsed, ok := d.parsedLazy[atcoCode]; ok {
			return parsed
		}

		stopPoint, err := parseStopPoint(node)
		if err != nil {
			log.Warn().Err(err).Str("entity", "StopPoint").Msg("Skipping stop point")
			stopPoint = nil
		}

		if d.parsedLazy == nil {
			d.parsedLazy = map[string]*StopPoint{}
		}
		d.parsedLazy[atcoCode] = stopPoint

		return stopPoint
	}

	return nil
}
