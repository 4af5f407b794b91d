package txc

import (
	"time"

	"github.com/txcheck/txcheck/pkg/xmldoc"
)

// OperatingProfile is the combination of regular, periodic, special and
// bank holiday rules governing when a journey runs.
type OperatingProfile struct {
	// DaysOfWeek and HolidaysOnly are mutually exclusive: either
	// HolidaysOnly is set, or at least one weekday is listed.
	DaysOfWeek   []string
	HolidaysOnly bool

	PeriodicWeeks []string

	SpecialDaysOperation    []DateRange
	SpecialDaysNonOperation []DateRange

	BankHolidaysOperation    []string
	BankHolidaysNonOperation []string

	ServicedOrganisationDayType *ServicedOrganisationDayType

	Node *xmldoc.Node
}

type ServicedOrganisationDayType struct {
	WorkingDaysOperation    []string
	WorkingDaysNonOperation []string
	HolidaysOperation       []string
	HolidaysNonOperation    []string
}

// OperatingWindow returns the explicit special day window of the profile,
// or false when the profile declares no dated ranges.
func (p *OperatingProfile) OperatingWindow() (DateRange, bool) {
	if p == nil || len(p.SpecialDaysOperation) == 0 {
		return DateRange{}, false
	}

	window := p.SpecialDaysOperation[0]
	openEnded := window.OpenEnded()

	for _, r := range p.SpecialDaysOperation[1:] {
		if r.StartDate.Before(window.StartDate) {
			window.StartDate = r.StartDate
		}

		if r.OpenEnded() {
			openEnded = true
		} else if r.EndDate.After(window.EndDate) {
			window.EndDate = r.EndDate
		}
	}

	if openEnded {
		window.EndDate = time.Time{}
	}

	return window, true
}

type ServicedOrganisation struct {
	OrganisationCode string
	Name             string

	WorkingDays []DateRange
	Holidays    []DateRange

	Node *xmldoc.Node
}

func (o *ServicedOrganisation) HasWorkingDays() bool {
	return len(o.WorkingDays) > 0
}
