package txc

import (
	"github.com/rs/zerolog/log"

	"github.com/txcheck/txcheck/pkg/taxonomy"
	"github.com/txcheck/txcheck/pkg/xmldoc"
)

var dayShortcuts = map[string][]string{
	"MondayToFriday":   {"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
	"MondayToSaturday": {"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
	"MondayToSunday":   {"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"},
	"Weekend":          {"Saturday", "Sunday"},
}

// parseOperatingProfile is tolerant like the other entity parsers: a
// profile violating the holidays-only XOR weekday invariant is dropped
// with a warning and the owner carries no profile.
func parseOperatingProfile(node *xmldoc.Node) *OperatingProfile {
	profile := &OperatingProfile{Node: node}

	regularNode, _ := xmldoc.Find(node, "RegularDayType")
	if regularNode != nil {
		if hasChild(regularNode, "HolidaysOnly") {
			profile.HolidaysOnly = true
		}

		daysNode, _ := xmldoc.Find(regularNode, "DaysOfWeek")
		if daysNode != nil {
			seen := map[string]bool{}

			for _, dayNode := range daysNode.Children() {
				if expansion, ok := dayShortcuts[dayNode.Name]; ok {
					for _, day := range expansion {
						if !seen[day] {
							seen[day] = true
							profile.DaysOfWeek = append(profile.DaysOfWeek, day)
						}
					}
					continue
				}

				if !taxonomy.ValidDayOfWeek(dayNode.Name) {
					log.Warn().Str("entity", "OperatingProfile").Str("value", dayNode.Name).Msg("Unknown day of week")
					return nil
				}

				if !seen[dayNode.Name] {
					seen[dayNode.Name] = true
					profile.DaysOfWeek = append(profile.DaysOfWeek, dayNode.Name)
				}
			}
		}
	}

	if profile.HolidaysOnly == (len(profile.DaysOfWeek) > 0) {
		log.Warn().Str("entity", "OperatingProfile").Msg("Profile must declare either HolidaysOnly or at least one regular day")
		return nil
	}

	weekNodes, _ := xmldoc.FindAll(node, "PeriodicDayType/WeekOfMonth/WeekNumber")
	for _, weekNode := range weekNodes {
		week := weekNode.InnerText()
		if !taxonomy.ValidWeekOfMonth(week) {
			log.Warn().Str("entity", "OperatingProfile").Str("value", week).Msg("Unknown week of month")
			return nil
		}

		profile.PeriodicWeeks = append(profile.PeriodicWeeks, week)
	}

	profile.SpecialDaysOperation = parseDateRanges(node, "SpecialDaysOperation/DaysOfOperation/DateRange")
	profile.SpecialDaysNonOperation = parseDateRanges(node, "SpecialDaysOperation/DaysOfNonOperation/DateRange")

	profile.BankHolidaysOperation = parseBankHolidayNames(node, "BankHolidayOperation/DaysOfOperation")
	profile.BankHolidaysNonOperation = parseBankHolidayNames(node, "BankHolidayOperation/DaysOfNonOperation")

	if dayTypeNode, _ := xmldoc.Find(node, "ServicedOrganisationDayType"); dayTypeNode != nil {
		profile.ServicedOrganisationDayType = &ServicedOrganisationDayType{
			WorkingDaysOperation:    refTexts(dayTypeNode, "DaysOfOperation/WorkingDays/ServicedOrganisationRef"),
			WorkingDaysNonOperation: refTexts(dayTypeNode, "DaysOfNonOperation/WorkingDays/ServicedOrganisationRef"),
			HolidaysOperation:       refTexts(dayTypeNode, "DaysOfOperation/Holidays/ServicedOrganisationRef"),
			HolidaysNonOperation:    refTexts(dayTypeNode, "DaysOfNonOperation/Holidays/ServicedOrganisationRef"),
		}
	}

	return profile
}

// parseBankHolidayNames collects the element names under the given parent.
// Unknown names are kept: the bank holiday observations decide what to do
// with them.
func parseBankHolidayNames(node *xmldoc.Node, path string) []string {
	parent, _ := xmldoc.Find(node, path)
	if parent == nil {
		return nil
	}

	var names []string
	for _, child := range parent.Children() {
		names = append(names, child.Name)
	}

	return names
}

func refTexts(node *xmldoc.Node, path string) []string {
	refNodes, _ := xmldoc.FindAll(node, path)

	var texts []string
	for _, refNode := range refNodes {
		texts = append(texts, refNode.InnerText())
	}

	return texts
}
