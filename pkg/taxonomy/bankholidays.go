package taxonomy

import "sort"

// UK wide bank holidays
var CommonBankHolidays = []string{
	"ChristmasDay",
	"BoxingDay",
	"GoodFriday",
	"NewYearsDay",
	"EasterMonday",
	"MayDay",
	"SpringBank",
	"ChristmasDayHoliday",
	"BoxingDayHoliday",
	"NewYearsDayHoliday",
	"ChristmasEve",
}

// England and Wales only
var EnglishBankHolidays = []string{
	"NewYearsEve",
	"LateSummerBankHolidayNotScotland",
}

// Scotland only
var ScottishBankHolidays = []string{
	"Jan2ndScotland",
	"Jan2ndScotlandHoliday",
	"StAndrewsDay",
	"StAndrewsDayHoliday",
}

// Removed from the profile but still seen in old documents; ignored rather
// than rejected.
var RetiredBankHolidays = []string{
	"AugustBankHolidayScotland",
}

// OtherBankHolidays are free form and excluded from the regional set checks.
var OtherBankHolidays = []string{
	"OtherPublicHoliday",
}

// ExpectedScottishHolidays returns the sorted set a Scottish service must
// declare once England only names are removed.
func ExpectedScottishHolidays() []string {
	return sortedUnion(CommonBankHolidays, ScottishBankHolidays)
}

// ExpectedEnglishHolidays returns the sorted set a non Scottish service must
// declare once Scotland only names are removed.
func ExpectedEnglishHolidays() []string {
	return sortedUnion(CommonBankHolidays, EnglishBankHolidays)
}

func sortedUnion(a []string, b []string) []string {
	union := make([]string, 0, len(a)+len(b))
	union = append(union, a...)
	union = append(union, b...)
	sort.Strings(union)

	return union
}

func IsRetiredBankHoliday(name string) bool {
	return isMember(RetiredBankHolidays, name)
}

func IsOtherBankHoliday(name string) bool {
	return isMember(OtherBankHolidays, name)
}

func IsScottishBankHoliday(name string) bool {
	return isMember(ScottishBankHolidays, name)
}

func IsEnglishBankHoliday(name string) bool {
	return isMember(EnglishBankHolidays, name)
}

// KnownBankHoliday reports whether the name belongs to any of the closed
// bank holiday enumerations.
func KnownBankHoliday(name string) bool {
	return isMember(CommonBankHolidays, name) ||
		IsEnglishBankHoliday(name) ||
		IsScottishBankHoliday(name) ||
		IsRetiredBankHoliday(name) ||
		IsOtherBankHoliday(name)
}
