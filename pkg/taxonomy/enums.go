package taxonomy

// Stop usage activities
const (
	ActivityPickUp           = "pickUp"
	ActivitySetDown          = "setDown"
	ActivityPickUpAndSetDown = "pickUpAndSetDown"
	ActivityPass             = "pass"
)

var Activities = []string{
	ActivityPickUp,
	ActivitySetDown,
	ActivityPickUpAndSetDown,
	ActivityPass,
}

// Transport modes
const (
	ModeAir         = "air"
	ModeBus         = "bus"
	ModeCoach       = "coach"
	ModeFerry       = "ferry"
	ModeMetro       = "metro"
	ModeRail        = "rail"
	ModeTram        = "tram"
	ModeTrolleyBus  = "trolleyBus"
	ModeUnderground = "underground"
)

var TransportModes = []string{
	ModeAir,
	ModeBus,
	ModeCoach,
	ModeFerry,
	ModeMetro,
	ModeRail,
	ModeTram,
	ModeTrolleyBus,
	ModeUnderground,
}

// Commercial bases
const (
	CommercialBasisContracted     = "contracted"
	CommercialBasisNotContracted  = "notContracted"
	CommercialBasisPartContracted = "partContracted"
)

var CommercialBases = []string{
	CommercialBasisContracted,
	CommercialBasisNotContracted,
	CommercialBasisPartContracted,
}

// Document modification kinds
const (
	ModificationNew    = "new"
	ModificationRevise = "revise"
	ModificationDelete = "delete"
)

var ModificationKinds = []string{
	ModificationNew,
	ModificationRevise,
	ModificationDelete,
}

// Compass points used by marked stop bearings
var CompassPoints = []string{
	"N", "NE", "E", "SE", "S", "SW", "W", "NW",
}

// Operator licence classifications
const (
	LicenceStandardNational      = "standardNational"
	LicenceStandardInternational = "standardInternational"
	LicenceRestricted            = "restricted"
	LicenceSpecialRestricted     = "specialRestricted"
	LicenceCommunityBusPermit    = "communityBusPermit"
)

var LicenceClassifications = []string{
	LicenceStandardNational,
	LicenceStandardInternational,
	LicenceRestricted,
	LicenceSpecialRestricted,
	LicenceCommunityBusPermit,
}

// Days of the week as TransXChange spells them
var DaysOfWeek = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Weeks of the month for periodic day types
var WeeksOfMonth = []string{
	"first", "second", "third", "fourth", "fifth", "last",
}

func isMember(values []string, value string) bool {
	for _, candidate := range values {
		if candidate == value {
			return true
		}
	}

	return false
}

func ValidTransportMode(value string) bool {
	return isMember(TransportModes, value)
}

func ValidActivity(value string) bool {
	return isMember(Activities, value)
}

func ValidModificationKind(value string) bool {
	return isMember(ModificationKinds, value)
}

func ValidCompassPoint(value string) bool {
	return isMember(CompassPoints, value)
}

func ValidLicenceClassification(value string) bool {
	return isMember(LicenceClassifications, value)
}

func ValidDayOfWeek(value string) bool {
	return isMember(DaysOfWeek, value)
}

func ValidWeekOfMonth(value string) bool {
	return isMember(WeeksOfMonth, value)
}
