package taxonomy

// NaPTAN stop point types
const (
	StopTypeBusCoachTrolleyOnStreet  = "busCoachTrolleyOnStreetPoint"
	StopTypeBusCoachTrolleyStation   = "busCoachTrolleyStationBay"
	StopTypeBusCoachTrolleyVariable  = "busCoachTrolleyStationVariableBay"
	StopTypeBusCoachStationEntrance  = "busCoachTrolleyStationEntrance"
	StopTypeBusCoachAccessArea       = "busCoachStationAccessArea"
	StopTypeFlexibleZone             = "carSetDownPickUpArea"
	StopTypeTaxiRank                 = "taxiRank"
	StopTypeSharedTaxiRank           = "sharedTaxiRank"
	StopTypeRailStationEntrance      = "railStationEntrance"
	StopTypeRailAccessArea           = "railAccessArea"
	StopTypeRailPlatform             = "railPlatform"
	StopTypeTramMetroEntrance        = "tramMetroUndergroundStationEntrance"
	StopTypeTramMetroAccessArea      = "tramMetroUndergroundAccessArea"
	StopTypeTramMetroPlatform        = "tramMetroUndergroundPlatform"
	StopTypeFerryTerminalEntrance    = "ferryTerminalDockEntrance"
	StopTypeFerryAccessArea          = "ferryDockAccessArea"
	StopTypeFerryBerth               = "ferryOrPortBerth"
	StopTypeAirportEntrance          = "airportEntrance"
	StopTypeAirAccessArea            = "airAccessArea"
	StopTypeLiftOrCableCarEntrance   = "liftOrCableCarStationEntrance"
	StopTypeLiftOrCableCarAccessArea = "liftOrCableCarAccessArea"
	StopTypeLiftOrCableCarPlatform   = "liftOrCableCarSetDownPickUpArea"
)

// Legacy three letter NaPTAN codes, still common in TransXChange documents
// produced by older tooling.
var legacyStopTypes = map[string]string{
	"BCT": StopTypeBusCoachTrolleyOnStreet,
	"BCS": StopTypeBusCoachTrolleyStation,
	"BCQ": StopTypeBusCoachTrolleyVariable,
	"BCE": StopTypeBusCoachStationEntrance,
	"BST": StopTypeBusCoachAccessArea,
	"TXR": StopTypeTaxiRank,
	"STR": StopTypeSharedTaxiRank,
	"RSE": StopTypeRailStationEntrance,
	"RLY": StopTypeRailAccessArea,
	"RPL": StopTypeRailPlatform,
	"TMU": StopTypeTramMetroEntrance,
	"MET": StopTypeTramMetroAccessArea,
	"PLT": StopTypeTramMetroPlatform,
	"FTD": StopTypeFerryTerminalEntrance,
	"FER": StopTypeFerryAccessArea,
	"FBT": StopTypeFerryBerth,
	"AIR": StopTypeAirportEntrance,
	"GAT": StopTypeAirAccessArea,
	"LCE": StopTypeLiftOrCableCarEntrance,
	"LCB": StopTypeLiftOrCableCarAccessArea,
	"LPL": StopTypeLiftOrCableCarPlatform,
}

var canonicalStopTypes = map[string]bool{}

func init() {
	for _, canonical := range legacyStopTypes {
		canonicalStopTypes[canonical] = true
	}
}

// NormaliseStopType maps a legacy stop type code onto the current NaPTAN
// enumeration. Canonical values map to themselves. The second return is
// false when the value is neither.
func NormaliseStopType(value string) (string, bool) {
	if canonicalStopTypes[value] {
		return value, true
	}

	if canonical, ok := legacyStopTypes[value]; ok {
		return canonical, true
	}

	return "", false
}

// Bus stop sub types
const (
	BusStopTypeMarked      = "marked"
	BusStopTypeHailAndRide = "hailAndRide"
	BusStopTypeFlexible    = "flexible"
	BusStopTypeCustom      = "custom"
)

var legacyBusStopTypes = map[string]string{
	"MKD": BusStopTypeMarked,
	"HAR": BusStopTypeHailAndRide,
	"FLX": BusStopTypeFlexible,
	"CUS": BusStopTypeCustom,
}

var canonicalBusStopTypes = map[string]bool{
	BusStopTypeMarked:      true,
	BusStopTypeHailAndRide: true,
	BusStopTypeFlexible:    true,
	BusStopTypeCustom:      true,
}

func NormaliseBusStopType(value string) (string, bool) {
	if canonicalBusStopTypes[value] {
		return value, true
	}

	if canonical, ok := legacyBusStopTypes[value]; ok {
		return canonical, true
	}

	return "", false
}

// Timing statuses
const (
	TimingStatusPrincipalPoint       = "principalPoint"
	TimingStatusTimeInfoPoint        = "timeInfoPoint"
	TimingStatusPrincipalTimingPoint = "principalTimingPoint"
	TimingStatusOtherPoint           = "otherPoint"
)

var legacyTimingStatuses = map[string]string{
	"PPT": TimingStatusPrincipalPoint,
	"TIP": TimingStatusTimeInfoPoint,
	"PTP": TimingStatusPrincipalTimingPoint,
	"OTH": TimingStatusOtherPoint,
	// Deprecated misspelling that still appears in the wild
	"principlePoint": TimingStatusPrincipalPoint,
}

var canonicalTimingStatuses = map[string]bool{
	TimingStatusPrincipalPoint:       true,
	TimingStatusTimeInfoPoint:        true,
	TimingStatusPrincipalTimingPoint: true,
	TimingStatusOtherPoint:           true,
}

func NormaliseTimingStatus(value string) (string, bool) {
	if canonicalTimingStatuses[value] {
		return value, true
	}

	if canonical, ok := legacyTimingStatuses[value]; ok {
		return canonical, true
	}

	return "", false
}
