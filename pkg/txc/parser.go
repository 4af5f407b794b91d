package txc

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/txcheck/txcheck/pkg/taxonomy"
	"github.com/txcheck/txcheck/pkg/xmldoc"
)

// ParserConfig selects which sections the parser produces. Track polylines
// and whole file hashing are off by default because they are expensive and
// the validator rarely needs them.
type ParserConfig struct {
	StopPoints             bool
	RouteSections          bool
	Routes                 bool
	JourneyPatternSections bool
	Operators              bool
	Services               bool
	VehicleJourneys        bool
	ServicedOrganisations  bool

	TrackData bool
	FileHash  bool

	// Documents larger than this many bytes keep stop points as a lazy
	// index instead of materialising every one. Zero disables streaming.
	StreamStopPointThreshold int
}

func DefaultParserConfig() ParserConfig {
	return ParserConfig{
		StopPoints:             true,
		RouteSections:          true,
		Routes:                 true,
		JourneyPatternSections: true,
		Operators:              true,
		Services:               true,
		VehicleJourneys:        true,
		ServicedOrganisations:  true,

		StreamStopPointThreshold: 20 * 1024 * 1024,
	}
}

// Parse converts a loaded TransXChange DOM into the typed document model.
// Entities with missing required fields or unknown enumeration values are
// logged and skipped, never failing the whole document - the profile
// validation pass surfaces those defects as observations.
func Parse(source *xmldoc.Document, data []byte, config ParserConfig) (*Document, error) {
	root := source.Element
	if root.Name != "TransXChange" {
		return nil, fmt.Errorf("%w: root element is %s", xmldoc.ErrMalformed, root.Name)
	}

	document := &Document{}

	if err := parseMetadata(document, source, data, config); err != nil {
		return nil, err
	}

	if config.Operators {
		parseOperators(document, root)
	}
	if config.StopPoints {
		parseStopPoints(document, root, len(data), config)
	}
	if config.RouteSections {
		parseRouteSections(document, root, config)
	}
	if config.Routes {
		parseRoutes(document, root)
	}
	if config.JourneyPatternSections {
		parseJourneyPatternSections(document, root)
	}
	if config.Services {
		parseServices(document, root)
	}
	if config.VehicleJourneys {
		parseVehicleJourneys(document, root)
	}
	if config.ServicedOrganisations {
		parseServicedOrganisations(document, root)
	}

	document.buildIndex()

	log.Debug().
		Int("operators", len(document.Operators)).
		Int("services", len(document.Services)).
		Int("vehicle_journeys", len(document.VehicleJourneys)).
		Msgf("Parsed TransXChange document %s", source.Filename)

	return document, nil
}

func parseMetadata(document *Document, source *xmldoc.Document, data []byte, config ParserConfig) error {
	root := source.Element

	metadata := Metadata{
		SchemaVersion: root.Attr("SchemaVersion", ""),
		Filename:      source.Filename,
	}

	if metadata.SchemaVersion != SupportedSchemaVersion {
		return fmt.Errorf("%w: %q", ErrUnsupportedSchemaVersion, metadata.SchemaVersion)
	}

	if creation, ok := xmldoc.ParseDateTime(root.Attr("CreationDateTime", "")); ok {
		metadata.CreationDateTime = creation
	} else {
		log.Warn().Str("entity", "TransXChange").Msg("Missing or invalid CreationDateTime")
	}

	if modification, ok := xmldoc.ParseDateTime(root.Attr("ModificationDateTime", "")); ok {
		metadata.ModificationDateTime = modification
	} else {
		log.Warn().Str("entity", "TransXChange").Msg("Missing or invalid ModificationDateTime")
	}

	if revision, ok := parseNonNegativeInt(root.Attr("RevisionNumber", "")); ok {
		metadata.RevisionNumber = revision
	} else {
		log.Warn().Str("entity", "TransXChange").Msg("Missing or invalid RevisionNumber, assuming 0")
	}

	modification := root.Attr("Modification", "")
	if modification != "" {
		if !taxonomy.ValidModificationKind(modification) {
			log.Warn().Str("entity", "TransXChange").Str("value", modification).Msg("Unknown Modification kind")
		} else {
			metadata.Modification = modification
		}
	}

	metadata.RegistrationDocument = root.Attr("RegistrationDocument", "") == "true"

	if config.FileHash {
		digest := sha256.Sum256(data)
		metadata.FileHash = hex.EncodeToString(digest[:])
	}

	document.Metadata = metadata

	return nil
}

func parseNonNegativeInt(value string) (int, bool) {
	if value == "" {
		return 0, false
	}

	number := 0
	for _, r := range value {
		if r < '0' || r > '9' {
			return 0, false
		}
		number = number*10 + int(r-'0')
	}

	return number, true
}

func parseOperators(document *Document, root *xmldoc.Node) {
	nodes, _ := xmldoc.FindAll(root, "Operators/Operator | Operators/LicensedOperator")

	for _, node := range nodes {
		operator, err := parseOperator(node)
		if err != nil {
			log.Warn().Err(err).Str("entity", "Operator").Msg("Skipping operator")
			continue
		}

		document.Operators = append(document.Operators, operator)
	}
}

func parseOperator(node *xmldoc.Node) (*Operator, error) {
	operator := &Operator{
		ID:   node.Attr("id", ""),
		Node: node,

		NationalOperatorCode:  xmldoc.GetText(node, "NationalOperatorCode"),
		OperatorCode:          xmldoc.GetText(node, "OperatorCode"),
		OperatorShortName:     xmldoc.GetText(node, "OperatorShortName"),
		TradingName:           xmldoc.GetText(node, "TradingName"),
		LicenceNumber:         xmldoc.GetText(node, "LicenceNumber"),
		LicenceClassification: xmldoc.GetText(node, "LicenceClassification"),
		PrimaryMode:           xmldoc.GetText(node, "PrimaryMode"),
	}

	if operator.ID == "" {
		return nil, fmt.Errorf("missing id attribute")
	}

	if operator.OperatorShortName == "" {
		return nil, fmt.Errorf("operator %s missing OperatorShortName", operator.ID)
	}

	if operator.LicenceClassification != "" && !taxonomy.ValidLicenceClassification(operator.LicenceClassification) {
		return nil, fmt.Errorf("operator %s has unknown LicenceClassification %q", operator.ID, operator.LicenceClassification)
	}

	if operator.PrimaryMode != "" && !taxonomy.ValidTransportMode(operator.PrimaryMode) {
		return nil, fmt.Errorf("operator %s has unknown PrimaryMode %q", operator.ID, operator.PrimaryMode)
	}

	return operator, nil
}

func parseRoutes(document *Document, root *xmldoc.Node) {
	nodes, _ := xmldoc.FindAll(root, "Routes/Route")

	for _, node := range nodes {
		route := &Route{
			ID:          node.Attr("id", ""),
			PrivateCode: xmldoc.GetText(node, "PrivateCode"),
			Description: xmldoc.GetText(node, "Description"),
			Node:        node,
		}

		if route.ID == "" {
			log.Warn().Str("entity", "Route").Msg("Skipping route with no id")
			continue
		}

		refs, _ := xmldoc.FindAll(node, "RouteSectionRef")
		for _, ref := range refs {
			route.RouteSectionRefs = append(route.RouteSectionRefs, ref.InnerText())
		}

		document.Routes = append(document.Routes, route)
	}
}

func parseServicedOrganisations(document *Document, root *xmldoc.Node) {
	nodes, _ := xmldoc.FindAll(root, "ServicedOrganisations/ServicedOrganisation")

	for _, node := range nodes {
		organisation := &ServicedOrganisation{
			OrganisationCode: xmldoc.GetText(node, "OrganisationCode"),
			Name:             xmldoc.GetText(node, "Name"),
			Node:             node,
		}

		if organisation.OrganisationCode == "" {
			log.Warn().Str("entity", "ServicedOrganisation").Msg("Skipping serviced organisation with no OrganisationCode")
			continue
		}

		organisation.WorkingDays = parseDateRanges(node, "WorkingDays/DateRange")
		organisation.Holidays = parseDateRanges(node, "Holidays/DateRange")

		document.ServicedOrganisations = append(document.ServicedOrganisations, organisation)
	}
}

func parseDateRanges(node *xmldoc.Node, path string) []DateRange {
	var ranges []DateRange

	rangeNodes, _ := xmldoc.FindAll(node, path)
	for _, rangeNode := range rangeNodes {
		dateRange, err := parseDateRange(rangeNode)
		if err != nil {
			log.Warn().Err(err).Str("entity", "DateRange").Msg("Skipping date range")
			continue
		}

		ranges = append(ranges, dateRange)
	}

	return ranges
}

func parseDateRange(node *xmldoc.Node) (DateRange, error) {
	dateRange := DateRange{}

	startText := xmldoc.GetText(node, "StartDate")
	if startText == "" {
		return dateRange, fmt.Errorf("missing StartDate")
	}

	start, ok := xmldoc.ParseDateTime(startText)
	if !ok {
		return dateRange, fmt.Errorf("invalid StartDate %q", startText)
	}
	dateRange.StartDate = start

	endText := xmldoc.GetText(node, "EndDate")
	if endText != "" {
		end, ok := xmldoc.ParseDateTime(endText)
		if !ok {
			return dateRange, fmt.Errorf("invalid EndDate %q", endText)
		}

		if end.Before(start) {
			return dateRange, fmt.Errorf("EndDate %s before StartDate %s", endText, startText)
		}

		dateRange.EndDate = end
	}

	return dateRange, nil
}
