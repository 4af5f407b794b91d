package validator

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/txcheck/txcheck/pkg/lookup"
	"github.com/txcheck/txcheck/pkg/profile"
	"github.com/txcheck/txcheck/pkg/report"
	"github.com/txcheck/txcheck/pkg/txc"
)

const cleanDocument = `<TransXChange SchemaVersion="2.4" CreationDateTime="2024-01-01T00:00:00" ModificationDateTime="2024-01-02T00:00:00" RevisionNumber="1" FileName="clean.xml">
  <StopPoints>
    <AnnotatedStopPointRef><StopPointRef>9990000001</StopPointRef><CommonName>High Street</CommonName></AnnotatedStopPointRef>
    <AnnotatedStopPointRef><StopPointRef>9990000002</StopPointRef><CommonName>Market Square</CommonName></AnnotatedStopPointRef>
  </StopPoints>
  <Operators>
    <Operator id="O1">
      <NationalOperatorCode>ABCD</NationalOperatorCode>
      <OperatorShortName>Sample Buses</OperatorShortName>
      <LicenceNumber>PB0001111</LicenceNumber>
      <PrimaryMode>bus</PrimaryMode>
    </Operator>
  </Operators>
  <JourneyPatternSections>
    <JourneyPatternSection id="JPS1">
      <JourneyPatternTimingLink id="JPTL1">
        <From><StopPointRef>9990000001</StopPointRef></From>
        <To><StopPointRef>9990000002</StopPointRef></To>
        <RunTime>PT5M</RunTime>
      </JourneyPatternTimingLink>
    </JourneyPatternSection>
  </JourneyPatternSections>
  <Services>
    <Service>
      <ServiceCode>PB0001111:1</ServiceCode>
      <Lines>
        <Line id="ABCD:PB0001111:1:42">
          <LineName>42</LineName>
          <OutboundDescription><Description>High Street to Market Square</Description></OutboundDescription>
        </Line>
      </Lines>
      <OperatingPeriod><StartDate>2024-01-01</StartDate><EndDate>2024-06-01</EndDate></OperatingPeriod>
      <RegisteredOperatorRef>O1</RegisteredOperatorRef>
      <StandardService>
        <Origin>High Street</Origin>
        <Destination>Market Square</Destination>
        <JourneyPattern id="JP1">
          <DestinationDisplay>Market Square</DestinationDisplay>
          <JourneyPatternSectionRefs>JPS1</JourneyPatternSectionRefs>
        </JourneyPattern>
      </StandardService>
    </Service>
  </Services>
  <VehicleJourneys>
    <VehicleJourney>
      <VehicleJourneyCode>VJ1</VehicleJourneyCode>
      <ServiceRef>PB0001111:1</ServiceRef>
      <LineRef>ABCD:PB0001111:1:42</LineRef>
      <JourneyPatternRef>JP1</JourneyPatternRef>
      <DepartureTime>09:00:00</DepartureTime>
    </VehicleJourney>
  </VehicleJourneys>
</TransXChange>`

const flexibleDocument = `<TransXChange SchemaVersion="2.4" CreationDateTime="2024-01-01T00:00:00" ModificationDateTime="2024-01-02T00:00:00" RevisionNumber="1">
  <Operators>
    <Operator id="O1">
      <NationalOperatorCode>ABCD</NationalOperatorCode>
      <OperatorShortName>Sample Buses</OperatorShortName>
      <LicenceNumber>PB0001111</LicenceNumber>
      <PrimaryMode>bus</PrimaryMode>
    </Operator>
  </Operators>
  <Services>
    <Service>
      <ServiceCode>UZ0000001:1</ServiceCode>
      <Lines>
        <Line id="ABCD:UZ0000001:1:F1"><LineName>F1</LineName></Line>
      </Lines>
      <OperatingPeriod><StartDate>2024-01-01</StartDate></OperatingPeriod>
      <RegisteredOperatorRef>O1</RegisteredOperatorRef>
      <ServiceClassification><Flexible/></ServiceClassification>
      <FlexibleService>
        <Origin>Zone A</Origin>
        <Destination>Zone B</Destination>
        <FlexibleJourneyPattern id="FJP1">
          <StopPointsInSequence>
            <FixedStopUsage>
              <StopPointRef>9990000001</StopPointRef>
              <TimingStatus>OTH</TimingStatus>
            </FixedStopUsage>
            <FlexibleStopUsage>
              <StopPointRef>9990000002</StopPointRef>
            </FlexibleStopUsage>
          </StopPointsInSequence>
        </FlexibleJourneyPattern>
      </FlexibleService>
    </Service>
  </Services>
</TransXChange>`

func fixtureLookups(priors map[string][]txc.FileAttributes) lookup.Services {
	static := &lookup.Static{
		Records: map[string]*lookup.StopPointRecord{},
		StopPointRecords: []lookup.StopPointRecord{
			{AtcoCode: "9990000001", StopType: "BCT", BusStopType: "FLX", LocalityName: "Newtown"},
			{AtcoCode: "9990000002", StopType: "BCT", BusStopType: "MKD", LocalityName: "Newtown"},
		},
	}

	for i := range static.StopPointRecords {
		record := &static.StopPointRecords[i]
		static.Records[record.AtcoCode] = record
	}

	static.PriorFiles = priors

	return static.Services()
}

func observationNumbers(violations []report.Violation) map[int]bool {
	numbers := map[int]bool{}
	for _, violation := range violations {
		numbers[violation.Observation.Number] = true
	}

	return numbers
}

func newPTIValidator(t *testing.T, lookups lookup.Services) *Validator {
	t.Helper()

	validator, err := NewPTI(lookups)
	if err != nil {
		t.Fatal(err)
	}
	validator.Now = func() time.Time { return time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC) }

	return validator
}

func TestValidateCleanDocument(t *testing.T) {
	validator := newPTIValidator(t, fixtureLookups(nil))

	document, violations, err := validator.Validate(context.Background(), []byte(cleanDocument), "clean.xml")
	if err != nil {
		t.Fatal(err)
	}
	if document == nil {
		t.Fatal("expected a parsed document")
	}
	if len(violations) != 0 {
		t.Fatalf("expected a clean run, got %+v", violations)
	}
}

func TestValidateServiceCodeFormat(t *testing.T) {
	validator := newPTIValidator(t, fixtureLookups(nil))

	mutated := strings.ReplaceAll(cleanDocument, "PB0001111:1", "PB01:1")

	_, violations, err := validator.Validate(context.Background(), []byte(mutated), "clean.xml")
	if err != nil {
		t.Fatal(err)
	}

	if !observationNumbers(violations)[18] {
		t.Fatalf("expected a service code violation, got %+v", violations)
	}

	for _, violation := range violations {
		if violation.Observation.Number == 18 && violation.Element != "ServiceCode" {
			t.Errorf("violation should point at the ServiceCode element, got %q", violation.Element)
		}
	}
}

func TestValidateOperatingPeriodLength(t *testing.T) {
	validator := newPTIValidator(t, fixtureLookups(nil))

	within := strings.ReplaceAll(cleanDocument,
		"<StartDate>2024-01-01</StartDate><EndDate>2024-06-01</EndDate>",
		"<StartDate>2013-01-01</StartDate><EndDate>2024-01-10</EndDate>")

	_, violations, err := validator.Validate(context.Background(), []byte(within), "clean.xml")
	if err != nil {
		t.Fatal(err)
	}
	if observationNumbers(violations)[20] {
		t.Errorf("4026 day period should pass, got %+v", violations)
	}

	beyond := strings.ReplaceAll(cleanDocument,
		"<StartDate>2024-01-01</StartDate><EndDate>2024-06-01</EndDate>",
		"<StartDate>2013-01-01</StartDate><EndDate>2024-01-11</EndDate>")

	_, violations, err = validator.Validate(context.Background(), []byte(beyond), "clean.xml")
	if err != nil {
		t.Fatal(err)
	}
	if !observationNumbers(violations)[20] {
		t.Fatalf("4027 day period should fail, got %+v", violations)
	}

	for _, violation := range violations {
		if violation.Observation.Number == 20 && violation.Element != "OperatingPeriod" {
			t.Errorf("violation should point at the OperatingPeriod element, got %q", violation.Element)
		}
	}
}

func TestValidateLineName(t *testing.T) {
	validator := newPTIValidator(t, fixtureLookups(nil))

	mutated := strings.ReplaceAll(cleanDocument, "<LineName>42</LineName>", "<LineName>4@2</LineName>")

	_, violations, err := validator.Validate(context.Background(), []byte(mutated), "clean.xml")
	if err != nil {
		t.Fatal(err)
	}

	if !observationNumbers(violations)[14] {
		t.Fatalf("expected a line name violation, got %+v", violations)
	}
}

func TestValidateRevisionHistory(t *testing.T) {
	priors := map[string][]txc.FileAttributes{
		"PB0001111:1": {
			{
				Filename:             "earlier.xml",
				ServiceCode:          "PB0001111:1",
				LineNames:            []string{"42"},
				RevisionNumber:       3,
				ModificationDateTime: time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC),
			},
		},
	}

	validator := newPTIValidator(t, fixtureLookups(priors))
	validator.CompareRevisions = true

	_, violations, err := validator.Validate(context.Background(), []byte(cleanDocument), "clean.xml")
	if err != nil {
		t.Fatal(err)
	}

	if len(violations) != 1 {
		t.Fatalf("expected exactly the revision violation, got %+v", violations)
	}

	violation := violations[0]
	if violation.Line != 2 || violation.Element != "RevisionNumber" || violation.Observation.Reference != "2.3" {
		t.Errorf("unexpected revision violation %+v", violation)
	}
}

func TestValidateFlexibleObservationFiltering(t *testing.T) {
	validator := newPTIValidator(t, fixtureLookups(nil))

	_, violations, err := validator.Validate(context.Background(), []byte(flexibleDocument), "flexible.xml")
	if err != nil {
		t.Fatal(err)
	}

	numbers := observationNumbers(violations)

	// 9990000002 is not a FLX stop
	if !numbers[41] {
		t.Errorf("expected the flexible stop type violation, got %+v", violations)
	}

	if numbers[17] || numbers[24] {
		t.Errorf("standard-only observations must not run for a flexible document, got %+v", violations)
	}
}

const cleanFaresDocument = `<PublicationDelivery>
  <dataObjects>
    <CompositeFrame id="frame:UK_PI_NETWORK:sample">
      <ValidBetween><FromDate>2024-01-01T00:00:00</FromDate></ValidBetween>
      <TypeOfFrameRef ref="fxc:UK_PI_NETWORK"/>
      <frames>
        <ResourceFrame>
          <TypeOfFrameRef ref="fxc:UK_PI_COMMON"/>
          <organisations>
            <Operator id="noc:ABCD">
              <Name>Sample Buses</Name>
              <PublicCode>ABCD</PublicCode>
            </Operator>
          </organisations>
        </ResourceFrame>
        <FareFrame>
          <TypeOfFrameRef ref="fxc:UK_PI_FARE_PRODUCT"/>
          <fareStructureElements>
            <FareStructureElement id="fse:access">
              <TypeOfFareStructureElementRef ref="fxc:access"/>
              <GenericParameterAssignment><TypeOfAccessRightAssignmentRef ref="fxc:can_access"/></GenericParameterAssignment>
            </FareStructureElement>
            <FareStructureElement id="fse:eligibility">
              <TypeOfFareStructureElementRef ref="fxc:eligibility"/>
              <GenericParameterAssignment><TypeOfAccessRightAssignmentRef ref="fxc:eligible"/></GenericParameterAssignment>
            </FareStructureElement>
            <FareStructureElement id="fse:conditions">
              <TypeOfFareStructureElementRef ref="fxc:travel_conditions"/>
              <GenericParameterAssignment><TypeOfAccessRightAssignmentRef ref="fxc:condition_of_use"/></GenericParameterAssignment>
            </FareStructureElement>
          </fareStructureElements>
          <salesOfferPackages>
            <SalesOfferPackage id="sop:single">
              <distributionAssignments><DistributionAssignment id="da:onboard"/></distributionAssignments>
              <salesOfferPackageElements><SalesOfferPackageElement id="sope:single"/></salesOfferPackageElements>
            </SalesOfferPackage>
          </salesOfferPackages>
        </FareFrame>
      </frames>
    </CompositeFrame>
  </dataObjects>
</PublicationDelivery>`

func TestValidateFares(t *testing.T) {
	schema, err := profile.LoadFares()
	if err != nil {
		t.Fatal(err)
	}

	validator := New(schema, fixtureLookups(nil))

	violations, err := validator.ValidateFares(context.Background(), []byte(cleanFaresDocument), "fares.xml")
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 0 {
		t.Fatalf("expected a clean fares run, got %+v", violations)
	}

	broken := strings.ReplaceAll(cleanFaresDocument, "fxc:UK_PI_FARE_PRODUCT", "fxc:UK_PI_BOGUS")

	violations, err = validator.ValidateFares(context.Background(), []byte(broken), "fares.xml")
	if err != nil {
		t.Fatal(err)
	}
	if len(violations) != 1 || violations[0].Element != "TypeOfFrameRef" {
		t.Fatalf("expected one frame type violation, got %+v", violations)
	}
}

func TestValidateMalformedDocument(t *testing.T) {
	validator := newPTIValidator(t, fixtureLookups(nil))

	if _, _, err := validator.Validate(context.Background(), []byte("not xml at all"), "bad.xml"); err == nil {
		t.Fatal("expected a parse error")
	}
}
