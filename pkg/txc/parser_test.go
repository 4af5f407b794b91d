package txc

import (
	"errors"
	"testing"

	"github.com/txcheck/txcheck/pkg/xmldoc"
)

const sampleDocument = `<?xml version="1.0" encoding="UTF-8"?>
<TransXChange xmlns="http://www.transxchange.org.uk/" SchemaVersion="2.4"
  CreationDateTime="2024-01-01T00:00:00" ModificationDateTime="2024-02-01T00:00:00"
  RevisionNumber="3" Modification="revise">
  <StopPoints>
    <AnnotatedStopPointRef>
      <StopPointRef>9990000001</StopPointRef>
      <CommonName>High Street</CommonName>
      <LocalityName>Newtown</LocalityName>
    </AnnotatedStopPointRef>
    <AnnotatedStopPointRef>
      <StopPointRef>9990000002</StopPointRef>
      <CommonName>Market Square</CommonName>
    </AnnotatedStopPointRef>
  </StopPoints>
  <Operators>
    <Operator id="O1">
      <NationalOperatorCode>ABCD</NationalOperatorCode>
      <OperatorShortName>Sample Buses</OperatorShortName>
      <LicenceNumber>PC1234567</LicenceNumber>
      <PrimaryMode>bus</PrimaryMode>
    </Operator>
    <Operator id="O2">
      <PrimaryMode>spaceship</PrimaryMode>
    </Operator>
  </Operators>
  <JourneyPatternSections>
    <JourneyPatternSection id="JPS1">
      <JourneyPatternTimingLink id="JPTL1">
        <From>
          <Activity>pickUp</Activity>
          <StopPointRef>9990000001</StopPointRef>
          <TimingStatus>PTP</TimingStatus>
        </From>
        <To>
          <StopPointRef>9990000002</StopPointRef>
          <TimingStatus>OTH</TimingStatus>
        </To>
        <RunTime>PT2H75M</RunTime>
      </JourneyPatternTimingLink>
    </JourneyPatternSection>
  </JourneyPatternSections>
  <Services>
    <Service>
      <ServiceCode>PB0001111:1</ServiceCode>
      <Lines>
        <Line id="ABCD:PB0001111:1:42">
          <LineName>42</LineName>
        </Line>
      </Lines>
      <OperatingPeriod>
        <StartDate>2024-01-01</StartDate>
        <EndDate>2024-06-01</EndDate>
      </OperatingPeriod>
      <RegisteredOperatorRef>O1</RegisteredOperatorRef>
      <StandardService>
        <Origin>Newtown</Origin>
        <Destination>Oldtown</Destination>
        <JourneyPattern id="JP1">
          <DestinationDisplay>Oldtown</DestinationDisplay>
          <JourneyPatternSectionRefs>JPS1</JourneyPatternSectionRefs>
        </JourneyPattern>
      </StandardService>
    </Service>
  </Services>
  <VehicleJourneys>
    <VehicleJourney>
      <OperatorRef>O1</OperatorRef>
      <VehicleJourneyCode>VJ1</VehicleJourneyCode>
      <ServiceRef>PB0001111:1</ServiceRef>
      <LineRef>ABCD:PB0001111:1:42</LineRef>
      <JourneyPatternRef>JP1</JourneyPatternRef>
      <DepartureTime>09:30:00</DepartureTime>
    </VehicleJourney>
  </VehicleJourneys>
</TransXChange>`

func parseSample(t *testing.T) *Document {
	t.Helper()

	data := []byte(sampleDocument)

	source, err := xmldoc.Parse(data, "sample.xml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	document, err := Parse(source, data, DefaultParserConfig())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	return document
}

func TestParseMetadata(t *testing.T) {
	document := parseSample(t)

	metadata := document.Metadata
	if metadata.SchemaVersion != "2.4" {
		t.Errorf("SchemaVersion = %q", metadata.SchemaVersion)
	}
	if metadata.RevisionNumber != 3 {
		t.Errorf("RevisionNumber = %d", metadata.RevisionNumber)
	}
	if metadata.Modification != "revise" {
		t.Errorf("Modification = %q", metadata.Modification)
	}
	if !metadata.CreationDateTime.Before(metadata.ModificationDateTime) {
		t.Error("expected creation before modification")
	}
}

func TestParseUnsupportedSchemaVersion(t *testing.T) {
	data := []byte(`<TransXChange SchemaVersion="2.1"></TransXChange>`)

	source, err := xmldoc.Parse(data, "old.xml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	_, err = Parse(source, data, DefaultParserConfig())
	if !errors.Is(err, ErrUnsupportedSchemaVersion) {
		t.Errorf("expected ErrUnsupportedSchemaVersion, got %v", err)
	}
}

func TestParseSkipsInvalidOperator(t *testing.T) {
	document := parseSample(t)

	if len(document.Operators) != 1 {
		t.Fatalf("expected the invalid operator to be skipped, got %d operators", len(document.Operators))
	}
	if document.Operators[0].ID != "O1" {
		t.Errorf("unexpected operator %s", document.Operators[0].ID)
	}
}

func TestParseService(t *testing.T) {
	document := parseSample(t)

	service := document.ServiceByCode("PB0001111:1")
	if service == nil {
		t.Fatal("service not found")
	}

	if !service.Registered() {
		t.Error("expected a registered service code")
	}
	if service.OperatingPeriod.Days() != 152 {
		t.Errorf("operating period days = %d", service.OperatingPeriod.Days())
	}
	if service.StandardService == nil || len(service.StandardService.JourneyPatterns) != 1 {
		t.Fatal("expected one journey pattern")
	}
	if len(service.Lines) != 1 || service.Lines[0].LineName != "42" {
		t.Error("line not parsed")
	}
}

func TestParseNormalisesRunTime(t *testing.T) {
	document := parseSample(t)

	link := document.TimingLink("JPTL1")
	if link == nil {
		t.Fatal("timing link not indexed")
	}

	if link.RunTime != "PT3H15M0S" {
		t.Errorf("RunTime = %q", link.RunTime)
	}
	if link.From.TimingStatus != "principalTimingPoint" {
		t.Errorf("From.TimingStatus = %q", link.From.TimingStatus)
	}
	if link.To.TimingStatus != "otherPoint" {
		t.Errorf("To.TimingStatus = %q", link.To.TimingStatus)
	}
}

func TestIndexLookups(t *testing.T) {
	document := parseSample(t)

	journeys := document.JourneysForLine("ABCD:PB0001111:1:42")
	if len(journeys) != 1 || journeys[0].VehicleJourneyCode != "VJ1" {
		t.Fatal("journeys for line not indexed")
	}

	if document.SectionOfTimingLink("JPTL1") == nil {
		t.Error("section of timing link not indexed")
	}
	if len(document.PatternsUsingSection("JPS1")) != 1 {
		t.Error("patterns using section not indexed")
	}
	if len(document.TimingLinksAtStop("9990000001")) != 1 {
		t.Error("timing links at stop not indexed")
	}

	stops := document.StopRefsForLine("ABCD:PB0001111:1:42")
	if len(stops) != 2 || stops[0] != "9990000001" || stops[1] != "9990000002" {
		t.Errorf("stops for line = %v", stops)
	}
}

func TestExtractFileAttributes(t *testing.T) {
	document := parseSample(t)

	records := ExtractFileAttributes(document)
	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}

	record := records[0]
	if record.ServiceCode != "PB0001111:1" || record.RevisionNumber != 3 {
		t.Errorf("unexpected record %+v", record)
	}
	if len(record.LineNames) != 1 || record.LineNames[0] != "42" {
		t.Errorf("line names = %v", record.LineNames)
	}
}

func TestParseDepartureTime(t *testing.T) {
	for _, test := range []struct {
		Input string
		Time  string
		Shift int
		Fails bool
	}{
		{"09:30:00", "09:30:00", 0, false},
		{"00:10:00 +1", "00:10:00", 1, false},
		{"", "", 0, true},
		{"9am", "", 0, true},
	} {
		departure, shift, err := parseDepartureTime(test.Input)
		if test.Fails {
			if err == nil {
				t.Errorf("parseDepartureTime(%q) should fail", test.Input)
			}
			continue
		}

		if err != nil || departure != test.Time || shift != test.Shift {
			t.Errorf("parseDepartureTime(%q) = (%q, %d, %v)", test.Input, departure, shift, err)
		}
	}
}

func TestOperatingProfileDayInvariant(t *testing.T) {
	parseProfile := func(t *testing.T, body string) *OperatingProfile {
		t.Helper()

		data := []byte("<OperatingProfile>" + body + "</OperatingProfile>")
		source, err := xmldoc.Parse(data, "profile.xml")
		if err != nil {
			t.Fatalf("load: %v", err)
		}

		return parseOperatingProfile(source.Element)
	}

	t.Run("weekday shortcut expands", func(t *testing.T) {
		profile := parseProfile(t, "<RegularDayType><DaysOfWeek><MondayToFriday/></DaysOfWeek></RegularDayType>")
		if profile == nil || len(profile.DaysOfWeek) != 5 {
			t.Fatalf("profile = %+v", profile)
		}
	})

	t.Run("holidays only", func(t *testing.T) {
		profile := parseProfile(t, "<RegularDayType><HolidaysOnly/></RegularDayType>")
		if profile == nil || !profile.HolidaysOnly {
			t.Fatalf("profile = %+v", profile)
		}
	})

	t.Run("both is rejected", func(t *testing.T) {
		profile := parseProfile(t, "<RegularDayType><HolidaysOnly/><DaysOfWeek><Monday/></DaysOfWeek></RegularDayType>")
		if profile != nil {
			t.Fatal("expected nil profile")
		}
	})

	t.Run("neither is rejected", func(t *testing.T) {
		profile := parseProfile(t, "<RegularDayType/>")
		if profile != nil {
			t.Fatal("expected nil profile")
		}
	})
}
