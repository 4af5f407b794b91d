package xmldoc

import (
	"errors"
	"testing"
)

const sampleXML = `<?xml version="1.0" encoding="UTF-8"?>
<TransXChange xmlns="http://www.transxchange.org.uk/" SchemaVersion="2.4" RevisionNumber="3">
  <Services>
    <Service>
      <ServiceCode>PB0002032:467</ServiceCode>
      <Lines>
        <Line id="L1">
          <LineName>1A</LineName>
        </Line>
        <Line id="L2">
          <LineName>1B</LineName>
        </Line>
      </Lines>
      <RegisteredFlag>true</RegisteredFlag>
    </Service>
  </Services>
</TransXChange>
`

func TestParseStripsNamespaces(t *testing.T) {
	doc, err := Parse([]byte(sampleXML), "sample.xml")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if doc.Element.Name != "TransXChange" {
		t.Errorf("Expected root element TransXChange, got %s", doc.Element.Name)
	}

	for _, attr := range doc.Element.Attrs {
		if attr.Name == "xmlns" {
			t.Error("xmlns declaration survived namespace stripping")
		}
	}

	if got := doc.Element.Attr("SchemaVersion", ""); got != "2.4" {
		t.Errorf("Expected SchemaVersion 2.4, got %q", got)
	}
}

func TestParseMalformed(t *testing.T) {
	_, err := Parse([]byte("<TransXChange><Services></TransXChange>"), "broken.xml")
	if err == nil {
		t.Fatal("Expected error for malformed document")
	}

	if !errors.Is(err, ErrMalformed) {
		t.Errorf("Expected ErrMalformed, got %v", err)
	}
}

func TestSourceLines(t *testing.T) {
	doc, err := Parse([]byte(sampleXML), "sample.xml")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	serviceCode, err := Find(doc.Element, "//Services/Service/ServiceCode")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if serviceCode == nil {
		t.Fatal("ServiceCode not found")
	}

	if serviceCode.Line != 5 {
		t.Errorf("Expected ServiceCode on line 5, got %d", serviceCode.Line)
	}
}

func TestFindAllDocumentOrder(t *testing.T) {
	doc, err := Parse([]byte(sampleXML), "sample.xml")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	lines, err := FindAll(doc.Element, "//Lines/Line")
	if err != nil {
		t.Fatalf("FindAll failed: %v", err)
	}

	if len(lines) != 2 {
		t.Fatalf("Expected 2 lines, got %d", len(lines))
	}

	if lines[0].Attr("id", "") != "L1" || lines[1].Attr("id", "") != "L2" {
		t.Errorf("Lines out of document order: %s, %s", lines[0].Attr("id", ""), lines[1].Attr("id", ""))
	}
}

func TestAccessors(t *testing.T) {
	doc, err := Parse([]byte(sampleXML), "sample.xml")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	service, err := Find(doc.Element, "//Services/Service")
	if err != nil || service == nil {
		t.Fatalf("Service not found: %v", err)
	}

	if got := GetText(service, "ServiceCode"); got != "PB0002032:467" {
		t.Errorf("GetText returned %q", got)
	}

	if got := GetText(service, "DoesNotExist"); got != "" {
		t.Errorf("GetText for missing element returned %q", got)
	}

	if !GetBool(service, "RegisteredFlag", false) {
		t.Error("GetBool failed to read true")
	}

	if GetBool(service, "DoesNotExist", false) {
		t.Error("GetBool ignored the fallback")
	}

	if revision, ok := GetInt(doc.Element, "count(//Line)"); ok || revision != 0 {
		// count() is not a node path; GetInt only reads element text
		t.Errorf("GetInt on non-path expression returned %d, %v", revision, ok)
	}
}
