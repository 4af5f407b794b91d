package lookup

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const fixtureYAML = `
stop_points:
  - atco_code: "9990000001"
    stop_type: BCT
    bus_stop_type: FLX
    stop_areas: ["999G0001"]
    locality_name: Newtown
scottish_services:
  - "SC1234567:1"
prior_attributes:
  "PB0001111:1":
    - service_code: "PB0001111:1"
      line_names: ["42"]
      revision_number: 3
      modification_datetime: 2024-02-01T00:00:00Z
`

func loadFixture(t *testing.T) *Static {
	t.Helper()

	path := filepath.Join(t.TempDir(), "lookups.yaml")
	if err := os.WriteFile(path, []byte(fixtureYAML), 0o644); err != nil {
		t.Fatal(err)
	}

	static, err := LoadStaticFile(path)
	if err != nil {
		t.Fatalf("LoadStaticFile: %v", err)
	}

	return static
}

func TestStaticStopPoints(t *testing.T) {
	static := loadFixture(t)

	found, missing, err := static.Get(context.Background(), []string{"9990000001", "8880000001"})
	if err != nil {
		t.Fatal(err)
	}

	record := found["9990000001"]
	if record == nil || record.StopType != "BCT" || record.BusStopType != "FLX" {
		t.Fatalf("record = %+v", record)
	}
	if len(missing) != 1 || missing[0] != "8880000001" {
		t.Errorf("missing = %v", missing)
	}
}

func TestStaticScotland(t *testing.T) {
	static := loadFixture(t)

	inScotland, err := static.InScotland(context.Background(), "SC1234567:1")
	if err != nil || !inScotland {
		t.Errorf("InScotland = (%v, %v)", inScotland, err)
	}

	inScotland, err = static.InScotland(context.Background(), "PB0001111:1")
	if err != nil || inScotland {
		t.Errorf("english service reported Scottish")
	}
}

func TestStaticPriorAttributes(t *testing.T) {
	static := loadFixture(t)

	records, err := static.Find(context.Background(), "PB0001111:1")
	if err != nil || len(records) != 1 {
		t.Fatalf("Find = (%v, %v)", records, err)
	}
	if records[0].RevisionNumber != 3 {
		t.Errorf("revision = %d", records[0].RevisionNumber)
	}

	records, err = static.Find(context.Background(), "XX0000000:0")
	if err != nil || records != nil {
		t.Errorf("unknown service should return nil")
	}
}
