package lookup

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/txcheck/txcheck/pkg/txc"
)

// Static serves lookups from an in-memory fixture, for the CLI and tests.
// The zero value answers every query with "not found".
type Static struct {
	Records          map[string]*StopPointRecord     `json:"-" yaml:"-"`
	StopPointRecords []StopPointRecord               `json:"stop_points" yaml:"stop_points"`
	ScottishServices []string                        `json:"scottish_services" yaml:"scottish_services"`
	PriorFiles       map[string][]txc.FileAttributes `json:"prior_attributes" yaml:"prior_attributes"`
}

// LoadStaticFile reads a fixture file, YAML or JSON by extension.
func LoadStaticFile(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	static := &Static{}

	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(data, static)
	} else {
		err = yaml.Unmarshal(data, static)
	}
	if err != nil {
		return nil, fmt.Errorf("lookup fixture %s: %w", path, err)
	}

	static.buildIndex()

	return static, nil
}

func (s *Static) buildIndex() {
	s.Records = make(map[string]*StopPointRecord, len(s.StopPointRecords))

	for i := range s.StopPointRecords {
		record := &s.StopPointRecords[i]
		s.Records[record.AtcoCode] = record
	}
}

func (s *Static) Get(_ context.Context, atcoCodes []string) (map[string]*StopPointRecord, []string, error) {
	found := map[string]*StopPointRecord{}
	var missing []string

	for _, code := range atcoCodes {
		if record, ok := s.Records[code]; ok {
			found[code] = record
		} else {
			missing = append(missing, code)
		}
	}

	return found, missing, nil
}

func (s *Static) InScotland(_ context.Context, serviceRef string) (bool, error) {
	for _, ref := range s.ScottishServices {
		if ref == serviceRef {
			return true, nil
		}
	}

	return false, nil
}

func (s *Static) Find(_ context.Context, serviceCode string) ([]txc.FileAttributes, error) {
	return s.PriorFiles[serviceCode], nil
}

// Services wraps the fixture as a full lookup bundle.
func (s *Static) Services() Services {
	return Services{StopPoints: s, Scotland: s, PriorAttributes: s}
}
