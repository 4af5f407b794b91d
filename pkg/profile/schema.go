// Package profile loads the JSON rule schemas that drive the validation
// engine. A schema is loaded once at startup, immutable, and shared between
// runs.
package profile

import (
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

//go:embed schemas/pti_observations.json schemas/fares_observations.json
var embeddedSchemas embed.FS

const (
	ServiceTypeStandard = "Standard"
	ServiceTypeFlexible = "Flexible"
	ServiceTypeAll      = "All"
)

type Header struct {
	Namespaces       map[string]string `json:"namespaces"`
	Version          string            `json:"version"`
	Notes            string            `json:"notes,omitempty"`
	GuidanceDocument string            `json:"guidance_document,omitempty"`
}

type Rule struct {
	Test string `json:"test"`
}

// Observation is one self-contained conformance check: a context XPath
// selecting the nodes to examine and an ordered conjunction of rule tests.
type Observation struct {
	Details     string `json:"details"`
	Category    string `json:"category"`
	ServiceType string `json:"service_type,omitempty"`
	Reference   string `json:"reference,omitempty"`
	Context     string `json:"context"`
	Number      int    `json:"number,omitempty"`
	Rules       []Rule `json:"rules"`
}

// AppliesTo reports whether the observation runs for a document of the
// given service kind. An empty service type means All.
func (o *Observation) AppliesTo(serviceKind string) bool {
	switch o.ServiceType {
	case "", ServiceTypeAll:
		return true
	default:
		return o.ServiceType == serviceKind
	}
}

type Schema struct {
	Header       Header        `json:"header"`
	Observations []Observation `json:"observations"`
}

// ReferencesFunction reports whether any rule test calls the named
// function. The engine uses this to decide whether a run needs lookup
// prefetching.
func (s *Schema) ReferencesFunction(name string) bool {
	needle := name + "("

	for _, observation := range s.Observations {
		for _, rule := range observation.Rules {
			if strings.Contains(rule.Test, needle) {
				return true
			}
		}
	}

	return false
}

// ObservationByNumber returns the first observation carrying the number,
// or nil. Numbers are labels, not keys; duplicates are legal.
func (s *Schema) ObservationByNumber(number int) *Observation {
	for i := range s.Observations {
		if s.Observations[i].Number == number {
			return &s.Observations[i]
		}
	}

	return nil
}

func decode(data []byte, name string) (*Schema, error) {
	schema := &Schema{}
	if err := json.Unmarshal(data, schema); err != nil {
		return nil, fmt.Errorf("schema %s: %w", name, err)
	}

	if len(schema.Observations) == 0 {
		return nil, fmt.Errorf("schema %s declares no observations", name)
	}

	for i, observation := range schema.Observations {
		if observation.Context == "" {
			return nil, fmt.Errorf("schema %s: observation %d has no context", name, i)
		}
		if len(observation.Rules) == 0 {
			return nil, fmt.Errorf("schema %s: observation %d has no rules", name, i)
		}
	}

	return schema, nil
}

// LoadPTI returns the embedded PTI profile schema.
func LoadPTI() (*Schema, error) {
	data, err := embeddedSchemas.ReadFile("schemas/pti_observations.json")
	if err != nil {
		return nil, err
	}

	return decode(data, "pti")
}

// LoadFares returns the embedded fares profile schema.
func LoadFares() (*Schema, error) {
	data, err := embeddedSchemas.ReadFile("schemas/fares_observations.json")
	if err != nil {
		return nil, err
	}

	return decode(data, "fares")
}

// LoadFile reads a schema from disk, for callers overriding the embedded
// defaults.
func LoadFile(path string) (*Schema, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	return decode(data, path)
}
