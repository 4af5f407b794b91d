// Package report holds the violation model shared by the engine, the CLI
// and the web API, and renders result sets as JSON or as a flat CSV table.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/gocarina/gocsv"
)

// Document is the JSON report envelope.
type Document struct {
	GeneratedAt time.Time   `json:"generated_at"`
	Files       int         `json:"files"`
	Violations  []Violation `json:"violations"`
}

// Row is one CSV report line; the nested observation metadata is flattened.
type Row struct {
	Filename    string `csv:"filename"`
	Line        int    `csv:"line"`
	Observation int    `csv:"observation"`
	Category    string `csv:"category"`
	Details     string `csv:"details"`
	Element     string `csv:"element"`
	ElementText string `csv:"element_text"`
	Reference   string `csv:"reference"`
	Message     string `csv:"message"`
}

func WriteJSON(w io.Writer, files int, violations []Violation) error {
	document := Document{
		GeneratedAt: time.Now().UTC(),
		Files:       files,
		Violations:  violations,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	return encoder.Encode(document)
}

func WriteCSV(w io.Writer, violations []Violation) error {
	rows := make([]Row, 0, len(violations))

	for _, violation := range violations {
		rows = append(rows, Row{
			Filename:    violation.Filename,
			Line:        violation.Line,
			Observation: violation.Observation.Number,
			Category:    violation.Observation.Category,
			Details:     violation.Observation.Details,
			Element:     violation.Element,
			ElementText: violation.ElementText,
			Reference:   violation.Observation.Reference,
			Message:     violation.Message,
		})
	}

	return gocsv.Marshal(rows, w)
}
