package report

// ObservationSummary is the schema metadata attached to each violation so
// reports can be read without the schema at hand.
type ObservationSummary struct {
	Number      int    `json:"number,omitempty" groups:"basic,detailed"`
	Details     string `json:"details" groups:"basic,detailed"`
	Category    string `json:"category" groups:"basic,detailed"`
	Reference   string `json:"reference,omitempty" groups:"detailed"`
	ServiceType string `json:"service_type,omitempty" groups:"detailed"`
}

// Violation is one conformance failure pinned to a source location.
type Violation struct {
	Filename string `json:"filename" groups:"basic,detailed"`
	Line     int    `json:"line" groups:"basic,detailed"`

	// Element is the local name of the offending element, ElementText a
	// trimmed snippet of its character data.
	Element     string `json:"element" groups:"basic,detailed"`
	ElementText string `json:"element_text,omitempty" groups:"detailed"`

	// Message is set when the failing predicate reported its own
	// explanation instead of a node set.
	Message string `json:"message,omitempty" groups:"basic,detailed"`

	Observation ObservationSummary `json:"observation" groups:"basic,detailed"`
}
