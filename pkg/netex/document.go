// Package netex is the load surface for NeTEx fares documents. The fares
// profile runs over the raw DOM; no typed model is built.
package netex

import (
	"fmt"
	"strings"

	"github.com/txcheck/txcheck/pkg/xmldoc"
)

// AllowedTypeOfFrameRefPrefixes is the closed set of frame type identifiers
// a fares TypeOfFrameRef may reference.
var AllowedTypeOfFrameRefPrefixes = []string{
	"UK_PI_COMMON",
	"UK_PI_FARE_NETWORK",
	"UK_PI_FARE_PRODUCT",
	"UK_PI_FARE_PRICE",
	"UK_PI_NETWORK",
	"UK_PI_METADATA",
}

// AllowedTypeOfFrameRef reports whether the attribute value names one of
// the permitted frame types.
func AllowedTypeOfFrameRef(ref string) bool {
	for _, prefix := range AllowedTypeOfFrameRefPrefixes {
		if strings.Contains(ref, prefix) {
			return true
		}
	}

	return false
}

// Document is a loaded fares publication.
type Document struct {
	Source *xmldoc.Document
}

// Parse loads a NeTEx fares document and checks the publication envelope is
// present.
func Parse(data []byte, filename string) (*Document, error) {
	source, err := xmldoc.Parse(data, filename)
	if err != nil {
		return nil, err
	}

	if source.Element.Name != "PublicationDelivery" {
		return nil, fmt.Errorf("%w: root element is %s", xmldoc.ErrMalformed, source.Element.Name)
	}

	if frames, _ := xmldoc.Find(source.Element, "dataObjects"); frames == nil {
		return nil, fmt.Errorf("%w: PublicationDelivery has no dataObjects", xmldoc.ErrMalformed)
	}

	return &Document{Source: source}, nil
}
