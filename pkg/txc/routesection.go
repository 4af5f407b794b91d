package txc

import "github.com/txcheck/txcheck/pkg/xmldoc"

type RouteSection struct {
	ID string

	RouteLinks []*RouteLink

	Node *xmldoc.Node
}

type RouteLink struct {
	ID string

	FromStopPointRef string
	ToStopPointRef   string
	Distance         int

	// Track is nil when absent; when present it carries at least one
	// location.
	Track []Location

	Node *xmldoc.Node
}

type Route struct {
	ID string

	PrivateCode      string
	Description      string
	RouteSectionRefs []string

	Node *xmldoc.Node
}
