package txc

import "github.com/txcheck/txcheck/pkg/xmldoc"

type JourneyPatternSection struct {
	ID string

	TimingLinks []*JourneyPatternTimingLink

	Node *xmldoc.Node
}

type JourneyPatternTimingLink struct {
	ID string

	From         TimingLinkUsage
	To           TimingLinkUsage
	RouteLinkRef string
	Direction    string

	// RunTime is a normalised ISO-8601 duration, empty when absent.
	RunTime string

	Node *xmldoc.Node
}

type TimingLinkUsage struct {
	Activity                  string
	StopPointRef              string
	TimingStatus              string
	DynamicDestinationDisplay string
	WaitTime                  string
	SequenceNumber            string
}
