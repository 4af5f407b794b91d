package txc

import "github.com/txcheck/txcheck/pkg/xmldoc"

type Operator struct {
	ID string

	NationalOperatorCode  string
	OperatorCode          string
	OperatorShortName     string
	TradingName           string
	LicenceNumber         string
	LicenceClassification string
	PrimaryMode           string

	Node *xmldoc.Node
}
