// Package lookup defines the external data services the validation engine
// borrows for a run: NaPTAN stop point records, the Scotland service
// register, and previously accepted file attributes.
package lookup

import (
	"context"
	"errors"

	"github.com/txcheck/txcheck/pkg/txc"
)

// ErrLookupUnavailable aborts a validation run: predicate results would be
// unsound without the backing data.
var ErrLookupUnavailable = errors.New("lookup service unavailable")

// StopPointRecord is the NaPTAN view of a stop.
type StopPointRecord struct {
	AtcoCode     string   `bson:"atcocode" json:"atco_code" yaml:"atco_code"`
	StopType     string   `bson:"stoptype" json:"stop_type" yaml:"stop_type"`
	BusStopType  string   `bson:"busstoptype" json:"bus_stop_type" yaml:"bus_stop_type"`
	StopAreas    []string `bson:"stopareas" json:"stop_areas" yaml:"stop_areas"`
	LocalityName string   `bson:"localityname" json:"locality_name" yaml:"locality_name"`
}

// StopPoints resolves ATCO codes in batch. Codes with no NaPTAN record are
// returned in the missing list, not as an error.
type StopPoints interface {
	Get(ctx context.Context, atcoCodes []string) (map[string]*StopPointRecord, []string, error)
}

// Scotland answers whether a service operates in Scotland.
type Scotland interface {
	InScotland(ctx context.Context, serviceRef string) (bool, error)
}

// PriorAttributes returns the previously accepted file attributes for a
// service code.
type PriorAttributes interface {
	Find(ctx context.Context, serviceCode string) ([]txc.FileAttributes, error)
}

// Services bundles the lookups a validator run borrows.
type Services struct {
	StopPoints      StopPoints
	Scotland        Scotland
	PriorAttributes PriorAttributes
}
