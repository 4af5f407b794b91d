package lookup

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/txcheck/txcheck/pkg/database"
	"github.com/txcheck/txcheck/pkg/txc"
)

const mongoMaxRetries = 3

// Mongo serves lookups from the validator's MongoDB collections. Transient
// query failures are retried with exponential backoff; a query that keeps
// failing surfaces as ErrLookupUnavailable.
type Mongo struct{}

func NewMongo() *Mongo {
	return &Mongo{}
}

func (m *Mongo) Services() Services {
	return Services{StopPoints: m, Scotland: m, PriorAttributes: m}
}

func retryQuery(ctx context.Context, operation func() error) error {
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), mongoMaxRetries), ctx)

	if err := backoff.Retry(operation, policy); err != nil {
		return fmt.Errorf("%w: %v", ErrLookupUnavailable, err)
	}

	return nil
}

func (m *Mongo) Get(ctx context.Context, atcoCodes []string) (map[string]*StopPointRecord, []string, error) {
	if len(atcoCodes) == 0 {
		return map[string]*StopPointRecord{}, nil, nil
	}

	collection := database.GetCollection(database.NaptanStopsCollection)

	var records []StopPointRecord

	err := retryQuery(ctx, func() error {
		cursor, err := collection.Find(ctx, bson.M{"atcocode": bson.M{"$in": atcoCodes}})
		if err != nil {
			return err
		}

		records = records[:0]

		return cursor.All(ctx, &records)
	})
	if err != nil {
		return nil, nil, err
	}

	found := make(map[string]*StopPointRecord, len(records))
	for i := range records {
		found[records[i].AtcoCode] = &records[i]
	}

	var missing []string
	for _, code := range atcoCodes {
		if _, ok := found[code]; !ok {
			missing = append(missing, code)
		}
	}

	return found, missing, nil
}

func (m *Mongo) InScotland(ctx context.Context, serviceRef string) (bool, error) {
	collection := database.GetCollection(database.ScottishServicesCollection)

	var count int64

	err := retryQuery(ctx, func() error {
		found, err := collection.CountDocuments(ctx, bson.M{"serviceref": serviceRef})
		if err != nil {
			return err
		}

		count = found

		return nil
	})
	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func (m *Mongo) Find(ctx context.Context, serviceCode string) ([]txc.FileAttributes, error) {
	collection := database.GetCollection(database.FileAttributesCollection)

	var records []txc.FileAttributes

	err := retryQuery(ctx, func() error {
		cursor, err := collection.Find(ctx, bson.M{"servicecode": serviceCode})
		if err != nil {
			return err
		}

		records = records[:0]

		return cursor.All(ctx, &records)
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}

// RecordFileAttributes stores an accepted file's attributes so later
// revisions can be compared against them.
func RecordFileAttributes(ctx context.Context, records []txc.FileAttributes) error {
	collection := database.GetCollection(database.FileAttributesCollection)

	documents := make([]interface{}, len(records))
	for i, record := range records {
		documents[i] = record
	}

	_, err := collection.InsertMany(ctx, documents)

	return err
}
