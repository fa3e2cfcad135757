/*
Package mongodataset provides a implementation of dataset.Dataset
that uses a MongoDB database as backend.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

/*
Dataset is a dataset.Dataset to which samples can be added
and from which samples can be sequentially read
*/
type Dataset interface {
	dataset.Dataset
	Write(context.Context, []dataset.Sample) (int, error)
	Read(context.Context) (<-chan dataset.Sample, <-chan error)
}

type mongodataset struct {
	session    *mgo.Session
	features   []feature.Feature
	criteria   []feature.Criterion
	mongoQuery bson.M
}

const (
	samplesCollectionName = "samples"
)

/*
Open takes a MongoDB database session and returns a
Dataset that works on the default database for
that session or an error if its indexes cannot be ensured.
*/
func Open(ctx context.Context, session *mgo.Session, features []feature.Feature) (Dataset, error) {
	err := ValidateFeatureNames(features)
	if err != nil {
		return nil, err
	}
	mds := &mongodataset{session: session, features: features}
	err = mds.ensureIndexes()
	if err != nil {
		return nil, err
	}
	return mds, nil
}

/*
ValidateFeatureNames returns an error if any of the given features
has a name that cannot be used as a field of a sample document.
*/
func ValidateFeatureNames(features []feature.Feature) error {
	for _, f := range features {
		fName := f.Name()
		if fName == "_id" {
			return fmt.Errorf("invalid feature name %q: reserved collection field", "_id")
		}
		if fName == "" || strings.ContainsAny(fName, ".$") {
			return fmt.Errorf("invalid feature name %q: empty or contains reserved characters %q or %q", fName, ".", "$")
		}
	}
	return nil
}

/*
Query takes a slice of criteria and returns the MongoDB query
document that matches the samples satisfying all of them.
*/
func Query(criteria []feature.Criterion) bson.M {
	query := make(bson.M)
	for _, fc := range criteria {
		query[fc.Feature().Name()] = fc.Value()
	}
	return query
}

func (mds *mongodataset) SubsetWith(ctx context.Context, fc feature.Criterion) (dataset.Dataset, error) {
	return &mongodataset{session: mds.session, features: mds.features, criteria: append([]feature.Criterion{fc}, mds.criteria...)}, nil
}

func (mds *mongodataset) FeatureValues(ctx context.Context, f feature.Feature) ([]string, error) {
	counts, err := mds.CountFeatureValues(ctx, f)
	if err != nil {
		return nil, err
	}
	return dataset.SortedValues(counts), nil
}

func (mds *mongodataset) CountFeatureValues(ctx context.Context, f feature.Feature) (map[string]int, error) {
	iter := mds.samplesCollection().Pipe(countPipeline(mds.matchQuery(), f)).Iter()
	defer iter.Close()
	var doc bson.M
	result := make(map[string]int)
	for iter.Next(&doc) {
		if doc["_id"] == nil {
			continue
		}
		count, ok := doc["count"].(int)
		if !ok {
			return nil, fmt.Errorf("counting feature values: mongo aggregation query returned a %T instead of an int as count", doc["count"])
		}
		result[fmt.Sprintf("%v", doc["_id"])] = count
	}
	if err := iter.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (mds *mongodataset) Samples(ctx context.Context) ([]dataset.Sample, error) {
	var samples []dataset.Sample
	count, err := mds.Count(ctx)
	if err == nil {
		samples = make([]dataset.Sample, 0, count)
	}
	sampleChan, errs := mds.Read(ctx)
	for sample := range sampleChan {
		samples = append(samples, sample)
	}
	err = <-errs
	return samples, err
}

func (mds *mongodataset) Count(context.Context) (int, error) {
	return mds.query().Count()
}

func (mds *mongodataset) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	docs := make([]interface{}, 0, len(samples))
	for _, s := range samples {
		doc := make(bson.M)
		for _, f := range mds.features {
			value, err := s.ValueFor(ctx, f)
			if err != nil {
				return 0, err
			}
			if value != nil {
				doc[f.Name()] = value
			}
		}
		docs = append(docs, doc)
	}
	err := mds.samplesCollection().Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(samples), nil
}

func (mds *mongodataset) Read(ctx context.Context) (<-chan dataset.Sample, <-chan error) {
	samples := make(chan dataset.Sample)
	errs := make(chan error, 1)
	go func() {
		defer close(samples)
		defer close(errs)
		var doc bson.M
		var err error
		iter := mds.query().Sort("_id").Iter()
	loop:
		for iter.Next(&doc) {
			s := dataset.NewSample(doc)
			doc = nil
			select {
			case <-ctx.Done():
				err = ctx.Err()
				break loop
			case samples <- s:
			}
		}
		if cerr := iter.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			errs <- err
		}
	}()
	return samples, errs
}

func (mds *mongodataset) ensureIndexes() error {
	for _, f := range mds.features {
		index := mgo.Index{
			Key:        []string{f.Name()},
			Background: true,
			Sparse:     true,
		}
		err := mds.samplesCollection().EnsureIndex(index)
		if err != nil {
			return err
		}
	}
	return nil
}

func (mds *mongodataset) samplesCollection() *mgo.Collection {
	return mds.session.DB("").C(samplesCollectionName)
}

func (mds *mongodataset) matchQuery() bson.M {
	if mds.mongoQuery == nil {
		mds.mongoQuery = Query(mds.criteria)
	}
	return mds.mongoQuery
}

func (mds *mongodataset) query() *mgo.Query {
	return mds.samplesCollection().Find(mds.matchQuery())
}

func countPipeline(match bson.M, f feature.Feature) []bson.M {
	return []bson.M{
		{"$match": match},
		{"$group": bson.M{"_id": fmt.Sprintf("$%s", f.Name()), "count": bson.M{"$sum": 1}}},
	}
}
