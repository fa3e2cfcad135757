package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/dataset/csv"
	"github.com/pbanos/sapling/dataset/mongodataset"
	"github.com/pbanos/sapling/dataset/sqldataset"
	"github.com/pbanos/sapling/dataset/sqldataset/pgadapter"
	"github.com/pbanos/sapling/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/feature/yaml"
	"github.com/spf13/cobra"
	mgo "gopkg.in/mgo.v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// dataInputConfig holds the flags shared by every command that reads a
// dataset described by a metadata file.
type dataInputConfig struct {
	*rootCmdConfig  `validate:"-"`
	Input           string
	Metadata        string `validate:"required"`
	Label           string
	CPUIntensive    bool `validate:"excluded_with=MemoryIntensive"`
	MemoryIntensive bool
}

func (dic *dataInputConfig) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&(dic.Input), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL (postgresql://) or MongoDB (mongodb://) connection URL with the samples (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().StringVarP(&(dic.Metadata), "metadata", "m", "", "path to a YML file with metadata describing the features available on the input (required)")
	cmd.Flags().StringVarP(&(dic.Label), "label", "l", "", "name of the feature to predict (defaults to the label declared on the metadata)")
	cmd.Flags().BoolVar(&(dic.MemoryIntensive), "memory-intensive", false, "replicate samples when subsetting, trading memory for speed")
	cmd.Flags().BoolVar(&(dic.CPUIntensive), "cpu-intensive", false, "keep a single copy of the samples, trading speed for memory")
}

/*
features reads the metadata file and returns the features to grow a tree
on, in their declaration order, and the label feature, which is not
among them. All the features on the metadata are returned as the third
value.
*/
func (dic *dataInputConfig) features() ([]feature.Feature, feature.Feature, []feature.Feature, error) {
	dic.Logf("Reading features from metadata at %s...", dic.Metadata)
	md, err := yaml.ReadMetadataFromFile(dic.Metadata)
	if err != nil {
		return nil, nil, nil, err
	}
	labelName := dic.Label
	if labelName == "" {
		labelName = md.Label
	}
	if labelName == "" {
		return nil, nil, nil, fmt.Errorf("no label feature given: set the label flag or declare a label on the metadata")
	}
	label := feature.Find(md.Features, labelName)
	if label == nil {
		return nil, nil, nil, fmt.Errorf("label %q is not a feature on the metadata", labelName)
	}
	var features []feature.Feature
	for _, f := range md.Features {
		if f.Name() != labelName {
			features = append(features, f)
		}
	}
	dic.Logf("Read %d features, predicting %s", len(features), labelName)
	return features, label, md.Features, nil
}

// generator returns the dataset implementation chosen with the flags.
func (dic *dataInputConfig) generator() csv.DatasetGenerator {
	if dic.MemoryIntensive {
		return dataset.NewMemoryIntensive
	}
	if dic.CPUIntensive {
		return dataset.NewCPUIntensive
	}
	return dataset.New
}

/*
dataset opens the input with the given features and returns it along
with a function that releases any resources it holds.
*/
func (dic *dataInputConfig) dataset(ctx context.Context, features []feature.Feature) (dataset.Dataset, func(), error) {
	switch {
	case isPostgreSQLURL(dic.Input):
		dic.Logf("Opening PostgreSQL dataset at %s...", dic.Input)
		adapter, err := pgadapter.New(dic.Input)
		if err != nil {
			return nil, nil, err
		}
		s, err := sqldataset.Open(ctx, adapter, features)
		if err != nil {
			adapter.Close()
			return nil, nil, err
		}
		return s, func() { adapter.Close() }, nil
	case isMongoDBURL(dic.Input):
		dic.Logf("Opening MongoDB dataset at %s...", dic.Input)
		session, err := mgo.Dial(dic.Input)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to MongoDB: %v", err)
		}
		s, err := mongodataset.Open(ctx, session, features)
		if err != nil {
			session.Close()
			return nil, nil, err
		}
		return s, session.Close, nil
	case strings.HasSuffix(dic.Input, ".db"):
		dic.Logf("Opening SQLite3 dataset at %s...", dic.Input)
		adapter, err := sqlite3adapter.New(dic.Input)
		if err != nil {
			return nil, nil, err
		}
		s, err := sqldataset.Open(ctx, adapter, features)
		if err != nil {
			adapter.Close()
			return nil, nil, err
		}
		return s, func() { adapter.Close() }, nil
	}
	if dic.Input == "" {
		dic.Logf("Reading dataset from STDIN...")
	} else {
		dic.Logf("Reading dataset from %s...", dic.Input)
	}
	s, err := csv.ReadDatasetFromFilePath(dic.Input, features, dic.generator())
	if err != nil {
		return nil, nil, err
	}
	return s, func() {}, nil
}

/*
memoryDataset reads the whole input into memory and returns a function
that builds a new, independent dataset over those samples on every call.
*/
func (dic *dataInputConfig) memoryDataset(ctx context.Context, features []feature.Feature) (func() dataset.Dataset, error) {
	s, release, err := dic.dataset(ctx, features)
	if err != nil {
		return nil, err
	}
	defer release()
	samples, err := s.Samples(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading samples: %v", err)
	}
	dg := dic.generator()
	return func() dataset.Dataset { return dg(samples) }, nil
}

func isPostgreSQLURL(s string) bool {
	return strings.HasPrefix(s, "postgresql://") || strings.HasPrefix(s, "postgres://")
}

func isMongoDBURL(s string) bool {
	return strings.HasPrefix(s, "mongodb://")
}
