package sapling

import (
	"context"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

/*
Partition represents a partition of a dataset according to a feature
into a subset for each of its values observed on the dataset.
Values are sorted in ascending order and Subsets[i] holds the samples
whose value for the feature is Values[i], so no subset is ever empty.
*/
type Partition struct {
	Values  []string
	Subsets []dataset.Dataset
}

/*
NewPartition takes a context.Context, a dataset and a feature and returns
the partition of the dataset for the feature or an error.
*/
func NewPartition(ctx context.Context, s dataset.Dataset, f feature.Feature) (*Partition, error) {
	values, err := s.FeatureValues(ctx, f)
	if err != nil {
		return nil, err
	}
	subsets := make([]dataset.Dataset, 0, len(values))
	for _, v := range values {
		ss, err := s.SubsetWith(ctx, feature.NewCriterion(f, v))
		if err != nil {
			return nil, err
		}
		subsets = append(subsets, ss)
	}
	return &Partition{values, subsets}, nil
}
