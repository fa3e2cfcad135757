package dataset

import (
	"context"

	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/impurity"
)

/*
Entropy returns the entropy in bits of the distribution of values of the given
feature over the samples of the dataset. Used with the label feature it
measures the disinformation we have on the classes of the samples.
*/
func Entropy(ctx context.Context, s Dataset, f feature.Feature) (float64, error) {
	counts, err := s.CountFeatureValues(ctx, f)
	if err != nil {
		return 0, err
	}
	return impurity.EntropyOf(counts)
}

/*
Gini returns the Gini index of the distribution of values of the given feature
over the samples of the dataset.
*/
func Gini(ctx context.Context, s Dataset, f feature.Feature) (float64, error) {
	counts, err := s.CountFeatureValues(ctx, f)
	if err != nil {
		return 0, err
	}
	return impurity.GiniOf(counts)
}

/*
Majority returns the most frequent value on a value count and how many times
it appears. Ties are resolved in favour of the value that sorts first. An empty
count returns an empty string and 0.
*/
func Majority(counts map[string]int) (string, int) {
	var value string
	var count int
	for _, v := range SortedValues(counts) {
		if counts[v] > count {
			value, count = v, counts[v]
		}
	}
	return value, count
}
