package sapling

import (
	"context"
	"fmt"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

/*
InformationGain takes a context.Context, a dataset, a feature and a label
feature and returns the reduction of the entropy of the label obtained by
partitioning the dataset on the values of the feature:

	H(label) - Σ |S_v|/|S| · H(label | S_v)

for every value v of the feature observed on the dataset. The result is
never negative.
*/
func InformationGain(ctx context.Context, s dataset.Dataset, f, label feature.Feature) (float64, error) {
	result, err := dataset.Entropy(ctx, s, label)
	if err != nil {
		return 0.0, err
	}
	count, err := s.Count(ctx)
	if err != nil {
		return 0.0, err
	}
	p, err := NewPartition(ctx, s, f)
	if err != nil {
		return 0.0, err
	}
	for _, ss := range p.Subsets {
		ssEntropy, err := dataset.Entropy(ctx, ss, label)
		if err != nil {
			return 0.0, err
		}
		ssCount, err := ss.Count(ctx)
		if err != nil {
			return 0.0, err
		}
		result -= ssEntropy * float64(ssCount) / float64(count)
	}
	if result < 0 {
		return 0.0, nil
	}
	return result, nil
}

/*
GainRatio takes a context.Context, a dataset, a feature and a label feature
and returns the information gain of the feature normalized by its split
information, the entropy of the distribution of the feature's own values.
Features with a single value on the dataset have no split information and
get a gain ratio of 0.
*/
func GainRatio(ctx context.Context, s dataset.Dataset, f, label feature.Feature) (float64, error) {
	splitInfo, err := dataset.Entropy(ctx, s, f)
	if err != nil {
		return 0.0, err
	}
	if splitInfo == 0 {
		return 0.0, nil
	}
	ig, err := InformationGain(ctx, s, f, label)
	if err != nil {
		return 0.0, err
	}
	return ig / splitInfo, nil
}

/*
GiniSplitScore takes a context.Context, a dataset, a feature and a label
feature and returns the sum of the Gini indexes of the label on the
subsets for the first two values of the feature in ascending order:

	Gini(label | f = v0) + Gini(label | f = v1)

Samples with any other value of the feature are not considered, nor are
the subsets weighted by their size. Lower is better. If the feature takes
less than two distinct values on the dataset ErrDegenerateFeature is
returned.
*/
func GiniSplitScore(ctx context.Context, s dataset.Dataset, f, label feature.Feature) (float64, error) {
	values, err := s.FeatureValues(ctx, f)
	if err != nil {
		return 0.0, err
	}
	if len(values) < 2 {
		return 0.0, fmt.Errorf("%w: %s takes %d value(s)", ErrDegenerateFeature, f.Name(), len(values))
	}
	var result float64
	for _, v := range values[:2] {
		ss, err := s.SubsetWith(ctx, feature.NewCriterion(f, v))
		if err != nil {
			return 0.0, err
		}
		g, err := dataset.Gini(ctx, ss, label)
		if err != nil {
			return 0.0, err
		}
		result += g
	}
	return result, nil
}
