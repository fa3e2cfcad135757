package sapling

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

/*
Criterion is the rule used to select the feature to split a dataset on.

Its Name method returns the name of the criterion.

Its Score method returns the score of a feature on a dataset for a label,
and a boolean that is false when the feature cannot be a candidate for the
split.

Its Better method returns whether a candidate score beats the best one so
far. Ties are never better, so the first feature reaching the optimum wins.
*/
type Criterion interface {
	Name() string
	Score(ctx context.Context, s dataset.Dataset, f, label feature.Feature) (float64, bool, error)
	Better(candidate, best float64) bool
}

type id3 struct{}
type c45 struct{}
type cart struct{}

// ID3 returns the criterion that maximizes information gain
func ID3() Criterion { return id3{} }

// C45 returns the criterion that maximizes gain ratio
func C45() Criterion { return c45{} }

// CART returns the criterion that minimizes the Gini split score.
// Features with less than two distinct values are not candidates.
func CART() Criterion { return cart{} }

/*
CriterionNamed returns the criterion for the given name, one of
id3, c45 (or c4.5) and cart regardless of case. For any other name
an error wrapping ErrUnknownCriterion is returned.
*/
func CriterionNamed(name string) (Criterion, error) {
	switch strings.ToLower(name) {
	case "id3":
		return ID3(), nil
	case "c45", "c4.5":
		return C45(), nil
	case "cart":
		return CART(), nil
	}
	return nil, fmt.Errorf("%w %q: expected id3, c45 or cart", ErrUnknownCriterion, name)
}

func (id3) Name() string { return "id3" }

func (id3) Score(ctx context.Context, s dataset.Dataset, f, label feature.Feature) (float64, bool, error) {
	ig, err := InformationGain(ctx, s, f, label)
	return ig, err == nil, err
}

func (id3) Better(candidate, best float64) bool { return candidate > best }

func (c45) Name() string { return "c45" }

func (c45) Score(ctx context.Context, s dataset.Dataset, f, label feature.Feature) (float64, bool, error) {
	gr, err := GainRatio(ctx, s, f, label)
	return gr, err == nil, err
}

func (c45) Better(candidate, best float64) bool { return candidate > best }

func (cart) Name() string { return "cart" }

func (cart) Score(ctx context.Context, s dataset.Dataset, f, label feature.Feature) (float64, bool, error) {
	g, err := GiniSplitScore(ctx, s, f, label)
	if errors.Is(err, ErrDegenerateFeature) {
		return 0.0, false, nil
	}
	return g, err == nil, err
}

func (cart) Better(candidate, best float64) bool { return candidate < best }
