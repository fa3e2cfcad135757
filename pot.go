/*
Package sapling grows decision trees that classify samples with
categorical features.

Trees are grown recursively from a labeled dataset.Dataset: a node whose
samples all share a label becomes a leaf, as does a node with no features
left to split on (with the majority label). Otherwise the node splits on
the feature selected by a Criterion (ID3, C4.5 or CART) into a branch for
each value of the feature observed on its samples, and the feature is not
considered again below.
*/
package sapling

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/pbanos/sapling"

/*
Pot represents the context in which a tree is grown: the features that
can be split on in the order used to break ties, the label feature to
predict and the criterion used to select splits.

A Pot holds no state between calls to Grow and can be used to grow
several trees, even concurrently.
*/
type Pot struct {
	features  []feature.Feature
	label     feature.Feature
	criterion Criterion
	logger    *slog.Logger
	tracer    trace.Tracer
}

// Option configures a Pot
type Option func(*Pot)

// WithLogger makes the Pot log its split decisions on the given logger
// at debug level. A nil logger discards them.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pot) {
		if logger != nil {
			p.logger = logger
		}
	}
}

/*
New takes a slice of features, a label feature, a criterion and options
and returns a Pot that uses those to grow trees.
*/
func New(features []feature.Feature, label feature.Feature, criterion Criterion, opts ...Option) *Pot {
	p := &Pot{
		features:  features,
		label:     label,
		criterion: criterion,
		logger:    slog.New(slog.DiscardHandler),
		tracer:    otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

/*
Grow takes a context.Context, a label feature, a slice of features, a
criterion and a dataset and returns the tree grown from the dataset. See
Pot.Grow.
*/
func Grow(ctx context.Context, s dataset.Dataset, label feature.Feature, features []feature.Feature, criterion Criterion) (*tree.Tree, error) {
	return New(features, label, criterion).Grow(ctx, s)
}

/*
Grow takes a context.Context and a dataset and returns a tree grown from
the dataset or an error.

Before growing, the features, the label and every sample are checked: an
empty dataset results in ErrEmptyDataset, a missing label or repeated
features in ErrInvalidFeatures and samples without a valid categorical
value for the label or any feature in ErrInvalidSample. No tree is
returned in those cases, nor if the context is done before the tree is
complete.
*/
func (p *Pot) Grow(ctx context.Context, s dataset.Dataset) (t *tree.Tree, err error) {
	ctx, span := p.tracer.Start(ctx, "sapling.Grow")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()
	if p.criterion == nil {
		return nil, fmt.Errorf("%w: no criterion given", ErrUnknownCriterion)
	}
	span.SetAttributes(
		attribute.String("sapling.criterion", p.criterion.Name()),
		attribute.Int("sapling.features", len(p.features)),
	)
	count, err := p.check(ctx, s)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("sapling.samples", count))
	p.logger.Debug("growing tree",
		"label", p.label.Name(),
		"criterion", p.criterion.Name(),
		"samples", count,
		"features", feature.Names(p.features))
	root, err := p.develop(ctx, s, p.features, nil)
	if err != nil {
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("sapling.depth", tree.Depth(root)),
		attribute.Int("sapling.leaves", len(tree.Leaves(root))),
	)
	return tree.New(root, p.label.Name(), p.criterion.Name()), nil
}

func (p *Pot) develop(ctx context.Context, s dataset.Dataset, features []feature.Feature, path []tree.Step) (tree.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	labelCounts, err := s.CountFeatureValues(ctx, p.label)
	if err != nil {
		return nil, err
	}
	majority, _ := dataset.Majority(labelCounts)
	weight := 0
	for _, c := range labelCounts {
		weight += c
	}
	if len(labelCounts) == 1 {
		p.logger.Debug("pure node", "path", path, "label", majority, "weight", weight)
		return &tree.Leaf{Label: majority, Weight: weight}, nil
	}
	if len(features) == 0 {
		p.logger.Debug("no features left", "path", path, "label", majority, "weight", weight)
		return &tree.Leaf{Label: majority, Weight: weight}, nil
	}
	selected := -1
	var best float64
	for i, f := range features {
		score, ok, err := p.criterion.Score(ctx, s, f, p.label)
		if err != nil {
			return nil, fmt.Errorf("scoring feature %s: %w", f.Name(), err)
		}
		p.logger.Debug("scored feature", "path", path, "feature", f.Name(), "score", score, "candidate", ok)
		if ok && (selected < 0 || p.criterion.Better(score, best)) {
			selected = i
			best = score
		}
	}
	if selected < 0 {
		p.logger.Debug("no candidate features", "path", path, "label", majority, "weight", weight)
		return &tree.Leaf{Label: majority, Weight: weight}, nil
	}
	f := features[selected]
	p.logger.Debug("splitting", "path", path, "feature", f.Name(), "score", best)
	part, err := NewPartition(ctx, s, f)
	if err != nil {
		return nil, err
	}
	remaining := make([]feature.Feature, 0, len(features)-1)
	remaining = append(remaining, features[:selected]...)
	remaining = append(remaining, features[selected+1:]...)
	node := &tree.Internal{Feature: f.Name(), Branches: make([]tree.Branch, 0, len(part.Values))}
	for i, v := range part.Values {
		subpath := append(path[:len(path):len(path)], tree.Step{Feature: f.Name(), Value: v})
		child, err := p.develop(ctx, part.Subsets[i], remaining, subpath)
		if err != nil {
			return nil, err
		}
		node.Branches = append(node.Branches, tree.Branch{Value: v, Node: child})
	}
	return node, nil
}

// check validates the label, features and samples and returns the number
// of samples in the dataset.
func (p *Pot) check(ctx context.Context, s dataset.Dataset) (int, error) {
	if p.label == nil {
		return 0, fmt.Errorf("%w: no label feature given", ErrInvalidFeatures)
	}
	names := map[string]bool{p.label.Name(): true}
	for _, f := range p.features {
		if f == nil {
			return 0, fmt.Errorf("%w: nil feature", ErrInvalidFeatures)
		}
		if f.Name() == p.label.Name() {
			return 0, fmt.Errorf("%w: label %s cannot be used to split", ErrInvalidFeatures, f.Name())
		}
		if names[f.Name()] {
			return 0, fmt.Errorf("%w: repeated feature %s", ErrInvalidFeatures, f.Name())
		}
		names[f.Name()] = true
	}
	if s == nil {
		return 0, ErrEmptyDataset
	}
	count, err := s.Count(ctx)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrEmptyDataset
	}
	samples, err := s.Samples(ctx)
	if err != nil {
		return 0, err
	}
	checked := append([]feature.Feature{p.label}, p.features...)
	for i, sample := range samples {
		for _, f := range checked {
			v, err := sample.ValueFor(ctx, f)
			if err != nil {
				return 0, err
			}
			if _, ok := v.(string); !ok {
				return 0, fmt.Errorf("%w %d: feature %s has %T value %v instead of a categorical one", ErrInvalidSample, i+1, f.Name(), v, v)
			}
			if ok, err := f.Valid(v); !ok {
				return 0, fmt.Errorf("%w %d: %v", ErrInvalidSample, i+1, err)
			}
		}
	}
	return count, nil
}
