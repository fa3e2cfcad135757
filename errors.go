package sapling

// Error represents an error growing a tree
type Error string

const (
	// ErrEmptyDataset is returned when asked to grow a tree from a dataset
	// without samples.
	ErrEmptyDataset = Error("cannot grow a tree from an empty dataset")
	// ErrInvalidSample is returned when a sample lacks a categorical value
	// for the label or one of the features, or its value is not valid.
	ErrInvalidSample = Error("invalid sample")
	// ErrInvalidFeatures is returned when the label or the features to
	// split on are missing, repeated or overlap.
	ErrInvalidFeatures = Error("invalid features")
	// ErrDegenerateFeature is returned by GiniSplitScore for features with
	// less than two distinct values on the dataset.
	ErrDegenerateFeature = Error("feature has less than two distinct values")
	// ErrUnknownCriterion is returned when a criterion cannot be found by
	// its name.
	ErrUnknownCriterion = Error("unknown criterion")
)

func (e Error) Error() string {
	return string(e)
}
