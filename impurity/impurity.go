/*
Package impurity provides measures of how mixed the classes of a
collection of labels are: entropy (in bits) and the Gini index.

Both measures are 0 for a collection where every label is the same
and grow as the labels become more evenly distributed among classes.
They are undefined for an empty collection, for which ErrNoLabels is
returned.
*/
package impurity

import (
	"math"
	"sort"
)

// Error represents an error computing an impurity measure
type Error string

// ErrNoLabels is returned when the impurity of an empty collection
// of labels is requested.
const ErrNoLabels = Error("cannot compute impurity of an empty collection of labels")

func (e Error) Error() string {
	return string(e)
}

/*
Entropy takes a slice of labels and returns the entropy of their
distribution in bits, that is -Σ p·log2(p) over the proportion p of
each distinct label, or ErrNoLabels if the slice is empty.
*/
func Entropy(labels []string) (float64, error) {
	return EntropyOf(Count(labels))
}

/*
Gini takes a slice of labels and returns the Gini index of their
distribution, 1 - Σ p² over the proportion p of each distinct label,
or ErrNoLabels if the slice is empty.
*/
func Gini(labels []string) (float64, error) {
	return GiniOf(Count(labels))
}

/*
EntropyOf takes a label distribution as a map of labels to the number
of times they occur and returns its entropy in bits. Labels with
non-positive counts are ignored. ErrNoLabels is returned if the
distribution has no occurrences at all.
*/
func EntropyOf(counts map[string]int) (float64, error) {
	occurrences, total, err := occurrencesOf(counts)
	if err != nil {
		return 0.0, err
	}
	var result float64
	for _, c := range occurrences {
		p := float64(c) / total
		result -= p * math.Log2(p)
	}
	if result < 0 {
		return 0.0, nil
	}
	return result, nil
}

/*
GiniOf takes a label distribution as a map of labels to the number of
times they occur and returns its Gini index. Labels with non-positive
counts are ignored. ErrNoLabels is returned if the distribution has no
occurrences at all.
*/
func GiniOf(counts map[string]int) (float64, error) {
	occurrences, total, err := occurrencesOf(counts)
	if err != nil {
		return 0.0, err
	}
	result := 1.0
	for _, c := range occurrences {
		p := float64(c) / total
		result -= p * p
	}
	if result < 0 {
		return 0.0, nil
	}
	return result, nil
}

// Count returns the distribution of the given labels
func Count(labels []string) map[string]int {
	counts := make(map[string]int)
	for _, l := range labels {
		counts[l]++
	}
	return counts
}

// occurrencesOf returns the positive counts in ascending order so that
// equal distributions always add up to the same float64.
func occurrencesOf(counts map[string]int) ([]int, float64, error) {
	occurrences := make([]int, 0, len(counts))
	var total int
	for _, c := range counts {
		if c > 0 {
			occurrences = append(occurrences, c)
			total += c
		}
	}
	if total == 0 {
		return nil, 0.0, ErrNoLabels
	}
	sort.Ints(occurrences)
	return occurrences, float64(total), nil
}
