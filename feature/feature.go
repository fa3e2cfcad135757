package feature

import "fmt"

/*
Feature represents a property that can be observed
*/
type Feature interface {
	Name() string
	Valid(interface{}) (bool, error)
}

/*
DiscreteFeature represents a categorical property that can be observed and
that can only take a string value among a finite set.

A DiscreteFeature may be declared without available values, in which case
any string value is accepted and the set of values is whatever is observed
on the data.
*/
type DiscreteFeature struct {
	name            string
	availableValues []string
}

/*
NewDiscreteFeature takes a name string and a slice of available value strings
and returns a discrete feature with the given names and available values.
*/
func NewDiscreteFeature(name string, availableValues []string) *DiscreteFeature {
	return &DiscreteFeature{name, availableValues}
}

/*
Name returns a string with the name of the feature
*/
func (df *DiscreteFeature) Name() string {
	return df.name
}

/*
Valid receives an interface value and returns a boolean and an error. When the
value parameter is a string included in the available values of the feature
(or any string if the feature declares none), the method returns true and nil.
Otherwise it returns false and an error describing the reason. Undefined (nil)
values are not valid.
*/
func (df *DiscreteFeature) Valid(value interface{}) (bool, error) {
	if value == nil {
		return false, fmt.Errorf("discrete feature %s has no value", df.Name())
	}
	vs, ok := value.(string)
	if !ok {
		return false, fmt.Errorf("discrete feature %s expects string value, got %T value", df.Name(), value)
	}
	if len(df.availableValues) == 0 {
		return true, nil
	}
	for _, av := range df.availableValues {
		if av == vs {
			return true, nil
		}
	}
	return false, fmt.Errorf("discrete feature %s got unknown value %s", df.Name(), vs)
}

func (df *DiscreteFeature) String() string {
	return df.name
}

// Names returns the names of the given features in the same order
func Names(features []Feature) []string {
	names := make([]string, 0, len(features))
	for _, f := range features {
		names = append(names, f.Name())
	}
	return names
}

// Find returns the feature with the given name from the slice or nil
func Find(features []Feature, name string) Feature {
	for _, f := range features {
		if f.Name() == name {
			return f
		}
	}
	return nil
}
