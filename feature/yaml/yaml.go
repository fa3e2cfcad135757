/*
Package yaml provides methods to parse feature.Feature specifications
also known as metadata, from YAML documents.
*/
package yaml

import (
	"fmt"
	"io/ioutil"

	"github.com/pbanos/sapling/feature"
	yaml "gopkg.in/yaml.v2"
)

// AnyValue is the declaration that makes a feature accept
// any categorical value instead of a list of them.
const AnyValue = "categorical"

/*
Metadata holds the features declared on a metadata document in
declaration order, and the name of the label feature if the document
declares one.
*/
type Metadata struct {
	Label    string
	Features []feature.Feature
}

type valueList []string

// UnmarshalYAML reads either a list of values or the AnyValue string.
// Scalars are kept as written so that YAML 1.1 booleans like Yes or No
// remain categorical values.
func (vl *valueList) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var values []string
	err := unmarshal(&values)
	if err == nil {
		*vl = values
		return nil
	}
	var s string
	if serr := unmarshal(&s); serr != nil {
		return err
	}
	if s != AnyValue {
		return fmt.Errorf("invalid feature declaration %q: expected a list of values or %q", s, AnyValue)
	}
	*vl = nil
	return nil
}

/*
ReadMetadata takes a slice of bytes with a feature specification in YML and
returns the Metadata parsed from it or an error.
The YML is expected to be an object containing a features property and
optionally a label property. The value for features should be an object
with a property for each feature with its name and either a list of valid
values or the string 'categorical' to accept any value. Features are
returned in the order they are declared.
*/
func ReadMetadata(md []byte) (*Metadata, error) {
	ordered := struct {
		Label    string
		Features yaml.MapSlice
	}{}
	err := yaml.Unmarshal(md, &ordered)
	if err != nil {
		return nil, fmt.Errorf("parsing yml features: %v", err)
	}
	if len(ordered.Features) == 0 {
		return nil, fmt.Errorf("metadata file has no feature information")
	}
	declared := struct {
		Features map[string]valueList
	}{}
	err = yaml.Unmarshal(md, &declared)
	if err != nil {
		return nil, fmt.Errorf("parsing yml features: %v", err)
	}
	result := &Metadata{Label: ordered.Label}
	for _, item := range ordered.Features {
		fn := fmt.Sprintf("%v", item.Key)
		vs, ok := declared.Features[fn]
		if !ok {
			return nil, fmt.Errorf("invalid feature name %v of type %T", item.Key, item.Key)
		}
		result.Features = append(result.Features, feature.NewDiscreteFeature(fn, vs))
	}
	if result.Label != "" && feature.Find(result.Features, result.Label) == nil {
		return nil, fmt.Errorf("label %q is not a declared feature", result.Label)
	}
	return result, nil
}

/*
ReadFeatures takes a slice of bytes with a feature specification in YML and
returns a slice of features parsed from it or an error. See ReadMetadata for
the expected format.
*/
func ReadFeatures(md []byte) ([]feature.Feature, error) {
	m, err := ReadMetadata(md)
	if err != nil {
		return nil, err
	}
	return m.Features, nil
}

/*
ReadMetadataFromFile takes a filepath string, reads its contents and uses
ReadMetadata to parse it and return the parsed metadata or an error.
If the file indicated by the filepath cannot be opened for reading an error
will be returned.
*/
func ReadMetadataFromFile(filepath string) (*Metadata, error) {
	md, err := ioutil.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading features yml file %s: %v", filepath, err)
	}
	m, err := ReadMetadata(md)
	if err != nil {
		err = fmt.Errorf("parsing features yml file %s: %v", filepath, err)
	}
	return m, err
}
