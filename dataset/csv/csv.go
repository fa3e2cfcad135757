/*
Package csv reads datasets from and writes them to CSV streams.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

// Undefined is the cell content that marks a sample without a value
// for a feature. Such samples fail validation when read.
const Undefined = "?"

var stdin io.Reader = os.Stdin

/*
Writer is an interface for a dataset to which samples
can be written to.
*/
type Writer interface {
	// Write will attempt to write the given number
	// of samples and will return the actually written
	// number of samples and an error (if not all samples
	// could be written)
	Write(context.Context, []dataset.Sample) (int, error)
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

/*
DatasetGenerator is a function that takes a slice of samples
and generates a dataset with them.
*/
type DatasetGenerator func([]dataset.Sample) dataset.Dataset

type csvWriter struct {
	count    int
	features []feature.Feature
	w        *csv.Writer
}

type column struct {
	index   int
	feature feature.Feature
}

/*
ReadDataset takes an io.Reader for a CSV stream, a slice of features and a
DatasetGenerator and returns a dataset.Dataset built with the generator and
the samples parsed from the reader or an error.

The header or first row of the CSV content is expected to name every feature
in the given slice. Columns for other names are ignored. The rest of the rows
should consist of valid values for all features.
*/
func ReadDataset(reader io.Reader, features []feature.Feature, dg DatasetGenerator) (dataset.Dataset, error) {
	samples := []dataset.Sample{}
	err := ReadDatasetBySample(reader, features, func(_ int, s dataset.Sample) (bool, error) {
		samples = append(samples, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return dg(samples), nil
}

/*
ReadDatasetBySample takes an io.Reader for a CSV stream, a slice of features and a
lambda function on an integer and a dataset.Sample that returns a boolean value.
It parses the samples from the reader and for each it calls the lambda function
with the sample and its index as parameters. If the lambda function returns true,
it will continue processing the next sample, otherwise it will stop. An error is
returned if something goes wrong when reading the file or parsing a sample.
*/
func ReadDatasetBySample(reader io.Reader, features []feature.Feature, lambda func(int, dataset.Sample) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	columns, err := parseColumnsFromCSVHeader(header, features)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		sample, err := parseSampleFromCSVRow(row, columns)
		if err != nil {
			return fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadDatasetFromFilePath takes a filepath string, a slice of features and a
DatasetGenerator, opens the file to which the filepath points to and uses
ReadDataset to return a dataset.Dataset or an error read from it. If the
filepath is "" os.Stdin is used instead. It will return an error if the given
filepath cannot be opened for reading.
*/
func ReadDatasetFromFilePath(filepath string, features []feature.Feature, dg DatasetGenerator) (dataset.Dataset, error) {
	if filepath == "" {
		ds, err := ReadDataset(stdin, features, dg)
		if err != nil {
			err = fmt.Errorf("parsing CSV from STDIN: %v", err)
		}
		return ds, err
	}
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading training set: %v", err)
	}
	defer f.Close()
	ds, err := ReadDataset(f, features, dg)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return ds, err
}

/*
NewWriter takes an io.Writer and a slice of feature.Features and
returns a Writer that will write any samples on the io.Writer.
*/
func NewWriter(writer io.Writer, features []feature.Feature) (Writer, error) {
	w := csv.NewWriter(writer)
	record := make([]string, len(features))
	for i, f := range features {
		record[i] = f.Name()
	}
	err := w.Write(record)
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{features: features, w: w}, nil
}

func parseColumnsFromCSVHeader(header []string, features []feature.Feature) ([]column, error) {
	positions := make(map[string]int)
	for i, name := range header {
		positions[name] = i
	}
	columns := make([]column, 0, len(features))
	for _, f := range features {
		i, ok := positions[f.Name()]
		if !ok {
			return nil, fmt.Errorf("parsing header: missing column for feature %s", f.Name())
		}
		columns = append(columns, column{i, f})
	}
	return columns, nil
}

func parseSampleFromCSVRow(row []string, columns []column) (dataset.Sample, error) {
	featureValues := make(map[string]interface{})
	for _, c := range columns {
		var value interface{}
		if c.index < len(row) && row[c.index] != Undefined {
			value = row[c.index]
		}
		if ok, err := c.feature.Valid(value); !ok {
			return nil, fmt.Errorf("invalid value %v for feature %s: %v", value, c.feature.Name(), err)
		}
		featureValues[c.feature.Name()] = value
	}
	return dataset.NewSample(featureValues), nil
}

func (cw *csvWriter) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	for n, sample := range samples {
		err := cw.writeSample(ctx, sample)
		if err != nil {
			return n, err
		}
	}
	return len(samples), nil
}

func (cw *csvWriter) writeSample(ctx context.Context, sample dataset.Sample) error {
	record := make([]string, len(cw.features))
	for j, f := range cw.features {
		v, err := sample.ValueFor(ctx, f)
		if err != nil {
			return err
		}
		if v == nil {
			record[j] = Undefined
		} else {
			record[j] = fmt.Sprintf("%v", v)
		}
	}
	err := cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for sample %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
