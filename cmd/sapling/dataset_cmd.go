package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/dataset/csv"
	"github.com/pbanos/sapling/dataset/mongodataset"
	"github.com/pbanos/sapling/dataset/sqldataset"
	"github.com/pbanos/sapling/dataset/sqldataset/pgadapter"
	"github.com/pbanos/sapling/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/feature/yaml"
	"github.com/spf13/cobra"
	mgo "gopkg.in/mgo.v2"
)

const writeBatchSize = 500

type datasetCmdConfig struct {
	dataInputConfig
	Output string
}

type sampleWriter interface {
	Write(context.Context, []dataset.Sample) (int, error)
}

type writableDataset interface {
	sampleWriter
	Flush() error
}

type sampleReader interface {
	Read(context.Context) (<-chan dataset.Sample, <-chan error)
}

type flushableSampleWriter struct {
	sampleWriter
	closeFunc func() error
}

func datasetCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &datasetCmdConfig{dataInputConfig: dataInputConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "dataset",
		Short: "Copy a set of data between formats",
		Long:  `Copy a set of data between CSV files, SQLite3 files, PostgreSQL and MongoDB databases`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			config.Logf("Reading features from metadata at %s...", config.Metadata)
			md, err := yaml.ReadMetadataFromFile(config.Metadata)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			output, err := config.outputDataset(ctx, md.Features, cmd.OutOrStdout())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			n, err := config.copySamples(ctx, md.Features, output)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
			config.Logf("Flushing output dataset...")
			err = output.Flush()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(6)
			}
			config.Logf("Copied %d samples", n)
		},
	}
	cmd.Flags().StringVarP(&(config.Input), "input", "i", "", "path to an input CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL (postgresql://) or MongoDB (mongodb://) connection URL with the samples (defaults to STDIN, interpreted as CSV)")
	cmd.Flags().StringVarP(&(config.Metadata), "metadata", "m", "", "path to a YML file with metadata describing the features available on the input (required)")
	cmd.Flags().StringVarP(&(config.Output), "output", "o", "", "path to a CSV (.csv) or SQLite3 (.db) file, or a PostgreSQL or MongoDB connection URL to copy the samples to (defaults to STDOUT in CSV)")
	return cmd
}

// Validate returns an error if the flags given to the dataset command
// are not valid.
func (dcc *datasetCmdConfig) Validate() error {
	if err := validate.Struct(dcc); err != nil {
		return fmt.Errorf("invalid flags: %v", err)
	}
	if dcc.Input != "" && dcc.Input == dcc.Output {
		return fmt.Errorf("invalid flags: input and output are the same")
	}
	return nil
}

/*
copySamples writes every sample on the input to the output in batches
and returns the number of samples written. Inputs that can be read
sequentially are streamed instead of loaded at once.
*/
func (dcc *datasetCmdConfig) copySamples(ctx context.Context, features []feature.Feature, output sampleWriter) (int, error) {
	input, release, err := dcc.dataset(ctx, features)
	if err != nil {
		return 0, err
	}
	defer release()
	if sr, ok := input.(sampleReader); ok {
		return copyStream(ctx, sr, output)
	}
	samples, err := input.Samples(ctx)
	if err != nil {
		return 0, fmt.Errorf("reading samples: %v", err)
	}
	var written int
	for i := 0; i < len(samples); i += writeBatchSize {
		end := i + writeBatchSize
		if end > len(samples) {
			end = len(samples)
		}
		n, err := output.Write(ctx, samples[i:end])
		written += n
		if err != nil {
			return written, fmt.Errorf("writing samples: %v", err)
		}
	}
	return written, nil
}

func copyStream(ctx context.Context, sr sampleReader, output sampleWriter) (int, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	samples, errs := sr.Read(ctx)
	var written int
	batch := make([]dataset.Sample, 0, writeBatchSize)
	flush := func() error {
		n, err := output.Write(ctx, batch)
		written += n
		batch = batch[:0]
		return err
	}
	for s := range samples {
		batch = append(batch, s)
		if len(batch) < writeBatchSize {
			continue
		}
		if err := flush(); err != nil {
			cancel()
			for range samples {
			}
			return written, fmt.Errorf("writing samples: %v", err)
		}
	}
	if err := <-errs; err != nil {
		return written, fmt.Errorf("reading samples: %v", err)
	}
	if len(batch) > 0 {
		if err := flush(); err != nil {
			return written, fmt.Errorf("writing samples: %v", err)
		}
	}
	return written, nil
}

func (dcc *datasetCmdConfig) outputDataset(ctx context.Context, features []feature.Feature, stdout io.Writer) (writableDataset, error) {
	switch {
	case isPostgreSQLURL(dcc.Output):
		dcc.Logf("Creating PostgreSQL dataset at %s...", dcc.Output)
		adapter, err := pgadapter.New(dcc.Output)
		if err != nil {
			return nil, err
		}
		return createSQLDataset(ctx, adapter, features)
	case isMongoDBURL(dcc.Output):
		dcc.Logf("Opening MongoDB dataset at %s...", dcc.Output)
		session, err := mgo.Dial(dcc.Output)
		if err != nil {
			return nil, fmt.Errorf("connecting to MongoDB: %v", err)
		}
		s, err := mongodataset.Open(ctx, session, features)
		if err != nil {
			session.Close()
			return nil, err
		}
		return &flushableSampleWriter{s, func() error { session.Close(); return nil }}, nil
	case strings.HasSuffix(dcc.Output, ".db"):
		dcc.Logf("Creating SQLite3 dataset at %s...", dcc.Output)
		adapter, err := sqlite3adapter.New(dcc.Output)
		if err != nil {
			return nil, err
		}
		return createSQLDataset(ctx, adapter, features)
	}
	w, closeOutput, err := outputWriter(dcc.Output, stdout)
	if err != nil {
		return nil, err
	}
	cw, err := csv.NewWriter(w, features)
	if err != nil {
		closeOutput()
		return nil, err
	}
	return &flushableSampleWriter{cw, func() error {
		if err := cw.Flush(); err != nil {
			closeOutput()
			return err
		}
		return closeOutput()
	}}, nil
}

func createSQLDataset(ctx context.Context, adapter sqldataset.Adapter, features []feature.Feature) (writableDataset, error) {
	s, err := sqldataset.Create(ctx, adapter, features)
	if err != nil {
		adapter.Close()
		return nil, err
	}
	return &flushableSampleWriter{s, adapter.Close}, nil
}

func (fsw *flushableSampleWriter) Flush() error {
	return fsw.closeFunc()
}
