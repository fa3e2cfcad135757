package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pbanos/sapling"
	"github.com/pbanos/sapling/tree"
	treejson "github.com/pbanos/sapling/tree/json"
	"github.com/spf13/cobra"
)

type growCmdConfig struct {
	dataInputConfig
	Criterion string `validate:"required,oneof=id3 ID3 c45 C45 c4.5 C4.5 cart CART"`
	Output    string
	Store     string `validate:"omitempty,uri"`
}

func growCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &growCmdConfig{dataInputConfig: dataInputConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "grow",
		Short: "Grow a tree from a set of data",
		Long:  `Grow a tree from a set of data to predict a certain feature.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			t, err := config.grow(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			err = config.outputTree(ctx, t, cmd.OutOrStdout())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
		},
	}
	config.addFlags(cmd)
	cmd.Flags().StringVarP(&(config.Criterion), "criterion", "c", "id3", "criterion used to choose the feature to split on: id3, c45 or cart")
	cmd.Flags().StringVarP(&(config.Output), "output", "o", "", "path to a file to which the grown tree will be written in JSON (defaults to STDOUT)")
	cmd.Flags().StringVar(&(config.Store), "store", "", "URL of a tree store (redis://, rediss:// or badger://) to save the grown tree on; its ID is printed")
	return cmd
}

// Validate returns an error if the flags given to the grow command are
// not valid.
func (gcc *growCmdConfig) Validate() error {
	if err := validate.Struct(gcc); err != nil {
		return fmt.Errorf("invalid flags: %v", err)
	}
	if gcc.Store != "" && !isStoreURL(gcc.Store) {
		return fmt.Errorf("invalid flags: unsupported store URL %s", gcc.Store)
	}
	return nil
}

func (gcc *growCmdConfig) grow(ctx context.Context) (*tree.Tree, error) {
	criterion, err := sapling.CriterionNamed(gcc.Criterion)
	if err != nil {
		return nil, err
	}
	features, label, all, err := gcc.features()
	if err != nil {
		return nil, err
	}
	s, release, err := gcc.dataset(ctx, all)
	if err != nil {
		return nil, err
	}
	defer release()
	gcc.Logf("Growing %s tree to predict %s...", criterion.Name(), label.Name())
	t, err := sapling.New(features, label, criterion, sapling.WithLogger(gcc.Logger())).Grow(ctx, s)
	if err != nil {
		return nil, fmt.Errorf("growing tree: %v", err)
	}
	gcc.Logf("Grew tree with %d leaves and depth %d", len(tree.Leaves(t.Root)), tree.Depth(t.Root))
	return t, nil
}

/*
outputTree writes the tree in JSON to the output file, or to stdout if
none was given. If a store was given the tree is saved on it instead and
its ID is written to stdout, unless an output file was also given.
*/
func (gcc *growCmdConfig) outputTree(ctx context.Context, t *tree.Tree, stdout io.Writer) error {
	if gcc.Store != "" {
		store, err := gcc.openStore(gcc.Store)
		if err != nil {
			return err
		}
		defer store.Close(ctx)
		id, err := store.Put(ctx, t)
		if err != nil {
			return fmt.Errorf("storing tree: %v", err)
		}
		gcc.Logf("Stored tree with ID %s", id)
		fmt.Fprintln(stdout, id)
		if gcc.Output == "" {
			return nil
		}
	}
	w, closeOutput, err := outputWriter(gcc.Output, stdout)
	if err != nil {
		return err
	}
	err = treejson.WriteJSONTree(ctx, t, w)
	if err != nil {
		closeOutput()
		return fmt.Errorf("writing tree: %v", err)
	}
	return closeOutput()
}
