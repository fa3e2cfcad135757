package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pbanos/sapling"
	"github.com/pbanos/sapling/tree"
	"github.com/pbanos/sapling/tree/printer"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type compareCmdConfig struct {
	dataInputConfig
}

func compareCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &compareCmdConfig{dataInputConfig{rootCmdConfig: rootConfig}}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Grow a tree with every criterion and print them",
		Long:  `Grow a tree from the same set of data with ID3, C4.5 and CART and print them one after the other.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			trees, err := config.growAll(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(3)
			}
			err = printTrees(cmd.OutOrStdout(), trees)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
		},
	}
	config.addFlags(cmd)
	return cmd
}

// Validate returns an error if the flags given to the compare command
// are not valid.
func (ccc *compareCmdConfig) Validate() error {
	if err := validate.Struct(ccc); err != nil {
		return fmt.Errorf("invalid flags: %v", err)
	}
	return nil
}

/*
growAll reads the input once and grows a tree for each criterion
concurrently, each on its own dataset over the same samples. Trees are
returned in the order of the criteria.
*/
func (ccc *compareCmdConfig) growAll(ctx context.Context) ([]*tree.Tree, error) {
	features, label, all, err := ccc.features()
	if err != nil {
		return nil, err
	}
	newDataset, err := ccc.memoryDataset(ctx, all)
	if err != nil {
		return nil, err
	}
	criteria := []sapling.Criterion{sapling.ID3(), sapling.C45(), sapling.CART()}
	trees := make([]*tree.Tree, len(criteria))
	logger := ccc.Logger()
	g, ctx := errgroup.WithContext(ctx)
	for i, criterion := range criteria {
		g.Go(func() error {
			t, err := sapling.New(features, label, criterion, sapling.WithLogger(logger)).Grow(ctx, newDataset())
			if err != nil {
				return fmt.Errorf("growing %s tree: %v", criterion.Name(), err)
			}
			trees[i] = t
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return trees, nil
}

func printTrees(w io.Writer, trees []*tree.Tree) error {
	for i, t := range trees {
		if i > 0 {
			fmt.Fprintln(w)
		}
		err := printer.Fprint(w, t)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "depth %d, %d leaves\n", tree.Depth(t.Root), len(tree.Leaves(t.Root)))
	}
	return nil
}
