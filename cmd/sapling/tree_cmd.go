package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pbanos/sapling/tree"
	treejson "github.com/pbanos/sapling/tree/json"
	"github.com/pbanos/sapling/tree/printer"
	"github.com/spf13/cobra"
)

type treeCmdConfig struct {
	*rootCmdConfig `validate:"-"`
	TreeInput      string `validate:"required_without=Store,excluded_with=Store"`
	Store          string `validate:"required_without=TreeInput,omitempty,uri"`
	ID             string `validate:"required_with=Store"`
	JSON           bool
	Delete         bool `validate:"excluded_without=Store"`
}

func treeCmd(rootConfig *rootCmdConfig) *cobra.Command {
	config := &treeCmdConfig{rootCmdConfig: rootConfig}
	cmd := &cobra.Command{
		Use:   "tree",
		Short: "Show a grown tree",
		Long:  `Show a tree read from a JSON file or from a tree store, or delete it from the store`,
		Run: func(cmd *cobra.Command, args []string) {
			err := config.Validate()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			if config.Delete {
				err = config.deleteTree(ctx)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					os.Exit(3)
				}
				return
			}
			t, err := config.loadTree(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(4)
			}
			err = config.show(ctx, t, cmd.OutOrStdout())
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(5)
			}
		},
	}
	cmd.Flags().StringVarP(&(config.TreeInput), "tree", "t", "", "path to a file from which the tree to show will be read and parsed as JSON")
	cmd.Flags().StringVar(&(config.Store), "store", "", "URL of the tree store (redis://, rediss:// or badger://) to read the tree from")
	cmd.Flags().StringVar(&(config.ID), "id", "", "ID of the tree on the store")
	cmd.Flags().BoolVar(&(config.JSON), "json", false, "print the tree in JSON instead of drawing it")
	cmd.Flags().BoolVar(&(config.Delete), "delete", false, "delete the tree from the store instead of showing it")
	return cmd
}

// Validate returns an error unless the flags identify exactly one tree.
func (tcc *treeCmdConfig) Validate() error {
	if err := validate.Struct(tcc); err != nil {
		return fmt.Errorf("invalid flags: %v", err)
	}
	if tcc.Store != "" && !isStoreURL(tcc.Store) {
		return fmt.Errorf("invalid flags: unsupported store URL %s", tcc.Store)
	}
	return nil
}

func (tcc *treeCmdConfig) loadTree(ctx context.Context) (*tree.Tree, error) {
	if tcc.Store != "" {
		store, err := tcc.openStore(tcc.Store)
		if err != nil {
			return nil, err
		}
		defer store.Close(ctx)
		tcc.Logf("Retrieving tree %s...", tcc.ID)
		return store.Get(ctx, tcc.ID)
	}
	return loadTree(ctx, tcc.TreeInput)
}

func (tcc *treeCmdConfig) deleteTree(ctx context.Context) error {
	store, err := tcc.openStore(tcc.Store)
	if err != nil {
		return err
	}
	defer store.Close(ctx)
	tcc.Logf("Deleting tree %s...", tcc.ID)
	return store.Delete(ctx, tcc.ID)
}

func (tcc *treeCmdConfig) show(ctx context.Context, t *tree.Tree, w io.Writer) error {
	if tcc.JSON {
		return treejson.WriteJSONTree(ctx, t, w)
	}
	return printer.Fprint(w, t)
}

func loadTree(ctx context.Context, filepath string) (*tree.Tree, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("reading tree in JSON from %s: %v", filepath, err)
	}
	defer f.Close()
	t, err := treejson.ReadJSONTree(ctx, f)
	if err != nil {
		err = fmt.Errorf("parsing tree in JSON from %s: %v", filepath, err)
	}
	return t, err
}
