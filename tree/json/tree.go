/*
Package json serializes decision trees as JSON documents.
*/
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pbanos/sapling/tree"
)

/*
TreeEncodeDecoder is an interface for objects
that allow encoding trees into slices of bytes
and decoding them back to trees. Tree stores
use it to serialize the trees they hold.
*/
type TreeEncodeDecoder interface {
	Encode(*tree.Tree) ([]byte, error)
	Decode([]byte) (*tree.Tree, error)
}

type treeEncodeDecoder struct {
	ned NodeEncodeDecoder
}

type jsonTree struct {
	Label     string          `json:"label"`
	Criterion string          `json:"criterion,omitempty"`
	Root      json.RawMessage `json:"root"`
}

/*
NewTreeEncodeDecoder returns a TreeEncodeDecoder that
serializes trees as JSON objects with the following fields:
* "label": a string with the name of the feature the tree predicts
* "criterion": the name of the criterion the tree was grown with
* "root": the root node of the tree serialized by the given
  NodeEncodeDecoder.
*/
func NewTreeEncodeDecoder(ned NodeEncodeDecoder) TreeEncodeDecoder {
	return &treeEncodeDecoder{ned}
}

func (ted *treeEncodeDecoder) Encode(t *tree.Tree) ([]byte, error) {
	if t == nil {
		return nil, fmt.Errorf("cannot encode nil tree")
	}
	root, err := ted.ned.Encode(t.Root)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&jsonTree{t.Label, t.Criterion, root})
}

func (ted *treeEncodeDecoder) Decode(data []byte) (*tree.Tree, error) {
	jt := &jsonTree{}
	err := json.Unmarshal(data, jt)
	if err != nil {
		return nil, err
	}
	if jt.Label == "" {
		return nil, fmt.Errorf("no label feature defined")
	}
	if len(jt.Root) == 0 {
		return nil, fmt.Errorf("no root node available")
	}
	root, err := ted.ned.Decode(jt.Root)
	if err != nil {
		return nil, err
	}
	return tree.New(root, jt.Label, jt.Criterion), nil
}

/*
WriteJSONTree takes a context.Context, a pointer to a tree.Tree
and an io.Writer and serializes the given tree as JSON onto the
io.Writer. See NewTreeEncodeDecoder for the format.
An error is returned if the tree cannot be serialized or written
onto the io.Writer.
*/
func WriteJSONTree(ctx context.Context, t *tree.Tree, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := NewTreeEncodeDecoder(NewNodeEncodeDecoder()).Encode(t)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

/*
ReadJSONTree takes a context.Context and an io.Reader and
returns the tree unmarshalled from the contents of the io.Reader.
An error is returned if the JSON cannot be read from the io.Reader or
does not describe a valid tree.
*/
func ReadJSONTree(ctx context.Context, r io.Reader) (*tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewTreeEncodeDecoder(NewNodeEncodeDecoder()).Decode(data)
}
