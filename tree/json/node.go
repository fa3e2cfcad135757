package json

import (
	"encoding/json"
	"fmt"

	"github.com/pbanos/sapling/tree"
)

/*
NodeEncodeDecoder is an interface for objects
that allow encoding nodes into slices of
bytes and decoding them back to nodes.
*/
type NodeEncodeDecoder interface {

	//Encode receives a tree.Node
	// and returns a slice of bytes with the subtree
	//encoded or an error if the encoding could not
	//be performed for some reason.
	Encode(tree.Node) ([]byte, error)

	//Decode receives a slice of bytes
	//and returns a tree.Node decoded from the
	//slice of bytes or an error if the decoding
	//could not be performed for some reason.
	Decode([]byte) (tree.Node, error)
}

type nodeEncodeDecoder struct{}

type node struct {
	Leaf     *string  `json:"leaf,omitempty"`
	Weight   int      `json:"w,omitempty"`
	Feature  string   `json:"feature,omitempty"`
	Branches []branch `json:"branches,omitempty"`
}

type branch struct {
	Value string `json:"value"`
	Node  *node  `json:"node"`
}

/*
NewNodeEncodeDecoder returns a NodeEncodeDecoder that
encodes subtrees as nested JSON objects. A leaf is
encoded as {"leaf":LABEL,"w":WEIGHT} and an internal node
as {"feature":NAME,"branches":[{"value":VALUE,"node":NODE},...]}.
*/
func NewNodeEncodeDecoder() NodeEncodeDecoder {
	return nodeEncodeDecoder{}
}

func (ned nodeEncodeDecoder) Encode(n tree.Node) ([]byte, error) {
	jn, err := toJSONNode(n)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jn)
}

func (ned nodeEncodeDecoder) Decode(data []byte) (tree.Node, error) {
	jn := &node{}
	err := json.Unmarshal(data, jn)
	if err != nil {
		return nil, err
	}
	return fromJSONNode(jn)
}

func toJSONNode(n tree.Node) (*node, error) {
	switch n := n.(type) {
	case *tree.Leaf:
		label := n.Label
		return &node{Leaf: &label, Weight: n.Weight}, nil
	case *tree.Internal:
		jn := &node{Feature: n.Feature, Branches: make([]branch, 0, len(n.Branches))}
		for _, b := range n.Branches {
			sn, err := toJSONNode(b.Node)
			if err != nil {
				return nil, err
			}
			jn.Branches = append(jn.Branches, branch{b.Value, sn})
		}
		return jn, nil
	}
	return nil, fmt.Errorf("encoding node: unknown node type %T", n)
}

func fromJSONNode(jn *node) (tree.Node, error) {
	if jn == nil {
		return nil, fmt.Errorf("decoding node: missing node")
	}
	if jn.Leaf != nil {
		if jn.Feature != "" || len(jn.Branches) > 0 {
			return nil, fmt.Errorf("decoding node: leaf %q cannot have a feature or branches", *jn.Leaf)
		}
		return &tree.Leaf{Label: *jn.Leaf, Weight: jn.Weight}, nil
	}
	if jn.Feature == "" {
		return nil, fmt.Errorf("decoding node: node is neither a leaf nor splits on a feature")
	}
	if len(jn.Branches) == 0 {
		return nil, fmt.Errorf("decoding node: node on feature %s has no branches", jn.Feature)
	}
	in := &tree.Internal{Feature: jn.Feature, Branches: make([]tree.Branch, 0, len(jn.Branches))}
	for i, b := range jn.Branches {
		if i > 0 && b.Value <= jn.Branches[i-1].Value {
			return nil, fmt.Errorf("decoding node: branches of node on feature %s are not in strictly ascending value order", jn.Feature)
		}
		sn, err := fromJSONNode(b.Node)
		if err != nil {
			return nil, err
		}
		in.Branches = append(in.Branches, tree.Branch{Value: b.Value, Node: sn})
	}
	return in, nil
}
