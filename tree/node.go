package tree

import "fmt"

/*
Node is a node of a decision tree. It is either a *Leaf or an *Internal
node, and no other implementations exist: a type switch on those two
types covers every node.
*/
type Node interface {
	node()
}

/*
Leaf is a terminal node of the tree.
*/
type Leaf struct {
	// The label value predicted for samples reaching the leaf
	Label string
	// The number of training samples that reached the leaf
	Weight int
}

/*
Internal is a node of the tree that splits samples on the values of
a feature.
*/
type Internal struct {
	// The name of the feature the node splits on
	Feature string
	// The branches of the node, ordered by ascending value. There is one
	// branch per value of the feature observed on the samples that reached
	// the node.
	Branches []Branch
}

/*
Branch connects an Internal node with the subtree for the samples that
take a value for the node's feature.
*/
type Branch struct {
	Value string
	Node  Node
}

/*
Step is an element of the path from the root of a tree to a node: the
feature of an Internal node and the value of the branch taken.
*/
type Step struct {
	Feature string
	Value   string
}

func (*Leaf) node()     {}
func (*Internal) node() {}

// Child returns the subtree for the given value or nil if the node has
// no branch for it.
func (in *Internal) Child(value string) Node {
	for _, b := range in.Branches {
		if b.Value == value {
			return b.Node
		}
	}
	return nil
}

func (l *Leaf) String() string {
	return fmt.Sprintf("%s (%d)", l.Label, l.Weight)
}

func (in *Internal) String() string {
	return in.Feature
}

func (s Step) String() string {
	return fmt.Sprintf("%s is %s", s.Feature, s.Value)
}
