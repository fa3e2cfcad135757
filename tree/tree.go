package tree

import (
	"context"
	"fmt"
	"strings"
)

// Tree represents a decision tree for classification. It is
// composed of its root node, the name of the label feature it
// classifies samples on and the name of the criterion used
// to grow it.
type Tree struct {
	Label     string
	Criterion string
	Root      Node
}

// New takes a root node, the name of a label feature and the name
// of a criterion and returns a tree with them.
func New(root Node, label, criterion string) *Tree {
	return &Tree{Label: label, Criterion: criterion, Root: root}
}

// Traverse takes a context, a root node, a bottomup boolean and an
// error-returning function that takes a context, the path to a node
// and the node as parameters, and goes through the tree running the
// function with the context and every traversed node.
// Traverse will call the function with a parent node before
// calling it for its children if bottomup is false, and
// call it after its children if bottomup is true. Children are
// visited in branch order.
// If the given context times out or is cancelled, the context
// error is returned. If the call to the function returns an error,
// the traversing is aborted and the error is returned. Otherwise,
// when the traversing is over, nil is returned.
func Traverse(ctx context.Context, root Node, bottomup bool, f func(context.Context, []Step, Node) error) error {
	return traverse(ctx, nil, root, bottomup, f)
}

func traverse(ctx context.Context, path []Step, n Node, bottomup bool, f func(context.Context, []Step, Node) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	if !bottomup {
		err = f(ctx, path, n)
		if err != nil {
			return err
		}
	}
	if in, ok := n.(*Internal); ok {
		for _, b := range in.Branches {
			subpath := append(path[:len(path):len(path)], Step{in.Feature, b.Value})
			err = traverse(ctx, subpath, b.Node, bottomup, f)
			if err != nil {
				return err
			}
		}
	}
	if bottomup {
		return f(ctx, path, n)
	}
	return nil
}

// Traverse goes through the nodes of the tree. See the Traverse function.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, []Step, Node) error) error {
	return Traverse(ctx, t.Root, bottomup, f)
}

// Equal returns whether two subtrees have the same structure: the same
// leaves with the same labels and weights, and the same internal nodes
// with the same features and branches in the same order.
func Equal(a, b Node) bool {
	switch a := a.(type) {
	case *Leaf:
		b, ok := b.(*Leaf)
		return ok && a != nil && b != nil && *a == *b
	case *Internal:
		b, ok := b.(*Internal)
		if !ok || a == nil || b == nil || a.Feature != b.Feature || len(a.Branches) != len(b.Branches) {
			return false
		}
		for i := range a.Branches {
			if a.Branches[i].Value != b.Branches[i].Value || !Equal(a.Branches[i].Node, b.Branches[i].Node) {
				return false
			}
		}
		return true
	}
	return false
}

// Depth returns the number of internal nodes on the longest path from
// the given node to a leaf.
func Depth(n Node) int {
	in, ok := n.(*Internal)
	if !ok {
		return 0
	}
	var max int
	for _, b := range in.Branches {
		if d := Depth(b.Node); d > max {
			max = d
		}
	}
	return max + 1
}

// Leaves returns the leaves under the given node in branch order.
func Leaves(n Node) []*Leaf {
	var leaves []*Leaf
	Traverse(context.Background(), n, false, func(_ context.Context, _ []Step, n Node) error {
		if l, ok := n.(*Leaf); ok {
			leaves = append(leaves, l)
		}
		return nil
	})
	return leaves
}

func (t *Tree) String() string {
	return fmt.Sprintf("%s (%s)\n%s", t.Label, t.Criterion, subtreeString(t.Root))
}

func subtreeString(n Node) string {
	switch n := n.(type) {
	case *Leaf:
		return fmt.Sprintf("%v\n", n)
	case *Internal:
		result := fmt.Sprintf("%v\n", n)
		for i, b := range n.Branches {
			for j, line := range strings.Split(subtreeString(b.Node), "\n") {
				if len(line) == 0 {
					continue
				}
				if j == 0 {
					result = fmt.Sprintf("%s|__%s: %s\n", result, b.Value, line)
				} else if i == len(n.Branches)-1 {
					result = fmt.Sprintf("%s   %s\n", result, line)
				} else {
					result = fmt.Sprintf("%s|  %s\n", result, line)
				}
			}
		}
		return result
	}
	return fmt.Sprintf("ERROR: unknown node %T\n", n)
}
