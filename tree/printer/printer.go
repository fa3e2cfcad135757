/*
Package printer renders decision trees as text drawings for terminals.
*/
package printer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/ddddddO/gtree"
	"github.com/pbanos/sapling/tree"
)

// Fprint writes a drawing of the tree on w: a header line with the label
// and criterion, followed by the nodes of the tree with one line per
// branch taken.
func Fprint(w io.Writer, t *tree.Tree) error {
	if t == nil || t.Root == nil {
		return fmt.Errorf("cannot print an empty tree")
	}
	_, err := fmt.Fprintf(w, "%s (%s)\n", t.Label, t.Criterion)
	if err != nil {
		return err
	}
	root := gtree.NewRoot(nodeText(t.Root))
	addBranches(root, t.Root)
	return gtree.OutputFromRoot(w, root)
}

// Sprint returns the drawing Fprint writes.
func Sprint(t *tree.Tree) (string, error) {
	var buf bytes.Buffer
	err := Fprint(&buf, t)
	return buf.String(), err
}

func addBranches(parent *gtree.Node, n tree.Node) {
	in, ok := n.(*tree.Internal)
	if !ok {
		return
	}
	for _, b := range in.Branches {
		child := parent.Add(fmt.Sprintf("%s: %s", b.Value, nodeText(b.Node)))
		addBranches(child, b.Node)
	}
}

func nodeText(n tree.Node) string {
	switch n := n.(type) {
	case *tree.Leaf:
		return fmt.Sprintf("=> %s (%d)", n.Label, n.Weight)
	case *tree.Internal:
		return fmt.Sprintf("%s?", n.Feature)
	}
	return fmt.Sprintf("%v", n)
}
