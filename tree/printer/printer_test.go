package printer

import (
	"strings"
	"testing"

	"github.com/pbanos/sapling/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSprint verifies every node appears once with its branch value.
func TestSprint(t *testing.T) {
	tr := tree.New(&tree.Internal{Feature: "Outlook", Branches: []tree.Branch{
		{Value: "Overcast", Node: &tree.Leaf{Label: "Yes", Weight: 4}},
		{Value: "Rain", Node: &tree.Internal{Feature: "Wind", Branches: []tree.Branch{
			{Value: "Strong", Node: &tree.Leaf{Label: "No", Weight: 2}},
			{Value: "Weak", Node: &tree.Leaf{Label: "Yes", Weight: 3}},
		}}},
	}}, "Play", "id3")

	out, err := Sprint(tr)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Play (id3)", lines[0])
	assert.Equal(t, "Outlook?", lines[1])
	assert.Contains(t, lines[2], "Overcast: => Yes (4)")
	assert.Contains(t, lines[3], "Rain: Wind?")
	assert.Contains(t, lines[4], "Strong: => No (2)")
	assert.Contains(t, lines[5], "Weak: => Yes (3)")
}

// TestSprintLeafOnlyTree verifies a single leaf tree is printed.
func TestSprintLeafOnlyTree(t *testing.T) {
	out, err := Sprint(tree.New(&tree.Leaf{Label: "Yes", Weight: 9}, "Play", "cart"))
	require.NoError(t, err)
	assert.Equal(t, "Play (cart)\n=> Yes (9)\n", out)
}

// TestSprintEmptyTree verifies nil trees are rejected.
func TestSprintEmptyTree(t *testing.T) {
	_, err := Sprint(nil)
	assert.Error(t, err)
	_, err = Sprint(&tree.Tree{Label: "Play"})
	assert.Error(t, err)
}
