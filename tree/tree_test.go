package tree

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func weatherTree() *Tree {
	return New(&Internal{
		Feature: "Outlook",
		Branches: []Branch{
			{"Overcast", &Leaf{"Yes", 4}},
			{"Rain", &Internal{Feature: "Wind", Branches: []Branch{
				{"Strong", &Leaf{"No", 2}},
				{"Weak", &Leaf{"Yes", 3}},
			}}},
			{"Sunny", &Internal{Feature: "Humidity", Branches: []Branch{
				{"High", &Leaf{"No", 3}},
				{"Normal", &Leaf{"Yes", 2}},
			}}},
		},
	}, "Play", "id3")
}

// TestTraverseOrder verifies top-down and bottom-up visiting orders and paths.
func TestTraverseOrder(t *testing.T) {
	ctx := context.Background()
	tr := weatherTree()

	var topdown []string
	err := tr.Traverse(ctx, false, func(_ context.Context, path []Step, n Node) error {
		if l, ok := n.(*Leaf); ok {
			topdown = append(topdown, l.Label)
		} else {
			topdown = append(topdown, n.(*Internal).Feature)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Outlook", "Yes", "Wind", "No", "Yes", "Humidity", "No", "Yes"}, topdown)

	var bottomup []string
	var paths [][]Step
	err = tr.Traverse(ctx, true, func(_ context.Context, path []Step, n Node) error {
		if in, ok := n.(*Internal); ok {
			bottomup = append(bottomup, in.Feature)
		}
		if _, ok := n.(*Leaf); ok {
			paths = append(paths, path)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Wind", "Humidity", "Outlook"}, bottomup)
	require.Len(t, paths, 5)
	assert.Equal(t, []Step{{"Outlook", "Rain"}, {"Wind", "Strong"}}, paths[1])
	assert.Equal(t, []Step{{"Outlook", "Rain"}, {"Wind", "Weak"}}, paths[2])
}

// TestTraverseStops verifies errors and cancellation abort the traversal.
func TestTraverseStops(t *testing.T) {
	stop := errors.New("stop")
	var visited int
	err := Traverse(context.Background(), weatherTree().Root, false, func(context.Context, []Step, Node) error {
		visited++
		if visited == 2 {
			return stop
		}
		return nil
	})
	assert.Equal(t, stop, err)
	assert.Equal(t, 2, visited)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = Traverse(ctx, weatherTree().Root, false, func(context.Context, []Step, Node) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

// TestEqual verifies structural comparison.
func TestEqual(t *testing.T) {
	assert.True(t, Equal(weatherTree().Root, weatherTree().Root))

	other := weatherTree()
	other.Root.(*Internal).Branches[0].Node = &Leaf{"Yes", 3}
	assert.False(t, Equal(weatherTree().Root, other.Root))

	assert.False(t, Equal(&Leaf{"Yes", 1}, &Internal{Feature: "Yes"}))
	assert.False(t, Equal(nil, nil))
}

// TestHelpers covers Child, Depth and Leaves.
func TestHelpers(t *testing.T) {
	root := weatherTree().Root.(*Internal)
	assert.Equal(t, &Leaf{"Yes", 4}, root.Child("Overcast"))
	assert.Nil(t, root.Child("Snow"))
	assert.Equal(t, 2, Depth(root))
	assert.Equal(t, 0, Depth(&Leaf{"Yes", 1}))

	var weight int
	for _, l := range Leaves(root) {
		weight += l.Weight
	}
	assert.Equal(t, 14, weight)
}

// TestString verifies the text rendering of a tree.
func TestString(t *testing.T) {
	expected := `Play (id3)
Outlook
|__Overcast: Yes (4)
|__Rain: Wind
|  |__Strong: No (2)
|  |__Weak: Yes (3)
|__Sunny: Humidity
   |__High: No (3)
   |__Normal: Yes (2)
`
	assert.Equal(t, expected, weatherTree().String())
}
