package json

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pbanos/sapling/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallTree() *tree.Tree {
	return tree.New(&tree.Internal{
		Feature: "Outlook",
		Branches: []tree.Branch{
			{Value: "Overcast", Node: &tree.Leaf{Label: "Yes", Weight: 4}},
			{Value: "Sunny", Node: &tree.Internal{Feature: "Humidity", Branches: []tree.Branch{
				{Value: "High", Node: &tree.Leaf{Label: "No", Weight: 3}},
				{Value: "Normal", Node: &tree.Leaf{Label: "Yes", Weight: 2}},
			}}},
		},
	}, "Play", "id3")
}

// TestWriteJSONTreeFormat verifies the nested document layout.
func TestWriteJSONTreeFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSONTree(context.Background(), smallTree(), &buf))
	expected := `{"label":"Play","criterion":"id3","root":{"feature":"Outlook","branches":[` +
		`{"value":"Overcast","node":{"leaf":"Yes","w":4}},` +
		`{"value":"Sunny","node":{"feature":"Humidity","branches":[` +
		`{"value":"High","node":{"leaf":"No","w":3}},{"value":"Normal","node":{"leaf":"Yes","w":2}}]}}]}}`
	assert.JSONEq(t, expected, buf.String())
}

// TestRoundTrip verifies a written tree reads back equal.
func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	require.NoError(t, WriteJSONTree(ctx, smallTree(), &buf))

	got, err := ReadJSONTree(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, "Play", got.Label)
	assert.Equal(t, "id3", got.Criterion)
	assert.True(t, tree.Equal(smallTree().Root, got.Root))
}

// TestReadJSONTreeRejectsInvalidDocuments covers malformed trees.
func TestReadJSONTreeRejectsInvalidDocuments(t *testing.T) {
	cases := map[string]string{
		"not json":        `{`,
		"no label":        `{"root":{"leaf":"Yes"}}`,
		"no root":         `{"label":"Play"}`,
		"empty node":      `{"label":"Play","root":{}}`,
		"leaf with split": `{"label":"Play","root":{"leaf":"Yes","feature":"Outlook"}}`,
		"no branches":     `{"label":"Play","root":{"feature":"Outlook"}}`,
		"missing child":   `{"label":"Play","root":{"feature":"Outlook","branches":[{"value":"Sunny"}]}}`,
		"unordered": `{"label":"Play","root":{"feature":"Outlook","branches":[` +
			`{"value":"Sunny","node":{"leaf":"No"}},{"value":"Rain","node":{"leaf":"Yes"}}]}}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ReadJSONTree(context.Background(), strings.NewReader(doc))
			assert.Error(t, err)
		})
	}
}

// TestEmptyLeafLabel verifies an empty label is still a leaf.
func TestEmptyLeafLabel(t *testing.T) {
	ned := NewNodeEncodeDecoder()
	data, err := ned.Encode(&tree.Leaf{Label: "", Weight: 1})
	require.NoError(t, err)
	n, err := ned.Decode(data)
	require.NoError(t, err)
	assert.Equal(t, &tree.Leaf{Label: "", Weight: 1}, n)
}
