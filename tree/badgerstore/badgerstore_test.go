package badgerstore

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/pbanos/sapling/tree"
	treejson "github.com/pbanos/sapling/tree/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codec() treejson.TreeEncodeDecoder {
	return treejson.NewTreeEncodeDecoder(treejson.NewNodeEncodeDecoder())
}

func windTree() *tree.Tree {
	return tree.New(&tree.Internal{Feature: "Wind", Branches: []tree.Branch{
		{Value: "Strong", Node: &tree.Leaf{Label: "No", Weight: 2}},
		{Value: "Weak", Node: &tree.Leaf{Label: "Yes", Weight: 3}},
	}}, "Play", "cart")
}

// TestInMemoryRoundTrip verifies put, get and delete on an in-memory database.
func TestInMemoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	db, err := Open("", nil)
	require.NoError(t, err)
	s := New(db, codec())
	defer s.Close(ctx)

	id, err := s.Put(ctx, windTree())
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, tree.Equal(windTree().Root, got.Root))
	assert.Equal(t, "Play", got.Label)
	assert.Equal(t, "cart", got.Criterion)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, tree.ErrTreeNotFound)
}

// TestPersistsAcrossReopen verifies trees survive closing the database.
func TestPersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "trees")

	db, err := Open(path, nil)
	require.NoError(t, err)
	s := New(db, codec())
	id, err := s.Put(ctx, windTree())
	require.NoError(t, err)
	require.NoError(t, s.Close(ctx))

	db, err = Open(path, nil)
	require.NoError(t, err)
	s = New(db, codec())
	defer s.Close(ctx)
	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, tree.Equal(windTree().Root, got.Root))
}

// TestCancelledContext verifies operations honour the context.
func TestCancelledContext(t *testing.T) {
	db, err := Open("", nil)
	require.NoError(t, err)
	s := New(db, codec())
	defer s.Close(context.Background())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Put(ctx, windTree())
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.Get(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
}
