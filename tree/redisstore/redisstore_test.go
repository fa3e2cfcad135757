package redisstore

import (
	"context"
	"os"
	"testing"

	"github.com/pbanos/sapling/tree"
	treejson "github.com/pbanos/sapling/tree/json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, url string) tree.Store {
	t.Helper()
	rc, err := Dial(url)
	require.NoError(t, err)
	return New(rc, "sapling-test", treejson.NewTreeEncodeDecoder(treejson.NewNodeEncodeDecoder()))
}

// TestKeyFor verifies trees are kept under the configured prefix.
func TestKeyFor(t *testing.T) {
	rs := &redisStore{prefix: "trees"}
	assert.Equal(t, "trees:abc", rs.keyFor("abc"))
}

// TestDialRejectsInvalidURL verifies URL parsing errors are reported.
func TestDialRejectsInvalidURL(t *testing.T) {
	_, err := Dial("http://localhost:6379")
	assert.Error(t, err)
}

// TestCancelledContext verifies no command is sent on a done context.
func TestCancelledContext(t *testing.T) {
	s := newStore(t, "redis://localhost:1/0")
	defer s.Close(context.Background())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.Put(ctx, tree.New(&tree.Leaf{Label: "Yes", Weight: 1}, "Play", "id3"))
	assert.ErrorIs(t, err, context.Canceled)
	_, err = s.Get(ctx, "x")
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, s.Delete(ctx, "x"), context.Canceled)
}

// TestRoundTrip runs against the server in SAPLING_TEST_REDIS_URL.
func TestRoundTrip(t *testing.T) {
	url := os.Getenv("SAPLING_TEST_REDIS_URL")
	if url == "" {
		t.Skip("SAPLING_TEST_REDIS_URL not set")
	}
	ctx := context.Background()
	s := newStore(t, url)
	defer s.Close(ctx)

	tr := tree.New(&tree.Internal{Feature: "Wind", Branches: []tree.Branch{
		{Value: "Strong", Node: &tree.Leaf{Label: "No", Weight: 2}},
		{Value: "Weak", Node: &tree.Leaf{Label: "Yes", Weight: 3}},
	}}, "Play", "c45")
	id, err := s.Put(ctx, tr)
	require.NoError(t, err)

	got, err := s.Get(ctx, id)
	require.NoError(t, err)
	assert.True(t, tree.Equal(tr.Root, got.Root))
	assert.Equal(t, "c45", got.Criterion)

	require.NoError(t, s.Delete(ctx, id))
	_, err = s.Get(ctx, id)
	assert.ErrorIs(t, err, tree.ErrTreeNotFound)
}
