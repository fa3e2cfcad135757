package tree

import (
	"context"

	"github.com/google/uuid"
)

/*
Store is an interface to manage a store where trees can be saved,
retrieved and deleted.

All it methods take a context that may allow cancelling the
operation (thus forcing the return of an error) if the
implementation allows it.
*/
type Store interface {
	// Put takes a tree and saves it in the store, generating
	// an ID for it that is returned. It returns an error if
	// the tree cannot be stored.
	Put(ctx context.Context, t *Tree) (string, error)
	// Get takes an id and returns the tree in the store with
	// that id, ErrTreeNotFound if it is not there or another
	// error if the store cannot be queried.
	Get(ctx context.Context, id string) (*Tree, error)
	// Delete takes an id and deletes the tree with that id
	// from the store. Deleting a missing tree is not an error.
	Delete(ctx context.Context, id string) error
	// Close closes the store, implementations should
	// free any resources in use as well as ensure
	// any pending changes are applied before returning
	// (unless the context expires). It returns an error
	// if the Close cannot be completed (because of the
	// context or another error)
	Close(ctx context.Context) error
}

// StoreError represents an error related with tree stores
type StoreError string

// ErrTreeNotFound is returned by stores when asked for a tree they do not hold
const ErrTreeNotFound = StoreError("tree not found")

func (se StoreError) Error() string {
	return string(se)
}

// NewID returns a new random ID for a tree
func NewID() string {
	return uuid.NewString()
}
