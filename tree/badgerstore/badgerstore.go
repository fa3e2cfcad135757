/*
Package badgerstore provides a tree.Store backed by an embedded Badger
key-value database.
*/
package badgerstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/pbanos/sapling/tree"
	treejson "github.com/pbanos/sapling/tree/json"
)

const keyPrefix = "tree:"

type badgerStore struct {
	db      *badger.DB
	tencdec treejson.TreeEncodeDecoder
}

type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// Open opens the Badger database in the given directory, creating it if
// needed. An empty path opens an in-memory database. Badger's own logs
// go to the given logger, or are discarded if it is nil.
func Open(path string, logger *slog.Logger) (*badger.DB, error) {
	var opts badger.Options
	if path == "" {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(path, 0750); err != nil {
			return nil, fmt.Errorf("create database directory %s: %w", path, err)
		}
		opts = badger.DefaultOptions(path)
	}
	if logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: logger})
	} else {
		opts = opts.WithLogger(nil)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}
	return db, nil
}

// New builds a tree.Store on the given Badger database that keeps each
// tree encoded with the given TreeEncodeDecoder. Closing the store
// closes the database.
func New(db *badger.DB, tencdec treejson.TreeEncodeDecoder) tree.Store {
	return &badgerStore{db, tencdec}
}

func (bs *badgerStore) Put(ctx context.Context, t *tree.Tree) (string, error) {
	data, err := bs.tencdec.Encode(t)
	if err != nil {
		return "", fmt.Errorf("creating tree: encoding tree: %w", err)
	}
	var id string
	err = bs.db.Update(func(txn *badger.Txn) error {
		for {
			if err := ctx.Err(); err != nil {
				return err
			}
			id = tree.NewID()
			_, err := txn.Get(keyFor(id))
			if errors.Is(err, badger.ErrKeyNotFound) {
				break
			}
			if err != nil {
				return err
			}
		}
		return txn.Set(keyFor(id), data)
	})
	if err != nil {
		return "", fmt.Errorf("creating tree in badger: %w", err)
	}
	return id, nil
}

func (bs *badgerStore) Get(ctx context.Context, id string) (*tree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var data []byte
	err := bs.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyFor(id))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, tree.ErrTreeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: %w", id, err)
	}
	t, err := bs.tencdec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: decoding: %w", id, err)
	}
	return t, nil
}

func (bs *badgerStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := bs.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(keyFor(id))
	})
	if err != nil {
		return fmt.Errorf("deleting tree %q from badger: %w", id, err)
	}
	return nil
}

func (bs *badgerStore) Close(ctx context.Context) error {
	return bs.db.Close()
}

func keyFor(id string) []byte {
	return []byte(keyPrefix + id)
}
