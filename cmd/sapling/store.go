package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/pbanos/sapling/tree"
	"github.com/pbanos/sapling/tree/badgerstore"
	treejson "github.com/pbanos/sapling/tree/json"
	"github.com/pbanos/sapling/tree/redisstore"
)

const redisKeyPrefix = "sapling:tree"

/*
openStore takes a store URL and returns the tree.Store it points to:
redis:// and rediss:// URLs point to a Redis server, and badger:// URLs
point to a Badger database directory, like badger:///var/lib/sapling.
*/
func (rcc *rootCmdConfig) openStore(storeURL string) (tree.Store, error) {
	u, err := url.Parse(storeURL)
	if err != nil {
		return nil, fmt.Errorf("parsing store URL: %v", err)
	}
	tencdec := treejson.NewTreeEncodeDecoder(treejson.NewNodeEncodeDecoder())
	switch u.Scheme {
	case "redis", "rediss":
		rcc.Logf("Connecting to Redis tree store at %s...", u.Host)
		rc, err := redisstore.Dial(storeURL)
		if err != nil {
			return nil, err
		}
		return redisstore.New(rc, redisKeyPrefix, tencdec), nil
	case "badger":
		path := u.Host + u.Path
		if path == "" {
			return nil, fmt.Errorf("badger store URL %s has no path", storeURL)
		}
		rcc.Logf("Opening Badger tree store at %s...", path)
		db, err := badgerstore.Open(path, rcc.Logger())
		if err != nil {
			return nil, err
		}
		return badgerstore.New(db, tencdec), nil
	}
	return nil, fmt.Errorf("unsupported store URL scheme %q: expected redis, rediss or badger", u.Scheme)
}

/*
outputWriter takes a path and returns a writer to a file created on it,
or the given default writer if the path is empty, along with a function
to close it.
*/
func outputWriter(path string, def io.Writer) (io.Writer, func() error, error) {
	if path == "" {
		return def, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("creating %s: %v", path, err)
	}
	return f, f.Close, nil
}

func isStoreURL(s string) bool {
	return strings.HasPrefix(s, "redis://") || strings.HasPrefix(s, "rediss://") || strings.HasPrefix(s, "badger://")
}
