/*
Package redisstore provides a tree.Store backed by a Redis database.
*/
package redisstore

import (
	"context"
	"fmt"

	"github.com/pbanos/sapling/tree"
	treejson "github.com/pbanos/sapling/tree/json"
	"gopkg.in/redis.v5"
)

type redisStore struct {
	rc      *redis.Client
	prefix  string
	tencdec treejson.TreeEncodeDecoder
}

//New builds a tree.Store backed by a redis DB that keeps each tree
//encoded with the given TreeEncodeDecoder under the key prefix:id
func New(rc *redis.Client, prefix string, tencdec treejson.TreeEncodeDecoder) tree.Store {
	return &redisStore{rc, prefix, tencdec}
}

//Dial takes a redis URL and returns a redis client for it. The
//client does not connect until its first command.
func Dial(url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis URL: %v", err)
	}
	return redis.NewClient(opts), nil
}

func (rs *redisStore) Put(ctx context.Context, t *tree.Tree) (string, error) {
	data, err := rs.tencdec.Encode(t)
	if err != nil {
		return "", fmt.Errorf("creating tree: encoding tree: %v", err)
	}
	var ok bool
	var id string
	for !ok {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		id = tree.NewID()
		ok, err = rs.rc.SetNX(rs.keyFor(id), data, 0).Result()
		if err != nil {
			return "", fmt.Errorf("creating tree in redis: %v", err)
		}
	}
	return id, nil
}

func (rs *redisStore) Get(ctx context.Context, id string) (*tree.Tree, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	data, err := rs.rc.Get(rs.keyFor(id)).Bytes()
	if err == redis.Nil {
		return nil, tree.ErrTreeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: %v", id, err)
	}
	t, err := rs.tencdec.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("retrieving tree %q: decoding %q: %v", id, data, err)
	}
	return t, nil
}

func (rs *redisStore) Delete(ctx context.Context, id string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	redisID := rs.keyFor(id)
	_, err := rs.rc.Del(redisID).Result()
	if err != nil {
		return fmt.Errorf("deleting tree %q from redis: %v", redisID, err)
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return rs.rc.Close()
}

func (rs *redisStore) keyFor(id string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, id)
}
