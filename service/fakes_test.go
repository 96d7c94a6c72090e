package service

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	dmn "github.com/beka-birhanu/vinom-maze/domain"
	"github.com/beka-birhanu/vinom-maze/service/i"
)

type memoryCache struct {
	entries map[string]i.CachedPath
	sync.Mutex
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: make(map[string]i.CachedPath)}
}

func (c *memoryCache) Store(_ context.Context, digest string, p i.CachedPath) error {
	c.Lock()
	defer c.Unlock()
	if _, ok := c.entries[digest]; !ok {
		c.entries[digest] = p
	}
	return nil
}

func (c *memoryCache) Lookup(_ context.Context, digest string) (i.CachedPath, error) {
	c.Lock()
	defer c.Unlock()
	p, ok := c.entries[digest]
	if !ok {
		return i.CachedPath{}, i.ErrCacheMiss
	}
	return p, nil
}

func (c *memoryCache) len() int {
	c.Lock()
	defer c.Unlock()
	return len(c.entries)
}

type memoryRuns struct {
	runs []*dmn.Run
	sync.Mutex
}

func (r *memoryRuns) Save(_ context.Context, run *dmn.Run) error {
	r.Lock()
	defer r.Unlock()
	r.runs = append(r.runs, run)
	return nil
}

func (r *memoryRuns) ByDigest(_ context.Context, digest string, limit int64) ([]*dmn.Run, error) {
	r.Lock()
	defer r.Unlock()
	var out []*dmn.Run
	for _, run := range r.runs {
		if run.Digest == digest {
			out = append(out, run)
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].Steps < out[b].Steps })
	if int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

type stubTokenizer struct {
	claims map[string]interface{}
	err    error
}

func (s *stubTokenizer) Generate(claims map[string]interface{}, _ time.Duration) (string, error) {
	s.claims = claims
	return "token", s.err
}

func (s *stubTokenizer) Decode(token string) (map[string]interface{}, error) {
	if token != "token" {
		return nil, errors.New("bad token")
	}
	return s.claims, s.err
}
