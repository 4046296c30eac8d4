package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/karlseguin/ccache/v3"

	"github.com/kokiebisu/sonus/youtube/types"
)

var (
	DefaultCoverTTL = 1 * time.Hour
	DefaultTrackTTL = 1 * time.Hour
)

type Cache struct {
	Covers CoversCache
	Tracks TracksCache
}

func New() *Cache {
	coversCache := ccache.New(
		ccache.Configure[[]byte]().
			MaxSize(100).
			GetsPerPromote(3).
			ItemsToPrune(1),
	)

	tracksCache := ccache.New(
		ccache.Configure[*types.TrackInfo]().
			MaxSize(10_000).
			GetsPerPromote(3).
			ItemsToPrune(1),
	)

	return &Cache{
		Covers: CoversCache{
			c:    coversCache,
			muxs: keyedMutex{},
		},
		Tracks: TracksCache{
			c:    tracksCache,
			muxs: keyedMutex{},
		},
	}
}

// keyedMutex serialises fetches of the same key so concurrent workers asking
// for one album cover download it once, while different keys proceed in
// parallel.
type keyedMutex struct {
	m sync.Map
}

func (k *keyedMutex) lock(key string) func() {
	v, _ := k.m.LoadOrStore(key, &sync.Mutex{})
	mux := v.(*sync.Mutex) //nolint:forcetypeassert
	mux.Lock()

	return mux.Unlock
}

type CoversCache struct {
	c    *ccache.Cache[[]byte]
	muxs keyedMutex
}

func (c *CoversCache) Fetch(
	k string,
	ttl time.Duration,
	fetch func() ([]byte, error),
) ([]byte, error) {
	defer c.muxs.lock(k)()

	v, err := c.c.Fetch(k, ttl, fetch)
	if nil != err {
		return nil, fmt.Errorf("fetch cover: %w", err)
	}

	return v.Value(), nil
}

type TracksCache struct {
	c    *ccache.Cache[*types.TrackInfo]
	muxs keyedMutex
}

func (c *TracksCache) Fetch(
	k string,
	ttl time.Duration,
	fetch func() (*types.TrackInfo, error),
) (*types.TrackInfo, error) {
	defer c.muxs.lock(k)()

	v, err := c.c.Fetch(k, ttl, fetch)
	if nil != err {
		return nil, err
	}

	return v.Value(), nil
}
