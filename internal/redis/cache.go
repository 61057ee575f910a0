package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"pixpoll/internal/domain/poll"

	goredis "github.com/redis/go-redis/v9"
)

// Cache key patterns:
// - poll:{poll_id} - poll row
// - candidate:{candidate_id} - candidate row
//
// Rows are written once and never updated, so entries never go stale. Vote
// counts and candidate id lists change and are not cached here.

const DefaultCacheTTL = 10 * time.Minute

// CacheStore handles caching in Redis
type CacheStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewCacheStore creates a new cache store
func NewCacheStore(client *goredis.Client, ttl time.Duration) *CacheStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CacheStore{
		client: client,
		ttl:    ttl,
	}
}

type cachedPoll struct {
	ID           int64     `json:"id"`
	Title        string    `json:"title"`
	CreationTime time.Time `json:"creation_time"`
}

type cachedCandidate struct {
	ID     int64  `json:"id"`
	PollID int64  `json:"poll_id"`
	URL    string `json:"url"`
}

func pollKey(id int64) string {
	return fmt.Sprintf("poll:%d", id)
}

func candidateKey(id int64) string {
	return fmt.Sprintf("candidate:%d", id)
}

// GetPoll retrieves a poll from cache
func (c *CacheStore) GetPoll(ctx context.Context, id int64) (*poll.Poll, error) {
	var cp cachedPoll
	ok, err := c.get(ctx, pollKey(id), &cp)
	if err != nil || !ok {
		return nil, err
	}
	return &poll.Poll{ID: cp.ID, Title: cp.Title, CreationTime: cp.CreationTime}, nil
}

// SetPoll stores a poll in cache
func (c *CacheStore) SetPoll(ctx context.Context, p poll.Poll) error {
	return c.set(ctx, pollKey(p.ID), cachedPoll{ID: p.ID, Title: p.Title, CreationTime: p.CreationTime})
}

// GetCandidate retrieves a candidate from cache
func (c *CacheStore) GetCandidate(ctx context.Context, id int64) (*poll.Candidate, error) {
	var cc cachedCandidate
	ok, err := c.get(ctx, candidateKey(id), &cc)
	if err != nil || !ok {
		return nil, err
	}
	return &poll.Candidate{ID: cc.ID, PollID: cc.PollID, URL: cc.URL}, nil
}

// SetCandidate stores a candidate in cache
func (c *CacheStore) SetCandidate(ctx context.Context, cand poll.Candidate) error {
	return c.set(ctx, candidateKey(cand.ID), cachedCandidate{ID: cand.ID, PollID: cand.PollID, URL: cand.URL})
}

func (c *CacheStore) get(ctx context.Context, key string, v interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return false, nil // Cache miss
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *CacheStore) set(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}
