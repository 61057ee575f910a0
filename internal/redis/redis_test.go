package redis

import (
	"testing"
	"time"

	"pixpoll/config"
	"pixpoll/internal/domain/poll"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func setupMiniredis(t *testing.T) (*miniredis.Miniredis, *goredis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewClient(config.RedisConfig{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return mr, client
}

func TestConnect(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()

	client, err := Connect(t.Context(), config.RedisConfig{Addr: addr})
	if err != nil {
		t.Fatalf("Connect error: %v", err)
	}
	_ = client.Close()

	// Addr is not usable once the server is closed
	mr.Close()
	if _, err := Connect(t.Context(), config.RedisConfig{Addr: addr}); err == nil {
		t.Error("Expected error connecting to a stopped server")
	}
}

func TestCacheStore_Poll(t *testing.T) {
	mr, client := setupMiniredis(t)
	cache := NewCacheStore(client, time.Minute)
	ctx := t.Context()

	got, err := cache.GetPoll(ctx, 1)
	if err != nil || got != nil {
		t.Fatalf("Expected miss, got %v, %v", got, err)
	}

	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := cache.SetPoll(ctx, poll.Poll{ID: 1, Title: "Best Logo", CreationTime: created}); err != nil {
		t.Fatalf("SetPoll error: %v", err)
	}

	got, err = cache.GetPoll(ctx, 1)
	if err != nil || got == nil {
		t.Fatalf("Expected hit, got %v, %v", got, err)
	}
	if got.Title != "Best Logo" || !got.CreationTime.Equal(created) {
		t.Errorf("Unexpected poll: %+v", got)
	}

	if ttl := mr.TTL("poll:1"); ttl != time.Minute {
		t.Errorf("Expected TTL 1m, got %v", ttl)
	}

	mr.FastForward(2 * time.Minute)
	got, err = cache.GetPoll(ctx, 1)
	if err != nil || got != nil {
		t.Errorf("Expected miss after expiry, got %v, %v", got, err)
	}
}

func TestCacheStore_Candidate(t *testing.T) {
	_, client := setupMiniredis(t)
	cache := NewCacheStore(client, 0)
	ctx := t.Context()

	want := poll.Candidate{ID: 7, PollID: 1, URL: "https://example.com/a.png"}
	if err := cache.SetCandidate(ctx, want); err != nil {
		t.Fatalf("SetCandidate error: %v", err)
	}

	got, err := cache.GetCandidate(ctx, 7)
	if err != nil || got == nil {
		t.Fatalf("Expected hit, got %v, %v", got, err)
	}
	if got.ID != want.ID || got.PollID != want.PollID || got.URL != want.URL {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	if got, _ := cache.GetCandidate(ctx, 8); got != nil {
		t.Errorf("Expected miss for other id, got %+v", got)
	}
}

func TestCacheStore_CorruptEntry(t *testing.T) {
	mr, client := setupMiniredis(t)
	cache := NewCacheStore(client, time.Minute)

	if err := mr.Set("candidate:3", "{not json"); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, err := cache.GetCandidate(t.Context(), 3); err == nil {
		t.Error("Expected decode error")
	}
}

func TestCacheStore_ServerDown(t *testing.T) {
	mr, client := setupMiniredis(t)
	cache := NewCacheStore(client, time.Minute)
	mr.Close()

	if _, err := cache.GetPoll(t.Context(), 1); err == nil {
		t.Error("Expected error when redis is down")
	}
}

func TestRateLimiter_AllowVote(t *testing.T) {
	mr, client := setupMiniredis(t)
	limiter := NewRateLimiter(client, RateLimitConfig{VoteLimit: 3, VoteWindow: time.Minute})
	ctx := t.Context()

	for i := 0; i < 3; i++ {
		res, err := limiter.AllowVote(ctx, "192.0.2.1")
		if err != nil {
			t.Fatalf("AllowVote error: %v", err)
		}
		if !res.Allowed {
			t.Fatalf("Vote %d should be allowed", i+1)
		}
		if res.Remaining != 2-i {
			t.Errorf("Vote %d: expected remaining %d, got %d", i+1, 2-i, res.Remaining)
		}
	}

	res, err := limiter.AllowVote(ctx, "192.0.2.1")
	if err != nil {
		t.Fatalf("AllowVote error: %v", err)
	}
	if res.Allowed {
		t.Error("Fourth vote should be blocked")
	}
	if res.ResetIn <= 0 || res.ResetIn > time.Minute {
		t.Errorf("Unexpected reset window %v", res.ResetIn)
	}

	// other sources have their own window
	res, _ = limiter.AllowVote(ctx, "198.51.100.7")
	if !res.Allowed {
		t.Error("Different source should be allowed")
	}

	mr.FastForward(time.Minute + time.Second)
	res, _ = limiter.AllowVote(ctx, "192.0.2.1")
	if !res.Allowed {
		t.Error("Vote should be allowed after the window expires")
	}
}

func TestRateLimiter_Disabled(t *testing.T) {
	_, client := setupMiniredis(t)
	limiter := NewRateLimiter(client, RateLimitConfig{})

	for i := 0; i < 10; i++ {
		res, err := limiter.AllowVote(t.Context(), "192.0.2.1")
		if err != nil || !res.Allowed {
			t.Fatalf("Expected unlimited votes, got %+v, %v", res, err)
		}
	}
}

func TestRateLimiter_ResetVotes(t *testing.T) {
	_, client := setupMiniredis(t)
	limiter := NewRateLimiter(client, RateLimitConfig{VoteLimit: 1, VoteWindow: time.Minute})
	ctx := t.Context()

	_, _ = limiter.AllowVote(ctx, "192.0.2.1")
	if res, _ := limiter.AllowVote(ctx, "192.0.2.1"); res.Allowed {
		t.Fatal("Second vote should be blocked")
	}
	if err := limiter.ResetVotes(ctx, "192.0.2.1"); err != nil {
		t.Fatalf("ResetVotes error: %v", err)
	}
	if res, _ := limiter.AllowVote(ctx, "192.0.2.1"); !res.Allowed {
		t.Error("Vote should be allowed after reset")
	}
}
