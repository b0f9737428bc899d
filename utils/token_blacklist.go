package utils

import (
	"context"
	"sync"
	"time"
)

// Logged-out tokens are blacklisted until their natural expiry so a stolen
// bearer cannot be replayed after logout. Redis-backed with memory fallback.

const blacklistKeyPrefix = "token_blacklist:"

var (
	memBlacklist   = map[string]time.Time{}
	memBlacklistMu sync.Mutex
)

// BlacklistToken marks a token invalid for the given duration.
func BlacklistToken(token string, ttl time.Duration) {
	if token == "" || ttl <= 0 {
		return
	}
	rc := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if rc != nil {
		if err := rc.Set(ctx, blacklistKeyPrefix+token, 1, ttl).Err(); err == nil {
			return
		}
	}
	memBlacklistMu.Lock()
	memBlacklist[token] = time.Now().Add(ttl)
	// opportunistic sweep
	now := time.Now()
	for k, exp := range memBlacklist {
		if now.After(exp) {
			delete(memBlacklist, k)
		}
	}
	memBlacklistMu.Unlock()
}

// IsTokenBlacklisted reports whether a token has been revoked.
func IsTokenBlacklisted(token string) bool {
	if token == "" {
		return false
	}
	rc := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if rc != nil {
		n, err := rc.Exists(ctx, blacklistKeyPrefix+token).Result()
		if err == nil {
			return n > 0
		}
	}
	memBlacklistMu.Lock()
	defer memBlacklistMu.Unlock()
	exp, ok := memBlacklist[token]
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		delete(memBlacklist, token)
		return false
	}
	return true
}
