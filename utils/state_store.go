package utils

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// OAuth state tokens prevent CSRF on the callback leg. Single-use, short TTL.

const (
	stateTTL       = 10 * time.Minute
	stateKeyPrefix = "oauth_state:"
)

var (
	memStates   = map[string]time.Time{}
	memStatesMu sync.Mutex
)

// NewOAuthState issues and stores a random state token.
func NewOAuthState() string {
	state := uuid.NewString()
	rc := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if rc != nil {
		if err := rc.Set(ctx, stateKeyPrefix+state, 1, stateTTL).Err(); err == nil {
			return state
		}
	}
	memStatesMu.Lock()
	memStates[state] = time.Now().Add(stateTTL)
	memStatesMu.Unlock()
	return state
}

// ConsumeOAuthState validates and deletes a state token. Returns false for
// unknown or expired states.
func ConsumeOAuthState(state string) bool {
	if state == "" {
		return false
	}
	rc := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if rc != nil {
		n, err := rc.Del(ctx, stateKeyPrefix+state).Result()
		if err == nil {
			return n > 0
		}
	}
	memStatesMu.Lock()
	defer memStatesMu.Unlock()
	exp, ok := memStates[state]
	if !ok {
		return false
	}
	delete(memStates, state)
	return time.Now().Before(exp)
}
