package utils

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// Email verification codes live in Redis with a TTL. When Redis is down the
// in-memory fallback keeps registration working on a single instance.

const (
	codeTTL       = 10 * time.Minute
	codeKeyPrefix = "email_code:"
)

type memCode struct {
	code      string
	expiresAt time.Time
}

var (
	memCodes   = map[string]memCode{}
	memCodesMu sync.Mutex
)

// GenerateNumericCode returns a random n-digit code.
func GenerateNumericCode(n int) string {
	const digits = "0123456789"
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			b[i] = '0'
			continue
		}
		b[i] = digits[idx.Int64()]
	}
	return string(b)
}

// StoreEmailCode saves a verification code for the address.
func StoreEmailCode(email, code string) {
	rc := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if rc != nil {
		if err := rc.Set(ctx, codeKeyPrefix+email, code, codeTTL).Err(); err == nil {
			return
		}
	}
	memCodesMu.Lock()
	memCodes[email] = memCode{code: code, expiresAt: time.Now().Add(codeTTL)}
	memCodesMu.Unlock()
}

// VerifyEmailCode checks the code and consumes it on success.
func VerifyEmailCode(email, code string) bool {
	if email == "" || code == "" {
		return false
	}
	rc := GetRedis()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if rc != nil {
		stored, err := rc.Get(ctx, codeKeyPrefix+email).Result()
		if err == nil {
			if stored == code {
				_ = rc.Del(ctx, codeKeyPrefix+email).Err()
				return true
			}
			return false
		}
	}
	memCodesMu.Lock()
	defer memCodesMu.Unlock()
	entry, ok := memCodes[email]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(memCodes, email)
		return false
	}
	if entry.code != code {
		return false
	}
	delete(memCodes, email)
	return true
}

// CodeCooldownRemaining reports how long until the address may request another code.
func CodeCooldownRemaining(email string, cooldown time.Duration) time.Duration {
	rc := GetRedis()
	key := fmt.Sprintf("email_code_cd:%s", email)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if rc != nil {
		ok, err := rc.SetNX(ctx, key, 1, cooldown).Result()
		if err == nil {
			if ok {
				return 0
			}
			ttl, _ := rc.TTL(ctx, key).Result()
			if ttl > 0 {
				return ttl
			}
			return cooldown
		}
	}
	memCodesMu.Lock()
	defer memCodesMu.Unlock()
	entry, ok := memCodes["cd:"+email]
	now := time.Now()
	if ok && now.Before(entry.expiresAt) {
		return entry.expiresAt.Sub(now)
	}
	memCodes["cd:"+email] = memCode{expiresAt: now.Add(cooldown)}
	return 0
}
