package utils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/KayaErtug/bolt-app/config"
)

// Per-IP registration abuse controls: daily signup cap, attempt cooldown,
// and a temp ban after too many failed attempts in an hour.

type memCounter struct {
	count     int
	expiresAt time.Time
}

var (
	memAbuse   = map[string]memCounter{}
	memAbuseMu sync.Mutex
)

func memIncr(key string, ttl time.Duration) int {
	memAbuseMu.Lock()
	defer memAbuseMu.Unlock()
	now := time.Now()
	entry, ok := memAbuse[key]
	if !ok || now.After(entry.expiresAt) {
		entry = memCounter{count: 0, expiresAt: now.Add(ttl)}
	}
	entry.count++
	memAbuse[key] = entry
	return entry.count
}

func memGet(key string) int {
	memAbuseMu.Lock()
	defer memAbuseMu.Unlock()
	entry, ok := memAbuse[key]
	if !ok || time.Now().After(entry.expiresAt) {
		delete(memAbuse, key)
		return 0
	}
	return entry.count
}

func redisIncrWithTTL(key string, ttl time.Duration) (int, bool) {
	rc := GetRedis()
	if rc == nil {
		return 0, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	n, err := rc.Incr(ctx, key).Result()
	if err != nil {
		return 0, false
	}
	if n == 1 {
		_ = rc.Expire(ctx, key, ttl).Err()
	}
	return int(n), true
}

// RegisterAllowed reports whether the IP may attempt registration now.
// Returns false with a reason string on refusal.
func RegisterAllowed(ip string) (bool, string) {
	cfg := config.Get()

	if IsIPTempBanned(ip) {
		return false, "too many failed attempts, try again later"
	}

	dayKey := fmt.Sprintf("reg_day:%s:%s", ip, time.Now().Format("2006-01-02"))
	var daily int
	if n, ok := redisIncrWithTTL(dayKey, 24*time.Hour); ok {
		daily = n
	} else {
		daily = memIncr(dayKey, 24*time.Hour)
	}
	if daily > cfg.RegisterMaxPerIPPerDay {
		return false, "daily registration limit reached"
	}

	cooldown := time.Duration(cfg.RegisterAttemptCooldownSec) * time.Second
	cdKey := fmt.Sprintf("reg_cd:%s", ip)
	rc := GetRedis()
	if rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		ok, err := rc.SetNX(ctx, cdKey, 1, cooldown).Result()
		if err == nil && !ok {
			return false, "please wait before trying again"
		}
		if err == nil {
			return true, ""
		}
	}
	if memIncr(cdKey, cooldown) > 1 {
		return false, "please wait before trying again"
	}
	return true, ""
}

// RecordRegisterFailure counts a failed attempt and temp-bans the IP past the threshold.
func RecordRegisterFailure(ip string) {
	cfg := config.Get()
	failKey := fmt.Sprintf("reg_fail:%s", ip)
	var fails int
	if n, ok := redisIncrWithTTL(failKey, time.Hour); ok {
		fails = n
	} else {
		fails = memIncr(failKey, time.Hour)
	}
	if fails >= cfg.RegisterFailedMaxPerIPPerHour {
		banTTL := time.Duration(cfg.RegisterTempBanMinutes) * time.Minute
		banKey := fmt.Sprintf("reg_ban:%s", ip)
		rc := GetRedis()
		if rc != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			if err := rc.Set(ctx, banKey, 1, banTTL).Err(); err == nil {
				return
			}
		}
		memIncr(banKey, banTTL)
	}
}

// IsIPTempBanned reports whether the IP is currently banned from registering.
func IsIPTempBanned(ip string) bool {
	banKey := fmt.Sprintf("reg_ban:%s", ip)
	rc := GetRedis()
	if rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		n, err := rc.Exists(ctx, banKey).Result()
		if err == nil {
			return n > 0
		}
	}
	return memGet(banKey) > 0
}
