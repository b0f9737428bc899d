package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// Country resolution for geo access control. Results are cached in Redis
// (memory fallback) because the upstream lookup service is rate limited.

const (
	countryCacheTTL    = 24 * time.Hour
	countryKeyPrefix   = "ip_country:"
	countryLookupURL   = "http://ip-api.com/json/%s?fields=status,countryCode"
	countryHTTPTimeout = 3 * time.Second
)

var (
	memCountry   = map[string]string{}
	memCountryMu sync.RWMutex

	countryHTTP = &http.Client{Timeout: countryHTTPTimeout}
)

// IsPrivateIP reports whether the address is loopback, link-local, or RFC1918.
func IsPrivateIP(ip string) bool {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return false
	}
	return parsed.IsLoopback() || parsed.IsPrivate() || parsed.IsLinkLocalUnicast() || parsed.IsUnspecified()
}

// CountryForIP resolves the ISO country code for an IP. Returns "" when the
// lookup fails, which callers must treat as unknown (fail-open).
func CountryForIP(ip string) string {
	if ip == "" || IsPrivateIP(ip) {
		return ""
	}

	if cc := countryFromCache(ip); cc != "" {
		return cc
	}

	cc := lookupCountry(ip)
	if cc != "" {
		cacheCountry(ip, cc)
	}
	return cc
}

func countryFromCache(ip string) string {
	rc := GetRedis()
	if rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if v, err := rc.Get(ctx, countryKeyPrefix+ip).Result(); err == nil {
			return v
		}
	}
	memCountryMu.RLock()
	defer memCountryMu.RUnlock()
	return memCountry[ip]
}

func cacheCountry(ip, cc string) {
	rc := GetRedis()
	if rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Set(ctx, countryKeyPrefix+ip, cc, countryCacheTTL).Err(); err == nil {
			return
		}
	}
	memCountryMu.Lock()
	if len(memCountry) > 50000 {
		memCountry = map[string]string{}
	}
	memCountry[ip] = cc
	memCountryMu.Unlock()
}

func lookupCountry(ip string) string {
	resp, err := countryHTTP.Get(fmt.Sprintf(countryLookupURL, ip))
	if err != nil {
		if Sugar != nil {
			Sugar.Debugf("country lookup failed ip=%s err=%v", ip, err)
		}
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}
	var body struct {
		Status      string `json:"status"`
		CountryCode string `json:"countryCode"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ""
	}
	if body.Status != "success" {
		return ""
	}
	return body.CountryCode
}
