package utils

import (
	"context"
	"time"

	"github.com/mojocn/base64Captcha"
)

// Captcha answers are kept in Redis so verification survives restarts and
// works across instances; base64Captcha's memory store is the fallback.

const (
	captchaTTL       = 5 * time.Minute
	captchaKeyPrefix = "captcha:"
)

type redisCaptchaStore struct {
	fallback base64Captcha.Store
}

func (s *redisCaptchaStore) Set(id string, value string) error {
	rc := GetRedis()
	if rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := rc.Set(ctx, captchaKeyPrefix+id, value, captchaTTL).Err(); err == nil {
			return nil
		}
	}
	return s.fallback.Set(id, value)
}

func (s *redisCaptchaStore) Get(id string, clear bool) string {
	rc := GetRedis()
	if rc != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		v, err := rc.Get(ctx, captchaKeyPrefix+id).Result()
		if err == nil {
			if clear {
				_ = rc.Del(ctx, captchaKeyPrefix+id).Err()
			}
			return v
		}
	}
	return s.fallback.Get(id, clear)
}

func (s *redisCaptchaStore) Verify(id, answer string, clear bool) bool {
	if id == "" || answer == "" {
		return false
	}
	return s.Get(id, clear) == answer
}

var captchaStore base64Captcha.Store = &redisCaptchaStore{fallback: base64Captcha.DefaultMemStore}

// GenerateCaptcha creates a digit captcha and returns its id and base64 PNG.
func GenerateCaptcha() (id, b64 string, err error) {
	driver := base64Captcha.NewDriverDigit(60, 200, 5, 0.6, 70)
	c := base64Captcha.NewCaptcha(driver, captchaStore)
	id, b64, _, err = c.Generate()
	return id, b64, err
}

// VerifyCaptcha checks a captcha answer, consuming it regardless of outcome.
func VerifyCaptcha(id, answer string) bool {
	return captchaStore.Verify(id, answer, true)
}
