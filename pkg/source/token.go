// Copyright (C) 2025, ADXYZ Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package source

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// expirySlack refreshes tokens slightly before they actually expire so
// an in-flight request never carries a token about to lapse.
const expirySlack = 30 * time.Second

// TokenFunc fetches a fresh access token and its lifetime from the
// upstream OAuth endpoint.
type TokenFunc func(ctx context.Context) (token string, ttl time.Duration, err error)

// TokenCache caches an OAuth access token until shortly before its
// expiry. It is safe for concurrent use.
type TokenCache struct {
	mu    sync.Mutex
	fetch TokenFunc
	now   func() time.Time

	token  string
	expiry time.Time
}

// NewTokenCache creates a cache around fetch.
func NewTokenCache(fetch TokenFunc) *TokenCache {
	return &TokenCache{
		fetch: fetch,
		now:   time.Now,
	}
}

// Token returns the cached token, refreshing it when missing or within
// expirySlack of expiry.
func (c *TokenCache) Token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.token != "" && c.now().Add(expirySlack).Before(c.expiry) {
		return c.token, nil
	}

	token, ttl, err := c.fetch(ctx)
	if err != nil {
		return "", fmt.Errorf("fetch access token: %w", err)
	}

	c.token = token
	c.expiry = c.now().Add(ttl)
	return token, nil
}
