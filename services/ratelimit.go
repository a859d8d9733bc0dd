package services

import (
	"context"
	"fmt"
	"time"

	"talenthub-api/supabase"
)

// Rate limit for job applications: at most 2 per identity per trailing 24
// hours. Identity is disjunctive — a matching email OR a matching origin
// address counts as the same identity, which deliberately over-blocks
// shared-address scenarios.
const (
	RateLimitThreshold = 2
	RateLimitWindow    = 24 * time.Hour
)

// RateLimiter counts recent applications for an identity. Counting reads
// across all rows, which the anonymous scope cannot do, so it always runs
// privileged.
type RateLimiter struct {
	store *supabase.Client
}

func NewRateLimiter(store *supabase.Client) *RateLimiter {
	return &RateLimiter{store: store}
}

// CountRecent returns how many applications the identity (by email or
// origin address) has created since windowStart.
func (rl *RateLimiter) CountRecent(ctx context.Context, email, origin string, windowStart time.Time) (int64, error) {
	svc, err := rl.store.Service()
	if err != nil {
		return 0, err
	}

	// The identity values ride in the filter group verbatim; an email
	// containing "," or ")" corrupts the group and the count errors out,
	// which the caller treats as fail closed.
	return svc.From("applications").
		Select("id").
		Or(fmt.Sprintf("email.eq.%s,ip_address.eq.%s", email, origin)).
		Gte("created_at", windowStart.UTC().Format(time.RFC3339)).
		CountExact(ctx)
}
