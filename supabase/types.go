// Package supabase is a thin client for the Supabase platform APIs:
// PostgREST (/rest/v1), Auth (/auth/v1) and Storage (/storage/v1).
// Every operation runs through an AccessContext, which fixes the
// authorization level (anon, caller token, or service role) for that call.
package supabase

import "time"

// Config holds the connection settings for one Supabase project.
type Config struct {
	// URL is the project URL, e.g. https://xxx.supabase.co
	URL string

	// AnonKey is the public API key. Requests made with it are subject
	// to row level security.
	AnonKey string

	// ServiceKey is the service role key. Requests made with it bypass
	// row level security entirely.
	ServiceKey string

	// Timeout for HTTP requests. Defaults to 30 seconds.
	Timeout time.Duration
}

// User is the subset of a Supabase Auth user this API cares about.
type User struct {
	ID           string     `json:"id"`
	Aud          string     `json:"aud"`
	Role         string     `json:"role"`
	Email        string     `json:"email"`
	LastSignInAt *time.Time `json:"last_sign_in_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// UploadOptions for storage uploads.
type UploadOptions struct {
	ContentType  string
	CacheControl string
	Upsert       bool
}

// OrderDirection for sorting.
type OrderDirection string

const (
	OrderAsc  OrderDirection = "asc"
	OrderDesc OrderDirection = "desc"
)

// Error is an error response from any Supabase API.
type Error struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Hint       string `json:"hint,omitempty"`
	StatusCode int    `json:"-"`
}

func (e *Error) Error() string {
	if e.Details != "" {
		return e.Message + ": " + e.Details
	}
	return e.Message
}
