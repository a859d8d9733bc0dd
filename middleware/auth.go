package middleware

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"talenthub-api/supabase"
)

// CredentialKind tags the two accepted admin credential forms.
type CredentialKind int

const (
	// CredentialInvalid is anything that is neither the shared secret
	// nor a well-formed session token.
	CredentialInvalid CredentialKind = iota

	// CredentialSharedSecret is the legacy configured admin secret.
	CredentialSharedSecret

	// CredentialSessionToken is an externally issued bearer token, to be
	// resolved by the identity service.
	CredentialSessionToken
)

// Credential is a classified bearer credential.
type Credential struct {
	Kind  CredentialKind
	Token string
}

// TokenResolver resolves a session token to a user. *supabase.Client
// satisfies it.
type TokenResolver interface {
	GetUser(ctx context.Context, accessToken string) (*supabase.User, error)
}

// AdminGate decides whether a request carries administrative authority.
// Verification is fail closed: a missing credential, an unclassifiable
// one, or any identity-service error all resolve to "not admin". The gate
// holds no per-request state and is safe to consult any number of times.
type AdminGate struct {
	secret   string
	resolver TokenResolver
}

func NewAdminGate(secret string, resolver TokenResolver) *AdminGate {
	return &AdminGate{secret: secret, resolver: resolver}
}

// Classify tags a raw bearer credential. The shared secret is matched
// byte for byte in constant time; anything else that parses as a JWT is
// treated as a session token for the identity service to judge.
func (g *AdminGate) Classify(raw string) Credential {
	if raw == "" {
		return Credential{Kind: CredentialInvalid}
	}

	if g.secret != "" && subtle.ConstantTimeCompare([]byte(raw), []byte(g.secret)) == 1 {
		return Credential{Kind: CredentialSharedSecret, Token: raw}
	}

	if _, _, err := jwt.NewParser().ParseUnverified(raw, jwt.MapClaims{}); err == nil {
		return Credential{Kind: CredentialSessionToken, Token: raw}
	}

	return Credential{Kind: CredentialInvalid}
}

// IsAdmin reports whether the request's bearer credential grants
// administrative authority. Only trusted operators hold accounts on the
// identity service, so any token it resolves to a user is accepted.
func (g *AdminGate) IsAdmin(r *http.Request) bool {
	token, ok := bearerToken(r)
	if !ok {
		return false
	}

	cred := g.Classify(token)
	switch cred.Kind {
	case CredentialSharedSecret:
		return true
	case CredentialSessionToken:
		if g.resolver == nil {
			return false
		}
		user, err := g.resolver.GetUser(r.Context(), cred.Token)
		if err != nil || user == nil || user.ID == "" {
			return false
		}
		return true
	default:
		return false
	}
}

func bearerToken(r *http.Request) (string, bool) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", false
	}
	token := strings.TrimPrefix(authHeader, "Bearer ")
	if token == authHeader || token == "" {
		return "", false
	}
	return token, true
}

// RequireAdmin rejects requests that do not pass the admin gate: 401 when
// no bearer credential is present, 403 when the credential is rejected.
func RequireAdmin(gate *AdminGate) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := bearerToken(c.Request); !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		if !gate.IsAdmin(c.Request) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			c.Abort()
			return
		}

		c.Next()
	}
}
