package utils

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lestrrat-go/jwx/v2/jwk"
)

// AuthenticatedUser is the subset of token claims the server cares about.
type AuthenticatedUser struct {
	Sub      string   `json:"sub"`
	Iss      string   `json:"iss"`
	ClientId string   `json:"client_id"`
	Exp      int64    `json:"exp"`
	Iat      int64    `json:"iat"`
	Aud      []string `json:"aud"`
	Roles    []string `json:"roles"`
	Scopes   []string `json:"scopes"`
}

// JwtAuthenticator validates bearer tokens either against a JWKS endpoint (RS256) or a shared
// HMAC secret.
type JwtAuthenticator struct {
	JwksUri string

	secret     []byte
	cacheTTL   time.Duration
	httpClient *http.Client

	mu        sync.Mutex
	keySet    jwk.Set
	fetchedAt time.Time
}

func NewJwtAuthenticator(jwksUri string) *JwtAuthenticator {
	return &JwtAuthenticator{
		JwksUri:    jwksUri,
		cacheTTL:   5 * time.Minute,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// NewHMACAuthenticator validates HS256 tokens signed with secret.
func NewHMACAuthenticator(secret string) *JwtAuthenticator {
	auth := NewJwtAuthenticator("")
	auth.secret = []byte(secret)
	return auth
}

func (a *JwtAuthenticator) ValidateToken(tokenString string) (*AuthenticatedUser, error) {
	if len(a.secret) == 0 && a.JwksUri == "" {
		return nil, errors.New("JWKS URI not configured")
	}

	token, err := jwt.Parse(tokenString, a.keyFunc)
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}
	if !token.Valid {
		return nil, errors.New("token is not valid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("unexpected claims type")
	}
	return a.mapClaimsToUser(claims)
}

func (a *JwtAuthenticator) keyFunc(token *jwt.Token) (interface{}, error) {
	if len(a.secret) > 0 {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return a.secret, nil
	}

	if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	kid, ok := token.Header["kid"].(string)
	if !ok || kid == "" {
		return nil, errors.New("token header is missing kid")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	key, err := a.fetchKey(ctx, kid)
	if err != nil {
		return nil, err
	}

	var publicKey interface{}
	if err := key.Raw(&publicKey); err != nil {
		return nil, fmt.Errorf("failed to extract public key: %w", err)
	}
	return publicKey, nil
}

// fetchKey returns the key with id kid, refreshing the cached JWKS when it is stale.
func (a *JwtAuthenticator) fetchKey(ctx context.Context, kid string) (jwk.Key, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.keySet == nil || time.Since(a.fetchedAt) > a.cacheTTL {
		set, err := jwk.Fetch(ctx, a.JwksUri, jwk.WithHTTPClient(a.httpClient))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch JWKS: %w", err)
		}
		a.keySet = set
		a.fetchedAt = time.Now()
	}

	key, ok := a.keySet.LookupKeyID(kid)
	if !ok {
		return nil, fmt.Errorf("key %s not found in JWKS", kid)
	}
	return key, nil
}

func (a *JwtAuthenticator) mapClaimsToUser(claims map[string]interface{}) (*AuthenticatedUser, error) {
	user := &AuthenticatedUser{
		Sub:      stringClaim(claims, "sub"),
		Iss:      stringClaim(claims, "iss"),
		ClientId: stringClaim(claims, "client_id"),
		Exp:      int64Claim(claims, "exp"),
		Iat:      int64Claim(claims, "iat"),
		Aud:      stringSliceClaim(claims, "aud"),
		Roles:    stringSliceClaim(claims, "roles"),
		Scopes:   stringSliceClaim(claims, "scopes"),
	}
	return user, nil
}

func stringClaim(claims map[string]interface{}, key string) string {
	value, _ := claims[key].(string)
	return value
}

func int64Claim(claims map[string]interface{}, key string) int64 {
	switch v := claims[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	default:
		return 0
	}
}

func stringSliceClaim(claims map[string]interface{}, key string) []string {
	switch v := claims[key].(type) {
	case string:
		return []string{v}
	case []string:
		return v
	case []interface{}:
		values := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				values = append(values, s)
			}
		}
		return values
	default:
		return nil
	}
}
