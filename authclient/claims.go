package authclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/lestrrat-go/jwx/jwk"
)

var (
	ErrFetchJWKSet  = errors.New("failed to fetch JWK set")
	ErrKeyNotFound  = errors.New("signing key not found")
	ErrFailedRawKey = errors.New("failed to get raw key")
	ErrMissingKeyID = errors.New("expecting JWT header to have 'kid'")
)

const jwksRefreshInterval = 5 * time.Minute

// ClaimsReader turns a credential token into the identity it was issued for.
type ClaimsReader interface {
	Read(ctx context.Context, token string) (Identity, error)
}

// tokenClaims mirrors the claims the EquipChain API signs.
type tokenClaims struct {
	Email          string `json:"email"`
	OrganizationID string `json:"organization_id"`
	jwt.RegisteredClaims
}

func (c *tokenClaims) identity() Identity {
	id := Identity{Email: c.Email, OrganizationID: c.OrganizationID}
	if c.ExpiresAt != nil {
		id.ExpiresAt = c.ExpiresAt.Time
	}
	return id
}

// UnverifiedClaims decodes the token without checking its signature. The
// server still verifies every request; this only restores what to display.
type UnverifiedClaims struct {
	parser *jwt.Parser
	now    func() time.Time
}

func NewUnverifiedClaims() *UnverifiedClaims {
	return &UnverifiedClaims{parser: jwt.NewParser(), now: time.Now}
}

func (u *UnverifiedClaims) Read(_ context.Context, token string) (Identity, error) {
	claims := &tokenClaims{}
	if _, _, err := u.parser.ParseUnverified(token, claims); err != nil {
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !claims.VerifyExpiresAt(u.now(), false) {
		return Identity{}, ErrTokenExpired
	}
	if claims.Email == "" {
		return Identity{}, fmt.Errorf("%w: no email claim", ErrInvalidToken)
	}
	return claims.identity(), nil
}

// JWKSClaims verifies the token signature against a JWK set that is fetched
// once up front and refreshed in the background.
type JWKSClaims struct {
	autoRefresh *jwk.AutoRefresh
	jwksURL     string
}

// NewJWKSClaims performs the initial fetch so a bad URL fails at start-up.
func NewJWKSClaims(ctx context.Context, jwksURL string) (*JWKSClaims, error) {
	ar := jwk.NewAutoRefresh(ctx)
	ar.Configure(jwksURL, jwk.WithRefreshInterval(jwksRefreshInterval))

	if _, err := ar.Fetch(ctx, jwksURL); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetchJWKSet, err)
	}
	return &JWKSClaims{autoRefresh: ar, jwksURL: jwksURL}, nil
}

func (j *JWKSClaims) Read(ctx context.Context, token string) (Identity, error) {
	claims := &tokenClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		keyID, ok := t.Header["kid"].(string)
		if !ok {
			return nil, ErrMissingKeyID
		}

		keySet, err := j.autoRefresh.Fetch(ctx, j.jwksURL)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFetchJWKSet, err)
		}

		key, found := keySet.LookupKeyID(keyID)
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, keyID)
		}

		var raw interface{}
		if err := key.Raw(&raw); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrFailedRawKey, err)
		}
		return raw, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Email == "" {
		return Identity{}, fmt.Errorf("%w: no email claim", ErrInvalidToken)
	}
	return claims.identity(), nil
}
