// Package delegation defines the delegated-identity token exchanged between
// the identity provider, the dashboard client and the canister.
//
// A delegation is a JWT signed by the identity provider (EdDSA). It carries
// the DER-encoded public key of the user; the caller's principal is derived
// from that key and must equal the token subject.
package delegation

import (
	"crypto/ed25519"
	"crypto/x509"
	"encoding/base64"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/merchantdash/internal/principal"
	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidDelegation = errors.New("delegation: invalid token")
	ErrDelegationExpired = errors.New("delegation: expired")
)

// Claims is the delegation payload.
type Claims struct {
	jwt.RegisteredClaims
	PublicKey string `json:"pubkey"`
}

// Issue signs a delegation for user valid for ttl starting at now.
func Issue(signer ed25519.PrivateKey, issuer string, user ed25519.PublicKey, ttl time.Duration, now time.Time) (string, error) {
	der, err := x509.MarshalPKIXPublicKey(user)
	if err != nil {
		return "", fmt.Errorf("marshal user key: %w", err)
	}
	p := principal.SelfAuthenticating(der)

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   p.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		PublicKey: base64.StdEncoding.EncodeToString(der),
	})

	return token.SignedString(signer)
}

// Verify checks the provider signature and expiry and returns the caller
// principal.
func Verify(tokenString string, providerKey ed25519.PublicKey) (principal.Principal, *Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return providerKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodEdDSA.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return principal.Principal{}, nil, ErrDelegationExpired
		}
		return principal.Principal{}, nil, fmt.Errorf("%w: %v", ErrInvalidDelegation, err)
	}
	if !token.Valid {
		return principal.Principal{}, nil, ErrInvalidDelegation
	}

	p, err := principalOf(claims)
	if err != nil {
		return principal.Principal{}, nil, err
	}
	return p, claims, nil
}

// Inspect decodes a delegation without checking the signature. Clients use
// it to derive the principal and expiry of a delegation they hold; the
// canister is the party that verifies it.
func Inspect(tokenString string, now time.Time) (principal.Principal, *Claims, error) {
	claims := &Claims{}

	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return principal.Principal{}, nil, fmt.Errorf("%w: %v", ErrInvalidDelegation, err)
	}
	if claims.ExpiresAt == nil {
		return principal.Principal{}, nil, fmt.Errorf("%w: missing expiry", ErrInvalidDelegation)
	}
	if !now.Before(claims.ExpiresAt.Time) {
		return principal.Principal{}, nil, ErrDelegationExpired
	}

	p, err := principalOf(claims)
	if err != nil {
		return principal.Principal{}, nil, err
	}
	return p, claims, nil
}

func principalOf(claims *Claims) (principal.Principal, error) {
	der, err := base64.StdEncoding.DecodeString(claims.PublicKey)
	if err != nil || len(der) == 0 {
		return principal.Principal{}, fmt.Errorf("%w: bad public key", ErrInvalidDelegation)
	}

	p := principal.SelfAuthenticating(der)
	if p.String() != claims.Subject {
		return principal.Principal{}, fmt.Errorf("%w: subject mismatch", ErrInvalidDelegation)
	}
	return p, nil
}
