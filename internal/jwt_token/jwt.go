package jwttoken

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"strings"
	"time"

	dErrors "broker/pkg/domain-errors"
	"broker/pkg/domain"
	"broker/pkg/requestcontext"

	"github.com/golang-jwt/jwt/v5"
)

// Consumer identifies the organization a token was issued to.
// ID is in "0192:<orgno>" form.
type Consumer struct {
	Authority string `json:"authority"`
	ID        string `json:"ID"`
}

// AccessTokenClaims are the claims carried by inbound access tokens.
// Scope is space separated.
type AccessTokenClaims struct {
	Consumer Consumer `json:"consumer"`
	Scope    string   `json:"scope"`
	ClientID string   `json:"client_id,omitempty"`
	jwt.RegisteredClaims
}

// Scopes splits the scope claim.
func (c *AccessTokenClaims) Scopes() []string {
	return strings.Fields(c.Scope)
}

// JWTService issues and validates HMAC signed access tokens.
type JWTService struct {
	signingKey []byte
	issuer     string
	audience   string
	tokenTTL   time.Duration
}

func NewJWTService(signingKey string, issuer string, audience string, tokenTTL time.Duration) *JWTService {
	return &JWTService{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
		tokenTTL:   tokenTTL,
	}
}

// GenerateAccessToken issues a token for consumer carrying scopes.
// It returns the token and its JTI.
func (s *JWTService) GenerateAccessToken(
	ctx context.Context,
	consumer domain.Party,
	clientID string,
	scopes []string,
) (string, string, error) {
	if len(scopes) == 0 {
		return "", "", dErrors.New(dErrors.CodeInvalidAuthorizationRequest, "scopes cannot be empty")
	}
	if consumer.Kind() != domain.PartyKindOrganization {
		return "", "", dErrors.New(dErrors.CodeInvalidRequestor, "token consumer must be an organization")
	}

	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", "", err
	}
	jti := hex.EncodeToString(b)
	now := requestcontext.Now(ctx)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessTokenClaims{
		Consumer: Consumer{
			Authority: domain.SchemeISO6523,
			ID:        "0192:" + consumer.NorwegianOrganizationNumber,
		},
		Scope:    strings.Join(scopes, " "),
		ClientID: clientID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        jti,
		},
	})

	signed, err := token.SignedString(s.signingKey)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

func (s *JWTService) ValidateToken(tokenString string) (*AccessTokenClaims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &AccessTokenClaims{}, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*AccessTokenClaims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.Issuer != s.issuer {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token issuer")
	}
	if claims.Consumer.ID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has no consumer")
	}
	return claims, nil
}
