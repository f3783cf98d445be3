package auth

import (
	"context"

	appauth "github.com/bakehouse/backend/internal/application/auth"
	"github.com/bakehouse/backend/internal/domain/identity"
)

// TokenIssuer adapts JWTService and the blacklist to the application
// auth interface.
type TokenIssuer struct {
	jwt       *JWTService
	blacklist TokenBlacklist
}

// NewTokenIssuer creates a TokenIssuer.
func NewTokenIssuer(jwt *JWTService, blacklist TokenBlacklist) *TokenIssuer {
	return &TokenIssuer{jwt: jwt, blacklist: blacklist}
}

// Issue mints an access/refresh pair for an actor.
func (t *TokenIssuer) Issue(actor identity.Actor) (*appauth.TokenPair, error) {
	pair, err := t.jwt.GenerateTokenPair(GenerateTokenInput{
		UserID:        actor.UserID,
		Username:      actor.Username,
		WarehouseCode: actor.WarehouseCode,
		BranchCode:    actor.BranchCode,
		Capabilities:  actor.Capabilities,
	})
	if err != nil {
		return nil, err
	}
	return &appauth.TokenPair{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    int64(t.jwt.GetAccessTokenExpiration().Seconds()),
	}, nil
}

// RefreshSubject validates a refresh token and returns its username.
func (t *TokenIssuer) RefreshSubject(refreshToken string) (string, error) {
	claims, err := t.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return "", err
	}
	return claims.Username, nil
}

// Revoke blacklists an access token for its remaining lifetime.
func (t *TokenIssuer) Revoke(ctx context.Context, accessToken string) error {
	claims, err := t.jwt.ValidateAccessToken(accessToken)
	if err != nil {
		return err
	}
	ttl := claims.GetRemainingTTL()
	if ttl <= 0 {
		return nil
	}
	return t.blacklist.AddToBlacklist(ctx, claims.ID, ttl)
}

var _ appauth.TokenIssuer = (*TokenIssuer)(nil)
