// Package auth implements login, token refresh and logout on top of
// the identity domain. Token mechanics live in infrastructure; this
// package only orchestrates them against the user store.
package auth

import (
	"context"

	"github.com/bakehouse/backend/internal/application/posting"
	"github.com/bakehouse/backend/internal/domain/identity"
	"github.com/bakehouse/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TokenPair is one issued access/refresh token pair.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// TokenIssuer mints and revokes token pairs for authenticated actors.
type TokenIssuer interface {
	Issue(actor identity.Actor) (*TokenPair, error)
	// RefreshSubject validates a refresh token and returns the username
	// it was issued to.
	RefreshSubject(refreshToken string) (string, error)
	// Revoke blacklists an access token for its remaining lifetime.
	Revoke(ctx context.Context, accessToken string) error
}

// PasswordVerifier checks a plaintext password against a stored hash.
type PasswordVerifier interface {
	Verify(hash, password string) error
}

// LoginRequest carries login credentials.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest carries a refresh token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LoginResult is the token pair plus the resolved actor profile.
type LoginResult struct {
	Tokens TokenPair      `json:"tokens"`
	User   *identity.User `json:"user"`
}

// Service authenticates users and manages their sessions.
type Service struct {
	scope    posting.TransactionScope
	tokens   TokenIssuer
	verifier PasswordVerifier
	logger   *zap.Logger
}

// NewService creates an auth Service.
func NewService(scope posting.TransactionScope, tokens TokenIssuer, verifier PasswordVerifier, logger *zap.Logger) *Service {
	return &Service{scope: scope, tokens: tokens, verifier: verifier, logger: logger}
}

// Login verifies credentials and issues a token pair. Inactive users
// and bad passwords both come back as a generic credential failure.
func (s *Service) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	user, err := s.loadUser(ctx, req.Username)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.Active {
		return nil, shared.ErrInvalidCredentials
	}
	if err := s.verifier.Verify(user.PasswordHash, req.Password); err != nil {
		s.logger.Warn("login rejected", zap.String("username", req.Username))
		return nil, shared.ErrInvalidCredentials
	}

	pair, err := s.tokens.Issue(identity.ActorFromUser(user))
	if err != nil {
		return nil, err
	}

	s.logger.Info("login", zap.String("username", user.Username), zap.String("warehouse", user.WarehouseCode))
	return &LoginResult{Tokens: *pair, User: user}, nil
}

// Refresh exchanges a refresh token for a fresh pair. Capabilities are
// reloaded from the user row so revoked grants take effect on the next
// refresh at latest.
func (s *Service) Refresh(ctx context.Context, req RefreshRequest) (*LoginResult, error) {
	username, err := s.tokens.RefreshSubject(req.RefreshToken)
	if err != nil {
		return nil, shared.ErrInvalidToken
	}
	user, err := s.loadUser(ctx, username)
	if err != nil {
		return nil, shared.ErrInvalidToken
	}
	if !user.Active {
		return nil, shared.ErrInvalidToken
	}

	pair, err := s.tokens.Issue(identity.ActorFromUser(user))
	if err != nil {
		return nil, err
	}
	return &LoginResult{Tokens: *pair, User: user}, nil
}

// Logout blacklists the presented access token.
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	return s.tokens.Revoke(ctx, accessToken)
}

// Me returns the profile behind an actor.
func (s *Service) Me(ctx context.Context, actor identity.Actor) (*identity.User, error) {
	return s.loadUser(ctx, actor.Username)
}

func (s *Service) loadUser(ctx context.Context, username string) (*identity.User, error) {
	var user *identity.User
	err := s.scope.Execute(ctx, func(r posting.Repos) error {
		u, err := r.Users().FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		user = u
		return nil
	})
	return user, err
}
