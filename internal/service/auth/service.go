package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/worker"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
)

type AuthServiceImpl struct {
	workers worker.Directory
	jwt.Service
}

func NewAuthService(workers worker.Directory, jwtService jwt.Service) auth.AuthService {
	return &AuthServiceImpl{
		workers: workers,
		Service: jwtService,
	}
}

// Login implements auth.AuthService.
func (a *AuthServiceImpl) Login(ctx context.Context, req auth.LoginRequest) (auth.TokenResponse, error) {
	if err := req.Validate(); err != nil {
		return auth.TokenResponse{}, err
	}

	if err := a.workers.Verify(req.Worker, req.Password); err != nil {
		if errors.Is(err, worker.ErrInvalidCredentials) {
			return auth.TokenResponse{}, auth.ErrInvalidCredentials
		}
		return auth.TokenResponse{}, fmt.Errorf("failed to verify credentials: %w", err)
	}

	token, expiresAt, err := a.Service.GenerateAccessToken(req.Worker)
	if err != nil {
		return auth.TokenResponse{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	return auth.TokenResponse{
		Worker:               req.Worker,
		AccessToken:          token,
		AccessTokenExpiresIn: expiresAt,
	}, nil
}

// Logout implements auth.AuthService.
func (a *AuthServiceImpl) Logout(ctx context.Context, token string, expiresAt int64) error {
	if token == "" {
		return auth.ErrInvalidToken
	}
	a.Service.RevokeToken(token, expiresAt)
	return nil
}
