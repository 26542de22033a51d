package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/worker"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	testAccessExp = "1h"
	testSecret    = "test-secret-key-for-jwt"
)

// mockDirectory lets a test replace Verify.
type mockDirectory struct {
	worker.Directory
	VerifyFunc func(id, password string) error
}

func (m *mockDirectory) Verify(id, password string) error {
	return m.VerifyFunc(id, password)
}

func newAuthService(t *testing.T, workers worker.Directory) (auth.AuthService, jwt.Service) {
	t.Helper()
	jwtService, err := jwt.NewJWTService(testSecret, testAccessExp)
	require.NoError(t, err)
	return NewAuthService(workers, jwtService), jwtService
}

func TestLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("hashed-pass"), bcrypt.MinCost)
	require.NoError(t, err)

	workers := worker.NewCredentialTable(map[string]string{
		"ana":  "plain-pass",
		"luis": string(hash),
	})
	svc, jwtService := newAuthService(t, workers)

	tests := []struct {
		name     string
		req      auth.LoginRequest
		wantErr  error
		validate bool
	}{
		{name: "plain password", req: auth.LoginRequest{Worker: "ana", Password: "plain-pass"}},
		{name: "bcrypt password", req: auth.LoginRequest{Worker: "luis", Password: "hashed-pass"}},
		{name: "wrong password", req: auth.LoginRequest{Worker: "ana", Password: "nope"}, wantErr: auth.ErrInvalidCredentials},
		{name: "unknown worker", req: auth.LoginRequest{Worker: "mallory", Password: "plain-pass"}, wantErr: auth.ErrInvalidCredentials},
		{name: "missing password", req: auth.LoginRequest{Worker: "ana"}, validate: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := svc.Login(context.Background(), tt.req)

			if tt.validate {
				var verrs validator.ValidationErrors
				assert.ErrorAs(t, err, &verrs)
				return
			}
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.req.Worker, resp.Worker)

			token, err := jwtService.JWTAuth().Decode(resp.AccessToken)
			require.NoError(t, err)
			claim, _ := token.Get(jwt.ClaimWorker)
			assert.Equal(t, tt.req.Worker, claim)
		})
	}
}

func TestLogin_DirectoryFailure(t *testing.T) {
	boom := errors.New("directory unavailable")
	svc, _ := newAuthService(t, &mockDirectory{VerifyFunc: func(id, password string) error { return boom }})

	_, err := svc.Login(context.Background(), auth.LoginRequest{Worker: "ana", Password: "x"})
	assert.ErrorIs(t, err, boom)
}

func TestLogout(t *testing.T) {
	svc, jwtService := newAuthService(t, worker.NewCredentialTable(map[string]string{"ana": "pw"}))

	resp, err := svc.Login(context.Background(), auth.LoginRequest{Worker: "ana", Password: "pw"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), resp.AccessToken, resp.AccessTokenExpiresIn))
	assert.True(t, jwtService.IsTokenRevoked(resp.AccessToken))

	assert.ErrorIs(t, svc.Logout(context.Background(), "", 0), auth.ErrInvalidToken)
}
