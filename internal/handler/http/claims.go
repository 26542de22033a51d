package http

import (
	"net/http"

	"github.com/cmlabs-hris/timeclock-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/jwt"
	"github.com/go-chi/jwtauth/v5"
)

// workerFromRequest returns the worker named by the verified access token.
func workerFromRequest(r *http.Request) (string, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return "", auth.ErrInvalidToken
	}
	worker, ok := claims[jwt.ClaimWorker].(string)
	if !ok || worker == "" {
		return "", auth.ErrInvalidToken
	}
	return worker, nil
}
