package auth

import "github.com/cmlabs-hris/timeclock-backend-go/internal/pkg/validator"

type LoginRequest struct {
	Worker   string `json:"worker"`
	Password string `json:"password"`
}

func (r *LoginRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Worker) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker",
			Message: "worker is required",
		})
	} else if !validator.IsValidWorkerIdentity(r.Worker) {
		errs = append(errs, validator.ValidationError{
			Field:   "worker",
			Message: "worker may only contain letters, numbers, spaces, dots, underscores, and hyphens",
		})
	}

	if validator.IsEmpty(r.Password) {
		errs = append(errs, validator.ValidationError{
			Field:   "password",
			Message: "password is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type TokenResponse struct {
	Worker               string `json:"worker"`
	AccessToken          string `json:"access_token"`
	AccessTokenExpiresIn int64  `json:"access_token_expires_in"`
}
