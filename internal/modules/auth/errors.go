package auth

import "hotelstay/internal/pkg/errs"

var (
	ErrInvalidCredentials = errs.Unauthorized("invalid credentials")
	ErrAccountDisabled    = errs.Forbidden("account is disabled")
)
