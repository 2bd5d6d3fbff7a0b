package services

import "errors"

var (
	ErrValidation = errors.New("[service]: validation error")
	ErrConflict   = errors.New("[service]: short code is already taken")
	ErrNotFound   = errors.New("[service]: link not found")
	ErrExhausted  = errors.New("[service]: failed to generate unique short code")
	ErrUnknown    = errors.New("[service]: unknown error")
)

// Внутренние причины ErrNotFound при переходе по ссылке. Наружу не отдаются, только в логи.
var (
	ErrLinkExpired      = errors.New("link has expired")
	ErrLinkLimitReached = errors.New("link has reached its click limit")
)
