package sslcert

import "errors"

var (
	ErrCertExpired     = errors.New("certificate is expired")
	ErrCertNotValidYet = errors.New("certificate is not valid yet")
	ErrBlankPEM        = errors.New("pem is blank")
)
