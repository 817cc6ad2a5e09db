package auth

import "errors"

var (
	ErrInvalidToken           = errors.New("invalid or missing token")
	ErrTokenExpired           = errors.New("token expired")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
)
