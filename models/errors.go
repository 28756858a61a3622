package models

import "errors"

// 领域错误，由 api 层映射为 HTTP 状态码
var (
	ErrNotFound           = errors.New("resource not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrAlreadyExists      = errors.New("resource already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingAmount      = errors.New("amount is required")
	ErrInvalidDirection   = errors.New("invalid adjust direction")
	ErrNameRequired       = errors.New("name is required")
)
