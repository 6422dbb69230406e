package models

import "errors"

var (
	ErrInvalidURL   = errors.New("invalid product URL")
	ErrDuplicateURL = errors.New("product URL is already tracked")
	ErrNotFound     = errors.New("product URL is not tracked")
	ErrNetwork      = errors.New("network error")
	ErrHTTP         = errors.New("http error")
	ErrParse        = errors.New("parse error")
	ErrNotify       = errors.New("notification failed")
	ErrConfig       = errors.New("invalid alert configuration")
)
