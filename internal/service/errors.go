package service

import "errors"

var (
	ErrNotFound   = errors.New("error not found")
	ErrSuperseded = errors.New("error result superseded by a newer request")
)
