package domain

import "errors"

var (
	// ErrQuestionNotFound is returned when a question is not found
	ErrQuestionNotFound = errors.New("question not found")

	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")

	// ErrInvalidSignature is returned when a webhook signature fails verification
	ErrInvalidSignature = errors.New("invalid webhook signature")

	// ErrCacheMiss is returned when a cache lookup finds no entry
	ErrCacheMiss = errors.New("cache miss")
)
