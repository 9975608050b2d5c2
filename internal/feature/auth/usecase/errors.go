// Package usecase implements the business logic for the auth feature.
package usecase

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned when a user cannot be found by username.
	ErrUserNotFound = errors.New("user not found")

	// ErrUsernameAlreadyExists is returned when registering a username that is already taken.
	ErrUsernameAlreadyExists = errors.New("username already exists")

	// ErrMissingFields is returned when username, email or password is blank.
	ErrMissingFields = errors.New("please fill in all the fields")

	// ErrPasswordMismatch is returned when the confirmation does not match the password.
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrPasswordTooShort is returned when the password is shorter than minPasswordLength.
	ErrPasswordTooShort = fmt.Errorf("password must be at least %d characters long", minPasswordLength)

	// ErrInvalidCredentials is returned for an unknown user or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")

	// ErrNotAuthenticated is returned when an operation requires an authenticated session.
	ErrNotAuthenticated = errors.New("not authenticated")
)
