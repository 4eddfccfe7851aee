package service

import "errors"

var (
	// ErrUnauthorized means the supplied password matched no credential.
	ErrUnauthorized = errors.New("invalid password")

	// ErrForbidden means the password is valid but scoped to another
	// country.
	ErrForbidden = errors.New("no access to this country")

	// ErrUnknownCategory means the requested category does not exist in
	// the country's data.
	ErrUnknownCategory = errors.New("category not found")

	// ErrListingNotFound means no listing with the given id exists in
	// the requested category.
	ErrListingNotFound = errors.New("listing not found")

	// ErrInvalidCaptcha means the captcha answer was wrong, expired or
	// already used.
	ErrInvalidCaptcha = errors.New("invalid captcha")

	// ErrMissingFields means a submission lacks a required field.
	ErrMissingFields = errors.New("title, description and telegram contact are required")
)
