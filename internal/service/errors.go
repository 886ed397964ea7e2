package service

import "errors"

var (
	ErrNotFound             = errors.New("not found")
	ErrForbidden            = errors.New("forbidden")
	ErrInvalidInput         = errors.New("invalid input")
	ErrConflict             = errors.New("document was modified by someone else")
	ErrAlreadyApproved      = errors.New("already approved")
	ErrAlreadyContractified = errors.New("already a contract")
	ErrNotApproved          = errors.New("document not approved yet")
	ErrInvalidCredentials   = errors.New("invalid credentials")
)
