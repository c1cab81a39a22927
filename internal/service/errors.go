package service

import "errors"

var (
	ErrValidation         = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateAccount   = errors.New("username or email already taken")
	ErrForbidden          = errors.New("forbidden")
	ErrPurchaseRequired   = errors.New("purchase required")
	ErrAlreadyPurchased   = errors.New("already purchased")
	ErrPaymentIncomplete  = errors.New("payment not completed")
)
