package domain

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by services and handlers.
// Services wrap these with fmt.Errorf("%w: ...") and handlers map them with errors.Is.
var (
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrInvalidRequest    = errors.New("invalid request")
	ErrNotFound          = errors.New("not found")
	ErrPaymentIncomplete = errors.New("payment not completed")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Account errors
var (
	ErrAccountNotFound     = fmt.Errorf("account %w", ErrNotFound)
	ErrCannotDeleteSelf    = fmt.Errorf("%w: cannot delete your own account", ErrForbidden)
	ErrCannotChangeOwnRole = fmt.Errorf("%w: cannot change your own role or status", ErrForbidden)
)

// Donation request errors
var (
	ErrDonationRequestNotFound = fmt.Errorf("donation request %w", ErrNotFound)
)
