package types

import (
	"fmt"
	"strings"
)

// Category groups errors the way callers react to them
type Category string

const (
	ValidationCategory  Category = "ValidationError"
	PermissionCategory  Category = "PermissionError"
	TokenStateCategory  Category = "TokenStateError"
	NetworkCategory     Category = "NetworkError"
	TransactionCategory Category = "TransactionError"
	SessionCategory     Category = "SessionError"
)

// Error is the error value returned by every core component.
// Two errors match under errors.Is when their codes are equal.
type Error struct {
	Category Category
	Code     string
	Field    string
	Detail   string
	Err      error
}

func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Code)
	if e.Field != "" {
		sb.WriteString("{" + e.Field + "}")
	}
	if e.Detail != "" {
		sb.WriteString(": " + e.Detail)
	}
	if e.Err != nil {
		sb.WriteString(": " + e.Err.Error())
	}
	return sb.String()
}

// Is reports whether target carries the same code
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *Error) Unwrap() error {
	return e.Err
}

// WithDetail returns a copy of e carrying a human readable detail
func (e *Error) WithDetail(format string, args ...interface{}) *Error {
	c := *e
	c.Detail = fmt.Sprintf(format, args...)
	return &c
}

// Wrap returns a copy of e carrying the underlying cause
func (e *Error) Wrap(err error) *Error {
	c := *e
	c.Err = err
	return &c
}

var (
	ErrValidation      = &Error{Category: ValidationCategory, Code: "ValidationError"}
	ErrInvalidQuantity = &Error{Category: ValidationCategory, Code: "InvalidQuantity", Field: "quantity"}

	ErrNotOwner          = &Error{Category: PermissionCategory, Code: "NotOwner"}
	ErrNotCreator        = &Error{Category: PermissionCategory, Code: "NotCreator"}
	ErrUnsupportedWallet = &Error{Category: PermissionCategory, Code: "UnsupportedWallet"}

	ErrNotFactoryToken = &Error{Category: TokenStateCategory, Code: "NotFactoryToken"}
	ErrNotMintable     = &Error{Category: TokenStateCategory, Code: "NotMintable"}

	ErrUnknownChain        = &Error{Category: NetworkCategory, Code: "UnknownChain"}
	ErrUnrecognizedChain   = &Error{Category: NetworkCategory, Code: "UnrecognizedChain"}
	ErrNetworkSwitchFailed = &Error{Category: NetworkCategory, Code: "NetworkSwitchFailed"}
	ErrWrongNetwork        = &Error{Category: NetworkCategory, Code: "WrongNetwork"}
	ErrReadFailed          = &Error{Category: NetworkCategory, Code: "ReadFailed"}

	ErrUserRejected      = &Error{Category: TransactionCategory, Code: "UserRejected"}
	ErrInsufficientFunds = &Error{Category: TransactionCategory, Code: "InsufficientFunds"}
	ErrTransactionFailed = &Error{Category: TransactionCategory, Code: "Other"}

	ErrNoProviderAvailable    = &Error{Category: SessionCategory, Code: "NoProviderAvailable"}
	ErrNoChainSelected        = &Error{Category: SessionCategory, Code: "NoChainSelected"}
	ErrTransitionRejected     = &Error{Category: SessionCategory, Code: "TransitionRejected"}
	ErrNotConnected           = &Error{Category: SessionCategory, Code: "NotConnected"}
	ErrClientDetached         = &Error{Category: SessionCategory, Code: "ClientDetached"}
	ErrFeeScheduleUnavailable = &Error{Category: SessionCategory, Code: "FeeScheduleUnavailable"}
)

// NewValidationError reports an invalid input field
func NewValidationError(field, detail string) *Error {
	return &Error{Category: ValidationCategory, Code: ErrValidation.Code, Field: field, Detail: detail}
}
