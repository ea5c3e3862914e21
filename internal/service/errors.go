package service

import (
	"errors"
	"fmt"
	"strings"
)

// Sales order workflow error kinds.
var (
	ErrInvalidCustomer       = errors.New("invalid customer")
	ErrInvalidItem           = errors.New("invalid item")
	ErrInvalidKegCodes       = errors.New("invalid keg codes")
	ErrPriceNotFound         = errors.New("price not found")
	ErrOrderNotEditable      = errors.New("order is not editable")
	ErrKegCodeCountMismatch  = errors.New("keg code count mismatch")
	ErrKegNotAvailable       = errors.New("keg not available")
	ErrKegProductMismatch    = errors.New("keg product mismatch")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrConfigMissing         = errors.New("configuration missing")
	ErrInvalidStatus         = errors.New("invalid status")
)

// Supporting error kinds.
var (
	ErrInvalidInput         = errors.New("invalid input")
	ErrInvalidKegTransition = errors.New("invalid keg transition")
	ErrInvalidSetting       = errors.New("invalid setting")
	ErrDuplicate            = errors.New("already exists")
)

// Not-found kinds.
var (
	ErrOrderNotFound       = errors.New("sales order not found")
	ErrInvoiceNotFound     = errors.New("invoice not found")
	ErrCustomerNotFound    = errors.New("customer not found")
	ErrKegNotFound         = errors.New("keg not found")
	ErrInventoryNotFound   = errors.New("inventory record not found")
	ErrProductNotFound     = errors.New("product not found")
	ErrPackageTypeNotFound = errors.New("package type not found")
	ErrSettingNotFound     = errors.New("setting not found")
)

// ValidationError is one rejected input. Err is the kind, Details the
// human readable reason.
type ValidationError struct {
	Err     error
	Details string
}

func (e *ValidationError) Error() string {
	if e.Details == "" {
		return e.Err.Error()
	}
	return e.Details
}

func (e *ValidationError) Unwrap() error { return e.Err }

func invalid(kind error, format string, args ...interface{}) *ValidationError {
	return &ValidationError{Err: kind, Details: fmt.Sprintf(format, args...)}
}

// ValidationErrors collects every failure of one request.
type ValidationErrors []*ValidationError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

func (v ValidationErrors) Unwrap() []error {
	errs := make([]error, len(v))
	for i, e := range v {
		errs[i] = e
	}
	return errs
}

// err returns nil for an empty collection so callers can `return errs.err()`.
func (v ValidationErrors) err() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// IsValidation reports whether err was caused by rejected input.
func IsValidation(err error) bool {
	var single *ValidationError
	var many ValidationErrors
	return errors.As(err, &single) || errors.As(err, &many)
}

// IsNotFound reports whether err is one of the not-found kinds.
func IsNotFound(err error) bool {
	for _, kind := range []error{
		ErrOrderNotFound, ErrInvoiceNotFound, ErrCustomerNotFound, ErrKegNotFound,
		ErrInventoryNotFound, ErrProductNotFound, ErrPackageTypeNotFound, ErrSettingNotFound,
		ErrUserNotFound,
	} {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}
