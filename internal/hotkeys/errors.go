package hotkeys

import (
	"errors"
	"fmt"
)

var (
	// ErrHandlerMissing is returned by Update when no callback was ever
	// registered. Nothing is bound in that case.
	ErrHandlerMissing = errors.New("hotkey handler missing")

	// ErrRegistrationFailed matches every *RegistrationError.
	ErrRegistrationFailed = errors.New("hotkey registration failed")

	// ErrClosed is returned once the center has been closed.
	ErrClosed = errors.New("hotkey center closed")
)

// UnknownCode is reported when the backend gives no platform status code.
const UnknownCode = -1

// RegistrationError reports that the OS rejected a shortcut.
type RegistrationError struct {
	Shortcut Shortcut
	Code     int
	Err      error
}

func (e *RegistrationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("register hotkey %s failed (code %d): %v", e.Shortcut, e.Code, e.Err)
	}
	return fmt.Sprintf("register hotkey %s failed (code %d)", e.Shortcut, e.Code)
}

func (e *RegistrationError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrRegistrationFailed}
	}
	return []error{ErrRegistrationFailed, e.Err}
}

func asRegistrationError(s Shortcut, err error) *RegistrationError {
	var regErr *RegistrationError
	if errors.As(err, &regErr) {
		if regErr.Shortcut.IsZero() {
			regErr.Shortcut = s
		}
		return regErr
	}
	return &RegistrationError{Shortcut: s, Code: UnknownCode, Err: err}
}
