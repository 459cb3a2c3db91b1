package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrUnreadableInput means the uploaded bytes cannot be parsed as the declared kind.
	ErrUnreadableInput = errors.New("unreadable input")
	// ErrInvalidParameter covers a bad date identifier or mode.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrConfirmationMismatch is only raised when the confirmation policy is enabled.
	ErrConfirmationMismatch = errors.New("confirmation mismatch")
)

// Rejection is the structured, human readable refusal returned by the
// extract and generate operations. Kind is one of the sentinels above.
type Rejection struct {
	Kind    error
	Message string
	Err     error
}

func (r *Rejection) Error() string {
	if r.Err != nil {
		return fmt.Sprintf("%s: %v", r.Message, r.Err)
	}
	return r.Message
}

func (r *Rejection) Unwrap() []error {
	errs := make([]error, 0, 2)
	if r.Kind != nil {
		errs = append(errs, r.Kind)
	}
	if r.Err != nil {
		errs = append(errs, r.Err)
	}
	return errs
}

func Unreadable(err error) *Rejection {
	return &Rejection{Kind: ErrUnreadableInput, Message: "cannot read file", Err: err}
}

func InvalidParameter(msg string) *Rejection {
	return &Rejection{Kind: ErrInvalidParameter, Message: msg}
}

func ConfirmationMismatch(msg string) *Rejection {
	return &Rejection{Kind: ErrConfirmationMismatch, Message: msg}
}

// Message returns the client facing text of err.
func Message(err error) string {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej.Error()
	}
	return err.Error()
}
