package models

import "errors"

// ErrorKind classifies failures so handlers can tell expected business-rule
// rejections apart from real errors.
type ErrorKind string

const (
	KindUnknown         ErrorKind = ""
	KindNotFound        ErrorKind = "not_found"
	KindUnauthenticated ErrorKind = "unauthenticated"
	KindForbidden       ErrorKind = "forbidden"
	KindDuplicateVote   ErrorKind = "duplicate_vote"
	KindDuplicateReview ErrorKind = "duplicate_review"
	KindValidation      ErrorKind = "validation"
	KindRejected        ErrorKind = "rejected"
	KindTransport       ErrorKind = "transport"
)

type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches on kind so wrapped copies compare equal to the sentinels.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

var (
	ErrNotFound        = &Error{Kind: KindNotFound, Message: "not found"}
	ErrUnauthenticated = &Error{Kind: KindUnauthenticated, Message: "sign in required"}
	ErrDuplicateVote   = &Error{Kind: KindDuplicateVote, Message: "you have already upvoted this review"}
	ErrDuplicateReview = &Error{Kind: KindDuplicateReview, Message: "you have already reviewed this location"}
)

func NotFound(what string) error {
	return &Error{Kind: KindNotFound, Message: what + " not found"}
}

func Invalid(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

func Forbidden(msg string) error {
	return &Error{Kind: KindForbidden, Message: msg}
}

func Rejected(msg string) error {
	return &Error{Kind: KindRejected, Message: msg}
}

func Transport(msg string, err error) error {
	return &Error{Kind: KindTransport, Message: msg, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsExpected reports whether err is a business-rule outcome that should be
// shown as information rather than as a failure.
func IsExpected(err error) bool {
	switch KindOf(err) {
	case KindDuplicateVote, KindDuplicateReview, KindUnauthenticated:
		return true
	}
	return false
}
