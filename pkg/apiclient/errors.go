package apiclient

import (
	"errors"
	"fmt"
)

// ErrorKind classifies every failure the client can return. The set is closed.
type ErrorKind int

const (
	// KindInvalidConfig: key or IV size (or a required field) rejected at construction.
	KindInvalidConfig ErrorKind = iota + 1
	// KindTransport: network failure, timeout or non-200 status.
	KindTransport
	// KindSerialization: request body could not be encoded or the response envelope decoded.
	KindSerialization
	// KindDecode: the response data field is not valid hex.
	KindDecode
	// KindDecryption: ciphertext length or padding rejected by the cipher.
	KindDecryption
	// KindEncoding: decrypted bytes are not valid UTF-8.
	KindEncoding
)

func (k ErrorKind) String() string {
	switch k {
	case KindInvalidConfig:
		return "invalid config"
	case KindTransport:
		return "transport error"
	case KindSerialization:
		return "serialization error"
	case KindDecode:
		return "decode error"
	case KindDecryption:
		return "decryption error"
	case KindEncoding:
		return "encoding error"
	default:
		return fmt.Sprintf("unknown error kind %d", int(k))
	}
}

// Sentinels matching each kind, for errors.Is.
var (
	ErrInvalidConfig = errors.New("invalid config")
	ErrTransport     = errors.New("transport error")
	ErrSerialization = errors.New("serialization error")
	ErrDecode        = errors.New("decode error")
	ErrDecryption    = errors.New("decryption error")
	ErrEncoding      = errors.New("encoding error")
)

func (k ErrorKind) sentinel() error {
	switch k {
	case KindInvalidConfig:
		return ErrInvalidConfig
	case KindTransport:
		return ErrTransport
	case KindSerialization:
		return ErrSerialization
	case KindDecode:
		return ErrDecode
	case KindDecryption:
		return ErrDecryption
	case KindEncoding:
		return ErrEncoding
	default:
		return nil
	}
}

// Error is the only error type returned by New and Send.
type Error struct {
	Kind ErrorKind
	// Op names the step that failed, e.g. "decrypt response".
	Op  string
	Err error
}

func newError(kind ErrorKind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Kind, e.Op)
	}
	return fmt.Sprintf("%s: %s: %v", e.Kind, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports a match against the sentinel for e.Kind, so errors.Is(err, ErrDecode) works
// without callers unpacking the struct.
func (e *Error) Is(target error) bool {
	s := e.Kind.sentinel()
	return s != nil && target == s
}

// KindOf returns the kind of the first *Error in err's chain, or 0 if there is none.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

// StatusError carries a non-200 response. It is wrapped in an *Error of KindTransport.
type StatusError struct {
	StatusCode int
	Status     string
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("server returned status %s", e.Status)
	}
	return fmt.Sprintf("server returned status %s: %s", e.Status, e.Body)
}
