package codec

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidFragment is reported by the reject policy for a fragment with no hex digits.
	ErrInvalidFragment = errors.New("invalid fragment")
	// ErrTruncated reports a framed token cut short by the end of input.
	ErrTruncated = errors.New("truncated token")
	// ErrInvalidToken reports a malformed framed token.
	ErrInvalidToken = errors.New("invalid token")

	ErrUnknownScheme = errors.New("unknown scheme")
	ErrUnknownPolicy = errors.New("unknown policy")
)

// FragmentError describes a legacy fragment rejected by PolicyReject.
type FragmentError struct {
	// Index is the fragment position after splitting on the marker; 0 is the text before the first marker.
	Index int
	// Fragment is the raw fragment text; empty when decoding a stream.
	Fragment string
}

func (e *FragmentError) Error() string {
	if e.Fragment == "" {
		return fmt.Sprintf("fragment %d: %v", e.Index, ErrInvalidFragment)
	}
	return fmt.Sprintf("fragment %d %q: %v", e.Index, e.Fragment, ErrInvalidFragment)
}

func (e *FragmentError) Unwrap() error { return ErrInvalidFragment }

// TokenError describes a framed token that could not be decoded.
type TokenError struct {
	// Offset is the byte offset of the token marker in the input.
	Offset int
	Err    error
}

func (e *TokenError) Error() string {
	return fmt.Sprintf("token at offset %d: %v", e.Offset, e.Err)
}

func (e *TokenError) Unwrap() error { return e.Err }
