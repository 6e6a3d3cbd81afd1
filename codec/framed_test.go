package codec

import (
	"errors"
	"testing"
	"testing/quick"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestEncodeFramed(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      string
	}{
		{description: "empty", input: "", expect: ""},
		{description: "ascii", input: "abc", expect: "abc"},
		{description: "latin-1", input: "é", expect: "xn--2e9"},
		{description: "digit after token", input: "é1", expect: "xn--2e91"},
		{description: "astral rune", input: "😀", expect: "xn--51f600"},
		{description: "max code point", input: "\U0010ffff", expect: "xn--610ffff"},
		{description: "literal prefix escaped", input: "xn--é", expect: "xn--0xn--2e9"},
		{description: "partial prefix", input: "xn-x", expect: "xn-x"},
	}
	for _, testCase := range testCases {
		assert.EqualValues(t, testCase.expect, EncodeFramed(testCase.input), testCase.description)
	}
}

func TestDecodeFramed(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      string
		expectErr   error
		offset      int
	}{
		{description: "empty", input: "", expect: ""},
		{description: "plain", input: "abc", expect: "abc"},
		{description: "token followed by digits", input: "xn--2e91", expect: "é1"},
		{description: "escaped prefix", input: "a xn--0b", expect: "a xn--b"},
		{description: "bare marker", input: "ab xn--", expectErr: ErrTruncated, offset: 3},
		{description: "short digits", input: "xn--4e9", expectErr: ErrTruncated},
		{description: "length out of range", input: "xn--7abcdefg", expectErr: ErrInvalidToken},
		{description: "length not hex", input: "xn--z", expectErr: ErrInvalidToken},
		{description: "digit not hex", input: "xn--2zz", expectErr: ErrInvalidToken},
		{description: "ascii code point", input: "xn--241", expectErr: ErrInvalidToken},
		{description: "leading zero", input: "xn--30e9", expectErr: ErrInvalidToken},
		{description: "surrogate", input: "xn--4d800", expectErr: ErrInvalidToken},
		{description: "beyond unicode", input: "xn--6110000", expectErr: ErrInvalidToken},
	}
	for _, testCase := range testCases {
		actual, err := DecodeFramed(testCase.input)
		if testCase.expectErr != nil {
			assert.ErrorIs(t, err, testCase.expectErr, testCase.description)
			var tokenErr *TokenError
			if assert.True(t, errors.As(err, &tokenErr), testCase.description) {
				assert.EqualValues(t, testCase.offset, tokenErr.Offset, testCase.description)
			}
			continue
		}
		assert.NoError(t, err, testCase.description)
		assert.EqualValues(t, testCase.expect, actual, testCase.description)
	}
}

func TestDecodeFramed_RoundTrip(t *testing.T) {
	property := func(s string) bool {
		if !utf8.ValidString(s) {
			return true
		}
		decoded, err := DecodeFramed(EncodeFramed(s))
		return err == nil && decoded == s
	}
	assert.NoError(t, quick.Check(property, nil))
	for _, s := range []string{"xn--", "xn--xn--", "xn--e9", "é1xn--0", "xén--"} {
		decoded, err := DecodeFramed(EncodeFramed(s))
		assert.NoError(t, err, s)
		assert.Equal(t, s, decoded)
	}
}
