package codec

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// maxFramedDigits is the hex length of the largest code point, U+10FFFF.
const maxFramedDigits = 6

// literalMarker is returned by readFramedToken for an escaped Prefix.
const literalMarker rune = -1

// EncodeFramed replaces every rune above 127 with Prefix, one hex digit holding
// the digit count, and the lowercase hex code point. A literal Prefix in input
// is written as Prefix followed by "0". Invalid UTF-8 bytes encode as U+FFFD.
func EncodeFramed(input string) string {
	buf := make([]byte, 0, len(input))
	for i := 0; i < len(input); {
		if strings.HasPrefix(input[i:], Prefix) {
			buf = append(buf, Prefix...)
			buf = append(buf, '0')
			i += len(Prefix)
			continue
		}
		r, size := utf8.DecodeRuneInString(input[i:])
		buf = appendFramed(buf, r)
		i += size
	}
	return string(buf)
}

// DecodeFramed reverses EncodeFramed. Text outside tokens is copied as is.
func DecodeFramed(input string) (string, error) {
	buf := make([]byte, 0, len(input))
	for i := 0; i < len(input); {
		j := strings.Index(input[i:], Prefix)
		if j < 0 {
			buf = append(buf, input[i:]...)
			break
		}
		buf = append(buf, input[i:i+j]...)
		offset := i + j
		r, size, err := readFramedToken(input[offset:])
		if err != nil {
			return "", &TokenError{Offset: offset, Err: err}
		}
		buf = appendDecodedToken(buf, r)
		i = offset + size
	}
	return string(buf), nil
}

func appendFramed(dst []byte, r rune) []byte {
	if r <= maxPlain {
		return append(dst, byte(r))
	}
	var digits [maxFramedDigits]byte
	hex := strconv.AppendUint(digits[:0], uint64(r), 16)
	dst = append(dst, Prefix...)
	dst = append(dst, byte('0'+len(hex)))
	return append(dst, hex...)
}

func appendDecodedToken(dst []byte, r rune) []byte {
	if r == literalMarker {
		return append(dst, Prefix...)
	}
	return utf8.AppendRune(dst, r)
}

// readFramedToken decodes the token at the start of s, which must begin with Prefix.
// It returns literalMarker for an escaped Prefix and ErrTruncated when s ends inside the token.
func readFramedToken[T ~string | ~[]byte](s T) (r rune, size int, err error) {
	i := len(Prefix)
	if i >= len(s) {
		return 0, 0, ErrTruncated
	}
	n, ok := hexValue(rune(s[i]))
	if !ok || n > maxFramedDigits {
		return 0, 0, ErrInvalidToken
	}
	i++
	if n == 0 {
		return literalMarker, i, nil
	}
	if i+n > len(s) {
		return 0, 0, ErrTruncated
	}
	digits := string(s[i : i+n])
	if digits[0] == '0' {
		return 0, 0, ErrInvalidToken
	}
	v, perr := strconv.ParseUint(digits, 16, 32)
	if perr != nil || v <= maxPlain || !utf8.ValidRune(rune(v)) {
		return 0, 0, ErrInvalidToken
	}
	return rune(v), i + n, nil
}
