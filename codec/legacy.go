package codec

import (
	"strconv"
	"strings"
	"unicode/utf16"
	"unicode/utf8"
)

const (
	// Prefix marks an encoded token.
	Prefix = "xn--"
	// maxPlain is the highest code unit copied through unchanged.
	maxPlain = 127
)

var legacy = &Codec{scheme: SchemeLegacy, policy: PolicySubstitute}

// Encode replaces every UTF-16 code unit above 127 with Prefix and its lowercase hex value.
// Runes outside the Basic Multilingual Plane produce one token per surrogate.
func Encode(input string) string {
	buf := make([]byte, 0, len(input))
	for _, r := range input {
		buf = appendLegacy(buf, r)
	}
	return string(buf)
}

// Decode reverses Encode where it can. Fragments without hex digits decode to U+0000;
// Decode never fails.
func Decode(input string) string {
	out, _ := legacy.decodeLegacy(input)
	return out
}

func appendLegacy(dst []byte, r rune) []byte {
	if r <= maxPlain {
		return append(dst, byte(r))
	}
	if r > 0xffff {
		high, low := utf16.EncodeRune(r)
		dst = appendUnit(dst, uint16(high))
		return appendUnit(dst, uint16(low))
	}
	return appendUnit(dst, uint16(r))
}

func appendUnit(dst []byte, unit uint16) []byte {
	dst = append(dst, Prefix...)
	return strconv.AppendUint(dst, uint64(unit), 16)
}

func (c *Codec) decodeLegacy(input string) (string, error) {
	var (
		out     unitWriter
		scanner fragmentScanner
	)
	out.buf = make([]byte, 0, len(input))
	for i, fragment := range strings.Split(input, Prefix) {
		if fragment == "" {
			continue
		}
		scanner.reset()
		for _, r := range fragment {
			if !scanner.feed(r) {
				break
			}
		}
		if unit, ok := scanner.unit(); ok {
			out.writeUnit(unit)
			continue
		}
		if err := c.invalid(&out, i, fragment); err != nil {
			return "", err
		}
	}
	out.flush()
	return string(out.buf), nil
}

// unitWriter assembles decoded code units into UTF-8, pairing surrogates
// that arrive in consecutive tokens.
type unitWriter struct {
	buf  []byte
	high uint16
}

func (w *unitWriter) writeUnit(unit uint16) {
	r := rune(unit)
	if w.high != 0 {
		high := rune(w.high)
		w.high = 0
		if 0xdc00 <= r && r < 0xe000 {
			w.buf = utf8.AppendRune(w.buf, utf16.DecodeRune(high, r))
			return
		}
		w.buf = utf8.AppendRune(w.buf, utf8.RuneError)
	}
	if 0xd800 <= r && r < 0xdc00 {
		w.high = unit
		return
	}
	// lone low surrogates come out as RuneError
	w.buf = utf8.AppendRune(w.buf, r)
}

func (w *unitWriter) writeRune(r rune) {
	w.flush()
	w.buf = utf8.AppendRune(w.buf, r)
}

// flush emits RuneError for a high surrogate still waiting for its pair.
func (w *unitWriter) flush() {
	if w.high != 0 {
		w.high = 0
		w.buf = utf8.AppendRune(w.buf, utf8.RuneError)
	}
}
