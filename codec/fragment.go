package codec

import (
	"math"
	"math/big"
	"unicode"
)

type scanPhase uint8

const (
	phaseLead scanPhase = iota
	phaseSign
	phaseZero
	phasePrefix
	phaseDigits
	phaseDone
)

// maxDigits is the number of significant hex digits kept; 16^256 is already past float64 range.
const maxDigits = 256

// fragmentScanner reads a fragment rune by rune with parseInt(fragment, 16) rules:
// leading white space, an optional sign, an optional 0x prefix, then the
// longest run of hex digits. Everything after the digits is ignored.
type fragmentScanner struct {
	phase     scanPhase
	seen      bool
	negative  bool
	hasDigits bool
	overflow  bool
	digits    []byte
}

// feed consumes r and reports whether the scanner still accepts input.
func (s *fragmentScanner) feed(r rune) bool {
	s.seen = true
	switch s.phase {
	case phaseLead:
		if isSpace(r) {
			return true
		}
		switch r {
		case '-':
			s.negative = true
			s.phase = phaseSign
			return true
		case '+':
			s.phase = phaseSign
			return true
		}
		return s.start(r)
	case phaseSign:
		return s.start(r)
	case phaseZero:
		if r == 'x' || r == 'X' {
			s.phase = phasePrefix
			s.hasDigits = false
			return true
		}
		return s.digit(r)
	case phasePrefix, phaseDigits:
		return s.digit(r)
	}
	return false
}

func (s *fragmentScanner) start(r rune) bool {
	if r == '0' {
		s.hasDigits = true
		s.phase = phaseZero
		return true
	}
	return s.digit(r)
}

func (s *fragmentScanner) digit(r rune) bool {
	v, ok := hexValue(r)
	if !ok {
		s.phase = phaseDone
		return false
	}
	s.hasDigits = true
	s.phase = phaseDigits
	switch {
	case len(s.digits) == 0 && v == 0:
	case len(s.digits) == maxDigits:
		s.overflow = true
	default:
		s.digits = append(s.digits, byte(v))
	}
	return true
}

// unit converts the parsed number to a UTF-16 code unit the way
// String.fromCharCode does. ok is false when the fragment had no digits.
func (s *fragmentScanner) unit() (unit uint16, ok bool) {
	if !s.hasDigits {
		return 0, false
	}
	if s.overflow {
		return 0, true
	}
	var low uint64
	if len(s.digits) <= 13 {
		var v uint64
		for _, d := range s.digits {
			v = v<<4 | uint64(d)
		}
		low = v & 0xffff
	} else {
		// past 2^53 the value is first rounded to the nearest float64
		x := new(big.Int)
		for _, d := range s.digits {
			x.Lsh(x, 4)
			x.Or(x, big.NewInt(int64(d)))
		}
		f, _ := new(big.Float).SetInt(x).Float64()
		if math.IsInf(f, 0) {
			return 0, true
		}
		low = uint64(math.Mod(f, 1<<16))
	}
	if s.negative && low != 0 {
		low = 1<<16 - low
	}
	return uint16(low), true
}

// reset clears s for the next fragment, keeping the digit buffer.
func (s *fragmentScanner) reset() {
	*s = fragmentScanner{digits: s.digits[:0]}
}

func hexValue(r rune) (int, bool) {
	switch {
	case '0' <= r && r <= '9':
		return int(r - '0'), true
	case 'a' <= r && r <= 'f':
		return int(r-'a') + 10, true
	case 'A' <= r && r <= 'F':
		return int(r-'A') + 10, true
	}
	return 0, false
}

// isSpace matches the white space and line terminators skipped before a number.
func isSpace(r rune) bool {
	switch r {
	case '\t', '\n', '\v', '\f', '\r', ' ', 0xa0, 0xfeff, 0x2028, 0x2029:
		return true
	}
	return unicode.Is(unicode.Zs, r)
}
