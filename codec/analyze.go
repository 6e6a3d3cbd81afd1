package codec

import (
	"strings"
	"unicode/utf16"
)

// Analysis describes how a string fares under both schemes.
type Analysis struct {
	// Units is the number of UTF-16 code units.
	Units int `json:"units"`
	// ASCIIUnits counts units at or below 127.
	ASCIIUnits int `json:"asciiUnits"`
	// LegacyTokens counts units above 127, one legacy token each.
	LegacyTokens int `json:"legacyTokens"`
	// FramedTokens counts runes above 127 plus escaped markers.
	FramedTokens int `json:"framedTokens"`
	// Markers counts literal occurrences of Prefix.
	Markers int `json:"markers"`
	// LegacyRoundTrip reports whether Decode(Encode(s)) == s.
	LegacyRoundTrip bool `json:"legacyRoundTrip"`
}

// Analyze inspects input.
func Analyze(input string) *Analysis {
	ret := &Analysis{Markers: strings.Count(input, Prefix)}
	for _, r := range input {
		n := utf16.RuneLen(r)
		if n < 0 {
			n = 1
		}
		ret.Units += n
		if r <= maxPlain {
			ret.ASCIIUnits++
			continue
		}
		ret.LegacyTokens += n
		ret.FramedTokens++
	}
	ret.FramedTokens += ret.Markers
	ret.LegacyRoundTrip = Decode(Encode(input)) == input
	return ret
}
