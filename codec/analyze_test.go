package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	var testCases = []struct {
		description string
		input       string
		expect      Analysis
	}{
		{description: "empty", input: "", expect: Analysis{LegacyRoundTrip: true}},
		{description: "ascii", input: "abc", expect: Analysis{Units: 3, ASCIIUnits: 3}},
		{description: "non-ascii only", input: "é日", expect: Analysis{Units: 2, LegacyTokens: 2, FramedTokens: 2, LegacyRoundTrip: true}},
		{description: "astral", input: "😀", expect: Analysis{Units: 2, LegacyTokens: 2, FramedTokens: 1, LegacyRoundTrip: true}},
		{description: "literal marker", input: "xn--é", expect: Analysis{Units: 5, ASCIIUnits: 4, LegacyTokens: 1, FramedTokens: 2, Markers: 1}},
		{description: "leading nul survives", input: "\x00é", expect: Analysis{Units: 2, ASCIIUnits: 1, LegacyTokens: 1, FramedTokens: 1, LegacyRoundTrip: true}},
	}
	for _, testCase := range testCases {
		assert.EqualValues(t, &testCase.expect, Analyze(testCase.input), testCase.description)
	}
}
