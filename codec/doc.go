// Package codec implements the xn-- placeholder text transform.
//
// The legacy pair (Encode, Decode) is a stand-in for a deprecated
// character-encoding module. Encode replaces every UTF-16 code unit above 127
// with "xn--" followed by the lowercase hex value of the unit. Decode splits
// on "xn--" and parses every fragment, including the leading one, the way
// JavaScript's parseInt(fragment, 16) followed by String.fromCharCode does:
//
//	Encode("é")         == "xn--e9"
//	Decode("xn--e9")    == "é"
//	Decode("xn--e9abc") == "骼" // 0xe9abc keeps its low 16 bits
//	Decode("abc")       == "઼" // plain text is parsed as hex too
//	Decode("hello")     == "\x00"   // unparseable fragment
//
// The pair is not a round trip. Decode(Encode(s)) == s only holds when every
// code unit of s is above 127.
//
// # Framed scheme
//
// The framed scheme carries the digit count after the marker, so tokens
// never absorb the text that follows them:
//
//	EncodeFramed("é1")     == "xn--2e91"
//	EncodeFramed("xn--")   == "xn--0"
//
// DecodeFramed(EncodeFramed(s)) == s for every valid UTF-8 string.
//
// # Streaming
//
// Codec.Encoding adapts either scheme to golang.org/x/text/encoding so that
// large inputs can be transformed with transform.NewReader.
package codec
