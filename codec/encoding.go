package codec

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

var prefixBytes = []byte(Prefix)

// Encoding adapts the codec to golang.org/x/text/encoding. The encoder turns
// UTF-8 text into tokens and the decoder reverses it with the codec's policy.
func (c *Codec) Encoding() encoding.Encoding {
	return textEncoding{codec: c}
}

type textEncoding struct {
	codec *Codec
}

func (e textEncoding) NewEncoder() *encoding.Encoder {
	if e.codec.scheme == SchemeFramed {
		return &encoding.Encoder{Transformer: framedEncoder{}}
	}
	return &encoding.Encoder{Transformer: legacyEncoder{}}
}

func (e textEncoding) NewDecoder() *encoding.Decoder {
	if e.codec.scheme == SchemeFramed {
		return &encoding.Decoder{Transformer: &framedDecoder{}}
	}
	return &encoding.Decoder{Transformer: &legacyDecoder{codec: e.codec}}
}

// splitPrefix reports whether rest may be the beginning of a Prefix cut by the buffer end.
func splitPrefix(rest []byte, atEOF bool) bool {
	return !atEOF && len(rest) < len(Prefix) && bytes.HasPrefix(prefixBytes, rest)
}

type legacyEncoder struct{ transform.NopResetter }

func (legacyEncoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	var scratch [2 * (len(Prefix) + 4)]byte
	for nSrc < len(src) {
		if c := src[nSrc]; c < utf8.RuneSelf {
			if nDst == len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			nSrc++
			continue
		}
		if !atEOF && !utf8.FullRune(src[nSrc:]) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		r, size := utf8.DecodeRune(src[nSrc:])
		out := appendLegacy(scratch[:0], r)
		if nDst+len(out) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], out)
		nSrc += size
	}
	return nDst, nSrc, nil
}

// legacyDecoder is the incremental form of Codec.Decode for the legacy scheme.
// Only the parse state of the current fragment is kept, not its text.
type legacyDecoder struct {
	codec   *Codec
	scanner fragmentScanner
	index   int
	out     unitWriter
}

func (d *legacyDecoder) Reset() {
	d.scanner.reset()
	d.index = 0
	d.out = unitWriter{buf: d.out.buf[:0]}
}

func (d *legacyDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for {
		nDst += d.drain(dst[nDst:])
		if len(d.out.buf) > 0 {
			return nDst, nSrc, transform.ErrShortDst
		}
		if nSrc == len(src) {
			break
		}
		rest := src[nSrc:]
		if bytes.HasPrefix(rest, prefixBytes) {
			if err = d.endFragment(); err != nil {
				return nDst, nSrc, err
			}
			nSrc += len(Prefix)
			continue
		}
		if splitPrefix(rest, atEOF) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		if !atEOF && !utf8.FullRune(rest) {
			return nDst, nSrc, transform.ErrShortSrc
		}
		r, size := utf8.DecodeRune(rest)
		d.scanner.feed(r)
		nSrc += size
	}
	if !atEOF {
		return nDst, nSrc, nil
	}
	if err = d.endFragment(); err != nil {
		return nDst, nSrc, err
	}
	d.out.flush()
	nDst += d.drain(dst[nDst:])
	if len(d.out.buf) > 0 {
		return nDst, nSrc, transform.ErrShortDst
	}
	return nDst, nSrc, nil
}

func (d *legacyDecoder) endFragment() error {
	seen := d.scanner.seen
	unit, ok := d.scanner.unit()
	index := d.index
	d.scanner.reset()
	d.index++
	switch {
	case !seen:
		return nil
	case ok:
		d.out.writeUnit(unit)
		return nil
	}
	return d.codec.invalid(&d.out, index, "")
}

func (d *legacyDecoder) drain(dst []byte) int {
	n := copy(dst, d.out.buf)
	d.out.buf = append(d.out.buf[:0], d.out.buf[n:]...)
	return n
}

type framedEncoder struct{ transform.NopResetter }

func (framedEncoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	var scratch [len(Prefix) + 1 + maxFramedDigits]byte
	for nSrc < len(src) {
		rest := src[nSrc:]
		var (
			out  []byte
			size int
		)
		switch {
		case bytes.HasPrefix(rest, prefixBytes):
			out = append(append(scratch[:0], Prefix...), '0')
			size = len(Prefix)
		case splitPrefix(rest, atEOF):
			return nDst, nSrc, transform.ErrShortSrc
		case rest[0] < utf8.RuneSelf:
			out = append(scratch[:0], rest[0])
			size = 1
		default:
			if !atEOF && !utf8.FullRune(rest) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			var r rune
			r, size = utf8.DecodeRune(rest)
			out = appendFramed(scratch[:0], r)
		}
		if nDst+len(out) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], out)
		nSrc += size
	}
	return nDst, nSrc, nil
}

// framedDecoder tracks the stream offset so that token errors point into the whole input.
type framedDecoder struct {
	offset int
}

func (d *framedDecoder) Reset() { d.offset = 0 }

func (d *framedDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	defer func() { d.offset += nSrc }()
	var scratch [utf8.UTFMax]byte
	for nSrc < len(src) {
		rest := src[nSrc:]
		if !bytes.HasPrefix(rest, prefixBytes) {
			if splitPrefix(rest, atEOF) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			if nDst == len(dst) {
				return nDst, nSrc, transform.ErrShortDst
			}
			dst[nDst] = rest[0]
			nDst++
			nSrc++
			continue
		}
		r, size, terr := readFramedToken(rest)
		if terr == ErrTruncated && !atEOF {
			return nDst, nSrc, transform.ErrShortSrc
		}
		if terr != nil {
			return nDst, nSrc, &TokenError{Offset: d.offset + nSrc, Err: terr}
		}
		out := prefixBytes
		if r != literalMarker {
			out = scratch[:utf8.EncodeRune(scratch[:], r)]
		}
		if nDst+len(out) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += copy(dst[nDst:], out)
		nSrc += size
	}
	return nDst, nSrc, nil
}
