package codec

import (
	"fmt"
	"strings"
)

// Scheme selects the token format.
type Scheme string

const (
	// SchemeLegacy is the unframed Prefix + hex(code unit) format.
	SchemeLegacy Scheme = "legacy"
	// SchemeFramed is the length-prefixed format, see EncodeFramed.
	SchemeFramed Scheme = "framed"
)

// ParseScheme resolves a scheme name; empty selects SchemeLegacy.
func ParseScheme(name string) (Scheme, error) {
	switch Scheme(strings.ToLower(strings.TrimSpace(name))) {
	case "", SchemeLegacy:
		return SchemeLegacy, nil
	case SchemeFramed:
		return SchemeFramed, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScheme, name)
}

// Policy controls how a legacy decode treats a fragment that has no hex digits.
type Policy string

const (
	// PolicySubstitute writes the substitute rune (U+0000 unless configured).
	PolicySubstitute Policy = "substitute"
	// PolicySkip drops the fragment.
	PolicySkip Policy = "skip"
	// PolicyReject fails the decode with a *FragmentError.
	PolicyReject Policy = "reject"
)

// ParsePolicy resolves a policy name; empty selects PolicySubstitute.
func ParsePolicy(name string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(name))) {
	case "", PolicySubstitute:
		return PolicySubstitute, nil
	case PolicySkip:
		return PolicySkip, nil
	case PolicyReject:
		return PolicyReject, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// Codec is a configured encoder/decoder. The zero value is not usable, use New.
// A Codec is immutable and safe for concurrent use.
type Codec struct {
	scheme     Scheme
	policy     Policy
	substitute rune
}

// Option configures a Codec.
type Option func(c *Codec)

// WithScheme sets the token format.
func WithScheme(scheme Scheme) Option {
	return func(c *Codec) { c.scheme = scheme }
}

// WithPolicy sets the invalid fragment policy for the legacy scheme.
func WithPolicy(policy Policy) Option {
	return func(c *Codec) { c.policy = policy }
}

// WithSubstitute sets the rune written by PolicySubstitute.
func WithSubstitute(r rune) Option {
	return func(c *Codec) { c.substitute = r }
}

// New creates a Codec; defaults match Encode and Decode.
func New(opts ...Option) *Codec {
	ret := &Codec{scheme: SchemeLegacy, policy: PolicySubstitute}
	for _, opt := range opts {
		opt(ret)
	}
	if ret.scheme == "" {
		ret.scheme = SchemeLegacy
	}
	if ret.policy == "" {
		ret.policy = PolicySubstitute
	}
	return ret
}

func (c *Codec) Scheme() Scheme { return c.scheme }
func (c *Codec) Policy() Policy { return c.policy }

// Encode transforms input with the configured scheme.
func (c *Codec) Encode(input string) string {
	if c.scheme == SchemeFramed {
		return EncodeFramed(input)
	}
	return Encode(input)
}

// Decode reverses Encode with the configured scheme and policy.
func (c *Codec) Decode(input string) (string, error) {
	if c.scheme == SchemeFramed {
		return DecodeFramed(input)
	}
	return c.decodeLegacy(input)
}

func (c *Codec) invalid(out *unitWriter, index int, fragment string) error {
	switch c.policy {
	case PolicySkip:
		return nil
	case PolicyReject:
		return &FragmentError{Index: index, Fragment: fragment}
	}
	out.writeRune(c.substitute)
	return nil
}
