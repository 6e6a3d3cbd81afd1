package service

import (
	"fmt"
	"unicode/utf8"

	"github.com/viant/xncode/codec"
)

// DefaultMaxInputBytes caps inline text passed to Encode, Decode and Inspect.
const DefaultMaxInputBytes = 1 << 20

type Config struct {
	// Scheme is the default token format: legacy or framed.
	Scheme string `json:"scheme,omitempty"`
	// Policy is the default legacy decode policy: substitute, skip or reject.
	Policy string `json:"policy,omitempty"`
	// Substitute is the single character written by the substitute policy (default U+0000).
	Substitute string `json:"substitute,omitempty"`
	// StorageDir is an AFS base URL for transformed files without an explicit destination.
	// Examples: mem://localhost/xncode, file:///tmp/xncode, gs://bucket/path
	StorageDir string `json:"storageDir,omitempty"`
	// MaxInputBytes caps inline text size (default 1MiB).
	MaxInputBytes int `json:"maxInputBytes,omitempty"`

	UseData bool `json:"useData,omitempty"`
	UseText bool `json:"useText,omitempty"`
}

// Validate checks scheme, policy and substitute.
func (c *Config) Validate() error {
	if _, err := codec.ParseScheme(c.Scheme); err != nil {
		return err
	}
	if _, err := codec.ParsePolicy(c.Policy); err != nil {
		return err
	}
	if _, err := parseSubstitute(c.Substitute); err != nil {
		return err
	}
	if c.MaxInputBytes < 0 {
		return fmt.Errorf("invalid maxInputBytes: %v", c.MaxInputBytes)
	}
	return nil
}

func parseSubstitute(value string) (rune, error) {
	if value == "" {
		return 0, nil
	}
	r, size := utf8.DecodeRuneInString(value)
	if size != len(value) || (r == utf8.RuneError && size == 1) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSubstitute, value)
	}
	return r, nil
}
