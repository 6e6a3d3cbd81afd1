package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/viant/afs"
	oa "github.com/viant/xncode/auth"
	"github.com/viant/xncode/codec"
)

const defaultStorageDir = "mem://localhost/xncode"

// Service exposes the codec with server defaults, per-namespace usage and file transforms.
type Service struct {
	scheme     codec.Scheme
	policy     codec.Policy
	substitute rune
	storageDir string
	maxInput   int
	useText    bool
	auth       *oa.Service
	usage      *UsageStore
	fs         afs.Service
}

func NewService(cfg *Config) *Service {
	if cfg == nil {
		cfg = &Config{}
	}
	scheme, err := codec.ParseScheme(cfg.Scheme)
	if err != nil {
		log.Printf("[xncode] %v; using %s", err, codec.SchemeLegacy)
		scheme = codec.SchemeLegacy
	}
	policy, err := codec.ParsePolicy(cfg.Policy)
	if err != nil {
		log.Printf("[xncode] %v; using %s", err, codec.PolicySubstitute)
		policy = codec.PolicySubstitute
	}
	substitute, err := parseSubstitute(cfg.Substitute)
	if err != nil {
		log.Printf("[xncode] %v; using U+0000", err)
	}
	storageDir := strings.TrimRight(strings.TrimSpace(cfg.StorageDir), "/")
	if storageDir == "" {
		storageDir = defaultStorageDir
	}
	maxInput := cfg.MaxInputBytes
	if maxInput <= 0 {
		maxInput = DefaultMaxInputBytes
	}
	return &Service{
		scheme:     scheme,
		policy:     policy,
		substitute: substitute,
		storageDir: storageDir,
		maxInput:   maxInput,
		useText:    !cfg.UseData || cfg.UseText,
		auth:       oa.New(),
		usage:      NewUsageStore(),
		fs:         afs.New(),
	}
}

func (s *Service) UseTextField() bool      { return s.useText }
func (s *Service) StorageDir() string      { return s.storageDir }
func (s *Service) Scheme() codec.Scheme    { return s.scheme }
func (s *Service) Policy() codec.Policy    { return s.policy }
func (s *Service) Auth() *oa.Service       { return s.auth }
func (s *Service) UsageStore() *UsageStore { return s.usage }

// Encode encodes in.Text with the requested or default scheme.
func (s *Service) Encode(ctx context.Context, in *EncodeInput) (*EncodeOutput, error) {
	out, err := s.encode(in)
	s.record(ctx, err, func(u *Usage) { u.Encoded++ })
	return out, err
}

func (s *Service) encode(in *EncodeInput) (*EncodeOutput, error) {
	if err := s.checkSize(in.Text); err != nil {
		return nil, err
	}
	aCodec, err := s.codecFor(in.Scheme, "", "")
	if err != nil {
		return nil, err
	}
	analysis := codec.Analyze(in.Text)
	tokens := analysis.LegacyTokens
	if aCodec.Scheme() == codec.SchemeFramed {
		tokens = analysis.FramedTokens
	}
	return &EncodeOutput{Text: aCodec.Encode(in.Text), Scheme: string(aCodec.Scheme()), Tokens: tokens}, nil
}

// Decode decodes in.Text; the reject policy surfaces a *codec.FragmentError.
func (s *Service) Decode(ctx context.Context, in *DecodeInput) (*DecodeOutput, error) {
	out, err := s.decode(in)
	s.record(ctx, err, func(u *Usage) { u.Decoded++ })
	return out, err
}

func (s *Service) decode(in *DecodeInput) (*DecodeOutput, error) {
	if err := s.checkSize(in.Text); err != nil {
		return nil, err
	}
	aCodec, err := s.codecFor(in.Scheme, in.Policy, in.Substitute)
	if err != nil {
		return nil, err
	}
	text, err := aCodec.Decode(in.Text)
	if err != nil {
		return nil, fmt.Errorf("failed to decode: %w", err)
	}
	return &DecodeOutput{Text: text, Scheme: string(aCodec.Scheme())}, nil
}

// Inspect reports token counts and whether a legacy round trip preserves in.Text.
func (s *Service) Inspect(ctx context.Context, in *InspectInput) (*InspectOutput, error) {
	if err := s.checkSize(in.Text); err != nil {
		s.record(ctx, err, nil)
		return nil, err
	}
	ret := &InspectOutput{Analysis: *codec.Analyze(in.Text)}
	if !ret.LegacyRoundTrip {
		if ret.Markers > 0 {
			ret.Reasons = append(ret.Reasons, fmt.Sprintf("contains %d literal %q marker(s), read as token boundaries", ret.Markers, codec.Prefix))
		}
		if ret.ASCIIUnits > 0 {
			ret.Reasons = append(ret.Reasons, fmt.Sprintf("contains %d character(s) at or below U+007F, parsed as part of a hex fragment", ret.ASCIIUnits))
		}
	}
	s.record(ctx, nil, func(u *Usage) { u.Inspected++ })
	return ret, nil
}

// Stats returns the usage counters of the caller namespace.
func (s *Service) Stats(ctx context.Context) *StatsOutput {
	return &StatsOutput{Usage: s.usage.Get(s.namespace(ctx))}
}

func (s *Service) codecFor(scheme, policy, substitute string) (*codec.Codec, error) {
	var err error
	aScheme := s.scheme
	if strings.TrimSpace(scheme) != "" {
		if aScheme, err = codec.ParseScheme(scheme); err != nil {
			return nil, err
		}
	}
	aPolicy := s.policy
	if strings.TrimSpace(policy) != "" {
		if aPolicy, err = codec.ParsePolicy(policy); err != nil {
			return nil, err
		}
	}
	aSubstitute := s.substitute
	if substitute != "" {
		if aSubstitute, err = parseSubstitute(substitute); err != nil {
			return nil, err
		}
	}
	return codec.New(codec.WithScheme(aScheme), codec.WithPolicy(aPolicy), codec.WithSubstitute(aSubstitute)), nil
}

func (s *Service) checkSize(text string) error {
	if len(text) > s.maxInput {
		return fmt.Errorf("%w: %d bytes, limit %d", ErrInputTooLarge, len(text), s.maxInput)
	}
	return nil
}

func (s *Service) namespace(ctx context.Context) string {
	ns, err := s.auth.Namespace(ctx)
	if err != nil || ns == "" {
		return oa.DefaultNamespace
	}
	return ns
}

func (s *Service) record(ctx context.Context, err error, fn func(u *Usage)) {
	s.usage.Update(s.namespace(ctx), func(u *Usage) {
		if err != nil {
			u.Failures++
			return
		}
		if fn != nil {
			fn(u)
		}
	})
}
