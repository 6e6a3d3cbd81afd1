package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/google/uuid"
	afsfile "github.com/viant/afs/file"
	"golang.org/x/text/transform"
)

const (
	DirectionEncode = "encode"
	DirectionDecode = "decode"
)

func parseDirection(value string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", DirectionEncode:
		return DirectionEncode, nil
	case DirectionDecode:
		return DirectionDecode, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDirection, value)
}

// TransformFile streams in.Source through the codec and uploads the result to in.Dest.
func (s *Service) TransformFile(ctx context.Context, in *TransformFileInput) (*TransformFileOutput, error) {
	out, err := s.transformFile(ctx, in)
	s.record(ctx, err, func(u *Usage) { u.Files++ })
	return out, err
}

func (s *Service) transformFile(ctx context.Context, in *TransformFileInput) (*TransformFileOutput, error) {
	source := strings.TrimSpace(in.Source)
	if source == "" {
		return nil, ErrMissingSource
	}
	direction, err := parseDirection(in.Direction)
	if err != nil {
		return nil, err
	}
	aCodec, err := s.codecFor(in.Scheme, in.Policy, "")
	if err != nil {
		return nil, err
	}
	dest := strings.TrimSpace(in.Dest)
	if dest == "" {
		if dest, err = s.defaultDest(ctx); err != nil {
			return nil, err
		}
	}

	rc, err := s.fs.OpenURL(ctx, source)
	if err != nil {
		return nil, fmt.Errorf("failed to open %v: %w", source, err)
	}
	defer rc.Close()

	var transformer transform.Transformer = aCodec.Encoding().NewEncoder()
	if direction == DirectionDecode {
		transformer = aCodec.Encoding().NewDecoder()
	}
	read := &countingReader{Reader: rc}
	written := &countingReader{Reader: transform.NewReader(read, transformer)}
	if err = s.fs.Upload(ctx, dest, 0o644, written); err != nil {
		if exists, _ := s.fs.Exists(ctx, dest); exists {
			_ = s.fs.Delete(ctx, dest)
		}
		return nil, fmt.Errorf("failed to %v %v: %w", direction, source, err)
	}
	log.Printf("[xncode] %sd %s -> %s; cid=%s scheme=%s in=%d out=%d", direction, source, dest, CID(ctx), aCodec.Scheme(), read.n, written.n)
	return &TransformFileOutput{
		Dest:         dest,
		Direction:    direction,
		Scheme:       string(aCodec.Scheme()),
		BytesRead:    read.n,
		BytesWritten: written.n,
	}, nil
}

// defaultDest returns <storageDir>/<namespace>/<uuid>.txt, creating the namespace folder.
func (s *Service) defaultDest(ctx context.Context) (string, error) {
	parent := s.storageDir + "/" + sanitize(s.namespace(ctx))
	if exists, _ := s.fs.Exists(ctx, parent); !exists {
		if err := s.fs.Create(ctx, parent, afsfile.DefaultDirOsMode, true); err != nil {
			return "", fmt.Errorf("failed to create %v: %w", parent, err)
		}
	}
	return parent + "/" + uuid.New().String() + ".txt", nil
}

func sanitize(s string) string {
	return strings.NewReplacer("/", "_", ":", "_", "\\", "_", " ", "_", "|", "_", "..", "_").Replace(s)
}

type countingReader struct {
	io.Reader
	n int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	r.n += int64(n)
	return n, err
}
