package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/viant/afs"
	"github.com/viant/xncode/codec"
)

func Test_TransformFile(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	source := filepath.Join(dir, "source.txt")
	content := strings.Repeat("héllo wörld 日本 😀 xn-- ", 500)
	if err := os.WriteFile(source, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}
	svc := newTestService(t, &Config{StorageDir: "file://" + dir})

	for _, scheme := range []string{"legacy", "framed"} {
		encodedURL := "file://" + filepath.Join(dir, scheme+".enc")
		out, err := svc.TransformFile(ctx, &TransformFileInput{Source: "file://" + source, Dest: encodedURL, Scheme: scheme})
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", scheme, err)
		}
		data, err := os.ReadFile(filepath.Join(dir, scheme+".enc"))
		if err != nil {
			t.Fatalf("%s: failed to read output: %v", scheme, err)
		}
		aCodec := codec.New(codec.WithScheme(codec.Scheme(scheme)))
		if string(data) != aCodec.Encode(content) {
			t.Fatalf("%s: encoded file mismatch", scheme)
		}
		if out.BytesRead != int64(len(content)) || out.BytesWritten != int64(len(data)) || out.Direction != DirectionEncode {
			t.Fatalf("%s: unexpected output: %+v", scheme, out)
		}

		decodedURL := "file://" + filepath.Join(dir, scheme+".dec")
		if _, err = svc.TransformFile(ctx, &TransformFileInput{Source: encodedURL, Dest: decodedURL, Scheme: scheme, Direction: "decode"}); err != nil {
			t.Fatalf("%s: unexpected decode error: %v", scheme, err)
		}
		data, err = os.ReadFile(filepath.Join(dir, scheme+".dec"))
		if err != nil {
			t.Fatalf("%s: failed to read decoded: %v", scheme, err)
		}
		expect, _ := aCodec.Decode(aCodec.Encode(content))
		if string(data) != expect {
			t.Fatalf("%s: decoded file mismatch", scheme)
		}
		if scheme == "framed" && string(data) != content {
			t.Fatalf("framed round trip changed the content")
		}
	}
	if usage := svc.Stats(ctx).Usage; usage.Files != 4 {
		t.Fatalf("expected 4 file transforms, got %+v", usage)
	}
}

func Test_TransformFile_DefaultDest(t *testing.T) {
	ctx := context.Background()
	fs := afs.New()
	source := "mem://localhost/xncode-test/in.txt"
	if err := fs.Upload(ctx, source, 0o644, strings.NewReader("é")); err != nil {
		t.Fatalf("failed to upload source: %v", err)
	}
	svc := NewService(&Config{StorageDir: "mem://localhost/xncode-test/out"})
	out, err := svc.TransformFile(ctx, &TransformFileInput{Source: source})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(out.Dest, "mem://localhost/xncode-test/out/default/") || !strings.HasSuffix(out.Dest, ".txt") {
		t.Fatalf("unexpected default destination: %v", out.Dest)
	}
	rc, err := fs.OpenURL(ctx, out.Dest)
	if err != nil {
		t.Fatalf("failed to open output: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "xn--e9" {
		t.Fatalf("unexpected output content: %q", data)
	}
}

func Test_TransformFile_Errors(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	svc := newTestService(t, nil)
	if _, err := svc.TransformFile(ctx, &TransformFileInput{}); !errors.Is(err, ErrMissingSource) {
		t.Fatalf("expected ErrMissingSource, got %v", err)
	}
	if _, err := svc.TransformFile(ctx, &TransformFileInput{Source: "file:///x", Direction: "sideways"}); !errors.Is(err, ErrUnknownDirection) {
		t.Fatalf("expected ErrUnknownDirection, got %v", err)
	}
	if _, err := svc.TransformFile(ctx, &TransformFileInput{Source: "file://" + filepath.Join(dir, "missing.txt"), Dest: "file://" + filepath.Join(dir, "out.txt")}); err == nil {
		t.Fatalf("expected error for missing source")
	}

	source := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(source, []byte("xn--e9xn--zz"), 0o644); err != nil {
		t.Fatalf("failed to write source: %v", err)
	}
	dest := filepath.Join(dir, "bad.out")
	_, err := svc.TransformFile(ctx, &TransformFileInput{Source: "file://" + source, Dest: "file://" + dest, Direction: "decode", Policy: "reject"})
	if !errors.Is(err, codec.ErrInvalidFragment) {
		t.Fatalf("expected ErrInvalidFragment, got %v", err)
	}
	if _, statErr := os.Stat(dest); !os.IsNotExist(statErr) {
		t.Fatalf("expected partial output to be removed, stat err: %v", statErr)
	}
	if usage := svc.Stats(ctx).Usage; usage.Failures != 4 {
		t.Fatalf("expected 4 failures, got %+v", usage)
	}
}
