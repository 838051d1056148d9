package pathutil

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestNormalize_Relative(t *testing.T) {
	r := NewResolver("/work")
	got, err := r.Normalize("models/chair.gltf")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "/work/models/chair.gltf" {
		t.Errorf("got %q", got)
	}
}

func TestNormalize_Absolute(t *testing.T) {
	r := NewResolver("/work")
	got, err := r.Normalize("/data/./models/../chair.gltf")
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got != "/data/chair.gltf" {
		t.Errorf("got %q", got)
	}
}

func TestNormalize_Empty(t *testing.T) {
	r := NewResolver("/work")
	_, err := r.Normalize("")
	if !errors.Is(err, ErrEmptyPath) {
		t.Errorf("expected ErrEmptyPath, got %v", err)
	}
}

func TestDefaultDestination(t *testing.T) {
	cases := []struct {
		src, ext, want string
	}{
		{"model.gltf", "bam", "model.bam"},
		{"/abs/dir/model.glb", "bam", "/abs/dir/model.bam"},
		{"noext", "bam", "noext.bam"},
		{"dotted.name.gltf", "bam", "dotted.name.bam"},
	}
	for _, c := range cases {
		if got := DefaultDestination(c.src, c.ext); got != c.want {
			t.Errorf("DefaultDestination(%q, %q) = %q, want %q", c.src, c.ext, got, c.want)
		}
	}
}

func TestRelativeTo_RoundTrip(t *testing.T) {
	// base / RelativeTo(p, base) == Normalize(p) for p under base
	r := NewResolver("/work")
	base := "/work/assets"
	paths := []string{
		"/work/assets/tex/wood.png",
		"/work/assets/wood.png",
		"/work/assets/a/b/c.png",
	}
	for _, p := range paths {
		rel, err := RelativeTo(p, base)
		if err != nil {
			t.Fatalf("RelativeTo(%q): %v", p, err)
		}
		joined := filepath.Join(base, rel)
		norm, err := r.Normalize(p)
		if err != nil {
			t.Fatalf("Normalize(%q): %v", p, err)
		}
		if joined != norm {
			t.Errorf("round trip: got %q, want %q", joined, norm)
		}
	}
}

func TestRelativeTo_OutsideBase(t *testing.T) {
	rel, err := RelativeTo("/other/tex.png", "/work/assets")
	if err != nil {
		t.Fatalf("RelativeTo: %v", err)
	}
	if rel != filepath.Join("..", "..", "other", "tex.png") {
		t.Errorf("got %q", rel)
	}
}

func TestRelativeTo_NoCommonRoot(t *testing.T) {
	// A relative path has no root shared with an absolute base.
	_, err := RelativeTo("tex.png", "/work/assets")
	if !errors.Is(err, ErrCrossVolume) {
		t.Errorf("expected ErrCrossVolume, got %v", err)
	}
}

func TestStripExt(t *testing.T) {
	base, ext := StripExt("/out/model.bam")
	if base != "/out/model" || ext != "bam" {
		t.Errorf("got %q, %q", base, ext)
	}
}
