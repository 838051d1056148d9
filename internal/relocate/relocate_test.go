package relocate

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/panda-utils/gltf2bam/internal/scene"
)

func collectionWith(tex ...*scene.Texture) *scene.Collection {
	geoms := make([]scene.Node, 0, len(tex))
	for i, t := range tex {
		geoms = append(geoms, scene.NewGeom(string(rune('a'+i)), t))
	}
	root := scene.NewGroup("root", geoms...)
	return &scene.Collection{Scenes: []*scene.Group{root}, Active: root}
}

func writeAsset(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("png bytes: "+name), 0644); err != nil {
		t.Fatalf("write asset: %v", err)
	}
	return path
}

func TestRun_CopiesAndRewrites(t *testing.T) {
	assets := t.TempDir()
	out := t.TempDir()
	writeAsset(t, assets, "tex/wood.png")

	tex := &scene.Texture{Filename: "tex/wood.png"}
	c := collectionWith(tex)

	r := New(assets, out, ModeCopy, nil)
	if err := r.Run(c); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if tex.Filename != filepath.Join("tex", "wood.png") {
		t.Errorf("filename = %q, want assets-relative form", tex.Filename)
	}
	copied := filepath.Join(out, "tex", "wood.png")
	got, err := os.ReadFile(copied)
	if err != nil {
		t.Fatalf("read copied file: %v", err)
	}
	if string(got) != "png bytes: tex/wood.png" {
		t.Error("copied content mismatch")
	}
}

func TestRun_AliasingPreserved(t *testing.T) {
	assets := t.TempDir()
	out := t.TempDir()
	writeAsset(t, assets, "wood.png")

	// Two nodes share one texture resource.
	tex := &scene.Texture{Filename: "wood.png"}
	table := scene.NewGeom("table", tex)
	chair := scene.NewGeom("chair", tex)
	root := scene.NewGroup("root", table, chair)
	c := &scene.Collection{Scenes: []*scene.Group{root}, Active: root}

	if err := New(assets, out, ModeCopy, nil).Run(c); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if table.Textures()[0] != chair.Textures()[0] {
		t.Fatal("nodes no longer share the texture resource")
	}
	if chair.Textures()[0].Filename != "wood.png" {
		t.Errorf("rewrite not visible through second node: %q", chair.Textures()[0].Filename)
	}

	// Exactly one file copied, not one per reference.
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("output dir has %d entries, want 1", len(entries))
	}
}

func TestRun_SelfCopyAvoidance(t *testing.T) {
	dir := t.TempDir()
	path := writeAsset(t, dir, "wood.png")

	// Read-only source: an attempted copy onto itself would fail on
	// os.Create, so a passing run proves no copy happened.
	if err := os.Chmod(path, 0444); err != nil {
		t.Fatalf("chmod: %v", err)
	}

	tex := &scene.Texture{Filename: "wood.png"}
	c := collectionWith(tex)

	if err := New(dir, dir, ModeCopy, nil).Run(c); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tex.Filename != "wood.png" {
		t.Errorf("filename = %q, want rewritten relative form", tex.Filename)
	}
}

func TestRun_ReferenceModeNeverCopies(t *testing.T) {
	assets := t.TempDir()
	out := t.TempDir()
	writeAsset(t, assets, "tex/wood.png")

	tex := &scene.Texture{Filename: "tex/wood.png"}
	c := collectionWith(tex)

	if err := New(assets, out, ModeReference, nil).Run(c); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if tex.Filename != filepath.Join("tex", "wood.png") {
		t.Errorf("filename = %q, want rewritten even without copy", tex.Filename)
	}
	if _, err := os.Stat(filepath.Join(out, "tex", "wood.png")); !errors.Is(err, fs.ErrNotExist) {
		t.Error("reference mode must not copy files")
	}
}

func TestRun_MissingAsset(t *testing.T) {
	assets := t.TempDir()
	out := t.TempDir()

	tex := &scene.Texture{Filename: "gone.png"}
	c := collectionWith(tex)

	err := New(assets, out, ModeCopy, nil).Run(c)
	if !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}

	entries, readErr := os.ReadDir(out)
	if readErr != nil {
		t.Fatalf("read output dir: %v", readErr)
	}
	if len(entries) != 0 {
		t.Errorf("output dir has %d entries, want none after failure", len(entries))
	}
}

func TestRun_AbsoluteDeclaredFilename(t *testing.T) {
	assets := t.TempDir()
	out := t.TempDir()
	abs := writeAsset(t, assets, "tex/wood.png")

	tex := &scene.Texture{Filename: abs}
	c := collectionWith(tex)

	if err := New(assets, out, ModeCopy, nil).Run(c); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tex.Filename != filepath.Join("tex", "wood.png") {
		t.Errorf("filename = %q, want canonical relative form", tex.Filename)
	}
}

func TestRun_EmbeddedTextureSkipped(t *testing.T) {
	assets := t.TempDir()
	out := t.TempDir()

	tex := &scene.Texture{} // embedded, no filename
	c := collectionWith(tex)

	if err := New(assets, out, ModeCopy, nil).Run(c); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if tex.Filename != "" {
		t.Errorf("embedded texture gained filename %q", tex.Filename)
	}
}

func TestRun_Idempotent(t *testing.T) {
	assets := t.TempDir()
	out := t.TempDir()
	writeAsset(t, assets, "wood.png")

	run := func() string {
		tex := &scene.Texture{Filename: "wood.png"}
		c := collectionWith(tex)
		if err := New(assets, out, ModeCopy, nil).Run(c); err != nil {
			t.Fatalf("Run: %v", err)
		}
		got, err := os.ReadFile(filepath.Join(out, "wood.png"))
		if err != nil {
			t.Fatalf("read: %v", err)
		}
		return string(got)
	}

	first := run()
	second := run()
	if first != second {
		t.Error("repeated runs produced different output")
	}
}

func TestGather_ResolvesPaths(t *testing.T) {
	assets := t.TempDir()
	out := t.TempDir()

	tex := &scene.Texture{Filename: "tex/wood.png"}
	c := collectionWith(tex)

	refs, err := New(assets, out, ModeCopy, nil).Gather(c)
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	if len(refs) != 1 {
		t.Fatalf("got %d refs, want 1", len(refs))
	}

	ref := refs[0]
	if ref.Declared != "tex/wood.png" {
		t.Errorf("Declared = %q", ref.Declared)
	}
	if ref.Relative != filepath.Join("tex", "wood.png") {
		t.Errorf("Relative = %q", ref.Relative)
	}
	if ref.SourcePath != filepath.Join(assets, "tex", "wood.png") {
		t.Errorf("SourcePath = %q", ref.SourcePath)
	}
	if ref.DestPath != filepath.Join(out, ref.Relative) {
		t.Errorf("DestPath = %q, want output dir + relative form", ref.DestPath)
	}
}

func TestParseMode(t *testing.T) {
	if _, err := ParseMode("ref"); err != nil {
		t.Errorf("ref: %v", err)
	}
	if _, err := ParseMode("copy"); err != nil {
		t.Errorf("copy: %v", err)
	}
	if _, err := ParseMode("move"); !errors.Is(err, ErrUnknownMode) {
		t.Errorf("expected ErrUnknownMode, got %v", err)
	}
}
