// Package relocate rewrites external texture references in a converted
// scene and places the underlying files under the output directory.
package relocate

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/panda-utils/gltf2bam/internal/pathutil"
	"github.com/panda-utils/gltf2bam/internal/scene"
)

// Mode selects what happens to external texture files.
type Mode string

const (
	// ModeReference rewrites texture filenames to their assets-relative
	// form but leaves the files in place.
	ModeReference Mode = "ref"

	// ModeCopy rewrites filenames and copies each file into the output
	// directory, unless source and destination are the same path.
	ModeCopy Mode = "copy"
)

// ParseMode validates a texture mode string.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeReference, ModeCopy:
		return Mode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, s)
	}
}

// AssetRef is one external texture reference with its resolved paths.
type AssetRef struct {
	Declared   string // filename as stored in the source document
	Relative   string // declared, canonicalized relative to the assets directory
	SourcePath string // assets directory / declared
	DestPath   string // output directory / relative
	Texture    *scene.Texture
}

// Relocator rewrites every external texture reference in a collection.
// It is the sole writer of texture filenames.
type Relocator struct {
	assetsDir string
	outputDir string
	mode      Mode
	log       *slog.Logger
}

// New creates a relocator. Both directories must be absolute.
func New(assetsDir, outputDir string, mode Mode, log *slog.Logger) *Relocator {
	if log == nil {
		log = slog.Default()
	}
	return &Relocator{
		assetsDir: assetsDir,
		outputDir: outputDir,
		mode:      mode,
		log:       log.With("component", "relocate"),
	}
}

// Gather resolves every non-embedded texture reference in the collection.
// Embedded textures have no filename and stay embedded.
func (r *Relocator) Gather(c *scene.Collection) ([]AssetRef, error) {
	var refs []AssetRef
	for _, tex := range c.Textures() {
		if tex.Filename == "" {
			continue
		}
		src := tex.Filename
		if !filepath.IsAbs(src) {
			src = filepath.Join(r.assetsDir, src)
		} else {
			src = filepath.Clean(src)
		}
		rel, err := pathutil.RelativeTo(src, r.assetsDir)
		if err != nil {
			return nil, fmt.Errorf("texture %q: %w", tex.Filename, err)
		}
		refs = append(refs, AssetRef{
			Declared:   tex.Filename,
			Relative:   rel,
			SourcePath: src,
			DestPath:   filepath.Join(r.outputDir, rel),
			Texture:    tex,
		})
	}
	return refs, nil
}

// Run rewrites all texture references and, in copy mode, copies the files
// into the output directory. It fails fast: the first missing or
// unwritable asset aborts the job with the failing reference named.
func (r *Relocator) Run(c *scene.Collection) error {
	refs, err := r.Gather(c)
	if err != nil {
		return err
	}

	for _, ref := range refs {
		if _, err := os.Stat(ref.SourcePath); err != nil {
			return fmt.Errorf("%w: texture %q resolved to %s", ErrAssetNotFound, ref.Declared, ref.SourcePath)
		}

		// Rewrite the shared resource first so the serialized scene sees
		// the canonical assets-relative filename in every mode.
		ref.Texture.Filename = ref.Relative

		if r.mode != ModeCopy {
			r.log.Debug("referenced", "texture", ref.Relative, "source", ref.SourcePath)
			continue
		}

		if ref.SourcePath == ref.DestPath {
			// Self-copy: the file is already where it belongs.
			r.log.Debug("skipped self-copy", "texture", ref.Relative)
			continue
		}

		size, err := copyFile(ref.SourcePath, ref.DestPath)
		if err != nil {
			return fmt.Errorf("texture %q: %w", ref.Declared, err)
		}
		r.log.Info("copied texture", "texture", ref.Relative, "dest", ref.DestPath, "bytes", size)
	}

	return nil
}
