// Package split emits each animation bundle of a converted scene as an
// independently named output artifact.
package split

import (
	"fmt"
	"log/slog"
	"sort"

	"golang.org/x/text/unicode/norm"

	"github.com/panda-utils/gltf2bam/internal/convert"
	"github.com/panda-utils/gltf2bam/internal/pathutil"
	"github.com/panda-utils/gltf2bam/internal/scene"
)

// Splitter writes one artifact per animation bundle next to the main
// destination artifact.
type Splitter struct {
	serializer convert.Serializer
	log        *slog.Logger
}

// New creates a splitter writing through the given serializer.
func New(serializer convert.Serializer, log *slog.Logger) *Splitter {
	if log == nil {
		log = slog.Default()
	}
	return &Splitter{
		serializer: serializer,
		log:        log.With("component", "split"),
	}
}

// Discover returns every bundle-carrying node under root, sorted by
// bundle name. Graph order is not meaningful and must not leak into the
// output set, so the sort makes discovery deterministic.
func Discover(root scene.Node) []scene.BundleCarrier {
	var found []scene.BundleCarrier
	scene.Walk(root, func(n scene.Node) {
		if carrier, ok := n.(scene.BundleCarrier); ok {
			found = append(found, carrier)
		}
	})
	sort.SliceStable(found, func(i, j int) bool {
		return found[i].Bundle().Name < found[j].Bundle().Name
	})
	return found
}

// ArtifactPath derives the output path for one bundle from the main
// destination path: <dstBase>_<bundleName>.<dstExt>. Bundle names are
// normalized to NFC so the same logical name always yields the same file.
func ArtifactPath(dst, bundleName string) string {
	base, ext := pathutil.StripExt(dst)
	return base + "_" + norm.NFC.String(bundleName) + "." + ext
}

// Run serializes every animation bundle subtree under root to its own
// artifact and returns the written paths in emission order.
func (s *Splitter) Run(root scene.Node, dst string) ([]string, error) {
	carriers := Discover(root)
	paths := make([]string, 0, len(carriers))
	for _, carrier := range carriers {
		name := carrier.Bundle().Name
		path := ArtifactPath(dst, name)
		if err := s.serializer.Write(carrier, path); err != nil {
			return paths, fmt.Errorf("animation %q: %w", name, err)
		}
		s.log.Info("wrote animation artifact", "animation", name, "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}
