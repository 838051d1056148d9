// Package gltf implements the parser and converter collaborators on top
// of glTF 2.0 source documents.
//
// The converter builds the node hierarchy, external texture references,
// and animation bundles of a document. Vertex-level settings (axis
// conversion, sRGB, legacy materials, flattening) affect geometry data
// that this representation does not carry, so they pass through without
// changing the graph shape.
package gltf

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	qgltf "github.com/qmuntal/gltf"

	"github.com/panda-utils/gltf2bam/internal/convert"
	"github.com/panda-utils/gltf2bam/internal/scene"
)

// ErrBadDocument indicates the document was not produced by this parser.
var ErrBadDocument = errors.New("document is not a parsed glTF file")

// Runtime is the glTF-backed Parser and Converter pair.
type Runtime struct {
	log *slog.Logger
}

// New creates a runtime.
func New(log *slog.Logger) *Runtime {
	if log == nil {
		log = slog.Default()
	}
	return &Runtime{log: log.With("component", "gltf")}
}

// ParseFile reads a .gltf or .glb document from disk.
func (r *Runtime) ParseFile(path string) (convert.Document, error) {
	doc, err := qgltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	r.log.Debug("parsed document", "path", path,
		"nodes", len(doc.Nodes), "textures", len(doc.Textures), "animations", len(doc.Animations))
	return doc, nil
}

// Convert builds the scene collection from a parsed document.
func (r *Runtime) Convert(doc convert.Document, settings convert.Settings) (*scene.Collection, error) {
	gdoc, ok := doc.(*qgltf.Document)
	if !ok {
		return nil, ErrBadDocument
	}

	b := &builder{doc: gdoc}
	b.buildTextures()

	c := &scene.Collection{}
	for i, gs := range gdoc.Scenes {
		name := gs.Name
		if name == "" {
			name = fmt.Sprintf("scene%d", i)
		}
		root := scene.NewGroup(name)
		for _, ni := range gs.Nodes {
			root.Attach(b.buildNode(int(ni)))
		}
		c.Scenes = append(c.Scenes, root)
	}
	if len(c.Scenes) == 0 {
		c.Scenes = append(c.Scenes, scene.NewGroup("scene0"))
	}

	active := 0
	if gdoc.Scene != nil && int(*gdoc.Scene) < len(c.Scenes) {
		active = int(*gdoc.Scene)
	}
	c.Active = c.Scenes[active]

	if !settings.SkipAnimations {
		for i, anim := range gdoc.Animations {
			name := anim.Name
			if name == "" {
				name = fmt.Sprintf("anim%d", i)
			}
			c.Active.Attach(scene.NewAnimBundleNode(&scene.AnimBundle{Name: name}))
		}
	}

	r.log.Info("converted document",
		"scenes", len(c.Scenes), "textures", len(b.textures), "skip_animations", settings.SkipAnimations)
	return c, nil
}

type builder struct {
	doc      *qgltf.Document
	textures []*scene.Texture
}

// buildTextures creates one shared resource per document texture. Data
// URIs and buffer-view images stay embedded: they get no filename and the
// relocator leaves them alone.
func (b *builder) buildTextures() {
	b.textures = make([]*scene.Texture, len(b.doc.Textures))
	for i, gt := range b.doc.Textures {
		tex := &scene.Texture{}
		if gt.Source != nil && int(*gt.Source) < len(b.doc.Images) {
			img := b.doc.Images[int(*gt.Source)]
			if img.URI != "" && !strings.HasPrefix(img.URI, "data:") {
				tex.Filename = decodeURI(img.URI)
			}
		}
		b.textures[i] = tex
	}
}

func (b *builder) buildNode(index int) scene.Node {
	gn := b.doc.Nodes[index]
	name := gn.Name
	if name == "" {
		name = fmt.Sprintf("node%d", index)
	}
	group := scene.NewGroup(name)
	if gn.Mesh != nil {
		group.Attach(b.buildGeom(int(*gn.Mesh)))
	}
	for _, child := range gn.Children {
		group.Attach(b.buildNode(int(child)))
	}
	return group
}

func (b *builder) buildGeom(index int) scene.Node {
	mesh := b.doc.Meshes[index]
	name := mesh.Name
	if name == "" {
		name = fmt.Sprintf("mesh%d", index)
	}

	seen := make(map[*scene.Texture]bool)
	var refs []*scene.Texture
	add := func(ti int) {
		if ti < 0 || ti >= len(b.textures) {
			return
		}
		tex := b.textures[ti]
		if !seen[tex] {
			seen[tex] = true
			refs = append(refs, tex)
		}
	}

	for _, prim := range mesh.Primitives {
		if prim.Material == nil || int(*prim.Material) >= len(b.doc.Materials) {
			continue
		}
		mat := b.doc.Materials[*prim.Material]
		if pbr := mat.PBRMetallicRoughness; pbr != nil && pbr.BaseColorTexture != nil {
			add(int(pbr.BaseColorTexture.Index))
		}
		if mat.EmissiveTexture != nil {
			add(int(mat.EmissiveTexture.Index))
		}
	}

	return scene.NewGeom(name, refs...)
}

// decodeURI unescapes percent-encoded texture URIs. Malformed escapes
// fall back to the raw string.
func decodeURI(uri string) string {
	decoded, err := url.PathUnescape(uri)
	if err != nil {
		return uri
	}
	return decoded
}
