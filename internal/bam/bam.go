// Package bam writes converted scene subtrees to disk in the engine's
// binary artifact format. The container is a small header followed by a
// gob-encoded node tree with a shared texture table, so textures
// referenced from multiple nodes are stored once.
package bam

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/panda-utils/gltf2bam/internal/scene"
)

// magic identifies a bam artifact file.
var magic = []byte("g2bam\x01")

// ErrBadMagic indicates the file is not a bam artifact.
var ErrBadMagic = errors.New("not a bam artifact")

type fileNode struct {
	Kind     string // "group", "geom", "anim"
	Name     string
	Textures []int // indices into the texture table
	Bundle   string
	Children []fileNode
}

type fileScene struct {
	Textures []string
	Root     fileNode
}

// Writer serializes scene subtrees.
type Writer struct {
	log *slog.Logger
}

// NewWriter creates a writer.
func NewWriter(log *slog.Logger) *Writer {
	if log == nil {
		log = slog.Default()
	}
	return &Writer{log: log.With("component", "bam")}
}

// Write serializes the subtree under root to path. The artifact is
// written to a temporary file and renamed into place so a failure never
// leaves a half-written file at path.
func (w *Writer) Write(root scene.Node, path string) error {
	var table []string
	index := make(map[*scene.Texture]int)
	fs := fileScene{Root: flatten(root, &table, index)}
	fs.Textures = table

	var buf bytes.Buffer
	buf.Write(magic)
	if err := gob.NewEncoder(&buf).Encode(&fs); err != nil {
		return fmt.Errorf("encode scene: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".bam-*")
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close artifact: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("finalize artifact: %w", err)
	}

	w.log.Debug("wrote artifact", "path", path, "bytes", buf.Len())
	return nil
}

func flatten(n scene.Node, table *[]string, index map[*scene.Texture]int) fileNode {
	fn := fileNode{Kind: "group", Name: n.Name()}
	switch node := n.(type) {
	case scene.TextureUser:
		fn.Kind = "geom"
		for _, tex := range node.Textures() {
			i, ok := index[tex]
			if !ok {
				i = len(*table)
				index[tex] = i
				*table = append(*table, tex.Filename)
			}
			fn.Textures = append(fn.Textures, i)
		}
	case scene.BundleCarrier:
		fn.Kind = "anim"
		fn.Bundle = node.Bundle().Name
	}
	for _, child := range n.Children() {
		fn.Children = append(fn.Children, flatten(child, table, index))
	}
	return fn
}

// ReadFile decodes an artifact back into a scene tree. Shared texture
// table entries decode to shared texture resources.
func ReadFile(path string) (scene.Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	head := make([]byte, len(magic))
	if _, err := io.ReadFull(f, head); err != nil || !bytes.Equal(head, magic) {
		return nil, fmt.Errorf("%w: %s", ErrBadMagic, path)
	}

	var fs fileScene
	if err := gob.NewDecoder(f).Decode(&fs); err != nil {
		return nil, fmt.Errorf("decode scene: %w", err)
	}

	textures := make([]*scene.Texture, len(fs.Textures))
	for i, name := range fs.Textures {
		textures[i] = &scene.Texture{Filename: name}
	}
	return unflatten(fs.Root, textures), nil
}

func unflatten(fn fileNode, textures []*scene.Texture) scene.Node {
	switch fn.Kind {
	case "geom":
		refs := make([]*scene.Texture, len(fn.Textures))
		for i, ti := range fn.Textures {
			refs[i] = textures[ti]
		}
		return scene.NewGeom(fn.Name, refs...)
	case "anim":
		return scene.NewAnimBundleNode(&scene.AnimBundle{Name: fn.Bundle})
	default:
		g := scene.NewGroup(fn.Name)
		for _, child := range fn.Children {
			g.Attach(unflatten(child, textures))
		}
		return g
	}
}
