// Package convert defines the contract between the conversion core and
// the external parser, converter, and serializer collaborators.
package convert

import (
	"github.com/panda-utils/gltf2bam/internal/scene"
)

// Collision shape systems a converter may build shapes for.
const (
	CollisionBuiltin = "builtin"
	CollisionBullet  = "bullet"
)

// Settings are the conversion options passed through to the converter.
// They are opaque to the relocation and splitting core.
type Settings struct {
	CollisionShapes    string
	SkipAxisConversion bool
	NoSRGB             bool
	LegacyMaterials    bool
	SkipAnimations     bool
	FlattenNodes       bool
}

// Document is a parsed source document. Its contents are owned by the
// parser that produced it and are opaque to the conversion core.
type Document interface{}

// Parser reads a source scene document from disk.
type Parser interface {
	ParseFile(path string) (Document, error)
}

// Converter builds the engine-native scene collection from a parsed
// document and the conversion settings.
type Converter interface {
	Convert(doc Document, settings Settings) (*scene.Collection, error)
}

// Serializer writes a scene subtree to a path in the engine's native
// binary format.
type Serializer interface {
	Write(root scene.Node, path string) error
}

//go:generate mockgen -source=convert.go -destination=mocks/convert_mock.go -package=mocks
