// Package pipeline drives one conversion job end to end: parse, convert,
// relocate assets, optionally split animations, then emit the main
// artifact.
package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/panda-utils/gltf2bam/internal/convert"
	"github.com/panda-utils/gltf2bam/internal/pathutil"
	"github.com/panda-utils/gltf2bam/internal/relocate"
	"github.com/panda-utils/gltf2bam/internal/scene"
	"github.com/panda-utils/gltf2bam/internal/split"
)

// AnimMode selects what happens to animation data.
type AnimMode string

const (
	// AnimEmbed keeps animation data in the main artifact.
	AnimEmbed AnimMode = "embed"

	// AnimSeparate writes one artifact per animation bundle next to the
	// main artifact.
	AnimSeparate AnimMode = "separate"

	// AnimSkip drops animation data during conversion.
	AnimSkip AnimMode = "skip"
)

// ParseAnimMode validates an animation mode string.
func ParseAnimMode(s string) (AnimMode, error) {
	switch AnimMode(s) {
	case AnimEmbed, AnimSeparate, AnimSkip:
		return AnimMode(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownAnimMode, s)
	}
}

// State is a job's position in the conversion pipeline.
type State int

const (
	StateInitialized State = iota
	StateParsed
	StateConverted
	StateAssetsResolved
	StateAnimationsSeparated
	StateEmitted
	StateDone
)

func (s State) String() string {
	switch s {
	case StateInitialized:
		return "initialized"
	case StateParsed:
		return "parsed"
	case StateConverted:
		return "converted"
	case StateAssetsResolved:
		return "assets-resolved"
	case StateAnimationsSeparated:
		return "animations-separated"
	case StateEmitted:
		return "emitted"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Params are the raw inputs of one conversion, before path resolution.
type Params struct {
	Src       string // source document, required
	Dst       string // destination artifact; empty derives from Src
	AssetsDir string // empty defaults to the source file's directory

	Settings    convert.Settings
	TextureMode relocate.Mode
	AnimMode    AnimMode

	PrintScene bool
	PrintTo    io.Writer // destination for --print-scene, default stdout
}

// Job is one unit of conversion work. Constructed once per invocation
// with fully resolved absolute paths; never reused.
type Job struct {
	SourcePath string
	DestPath   string
	AssetsDir  string
	OutputDir  string

	Settings    convert.Settings
	TextureMode relocate.Mode
	AnimMode    AnimMode

	PrintScene bool
	PrintTo    io.Writer

	collection *scene.Collection
	state      State
}

// NewJob resolves params into a job. Defaulting: destination derives from
// the source with a .bam extension, the assets directory from the source
// file's directory, and the output directory from the destination's.
func NewJob(r *pathutil.Resolver, p Params) (*Job, error) {
	src, err := r.Normalize(p.Src)
	if err != nil {
		return nil, fmt.Errorf("source: %w", err)
	}

	dst := p.Dst
	if dst == "" {
		dst = pathutil.DefaultDestination(src, "bam")
	}
	dst, err = r.Normalize(dst)
	if err != nil {
		return nil, fmt.Errorf("destination: %w", err)
	}

	assetsDir := p.AssetsDir
	if assetsDir == "" {
		assetsDir = pathutil.DirectoryOf(src)
	}
	assetsDir, err = r.Normalize(assetsDir)
	if err != nil {
		return nil, fmt.Errorf("assets directory: %w", err)
	}

	printTo := p.PrintTo
	if printTo == nil {
		printTo = os.Stdout
	}

	settings := p.Settings
	if p.AnimMode == AnimSkip {
		// Skip mode is honored upstream: the converter drops the data.
		settings.SkipAnimations = true
	}

	return &Job{
		SourcePath:  src,
		DestPath:    dst,
		AssetsDir:   assetsDir,
		OutputDir:   pathutil.DirectoryOf(dst),
		Settings:    settings,
		TextureMode: p.TextureMode,
		AnimMode:    p.AnimMode,
		PrintScene:  p.PrintScene,
		PrintTo:     printTo,
		state:       StateInitialized,
	}, nil
}

// State reports the job's current pipeline state.
func (j *Job) State() State { return j.state }

// advance moves the job to the next state. AnimationsSeparated is the
// only skippable state; everything else must run in order.
func (j *Job) advance(to State) error {
	ok := to == j.state+1 ||
		(to == StateEmitted && j.state == StateAssetsResolved)
	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrBadTransition, j.state, to)
	}
	j.state = to
	return nil
}

// Pipeline wires the external collaborators to the conversion core.
type Pipeline struct {
	parser     convert.Parser
	converter  convert.Converter
	serializer convert.Serializer
	log        *slog.Logger
}

// New creates a pipeline.
func New(parser convert.Parser, converter convert.Converter, serializer convert.Serializer, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{
		parser:     parser,
		converter:  converter,
		serializer: serializer,
		log:        log.With("component", "pipeline"),
	}
}

// Run processes the job start to finish and returns the artifact paths
// written, main artifact last. Any failure aborts the job; already-copied
// assets are not rolled back.
func (p *Pipeline) Run(job *Job) ([]string, error) {
	p.log.Info("job started", "src", job.SourcePath, "dst", job.DestPath,
		"assets_dir", job.AssetsDir, "textures", string(job.TextureMode), "animations", string(job.AnimMode))

	doc, err := p.parser.ParseFile(job.SourcePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConvert, err)
	}
	if err := job.advance(StateParsed); err != nil {
		return nil, err
	}

	coll, err := p.converter.Convert(doc, job.Settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConvert, err)
	}
	job.collection = coll
	if err := job.advance(StateConverted); err != nil {
		return nil, err
	}

	if job.PrintScene {
		scene.Print(job.PrintTo, coll.Active)
	}

	// Asset rewriting must precede serialization: the emitted artifacts
	// have to carry the rewritten, relocation-consistent filenames.
	relocator := relocate.New(job.AssetsDir, job.OutputDir, job.TextureMode, p.log)
	if err := relocator.Run(coll); err != nil {
		return nil, err
	}
	if err := job.advance(StateAssetsResolved); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(job.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("%w: create output directory: %v", ErrSerialize, err)
	}

	var artifacts []string
	if job.AnimMode == AnimSeparate {
		splitter := split.New(p.serializer, p.log)
		paths, err := splitter.Run(coll.Active, job.DestPath)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSerialize, err)
		}
		artifacts = append(artifacts, paths...)
		if err := job.advance(StateAnimationsSeparated); err != nil {
			return nil, err
		}
	}

	if err := p.serializer.Write(coll.Active, job.DestPath); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrSerialize, job.DestPath, err)
	}
	if err := job.advance(StateEmitted); err != nil {
		return nil, err
	}
	artifacts = append(artifacts, job.DestPath)

	if err := job.advance(StateDone); err != nil {
		return nil, err
	}
	p.log.Info("job complete", "artifacts", len(artifacts), "dst", job.DestPath)
	return artifacts, nil
}
