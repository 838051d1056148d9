package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/panda-utils/gltf2bam/internal/bam"
	"github.com/panda-utils/gltf2bam/internal/config"
	"github.com/panda-utils/gltf2bam/internal/convert"
	"github.com/panda-utils/gltf2bam/internal/gltf"
	"github.com/panda-utils/gltf2bam/internal/pathutil"
	"github.com/panda-utils/gltf2bam/internal/pipeline"
	"github.com/panda-utils/gltf2bam/internal/relocate"
)

var version = "dev"

var (
	flagCollisionShapes    string
	flagPrintScene         bool
	flagSkipAxisConversion bool
	flagNoSRGB             bool
	flagTextures           string
	flagLegacyMaterials    bool
	flagAnimations         string
	flagFlattenNodes       bool
	flagAssetsDir          string
	flagConfig             string
	flagLogLevel           string
)

var rootCmd = &cobra.Command{
	Use:   "gltf2bam <src> [dst]",
	Short: "Convert glTF files to BAM scene artifacts",
	Long: `gltf2bam - convert glTF files to BAM scene artifacts

Converts a glTF scene document into the engine's binary scene format,
rewriting external texture references relative to the assets directory
and optionally copying the files next to the output artifact. Animation
data can stay embedded, be split into one artifact per bundle, or be
dropped entirely.

If dst is omitted it derives from src with a .bam extension.`,
	Args:         cobra.RangeArgs(1, 2),
	RunE:         runConvert,
	SilenceUsage: true,
}

func init() {
	f := rootCmd.Flags()
	f.StringVar(&flagCollisionShapes, "collision-shapes", "builtin", "collision system to build shapes for (builtin, bullet)")
	f.BoolVar(&flagPrintScene, "print-scene", false, "print the converted scene graph to stdout")
	f.BoolVar(&flagSkipAxisConversion, "skip-axis-conversion", false, "do not perform axis conversion")
	f.BoolVar(&flagNoSRGB, "no-srgb", false, "do not load textures as sRGB textures")
	f.StringVar(&flagTextures, "textures", "ref", "external texture handling (ref, copy)")
	f.BoolVar(&flagLegacyMaterials, "legacy-materials", false, "convert PBR materials to legacy materials")
	f.StringVar(&flagAnimations, "animations", "embed", "animation data handling (embed, separate, skip)")
	f.BoolVar(&flagFlattenNodes, "flatten-nodes", false, "attempt to flatten the resulting node structure")
	f.StringVar(&flagAssetsDir, "assets-dir", "", "directory asset paths are made relative to (default: source directory)")
	f.StringVar(&flagConfig, "config", "", "TOML file with option defaults")
	f.StringVar(&flagLogLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("gltf2bam {{.Version}}\n")
}

func runConvert(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if flagConfig != "" {
		loaded, err := config.Load(flagConfig)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	applyConfig(cmd, cfg)

	if err := validateFlags(); err != nil {
		return err
	}

	logger, err := newLogger(flagLogLevel)
	if err != nil {
		return err
	}

	textureMode, err := relocate.ParseMode(flagTextures)
	if err != nil {
		return err
	}
	animMode, err := pipeline.ParseAnimMode(flagAnimations)
	if err != nil {
		return err
	}

	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve working directory: %w", err)
	}

	dst := ""
	if len(args) > 1 {
		dst = args[1]
	}

	job, err := pipeline.NewJob(pathutil.NewResolver(cwd), pipeline.Params{
		Src:       args[0],
		Dst:       dst,
		AssetsDir: flagAssetsDir,
		Settings: convert.Settings{
			CollisionShapes:    flagCollisionShapes,
			SkipAxisConversion: flagSkipAxisConversion,
			NoSRGB:             flagNoSRGB,
			LegacyMaterials:    flagLegacyMaterials,
			SkipAnimations:     animMode == pipeline.AnimSkip,
			FlattenNodes:       flagFlattenNodes,
		},
		TextureMode: textureMode,
		AnimMode:    animMode,
		PrintScene:  flagPrintScene,
		PrintTo:     cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}

	runtime := gltf.New(logger)
	p := pipeline.New(runtime, runtime, bam.NewWriter(logger), logger)
	artifacts, err := p.Run(job)
	if err != nil {
		return err
	}

	for _, path := range artifacts {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}
	return nil
}

// applyConfig fills defaults from the config file for every flag the
// user did not set explicitly. Explicit flags always win.
func applyConfig(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if !f.Changed("collision-shapes") {
		flagCollisionShapes = cfg.CollisionShapes
	}
	if !f.Changed("skip-axis-conversion") {
		flagSkipAxisConversion = cfg.SkipAxisConversion
	}
	if !f.Changed("no-srgb") {
		flagNoSRGB = cfg.NoSRGB
	}
	if !f.Changed("textures") {
		flagTextures = cfg.Textures
	}
	if !f.Changed("legacy-materials") {
		flagLegacyMaterials = cfg.LegacyMaterials
	}
	if !f.Changed("animations") {
		flagAnimations = cfg.Animations
	}
	if !f.Changed("flatten-nodes") {
		flagFlattenNodes = cfg.FlattenNodes
	}
	if !f.Changed("assets-dir") {
		flagAssetsDir = cfg.AssetsDir
	}
	if !f.Changed("log-level") {
		flagLogLevel = cfg.LogLevel
	}
}

func validateFlags() error {
	if err := config.ValidateChoice("collision-shapes", flagCollisionShapes,
		[]string{convert.CollisionBuiltin, convert.CollisionBullet}); err != nil {
		return err
	}
	if err := config.ValidateChoice("textures", flagTextures,
		[]string{string(relocate.ModeReference), string(relocate.ModeCopy)}); err != nil {
		return err
	}
	return config.ValidateChoice("animations", flagAnimations,
		[]string{string(pipeline.AnimEmbed), string(pipeline.AnimSeparate), string(pipeline.AnimSkip)})
}

func newLogger(level string) (*slog.Logger, error) {
	var l slog.Level
	switch level {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid --log-level value %q (choices: debug, info, warn, error)", level)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: l})), nil
}
