// Package config handles the optional TOML defaults file for the
// converter and validation of enumerated option values.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/hbollon/go-edlib"
)

// Config holds default values for the CLI options. Explicit flags
// override anything loaded from a file.
type Config struct {
	CollisionShapes    string `toml:"collision_shapes"`
	SkipAxisConversion bool   `toml:"skip_axis_conversion"`
	NoSRGB             bool   `toml:"no_srgb"`
	Textures           string `toml:"textures"`
	LegacyMaterials    bool   `toml:"legacy_materials"`
	Animations         string `toml:"animations"`
	FlattenNodes       bool   `toml:"flatten_nodes"`
	AssetsDir          string `toml:"assets_dir"`
	LogLevel           string `toml:"log_level"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		CollisionShapes: "builtin",
		Textures:        "ref",
		Animations:      "embed",
		LogLevel:        "info",
	}
}

// Load reads and parses a defaults file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	// Substitute environment variables
	content := substituteEnvVars(string(data))

	cfg := Default()
	if _, err := toml.Decode(content, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// substituteEnvVars replaces ${VAR_NAME} with environment variable values.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

func substituteEnvVars(content string) string {
	return envVarPattern.ReplaceAllStringFunc(content, func(match string) string {
		varName := match[2 : len(match)-1] // Strip ${ and }
		if value, ok := os.LookupEnv(varName); ok {
			return value
		}
		return match // Leave unchanged if not found
	})
}

// ValidateChoice checks value against the allowed choices for an option.
// On a miss it suggests the closest choice when one is plausibly a typo.
func ValidateChoice(option, value string, choices []string) error {
	for _, c := range choices {
		if value == c {
			return nil
		}
	}

	var best string
	var bestScore float32
	for _, c := range choices {
		if score := edlib.JaroWinklerSimilarity(value, c); score > bestScore {
			best = c
			bestScore = score
		}
	}
	if bestScore >= 0.7 {
		return fmt.Errorf("invalid --%s value %q (did you mean %q?)", option, value, best)
	}
	return fmt.Errorf("invalid --%s value %q (choices: %s)", option, value, strings.Join(choices, ", "))
}
