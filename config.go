package lantern

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds the pipeline construction parameters. The values under
// ShadowMapResolution, MaxNumLights, and Indirect are baked into shader
// sources at build time; changing them requires constructing a new
// [LightPipeline].
type Config struct {
	// ShadowMapResolution is the number of angle buckets per light row in
	// the shadow map.
	ShadowMapResolution int `yaml:"shadow_map_resolution"`
	// MaxNumLights caps the number of lights per frame. Each light owns one
	// shadow-map row, so the cap also fixes the shadow map's height.
	MaxNumLights int `yaml:"max_num_lights"`
	// Indirect configures the cone-traced indirect lighting approximation.
	Indirect IndirectConfig `yaml:"indirect"`
	// GlobalLight provides the default per-frame light parameters. These are
	// tunable at runtime through GlobalLightParams; the config values seed
	// them.
	GlobalLight GlobalLightConfig `yaml:"global_light"`
}

// IndirectConfig holds the quality knobs for the cone-traced one-bounce
// diffuse approximation. Both counts are compile-time constants of the
// compose shader.
type IndirectConfig struct {
	NumTracingCones int `yaml:"num_tracing_cones"`
	NumTracingSteps int `yaml:"num_tracing_steps"`
}

// GlobalLightConfig holds the default global light parameters. The indirect
// tuning constants are empirical; treat them as knobs, not truths.
type GlobalLightConfig struct {
	AmbientR float64 `yaml:"ambient_r"`
	AmbientG float64 `yaml:"ambient_g"`
	AmbientB float64 `yaml:"ambient_b"`
	Gamma    float64 `yaml:"gamma"`
	// AngleFalloffSize is the soft-edge width, in radians, of a cone light's
	// angular falloff.
	AngleFalloffSize float64 `yaml:"angle_falloff_size"`
	// IndirectStart is the cone march's initial offset in pixels.
	IndirectStart float64 `yaml:"indirect_start"`
	// IndirectStepFactor scales each march step by the cone diameter.
	IndirectStepFactor float64 `yaml:"indirect_step_factor"`
	// IndirectColorScale scales sampled reflector colors.
	IndirectColorScale float64 `yaml:"indirect_color_scale"`
	// IndirectZ is the assumed out-of-plane distance used when weighting
	// cone directions against surface normals.
	IndirectZ float64 `yaml:"indirect_z"`
}

// DefaultConfig returns the configuration parsed from the embedded defaults.
func DefaultConfig() Config {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		// The embedded defaults are part of the build; failing to parse them
		// is a packaging bug, not a runtime condition.
		panic("lantern: invalid embedded defaults: " + err.Error())
	}
	return cfg
}

// LoadConfig reads a yaml config file, overlaying it on the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the construction parameters.
func (c Config) Validate() error {
	if c.ShadowMapResolution <= 0 {
		return fmt.Errorf("config: shadow_map_resolution must be positive, got %d", c.ShadowMapResolution)
	}
	if c.MaxNumLights <= 0 {
		return fmt.Errorf("config: max_num_lights must be positive, got %d", c.MaxNumLights)
	}
	if c.Indirect.NumTracingCones <= 0 {
		return fmt.Errorf("config: num_tracing_cones must be positive, got %d", c.Indirect.NumTracingCones)
	}
	if c.Indirect.NumTracingSteps <= 0 {
		return fmt.Errorf("config: num_tracing_steps must be positive, got %d", c.Indirect.NumTracingSteps)
	}
	return nil
}

// GlobalParams returns per-frame global light parameters seeded from the
// config defaults.
func (c Config) GlobalParams() GlobalLightParams {
	g := c.GlobalLight
	return GlobalLightParams{
		Ambient:            Color{g.AmbientR, g.AmbientG, g.AmbientB, 1},
		Gamma:              g.Gamma,
		AngleFalloffSize:   g.AngleFalloffSize,
		IndirectStart:      g.IndirectStart,
		IndirectStepFactor: g.IndirectStepFactor,
		IndirectColorScale: g.IndirectColorScale,
		IndirectZ:          g.IndirectZ,
	}
}
