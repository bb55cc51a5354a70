// Package config defines the run configuration for a conversion: input
// paths, output paths and the external profiler surface. Files are YAML
// or JSON.
package config

import (
	"fmt"
	"unicode/utf8"
)

// Config is one full conversion run.
type Config struct {
	Inputs   Inputs   `yaml:"inputs" json:"inputs"`
	Outputs  Outputs  `yaml:"outputs" json:"outputs"`
	Profiler Profiler `yaml:"profiler" json:"profiler"`
}

// Inputs names the measurement export and the chart definition.
type Inputs struct {
	CSV       string `yaml:"csv" json:"csv"`
	Chart     string `yaml:"chart" json:"chart"`
	Delimiter string `yaml:"delimiter" json:"delimiter"`
}

// DelimiterRune returns the CSV delimiter, defaulting to a semicolon.
func (i Inputs) DelimiterRune() (rune, error) {
	if i.Delimiter == "" {
		return ';', nil
	}
	r, size := utf8.DecodeRuneInString(i.Delimiter)
	if size != len(i.Delimiter) {
		return 0, fmt.Errorf("delimiter %q must be a single character", i.Delimiter)
	}
	return r, nil
}

// Outputs names the produced files and the TI3 header options.
type Outputs struct {
	TI3         string `yaml:"ti3" json:"ti3"`
	ICC         string `yaml:"icc" json:"icc"`
	Description string `yaml:"description" json:"description"`
	DeviceClass string `yaml:"device_class" json:"device_class"`
	Instrument  string `yaml:"instrument" json:"instrument"`
	Geometry    string `yaml:"geometry" json:"geometry"`
}

// Profiler mirrors the external tool's option surface. String fields
// pass through as flag values; empty means the flag is omitted.
type Profiler struct {
	// Run gates tool invocation after the TI3 is written; nil means on.
	Run     *bool  `yaml:"run" json:"run,omitempty"`
	Tool    string `yaml:"tool" json:"tool"`
	Threads int    `yaml:"threads" json:"threads"`

	Quality   string `yaml:"quality" json:"quality"`
	B2A       string `yaml:"b2a" json:"b2a"`
	Algorithm string `yaml:"algorithm" json:"algorithm"`
	Demphasis string `yaml:"demphasis" json:"demphasis"`
	AvgDev    string `yaml:"avgdev" json:"avgdev"`

	// Spectral-gated options, applied only when the TI3 carries
	// spectral data.
	Illuminant    string `yaml:"illuminant" json:"illuminant"`
	Observer      string `yaml:"observer" json:"observer"`
	FWA           bool   `yaml:"fwa" json:"fwa"`
	FWAIlluminant string `yaml:"fwa_illuminant" json:"fwa_illuminant"`

	GamutMapPerceptual string `yaml:"gamut_map_perceptual" json:"gamut_map_perceptual"`
	GamutMapBoth       string `yaml:"gamut_map_both" json:"gamut_map_both"`
	ColSrcPerceptual   bool   `yaml:"use_colorimetric_src_for_perceptual" json:"use_colorimetric_src_for_perceptual"`
	ColSrcSaturation   bool   `yaml:"use_colorimetric_src_for_saturation" json:"use_colorimetric_src_for_saturation"`
	SourceGamutFile    string `yaml:"source_gamut_file" json:"source_gamut_file"`
	AbstractProfiles   string `yaml:"abstract_profiles" json:"abstract_profiles"`
	PerceptualIntent   string `yaml:"perceptual_intent" json:"perceptual_intent"`
	SaturationIntent   string `yaml:"saturation_intent" json:"saturation_intent"`
	ViewcondIn         string `yaml:"viewcond_in" json:"viewcond_in"`
	ViewcondOut        string `yaml:"viewcond_out" json:"viewcond_out"`
	GamutVRML          bool   `yaml:"create_gamut_vrml" json:"create_gamut_vrml"`

	Manufacturer  string `yaml:"manufacturer" json:"manufacturer"`
	Model         string `yaml:"model" json:"model"`
	Copyright     string `yaml:"copyright" json:"copyright"`
	Attributes    string `yaml:"attributes" json:"attributes"`
	DefaultIntent string `yaml:"default_intent" json:"default_intent"`

	TotalInkLimit   string `yaml:"total_ink_limit" json:"total_ink_limit"`
	BlackInkLimit   string `yaml:"black_ink_limit" json:"black_ink_limit"`
	BlackGeneration string `yaml:"black_generation" json:"black_generation"`
	KLocus          string `yaml:"k_locus" json:"k_locus"`

	NoDeviceShaper     bool   `yaml:"no_device_shaper" json:"no_device_shaper"`
	NoGridPosition     bool   `yaml:"no_grid_position" json:"no_grid_position"`
	NoOutputShaper     bool   `yaml:"no_output_shaper" json:"no_output_shaper"`
	NoEmbedTI3         bool   `yaml:"no_embed_ti3" json:"no_embed_ti3"`
	InputAutoScaleWP   bool   `yaml:"input_auto_scale_wp" json:"input_auto_scale_wp"`
	InputForceAbsolute bool   `yaml:"input_force_absolute" json:"input_force_absolute"`
	InputClipAboveWP   bool   `yaml:"input_clip_above_wp" json:"input_clip_above_wp"`
	RestrictPositive   bool   `yaml:"restrict_positive" json:"restrict_positive"`
	WhitepointScale    string `yaml:"whitepoint_scale" json:"whitepoint_scale"`
}

// RunEnabled reports whether the tool should be invoked; unset means yes.
func (p Profiler) RunEnabled() bool {
	return p.Run == nil || *p.Run
}

// Validate checks the fields every conversion needs.
func (c *Config) Validate() error {
	if c.Inputs.CSV == "" {
		return fmt.Errorf("config: inputs.csv is required")
	}
	if c.Inputs.Chart == "" {
		return fmt.Errorf("config: inputs.chart is required")
	}
	if c.Outputs.TI3 == "" {
		return fmt.Errorf("config: outputs.ti3 is required")
	}
	if _, err := c.Inputs.DelimiterRune(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}
