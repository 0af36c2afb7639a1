package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"

	"gopkg.in/ini.v1"
	"jordanella.com/device-framer/internal/batch"
	"jordanella.com/device-framer/internal/frame"
	"jordanella.com/device-framer/internal/logging"
	"jordanella.com/device-framer/pkg/profiles"
)

// DefaultPath is the settings file read from the working directory
const DefaultPath = "frame.ini"

// Settings holds everything a run can be configured with
type Settings struct {
	// Batch
	Dir     string
	Pattern string
	Marker  string
	Suffix  string

	// Frame
	Profile      string
	ProfilesPath string // YAML file or directory of profiles
	Overrides    GeometryOverrides

	// Logging
	LogLevel string
	LogDir   string

	// Ledger
	LedgerPath string
}

// GeometryOverrides replace single fields of the selected profile. Nil
// fields keep the profile's value.
type GeometryOverrides struct {
	Bezel            *int
	OuterRadius      *int
	InnerRadius      *int
	ButtonProtrusion *int
	ButtonThickness  *int
	FrameColor       *color.NRGBA
	ButtonColor      *color.NRGBA
}

// NewDefaultSettings creates settings with default values
func NewDefaultSettings() *Settings {
	opts := batch.DefaultOptions()
	return &Settings{
		Dir:      opts.Dir,
		Pattern:  opts.Pattern,
		Marker:   opts.Marker,
		Suffix:   opts.Suffix,
		Profile:  profiles.DefaultProfile,
		LogLevel: string(logging.LogLevelInfo),
	}
}

// Load reads settings from path, falling back to defaults when the file
// does not exist.
func Load(path string) (*Settings, error) {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return NewDefaultSettings(), nil
	}
	return LoadFromINI(path)
}

// LoadFromINI loads settings from an INI file
func LoadFromINI(path string) (*Settings, error) {
	// Colors are written as #RRGGBB, so '#' must not start an inline comment
	cfg, err := ini.LoadSources(ini.LoadOptions{IgnoreInlineComment: true}, path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	defaults := NewDefaultSettings()
	settings := &Settings{}

	b := cfg.Section("Batch")
	settings.Dir = b.Key("dir").MustString(defaults.Dir)
	settings.Pattern = b.Key("pattern").MustString(defaults.Pattern)
	settings.Marker = b.Key("marker").MustString(defaults.Marker)
	settings.Suffix = b.Key("suffix").MustString(defaults.Suffix)

	f := cfg.Section("Frame")
	settings.Profile = f.Key("profile").MustString(defaults.Profile)
	settings.ProfilesPath = f.Key("profilesPath").MustString("")

	ints := []struct {
		key string
		dst **int
	}{
		{"bezel", &settings.Overrides.Bezel},
		{"outerRadius", &settings.Overrides.OuterRadius},
		{"innerRadius", &settings.Overrides.InnerRadius},
		{"buttonProtrusion", &settings.Overrides.ButtonProtrusion},
		{"buttonThickness", &settings.Overrides.ButtonThickness},
	}
	for _, field := range ints {
		if !f.HasKey(field.key) {
			continue
		}
		v, err := f.Key(field.key).Int()
		if err != nil {
			return nil, fmt.Errorf("[Frame] %s: %w", field.key, err)
		}
		*field.dst = &v
	}

	colors := []struct {
		key string
		dst **color.NRGBA
	}{
		{"frameColor", &settings.Overrides.FrameColor},
		{"buttonColor", &settings.Overrides.ButtonColor},
	}
	for _, field := range colors {
		if !f.HasKey(field.key) {
			continue
		}
		c, err := frame.ParseHexColor(f.Key(field.key).String())
		if err != nil {
			return nil, fmt.Errorf("[Frame] %s: %w", field.key, err)
		}
		*field.dst = &c
	}

	l := cfg.Section("Logging")
	settings.LogLevel = l.Key("logLevel").MustString(defaults.LogLevel)
	settings.LogDir = l.Key("logDir").MustString("")
	if _, err := logging.ParseLogLevel(settings.LogLevel); err != nil {
		return nil, fmt.Errorf("[Logging] logLevel: %w", err)
	}

	settings.LedgerPath = cfg.Section("Ledger").Key("path").MustString("")

	return settings, nil
}

// SaveToINI saves settings to an INI file
func SaveToINI(settings *Settings, path string) error {
	cfg := ini.Empty()

	b := cfg.Section("Batch")
	b.Key("dir").SetValue(settings.Dir)
	b.Key("pattern").SetValue(settings.Pattern)
	b.Key("marker").SetValue(settings.Marker)
	b.Key("suffix").SetValue(settings.Suffix)

	f := cfg.Section("Frame")
	f.Key("profile").SetValue(settings.Profile)
	if settings.ProfilesPath != "" {
		f.Key("profilesPath").SetValue(settings.ProfilesPath)
	}

	o := settings.Overrides
	for _, field := range []struct {
		key string
		v   *int
	}{
		{"bezel", o.Bezel},
		{"outerRadius", o.OuterRadius},
		{"innerRadius", o.InnerRadius},
		{"buttonProtrusion", o.ButtonProtrusion},
		{"buttonThickness", o.ButtonThickness},
	} {
		if field.v != nil {
			f.Key(field.key).SetValue(strconv.Itoa(*field.v))
		}
	}
	if o.FrameColor != nil {
		f.Key("frameColor").SetValue(frame.HexColor(*o.FrameColor))
	}
	if o.ButtonColor != nil {
		f.Key("buttonColor").SetValue(frame.HexColor(*o.ButtonColor))
	}

	l := cfg.Section("Logging")
	l.Key("logLevel").SetValue(settings.LogLevel)
	if settings.LogDir != "" {
		l.Key("logDir").SetValue(settings.LogDir)
	}

	if settings.LedgerPath != "" {
		cfg.Section("Ledger").Key("path").SetValue(settings.LedgerPath)
	}

	return cfg.SaveTo(path)
}

// BatchOptions returns the batch driver options
func (s *Settings) BatchOptions() batch.Options {
	return batch.Options{
		Dir:     s.Dir,
		Pattern: s.Pattern,
		Marker:  s.Marker,
		Suffix:  s.Suffix,
	}
}

// Level returns the configured log level
func (s *Settings) Level() logging.LogLevel {
	level, _ := logging.ParseLogLevel(s.LogLevel)
	return level
}

// ResolveGeometry picks the configured profile from registry, loading
// ProfilesPath first when set, then applies the overrides.
func (s *Settings) ResolveGeometry(registry *profiles.ProfileRegistry) (frame.Geometry, error) {
	if s.ProfilesPath != "" {
		info, err := os.Stat(s.ProfilesPath)
		if err != nil {
			return frame.Geometry{}, fmt.Errorf("profiles path: %w", err)
		}
		if info.IsDir() {
			err = registry.LoadFromDirectory(s.ProfilesPath)
		} else {
			err = registry.LoadFromFile(s.ProfilesPath)
		}
		if err != nil {
			return frame.Geometry{}, err
		}
	}

	g, ok := registry.Get(s.Profile)
	if !ok {
		return frame.Geometry{}, fmt.Errorf("unknown profile %q (available: %v)", s.Profile, registry.List())
	}

	o := s.Overrides
	setInt(&g.Bezel, o.Bezel)
	setInt(&g.OuterRadius, o.OuterRadius)
	setInt(&g.InnerRadius, o.InnerRadius)
	setInt(&g.ButtonProtrusion, o.ButtonProtrusion)
	setInt(&g.ButtonThickness, o.ButtonThickness)
	if o.FrameColor != nil {
		g.FrameColor = *o.FrameColor
	}
	if o.ButtonColor != nil {
		g.ButtonColor = *o.ButtonColor
	}

	if err := g.Validate(); err != nil {
		return frame.Geometry{}, fmt.Errorf("invalid frame geometry: %w", err)
	}
	return g, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}
