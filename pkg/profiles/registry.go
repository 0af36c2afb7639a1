package profiles

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
	"jordanella.com/device-framer/internal/frame"
)

// DefaultProfile is the name under which frame.DefaultGeometry is registered
const DefaultProfile = "iphone"

// ProfileRegistry holds named device frame geometries loaded from YAML files
type ProfileRegistry struct {
	mu       sync.RWMutex
	profiles map[string]frame.Geometry
}

// ProfileDefinition represents a device profile in the YAML file.
// Omitted fields inherit from frame.DefaultGeometry.
type ProfileDefinition struct {
	Name         string       `yaml:"name"`
	Bezel        *int         `yaml:"bezel,omitempty"`
	OuterRadius  *int         `yaml:"outer_radius,omitempty"`
	InnerRadius  *int         `yaml:"inner_radius,omitempty"`
	FrameColor   string       `yaml:"frame_color,omitempty"`
	Button       *ButtonDef   `yaml:"button,omitempty"`
	LeftButtons  []SideButton `yaml:"left_buttons,omitempty"`
	RightButtons []SideButton `yaml:"right_buttons,omitempty"`
}

// ButtonDef holds the shape shared by all side buttons
type ButtonDef struct {
	Protrusion *int   `yaml:"protrusion,omitempty"`
	Thickness  *int   `yaml:"thickness,omitempty"`
	Color      string `yaml:"color,omitempty"`
}

// SideButton represents one button in the YAML file
type SideButton struct {
	Name   string `yaml:"name"`
	Y      int    `yaml:"y"`
	Height int    `yaml:"height"`
}

// ProfileFile represents the structure of a profile YAML file
type ProfileFile struct {
	Profiles []ProfileDefinition `yaml:"profiles"`
}

// NewProfileRegistry creates a registry holding the built-in profile
func NewProfileRegistry() *ProfileRegistry {
	return &ProfileRegistry{
		profiles: map[string]frame.Geometry{
			DefaultProfile: frame.DefaultGeometry(),
		},
	}
}

// LoadFromFile loads profiles from a YAML file. Nothing is registered
// unless every profile in the file is valid.
func (pr *ProfileRegistry) LoadFromFile(filePath string) error {
	loaded, err := parseFile(filePath)
	if err != nil {
		return err
	}
	pr.commit(loaded)
	return nil
}

// LoadFromDirectory loads all YAML files from a directory. If any file
// fails, none of the directory's profiles are registered.
func (pr *ProfileRegistry) LoadFromDirectory(dirPath string) error {
	entries, err := os.ReadDir(dirPath)
	if err != nil {
		return fmt.Errorf("failed to read profile directory %s: %w", dirPath, err)
	}

	staged := make(map[string]frame.Geometry)
	var loadErrors []error
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		ext := filepath.Ext(entry.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}

		loaded, err := parseFile(filepath.Join(dirPath, entry.Name()))
		if err != nil {
			loadErrors = append(loadErrors, fmt.Errorf("file %s: %w", entry.Name(), err))
			continue
		}
		for name, g := range loaded {
			staged[name] = g
		}
	}

	if len(loadErrors) > 0 {
		return fmt.Errorf("failed to load %d profile files (first error): %w", len(loadErrors), loadErrors[0])
	}

	pr.commit(staged)
	return nil
}

func parseFile(filePath string) (map[string]frame.Geometry, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile file %s: %w", filePath, err)
	}

	var profileFile ProfileFile
	if err := yaml.Unmarshal(data, &profileFile); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile YAML: %w", err)
	}

	loaded := make(map[string]frame.Geometry, len(profileFile.Profiles))
	for i, def := range profileFile.Profiles {
		if def.Name == "" {
			return nil, fmt.Errorf("profile %d: name cannot be empty", i+1)
		}

		g, err := def.Geometry()
		if err != nil {
			return nil, fmt.Errorf("profile %d (%s): %w", i+1, def.Name, err)
		}
		loaded[def.Name] = g
	}
	return loaded, nil
}

func (pr *ProfileRegistry) commit(loaded map[string]frame.Geometry) {
	pr.mu.Lock()
	defer pr.mu.Unlock()
	for name, g := range loaded {
		pr.profiles[name] = g
	}
}

// Geometry converts the definition into a validated frame.Geometry
func (def ProfileDefinition) Geometry() (frame.Geometry, error) {
	g := frame.DefaultGeometry()

	setInt(&g.Bezel, def.Bezel)
	setInt(&g.OuterRadius, def.OuterRadius)
	setInt(&g.InnerRadius, def.InnerRadius)

	if def.FrameColor != "" {
		c, err := frame.ParseHexColor(def.FrameColor)
		if err != nil {
			return frame.Geometry{}, fmt.Errorf("frame_color: %w", err)
		}
		g.FrameColor = c
	}

	if def.Button != nil {
		setInt(&g.ButtonProtrusion, def.Button.Protrusion)
		setInt(&g.ButtonThickness, def.Button.Thickness)
		if def.Button.Color != "" {
			c, err := frame.ParseHexColor(def.Button.Color)
			if err != nil {
				return frame.Geometry{}, fmt.Errorf("button color: %w", err)
			}
			g.ButtonColor = c
		}
	}

	if def.LeftButtons != nil {
		g.LeftButtons = toButtons(def.LeftButtons)
	}
	if def.RightButtons != nil {
		g.RightButtons = toButtons(def.RightButtons)
	}

	if err := g.Validate(); err != nil {
		return frame.Geometry{}, err
	}
	return g, nil
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

func toButtons(defs []SideButton) []frame.Button {
	buttons := make([]frame.Button, len(defs))
	for i, d := range defs {
		buttons[i] = frame.Button{Name: d.Name, Y: d.Y, Height: d.Height}
	}
	return buttons
}

// Get retrieves a profile by name
func (pr *ProfileRegistry) Get(name string) (frame.Geometry, bool) {
	pr.mu.RLock()
	defer pr.mu.RUnlock()

	g, ok := pr.profiles[name]
	return g, ok
}

// Register adds a profile programmatically
func (pr *ProfileRegistry) Register(name string, g frame.Geometry) error {
	if name == "" {
		return fmt.Errorf("profile name cannot be empty")
	}
	if err := g.Validate(); err != nil {
		return fmt.Errorf("profile %s: %w", name, err)
	}

	pr.mu.Lock()
	defer pr.mu.Unlock()

	pr.profiles[name] = g
	return nil
}

// Has checks if a profile exists in the registry
func (pr *ProfileRegistry) Has(name string) bool {
	pr.mu.RLock()
	defer pr.mu.RUnlock()

	_, ok := pr.profiles[name]
	return ok
}

// List returns all profile names, sorted
func (pr *ProfileRegistry) List() []string {
	pr.mu.RLock()
	defer pr.mu.RUnlock()

	names := make([]string, 0, len(pr.profiles))
	for name := range pr.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of profiles in the registry
func (pr *ProfileRegistry) Count() int {
	pr.mu.RLock()
	defer pr.mu.RUnlock()

	return len(pr.profiles)
}
