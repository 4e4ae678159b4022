// Package config provides configuration loading and access for the simulation.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Archetype roles understood by the scenario builder.
const (
	RolePlant   = "plant"
	RoleGrazer  = "grazer"
	RoleHunter  = "hunter"
	RoleSpawner = "spawner"
)

// Config holds all simulation configuration parameters.
type Config struct {
	Screen     ScreenConfig      `yaml:"screen"`
	World      WorldConfig       `yaml:"world"`
	Physics    PhysicsConfig     `yaml:"physics"`
	Archetypes []ArchetypeConfig `yaml:"archetypes"`
	Telemetry  TelemetryConfig   `yaml:"telemetry"`
	Network    NetworkConfig     `yaml:"network"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int `yaml:"width"`
	Height    int `yaml:"height"`
	TargetFPS int `yaml:"target_fps"`
}

// WorldConfig holds simulation world dimensions.
type WorldConfig struct {
	Width  int   `yaml:"width"`  // World width in world units (0 = use screen width)
	Height int   `yaml:"height"` // World height in world units (0 = use screen height)
	Seed   int64 `yaml:"seed"`   // Placement RNG seed
}

// PhysicsConfig holds the environmental factors applied every tick.
// A zero value disables the matching factor.
type PhysicsConfig struct {
	DT              float64 `yaml:"dt"`               // Seconds of simulated time per tick
	SpeedLimit      float64 `yaml:"speed_limit"`      // Max |speed| in units per second
	Friction        float64 `yaml:"friction"`         // Speed lost per second
	Gravity         float64 `yaml:"gravity"`          // Downward pull in units per second²
	PopulationLimit int     `yaml:"population_limit"` // Oldest objects are culled above this
}

// ArchetypeConfig is a founder template for the initial population.
type ArchetypeConfig struct {
	Name  string     `yaml:"name"`
	Role  string     `yaml:"role"`
	Count int        `yaml:"count"`
	Size  float64    `yaml:"size"`  // Area
	Speed float64    `yaml:"speed"` // Initial speed, random heading
	Color [3]float64 `yaml:"color"`
	Tags  []string   `yaml:"tags"`

	Vision        float64 `yaml:"vision"`         // Proximity for approach/flee
	Rate          float64 `yaml:"rate"`           // Steering rate in units per second², or launch speed for spawners
	Food          string  `yaml:"food"`           // Tag approached and eaten
	Threat        string  `yaml:"threat"`         // Tag fled from
	BreedDelay    float64 `yaml:"breed_delay"`    // Seconds of contact before breeding (0 = never)
	SpawnInterval float64 `yaml:"spawn_interval"` // Spawner period in seconds
	Offspring     string  `yaml:"offspring"`      // Archetype a spawner emits
}

// TelemetryConfig holds telemetry parameters.
type TelemetryConfig struct {
	StatsWindow         float64 `yaml:"stats_window"`          // Seconds of sim time per stats row
	PerfCollectorWindow int     `yaml:"perf_collector_window"` // Ticks averaged for perf stats
	SnapshotInterval    int     `yaml:"snapshot_interval"`     // Ticks between snapshots (0 = off)
	BookmarkHistorySize int     `yaml:"bookmark_history_size"` // Windows kept for bookmark detection
}

// NetworkConfig holds the frame broadcaster settings.
type NetworkConfig struct {
	Listen string `yaml:"listen"` // host:port; empty disables the broadcaster
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	DT             time.Duration  // Physics.DT as a duration
	WorldW         float64        // Effective world width
	WorldH         float64        // Effective world height
	ArchetypeIndex map[string]int // name -> index for archetype lookup
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// MustInit is like Init but panics on error.
func MustInit(path string) {
	if err := Init(path); err != nil {
		panic(fmt.Sprintf("config: failed to initialize: %v", err))
	}
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Only overwrites fields present in the file. A user archetype list
		// replaces the default one entirely.
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.computeDerived()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	c.Derived.DT = time.Duration(c.Physics.DT * float64(time.Second))

	// World dimensions default to screen size if not specified
	worldW := c.World.Width
	if worldW == 0 {
		worldW = c.Screen.Width
	}
	worldH := c.World.Height
	if worldH == 0 {
		worldH = c.Screen.Height
	}
	c.Derived.WorldW = float64(worldW)
	c.Derived.WorldH = float64(worldH)

	for i := range c.Archetypes {
		arch := &c.Archetypes[i]
		if arch.Size == 0 {
			arch.Size = 20
		}
		if arch.Vision == 0 {
			arch.Vision = 100
		}
	}

	c.Derived.ArchetypeIndex = make(map[string]int, len(c.Archetypes))
	for i, arch := range c.Archetypes {
		c.Derived.ArchetypeIndex[arch.Name] = i
	}
}

func (c *Config) validate() error {
	if c.Physics.DT <= 0 {
		return fmt.Errorf("physics.dt must be positive, got %v", c.Physics.DT)
	}
	if len(c.Derived.ArchetypeIndex) != len(c.Archetypes) {
		return fmt.Errorf("archetype names must be unique")
	}
	for _, arch := range c.Archetypes {
		switch arch.Role {
		case RolePlant, RoleGrazer, RoleHunter:
		case RoleSpawner:
			offspring, ok := c.Archetype(arch.Offspring)
			if !ok {
				return fmt.Errorf("archetype %q: unknown offspring %q", arch.Name, arch.Offspring)
			}
			if offspring.Role == RoleSpawner {
				return fmt.Errorf("archetype %q: offspring %q is itself a spawner", arch.Name, arch.Offspring)
			}
		default:
			return fmt.Errorf("archetype %q: unknown role %q", arch.Name, arch.Role)
		}
		if arch.Count < 0 {
			return fmt.Errorf("archetype %q: negative count", arch.Name)
		}
	}
	return nil
}

// Archetype returns the archetype with the given name.
func (c *Config) Archetype(name string) (ArchetypeConfig, bool) {
	i, ok := c.Derived.ArchetypeIndex[name]
	if !ok {
		return ArchetypeConfig{}, false
	}
	return c.Archetypes[i], true
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Clone returns a deep copy of c with derived values recomputed.
func (c *Config) Clone() (*Config, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshaling config: %w", err)
	}
	cp := &Config{}
	if err := yaml.Unmarshal(data, cp); err != nil {
		return nil, fmt.Errorf("parsing config copy: %w", err)
	}
	cp.computeDerived()
	return cp, nil
}
