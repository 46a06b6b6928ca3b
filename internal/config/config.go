// Package config holds the runtime settings of a window: defaults, an
// optional YAML file and command-line metadata.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/shlex"
	"gopkg.in/yaml.v3"

	"tandem/core/compose"
	"tandem/core/geom"
	"tandem/core/peers"
	"tandem/core/render3d"
	"tandem/core/smooth"
	"tandem/core/tasks/spheres"
)

const DefaultSession = "default"

// Config maps directly to the YAML file. Fields missing from the file keep
// their defaults.
type Config struct {
	Session  Session           `yaml:"session"`
	Scene    Scene             `yaml:"scene"`
	Registry Registry          `yaml:"registry"`
	Window   geom.Rect         `yaml:"window"` // headless placement
	// Scale is the headless device scale; the window runner asks the monitor.
	Scale    float64           `yaml:"scale"`
	Meta     map[string]string `yaml:"meta"`
}

type Session struct {
	Dir  string `yaml:"dir"`
	Name string `yaml:"name"`
}

type Scene struct {
	RadiusBase     float64 `yaml:"radius_base"`
	RadiusStep     float64 `yaml:"radius_step"`
	HueStep        float64 `yaml:"hue_step"`
	Damping        float64 `yaml:"damping"`
	SphereSegments int     `yaml:"sphere_segments"`
	HUD            bool    `yaml:"hud"`
}

type Registry struct {
	PollInterval      time.Duration `yaml:"poll_interval"`
	HeartbeatInterval time.Duration `yaml:"heartbeat_interval"`
	StaleAfter        time.Duration `yaml:"stale_after"`
}

func Default() Config {
	p := compose.DefaultParams()
	return Config{
		Session: Session{Name: DefaultSession},
		Scene: Scene{
			RadiusBase:     p.Base,
			RadiusStep:     p.Increment,
			HueStep:        p.HueStep,
			Damping:        smooth.DefaultDamping,
			SphereSegments: spheres.DefaultSegments,
			HUD:            true,
		},
		Registry: Registry{
			PollInterval:      peers.DefaultPollInterval,
			HeartbeatInterval: peers.DefaultHeartbeatInterval,
			StaleAfter:        peers.DefaultStaleAfter,
		},
		Window: geom.Rect{W: 640, H: 480},
		Scale:  1,
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects settings the scene cannot run with.
func (c Config) Validate() error {
	var errs []error
	if c.Session.Name == "" || strings.ContainsAny(c.Session.Name, `/\`) {
		errs = append(errs, fmt.Errorf("session name %q is not a plain file name", c.Session.Name))
	}
	if !(c.Scene.Damping > 0 && c.Scene.Damping <= 1) {
		errs = append(errs, fmt.Errorf("scene.damping %v not in (0, 1]", c.Scene.Damping))
	}
	if c.Scene.RadiusBase <= 0 {
		errs = append(errs, fmt.Errorf("scene.radius_base %v must be positive", c.Scene.RadiusBase))
	}
	if c.Scene.SphereSegments < 3 || c.Scene.SphereSegments > render3d.MaxSphereSegments {
		errs = append(errs, fmt.Errorf("scene.sphere_segments %d not in [3, %d]", c.Scene.SphereSegments, render3d.MaxSphereSegments))
	}
	if c.Registry.PollInterval <= 0 {
		errs = append(errs, fmt.Errorf("registry.poll_interval %v must be positive", c.Registry.PollInterval))
	}
	if c.Registry.HeartbeatInterval <= 0 {
		errs = append(errs, fmt.Errorf("registry.heartbeat_interval %v must be positive", c.Registry.HeartbeatInterval))
	}
	if c.Registry.StaleAfter < 0 {
		errs = append(errs, fmt.Errorf("registry.stale_after %v is negative", c.Registry.StaleAfter))
	} else if c.Registry.StaleAfter > 0 && c.Registry.StaleAfter <= c.Registry.HeartbeatInterval {
		errs = append(errs, fmt.Errorf("registry.stale_after %v must exceed heartbeat_interval %v", c.Registry.StaleAfter, c.Registry.HeartbeatInterval))
	}
	if !(c.Scale > 0 && c.Scale <= 8) {
		errs = append(errs, fmt.Errorf("scale %v not in (0, 8]", c.Scale))
	}
	return errors.Join(errs...)
}

// SessionConfig returns the registry settings. Locate and Logger are left to
// the caller.
func (c Config) SessionConfig() peers.SessionConfig {
	return peers.SessionConfig{
		Dir:               c.Session.Dir,
		Name:              c.Session.Name,
		PollInterval:      c.Registry.PollInterval,
		HeartbeatInterval: c.Registry.HeartbeatInterval,
		StaleAfter:        c.Registry.StaleAfter,
	}
}

// SceneConfig returns the render loop settings.
func (c Config) SceneConfig() spheres.Config {
	return spheres.Config{
		Compose: compose.Params{
			Base:      c.Scene.RadiusBase,
			Increment: c.Scene.RadiusStep,
			HueStep:   c.Scene.HueStep,
		},
		Damping:  c.Scene.Damping,
		Segments: c.Scene.SphereSegments,
		Meta:     c.Meta,
		HUD:      c.Scene.HUD,
	}
}

// ParseMeta parses shell-quoted key=value pairs, e.g. `name=left "label=big one"`.
func ParseMeta(s string) (map[string]string, error) {
	words, err := shlex.Split(s)
	if err != nil {
		return nil, fmt.Errorf("config: meta: %w", err)
	}
	if len(words) == 0 {
		return nil, nil
	}
	m := make(map[string]string, len(words))
	for _, w := range words {
		k, v, ok := strings.Cut(w, "=")
		if !ok || k == "" {
			return nil, fmt.Errorf("config: meta: %q is not key=value", w)
		}
		m[k] = v
	}
	return m, nil
}

// MergeMeta returns base with over applied on top.
func MergeMeta(base, over map[string]string) map[string]string {
	if len(base) == 0 && len(over) == 0 {
		return nil
	}
	out := make(map[string]string, len(base)+len(over))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range over {
		out[k] = v
	}
	return out
}
