package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"tandem/core/geom"
	"tandem/core/render3d"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "scene.yaml")
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return p
}

func TestDefaultValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
}

func TestLoadEmptyPath(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Scene.RadiusBase != 50 || cfg.Scene.RadiusStep != 25 || cfg.Scene.HueStep != 0.1 {
		t.Fatalf("defaults = %+v", cfg.Scene)
	}
}

func TestLoadOverrides(t *testing.T) {
	p := writeFile(t, `
session:
  name: demo
scene:
  radius_step: 10
  damping: 0.2
registry:
  poll_interval: 250ms
  stale_after: 10s
window: {x: 5, y: 6, w: 300, h: 200}
scale: 2
meta:
  role: left
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session.Name != "demo" {
		t.Fatalf("session name = %q", cfg.Session.Name)
	}
	if cfg.Scene.RadiusStep != 10 || cfg.Scene.Damping != 0.2 {
		t.Fatalf("scene = %+v", cfg.Scene)
	}
	if cfg.Scene.RadiusBase != 50 || cfg.Scene.SphereSegments != 10 {
		t.Fatalf("unspecified scene fields lost defaults: %+v", cfg.Scene)
	}
	if cfg.Registry.PollInterval != 250*time.Millisecond || cfg.Registry.StaleAfter != 10*time.Second {
		t.Fatalf("registry = %+v", cfg.Registry)
	}
	if cfg.Registry.HeartbeatInterval != 500*time.Millisecond {
		t.Fatalf("heartbeat default lost: %v", cfg.Registry.HeartbeatInterval)
	}
	if cfg.Window != (geom.Rect{X: 5, Y: 6, W: 300, H: 200}) {
		t.Fatalf("window = %+v", cfg.Window)
	}
	if cfg.Scale != 2 {
		t.Fatalf("scale = %v, want 2", cfg.Scale)
	}
	if cfg.Meta["role"] != "left" {
		t.Fatalf("meta = %v", cfg.Meta)
	}

	sc := cfg.SceneConfig()
	if sc.Compose.Increment != 10 || sc.Damping != 0.2 || sc.Meta["role"] != "left" {
		t.Fatalf("SceneConfig = %+v", sc)
	}
	ss := cfg.SessionConfig()
	if ss.Name != "demo" || ss.PollInterval != 250*time.Millisecond {
		t.Fatalf("SessionConfig = %+v", ss)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := map[string]string{
		"damping":  "scene: {damping: 1.5}",
		"zero":     "scene: {damping: 0}",
		"poll":     "registry: {poll_interval: 0s}",
		"stale":    "registry: {heartbeat_interval: 1s, stale_after: 500ms}",
		"segments": "scene: {sphere_segments: 2}",
		"too many": "scene: {sphere_segments: 300}",
		"scale":    "scale: 0",
		"name":     "session: {name: a/b}",
		"yaml":     "scene: [",
	}
	for name, body := range cases {
		if _, err := Load(writeFile(t, body)); err == nil {
			t.Fatalf("%s: Load succeeded", name)
		}
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("Load of missing file succeeded")
	}
}

func TestParseMeta(t *testing.T) {
	m, err := ParseMeta(`name=left "label=big one" empty=`)
	if err != nil {
		t.Fatalf("ParseMeta: %v", err)
	}
	if len(m) != 3 || m["name"] != "left" || m["label"] != "big one" || m["empty"] != "" {
		t.Fatalf("ParseMeta = %v", m)
	}

	m, err = ParseMeta("   ")
	if err != nil || m != nil {
		t.Fatalf("ParseMeta(blank) = %v, %v", m, err)
	}

	for _, bad := range []string{"novalue", "=v", `unterminated="x`} {
		if _, err := ParseMeta(bad); err == nil {
			t.Fatalf("ParseMeta(%q) succeeded", bad)
		}
	}
}

func TestMergeMeta(t *testing.T) {
	got := MergeMeta(map[string]string{"a": "1", "b": "2"}, map[string]string{"b": "3"})
	if got["a"] != "1" || got["b"] != "3" {
		t.Fatalf("MergeMeta = %v", got)
	}
	if MergeMeta(nil, nil) != nil {
		t.Fatalf("MergeMeta(nil,nil) not nil")
	}
}

func TestValidateReportsAll(t *testing.T) {
	cfg := Default()
	cfg.Scene.Damping = 0
	cfg.Registry.PollInterval = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatalf("Validate succeeded")
	}
	if !strings.Contains(err.Error(), "damping") || !strings.Contains(err.Error(), "poll_interval") {
		t.Fatalf("Validate = %v", err)
	}
}

func TestSegmentsUpperBound(t *testing.T) {
	cfg := Default()
	cfg.Scene.SphereSegments = render3d.MaxSphereSegments
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate(%d segments): %v", cfg.Scene.SphereSegments, err)
	}
	cfg.Scene.SphereSegments++
	if err := cfg.Validate(); err == nil {
		t.Fatalf("Validate(%d segments) succeeded", cfg.Scene.SphereSegments)
	}
}
