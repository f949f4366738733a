package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dndsidebar/internal/domain"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cs := NewConfigService(filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := cs.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadFromPathMissingFileIsError(t *testing.T) {
	cs := NewConfigService(filepath.Join(t.TempDir(), "absent.toml"))

	_, err := cs.LoadFromPath(cs.Path())
	require.Error(t, err)
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cs := NewConfigService(path)

	cfg := DefaultConfig()
	cfg.SetGroupState(domain.GroupState{
		Groups: map[string]*domain.Group{
			"g1": {ID: "g1", Name: "Group 1", Connections: []string{"c1", "c2"}, Expanded: true},
		},
		Connections:     map[string]string{"c1": "g1", "c2": "g1", "c3": ""},
		RootConnections: []string{"c3"},
	})
	cfg.DnD.AutoscrollMargin = 30

	require.NoError(t, cs.Save(cfg))

	loaded, err := cs.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)

	state := loaded.GroupState()
	assert.Equal(t, []string{"c1", "c2"}, state.Groups["g1"].Connections)
	assert.Equal(t, "g1", state.Groups["g1"].ID)
	assert.Equal(t, []string{"c3"}, state.RootConnections)
}

func TestLoadParsesHandWrittenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `version = 1
root_connections = ["c3"]

[connections]
c1 = "g1"
c3 = ""

[groups.g1]
name = "Group 1"
connections = ["c1"]
expanded = true
order = 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewConfigService(path).Load()
	require.NoError(t, err)

	assert.Equal(t, "Group 1", cfg.Groups["g1"].Name)
	assert.Equal(t, "g1", cfg.Connections["c1"])
	assert.Equal(t, []string{"c3"}, cfg.RootConnections)
	// Missing [dnd] table falls back to the defaults
	assert.Equal(t, DefaultAutoscrollMargin, cfg.DnD.AutoscrollMargin)
	assert.Equal(t, 16*time.Millisecond, cfg.DnD.Interval())
}

func TestLoadClampsTuning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `[dnd]
autoscroll_margin = -4.0
autoscroll_max_velocity = 0.0
autoscroll_interval_ms = 2
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := NewConfigService(path).Load()
	require.NoError(t, err)

	assert.Equal(t, currentVersion, cfg.Version)
	assert.Equal(t, DefaultAutoscrollMargin, cfg.DnD.AutoscrollMargin)
	assert.Equal(t, DefaultAutoscrollMaxVelocity, cfg.DnD.AutoscrollMaxVelocity)
	assert.Equal(t, 10*time.Millisecond, cfg.DnD.Interval())
	assert.NotNil(t, cfg.Groups)
	assert.NotNil(t, cfg.Connections)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("version = [unclosed"), 0o644))

	_, err := NewConfigService(path).Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config")
}

func TestDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg")
	t.Setenv("HOME", "/tmp/home")

	assert.Equal(t, "config.toml", filepath.Base(DefaultPath()))
	assert.Equal(t, "dndsidebar", filepath.Base(filepath.Dir(DefaultPath())))
	assert.Equal(t, DefaultPath(), NewConfigService("").Path())
}
