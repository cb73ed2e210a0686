package prefabs

import (
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/topdown/camera"
	"github.com/milk9111/topdown/locomotion"
	"github.com/milk9111/topdown/steering"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useDir points disk overrides at dir for the duration of the test.
func useDir(t *testing.T, dir string) {
	t.Helper()
	old := Dir
	Dir = dir
	t.Cleanup(func() { Dir = old })
}

func TestEmbeddedSpecsMatchDefaults(t *testing.T) {
	useDir(t, t.TempDir())

	player, err := LoadPlayerSpec()
	require.NoError(t, err)
	assert.Equal(t, "wasd", player.Mode)
	assert.Equal(t, locomotion.DefaultTopDownParams(), player.TopDown)
	assert.Equal(t, locomotion.DefaultClickParams(), player.Click)
	assert.InDelta(t, mgl64.DegToRad(180), player.Transform.HeadingRad(), 1e-12)

	enemy, err := LoadEnemySpec()
	require.NoError(t, err)
	assert.Equal(t, steering.DefaultParams(), enemy.Steering)
	assert.Equal(t, 6, enemy.Spawn.Count)

	cam, err := LoadCameraSpec()
	require.NoError(t, err)
	assert.Equal(t, camera.DefaultParams(), cam.Rig)
	assert.Equal(t, 60.0, cam.FovY)

	grid, err := LoadGridSpec()
	require.NoError(t, err)
	assert.Equal(t, 1.0, grid.Spacing)
	assert.Equal(t, 5, grid.LabelEvery)
	require.NotNil(t, grid.Color)
	assert.Equal(t, color.NRGBA{R: 0x3a, G: 0x3a, B: 0x3a, A: 0xff}, grid.Color.Color)
}

func TestDiskOverride(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)
	data := []byte("name: enemy\nsteering:\n  speed: 7\n  stop_distance: 2\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "enemy.yaml"), data, 0o644))

	enemy, err := LoadEnemySpec()
	require.NoError(t, err)
	assert.Equal(t, 7.0, enemy.Steering.Speed)
	assert.Equal(t, 2.0, enemy.Steering.StopDistance)

	_, ok := ModTime("prefabs/enemy.yaml")
	assert.True(t, ok)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()
	useDir(t, dir)

	cases := []struct {
		name string
		file string
		body string
		load func() error
	}{
		{"unknown_field", "enemy.yaml", "steering:\n  sped: 7\n", func() error { _, err := LoadEnemySpec(); return err }},
		{"negative_speed", "enemy.yaml", "steering:\n  speed: -1\n", func() error { _, err := LoadEnemySpec(); return err }},
		{"zero_radius", "player.yaml", "body:\n  radius: 0\n", func() error { _, err := LoadPlayerSpec(); return err }},
		{"bad_bounds", "camera.yaml", "rig:\n  min_height: 9\n  max_height: 3\n", func() error { _, err := LoadCameraSpec(); return err }},
		{"bad_color", "grid.yaml", "spacing: 1\ncolor: \"#zz\"\n", func() error { _, err := LoadGridSpec(); return err }},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			require.NoError(t, os.WriteFile(filepath.Join(dir, c.file), []byte(c.body), 0o644))
			t.Cleanup(func() { _ = os.Remove(filepath.Join(dir, c.file)) })
			assert.Error(t, c.load())
		})
	}

	_, err := LoadSpec[GridSpec]("missing.yaml")
	assert.ErrorContains(t, err, "prefabs: load missing.yaml")
}

func TestLoadScript(t *testing.T) {
	useDir(t, t.TempDir())
	for _, name := range []string{"walk_square.tengo", "scripts/orbit_zoom.tengo", "prefabs/scripts/click_walk.tengo"} {
		data, err := LoadScript(name)
		require.NoError(t, err, name)
		assert.Contains(t, string(data), "input := func(tick, time)")
	}
}

func TestScenarioFiles(t *testing.T) {
	useDir(t, t.TempDir())
	names, err := ScenarioNames()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"click_walk.yaml", "orbit_zoom.yaml", "walk_square.yaml"}, names)

	data, err := LoadScenario("scenarios/orbit_zoom.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "script: orbit_zoom.tengo")
}

func TestWatcherReportsWrites(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(dir)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "camera.yaml"), []byte("name: camera\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, "camera.yaml", name)
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("no event for camera.yaml")
	}

	require.NoError(t, w.Close())
	for range w.Events {
	}
	_, open := <-w.Events
	assert.False(t, open)
}
