package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseConfString(t *testing.T) {
	b := parseConfString("rtmp.url=rtmp://localhost/live/cam")
	require.Equal(t, "{rtmp: {url: rtmp://localhost/live/cam}}", string(b))

	b = parseConfString("log.rtmp=trace")
	require.Equal(t, "{log: {rtmp: trace}}", string(b))

	require.Nil(t, parseConfString("rtmpclient.yaml"))
	require.Nil(t, parseConfString("level=trace"))
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("RTMP_HOST", "192.168.1.123")

	path := filepath.Join(t.TempDir(), "test.yaml")
	data := []byte(`
rtmp:
  url: rtmp://${RTMP_HOST}/live/${RTMP_STREAM:cam}
  start: 0
  timeout: 3s
`)
	require.Nil(t, os.WriteFile(path, data, 0644))

	configs = nil
	ConfigPath = ""
	t.Cleanup(func() {
		configs = nil
		ConfigPath = ""
	})

	initConfig(flagConfig{path, "rtmp.duration=60", `{"rtmp": {"reset": 1}}`, "missing.yaml"})
	require.Equal(t, path, ConfigPath)
	require.Len(t, configs, 3)

	var cfg struct {
		Mod struct {
			URL      string        `yaml:"url"`
			Start    float64       `yaml:"start"`
			Duration float64       `yaml:"duration"`
			Reset    float64       `yaml:"reset"`
			Timeout  time.Duration `yaml:"timeout"`
		} `yaml:"rtmp"`
	}
	cfg.Mod.Start = -2
	cfg.Mod.Duration = -1
	cfg.Mod.Reset = -1

	LoadConfig(&cfg)

	require.Equal(t, "rtmp://192.168.1.123/live/cam", cfg.Mod.URL)
	require.Equal(t, float64(0), cfg.Mod.Start)
	require.Equal(t, float64(60), cfg.Mod.Duration)
	require.Equal(t, float64(1), cfg.Mod.Reset)
	require.Equal(t, 3*time.Second, cfg.Mod.Timeout)
}

func TestFlagConfig(t *testing.T) {
	var confs flagConfig
	require.Nil(t, confs.Set("a.yaml"))
	require.Nil(t, confs.Set("log.level=debug"))
	require.Equal(t, "a.yaml log.level=debug", confs.String())
}
