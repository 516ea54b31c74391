package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	Load("")

	assert.Equal(t, "./sysloadbench_results", viper.GetString("results_dir"))
	assert.Equal(t, "", viper.GetString("metrics_addr"))
	assert.Equal(t, 10.0, viper.GetFloat64("compare_threshold"))
	assert.False(t, viper.GetBool("verbose"))
	assert.False(t, viper.GetBool("notifications.slack.enabled"))
	assert.Equal(t, "#benchmarks", viper.GetString("notifications.slack.channel"))
}

func TestLoadConfigFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte("results_dir: /data/bench\nverbose: true\n"), 0644))

	Load(cfg)

	assert.Equal(t, "/data/bench", viper.GetString("results_dir"))
	assert.True(t, viper.GetBool("verbose"))
}

func TestLoadEnvOverride(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	t.Setenv("SYSLOADBENCH_RESULTS_DIR", "/env/results")
	Load("")

	assert.Equal(t, "/env/results", viper.GetString("results_dir"))
}

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		set     map[string]any
		wantErr string
	}{
		{name: "defaults are valid"},
		{
			name:    "empty results dir",
			set:     map[string]any{"results_dir": ""},
			wantErr: "results_dir",
		},
		{
			name:    "malformed metrics addr",
			set:     map[string]any{"metrics_addr": "no-port"},
			wantErr: "metrics_addr",
		},
		{
			name: "valid metrics addr",
			set:  map[string]any{"metrics_addr": ":2112"},
		},
		{
			name:    "negative threshold",
			set:     map[string]any{"compare_threshold": -1.0},
			wantErr: "compare_threshold",
		},
		{
			name: "slack enabled without channel",
			set: map[string]any{
				"notifications.slack.enabled": true,
				"notifications.slack.channel": "",
			},
			wantErr: "notifications.slack.channel",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			viper.Reset()
			defer viper.Reset()
			Load("")
			for k, v := range tc.set {
				viper.Set(k, v)
			}

			err := Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				assert.ErrorContains(t, err, tc.wantErr)
			}
		})
	}
}
