package config

import (
	"io"
	"path/filepath"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
)

func TestInitialize(t *testing.T) {
	tempDir := t.TempDir()
	cfg, err := Initialize(tempDir, log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, Default(), cfg)

	// Check that the config is valid
	loaded, err := Load(filepath.Join(tempDir, ConfigurationName))
	if err != nil {
		t.Fatal(err)
	}
	assert.Equal(t, cfg, loaded)
}

func TestInitializeFs_keepsExisting(t *testing.T) {
	fsys := afero.NewMemMapFs()
	assert.Nil(t, afero.WriteFile(fsys, "/cfg/config.yaml", []byte("uniq_count_width: 7\n"), 0600))

	cfg, err := InitializeFs(fsys, "/cfg", log.New(io.Discard))
	assert.Nil(t, err)
	assert.Equal(t, 7, cfg.UniqCountWidth)
	assert.Equal(t, 1000, cfg.FollowIntervalMs, "unset fields keep defaults")
}

func TestLoadFs(t *testing.T) {
	cases := map[string]struct {
		contents string
		wantErr  bool
	}{
		"partial":       {contents: "follow_interval_ms: 20\n"},
		"unknown-field": {contents: "motd: hello\n", wantErr: true},
		"invalid-value": {contents: "uniq_count_width: 0\n", wantErr: true},
		"not-yaml":      {contents: "{", wantErr: true},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			fsys := afero.NewMemMapFs()
			assert.Nil(t, afero.WriteFile(fsys, "/config.yaml", []byte(tc.contents), 0600))

			_, err := LoadFs(fsys, "/")
			assert.Equal(t, tc.wantErr, err != nil, "error: %v", err)
		})
	}

	t.Run("missing", func(t *testing.T) {
		_, err := LoadFs(afero.NewMemMapFs(), "/nowhere")
		assert.NotNil(t, err)
	})
}
