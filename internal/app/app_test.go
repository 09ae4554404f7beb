package app

import (
	"os"
	"testing"

	"github.com/glacierterm/glacierterm/internal/config"
	"github.com/glacierterm/glacierterm/internal/ui"
)

// withTempHome redirects the config package's home-relative paths (yaml
// config, settings, session and chat-record files) to a scratch
// directory for the duration of a test.
func withTempHome(t *testing.T) {
	dir := t.TempDir()
	orig := os.Getenv("HOME")
	os.Setenv("HOME", dir)
	t.Cleanup(func() { os.Setenv("HOME", orig) })
}

// newTestModel builds a Model with a fixed window size and no saved
// session, bypassing New so tests don't touch $HOME unless they ask to.
func newTestModel() Model {
	cfg := config.DefaultConfig()
	return Model{
		cfg:             cfg,
		settings:        config.DefaultSettings(),
		dialog:          ui.NewDialog(cfg),
		dialogTargetTab: -1,
		tabIdx:          -1,
		width:           100,
		height:          40,
	}
}
