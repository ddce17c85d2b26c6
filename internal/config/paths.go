package config

import (
	"os"
	"path/filepath"

	"github.com/jeanhaley32/bluepill/internal/constants"
)

// Paths resolves the XDG config and cache locations.
type Paths struct {
	getenv func(string) string
}

// NewPaths creates a Paths backed by the process environment.
func NewPaths() *Paths {
	return &Paths{getenv: os.Getenv}
}

// home returns $HOME, or / when it is unset.
func (p *Paths) home() string {
	if home := p.getenv("HOME"); home != "" {
		return home
	}
	return "/"
}

// xdgDir returns the XDG directory named by envVar, or $HOME/<fallback>.
func (p *Paths) xdgDir(envVar, fallback string) string {
	if dir := p.getenv(envVar); dir != "" {
		return dir
	}
	return filepath.Join(p.home(), fallback)
}

// ConfigFile returns the config file path.
// Returns: $XDG_CONFIG_HOME/bluepill.json or ~/.config/bluepill.json
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.xdgDir("XDG_CONFIG_HOME", ".config"), constants.ConfigFileName)
}

// CacheDir returns the cache directory.
// Returns: $XDG_CACHE_HOME/bluepill or ~/.cache/bluepill
func (p *Paths) CacheDir() string {
	return filepath.Join(p.xdgDir("XDG_CACHE_HOME", ".cache"), constants.AppName)
}

// CacheFile mirrors the absolute path of file under the cache directory.
// Example: /home/me/src/a.txt -> ~/.cache/bluepill/home/me/src/a.txt
func (p *Paths) CacheFile(file string) string {
	abs, err := filepath.Abs(file)
	if err != nil {
		abs = file
	}
	rel, err := filepath.Rel(string(filepath.Separator), abs)
	if err != nil {
		rel = abs
	}
	return filepath.Join(p.CacheDir(), rel)
}
