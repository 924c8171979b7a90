// Package config loads remedy.toml, which binds language servers to
// filetypes.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is discovered by walking up from the target file's directory.
const FileName = "remedy.toml"

// Config is the parsed manifest.
//
//	[[server]]
//	name = "gopls"
//	command = "gopls"
//	args = ["serve"]
//	filetypes = ["go"]
//	offset_encoding = "utf-16"
type Config struct {
	Servers []ServerConfig `toml:"server"`
}

// ServerConfig describes one language server to attach.
type ServerConfig struct {
	Name           string   `toml:"name"`
	Command        string   `toml:"command"`
	Args           []string `toml:"args"`
	Filetypes      []string `toml:"filetypes"`
	OffsetEncoding string   `toml:"offset_encoding"`
}

// Find walks up from startDir looking for the manifest.
func Find(startDir string) (string, bool, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, FileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load parses the manifest at path.
func Load(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	for i, s := range cfg.Servers {
		if s.Name == "" {
			return nil, fmt.Errorf("%s: server %d has no name", path, i+1)
		}
		if s.Command == "" {
			return nil, fmt.Errorf("%s: server %q has no command", path, s.Name)
		}
	}
	return &cfg, nil
}

// ServersFor returns the servers bound to a filetype (file extension
// without the dot).
func (c *Config) ServersFor(filetype string) []ServerConfig {
	var out []ServerConfig
	for _, s := range c.Servers {
		for _, ft := range s.Filetypes {
			if ft == filetype {
				out = append(out, s)
				break
			}
		}
	}
	return out
}
