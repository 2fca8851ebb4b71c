package lua

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// PluginConfig is one entry in plugins.json.
type PluginConfig struct {
	Name string `json:"name"`

	// Commands maps a palette command id to either an inline Lua
	// source string or, when Source is empty, a file path relative to
	// the plugins.json directory.
	Commands map[string]HandlerConfig `json:"commands"`
}

// HandlerConfig locates one handler's Lua code.
type HandlerConfig struct {
	Source string `json:"source,omitempty"`
	File   string `json:"file,omitempty"`
}

// Config is the decoded plugins.json document.
type Config struct {
	Plugins []PluginConfig `json:"plugins"`
}

// LoadConfig reads and decodes plugins.json. A missing file is an
// empty config, not an error — most workspaces carry no plugins.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Config{}, nil
		}
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// BindConfig resolves every handler in cfg and binds it into catalog.
// baseDir anchors relative handler file paths. An id outside the
// command taxonomy or an unreadable handler file fails the whole load:
// a plugin that cannot mean what it says should not half-install.
func BindConfig(catalog *Catalog, cfg Config, baseDir string) error {
	for _, p := range cfg.Plugins {
		for id, h := range p.Commands {
			cmd, ok := ParseCommand(id)
			if !ok {
				return fmt.Errorf("plugin %s: %w: %q", p.Name, ErrUnknownCommand, id)
			}
			source := h.Source
			if source == "" {
				if h.File == "" {
					return fmt.Errorf("plugin %s: command %q has neither source nor file", p.Name, id)
				}
				data, err := os.ReadFile(filepath.Join(baseDir, h.File))
				if err != nil {
					return fmt.Errorf("plugin %s: %w", p.Name, err)
				}
				source = string(data)
			}
			if err := catalog.Bind(cmd, Binding{Plugin: p.Name, Source: source}); err != nil {
				return err
			}
		}
	}
	return nil
}
