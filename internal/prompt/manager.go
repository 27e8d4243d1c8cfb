// Package prompt loads and renders the YAML prompt templates used by the
// analysis stages. Built-in defaults are embedded; a prompt directory can
// override any of them by file name.
package prompt

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed defaults/*.yaml
var defaultsFS embed.FS

// Prompt is one system/user message pair. The user template may contain
// {placeholder} variables substituted at render time.
type Prompt struct {
	System string `yaml:"system"`
	User   string `yaml:"user"`
}

type promptFile struct {
	Prompts Prompt `yaml:"prompts"`
}

// Manager holds all loaded prompts keyed by file name without extension.
type Manager struct {
	prompts map[string]Prompt
}

// NewManager loads the embedded defaults and then any overrides from dir.
// An empty dir means defaults only.
func NewManager(dir string) (*Manager, error) {
	m := &Manager{prompts: make(map[string]Prompt)}

	if err := m.loadFS(defaultsFS, "defaults"); err != nil {
		return nil, fmt.Errorf("load embedded prompts: %w", err)
	}

	if dir != "" {
		if err := m.loadDir(dir); err != nil {
			return nil, fmt.Errorf("load prompt dir %s: %w", dir, err)
		}
	}

	return m, nil
}

func (m *Manager) loadFS(fsys fs.FS, root string) error {
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		data, err := fs.ReadFile(fsys, filepath.Join(root, entry.Name()))
		if err != nil {
			return err
		}
		if err := m.add(entry.Name(), data); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) loadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return err
		}
		if err := m.add(entry.Name(), data); err != nil {
			return err
		}
	}
	return nil
}

func (m *Manager) add(filename string, data []byte) error {
	var pf promptFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		return fmt.Errorf("parse %s: %w", filename, err)
	}
	key := strings.TrimSuffix(strings.TrimSuffix(filename, ".yaml"), ".yml")
	m.prompts[key] = pf.Prompts
	return nil
}

// Get returns the prompt registered under key.
func (m *Manager) Get(key string) (Prompt, error) {
	p, ok := m.prompts[key]
	if !ok {
		return Prompt{}, fmt.Errorf("prompt %q not found", key)
	}
	return p, nil
}

// Render substitutes {name} placeholders in the user template and returns
// the finished system and user texts.
func (p Prompt) Render(vars map[string]string) (system, user string) {
	user = p.User
	for name, value := range vars {
		user = strings.ReplaceAll(user, "{"+name+"}", value)
	}
	return p.System, user
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}
