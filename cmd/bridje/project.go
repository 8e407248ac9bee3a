package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const projectFileName = "bridje.yml"

var errProjectNotFound = errors.New("bridje.yml not found")

// project is the optional per-directory configuration.
type project struct {
	Path      string
	Namespace string
	Requires  []string
	Prelude   string
	Sources   []string
}

type projectDisk struct {
	Namespace string   `yaml:"namespace"`
	Requires  []string `yaml:"requires"`
	Prelude   string   `yaml:"prelude"`
	Sources   []string `yaml:"sources"`
}

func loadProjectFrom(dir string) (*project, error) {
	path := filepath.Join(dir, projectFileName)
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("project: resolve %s: %w", path, err)
	}
	file, err := os.Open(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, errProjectNotFound
		}
		return nil, err
	}
	defer file.Close()

	var raw projectDisk
	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)
	if err := decoder.Decode(&raw); err != nil {
		return nil, fmt.Errorf("project: parse %s: %w", abs, err)
	}

	base := filepath.Dir(abs)
	proj := &project{
		Path:      abs,
		Namespace: strings.TrimSpace(raw.Namespace),
		Prelude:   resolveRelative(base, raw.Prelude),
	}
	for _, req := range raw.Requires {
		if req = strings.TrimSpace(req); req != "" {
			proj.Requires = append(proj.Requires, req)
		}
	}
	for _, src := range raw.Sources {
		if src = resolveRelative(base, src); src != "" {
			proj.Sources = append(proj.Sources, src)
		}
	}
	return proj, nil
}

func resolveRelative(base, path string) string {
	path = strings.TrimSpace(path)
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(base, path)
}

// loadOptionalProject returns nil when the current directory has no project
// file.
func loadOptionalProject() (*project, error) {
	proj, err := loadProjectFrom(".")
	if errors.Is(err, errProjectNotFound) {
		return nil, nil
	}
	return proj, err
}
