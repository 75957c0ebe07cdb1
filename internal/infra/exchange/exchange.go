// Package exchange reads and writes board export files in JSON or YAML.
package exchange

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/runoshun/treeboard/internal/domain"
	"github.com/runoshun/treeboard/internal/store"
)

// FormatVersion is the current export file format.
const FormatVersion = 1

// Format is an export file encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath selects the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%s: %w", path, domain.ErrUnsupportedFormat)
	}
}

// File is the content of an export file. Tasks are nested; both graphs are stored
// as adjacency maps keyed by task id.
// Fields are ordered to minimize memory padding.
type File struct {
	Settings     *domain.Settings    `json:"settings,omitempty" yaml:"settings,omitempty"`
	RelatedTasks map[string][]string `json:"relatedTasks" yaml:"relatedTasks"`
	Dependencies map[string][]string `json:"dependencies" yaml:"dependencies"`
	ExportDate   string              `json:"exportDate" yaml:"exportDate"`
	Tasks        []*domain.Task      `json:"tasks" yaml:"tasks"`
	Projects     []domain.Project    `json:"projects" yaml:"projects"`
	Version      int                 `json:"version" yaml:"version"`
}

// Build creates an export of a store snapshot.
func Build(snap store.Snapshot, settings domain.Settings, now time.Time) *File {
	return &File{
		Version:      FormatVersion,
		ExportDate:   now.UTC().Format(time.RFC3339),
		Tasks:        snap.Tasks,
		Projects:     snap.Projects,
		RelatedTasks: snap.Related,
		Dependencies: snap.Dependencies,
		Settings:     &settings,
	}
}

// ImportData converts the file into the data accepted by store.Import.
func (f *File) ImportData() store.ImportData {
	in := store.ImportData{
		Tasks:        f.Tasks,
		Projects:     f.Projects,
		Related:      domain.Adjacency(f.RelatedTasks),
		Dependencies: domain.Adjacency(f.Dependencies),
	}
	if f.Settings != nil {
		in.Teams = f.Settings.Teams
	}
	return in
}

// Encode writes f to w.
func Encode(w io.Writer, f *File, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(f); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("%s: %w", format, domain.ErrUnsupportedFormat)
	}
}

// Decode reads an export from r and checks its version.
func Decode(r io.Reader, format Format) (*File, error) {
	var f File
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&f)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&f)
	default:
		return nil, fmt.Errorf("%s: %w", format, domain.ErrUnsupportedFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s export: %w", format, err)
	}
	if f.Version > FormatVersion {
		return nil, fmt.Errorf("export version %d: %w", f.Version, domain.ErrUnsupportedVersion)
	}
	return &f, nil
}

// WriteFile writes an export to path in the format given by its extension.
func WriteFile(path string, f *File) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	if err := Encode(out, f, format); err != nil {
		_ = out.Close()
		return fmt.Errorf("write export: %w", err)
	}
	return out.Close()
}

// ReadFile reads an export from path in the format given by its extension.
func ReadFile(path string) (*File, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	in, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open export: %w", err)
	}
	defer func() { _ = in.Close() }()
	return Decode(in, format)
}
