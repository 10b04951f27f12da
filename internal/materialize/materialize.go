// Package materialize writes transform results under an output root and
// renders previews of them without touching disk.
package materialize

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/tftdatascientist/drdoc/internal/apperr"
	"github.com/tftdatascientist/drdoc/internal/models"
	"github.com/tftdatascientist/drdoc/internal/storage"
)

// Materializer writes results into <root>/<project>/. Concurrent writers
// targeting the same project race on overwrite.
type Materializer struct {
	store storage.Provider
}

// New returns a materializer writing through store.
func New(store storage.Provider) *Materializer {
	return &Materializer{store: store}
}

// DefaultProject is the project directory used when none is given:
// <destination>_output.
func DefaultProject(destination string) string {
	return destination + "_output"
}

// Generate writes every file of res below project and returns a map from
// relative path to absolute path written. Existing files are overwritten;
// files not in res are left alone. A result carrying errors is refused.
func (m *Materializer) Generate(res *models.Result, project string) (map[string]string, error) {
	if err := refuse(res); err != nil {
		return nil, err
	}
	if project == "" {
		project = DefaultProject(res.Destination)
	}
	if err := m.store.MkdirAll(project); err != nil {
		return nil, fmt.Errorf("materialize: %w", err)
	}

	written := make(map[string]string, len(res.Files))
	for _, rel := range res.Paths() {
		target := path.Join(project, rel)
		if err := m.store.Write(target, []byte(res.Files[rel])); err != nil {
			return written, fmt.Errorf("materialize: write %s: %w", rel, err)
		}
		abs, err := m.store.Abs(target)
		if err != nil {
			return written, fmt.Errorf("materialize: %w", err)
		}
		written[rel] = abs
	}
	return written, nil
}

// GenerateStructure creates the project directory and every directory
// declared in res.Structure, writing no files. It returns the absolute
// directories created, project first.
func (m *Materializer) GenerateStructure(res *models.Result, project string) ([]string, error) {
	if err := refuse(res); err != nil {
		return nil, err
	}
	if project == "" {
		project = DefaultProject(res.Destination)
	}
	dirs := []string{project}
	keys := make([]string, 0, len(res.Structure))
	for k := range res.Structure {
		if strings.HasSuffix(k, "/") {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		dirs = append(dirs, path.Join(project, strings.TrimSuffix(k, "/")))
	}

	created := make([]string, 0, len(dirs))
	for _, d := range dirs {
		if err := m.store.MkdirAll(d); err != nil {
			return created, fmt.Errorf("materialize: %w", err)
		}
		abs, err := m.store.Abs(d)
		if err != nil {
			return created, fmt.Errorf("materialize: %w", err)
		}
		created = append(created, abs)
	}
	return created, nil
}

// Clean removes a previously generated project directory.
func (m *Materializer) Clean(project string) error {
	if project == "" {
		return fmt.Errorf("materialize: empty project name: %w", apperr.ErrInvalidPath)
	}
	if err := m.store.RemoveAll(project); err != nil {
		return fmt.Errorf("materialize: clean: %w", err)
	}
	return nil
}

// Files lists what is currently on disk for project.
func (m *Materializer) Files(project string) ([]storage.FileInfo, error) {
	if project == "" {
		return nil, fmt.Errorf("materialize: empty project name: %w", apperr.ErrInvalidPath)
	}
	return m.store.List(project)
}

// Read returns one generated file.
func (m *Materializer) Read(project, rel string) ([]byte, error) {
	if project == "" || rel == "" {
		return nil, fmt.Errorf("materialize: empty path: %w", apperr.ErrInvalidPath)
	}
	data, err := m.store.Read(path.Join(project, models.CleanPath(rel)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("materialize: %s/%s: %w", project, rel, apperr.ErrNotFound)
	}
	return data, err
}

// Remove deletes one generated file of project.
func (m *Materializer) Remove(project, rel string) error {
	if project == "" || rel == "" {
		return fmt.Errorf("materialize: empty path: %w", apperr.ErrInvalidPath)
	}
	return m.store.Delete(path.Join(project, models.CleanPath(rel)))
}

// Path returns the absolute directory of project.
func (m *Materializer) Path(project string) (string, error) {
	return m.store.Abs(project)
}

func refuse(res *models.Result) error {
	if res == nil {
		return fmt.Errorf("materialize: nil result: %w", apperr.ErrTransformFailed)
	}
	if res.Failed() {
		return fmt.Errorf("%w: %s", apperr.ErrTransformFailed, strings.Join(res.Errors, "; "))
	}
	return nil
}
