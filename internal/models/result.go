package models

import (
	"sort"
	"strings"
)

// Result is the output of a transformer: named files plus an advisory
// directory layout.
//
// Files maps forward-slash relative paths to full file contents. Structure
// maps "root" or a directory name with a trailing slash to the file names
// expected there; it is used only for previews. A non-empty Errors slice
// means the transformation failed and nothing should be written.
type Result struct {
	Destination string              `json:"destination"`
	Files       map[string]string   `json:"files"`
	Structure   map[string][]string `json:"structure"`
	Metadata    map[string]any      `json:"metadata"`
	Errors      []string            `json:"errors"`
}

// NewResult returns an empty Result for destination.
func NewResult(destination string) *Result {
	return &Result{
		Destination: destination,
		Files:       map[string]string{},
		Structure:   map[string][]string{},
		Metadata:    map[string]any{},
		Errors:      []string{},
	}
}

// AddFile stores content under path, replacing any previous content.
// Backslashes are converted and leading slashes dropped.
func (r *Result) AddFile(path, content string) {
	r.Files[CleanPath(path)] = content
}

// AddError records a failure.
func (r *Result) AddError(msg string) {
	r.Errors = append(r.Errors, msg)
}

// Failed reports whether the result must not be materialized.
func (r *Result) Failed() bool {
	return len(r.Errors) > 0
}

// Paths returns the file paths in sorted order.
func (r *Result) Paths() []string {
	paths := make([]string, 0, len(r.Files))
	for p := range r.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// CleanPath normalises a result file key.
func CleanPath(path string) string {
	path = strings.ReplaceAll(path, "\\", "/")
	return strings.TrimLeft(path, "/")
}
