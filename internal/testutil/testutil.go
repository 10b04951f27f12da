// Package testutil provides shared test helpers for output roots and pipelines.
package testutil

import (
	"testing"

	"github.com/tftdatascientist/drdoc/internal/extract"
	"github.com/tftdatascientist/drdoc/internal/materialize"
	"github.com/tftdatascientist/drdoc/internal/pipeline"
	"github.com/tftdatascientist/drdoc/internal/storage"
	"github.com/tftdatascientist/drdoc/internal/transform"
)

// OutputRoot creates a temporary output directory with a storage.Provider.
func OutputRoot(t *testing.T) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// Materializer returns a materializer writing into a temporary root.
func Materializer(t *testing.T) (string, *materialize.Materializer) {
	t.Helper()
	dir, store := OutputRoot(t)
	return dir, materialize.New(store)
}

// Pipeline returns a pipeline with default extractor and transformer settings.
func Pipeline() *pipeline.Pipeline {
	return pipeline.NewDefault(extract.DefaultConfig(), extract.DefaultDetectConfig(), transform.DefaultConfig())
}
